package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
)

type (
	TxFunc               = func(*sql.Tx) error
	TxSessionFactoryFunc = func() (*sql.DB, error)
	TxManager            = func(ctx context.Context, fn TxFunc) error
	TxOptions            = *sql.TxOptions
)

// WithTx wraps fn in a transaction. The transaction is rolled back when fn
// returns an error or panics, committed otherwise.
func WithTx(starterFn TxSessionFactoryFunc, txOpts TxOptions) TxManager {
	return func(ctx context.Context, fn TxFunc) error {
		db, err := starterFn()
		if err != nil {
			return fmt.Errorf("db connection error: %w", err)
		}

		tx, err := db.BeginTx(ctx, txOpts)
		if err != nil {
			return fmt.Errorf("db begin transaction: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			}
		}()

		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("db transaction error: %v, rollback error: %w", err, rbErr)
			}
			return fmt.Errorf("db transaction error: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("db commit transaction: %w", err)
		}

		return nil
	}
}
