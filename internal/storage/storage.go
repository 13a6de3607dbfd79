package storage

import (
	"database/sql"
	"reflect"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"fare-dashboard/internal/infra/sqlite3"
)

type storageImpl struct {
	db  *sqlx.DB
	now func() time.Time
	tx  sqlite3.TxManager
}

func New(db *sqlx.DB) *storageImpl {
	return &storageImpl{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
		tx:  sqlite3.WithTx(func() (*sql.DB, error) { return db.DB, nil }, nil),
	}
}

func (s *storageImpl) stmpBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// fields returns the comma-separated list of db-tagged struct fields.
func fields(data any) string {
	var s string
	r := reflect.TypeOf(data)
	for i := 0; i < r.NumField(); i++ {
		tag := r.Field(i).Tag.Get("db")
		if tag != "" {
			s += tag + ","
		}
	}
	return s[:len(s)-1]
}
