package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"fare-dashboard/internal/stories/fares"
)

const fareSnapshotsTable = "fare_snapshots"

var fareSnapshotRowFields = fields(fareSnapshotRow{})

// fareSnapshotRow caches one row of a user's last search so the table can be
// restored after a reload without hitting the upstream API again.
type fareSnapshotRow struct {
	ID             int64     `db:"id"`
	Username       string    `db:"username"`
	FareID         string    `db:"fare_id"`
	Sector         string    `db:"sector"`
	BookRcd        string    `db:"book_rcd"`
	FareCode       string    `db:"fare_code"`
	FareAmount     float64   `db:"fare_amount"`
	Currency       string    `db:"currency"`
	FlightDateFrom string    `db:"flight_date_from"`
	FlightDateTo   string    `db:"flight_date_to"`
	ValidOnFlight  string    `db:"valid_on_flight"`
	SearchedAt     time.Time `db:"searched_at"`
}

func (r fareSnapshotRow) ToModel() fares.FareRecord {
	return fares.FareRecord{
		ID:               r.FareID,
		Sector:           r.Sector,
		BookingClassCode: r.BookRcd,
		FareCode:         r.FareCode,
		Amount:           r.FareAmount,
		Currency:         r.Currency,
		FlightDateFrom:   r.FlightDateFrom,
		FlightDateTo:     r.FlightDateTo,
		ValidOnFlight:    r.ValidOnFlight,
	}
}

// ReplaceFareSnapshot swaps the user's cached result set wholesale, in one
// transaction so a reload never observes a half-written snapshot.
func (s *storageImpl) ReplaceFareSnapshot(ctx context.Context, username string, records []fares.FareRecord) error {
	now := s.now()

	return s.tx(ctx, func(tx *sql.Tx) error {
		q, args, err := s.stmpBuilder().
			Delete(fareSnapshotsTable).
			Where(sq.Eq{"username": username}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("tx.ExecContext delete: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		insert := s.stmpBuilder().
			Insert(fareSnapshotsTable).
			Columns("username", "fare_id", "sector", "book_rcd", "fare_code",
				"fare_amount", "currency", "flight_date_from", "flight_date_to",
				"valid_on_flight", "searched_at")
		for _, rec := range records {
			insert = insert.Values(username, rec.ID, rec.Sector, rec.BookingClassCode,
				rec.FareCode, rec.Amount, rec.Currency, rec.FlightDateFrom,
				rec.FlightDateTo, rec.ValidOnFlight, now)
		}

		q, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("tx.ExecContext insert: %w", err)
		}

		return nil
	})
}

func (s *storageImpl) GetFareSnapshot(ctx context.Context, username string) ([]fares.FareRecord, error) {
	q, args, err := s.stmpBuilder().
		Select(fareSnapshotRowFields).
		From(fareSnapshotsTable).
		Where(sq.Eq{"username": username}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var rows []fareSnapshotRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext: %w", err)
	}

	records := make([]fares.FareRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToModel())
	}
	return records, nil
}

func (s *storageImpl) DeleteFareSnapshot(ctx context.Context, username string) error {
	q, args, err := s.stmpBuilder().
		Delete(fareSnapshotsTable).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

// DeleteOrphanSnapshots drops cached results whose owner no longer has a live
// session. Run by the sweeper worker.
func (s *storageImpl) DeleteOrphanSnapshots(ctx context.Context) (int64, error) {
	q, args, err := s.stmpBuilder().
		Delete(fareSnapshotsTable).
		Where(sq.Expr("username NOT IN (SELECT username FROM " + sessionsTable + ")")).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sql query: %w", err)
	}

	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("db.ExecContext: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("result.RowsAffected: %w", err)
	}

	return affected, nil
}
