package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"fare-dashboard/internal/stories/session"
)

const sessionsTable = "web_sessions"

var sessionRowFields = fields(sessionRow{})

type sessionRow struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (r sessionRow) ToModel() *session.Session {
	return &session.Session{
		ID:        r.ID,
		Username:  r.Username,
		Token:     r.Token,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

func (s *storageImpl) CreateSession(ctx context.Context, sess session.Session) (*session.Session, error) {
	params := map[string]interface{}{
		"id":         sess.ID,
		"username":   sess.Username,
		"token":      sess.Token,
		"user_id":    sess.UserID,
		"created_at": sess.CreatedAt,
		"expires_at": sess.ExpiresAt,
	}

	q, args, err := s.stmpBuilder().
		Insert(sessionsTable).
		SetMap(params).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("db.ExecContext: %w", err)
	}

	return s.GetSession(ctx, sess.ID)
}

func (s *storageImpl) GetSession(ctx context.Context, id string) (*session.Session, error) {
	q, args, err := s.stmpBuilder().
		Select(sessionRowFields).
		From(sessionsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sql query: %w", err)
	}

	var row sessionRow
	err = s.db.GetContext(ctx, &row, q, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("db.GetContext: %w", err)
	}

	return row.ToModel(), nil
}

func (s *storageImpl) DeleteSession(ctx context.Context, id string) error {
	q, args, err := s.stmpBuilder().
		Delete(sessionsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build sql query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (s *storageImpl) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	q, args, err := s.stmpBuilder().
		Delete(sessionsTable).
		Where(sq.Lt{"expires_at": s.now()}).
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
