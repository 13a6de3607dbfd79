package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Service owns the login/logout lifecycle. It is injected into every consumer
// that needs the current user; there is no process-wide session global.
type Service struct {
	storage Storage
	authAPI AuthAPI
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(storage Storage, authAPI AuthAPI, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		authAPI: authAPI,
		ttl:     ttl,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates against the external auth endpoint. A rejected login
// returns (nil, nil): nothing is persisted and any prior session stays as it
// was. Only transport failures surface as errors.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	creds, err := s.authAPI.Login(ctx, username, password)
	if err != nil {
		return nil, errors.Wrap(err, "auth endpoint")
	}
	if creds == nil {
		s.logger.Info("login rejected", slog.String("username", username))
		return nil, nil
	}

	now := s.now()
	sess := Session{
		ID:        uuid.New().String(),
		Username:  creds.Username,
		Token:     creds.Token,
		UserID:    creds.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	created, err := s.storage.CreateSession(ctx, sess)
	if err != nil {
		return nil, errors.Wrap(err, "persist session")
	}

	s.logger.Info("login succeeded", slog.String("username", created.Username))
	return created, nil
}

// Restore looks up the persisted session for a cookie value. Missing, expired
// or malformed rows all read as "not authenticated"; broken rows are purged so
// they do not resurface.
func (s *Service) Restore(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}

	sess, err := s.storage.GetSession(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "load session")
	}
	if sess == nil {
		return nil, nil
	}

	if sess.malformed() || sess.Expired(s.now()) {
		if err := s.storage.DeleteSession(ctx, sess.ID); err != nil {
			s.logger.Error("failed to purge stale session", slog.Any("error", err))
		}
		return nil, nil
	}

	return sess, nil
}

// Logout drops the persisted session and the user's cached search results.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := s.storage.DeleteSession(ctx, sess.ID); err != nil {
		return errors.Wrap(err, "delete session")
	}
	if err := s.storage.DeleteFareSnapshot(ctx, sess.Username); err != nil {
		return errors.Wrap(err, "delete fare snapshot")
	}
	s.logger.Info("logout", slog.String("username", sess.Username))
	return nil
}
