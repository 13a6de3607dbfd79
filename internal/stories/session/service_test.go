package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pkg/errors"

	"fare-dashboard/internal/infra/fareapi"
)

type storageMock struct {
	sessions         map[string]Session
	deletedSnapshots []string
}

func newStorageMock() *storageMock {
	return &storageMock{sessions: make(map[string]Session)}
}

func (m *storageMock) CreateSession(_ context.Context, sess Session) (*Session, error) {
	m.sessions[sess.ID] = sess
	return &sess, nil
}

func (m *storageMock) GetSession(_ context.Context, id string) (*Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (m *storageMock) DeleteSession(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func (m *storageMock) DeleteFareSnapshot(_ context.Context, username string) error {
	m.deletedSnapshots = append(m.deletedSnapshots, username)
	return nil
}

type authAPIMock struct {
	creds *fareapi.Credentials
	err   error
	calls int
}

func (m *authAPIMock) Login(_ context.Context, _, _ string) (*fareapi.Credentials, error) {
	m.calls++
	return m.creds, m.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	storage := newStorageMock()
	auth := &authAPIMock{creds: &fareapi.Credentials{
		Username: "admin",
		Token:    "tok-123",
		UserID:   "42",
	}}
	svc := NewService(storage, auth, 12*time.Hour, testLogger())

	sess, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess == nil {
		t.Fatal("Login returned nil session on success")
	}

	if sess.ID == "" {
		t.Error("session has no ID")
	}
	if sess.Username != "admin" || sess.Token != "tok-123" || sess.UserID != "42" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if got := sess.ExpiresAt.Sub(sess.CreatedAt); got != 12*time.Hour {
		t.Errorf("TTL = %v, want 12h", got)
	}

	if _, ok := storage.sessions[sess.ID]; !ok {
		t.Error("session was not persisted")
	}
}

func TestLoginRejectedPersistsNothing(t *testing.T) {
	storage := newStorageMock()
	auth := &authAPIMock{creds: nil}
	svc := NewService(storage, auth, time.Hour, testLogger())

	sess, err := svc.Login(context.Background(), "admin", "wrong")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess != nil {
		t.Errorf("rejected login returned a session: %+v", sess)
	}
	if len(storage.sessions) != 0 {
		t.Error("rejected login persisted a session")
	}
}

func TestLoginTransportFailure(t *testing.T) {
	storage := newStorageMock()
	auth := &authAPIMock{err: errors.New("connection refused")}
	svc := NewService(storage, auth, time.Hour, testLogger())

	_, err := svc.Login(context.Background(), "admin", "secret")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(storage.sessions) != 0 {
		t.Error("failed login persisted a session")
	}
}

func TestRestore(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		stored *Session
		id     string
		want   bool
		purged bool
	}{
		{
			name: "valid session restores",
			stored: &Session{
				ID: "s1", Username: "admin", Token: "tok",
				ExpiresAt: now.Add(time.Hour),
			},
			id:   "s1",
			want: true,
		},
		{
			name: "empty id",
			id:   "",
			want: false,
		},
		{
			name: "unknown id",
			id:   "missing",
			want: false,
		},
		{
			name: "expired session purged",
			stored: &Session{
				ID: "s2", Username: "admin", Token: "tok",
				ExpiresAt: now.Add(-time.Minute),
			},
			id:     "s2",
			want:   false,
			purged: true,
		},
		{
			name: "malformed session purged",
			stored: &Session{
				ID: "s3", Username: "", Token: "",
				ExpiresAt: now.Add(time.Hour),
			},
			id:     "s3",
			want:   false,
			purged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newStorageMock()
			if tt.stored != nil {
				storage.sessions[tt.stored.ID] = *tt.stored
			}
			svc := NewService(storage, &authAPIMock{}, time.Hour, testLogger())

			sess, err := svc.Restore(context.Background(), tt.id)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if (sess != nil) != tt.want {
				t.Errorf("Restore() = %+v, want session: %v", sess, tt.want)
			}
			if tt.purged {
				if _, ok := storage.sessions[tt.id]; ok {
					t.Error("stale session was not purged")
				}
			}
		})
	}
}

func TestLogoutClearsSessionAndSnapshot(t *testing.T) {
	storage := newStorageMock()
	storage.sessions["s1"] = Session{ID: "s1", Username: "admin", Token: "tok"}
	svc := NewService(storage, &authAPIMock{}, time.Hour, testLogger())

	sess := Session{ID: "s1", Username: "admin", Token: "tok"}
	if err := svc.Logout(context.Background(), &sess); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, ok := storage.sessions["s1"]; ok {
		t.Error("session survived logout")
	}
	if len(storage.deletedSnapshots) != 1 || storage.deletedSnapshots[0] != "admin" {
		t.Errorf("snapshot deletions = %v, want [admin]", storage.deletedSnapshots)
	}
}

func TestLogoutNilSessionIsNoop(t *testing.T) {
	svc := NewService(newStorageMock(), &authAPIMock{}, time.Hour, testLogger())
	if err := svc.Logout(context.Background(), nil); err != nil {
		t.Errorf("Logout(nil) = %v, want nil", err)
	}
}
