package session

import (
	"context"

	"fare-dashboard/internal/infra/fareapi"
)

type (
	Storage interface {
		CreateSession(ctx context.Context, sess Session) (*Session, error)
		GetSession(ctx context.Context, id string) (*Session, error)
		DeleteSession(ctx context.Context, id string) error
		DeleteFareSnapshot(ctx context.Context, username string) error
	}

	AuthAPI interface {
		Login(ctx context.Context, username, password string) (*fareapi.Credentials, error)
	}
)
