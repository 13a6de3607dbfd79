package dashboard

import (
	"context"

	"fare-dashboard/internal/stories/fares"
	"fare-dashboard/internal/stories/session"
)

type (
	sessionService interface {
		Login(ctx context.Context, username, password string) (*session.Session, error)
		Restore(ctx context.Context, id string) (*session.Session, error)
		Logout(ctx context.Context, sess *session.Session) error
	}

	fareService interface {
		Search(ctx context.Context, criteria fares.FilterCriteria) ([]fares.FareRecord, error)
		SubmitEdit(ctx context.Context, flow *fares.EditFlow, ws *fares.Workspace, userLogon string) (*fares.EditResult, error)
	}

	snapshotStorage interface {
		ReplaceFareSnapshot(ctx context.Context, username string, records []fares.FareRecord) error
		GetFareSnapshot(ctx context.Context, username string) ([]fares.FareRecord, error)
	}

	localizer interface {
		Get(key string, params map[string]interface{}) string
	}
)
