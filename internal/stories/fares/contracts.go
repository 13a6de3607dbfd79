package fares

import (
	"context"

	"fare-dashboard/internal/infra/fareapi"
)

type (
	FareAPI interface {
		GetFareData(ctx context.Context, req fareapi.QueryRequest) ([]fareapi.FareRecord, error)
		UpdateFare(ctx context.Context, req fareapi.UpdateRequest) (string, error)
	}
)
