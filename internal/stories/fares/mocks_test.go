package fares

import (
	"context"

	"fare-dashboard/internal/infra/fareapi"
)

// fareAPIMock records every request so tests can assert exactly what would
// have gone over the wire.
type fareAPIMock struct {
	queries  []fareapi.QueryRequest
	records  []fareapi.FareRecord
	queryErr error

	updates       []fareapi.UpdateRequest
	updateMessage string
	updateErr     error
}

func (m *fareAPIMock) GetFareData(_ context.Context, req fareapi.QueryRequest) ([]fareapi.FareRecord, error) {
	m.queries = append(m.queries, req)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.records, nil
}

func (m *fareAPIMock) UpdateFare(_ context.Context, req fareapi.UpdateRequest) (string, error) {
	m.updates = append(m.updates, req)
	if m.updateErr != nil {
		return "", m.updateErr
	}
	return m.updateMessage, nil
}
