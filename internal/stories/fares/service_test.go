package fares

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"fare-dashboard/internal/infra/fareapi"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSearchRequiresOriginAndDestination(t *testing.T) {
	tests := []struct {
		name        string
		origin      string
		destination string
	}{
		{name: "both empty", origin: "", destination: ""},
		{name: "missing destination", origin: "KTM", destination: ""},
		{name: "missing origin", origin: "", destination: "PKR"},
		{name: "whitespace only", origin: "  ", destination: "PKR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fareAPIMock{}
			svc := NewService(api, testDefaults(), testLogger())

			_, err := svc.Search(context.Background(), FilterCriteria{
				Origin:      tt.origin,
				Destination: tt.destination,
			})
			if err != ErrMissingSector {
				t.Errorf("err = %v, want ErrMissingSector", err)
			}
			if len(api.queries) != 0 {
				t.Errorf("API was called %d time(s) for an invalid sector", len(api.queries))
			}
		})
	}
}

func TestSearchBuildsWireRequest(t *testing.T) {
	api := &fareAPIMock{}
	svc := NewService(api, testDefaults(), testLogger())

	_, err := svc.Search(context.Background(), FilterCriteria{
		Origin:       "KTM",
		Destination:  "PKR",
		BookingClass: "E",
		FareCode:     "E1",
		FlightDate:   "2025-06-01",
		Currency:     "USD",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(api.queries) != 1 {
		t.Fatalf("API called %d time(s), want 1", len(api.queries))
	}
	req := api.queries[0]
	if req.Sector != "KTMPKR" {
		t.Errorf("Sector = %q, want %q", req.Sector, "KTMPKR")
	}
	if req.Currency != "usd" {
		t.Errorf("Currency = %q, want lower-cased %q", req.Currency, "usd")
	}
	if req.FareCode != "E1" || req.BookingClassRcd != "E" || req.FlightDate != "2025-06-01" {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestSearchCurrencyFallback(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		want     string
	}{
		{name: "ALL falls back to default", currency: "ALL", want: "npr"},
		{name: "all lower-case falls back too", currency: "all", want: "npr"},
		{name: "empty falls back to default", currency: "", want: "npr"},
		{name: "explicit currency lower-cased", currency: "USD", want: "usd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fareAPIMock{}
			svc := NewService(api, testDefaults(), testLogger())

			_, err := svc.Search(context.Background(), FilterCriteria{
				Origin:      "KTM",
				Destination: "PKR",
				Currency:    tt.currency,
			})
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if got := api.queries[0].Currency; got != tt.want {
				t.Errorf("Currency = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchMapsWireRecords(t *testing.T) {
	api := &fareAPIMock{
		records: []fareapi.FareRecord{
			{
				FareID:         "8842",
				Sector:         "KTMPKR",
				BookRcd:        "E",
				FareCode:       "E1",
				FareAmount:     4300,
				Currency:       "NPR",
				FlightDateFrom: "2025-06-01",
				FlightDateTo:   "2025-06-30",
				ValidOnFlight:  "U4601",
			},
		},
	}
	svc := NewService(api, testDefaults(), testLogger())

	records, err := svc.Search(context.Background(), FilterCriteria{Origin: "KTM", Destination: "PKR"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	got := records[0]
	want := FareRecord{
		ID:               "8842",
		Sector:           "KTMPKR",
		BookingClassCode: "E",
		FareCode:         "E1",
		Amount:           4300,
		Currency:         "NPR",
		FlightDateFrom:   "2025-06-01",
		FlightDateTo:     "2025-06-30",
		ValidOnFlight:    "U4601",
	}
	if got != want {
		t.Errorf("record = %+v, want %+v", got, want)
	}
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	api := &fareAPIMock{}
	svc := NewService(api, testDefaults(), testLogger())

	records, err := svc.Search(context.Background(), FilterCriteria{Origin: "KTM", Destination: "PKR"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
