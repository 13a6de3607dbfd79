package fares

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"fare-dashboard/internal/infra/fareapi"
)

// ErrMissingSector rejects a search before any network call is made.
var ErrMissingSector = errors.New("select both Origin and Destination before searching")

// Service executes searches and edit submissions against the external API.
type Service struct {
	api      FareAPI
	defaults Defaults
	logger   *slog.Logger
}

func NewService(api FareAPI, defaults Defaults, logger *slog.Logger) *Service {
	return &Service{
		api:      api,
		defaults: defaults,
		logger:   logger,
	}
}

// Search runs one fare query. Origin and destination are combined into a
// single sector token; the currency code is lower-cased on the wire, with
// "ALL" falling back to the deployment default.
func (s *Service) Search(ctx context.Context, criteria FilterCriteria) ([]FareRecord, error) {
	if strings.TrimSpace(criteria.Origin) == "" || strings.TrimSpace(criteria.Destination) == "" {
		return nil, ErrMissingSector
	}

	req := fareapi.QueryRequest{
		Sector:          criteria.Origin + criteria.Destination,
		BookingClassRcd: criteria.BookingClass,
		FareCode:        criteria.FareCode,
		FlightDate:      criteria.FlightDate,
		Currency:        s.currencyToken(criteria.Currency),
	}

	wire, err := s.api.GetFareData(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "fare query")
	}

	s.logger.Info("fare search completed",
		slog.String("sector", req.Sector),
		slog.Int("records", len(wire)))

	return lo.Map(wire, func(r fareapi.FareRecord, _ int) FareRecord {
		return fromWire(r)
	}), nil
}

func (s *Service) currencyToken(currency string) string {
	if currency == "" || strings.EqualFold(currency, "ALL") {
		currency = s.defaults.Currency
	}
	return strings.ToLower(currency)
}

func fromWire(r fareapi.FareRecord) FareRecord {
	return FareRecord{
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
