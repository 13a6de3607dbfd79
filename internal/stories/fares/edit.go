package fares

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"fare-dashboard/internal/infra/fareapi"
)

type EditPhase string

const (
	PhaseIdle       EditPhase = "idle"
	PhaseSubmitting EditPhase = "submitting"
	PhaseSucceeded  EditPhase = "succeeded"
	PhaseFailed     EditPhase = "failed"
)

var (
	// ErrNotAuthenticated blocks a submission before any network call.
	ErrNotAuthenticated = errors.New("you must be logged in to submit fare updates")
	// ErrNothingSelected rejects a submission with an empty selection.
	ErrNothingSelected = errors.New("no fare records selected")
	// ErrValidation reports field-level failures; read them from FieldErrors.
	ErrValidation = errors.New("edit form validation failed")
	// ErrDeactivateNotConfirmed means the inactive toggle still needs the
	// explicit confirmation step.
	ErrDeactivateNotConfirmed = errors.New("marking fares inactive requires confirmation")
)

// EditFlow is the submission state machine:
// Idle -> Submitting -> {Succeeded | Failed} -> Idle.
// A validation or auth failure never leaves Idle.
type EditFlow struct {
	Form EditForm

	phase             EditPhase
	fieldErrors       []FieldError
	inactiveConfirmed bool
}

func NewEditFlow() *EditFlow {
	return &EditFlow{
		Form:  EditForm{EditType: EditTypeUpdate},
		phase: PhaseIdle,
	}
}

func (f *EditFlow) Phase() EditPhase {
	return f.phase
}

func (f *EditFlow) FieldErrors() []FieldError {
	return f.fieldErrors
}

// ConfirmDeactivate acknowledges the blocking prompt shown when the status
// toggle flips to inactive.
func (f *EditFlow) ConfirmDeactivate() {
	f.inactiveConfirmed = true
}

// DismissDeactivate cancels the prompt: the status stays active and nothing
// is sent.
func (f *EditFlow) DismissDeactivate() {
	f.Form.Inactive = false
	f.inactiveConfirmed = false
}

// Reset returns the flow to Idle after the outcome has been surfaced. The
// form is kept as-is so a failed submission can be corrected and retried.
func (f *EditFlow) Reset() {
	f.phase = PhaseIdle
	f.fieldErrors = nil
}

// ValidateEditForm checks the form before any network traffic: the amount
// must parse to a non-negative number, and when both dates are present the
// range must not be inverted.
func ValidateEditForm(form EditForm) []FieldError {
	var errs []FieldError

	amount := strings.TrimSpace(form.Amount)
	if amount == "" {
		errs = append(errs, FieldError{Field: "fareAmount", Message: "fare amount is required"})
	} else if v, err := strconv.ParseFloat(amount, 64); err != nil {
		errs = append(errs, FieldError{Field: "fareAmount", Message: "fare amount must be a number"})
	} else if v < 0 {
		errs = append(errs, FieldError{Field: "fareAmount", Message: "fare amount must not be negative"})
	}

	if form.DateFrom != "" && form.DateTo != "" {
		from, errFrom := time.Parse(dateLayout, form.DateFrom)
		to, errTo := time.Parse(dateLayout, form.DateTo)
		switch {
		case errFrom != nil:
			errs = append(errs, FieldError{Field: "flightDateFrom", Message: "flight date from is not a valid date"})
		case errTo != nil:
			errs = append(errs, FieldError{Field: "flightDateTo", Message: "flight date to is not a valid date"})
		case to.Before(from):
			errs = append(errs, FieldError{Field: "flightDateTo", Message: "flight date to must not be before flight date from"})
		}
	}

	return errs
}

// SubmitEdit sends one batched update for every selected record. userLogon is
// the authenticated user's login; an empty value aborts with an auth error
// before any network call.
//
// Outcomes follow the server-authoritative policy: on success the selection
// is cleared and the caller re-searches to observe the new state; an HTTP
// failure keeps selection and form so the user can retry; a transport failure
// rolls the flow back to Idle with no side effects.
func (s *Service) SubmitEdit(ctx context.Context, flow *EditFlow, ws *Workspace, userLogon string) (*EditResult, error) {
	if userLogon == "" {
		return nil, ErrNotAuthenticated
	}

	ids := ws.SelectedIDs()
	if len(ids) == 0 {
		return nil, ErrNothingSelected
	}

	if errs := ValidateEditForm(flow.Form); len(errs) > 0 {
		flow.fieldErrors = errs
		return nil, ErrValidation
	}
	flow.fieldErrors = nil

	if flow.Form.Inactive && !flow.inactiveConfirmed {
		return nil, ErrDeactivateNotConfirmed
	}

	status := statusCodeActive
	if flow.Form.Inactive {
		status = statusCodeInactive
	}

	flow.phase = PhaseSubmitting
	req := fareapi.UpdateRequest{
		FareIDs:        ids,
		FlightDateFrom: flow.Form.DateFrom,
		FlightDateTo:   flow.Form.DateTo,
		FareAmount:     strings.TrimSpace(flow.Form.Amount),
		ValidOnFlight:  flow.Form.ValidOnFlight,
		ActionType:     strings.ToUpper(string(flow.Form.EditType)),
		UserLogon:      userLogon,
		Status:         status,
	}

	message, err := s.api.UpdateFare(ctx, req)
	if err != nil {
		if statusErr, ok := err.(*fareapi.StatusError); ok {
			flow.phase = PhaseFailed
			s.logger.Warn("fare update rejected",
				slog.Int("status", statusErr.Code),
				slog.Int("records", len(ids)))
			return nil, statusErr
		}
		flow.phase = PhaseIdle
		return nil, errors.Wrap(err, "fare update")
	}

	flow.phase = PhaseSucceeded
	ws.ClearSelection()

	s.logger.Info("fare update submitted",
		slog.Int("records", len(ids)),
		slog.String("action", req.ActionType))

	return &EditResult{
		Message: message,
		Count:   leadingCount(message),
	}, nil
}

// leadingCount extracts the row count from confirmation text like "2" or
// "2 fare(s) updated". Returns 0 when none is present.
func leadingCount(message string) int {
	fields := strings.Fields(strings.TrimSpace(message))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
