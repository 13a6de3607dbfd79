package fares

// PageSize is the fixed number of rows per table page.
const PageSize = 10

const dateLayout = "2006-01-02"

// FareRecord is one priced fare for a sector/booking-class/date-range
// combination, immutable on this side until a fresh search replaces it.
type FareRecord struct {
	ID               string
	Sector           string
	BookingClassCode string
	FareCode         string
	Amount           float64
	Currency         string
	FlightDateFrom   string
	FlightDateTo     string
	ValidOnFlight    string
}

// Defaults are the deployment-scoped filter values restored by Clear.
type Defaults struct {
	FareCode     string
	BookingClass string
	Currency     string
}

// FilterCriteria is the active search predicate. Origin and destination are
// the only fields a search actually requires.
type FilterCriteria struct {
	Origin       string
	Destination  string
	BookingClass string
	FareCode     string
	FlightDate   string
	Currency     string
}

// Filter field keys as used by the filter bar.
const (
	FilterOrigin       = "origin"
	FilterDestination  = "destination"
	FilterBookingClass = "bookingClass"
	FilterFareCode     = "fareCode"
	FilterFlightDate   = "flightDate"
	FilterCurrency     = "currency"
)

func DefaultCriteria(d Defaults) FilterCriteria {
	return FilterCriteria{
		BookingClass: d.BookingClass,
		FareCode:     d.FareCode,
		Currency:     d.Currency,
	}
}

type EditType string

const (
	EditTypeUpdate EditType = "Update"
	EditTypeCopy   EditType = "Copy"
)

// Single-character status codes on the wire.
const (
	statusCodeActive   = "A"
	statusCodeInactive = "I"
)

// EditForm is the user's edit intent as captured by the edit surface.
// Inactive is the active/inactive toggle; flipping it to true must be
// confirmed before a submission is allowed to carry it.
type EditForm struct {
	DateFrom      string
	DateTo        string
	Amount        string
	ValidOnFlight string
	EditType      EditType
	Inactive      bool
}

// FieldError is a validation failure scoped to a single form field, surfaced
// inline and never sent to the server.
type FieldError struct {
	Field   string
	Message string
}

// EditResult is the outcome of a successful submission. Message is the plain
// confirmation text returned by the update endpoint, usually a row count.
type EditResult struct {
	Message string
	Count   int
}
