package fareapi

import "fmt"

// Credentials is the payload of a successful login.
type Credentials struct {
	Username string
	Token    string
	UserID   string
}

// QueryRequest is the body of POST /api/v1/updater/getFareData.
type QueryRequest struct {
	Sector          string
	BookingClassRcd string
	FareCode        string
	FlightDate      string
	Currency        string
}

// FareRecord mirrors one element of the getFareData response array.
// Field names follow the wire format, including the odd-cased ValidOnFlight.
type FareRecord struct {
	FareID         string
	Sector         string
	BookRcd        string
	FareCode       string
	FareAmount     float64
	Currency       string
	FlightDateFrom string
	FlightDateTo   string
	ValidOnFlight  string
}

// UpdateRequest is the body of PUT /api/v1/updater/updateFare.
type UpdateRequest struct {
	FareIDs        []string
	FlightDateFrom string
	FlightDateTo   string
	FareAmount     string
	ValidOnFlight  string
	ActionType     string
	UserLogon      string
	Status         string
}

// StatusError is a non-2xx reply from the API. Message carries the server's
// {message} body when one was present.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("status %d", e.Code)
}
