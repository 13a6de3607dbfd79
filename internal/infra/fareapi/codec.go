package fareapi

import (
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

func encodeLoginRequest(username, password string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(username)
	e.FieldStart("password")
	e.Str(password)
	e.ObjEnd()
	return e.Bytes()
}

type loginResponse struct {
	Status   int
	Token    string
	Username string
	UserID   string
}

func decodeLoginResponse(data []byte) (*loginResponse, error) {
	var resp loginResponse
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "status":
			resp.Status, err = d.Int()
		case "token":
			resp.Token, err = d.Str()
		case "username":
			resp.Username, err = d.Str()
		case "userId":
			resp.UserID, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "decode login response")
	}
	return &resp, nil
}

func encodeQueryRequest(req QueryRequest) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("sector")
	e.Str(req.Sector)
	e.FieldStart("bookingClassRcd")
	e.Str(req.BookingClassRcd)
	e.FieldStart("fareCode")
	e.Str(req.FareCode)
	e.FieldStart("flightDate")
	e.Str(req.FlightDate)
	e.FieldStart("currency")
	e.Str(req.Currency)
	e.ObjEnd()
	return e.Bytes()
}

func decodeFareRecords(data []byte) ([]FareRecord, error) {
	var records []FareRecord
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var rec FareRecord
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "fareId":
				rec.FareID, err = d.Str()
			case "sector":
				rec.Sector, err = d.Str()
			case "bookRcd":
				rec.BookRcd, err = d.Str()
			case "fareCode":
				rec.FareCode, err = d.Str()
			case "fareAmount":
				rec.FareAmount, err = decodeAmount(d)
			case "currency":
				rec.Currency, err = d.Str()
			case "flightDateFrom":
				rec.FlightDateFrom, err = d.Str()
			case "flightDateTo":
				rec.FlightDateTo, err = d.Str()
			case "ValidOnFlight":
				rec.ValidOnFlight, err = decodeNullableStr(d)
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode fare records")
	}
	return records, nil
}

// decodeAmount tolerates both numeric and quoted amounts; the updater API is
// not consistent about which one it sends.
func decodeAmount(d *jx.Decoder) (float64, error) {
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	case jx.Null:
		return 0, d.Null()
	default:
		return d.Float64()
	}
}

func decodeNullableStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func encodeUpdateRequest(req UpdateRequest) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("fareid")
	e.ArrStart()
	for _, id := range req.FareIDs {
		e.Str(id)
	}
	e.ArrEnd()
	e.FieldStart("flightdatefrom")
	e.Str(req.FlightDateFrom)
	e.FieldStart("flightdateto")
	e.Str(req.FlightDateTo)
	e.FieldStart("fareamount")
	e.Str(req.FareAmount)
	e.FieldStart("validonflight")
	e.Str(req.ValidOnFlight)
	e.FieldStart("actiontype")
	e.Str(req.ActionType)
	e.FieldStart("userlogon")
	e.Str(req.UserLogon)
	e.FieldStart("status")
	e.Str(req.Status)
	e.ObjEnd()
	return e.Bytes()
}

// decodeErrorMessage pulls "message" out of an error body. Returns "" when the
// body is not an object or carries no message, so callers can fall back to the
// HTTP status.
func decodeErrorMessage(data []byte) string {
	var message string
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return ""
	}
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "message" {
			return d.Skip()
		}
		var err error
		message, err = d.Str()
		return err
	}); err != nil {
		return ""
	}
	return message
}
