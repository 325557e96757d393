package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// FlightRecord is one (airport, year, month) observation from the raw
// flight-records table. The set is loaded once per run and treated as
// immutable by every aggregation.
type FlightRecord struct {
	Year             int       `json:"year"`
	Month            int       `json:"month"`
	Airport          string    `json:"airport"`
	ForeignAirport   string    `json:"foreign_airport"`
	Country          string    `json:"country"`
	CountryISO       string    `json:"country_iso"`
	Region           string    `json:"region"`
	Carrier          string    `json:"carrier"`
	TotalFlights     float64   `json:"total_flights"`
	TotalPassengers  float64   `json:"total_passengers"`
	ScheduledFlights float64   `json:"scheduled_flights"`
	CharterFlights   float64   `json:"charter_flights"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	LoadFactor       float64   `json:"load_factor"`
	EngineRPM        float64   `json:"engine_rpm"`
	Date             time.Time `json:"date"`
}

// Dimension field names accepted by the aggregation pipeline.
const (
	FieldYear           = "year"
	FieldMonth          = "month"
	FieldAirport        = "airport"
	FieldForeignAirport = "foreign_airport"
	FieldCountry        = "country"
	FieldCountryISO     = "country_iso"
	FieldRegion         = "region"
	FieldCarrier        = "carrier"
)

// Numeric field names accepted by the aggregation pipeline.
const (
	FieldTotalFlights     = "total_flights"
	FieldTotalPassengers  = "total_passengers"
	FieldScheduledFlights = "scheduled_flights"
	FieldCharterFlights   = "charter_flights"
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldLoadFactor       = "load_factor"
	FieldEngineRPM        = "engine_rpm"
)

// Year and month render zero-padded so the pipeline's lexical key-tuple
// ordering agrees with calendar order.
var dimensionFields = map[string]func(*FlightRecord) string{
	FieldYear:           func(r *FlightRecord) string { return strconv.Itoa(r.Year) },
	FieldMonth:          func(r *FlightRecord) string { return fmt.Sprintf("%02d", r.Month) },
	FieldAirport:        func(r *FlightRecord) string { return r.Airport },
	FieldForeignAirport: func(r *FlightRecord) string { return r.ForeignAirport },
	FieldCountry:        func(r *FlightRecord) string { return r.Country },
	FieldCountryISO:     func(r *FlightRecord) string { return r.CountryISO },
	FieldRegion:         func(r *FlightRecord) string { return r.Region },
	FieldCarrier:        func(r *FlightRecord) string { return r.Carrier },
}

var numericFields = map[string]func(*FlightRecord) float64{
	FieldTotalFlights:     func(r *FlightRecord) float64 { return r.TotalFlights },
	FieldTotalPassengers:  func(r *FlightRecord) float64 { return r.TotalPassengers },
	FieldScheduledFlights: func(r *FlightRecord) float64 { return r.ScheduledFlights },
	FieldCharterFlights:   func(r *FlightRecord) float64 { return r.CharterFlights },
	FieldLatitude:         func(r *FlightRecord) float64 { return r.Latitude },
	FieldLongitude:        func(r *FlightRecord) float64 { return r.Longitude },
	FieldLoadFactor:       func(r *FlightRecord) float64 { return r.LoadFactor },
	FieldEngineRPM:        func(r *FlightRecord) float64 { return r.EngineRPM },
}

// FieldDate is the calendar timestamp used for time-series ordering.
const FieldDate = "date"

var timestampFields = map[string]func(*FlightRecord) time.Time{
	FieldDate: func(r *FlightRecord) time.Time { return r.Date },
}

// TimestampValue returns the value of a timestamp field, or false when
// the field name is not a known timestamp field.
func TimestampValue(r *FlightRecord, name string) (time.Time, bool) {
	get, ok := timestampFields[name]
	if !ok {
		return time.Time{}, false
	}
	return get(r), true
}

// DimensionValue returns the canonical string value of a dimension field,
// or false when the field name is not a known dimension.
func DimensionValue(r *FlightRecord, name string) (string, bool) {
	get, ok := dimensionFields[name]
	if !ok {
		return "", false
	}
	return get(r), true
}

// NumericValue returns the value of a numeric field, or false when the
// field name is not a known numeric field.
func NumericValue(r *FlightRecord, name string) (float64, bool) {
	get, ok := numericFields[name]
	if !ok {
		return 0, false
	}
	return get(r), true
}

// IsDimensionField reports whether name is a known dimension field.
func IsDimensionField(name string) bool {
	_, ok := dimensionFields[name]
	return ok
}

// IsNumericField reports whether name is a known numeric field.
func IsNumericField(name string) bool {
	_, ok := numericFields[name]
	return ok
}
