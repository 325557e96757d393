package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads a flight-records CSV with a header row and returns the
// cleaned record set plus the number of rows dropped by cleaning. Rows
// missing a dimension key (airport, country, year, month) or a required
// numeric field are dropped, not errors, so a partially dirty dataset
// still yields a usable table.
func LoadCSV(path string) ([]FlightRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses flight records from r. Column order is taken from the
// header row; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]FlightRecord, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{FieldYear, FieldMonth, FieldAirport, FieldCountry, FieldTotalFlights, FieldTotalPassengers} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("dataset missing required column %q", required)
		}
	}

	records := make([]FlightRecord, 0, 1024)
	dropped := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read row: %w", err)
		}

		rec, ok := parseRow(cols, row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func field(cols map[string]int, row []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow applies the cleaning rules: dimension keys must be present,
// year/month must be valid calendar values, required numerics must parse
// non-negative, and load factor must stay within 0-100.
func parseRow(cols map[string]int, row []string) (FlightRecord, bool) {
	var rec FlightRecord

	rec.Airport = field(cols, row, FieldAirport)
	rec.Country = field(cols, row, FieldCountry)
	if rec.Airport == "" || rec.Country == "" {
		return rec, false
	}

	year, err := strconv.Atoi(field(cols, row, FieldYear))
	if err != nil || year <= 0 {
		return rec, false
	}
	month, err := strconv.Atoi(field(cols, row, FieldMonth))
	if err != nil || month < 1 || month > 12 {
		return rec, false
	}
	rec.Year = year
	rec.Month = month

	rec.ForeignAirport = field(cols, row, FieldForeignAirport)
	rec.CountryISO = field(cols, row, FieldCountryISO)
	rec.Region = field(cols, row, FieldRegion)
	rec.Carrier = field(cols, row, FieldCarrier)

	var ok bool
	if rec.TotalFlights, ok = parseRequired(field(cols, row, FieldTotalFlights)); !ok {
		return rec, false
	}
	if rec.TotalPassengers, ok = parseRequired(field(cols, row, FieldTotalPassengers)); !ok {
		return rec, false
	}
	if rec.ScheduledFlights, ok = parseOptional(field(cols, row, FieldScheduledFlights)); !ok {
		return rec, false
	}
	if rec.CharterFlights, ok = parseOptional(field(cols, row, FieldCharterFlights)); !ok {
		return rec, false
	}
	if rec.LoadFactor, ok = parseOptional(field(cols, row, FieldLoadFactor)); !ok || rec.LoadFactor > 100 {
		return rec, false
	}
	if rec.EngineRPM, ok = parseOptional(field(cols, row, FieldEngineRPM)); !ok {
		return rec, false
	}

	rec.Latitude, _ = strconv.ParseFloat(field(cols, row, FieldLatitude), 64)
	rec.Longitude, _ = strconv.ParseFloat(field(cols, row, FieldLongitude), 64)

	rec.Date = parseDate(field(cols, row, FieldDate), rec.Year, rec.Month)

	return rec, true
}

// parseRequired rejects blank, unparseable and negative values.
func parseRequired(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseOptional treats blank as zero but still rejects garbage and
// negative values.
func parseOptional(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	return parseRequired(s)
}

// parseDate accepts RFC3339 or YYYY-MM-DD; a blank or malformed date
// falls back to the first of the record's month so time-series charts
// always have an axis value.
func parseDate(s string, year, month int) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t.UTC()
		}
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
