// Package charts composes pipeline transforms into the exact tables each
// chart of the viewer consumes. Builders never touch rendering concerns;
// they hand the browser-side renderer plain tabular data.
package charts

import (
	"errors"
	"sort"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
	"github.com/skystats/airtraffic-viewer/services/api/pipeline"
)

// monthDomain is the fixed column domain for seasonal charts, matching
// the pipeline's zero-padded month encoding.
var monthDomain = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}

// emptyTable builds a well-formed zero-row table. Charts receive this
// instead of an error when the dataset is empty.
func emptyTable(keys, values []string) *pipeline.Table {
	return &pipeline.Table{
		KeyFields:   append([]string(nil), keys...),
		ValueFields: append([]string(nil), values...),
		Rows:        []pipeline.Row{},
	}
}

// withDimension filters out records whose named dimension is blank, so
// optional columns (region, carrier, foreign airport) never produce a
// phantom empty-string group.
func withDimension(records []dataset.FlightRecord, field string) []dataset.FlightRecord {
	out := make([]dataset.FlightRecord, 0, len(records))
	for i := range records {
		if v, ok := dataset.DimensionValue(&records[i], field); ok && v != "" {
			out = append(out, records[i])
		}
	}
	return out
}

// MonthlyTrend sums flights and passengers per (year, month) for the
// monthly trend line chart.
func MonthlyTrend(records []dataset.FlightRecord) (*pipeline.Table, error) {
	table, err := pipeline.GroupSum(records,
		[]string{dataset.FieldYear, dataset.FieldMonth},
		[]string{dataset.FieldTotalFlights, dataset.FieldTotalPassengers})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable(
			[]string{dataset.FieldYear, dataset.FieldMonth},
			[]string{dataset.FieldTotalFlights, dataset.FieldTotalPassengers}), nil
	}
	return table, err
}

// TopDestinations ranks foreign airports by summed passengers and keeps
// the first n, with the deterministic lexical tie-break.
func TopDestinations(records []dataset.FlightRecord, n int) (*pipeline.Table, error) {
	scoped := withDimension(records, dataset.FieldForeignAirport)
	table, err := pipeline.GroupSum(scoped,
		[]string{dataset.FieldForeignAirport},
		[]string{dataset.FieldTotalPassengers})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable(
			[]string{dataset.FieldForeignAirport},
			[]string{dataset.FieldTotalPassengers}), nil
	}
	if err != nil {
		return nil, err
	}
	return pipeline.TopN(table, dataset.FieldTotalPassengers, n)
}

// RegionalShares sums flights per region and adds a share_pct column with
// each region's percentage of the total, for the share/pie chart.
func RegionalShares(records []dataset.FlightRecord) (*pipeline.Table, error) {
	scoped := withDimension(records, dataset.FieldRegion)
	table, err := pipeline.GroupSum(scoped,
		[]string{dataset.FieldRegion},
		[]string{dataset.FieldTotalFlights})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable([]string{dataset.FieldRegion}, []string{dataset.FieldTotalFlights, "share_pct"}), nil
	}
	if err != nil {
		return nil, err
	}

	var total float64
	for _, r := range table.Rows {
		total += r.Values[dataset.FieldTotalFlights]
	}
	table.ValueFields = append(table.ValueFields, "share_pct")
	for i := range table.Rows {
		if total == 0 {
			table.Rows[i].Values["share_pct"] = 0
		} else {
			table.Rows[i].Values["share_pct"] = table.Rows[i].Values[dataset.FieldTotalFlights] / total * 100
		}
	}
	return table, nil
}

// SeasonalHeatmap builds the dense year-by-month matrix of summed flights
// the heatmap renderer indexes by position. Rows cover the years present
// in the dataset; columns are always the twelve months, zero-filled.
func SeasonalHeatmap(records []dataset.FlightRecord) (*pipeline.Grid, error) {
	table, err := pipeline.GroupSum(records,
		[]string{dataset.FieldYear, dataset.FieldMonth},
		[]string{dataset.FieldTotalFlights})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return &pipeline.Grid{RowLabels: []string{}, ColLabels: monthDomain, Cells: [][]float64{}}, nil
	}
	if err != nil {
		return nil, err
	}

	years := distinctKeyValues(table, dataset.FieldYear)
	return pipeline.DenseGrid(table, dataset.FieldYear, dataset.FieldMonth,
		dataset.FieldTotalFlights, years, monthDomain)
}

// MonthlyPolar sums flights per month across all years and normalizes
// them onto [0,1] radii for the polar chart.
func MonthlyPolar(records []dataset.FlightRecord) (*pipeline.Table, error) {
	table, err := pipeline.GroupSum(records,
		[]string{dataset.FieldMonth},
		[]string{dataset.FieldTotalFlights})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable([]string{dataset.FieldMonth},
			[]string{dataset.FieldTotalFlights, "norm_" + dataset.FieldTotalFlights}), nil
	}
	if err != nil {
		return nil, err
	}
	return pipeline.MinMaxNormalize(table, dataset.FieldTotalFlights)
}

// CarrierRadar sums load-factor and engine-RPM observations per carrier
// and normalizes each axis independently, so every radar spoke lands in
// [0,1] regardless of the axes' native scales.
func CarrierRadar(records []dataset.FlightRecord) (*pipeline.Table, error) {
	scoped := withDimension(records, dataset.FieldCarrier)
	table, err := pipeline.GroupSum(scoped,
		[]string{dataset.FieldCarrier},
		[]string{dataset.FieldLoadFactor, dataset.FieldEngineRPM})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable([]string{dataset.FieldCarrier},
			[]string{
				dataset.FieldLoadFactor, dataset.FieldEngineRPM,
				"norm_" + dataset.FieldLoadFactor, "norm_" + dataset.FieldEngineRPM,
			}), nil
	}
	if err != nil {
		return nil, err
	}

	table, err = pipeline.MinMaxNormalize(table, dataset.FieldLoadFactor)
	if err != nil {
		return nil, err
	}
	return pipeline.MinMaxNormalize(table, dataset.FieldEngineRPM)
}

// AirportYearSeries builds the airport-by-year matrix of summed flights
// that feeds the 3D surface chart: one row per airport, one column per
// year present in the dataset, zero-filled.
func AirportYearSeries(records []dataset.FlightRecord) (*pipeline.Grid, error) {
	table, err := pipeline.GroupSum(records,
		[]string{dataset.FieldAirport, dataset.FieldYear},
		[]string{dataset.FieldTotalFlights})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return &pipeline.Grid{RowLabels: []string{}, ColLabels: []string{}, Cells: [][]float64{}}, nil
	}
	if err != nil {
		return nil, err
	}

	airports := distinctKeyValues(table, dataset.FieldAirport)
	years := distinctKeyValues(table, dataset.FieldYear)
	return pipeline.DenseGrid(table, dataset.FieldAirport, dataset.FieldYear,
		dataset.FieldTotalFlights, airports, years)
}

// CountryTable sums flights and passengers per country and adds the
// log(1+flights) intensity column the choropleth uses for its color
// scale, keeping small countries visible next to large hubs.
func CountryTable(records []dataset.FlightRecord) (*pipeline.Table, error) {
	table, err := pipeline.GroupSum(records,
		[]string{dataset.FieldCountry, dataset.FieldCountryISO},
		[]string{dataset.FieldTotalFlights, dataset.FieldTotalPassengers})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable([]string{dataset.FieldCountry, dataset.FieldCountryISO},
			[]string{
				dataset.FieldTotalFlights, dataset.FieldTotalPassengers,
				"log_" + dataset.FieldTotalFlights,
			}), nil
	}
	if err != nil {
		return nil, err
	}
	return pipeline.LogTransform(table, dataset.FieldTotalFlights)
}

// Coordinate is a map position for a route endpoint.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RoutesChart bundles the (origin, destination) flight sums with the
// color-scale range and the endpoint coordinates the map renderer needs
// to draw arcs.
type RoutesChart struct {
	Table       *pipeline.Table       `json:"table"`
	Range       pipeline.Range        `json:"range"`
	Coordinates map[string]Coordinate `json:"coordinates"`
}

// Routes builds the route map table. Coordinates are resolved per foreign
// airport code from the first record observed for it; the record set is
// immutable for the run, so "first observed" is deterministic.
func Routes(records []dataset.FlightRecord) (*RoutesChart, error) {
	scoped := withDimension(records, dataset.FieldForeignAirport)
	table, rng, err := pipeline.RouteTable(scoped,
		dataset.FieldAirport, dataset.FieldForeignAirport, dataset.FieldTotalFlights)
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return &RoutesChart{
			Table: emptyTable(
				[]string{dataset.FieldAirport, dataset.FieldForeignAirport},
				[]string{dataset.FieldTotalFlights}),
			Coordinates: map[string]Coordinate{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	coords := make(map[string]Coordinate)
	for i := range scoped {
		code := scoped[i].ForeignAirport
		if _, seen := coords[code]; seen {
			continue
		}
		if scoped[i].Latitude == 0 && scoped[i].Longitude == 0 {
			continue
		}
		coords[code] = Coordinate{Lat: scoped[i].Latitude, Lon: scoped[i].Longitude}
	}

	return &RoutesChart{Table: table, Range: rng, Coordinates: coords}, nil
}

// MonthlyTimeSeries aligns all records on an epoch-millisecond axis for
// the line chart and the renderer's year-by-year replay loop.
func MonthlyTimeSeries(records []dataset.FlightRecord) (*pipeline.Table, error) {
	table, err := pipeline.TimeSeriesAlign(records, dataset.FieldDate,
		[]string{dataset.FieldTotalFlights, dataset.FieldTotalPassengers})
	if errors.Is(err, pipeline.ErrEmptyInput) {
		return emptyTable([]string{dataset.FieldDate},
			[]string{"t", dataset.FieldTotalFlights, dataset.FieldTotalPassengers}), nil
	}
	return table, err
}

// distinctKeyValues lists the distinct values of a key field in ascending
// order, used to derive grid domains from the data actually present.
func distinctKeyValues(t *pipeline.Table, key string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range t.Rows {
		v := r.Keys[key]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DatasetMeta summarizes the loaded dataset for the meta endpoint.
type DatasetMeta struct {
	RecordCount int    `json:"record_count"`
	FirstYear   int    `json:"first_year,omitempty"`
	LastYear    int    `json:"last_year,omitempty"`
	Airports    int    `json:"airports"`
	Countries   int    `json:"countries"`
	Source      string `json:"source"`
}

// Describe computes dataset metadata from the loaded records.
func Describe(records []dataset.FlightRecord, source string) DatasetMeta {
	meta := DatasetMeta{RecordCount: len(records), Source: source}
	airports := make(map[string]struct{})
	countries := make(map[string]struct{})
	for i := range records {
		airports[records[i].Airport] = struct{}{}
		countries[records[i].Country] = struct{}{}
		if meta.FirstYear == 0 || records[i].Year < meta.FirstYear {
			meta.FirstYear = records[i].Year
		}
		if records[i].Year > meta.LastYear {
			meta.LastYear = records[i].Year
		}
	}
	meta.Airports = len(airports)
	meta.Countries = len(countries)
	return meta
}
