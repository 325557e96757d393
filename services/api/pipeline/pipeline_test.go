package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
)

func rec(year, month int, airport, foreign string, flights, passengers float64) dataset.FlightRecord {
	return dataset.FlightRecord{
		Year:            year,
		Month:           month,
		Airport:         airport,
		ForeignAirport:  foreign,
		Country:         "Iceland",
		CountryISO:      "ISL",
		Region:          "Europe",
		Carrier:         "FI",
		TotalFlights:    flights,
		TotalPassengers: passengers,
		Date:            time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestGroupSumSpecExample(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 6, "KEF", "LHR", 100, 0),
		rec(2019, 6, "KEF", "CDG", 50, 0),
		rec(2019, 7, "KEF", "LHR", 10, 0),
	}

	table, err := GroupSum(records, []string{dataset.FieldYear, dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	assert.Equal(t, "2019", table.Rows[0].Keys[dataset.FieldYear])
	assert.Equal(t, "06", table.Rows[0].Keys[dataset.FieldMonth])
	assert.Equal(t, 150.0, table.Rows[0].Values[dataset.FieldTotalFlights])

	assert.Equal(t, "07", table.Rows[1].Keys[dataset.FieldMonth])
	assert.Equal(t, 10.0, table.Rows[1].Values[dataset.FieldTotalFlights])
}

func TestGroupSumKeyUniquenessAndConservation(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 10, 1000),
		rec(2019, 1, "KEF", "CDG", 20, 2000),
		rec(2019, 2, "KEF", "LHR", 30, 3000),
		rec(2020, 1, "AEY", "OSL", 40, 4000),
		rec(2020, 1, "AEY", "CPH", 50, 5000),
	}

	table, err := GroupSum(records,
		[]string{dataset.FieldYear, dataset.FieldMonth, dataset.FieldAirport},
		[]string{dataset.FieldTotalFlights, dataset.FieldTotalPassengers})
	require.NoError(t, err)

	seen := make(map[string]bool)
	var sumFlights, sumPassengers float64
	for _, row := range table.Rows {
		id := row.Keys[dataset.FieldYear] + "/" + row.Keys[dataset.FieldMonth] + "/" + row.Keys[dataset.FieldAirport]
		assert.False(t, seen[id], "duplicate key tuple %s", id)
		seen[id] = true
		sumFlights += row.Values[dataset.FieldTotalFlights]
		sumPassengers += row.Values[dataset.FieldTotalPassengers]
	}
	assert.Equal(t, 150.0, sumFlights)
	assert.Equal(t, 15000.0, sumPassengers)
}

func TestGroupSumCanonicalOrderIsDeterministic(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2020, 12, "KEF", "LHR", 1, 1),
		rec(2019, 2, "KEF", "LHR", 2, 2),
		rec(2019, 10, "KEF", "LHR", 3, 3),
	}

	first, err := GroupSum(records, []string{dataset.FieldYear, dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)
	second, err := GroupSum(records, []string{dataset.FieldYear, dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// zero-padded months keep lexical order aligned with calendar order
	assert.Equal(t, "02", first.Rows[0].Keys[dataset.FieldMonth])
	assert.Equal(t, "10", first.Rows[1].Keys[dataset.FieldMonth])
	assert.Equal(t, "12", first.Rows[2].Keys[dataset.FieldMonth])
}

func TestGroupSumErrors(t *testing.T) {
	records := []dataset.FlightRecord{rec(2019, 1, "KEF", "LHR", 1, 1)}

	_, err := GroupSum(records, []string{"not_a_field"}, []string{dataset.FieldTotalFlights})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = GroupSum(records, []string{dataset.FieldYear}, []string{"bogus"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = GroupSum(records, nil, []string{dataset.FieldTotalFlights})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = GroupSum(nil, []string{dataset.FieldYear}, []string{dataset.FieldTotalFlights})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLogTransform(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 0, 0),
		rec(2019, 2, "KEF", "LHR", 10, 0),
		rec(2019, 3, "KEF", "LHR", 100, 0),
	}
	table, err := GroupSum(records, []string{dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	out, err := LogTransform(table, dataset.FieldTotalFlights)
	require.NoError(t, err)
	require.True(t, out.HasValueField("log_total_flights"))

	// zero maps to zero, and the transform is monotonic
	assert.Equal(t, 0.0, out.Rows[0].Values["log_total_flights"])
	assert.Less(t, out.Rows[0].Values["log_total_flights"], out.Rows[1].Values["log_total_flights"])
	assert.Less(t, out.Rows[1].Values["log_total_flights"], out.Rows[2].Values["log_total_flights"])

	// input untouched
	assert.False(t, table.HasValueField("log_total_flights"))

	_, err = LogTransform(table, "missing")
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestMinMaxNormalize(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 10, 0),
		rec(2019, 2, "KEF", "LHR", 55, 0),
		rec(2019, 3, "KEF", "LHR", 100, 0),
	}
	table, err := GroupSum(records, []string{dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	out, err := MinMaxNormalize(table, dataset.FieldTotalFlights)
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.Rows[0].Values["norm_total_flights"])
	assert.InDelta(t, 0.5, out.Rows[1].Values["norm_total_flights"], 1e-9)
	assert.Equal(t, 1.0, out.Rows[2].Values["norm_total_flights"])
	for _, row := range out.Rows {
		v := row.Values["norm_total_flights"]
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestMinMaxNormalizeDegenerate(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 42, 0),
		rec(2019, 2, "KEF", "LHR", 42, 0),
	}
	table, err := GroupSum(records, []string{dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	out, err := MinMaxNormalize(table, dataset.FieldTotalFlights)
	require.NoError(t, err)
	for _, row := range out.Rows {
		assert.Equal(t, 0.0, row.Values["norm_total_flights"])
	}
}

func TestTopNSpecExample(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "YYZ", 0, 500),
		rec(2019, 1, "KEF", "LHR", 0, 500),
		rec(2019, 1, "KEF", "CDG", 0, 300),
	}
	table, err := GroupSum(records, []string{dataset.FieldForeignAirport}, []string{dataset.FieldTotalPassengers})
	require.NoError(t, err)

	top, err := TopN(table, dataset.FieldTotalPassengers, 2)
	require.NoError(t, err)
	require.Len(t, top.Rows, 2)

	// tie broken lexically: LHR before YYZ
	assert.Equal(t, "LHR", top.Rows[0].Keys[dataset.FieldForeignAirport])
	assert.Equal(t, "YYZ", top.Rows[1].Keys[dataset.FieldForeignAirport])
}

func TestTopNBoundsAndIdempotence(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 0, 100),
		rec(2019, 1, "KEF", "CDG", 0, 200),
		rec(2019, 1, "KEF", "OSL", 0, 300),
	}
	table, err := GroupSum(records, []string{dataset.FieldForeignAirport}, []string{dataset.FieldTotalPassengers})
	require.NoError(t, err)

	// n larger than row count returns all rows
	top, err := TopN(table, dataset.FieldTotalPassengers, 10)
	require.NoError(t, err)
	assert.Len(t, top.Rows, 3)
	assert.Equal(t, "OSL", top.Rows[0].Keys[dataset.FieldForeignAirport])

	again, err := TopN(top, dataset.FieldTotalPassengers, 10)
	require.NoError(t, err)
	assert.Equal(t, top, again)

	_, err = TopN(table, dataset.FieldTotalPassengers, 0)
	assert.ErrorIs(t, err, ErrInvalidN)
	_, err = TopN(table, dataset.FieldTotalPassengers, -3)
	assert.ErrorIs(t, err, ErrInvalidN)
}

func TestDenseGrid(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 10, 0),
		rec(2019, 3, "KEF", "LHR", 30, 0),
		rec(2020, 1, "KEF", "LHR", 40, 0),
	}
	table, err := GroupSum(records, []string{dataset.FieldYear, dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	years := []string{"2019", "2020"}
	months := []string{"01", "02", "03"}
	grid, err := DenseGrid(table, dataset.FieldYear, dataset.FieldMonth, dataset.FieldTotalFlights, years, months)
	require.NoError(t, err)

	require.Len(t, grid.Cells, 2)
	for _, row := range grid.Cells {
		require.Len(t, row, 3)
	}

	assert.Equal(t, 10.0, grid.Cells[0][0])
	assert.Equal(t, 0.0, grid.Cells[0][1]) // absent combination zero-filled
	assert.Equal(t, 30.0, grid.Cells[0][2])
	assert.Equal(t, 40.0, grid.Cells[1][0])
	assert.Equal(t, 0.0, grid.Cells[1][2])
}

func TestDenseGridErrors(t *testing.T) {
	table := &Table{
		KeyFields:   []string{dataset.FieldYear, dataset.FieldMonth},
		ValueFields: []string{dataset.FieldTotalFlights},
	}

	_, err := DenseGrid(table, dataset.FieldYear, dataset.FieldMonth, dataset.FieldTotalFlights, nil, []string{"01"})
	assert.ErrorIs(t, err, ErrInvalidDomain)

	_, err = DenseGrid(table, dataset.FieldYear, dataset.FieldMonth, dataset.FieldTotalFlights, []string{"2019"}, nil)
	assert.ErrorIs(t, err, ErrInvalidDomain)

	_, err = DenseGrid(table, "nope", dataset.FieldMonth, dataset.FieldTotalFlights, []string{"2019"}, []string{"01"})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = DenseGrid(table, dataset.FieldYear, dataset.FieldMonth, "nope", []string{"2019"}, []string{"01"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestRouteTable(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 10, 0),
		rec(2019, 2, "KEF", "LHR", 15, 0),
		rec(2019, 1, "KEF", "CDG", 5, 0),
		rec(2019, 1, "AEY", "OSL", 50, 0),
	}

	table, rng, err := RouteTable(records, dataset.FieldAirport, dataset.FieldForeignAirport, dataset.FieldTotalFlights)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, 5.0, rng.Min)
	assert.Equal(t, 50.0, rng.Max)

	// KEF-LHR merged across months
	for _, row := range table.Rows {
		if row.Keys[dataset.FieldAirport] == "KEF" && row.Keys[dataset.FieldForeignAirport] == "LHR" {
			assert.Equal(t, 25.0, row.Values[dataset.FieldTotalFlights])
		}
	}

	_, _, err = RouteTable(nil, dataset.FieldAirport, dataset.FieldForeignAirport, dataset.FieldTotalFlights)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTimeSeriesAlign(t *testing.T) {
	jan := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)

	records := []dataset.FlightRecord{
		rec(2019, 2, "KEF", "LHR", 20, 0),
		rec(2019, 1, "KEF", "LHR", 10, 0),
		rec(2019, 1, "AEY", "OSL", 15, 0),
	}

	table, err := TimeSeriesAlign(records, dataset.FieldDate, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	// ascending epoch-millisecond axis
	assert.Equal(t, float64(jan.UnixMilli()), table.Rows[0].Values["t"])
	assert.Equal(t, float64(jan.UnixMilli()), table.Rows[1].Values["t"])
	assert.Equal(t, float64(feb.UnixMilli()), table.Rows[2].Values["t"])

	// ties keep input order: KEF row before AEY row
	assert.Equal(t, 10.0, table.Rows[0].Values[dataset.FieldTotalFlights])
	assert.Equal(t, 15.0, table.Rows[1].Values[dataset.FieldTotalFlights])

	_, err = TimeSeriesAlign(records, "launched_at", []string{dataset.FieldTotalFlights})
	assert.ErrorIs(t, err, ErrInvalidField)

	_, err = TimeSeriesAlign(nil, dataset.FieldDate, []string{dataset.FieldTotalFlights})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestTransformsDoNotMutateInput(t *testing.T) {
	records := []dataset.FlightRecord{
		rec(2019, 1, "KEF", "LHR", 10, 100),
		rec(2019, 2, "KEF", "LHR", 20, 200),
	}
	table, err := GroupSum(records, []string{dataset.FieldMonth}, []string{dataset.FieldTotalFlights})
	require.NoError(t, err)

	before := cloneTable(table, 0)

	_, err = LogTransform(table, dataset.FieldTotalFlights)
	require.NoError(t, err)
	_, err = MinMaxNormalize(table, dataset.FieldTotalFlights)
	require.NoError(t, err)
	_, err = TopN(table, dataset.FieldTotalFlights, 1)
	require.NoError(t, err)

	assert.Equal(t, before, table)
}
