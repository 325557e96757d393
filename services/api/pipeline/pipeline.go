// Package pipeline implements the deterministic aggregation transforms
// that turn raw flight records into the summary tables a chart renderer
// consumes. Every transform is a pure function: no shared state, no I/O,
// and bit-for-bit identical output for identical input.
package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/skystats/airtraffic-viewer/services/api/dataset"
)

// tupleSep joins key tuples into map keys. Unit separator so airport
// codes and country names can never collide with the delimiter.
const tupleSep = "\x1f"

// GroupSum groups records by the ordered tuple of dimension keys and sums
// each value field within a group. The output has one row per distinct
// key tuple present in the input, in ascending lexical tuple order;
// absent combinations are not zero-filled (DenseGrid does that when a
// chart needs a dense matrix).
func GroupSum(records []dataset.FlightRecord, keys, valueFields []string) (*Table, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("group-sum: no grouping keys: %w", ErrInvalidField)
	}
	if len(valueFields) == 0 {
		return nil, fmt.Errorf("group-sum: no value fields: %w", ErrInvalidField)
	}
	for _, k := range keys {
		if !dataset.IsDimensionField(k) {
			return nil, fmt.Errorf("group-sum: unknown dimension %q: %w", k, ErrInvalidField)
		}
	}
	for _, f := range valueFields {
		if !dataset.IsNumericField(f) {
			return nil, fmt.Errorf("group-sum: unknown numeric field %q: %w", f, ErrInvalidField)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("group-sum: %w", ErrEmptyInput)
	}

	groups := make(map[string]*Row)
	for i := range records {
		rec := &records[i]

		tuple := make([]string, len(keys))
		for j, k := range keys {
			tuple[j], _ = dataset.DimensionValue(rec, k)
		}
		id := strings.Join(tuple, tupleSep)

		row, ok := groups[id]
		if !ok {
			rowKeys := make(map[string]string, len(keys))
			for j, k := range keys {
				rowKeys[k] = tuple[j]
			}
			row = &Row{Keys: rowKeys, Values: make(map[string]float64, len(valueFields))}
			groups[id] = row
		}
		for _, f := range valueFields {
			v, _ := dataset.NumericValue(rec, f)
			row.Values[f] += v
		}
	}

	table := &Table{
		KeyFields:   append([]string(nil), keys...),
		ValueFields: append([]string(nil), valueFields...),
		Rows:        make([]Row, 0, len(groups)),
	}
	for _, row := range groups {
		table.Rows = append(table.Rows, *row)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		return lessTuples(table.Rows[i].keyTuple(keys), table.Rows[j].keyTuple(keys))
	})

	return table, nil
}

// LogTransform computes log(1+v) for every row of the given value field
// and stores it as a new field named log_<field>. Zero inputs map to
// zero, so the transform is total over the table invariant (values >= 0).
func LogTransform(t *Table, field string) (*Table, error) {
	if !t.HasValueField(field) {
		return nil, fmt.Errorf("log-transform: field %q not in table: %w", field, ErrInvalidField)
	}

	newField := "log_" + field
	out := cloneTable(t, 1)
	out.ValueFields = append(out.ValueFields, newField)
	for i := range out.Rows {
		out.Rows[i].Values[newField] = math.Log1p(out.Rows[i].Values[field])
	}
	return out, nil
}

// MinMaxNormalize rescales a value field onto [0,1] via (v-min)/(max-min)
// over the table, storing the result as norm_<field>. A degenerate table
// where every value is equal normalizes to all zeros rather than NaN so
// radar and polar charts stay well-formed.
func MinMaxNormalize(t *Table, field string) (*Table, error) {
	if !t.HasValueField(field) {
		return nil, fmt.Errorf("min-max-normalize: field %q not in table: %w", field, ErrInvalidField)
	}

	newField := "norm_" + field
	out := cloneTable(t, 1)
	out.ValueFields = append(out.ValueFields, newField)
	if len(out.Rows) == 0 {
		return out, nil
	}

	min, max := out.Rows[0].Values[field], out.Rows[0].Values[field]
	for _, r := range out.Rows[1:] {
		v := r.Values[field]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	span := max - min
	for i := range out.Rows {
		if span == 0 {
			out.Rows[i].Values[newField] = 0
		} else {
			out.Rows[i].Values[newField] = (out.Rows[i].Values[field] - min) / span
		}
	}
	return out, nil
}

// TopN returns the first n rows of the table sorted descending by the
// value field. Ties are broken by ascending lexical key tuple, which
// makes the ranking reproducible across runs and idempotent under
// repeated application with the same n.
func TopN(t *Table, valueField string, n int) (*Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top-n: n=%d: %w", n, ErrInvalidN)
	}
	if !t.HasValueField(valueField) {
		return nil, fmt.Errorf("top-n: field %q not in table: %w", valueField, ErrInvalidField)
	}

	out := cloneTable(t, 0)
	sort.Slice(out.Rows, func(i, j int) bool {
		vi, vj := out.Rows[i].Values[valueField], out.Rows[j].Values[valueField]
		if vi != vj {
			return vi > vj
		}
		return lessTuples(out.Rows[i].keyTuple(out.KeyFields), out.Rows[j].keyTuple(out.KeyFields))
	})
	if n < len(out.Rows) {
		out.Rows = out.Rows[:n]
	}
	return out, nil
}

// DenseGrid projects a table onto the full Cartesian product of rowDomain
// and colDomain, zero-filling combinations the table has no row for.
// Heatmap renderers index the result by matrix position, so every cell
// must exist even when the value is zero.
func DenseGrid(t *Table, rowKey, colKey, valueField string, rowDomain, colDomain []string) (*Grid, error) {
	if len(rowDomain) == 0 || len(colDomain) == 0 {
		return nil, fmt.Errorf("dense-grid: %w", ErrInvalidDomain)
	}
	if !t.HasKeyField(rowKey) {
		return nil, fmt.Errorf("dense-grid: row key %q not in table: %w", rowKey, ErrInvalidField)
	}
	if !t.HasKeyField(colKey) {
		return nil, fmt.Errorf("dense-grid: column key %q not in table: %w", colKey, ErrInvalidField)
	}
	if !t.HasValueField(valueField) {
		return nil, fmt.Errorf("dense-grid: field %q not in table: %w", valueField, ErrInvalidField)
	}

	lookup := make(map[string]float64, len(t.Rows))
	for _, r := range t.Rows {
		lookup[r.Keys[rowKey]+tupleSep+r.Keys[colKey]] = r.Values[valueField]
	}

	grid := &Grid{
		RowLabels: append([]string(nil), rowDomain...),
		ColLabels: append([]string(nil), colDomain...),
		Cells:     make([][]float64, len(rowDomain)),
	}
	for i, rv := range rowDomain {
		grid.Cells[i] = make([]float64, len(colDomain))
		for j, cv := range colDomain {
			grid.Cells[i][j] = lookup[rv+tupleSep+cv]
		}
	}
	return grid, nil
}

// RouteTable group-sums a value field over (origin, destination) pairs
// and reports the global min/max of the summed values, which map
// renderers use as color-scale boundaries.
func RouteTable(records []dataset.FlightRecord, originKey, destKey, valueField string) (*Table, Range, error) {
	table, err := GroupSum(records, []string{originKey, destKey}, []string{valueField})
	if err != nil {
		return nil, Range{}, err
	}

	rng := Range{Min: table.Rows[0].Values[valueField], Max: table.Rows[0].Values[valueField]}
	for _, r := range table.Rows[1:] {
		v := r.Values[valueField]
		if v < rng.Min {
			rng.Min = v
		}
		if v > rng.Max {
			rng.Max = v
		}
	}
	return table, rng, nil
}

// TimeSeriesAlign orders records by ascending timestamp and emits one row
// per record with the timestamp converted to an epoch-millisecond x-axis
// value t alongside the requested value fields. Equal timestamps keep
// their input order (stable sort); see ErrUnsortedInput for the policy.
func TimeSeriesAlign(records []dataset.FlightRecord, timeField string, valueFields []string) (*Table, error) {
	if len(valueFields) == 0 {
		return nil, fmt.Errorf("time-series-align: no value fields: %w", ErrInvalidField)
	}
	if _, ok := dataset.TimestampValue(&dataset.FlightRecord{}, timeField); !ok {
		return nil, fmt.Errorf("time-series-align: unknown timestamp field %q: %w", timeField, ErrInvalidField)
	}
	for _, f := range valueFields {
		if !dataset.IsNumericField(f) {
			return nil, fmt.Errorf("time-series-align: unknown numeric field %q: %w", f, ErrInvalidField)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("time-series-align: %w", ErrEmptyInput)
	}

	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		ti, _ := dataset.TimestampValue(&records[order[i]], timeField)
		tj, _ := dataset.TimestampValue(&records[order[j]], timeField)
		return ti.Before(tj)
	})

	table := &Table{
		KeyFields:   []string{timeField},
		ValueFields: append([]string{"t"}, valueFields...),
		Rows:        make([]Row, 0, len(records)),
	}
	for _, idx := range order {
		rec := &records[idx]
		ts, _ := dataset.TimestampValue(rec, timeField)

		values := make(map[string]float64, len(valueFields)+1)
		values["t"] = float64(ts.UnixMilli())
		for _, f := range valueFields {
			v, _ := dataset.NumericValue(rec, f)
			values[f] = v
		}
		table.Rows = append(table.Rows, Row{
			Keys:   map[string]string{timeField: ts.UTC().Format(time.RFC3339)},
			Values: values,
		})
	}
	return table, nil
}
