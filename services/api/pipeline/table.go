package pipeline

// Row is one entry of a summary table: a small fixed tuple of dimension
// values plus the numeric aggregates computed for that tuple.
type Row struct {
	Keys   map[string]string  `json:"keys"`
	Values map[string]float64 `json:"values"`
}

// Table is the result of a grouping plus aggregation. Rows are kept in
// canonical order (ascending lexical key tuple) so repeated runs over the
// same input produce identical output.
type Table struct {
	KeyFields   []string `json:"key_fields"`
	ValueFields []string `json:"value_fields"`
	Rows        []Row    `json:"rows"`
}

// Grid is a dense row/column matrix for heatmap-style renderers: every
// combination of the domains is present, zero-filled where the source
// table had no row.
type Grid struct {
	RowLabels []string    `json:"row_labels"`
	ColLabels []string    `json:"col_labels"`
	Cells     [][]float64 `json:"cells"`
}

// Range carries the global min/max of an aggregated value, used by map
// renderers for color-scale boundaries.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HasKeyField reports whether the table groups by the named dimension.
func (t *Table) HasKeyField(name string) bool {
	for _, f := range t.KeyFields {
		if f == name {
			return true
		}
	}
	return false
}

// HasValueField reports whether the table carries the named aggregate.
func (t *Table) HasValueField(name string) bool {
	for _, f := range t.ValueFields {
		if f == name {
			return true
		}
	}
	return false
}

// keyTuple extracts the row's dimension values in key-field order.
func (r Row) keyTuple(fields []string) []string {
	tuple := make([]string, len(fields))
	for i, f := range fields {
		tuple[i] = r.Keys[f]
	}
	return tuple
}

// lessTuples compares key tuples in ascending lexical order, element by
// element. This is the pipeline's tie-break and canonical row order.
func lessTuples(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// cloneRow deep-copies a row so transforms never mutate their input.
func cloneRow(r Row) Row {
	keys := make(map[string]string, len(r.Keys))
	for k, v := range r.Keys {
		keys[k] = v
	}
	values := make(map[string]float64, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Row{Keys: keys, Values: values}
}

// cloneTable deep-copies a table, optionally reserving room for extra
// value fields a transform is about to add.
func cloneTable(t *Table, extraValueFields int) *Table {
	out := &Table{
		KeyFields:   append([]string(nil), t.KeyFields...),
		ValueFields: make([]string, len(t.ValueFields), len(t.ValueFields)+extraValueFields),
		Rows:        make([]Row, len(t.Rows)),
	}
	copy(out.ValueFields, t.ValueFields)
	for i, r := range t.Rows {
		out.Rows[i] = cloneRow(r)
	}
	return out
}
