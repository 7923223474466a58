package qtempo

import (
	"fmt"
	"sort"
)

// Cell is one matrix value. An invalid cell is NULL; pivoting produces NULL
// cells for (geography, pivot value) combinations absent from the source.
type Cell struct {
	Value string
	Valid bool
}

// CellOf returns a valid cell holding v.
func CellOf(v string) Cell {
	return Cell{Value: v, Valid: true}
}

// Matrix is a parsed tabular dataset: rows of cells positioned by an ordered
// field set, plus an optional geography column aligned with the rows.
// A Matrix is immutable; derived matrices are fresh values.
type Matrix struct {
	rows    [][]Cell
	fields  FieldSet
	geoKeys []*GeoKey
}

// NewMatrix validates row arity against the field set and geography
// alignment against the rows. geoKeys may be nil (no geography column);
// individual entries may be nil (unparsable locality values).
func NewMatrix(rows [][]Cell, fields FieldSet, geoKeys []*GeoKey) (*Matrix, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("at least one field is required")
	}
	for i, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("row %d has %d cells; expected %d", i, len(row), len(fields))
		}
	}
	if geoKeys != nil && len(geoKeys) != len(rows) {
		return nil, fmt.Errorf("geography column has %d entries; expected %d", len(geoKeys), len(rows))
	}
	return &Matrix{rows: rows, fields: fields, geoKeys: geoKeys}, nil
}

func (m *Matrix) NumRows() int { return len(m.rows) }

func (m *Matrix) NumFields() int { return len(m.fields) }

func (m *Matrix) Fields() FieldSet { return m.fields }

// Row returns the i-th row. The returned slice must not be modified.
func (m *Matrix) Row(i int) []Cell { return m.rows[i] }

// GeoKeys returns the geography column, nil when the matrix has none.
// Entries are nil for rows whose locality value did not parse.
func (m *Matrix) GeoKeys() []*GeoKey { return m.geoKeys }

// HasGeography reports whether the matrix carries a geography column with
// at least one parsed key. A column of only nil entries does not count.
func (m *Matrix) HasGeography() bool {
	for _, k := range m.geoKeys {
		if k != nil {
			return true
		}
	}
	return false
}

// ColumnValues returns the column of the given field, in row order.
func (m *Matrix) ColumnValues(f Field) ([]Cell, error) {
	i := m.fields.Index(f.Name)
	if i < 0 {
		return nil, fmt.Errorf("no column named %q: %w", f.Name, ErrFieldNotFound)
	}
	col := make([]Cell, len(m.rows))
	for r, row := range m.rows {
		col[r] = row[i]
	}
	return col, nil
}

// SubsetByGeoKey returns a new matrix holding only the rows whose geography
// key matches key by code.
func (m *Matrix) SubsetByGeoKey(key *GeoKey) (*Matrix, error) {
	if m.geoKeys == nil {
		return nil, &PreconditionError{Op: "subset", Reason: "matrix has no geography column"}
	}
	var rows [][]Cell
	for i, row := range m.rows {
		if key.Equal(m.geoKeys[i]) {
			rows = append(rows, row)
		}
	}
	keys := make([]*GeoKey, len(rows))
	for i := range keys {
		keys[i] = key
	}
	return &Matrix{rows: rows, fields: m.fields, geoKeys: keys}, nil
}

// GroupBy pivots the matrix into a geography-indexed wide table.
//
// Output columns are the distinct values of pivot, ascending by string
// order, each a Value-role field. Output rows are the distinct parsed
// geography keys, ascending by code. A cell holds the Value column of the
// first source row (in row order) matching the geography, every fixed
// filter and the column's pivot value; it is NULL when no such row exists.
// When malformed filters leave several matching rows the first still wins;
// the result is deterministic either way.
func (m *Matrix) GroupBy(pivot Field, fixed map[Field]string) (*Matrix, error) {
	if m.geoKeys == nil {
		return nil, &PreconditionError{Op: "group by", Reason: "matrix has no geography column"}
	}
	pivotIdx := m.fields.Index(pivot.Name)
	if pivotIdx < 0 {
		return nil, fmt.Errorf("no column named %q: %w", pivot.Name, ErrFieldNotFound)
	}
	valueField, err := m.fields.ByRole(RoleValue)
	if err != nil {
		return nil, err
	}
	valueIdx := m.fields.Index(valueField.Name)

	filters := make(map[int]string, len(fixed))
	for f, want := range fixed {
		i := m.fields.Index(f.Name)
		if i < 0 {
			return nil, fmt.Errorf("no column named %q: %w", f.Name, ErrFieldNotFound)
		}
		filters[i] = want
	}

	fields := make(FieldSet, 0)
	seen := make(map[string]struct{})
	for _, row := range m.rows {
		c := row[pivotIdx]
		if !c.Valid {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		fields = append(fields, Field{Name: c.Value, Roles: RoleValue})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	keys := distinctGeoKeys(m.geoKeys)
	rows := make([][]Cell, 0, len(keys))
	for _, key := range keys {
		row := make([]Cell, len(fields))
		for col, f := range fields {
			row[col] = m.pivotCell(key, pivotIdx, f.Name, filters, valueIdx)
		}
		rows = append(rows, row)
	}
	return &Matrix{rows: rows, fields: fields, geoKeys: keys}, nil
}

// pivotCell resolves one pivot cell: the first row matching the geography
// key, the fixed filters and the pivot value.
func (m *Matrix) pivotCell(key *GeoKey, pivotIdx int, pivotValue string, filters map[int]string, valueIdx int) Cell {
	for i, row := range m.rows {
		if !key.Equal(m.geoKeys[i]) {
			continue
		}
		c := row[pivotIdx]
		if !c.Valid || c.Value != pivotValue {
			continue
		}
		match := true
		for col, want := range filters {
			if col == pivotIdx {
				continue
			}
			if !row[col].Valid || row[col].Value != want {
				match = false
				break
			}
		}
		if match {
			return row[valueIdx]
		}
	}
	return Cell{}
}

// distinctGeoKeys returns the distinct parsed keys sorted ascending by code.
func distinctGeoKeys(keys []*GeoKey) []*GeoKey {
	seen := make(map[string]struct{})
	var out []*GeoKey
	for _, k := range keys {
		if k == nil {
			continue
		}
		if _, ok := seen[k.Code]; ok {
			continue
		}
		seen[k.Code] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
