package qtempo

import (
	"fmt"
	"strings"
)

// columnSeparator is the Tempo pivot payload delimiter. Values are not
// escaped; a bare comma inside a value only survives because it is never
// followed by a space in practice.
const columnSeparator = ", "

// Query is the pivot request body. The Mat* and Nom* indices are the
// 1-based column roles the matrix metadata assigns to the requested
// dimensions; most of them are echo fields the endpoint requires but the
// parser ignores.
type Query struct {
	Language     string `json:"language"`
	EncQuery     string `json:"encQuery"`
	MatCode      string `json:"matCode"`
	NomJud       int    `json:"nomJud"`
	NomLoc       int    `json:"nomLoc"`
	MatMaxDim    int    `json:"matMaxDim"`
	MatUMSpec    int    `json:"matUMSpec"`
	MatSiruta    int    `json:"matSiruta"`
	MatCaen1     int    `json:"matCaen1"`
	MatCaen2     int    `json:"matCaen2"`
	MatRegJ      int    `json:"matRegJ"`
	MatCharge    int    `json:"matCharge"`
	MatViews     int    `json:"matViews"`
	MatDownloads int    `json:"matDownloads"`
	MatActive    int    `json:"matActive"`
	MatTime      int    `json:"matTime"`
}

// HasSiruta reports whether the query asked for the SIRUTA locality column.
func (q Query) HasSiruta() bool { return q.MatSiruta == 1 }

// ParseResponse converts a raw pivot payload into a Matrix.
//
// The payload is UTF-8 text: a header line of ", "-separated column names
// followed by data lines of the same arity. Any data line with a different
// field count fails the whole response with a MalformedResponseError.
//
// Column roles come from the query's 1-based indices; the last column is
// the value column unless an earlier role already claimed it. When the
// query requested the SIRUTA column, the locality column of each row is
// parsed into a GeoKey; rows that fail to parse (aggregate totals mixed
// into the data) get a nil key rather than failing the response.
func ParseResponse(raw []byte, q Query) (*Matrix, error) {
	lines := splitLines(string(raw))
	if len(lines) == 0 {
		return nil, &MalformedResponseError{Reason: "empty payload"}
	}
	header := strings.Split(lines[0], columnSeparator)

	fields := make(FieldSet, len(header))
	for i, name := range header {
		fields[i] = Field{Name: name, Roles: fieldRoles(i+1, len(header), q)}
	}

	rows := make([][]Cell, 0, len(lines)-1)
	for n, line := range lines[1:] {
		values := strings.Split(line, columnSeparator)
		if len(values) != len(header) {
			return nil, &MalformedResponseError{
				Line:   n + 2,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(values)),
			}
		}
		row := make([]Cell, len(values))
		for i, v := range values {
			row[i] = CellOf(v)
		}
		rows = append(rows, row)
	}

	var geoKeys []*GeoKey
	if q.HasSiruta() {
		locIdx := q.NomLoc - 1
		if locIdx < 0 || locIdx >= len(header) {
			return nil, &MalformedResponseError{Reason: "locality column index out of range"}
		}
		geoKeys = make([]*GeoKey, len(rows))
		for i, row := range rows {
			key, err := ParseGeoKey(row[locIdx].Value)
			if err != nil {
				continue
			}
			geoKeys[i] = key
		}
	}
	return NewMatrix(rows, fields, geoKeys)
}

// fieldRoles assigns a role to the 1-based column index. First match wins:
// a geography index that coincides with the last column keeps the
// geography role and the value role goes unassigned.
func fieldRoles(index, width int, q Query) Role {
	switch index {
	case q.MatTime:
		return RoleTime
	case q.MatRegJ:
		return RoleRegion
	case q.NomJud:
		return RoleCounty
	case q.NomLoc:
		return RoleLocality
	case width:
		return RoleValue
	}
	return RoleNone
}

// splitLines splits on newlines, tolerating CRLF and a trailing newline.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
