package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qtempo "github.com/alecsandrei/QTempo"
)

func testMatrix(t *testing.T) *qtempo.Matrix {
	t.Helper()
	fields := qtempo.FieldSet{
		{Name: "Ani", Roles: qtempo.RoleTime},
		{Name: "Valoare", Roles: qtempo.RoleValue},
	}
	rows := [][]qtempo.Cell{
		{qtempo.CellOf("2020"), qtempo.CellOf("10")},
		{qtempo.CellOf("2021"), {}},
	}
	keys := []*qtempo.GeoKey{{Code: "12345"}, {Code: "12345"}}
	m, err := qtempo.NewMatrix(rows, fields, keys)
	require.NoError(t, err)
	return m
}

func TestTable(t *testing.T) {
	out := Table(testMatrix(t), DefaultOptions())
	assert.Contains(t, out, "Matrix shape: (2, 2)")
	assert.Contains(t, out, "| Ani")
	assert.Contains(t, out, "siruta")
	assert.Contains(t, out, "12345")
	assert.Contains(t, out, "null")
}

func TestTableRowLimit(t *testing.T) {
	out := Table(testMatrix(t), Options{MaxRows: 1, MaxColWidth: 30})
	assert.Contains(t, out, "Preview rows: 1 of 2")
	assert.NotContains(t, out, "2021")
}

func TestTableTruncation(t *testing.T) {
	fields := qtempo.FieldSet{{Name: "a", Roles: qtempo.RoleValue}}
	rows := [][]qtempo.Cell{{qtempo.CellOf(strings.Repeat("x", 50))}}
	m, err := qtempo.NewMatrix(rows, fields, nil)
	require.NoError(t, err)

	out := Table(m, Options{MaxColWidth: 10})
	assert.Contains(t, out, "xxxxxxx...")
	assert.NotContains(t, out, strings.Repeat("x", 11))
}

func TestTableNil(t *testing.T) {
	assert.Equal(t, "<nil matrix>", Table(nil, DefaultOptions()))
}
