// Package render draws matrices as bordered text tables for terminal
// output.
package render

import (
	"fmt"
	"strconv"
	"strings"

	qtempo "github.com/alecsandrei/QTempo"
)

type Options struct {
	// MaxRows limits the rendered row count; 0 means all rows.
	MaxRows int
	// MaxColWidth caps each cell; longer values are truncated with "...".
	MaxColWidth int
}

func DefaultOptions() Options {
	return Options{MaxRows: 50, MaxColWidth: 30}
}

// Table renders the matrix with an index column and, when the matrix has
// geography, a trailing SIRUTA code column. NULL cells render as "null".
func Table(m *qtempo.Matrix, opts Options) string {
	if m == nil {
		return "<nil matrix>"
	}
	if opts.MaxColWidth <= 0 {
		opts.MaxColWidth = 30
	}
	nrows := m.NumRows()
	shown := nrows
	if opts.MaxRows > 0 && shown > opts.MaxRows {
		shown = opts.MaxRows
	}

	header := append([]string{"idx"}, m.Fields().Names()...)
	withGeo := m.HasGeography()
	if withGeo {
		header = append(header, "siruta")
	}

	cells := make([][]string, shown)
	for i := 0; i < shown; i++ {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i))
		for _, c := range m.Row(i) {
			row = append(row, cellString(c))
		}
		if withGeo {
			key := m.GeoKeys()[i]
			if key == nil {
				row = append(row, "null")
			} else {
				row = append(row, key.Code)
			}
		}
		cells[i] = row
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(truncate(h, opts.MaxColWidth))
	}
	for _, row := range cells {
		for i, cell := range row {
			if w := len(truncate(cell, opts.MaxColWidth)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Matrix shape: (%d, %d)\n", nrows, m.NumFields()))
	if shown != nrows {
		b.WriteString(fmt.Sprintf("Preview rows: %d of %d\n", shown, nrows))
	}
	border(&b, widths)
	writeRow(&b, header, widths, opts.MaxColWidth)
	border(&b, widths)
	for _, row := range cells {
		writeRow(&b, row, widths, opts.MaxColWidth)
	}
	border(&b, widths)
	return b.String()
}

func cellString(c qtempo.Cell) string {
	if !c.Valid {
		return "null"
	}
	return c.Value
}

func border(b *strings.Builder, widths []int) {
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, row []string, widths []int, maxWidth int) {
	b.WriteByte('|')
	for i, cell := range row {
		b.WriteByte(' ')
		b.WriteString(pad(truncate(cell, maxWidth), widths[i]))
		b.WriteByte(' ')
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
