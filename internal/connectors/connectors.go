package connectors

import (
	"fmt"

	"dactyl-manuform/internal/solid"
)

// Connectors joins the key plates of the main grid: columns side by side, rows one above
// the other, the diagonal gaps between four keys, and the patches where a reduced column
// meets a full one.
func (p *Posts) Connectors() (solid.Shape, error) {
	props := p.props
	var acc solid.Accumulator
	add := func(what string, col, row int, shapes ...solid.Shape) {
		s, err := solid.TriangleHulls(shapes...)
		if err != nil {
			err = fmt.Errorf("%s connector column %d row %d: %w", what, col, row, err)
		}
		acc.Add(s, err)
	}
	full := func(col, shift int) bool {
		return props.ReducedInner <= col && col < props.Columns-props.ReducedOuter-shift
	}

	for col := 0; col < props.Columns-1; col++ {
		rows := props.LastRow
		if full(col, 1) {
			rows = props.LastRow + 1
		}
		for row := 0; row < rows; row++ {
			add("row", col, row,
				p.At(col+1, row, TL), p.At(col, row, TR),
				p.At(col+1, row, BL), p.At(col, row, BR))
		}
	}

	for col := 0; col < props.Columns; col++ {
		rows := props.CornerRow
		if full(col, 0) {
			rows = props.LastRow
		}
		for row := 0; row < rows; row++ {
			add("column", col, row,
				p.At(col, row, BL), p.At(col, row, BR),
				p.At(col, row+1, TL), p.At(col, row+1, TR))
		}
	}

	for col := 0; col < props.Columns-1; col++ {
		rows := props.CornerRow
		if full(col, 1) {
			rows = props.LastRow
		}
		for row := 0; row < rows; row++ {
			add("diagonal", col, row,
				p.At(col, row, BR), p.At(col, row+1, TR),
				p.At(col+1, row, BL), p.At(col+1, row+1, TL))
		}
		if col == props.ReducedInner-1 {
			add("inner patch", col, rows,
				p.At(col+1, rows, BL), p.At(col, rows, BR),
				p.At(col+1, rows+1, TL), p.At(col+1, rows+1, BL))
		}
		if col == props.Columns-props.ReducedOuter-1 {
			add("outer patch", col, rows,
				p.At(col, rows, BR), p.At(col+1, rows, BL),
				p.At(col, rows+1, TR), p.At(col, rows+1, BR))
		}
	}
	return acc.Union()
}
