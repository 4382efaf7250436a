package walls

import (
	"fmt"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/solid"
)

// frontStart is the first column the front wall covers; the thumb cluster closes the case
// to its left.
const frontStart = 3

// builder collects the pieces of one wall and labels failures with the wall name.
type builder struct {
	e    *Engine
	name string
	acc  solid.Accumulator
}

func (e *Engine) newBuilder(name string) *builder {
	return &builder{e: e, name: name}
}

func (b *builder) add(label string, s solid.Shape, err error) {
	if err != nil {
		err = fmt.Errorf("%s %s: %w", b.name, label, err)
	}
	b.acc.Add(s, err)
}

func (b *builder) key(label string, from, to KeyEnd, opts BraceOptions) {
	if b.acc.Err() != nil {
		return
	}
	s, err := b.e.KeyBrace(from, to, opts)
	b.add(label, s, err)
}

func (b *builder) union() (solid.Shape, error) {
	b.e.log.Debug("wall built", zap.String("wall", b.name))
	return b.acc.Union()
}

func end(col, row int, dx, dy float64, c connectors.Corner) KeyEnd {
	return KeyEnd{Col: col, Row: row, DX: dx, DY: dy, Corner: c}
}

// Back runs along the top edge of row 0 and turns the back-right corner.
func (e *Engine) Back() (solid.Shape, error) {
	props := e.placer.Properties()
	skel := e.skeletal
	b := e.newBuilder("back wall")
	back := BraceOptions{Back: true}

	b.key("column 0", end(0, 0, 0, 1, connectors.TL), end(0, 0, 0, 1, connectors.TR), back)
	for x := 1; x < props.Columns; x++ {
		label := fmt.Sprintf("column %d", x)
		b.key(label, end(x, 0, 0, 1, connectors.TL), end(x, 0, 0, 1, connectors.TR), back)
		// SkelBottom is forwarded so a skeletal gap brace keeps its base ring.
		b.key(label+" gap", end(x, 0, 0, 1, connectors.TL), end(x-1, 0, 0, 1, connectors.TR),
			BraceOptions{Back: true, Skeleton: skel && x != 1, SkelBottom: true})
	}

	last := props.LastCol
	b.key("corner", end(last, 0, 0, 1, connectors.TR), end(last, 0, 1, 0, connectors.TR),
		BraceOptions{Back: true, Skeleton: skel, SkelBottom: true})
	if !skel {
		b.key("corner side", end(last, 0, 0, 1, connectors.TR), end(last, 0, 1, 0, connectors.TR), BraceOptions{})
	}
	return b.union()
}

// Right runs down the outer column to the corner row.
func (e *Engine) Right() (solid.Shape, error) {
	props := e.placer.Properties()
	opts := BraceOptions{Skeleton: e.skeletal}
	b := e.newBuilder("right wall")

	corner := props.LastRow
	if props.ReducedOuter > 0 {
		corner = props.CornerRow
	}
	last := props.LastCol

	b.key("row 0", end(last, 0, 1, 0, connectors.TR), end(last, 0, 1, 0, connectors.BR), opts)
	for y := 1; y <= corner; y++ {
		label := fmt.Sprintf("row %d", y)
		b.key(label+" gap", end(last, y-1, 1, 0, connectors.BR), end(last, y, 1, 0, connectors.TR), opts)
		b.key(label, end(last, y, 1, 0, connectors.TR), end(last, y, 1, 0, connectors.BR), opts)
	}
	b.key("corner", end(last, corner, 0, -1, connectors.BR), end(last, corner, 1, 0, connectors.BR), opts)
	return b.union()
}

// Left runs down the offset left wall beside column 0. Its anchors depend on side when a
// trackball sits in the wall.
func (e *Engine) Left(side config.Side) (solid.Shape, error) {
	props := e.placer.Properties()
	skel := e.skeletal
	b := e.newBuilder("left wall")

	brace := func(label string, a, c Anchor, opts BraceOptions) {
		if b.acc.Err() != nil {
			return
		}
		s, err := e.Brace(a, c, opts)
		b.add(label, s, err)
	}
	web := func(label string, shapes ...solid.Shape) {
		if b.acc.Err() != nil {
			return
		}
		h, err := solid.HullFromShapes(shapes...)
		b.add(label, h, err)
	}
	post := e.posts.Post()
	left := func(row, dir int, low bool) solid.Shape {
		return e.placer.LeftKeyPlace(post, row, dir, low, side)
	}

	brace("top", e.KeyAnchor(0, 0, 0, 1, connectors.TL), e.LeftAnchor(0, 1, false, side, 0, 1), BraceOptions{})
	brace("top corner", e.LeftAnchor(0, 1, false, side, 0, 1), e.LeftAnchor(0, 1, false, side, -1, 0),
		BraceOptions{Skeleton: skel})

	corner := props.LastRow
	if props.ReducedInner > 0 {
		corner = props.CornerRow
	}
	for y := 0; y <= corner; y++ {
		low := y == corner
		label := fmt.Sprintf("row %d", y)
		brace(label, e.LeftAnchor(y, 1, false, side, -1, 0), e.LeftAnchor(y, -1, low, side, -1, 0),
			BraceOptions{Skeleton: skel && y < corner})
		web(label+" web",
			e.posts.At(0, y, connectors.TL), e.posts.At(0, y, connectors.BL),
			left(y, 1, false), left(y, -1, low))
	}
	for y := 1; y <= corner; y++ {
		label := fmt.Sprintf("row %d gap", y)
		brace(label, e.LeftAnchor(y-1, -1, false, side, -1, 0), e.LeftAnchor(y, 1, false, side, -1, 0),
			BraceOptions{Skeleton: skel && y < corner})
		web(label+" web",
			e.posts.At(0, y, connectors.TL), e.posts.At(0, y-1, connectors.BL),
			left(y, 1, false), left(y-1, -1, false))
	}
	return b.union()
}

// frontRegion classifies a front-wall column against the first reduced outer column.
type frontRegion uint8

const (
	frontPlain frontRegion = iota
	frontSetup
	frontOffset
	frontCompletion
	frontAfter
)

// region returns where x sits relative to offsetCol.
func region(x, offsetCol int) frontRegion {
	switch {
	case x < offsetCol-1:
		return frontPlain
	case x < offsetCol:
		return frontSetup
	case x == offsetCol:
		return frontOffset
	case x == offsetCol+1:
		return frontCompletion
	}
	return frontAfter
}

// Front runs along the bottom edge from column 3 to the outer column. A reduced outer
// block steps the wall up to the corner row: the column before it leans out by half a
// unit, the first reduced column carries the step, and the rest follow the corner row.
func (e *Engine) Front() (solid.Shape, error) {
	props := e.placer.Properties()
	b := e.newBuilder("front wall")
	last, cr := props.LastRow, props.CornerRow

	offsetCol := props.Columns + 1
	if props.ReducedOuter > 0 {
		offsetCol = props.Columns - props.ReducedOuter
	}

	for x := frontStart; x < props.Columns; x++ {
		label := fmt.Sprintf("column %d", x)
		switch region(x, offsetCol) {
		case frontPlain, frontSetup:
			if x > frontStart {
				b.key(label+" gap", end(x-1, last, 0, -1, connectors.BR), end(x, last, 0, -1, connectors.BL), BraceOptions{})
			}
			lean := 0.0
			if region(x, offsetCol) == frontSetup {
				lean = 0.5
			}
			b.key(label, end(x, last, 0, -1, connectors.BL), end(x, last, lean, -1, connectors.BR), BraceOptions{})
		case frontOffset:
			b.key(label+" step", end(x-1, last, 0.5, -1, connectors.BR), end(x, cr, 0.5, -1, connectors.BL), BraceOptions{})
			b.key(label, end(x, cr, 0.5, -1, connectors.BL), end(x, cr, 0, -1, connectors.BR), BraceOptions{})
		case frontCompletion, frontAfter:
			b.key(label+" gap", end(x, cr, 0, -1, connectors.BL), end(x-1, cr, 0, -1, connectors.BR), BraceOptions{})
			b.key(label, end(x, cr, 0, -1, connectors.BL), end(x, cr, 0, -1, connectors.BR), BraceOptions{})
		}
	}
	return b.union()
}
