// Package walls builds the case walls: hull-stacked braces that run from a key-plate
// corner out and down to the base plane, and the four perimeter walls made of them.
package walls

import (
	"fmt"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/solid"
)

// Anchor is one end of a wall brace: a post, the function that places it, and the outward
// direction the wall leans toward.
type Anchor struct {
	Place  func(solid.Shape) solid.Shape
	DX, DY float64
	Post   solid.Shape
}

// BraceOptions select the wall profile.
//
// Skeleton drops the mid-height stages; SkelBottom keeps the base ring in skeleton mode.
// Back uses the back-wall base thickness in y.
type BraceOptions struct {
	Back       bool
	Skeleton   bool
	SkelBottom bool
}

func (o BraceOptions) solid() bool { return !o.Skeleton }

func (o BraceOptions) base() bool { return !o.Skeleton || o.SkelBottom }

// Engine builds wall braces for one render. It is safe for concurrent use.
type Engine struct {
	placer *placement.Placer
	posts  *connectors.Posts
	log    *zap.Logger

	thickness              float64
	xOffset, yOffset       float64
	zOffset                float64
	baseX, baseY, baseBack float64
	skeletal               bool
}

// NewEngine returns the wall engine. A nil logger discards output.
func NewEngine(cfg *config.Config, placer *placement.Placer, posts *connectors.Posts, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		placer:    placer,
		posts:     posts,
		log:       log,
		thickness: cfg.WallThickness,
		xOffset:   cfg.WallXOffset,
		yOffset:   cfg.WallYOffset,
		zOffset:   cfg.WallZOffset,
		baseX:     cfg.WallBaseXThickness,
		baseY:     cfg.WallBaseYThickness,
		baseBack:  cfg.WallBaseBackThickness,
		skeletal:  cfg.Skeletal,
	}
}

// Skeletal reports whether the configuration asks for see-through walls.
func (e *Engine) Skeletal() bool { return e.skeletal }

// Locate1 nudges a post out by the wall thickness, just under the plate edge.
func (e *Engine) Locate1(dx, dy float64) mathutil.Vec3 {
	return mathutil.Vec3{dx * e.thickness, dy * e.thickness, -1}
}

// Locate2 is the main outward and downward step of the wall.
func (e *Engine) Locate2(dx, dy float64) mathutil.Vec3 {
	return mathutil.Vec3{dx * e.xOffset, dy * e.yOffset, -e.zOffset}
}

// Locate3 is Locate2 widened by the base thickness.
func (e *Engine) Locate3(dx, dy float64, back bool) mathutil.Vec3 {
	by := e.baseY
	if back {
		by = e.baseBack
	}
	return mathutil.Vec3{dx * (e.xOffset + e.baseX), dy * (e.yOffset + by), -e.zOffset}
}

func (e *Engine) at(a Anchor, v mathutil.Vec3) solid.Shape {
	return a.Place(solid.Translate(a.Post, v))
}

// Brace joins a and b with one wall segment. The upper part is a single hull through both
// posts and their setback stages; the lower part hulls the setback stages with their drop
// to solid.BottomFloor, so the wall always stands on a flat footprint.
func (e *Engine) Brace(a, b Anchor, opts BraceOptions) (solid.Shape, error) {
	var top, bottom []solid.Shape
	for _, an := range [2]Anchor{a, b} {
		top = append(top, an.Place(an.Post))
		if opts.solid() {
			l2 := e.at(an, e.Locate2(an.DX, an.DY))
			top = append(top, e.at(an, e.Locate1(an.DX, an.DY)), l2)
			bottom = append(bottom, l2)
		}
		if opts.base() {
			l3 := e.at(an, e.Locate3(an.DX, an.DY, opts.Back))
			top = append(top, l3)
			bottom = append(bottom, l3)
		}
	}

	upper, err := solid.HullFromShapes(top...)
	if err != nil {
		return nil, fmt.Errorf("wall brace: %w", err)
	}
	if len(bottom) == 0 {
		return upper, nil
	}
	lower, err := solid.BottomHull(bottom, solid.BottomFloor)
	if err != nil {
		return nil, fmt.Errorf("wall brace base: %w", err)
	}
	return solid.Union(upper, lower), nil
}

// Footprint returns the outline where the brace base ring meets the floor: the 2D convex
// hull of both anchors' base-stage posts. It is the same with and without skeleton mode.
func (e *Engine) Footprint(a, b Anchor, opts BraceOptions) []mathutil.Vec2 {
	var pts []mathutil.Vec2
	for _, an := range [2]Anchor{a, b} {
		for _, v := range e.at(an, e.Locate3(an.DX, an.DY, opts.Back)).Vertices() {
			pts = append(pts, v.XY())
		}
	}
	return mathutil.ConvexHull2D(pts)
}

// KeyAnchor anchors a brace on corner c of grid key (col, row).
func (e *Engine) KeyAnchor(col, row int, dx, dy float64, c connectors.Corner) Anchor {
	return Anchor{
		Place: func(s solid.Shape) solid.Shape { return e.placer.KeyPlace(s, col, row) },
		DX:    dx,
		DY:    dy,
		Post:  e.posts.Corner(c, false),
	}
}

// LeftAnchor anchors a brace on the left-wall point beside row.
func (e *Engine) LeftAnchor(row, direction int, low bool, side config.Side, dx, dy float64) Anchor {
	return Anchor{
		Place: func(s solid.Shape) solid.Shape {
			return e.placer.LeftKeyPlace(s, row, direction, low, side)
		},
		DX:   dx,
		DY:   dy,
		Post: e.posts.Post(),
	}
}

// KeyEnd names one end of a grid brace.
type KeyEnd struct {
	Col, Row int
	DX, DY   float64
	Corner   connectors.Corner
}

// KeyBrace is Brace between two grid corners.
func (e *Engine) KeyBrace(a, b KeyEnd, opts BraceOptions) (solid.Shape, error) {
	return e.Brace(
		e.KeyAnchor(a.Col, a.Row, a.DX, a.DY, a.Corner),
		e.KeyAnchor(b.Col, b.Row, b.DX, b.DY, b.Corner),
		opts,
	)
}
