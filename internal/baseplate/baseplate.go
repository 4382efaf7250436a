// Package baseplate builds the bottom plate from the footprint of the case: a rim plate
// following the outside of the walls, a thinner floor inside them, and counterbored screw
// holes under every insert.
package baseplate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/mesh"
	"dactyl-manuform/internal/screws"
	"dactyl-manuform/internal/solid"
)

// ErrNoOutline is returned when the footprint has no closed outline at the floor.
var ErrNoOutline = errors.New("baseplate: no outline at floor")

// sliceZ is just above the floor so walls standing on z=0 are cut cleanly.
const sliceZ = 0.001

// Footprint is what stands on the floor: walls, insert bosses and the thumb section, with
// the screw positions under them.
type Footprint struct {
	Shape  solid.Shape
	Screws []mathutil.Vec2
}

// Plate is a finished base plate with the loops it was extruded from.
type Plate struct {
	Solid solid.Shape
	// Outline is the outside of the walls, counter-clockwise.
	Outline []mathutil.Vec2
	// Inner is the inside of the walls, clockwise.
	Inner []mathutil.Vec2
	// Holes are the screw holes through the rim, clockwise.
	Holes [][]mathutil.Vec2
}

// Loops returns every outline of the plate, outside first.
func (p *Plate) Loops() [][]mathutil.Vec2 {
	out := [][]mathutil.Vec2{p.Outline, p.Inner}
	return append(out, p.Holes...)
}

// Mirror returns the plate reflected across the YZ plane. Loops keep their orientation.
func (p *Plate) Mirror() *Plate {
	holes := make([][]mathutil.Vec2, len(p.Holes))
	for i, h := range p.Holes {
		holes[i] = mirrorLoop(h)
	}
	return &Plate{
		Solid:   solid.Mirror(p.Solid, mathutil.PlaneYZ),
		Outline: mirrorLoop(p.Outline),
		Inner:   mirrorLoop(p.Inner),
		Holes:   holes,
	}
}

func mirrorLoop(loop []mathutil.Vec2) []mathutil.Vec2 {
	out := make([]mathutil.Vec2, len(loop))
	for i, v := range loop {
		out[len(loop)-1-i] = mathutil.Vec2{-v[0], v[1]}
	}
	return out
}

// Builder renders base plates for one configuration.
type Builder struct {
	thickness   float64
	rim         float64
	screwRadius float64
	cboreRadius float64
	cboreDepth  float64
	cell        float64
	log         *zap.Logger
}

// New returns a base plate builder. A nil logger discards output.
func New(cfg *config.Config, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		thickness:   cfg.BaseThickness,
		rim:         cfg.BaseRimThickness,
		screwRadius: cfg.ScrewHoleDiameter / 2,
		cboreRadius: cfg.ScrewCboreDiameter / 2,
		cboreDepth:  cfg.ScrewCboreDepth,
		cell:        cfg.MeshResolution,
		log:         log,
	}
}

// Render slices fp at the floor and extrudes the plate. The rim plate spans
// [-rim, 0]; the floor inside the walls is base_thickness thick from the bottom.
func (b *Builder) Render(ctx context.Context, fp Footprint) (*Plate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	shaft := screws.Insert{Bottom: b.screwRadius, Top: b.screwRadius, Height: 350, Offset: -10}
	cuts := make([]solid.Shape, len(fp.Screws))
	for i, xy := range fp.Screws {
		cuts[i] = shaft.At(xy)
	}
	shape := solid.Difference(fp.Shape, cuts...)

	contours, err := mesh.Slice(shape, sliceZ, b.cell)
	if err != nil {
		return nil, fmt.Errorf("base plate slice: %w", err)
	}
	p, err := b.classify(contours)
	if err != nil {
		return nil, err
	}
	b.log.Debug("base plate outline",
		zap.Int("contours", len(contours)),
		zap.Int("holes", len(p.Holes)),
		zap.Float64("area", mathutil.SignedArea(p.Outline)))

	rim := solid.Extrude(p.Loops(), -b.rim, 0)
	var bores []solid.Shape
	if b.cboreRadius > 0 && b.cboreDepth > 0 {
		for _, h := range p.Holes {
			c := mesh.Contour{Points: h}.Centroid()
			bores = append(bores, solid.Translate(
				solid.Cylinder(b.cboreRadius, b.cboreDepth, solid.DefaultSegments),
				c.Vec3(-b.rim)))
		}
	}
	floor := solid.Extrude([][]mathutil.Vec2{p.Inner}, -b.rim, b.thickness-b.rim)
	p.Solid = solid.Union(solid.Difference(rim, bores...), floor)
	return p, nil
}

// classify picks the outside as the largest counter-clockwise loop and the inside of the
// walls as the largest clockwise loop; the remaining clockwise loops are screw holes.
func (b *Builder) classify(contours []mesh.Contour) (*Plate, error) {
	outer := slices.IndexFunc(contours, func(c mesh.Contour) bool { return c.Area > 0 })
	inner := slices.IndexFunc(contours, func(c mesh.Contour) bool { return c.Area < 0 })
	if outer < 0 || inner < 0 {
		return nil, fmt.Errorf("%d contours: %w", len(contours), ErrNoOutline)
	}
	p := &Plate{Outline: contours[outer].Points, Inner: contours[inner].Points}
	for i, c := range contours {
		switch {
		case i == outer || i == inner:
		case c.Area < 0:
			p.Holes = append(p.Holes, c.Points)
		default:
			b.log.Debug("base plate island dropped", zap.Float64("area", c.Area))
		}
	}
	return p, nil
}
