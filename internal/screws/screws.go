// Package screws places the heat-set screw inserts that hold the base plate: six around
// the main grid and a few under each thumb cluster.
package screws

import (
	"fmt"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/thumbs"
	"dactyl-manuform/internal/walls"
)

// Direction is the wall an insert is pushed against.
type Direction uint8

const (
	Right Direction = iota
	Left
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "right"
}

// Shift picks the wall the insert at (col, row) sits against. The outer columns win over
// the first and last rows.
func Shift(props *properties.Properties, col, row int) Direction {
	switch {
	case col == props.LastCol:
		return Right
	case col == 0:
		return Left
	case row == 0:
		return Up
	case row >= props.LastRow:
		return Down
	}
	return Right
}

// Adjust moves inserts along their shift direction, away from the wall in mm.
type Adjust struct {
	Left, Right, Up, Down float64
}

// ModelAdjust returns the adjustments of the insert model m for the given wall base
// thicknesses.
func ModelAdjust(m config.ScrewOffset, baseX, baseY float64) (Adjust, error) {
	switch m {
	case config.ScrewsOriginal:
		return Adjust{}, nil
	case config.ScrewsInside:
		return Adjust{Left: baseX, Right: -baseX / 2, Down: -baseY / 2, Up: -baseY / 3}, nil
	case config.ScrewsOutside:
		return Adjust{Right: baseX / 2, Down: baseY * 2 / 3, Up: baseY * 2 / 3}, nil
	}
	return Adjust{}, fmt.Errorf("screw insert model %q: %w", m, config.ErrUnsupportedStyle)
}

// Insert is the profile of one insert column: a frustum from Bottom to Top radius capped
// by a sphere of the Top radius, lifted by Offset.
type Insert struct {
	Bottom, Top float64
	Height      float64
	Offset      float64
}

// Shape returns the insert profile standing on the origin.
func (in Insert) Shape() solid.Shape {
	base := solid.Cone(in.Bottom, in.Top, in.Height, solid.DefaultSegments)
	return solid.Union(
		solid.Translate(base, mathutil.Vec3{0, 0, -in.Height / 2}),
		solid.Translate(solid.Sphere(in.Top, solid.DefaultSegments), mathutil.Vec3{0, 0, in.Height / 2}),
	)
}

// At stands the insert on the base plane at xy.
func (in Insert) At(xy mathutil.Vec2) solid.Shape {
	return solid.Translate(in.Shape(), mathutil.Vec3{xy[0], xy[1], in.Height/2 + in.Offset})
}

// location is a main-grid insert. lowerY moves it by the lower left-wall offset.
type location struct {
	col, row int
	lowerY   bool
}

// Inserts builds the insert bodies and holes for one render. It is safe for concurrent use.
type Inserts struct {
	cfg    *config.Config
	placer *placement.Placer
	walls  *walls.Engine
	props  *properties.Properties
	adjust Adjust
	log    *zap.Logger
}

// New resolves the insert model. An unknown model fails with config.ErrUnsupportedStyle.
func New(cfg *config.Config, placer *placement.Placer, e *walls.Engine, log *zap.Logger) (*Inserts, error) {
	if log == nil {
		log = zap.NewNop()
	}
	adj, err := ModelAdjust(cfg.ScrewsOffset, cfg.WallBaseXThickness, cfg.WallBaseYThickness)
	if err != nil {
		return nil, err
	}
	return &Inserts{
		cfg:    cfg,
		placer: placer,
		walls:  e,
		props:  placer.Properties(),
		adjust: adj,
		log:    log,
	}, nil
}

func (s *Inserts) locations() []location {
	last, lastCol := s.props.LastRow, s.props.LastCol
	return []location{
		{0, 0, false},
		{0, last - 1, true},
		{3, last, false},
		{3, 0, false},
		{lastCol, 0, false},
		{lastCol, last - 1, false},
	}
}

// Position returns the insert center at (col, row) on the base plane.
func (s *Inserts) Position(col, row int, side config.Side) mathutil.Vec2 {
	mh := s.props.MountHeight
	var p mathutil.Vec3
	switch Shift(s.props, col, row) {
	case Up:
		v := s.walls.Locate2(0, 1).Add(mathutil.Vec3{0, mh/2 + s.adjust.Up, 0})
		p = s.placer.KeyPosition(v, col, row)
	case Down:
		v := s.walls.Locate2(0, -1).Sub(mathutil.Vec3{0, mh/2 + s.adjust.Down, 0})
		p = s.placer.KeyPosition(v, col, row)
	case Left:
		p = s.placer.LeftKeyPosition(row, 0, false, side).
			Add(s.walls.Locate3(-1, 0, false)).
			Add(mathutil.Vec3{s.adjust.Left, 0, 0})
	default:
		v := s.walls.Locate2(1, 0).Add(mathutil.Vec3{mh/2 + s.adjust.Right, 0, 0})
		p = s.placer.KeyPosition(v, col, row)
	}
	return p.XY()
}

// Locations returns the xy of the six main-grid inserts of side.
func (s *Inserts) Locations(side config.Side) []mathutil.Vec2 {
	locs := s.locations()
	out := make([]mathutil.Vec2, len(locs))
	for i, l := range locs {
		xy := s.Position(l.col, l.row, side)
		if l.lowerY {
			xy[1] += s.placer.LeftWallLowerY(side)
		}
		out[i] = xy
	}
	return out
}

// Shapes places in at every main-grid location of side.
func (s *Inserts) Shapes(side config.Side, in Insert) solid.Shape {
	locs := s.Locations(side)
	shapes := make([]solid.Shape, len(locs))
	for i, xy := range locs {
		shapes[i] = in.At(xy)
	}
	return solid.Union(shapes...)
}

// ThumbLocations returns the xy of the inserts under c.
func ThumbLocations(c thumbs.Cluster, separable bool) []mathutil.Vec2 {
	origin := c.Origin().XY()
	out := c.ScrewXY(separable)
	for i := range out {
		out[i] = origin.Add(out[i])
	}
	return out
}

// ThumbShapes places in at the cluster's screw locations.
func (s *Inserts) ThumbShapes(c thumbs.Cluster, separable bool, in Insert) solid.Shape {
	var shapes []solid.Shape
	for _, xy := range ThumbLocations(c, separable) {
		shapes = append(shapes, in.At(xy))
	}
	return solid.Union(shapes...)
}

// OuterInsert is the solid boss around an insert.
func (s *Inserts) OuterInsert() Insert {
	pad := s.cfg.ScrewInsertOuterRadius - s.cfg.ScrewInsertBottomRadius
	return Insert{
		Bottom: s.cfg.ScrewInsertOuterRadius,
		Top:    s.cfg.ScrewInsertTopRadius + pad,
		Height: s.cfg.ScrewInsertHeight + 1.5,
	}
}

// HoleInsert is the pocket the insert is pressed into, opened just below the floor.
func (s *Inserts) HoleInsert() Insert {
	r := s.cfg.ScrewInsertBottomRadius
	return Insert{Bottom: r, Top: r, Height: s.cfg.ScrewInsertHeight + 0.02, Offset: -0.01}
}

// ScrewInsert is the clearance shaft for the screw itself.
func ScrewInsert() Insert {
	return Insert{Bottom: 1.7, Top: 1.7, Height: 350}
}

// Outers returns the insert bosses of side.
func (s *Inserts) Outers(side config.Side) solid.Shape {
	s.log.Debug("screw outers", zap.String("side", string(side)))
	return s.Shapes(side, s.OuterInsert())
}

// Holes returns the insert pockets of side.
func (s *Inserts) Holes(side config.Side) solid.Shape {
	return s.Shapes(side, s.HoleInsert())
}

// ScrewHoles returns the screw shafts of side.
func (s *Inserts) ScrewHoles(side config.Side) solid.Shape {
	return s.Shapes(side, ScrewInsert())
}

// ThumbOuters returns the insert bosses under c.
func (s *Inserts) ThumbOuters(c thumbs.Cluster, separable bool) solid.Shape {
	s.log.Debug("thumb screw outers", zap.String("cluster", c.Name()), zap.Bool("separable", separable))
	return s.ThumbShapes(c, separable, s.OuterInsert())
}

// ThumbHoles returns the insert pockets under c.
func (s *Inserts) ThumbHoles(c thumbs.Cluster, separable bool) solid.Shape {
	return s.ThumbShapes(c, separable, s.HoleInsert())
}

// ThumbScrewHoles returns the screw shafts under c.
func (s *Inserts) ThumbScrewHoles(c thumbs.Cluster, separable bool) solid.Shape {
	return s.ThumbShapes(c, separable, ScrewInsert())
}
