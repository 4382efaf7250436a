package placement

import (
	"sync"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
)

// Placer is the entry point every wall, connector and cluster builder uses to reach the
// key grid. Poses and left-wall anchors are memoized; a Placer belongs to one render and
// is safe for concurrent use.
type Placer struct {
	props    *properties.Properties
	strategy Strategy
	tenting  float64
	left     leftWall
	tbiw     leftWall

	mu      sync.RWMutex
	poses   map[properties.Key]Pose
	anchors map[leftKey]mathutil.Vec3
}

// leftWall holds the offsets that pull left-wall anchors away from column 0.
type leftWall struct {
	x, z                   float64
	lowerX, lowerY, lowerZ float64
}

type leftKey struct {
	side      config.Side
	row       int
	direction int
	low       bool
}

// New returns a placer for props using strategy.
func New(props *properties.Properties, cfg *config.Config, strategy Strategy) *Placer {
	left := leftWall{
		x:      cfg.LeftWallXOffset,
		z:      cfg.LeftWallZOffset,
		lowerX: cfg.LeftWallLowerXOffset,
		lowerY: cfg.LeftWallLowerYOffset,
		lowerZ: cfg.LeftWallLowerZOffset,
	}
	// an OLED frame in the left wall needs its own clearance
	if m, ok := cfg.OledConfigurations.Mount(cfg.OledMountType); ok {
		left.x = m.LeftWallXOffsetOverride
		left.z = m.LeftWallZOffsetOverride
		left.lowerY = m.LeftWallLowerYOffset
		left.lowerZ = m.LeftWallLowerZOffset
	}
	return &Placer{
		props:    props,
		strategy: strategy,
		tenting:  cfg.TentingAngle,
		left:     left,
		tbiw: leftWall{
			x:      cfg.TBIWLeftWallXOffsetOverride,
			z:      cfg.TBIWLeftWallZOffsetOverride,
			lowerX: cfg.TBIWLeftWallLowerXOffset,
			lowerY: cfg.TBIWLeftWallLowerYOffset,
			lowerZ: cfg.TBIWLeftWallLowerZOffset,
		},
		poses:   make(map[properties.Key]Pose),
		anchors: make(map[leftKey]mathutil.Vec3),
	}
}

// Properties returns the grid properties the placer was built with.
func (p *Placer) Properties() *properties.Properties { return p.props }

func (p *Placer) finalize(pose Pose) Pose {
	return pose.RotateY(p.tenting).Translate(mathutil.Vec3{0, 0, p.props.KeyboardZOffset})
}

// Pose returns the full pose of key (col, row).
func (p *Placer) Pose(col, row int) Pose {
	k := properties.Key{Col: col, Row: row}

	p.mu.RLock()
	if pose, ok := p.poses[k]; ok {
		p.mu.RUnlock()
		return pose
	}
	p.mu.RUnlock()

	pose := p.finalize(p.strategy.Pose(col, float64(row)))

	p.mu.Lock()
	if cached, ok := p.poses[k]; ok {
		p.mu.Unlock()
		return cached
	}
	p.poses[k] = pose
	p.mu.Unlock()
	return pose
}

// PoseAt returns the pose at a fractional row. Not cached.
func (p *Placer) PoseAt(col int, row float64) Pose {
	return p.finalize(p.strategy.Pose(col, row))
}

// KeyPlace moves s onto key (col, row).
func (p *Placer) KeyPlace(s solid.Shape, col, row int) solid.Shape {
	return Apply(p.Pose(col, row), s, ShapeOps)
}

// KeyPosition moves the point v onto key (col, row). It matches KeyPlace bit for bit.
func (p *Placer) KeyPosition(v mathutil.Vec3, col, row int) mathutil.Vec3 {
	return Apply(p.Pose(col, row), v, PointOps)
}

// KeyPositionAt is KeyPosition for a fractional row.
func (p *Placer) KeyPositionAt(v mathutil.Vec3, col int, row float64) mathutil.Vec3 {
	return Apply(p.PoseAt(col, row), v, PointOps)
}

// LeftKeyPosition returns the left-wall anchor beside row. direction picks the top (+1)
// or bottom (-1) corner of the column 0 key; lowCorner adds the lower-wall offsets.
// The in-wall trackball replaces the offsets on its side.
func (p *Placer) LeftKeyPosition(row, direction int, lowCorner bool, side config.Side) mathutil.Vec3 {
	k := leftKey{side: side, row: row, direction: direction, low: lowCorner}

	p.mu.RLock()
	if v, ok := p.anchors[k]; ok {
		p.mu.RUnlock()
		return v
	}
	p.mu.RUnlock()

	w := p.left
	if p.props.TrackballInWall(side) {
		w = p.tbiw
	}
	corner := mathutil.Vec3{-p.props.MountWidth * 0.5, float64(direction) * p.props.MountHeight * 0.5, 0}
	pos := p.KeyPosition(corner, 0, row)
	var lx, ly, lz float64
	if lowCorner {
		lx, ly, lz = w.lowerX, w.lowerY, w.lowerZ
	}
	v := pos.Sub(mathutil.Vec3{w.x - lx, -ly, w.z + lz})

	p.mu.Lock()
	if cached, ok := p.anchors[k]; ok {
		p.mu.Unlock()
		return cached
	}
	p.anchors[k] = v
	p.mu.Unlock()
	return v
}

// LeftKeyPlace moves s to the left-wall anchor of row.
func (p *Placer) LeftKeyPlace(s solid.Shape, row, direction int, lowCorner bool, side config.Side) solid.Shape {
	return solid.Translate(s, p.LeftKeyPosition(row, direction, lowCorner, side))
}

// LeftWallLowerY returns the lower-wall y offset in effect on side.
func (p *Placer) LeftWallLowerY(side config.Side) float64 {
	if p.props.TrackballInWall(side) {
		return p.tbiw.lowerY
	}
	return p.left.lowerY
}
