package thumbs

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/walls"
)

// gridRow picks one of the two special rows of the main grid.
type gridRow uint8

const (
	cornerRow gridRow = iota
	lastRow
)

// ref names a web post: a corner of a thumb key or of a main-grid key.
type ref struct {
	grid   bool
	key    Key
	col    int
	row    gridRow
	corner connectors.Corner
}

func at(k Key, c connectors.Corner) ref { return ref{key: k, corner: c} }

func grid(col int, row gridRow, c connectors.Corner) ref {
	return ref{grid: true, col: col, row: row, corner: c}
}

func (r ref) String() string {
	if !r.grid {
		return fmt.Sprintf("%s.%s", r.key, r.corner)
	}
	row := "corner"
	if r.row == lastRow {
		row = "last"
	}
	return fmt.Sprintf("grid(%d,%s).%s", r.col, row, r.corner)
}

// wallEnd is a ref with the direction its wall leans toward.
type wallEnd struct {
	ref
	dx, dy float64
}

func (r ref) toward(dx, dy float64) wallEnd { return wallEnd{ref: r, dx: dx, dy: dy} }

// keySpec is the pose and plate shape of one thumb key.
type keySpec struct {
	rot    mathutil.Vec3
	offset mathutil.Vec3
	// ext moves the top and bottom posts out by ext for keys taller than 1U.
	ext float64
	// turn rotates the plate (degrees about z) before the configured plate rotation.
	turn float64
	// bars draws the extension bars when ext is set.
	bars bool
	// topOnly applies ext to the top edge alone.
	topOnly bool
}

// connectionSpec describes the hulls between the cluster and the left wall. The anchor
// key corner leans toward first at the base and toward last on its own column of posts.
type connectionSpec struct {
	key         Key
	corner      connectors.Corner
	first, last [2]float64
	top         ref
}

// layoutTable is the full description of a cluster.
type layoutTable struct {
	name string
	keys map[Key]keySpec
	// shift moves the origin away from the main grid.
	shift mathutil.Vec3
	// barsRotate turns the extension bars with the plate rotation.
	barsRotate bool
	// cutoutTurn is added to turn for the PCB cutouts.
	cutoutTurn float64
	groups     [][]ref
	walls      [][2]wallEnd
	connection connectionSpec
	screws     []mathutil.Vec2
	separable  []mathutil.Vec2
}

// layout implements Cluster over a layoutTable.
type layout struct {
	table  *layoutTable
	d      Deps
	props  *properties.Properties
	keys   KeySet
	origin mathutil.Vec3
}

func newLayout(d Deps, table *layoutTable) *layout {
	props := d.Placer.Properties()
	corner := props.LastRow
	if props.ReducedInner > 0 {
		corner = props.CornerRow
	}
	origin := d.Placer.KeyPosition(mathutil.Vec3{props.MountWidth / 2, -props.MountHeight / 2, 0}, 1, corner)
	origin = origin.Add(d.Config.ThumbOffsets).Add(table.shift)

	var keys KeySet
	for k := range table.keys {
		keys |= Keys(k)
	}
	return &layout{table: table, d: d, props: props, keys: keys, origin: origin}
}

func (l *layout) Name() string { return l.table.name }

func (l *layout) Keys() KeySet { return l.keys }

func (l *layout) Origin() mathutil.Vec3 { return l.origin }

func (l *layout) key(k Key) (keySpec, error) {
	ks, ok := l.table.keys[k]
	if !ok {
		return keySpec{}, fmt.Errorf("%s cluster key %s: %w", l.table.name, k, ErrMissingKey)
	}
	return ks, nil
}

func (l *layout) Place(k Key, s solid.Shape) (solid.Shape, error) {
	ks, err := l.key(k)
	if err != nil {
		return nil, err
	}
	return l.place(ks, s), nil
}

func (l *layout) place(ks keySpec, s solid.Shape) solid.Shape {
	return solid.Translate(solid.Rotate(s, ks.rot), l.origin.Add(ks.offset))
}

// keyPost is the unplaced post of corner c on a key with the extension of ks.
func (l *layout) keyPost(ks keySpec, c connectors.Corner) solid.Shape {
	_, sy := c.Sign()
	ext := sy * ks.ext
	if ks.topOnly && sy < 0 {
		ext = 0
	}
	off := l.d.Posts.Offset(c, false).Add(mathutil.Vec3{0, ext, 0})
	return solid.Translate(l.d.Posts.Post(), off)
}

func (l *layout) gridRow(r gridRow) int {
	if r == lastRow {
		return l.props.LastRow
	}
	return l.props.CornerRow
}

// post returns the placed post r names.
func (l *layout) post(r ref) (solid.Shape, error) {
	if r.grid {
		return l.d.Posts.At(r.col, l.gridRow(r.row), r.corner), nil
	}
	ks, err := l.key(r.key)
	if err != nil {
		return nil, err
	}
	return l.place(ks, l.keyPost(ks, r.corner)), nil
}

func (l *layout) anchor(e wallEnd) (walls.Anchor, error) {
	if e.grid {
		return l.d.Walls.KeyAnchor(e.col, l.gridRow(e.row), e.dx, e.dy, e.corner), nil
	}
	ks, err := l.key(e.key)
	if err != nil {
		return walls.Anchor{}, err
	}
	return walls.Anchor{
		Place: func(s solid.Shape) solid.Shape { return l.place(ks, s) },
		DX:    e.dx,
		DY:    e.dy,
		Post:  l.keyPost(ks, e.corner),
	}, nil
}

func plateRotation(cfg *config.Config, k Key) float64 {
	switch k {
	case TL:
		return cfg.ThumbPlateTLRotation
	case TR:
		return cfg.ThumbPlateTRRotation
	case ML:
		return cfg.ThumbPlateMLRotation
	case MR:
		return cfg.ThumbPlateMRRotation
	case BL:
		return cfg.ThumbPlateBLRotation
	case BR:
		return cfg.ThumbPlateBRRotation
	}
	return 0
}

func (l *layout) Render(side config.Side) solid.Shape {
	single := l.d.Plates.Single(side)
	var shapes []solid.Shape
	for _, k := range l.keys.List() {
		ks := l.table.keys[k]
		rot := plateRotation(l.d.Config, k)
		shapes = append(shapes, l.place(ks, solid.Rotate(single, mathutil.Vec3{0, 0, ks.turn + rot})))
		if !ks.bars || ks.ext <= 0 {
			continue
		}
		bars := l.d.Plates.Extension(ks.ext)
		if ks.topOnly {
			bars = l.d.Plates.TopExtension(ks.ext)
		}
		if l.table.barsRotate {
			bars = solid.Rotate(bars, mathutil.Vec3{0, 0, rot})
		}
		shapes = append(shapes, l.place(ks, bars))
	}
	return solid.Union(shapes...)
}

func (l *layout) Cutouts(side config.Side) solid.Shape {
	if !l.d.Plates.PCBClear() {
		return solid.Empty()
	}
	cut := l.d.Plates.Cutout(side)
	var shapes []solid.Shape
	for _, k := range l.keys.List() {
		ks := l.table.keys[k]
		turn := ks.turn + l.table.cutoutTurn + plateRotation(l.d.Config, k)
		shapes = append(shapes, l.place(ks, solid.Rotate(cut, mathutil.Vec3{0, 0, turn})))
	}
	return solid.Union(shapes...)
}

func (l *layout) Connectors() (solid.Shape, error) {
	var acc solid.Accumulator
	for i, group := range l.table.groups {
		posts := make([]solid.Shape, len(group))
		for j, r := range group {
			p, err := l.post(r)
			if err != nil {
				return nil, fmt.Errorf("thumb connector %d: %w", i, err)
			}
			posts[j] = p
		}
		s, err := solid.TriangleHulls(posts...)
		if err != nil {
			err = fmt.Errorf("%s thumb connector %d: %w", l.table.name, i, err)
		}
		acc.Add(s, err)
	}
	l.d.Log.Debug("thumb connectors built", zap.String("cluster", l.table.name), zap.Int("groups", len(l.table.groups)))
	return acc.Union()
}

// Walls braces every wall segment of the cluster. Thumb walls are always solid.
func (l *layout) Walls() (solid.Shape, error) {
	var acc solid.Accumulator
	for _, w := range l.table.walls {
		label := fmt.Sprintf("%s thumb wall %s-%s", l.table.name, w[0].ref, w[1].ref)
		a, err := l.anchor(w[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		b, err := l.anchor(w[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		s, err := l.d.Walls.Brace(a, b, walls.BraceOptions{})
		if err != nil {
			err = fmt.Errorf("%s: %w", label, err)
		}
		acc.Add(s, err)
	}
	l.d.Log.Debug("thumb walls built", zap.String("cluster", l.table.name), zap.Int("braces", len(l.table.walls)))
	return acc.Union()
}

// Connection closes the cluster against the low corner of the left wall with five hulls:
// a floor-reaching web, the wall above it, the left wall column, the step to the corner
// row key and the anchor key's own column of posts.
func (l *layout) Connection(side config.Side) (solid.Shape, error) {
	c := l.table.connection
	ks, err := l.key(c.key)
	if err != nil {
		return nil, fmt.Errorf("thumb connection: %w", err)
	}
	top, err := l.post(c.top)
	if err != nil {
		return nil, fmt.Errorf("thumb connection: %w", err)
	}

	e := l.d.Walls
	cr := l.props.CornerRow
	post := l.d.Posts.Post()
	left := func(v mathutil.Vec3) solid.Shape {
		return l.d.Placer.LeftKeyPlace(solid.Translate(post, v), cr, -1, true, side)
	}
	kp := l.keyPost(ks, c.corner)
	key := func(v mathutil.Vec3) solid.Shape { return l.place(ks, solid.Translate(kp, v)) }

	l0, l1 := left(mathutil.Vec3{}), left(e.Locate1(-1, 0))
	l2, l3 := left(e.Locate2(-1, 0)), left(e.Locate3(-1, 0, false))
	f, z := c.first, c.last
	k2, k3 := key(e.Locate2(f[0], f[1])), key(e.Locate3(f[0], f[1], false))

	var acc solid.Accumulator
	add := func(label string, h *solid.Hull, err error) {
		if err != nil {
			err = fmt.Errorf("%s thumb connection %s: %w", l.table.name, label, err)
		}
		acc.Add(h, err)
	}
	h, err := solid.BottomHull([]solid.Shape{l2, l3, k2, k3}, solid.BottomFloor)
	add("base", h, err)
	h, err = solid.HullFromShapes(l2, l3, k2, k3, top)
	add("wall", h, err)
	h, err = solid.HullFromShapes(l0, l1, l2, l3, top)
	add("left", h, err)
	h, err = solid.HullFromShapes(l0, l1, l.d.Posts.At(0, cr, connectors.BL), top)
	add("corner", h, err)
	h, err = solid.HullFromShapes(
		key(mathutil.Vec3{}),
		key(e.Locate1(z[0], z[1])),
		key(e.Locate2(z[0], z[1])),
		key(e.Locate3(z[0], z[1], false)),
		top,
	)
	add("key", h, err)
	return acc.Union()
}

func (l *layout) ScrewXY(separable bool) []mathutil.Vec2 {
	if separable {
		return slices.Clone(l.table.separable)
	}
	return slices.Clone(l.table.screws)
}
