// Package plate builds the switch plates: one plate per key hole in the selected retention
// style, the optional hot-swap socket holder, alignment holes and PCB clearance cutouts.
package plate

import (
	"fmt"
	"sync"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
)

// Kailh MX socket footprint, relative to the switch center.
const (
	centerPinDiameter = 4.1
	socketPinDiameter = 3.3
	socketBodyDepth   = 1.85
)

var socketPins = [2]mathutil.Vec2{{-3.81, 2.54}, {2.54, 5.08}}

// socketBody is the socket outline as two overlapping rectangles (center x, center y,
// width, height).
var socketBody = [2][4]float64{
	{-0.6, 4.0, 10.9, 4.6},
	{-4.3, 1.7, 5.3, 4.6},
}

// Plates builds and places switch plates for one render. It is safe for concurrent use.
type Plates struct {
	cfg    *config.Config
	props  *properties.Properties
	placer *placement.Placer
	style  config.PlateStyle

	mu     sync.Mutex
	single map[config.Side]solid.Shape
}

// New returns the plate builder. An unknown plate style fails with
// config.ErrUnsupportedStyle.
func New(cfg *config.Config, placer *placement.Placer) (*Plates, error) {
	switch cfg.PlateStyle.Base() {
	case config.PlateHole, config.PlateNub, config.PlateNotch, config.PlateUndercut:
	default:
		return nil, fmt.Errorf("plate style %q: %w", cfg.PlateStyle, config.ErrUnsupportedStyle)
	}
	return &Plates{
		cfg:    cfg,
		props:  placer.Properties(),
		placer: placer,
		style:  cfg.PlateStyle,
		single: make(map[config.Side]solid.Shape),
	}, nil
}

// Single returns one unplaced plate for side, centered on the key axis with its top face at
// the plate thickness. Left plates are mirrored because the socket holder is chiral.
func (p *Plates) Single(side config.Side) solid.Shape {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.single[side]; ok {
		return s
	}
	s := p.base()
	s = p.undercut(s)
	if p.style.HotSwap() {
		s = solid.Union(s, p.socketHolder())
	}
	s = p.holes(s)
	if side == config.Left {
		s = solid.Mirror(s, mathutil.PlaneYZ)
	}
	p.single[side] = s
	return s
}

func (p *Plates) base() solid.Shape {
	if p.style.Base() == config.PlateNub {
		return p.nubPlate()
	}
	mw, mh, mt := p.props.MountWidth, p.props.MountHeight, p.props.MountThickness
	kw, kh := p.props.KeyswitchWidth, p.props.KeyswitchHeight
	plate := solid.Translate(solid.Box(mw, mh, mt), mathutil.Vec3{0, 0, mt / 2})
	cut := solid.Translate(solid.Box(kw, kh, mt*2+0.02), mathutil.Vec3{0, 0, mt - 0.01})
	return solid.Difference(plate, cut)
}

// nubPlate is a frame with a cylindrical nub on each side wall.
func (p *Plates) nubPlate() solid.Shape {
	mw, mh, pt := p.props.MountWidth, p.props.MountHeight, p.props.MountThickness
	kw, kh := p.props.KeyswitchWidth, p.props.KeyswitchHeight

	tb := (mh - kh) / 2
	top := solid.Translate(solid.Box(mw, tb, pt), mathutil.Vec3{0, tb/2 + kh/2, pt / 2})
	lr := (mw - kw) / 2
	side := solid.Translate(solid.Box(lr, mh, pt), mathutil.Vec3{lr/2 + kw/2, 0, pt / 2})

	nub := solid.Translate(solid.Rotate(solid.Cylinder(1, 2.75, solid.DefaultSegments), mathutil.Vec3{90, 0, 0}),
		mathutil.Vec3{kw / 2, 0, 1})
	cube := solid.Translate(solid.Box(1.5, 2.75, pt), mathutil.Vec3{1.5/2 + kw/2, 0, pt / 2})
	shoulder, err := solid.HullFromShapes(nub, cube)
	if err != nil {
		// both inputs are solid primitives
		panic(err)
	}

	half := solid.Union(top, side, shoulder)
	other := solid.Mirror(solid.Mirror(half, mathutil.PlaneXZ), mathutil.PlaneYZ)
	return solid.Union(half, other)
}

// undercut cuts the clip ledge under the top of the plate: a cross of notches for NOTCH,
// a full rectangle for UNDERCUT. The UNDERCUT ledge is chamfered back to the hole over
// undercut_transition.
func (p *Plates) undercut(plate solid.Shape) solid.Shape {
	mt := p.props.MountThickness
	kw, kh := p.props.KeyswitchWidth, p.props.KeyswitchHeight
	cu, ct := p.cfg.ClipUndercut, p.cfg.ClipThickness
	z := -ct + mt/2

	switch p.style.Base() {
	case config.PlateNotch:
		nw := p.cfg.NotchWidth
		cut := solid.Union(
			solid.Box(nw, kh+2*cu, mt),
			solid.Box(kw+2*cu, nw, mt),
		)
		return solid.Difference(plate, solid.Translate(cut, mathutil.Vec3{0, 0, z}))
	case config.PlateUndercut:
		tr := min(p.cfg.UndercutTransition, mt-0.01)
		top := z + mt/2
		body := solid.Translate(solid.Box(kw+2*cu, kh+2*cu, mt-tr), mathutil.Vec3{0, 0, z - tr/2})
		if tr <= 0 {
			return solid.Difference(plate, body)
		}
		wide, narrow := rect(kw+2*cu, kh+2*cu, top-tr), rect(kw, kh, top)
		chamfer, err := solid.HullFromPoints(append(wide, narrow...))
		if err != nil {
			panic(err)
		}
		return solid.Difference(plate, body, chamfer)
	}
	return plate
}

func rect(w, h, z float64) []mathutil.Vec3 {
	return []mathutil.Vec3{{-w / 2, -h / 2, z}, {w / 2, -h / 2, z}, {w / 2, h / 2, z}, {-w / 2, h / 2, z}}
}

// socketHolder is the block under the plate that holds a Kailh hot-swap socket.
func (p *Plates) socketHolder() solid.Shape {
	depth := p.cfg.HotSwapDepth
	if depth <= 0 {
		return solid.Empty()
	}
	top := p.cfg.PlateOffset
	block := solid.Translate(solid.Box(p.props.MountWidth, p.props.MountHeight, depth), mathutil.Vec3{0, 0, top - depth/2})

	cuts := []solid.Shape{
		solid.Translate(solid.Cylinder(centerPinDiameter/2, depth+0.02, solid.DefaultSegments), mathutil.Vec3{0, 0, top - depth/2}),
	}
	for _, pin := range socketPins {
		cuts = append(cuts, solid.Translate(solid.Cylinder(socketPinDiameter/2, depth+0.02, solid.DefaultSegments),
			mathutil.Vec3{pin[0], pin[1], top - depth/2}))
	}
	for _, b := range socketBody {
		cuts = append(cuts, solid.Translate(solid.Box(b[2], b[3], socketBodyDepth+0.01),
			mathutil.Vec3{b[0], b[1], top - depth + socketBodyDepth/2 - 0.01}))
	}
	return solid.Difference(block, cuts...)
}

// holes drills the four alignment holes around the switch.
func (p *Plates) holes(plate solid.Shape) solid.Shape {
	if !p.cfg.PlateHoles {
		return plate
	}
	hw, hh := p.cfg.PlateHolesWidth/2, p.cfg.PlateHolesHeight/2
	off := p.cfg.PlateHolesXYOffset
	depth := p.cfg.PlateHolesDepth
	drill := solid.Cylinder(p.cfg.PlateHolesDiameter/2, depth+0.01, solid.DefaultSegments)

	var cuts []solid.Shape
	for _, s := range [4][2]float64{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}} {
		cuts = append(cuts, solid.Translate(drill, mathutil.Vec3{off[0] + s[0]*hw, off[1] + s[1]*hh, depth/2 - 0.01}))
	}
	return solid.Difference(plate, cuts...)
}

// Extension returns the web-thick bars that lengthen a plate by h above and below the
// mount, for keys taller than 1U.
func (p *Plates) Extension(h float64) solid.Shape {
	if h <= 0 {
		return solid.Empty()
	}
	bar := p.TopExtension(h)
	return solid.Union(bar, solid.Mirror(bar, mathutil.PlaneXZ))
}

// TopExtension is the upper bar of Extension alone, for keys that only grow upward.
func (p *Plates) TopExtension(h float64) solid.Shape {
	if h <= 0 {
		return solid.Empty()
	}
	web := p.cfg.WebThickness
	return solid.Translate(solid.Box(p.props.MountWidth, h, web),
		mathutil.Vec3{0, (h + p.props.MountHeight) / 2, p.cfg.PlateThickness - web/2})
}

// KeyHoles places a plate on every present key of the grid.
func (p *Plates) KeyHoles(side config.Side) solid.Shape {
	plate := p.Single(side)
	var holes []solid.Shape
	for _, k := range p.props.Keys() {
		holes = append(holes, p.placer.KeyPlace(plate, k.Col, k.Row))
	}
	return solid.Union(holes...)
}

// Cutout is the clearance box for a per-key PCB, hanging below the plate.
func (p *Plates) Cutout(side config.Side) solid.Shape {
	size := p.cfg.PlatePCBSize
	s := solid.Translate(solid.Box(size[0], size[1], size[2]), mathutil.Vec3{0, 0, -size[2] / 2})
	s = solid.Translate(s, p.cfg.PlatePCBOffset)
	if side == config.Left {
		s = solid.Mirror(s, mathutil.PlaneYZ)
	}
	return s
}

// PCBCutouts places a PCB clearance cutout under every present key. It is empty unless
// plate_pcb_clear is set.
func (p *Plates) PCBCutouts(side config.Side) solid.Shape {
	if !p.cfg.PlatePCBClear {
		return solid.Empty()
	}
	cut := p.Cutout(side)
	var cuts []solid.Shape
	for _, k := range p.props.Keys() {
		cuts = append(cuts, p.placer.KeyPlace(cut, k.Col, k.Row))
	}
	return solid.Union(cuts...)
}

// PCBClear reports whether PCB cutouts are enabled.
func (p *Plates) PCBClear() bool { return p.cfg.PlatePCBClear }
