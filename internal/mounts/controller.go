// Package mounts carves the controller holder into the back wall and the OLED display
// frame into the left wall.
package mounts

import (
	"fmt"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/walls"
)

// Op is what a step does to the shell.
type Op uint8

const (
	OpAdd Op = iota
	OpCut
)

func (o Op) String() string {
	if o == OpCut {
		return "cut"
	}
	return "add"
}

// Step is one boolean applied to the shell.
type Step struct {
	Op    Op
	Name  string
	Shape solid.Shape
}

// Feature is a named piece of a controller mount.
type Feature struct {
	Name  string
	build func(g geometry) []Step
}

// geometry is what features measure from.
type geometry struct {
	cfg    *config.Config
	placer *placement.Placer
	walls  *walls.Engine
	props  *properties.Properties
}

// backWall is the outside face of the back wall over key (col, 0).
func (g geometry) backWall(col int, locate mathutil.Vec3) mathutil.Vec3 {
	return g.placer.KeyPosition(locate.Add(mathutil.Vec3{0, g.props.MountHeight / 2, 0}), col, 0)
}

func add(name string, s solid.Shape) Step { return Step{Op: OpAdd, Name: name, Shape: s} }

func cut(name string, s solid.Shape) Step { return Step{Op: OpCut, Name: name, Shape: s} }

var (
	usbHolderSize      = mathutil.Vec3{6.5, 10.0, 13.6}
	usbHolderThickness = 4.0
)

// USB is a boxed USB socket through the back wall above column 1.
var USB = Feature{Name: "usb", build: func(g geometry) []Step {
	pos := g.backWall(1, g.walls.Locate2(0, 1))
	s, t := usbHolderSize, usbHolderThickness
	at := mathutil.Vec3{pos[0], pos[1], (s[2] + t) / 2}
	return []Step{
		add("usb holder", solid.Translate(solid.Box(s[0]+t, s[1], s[2]+t), at)),
		cut("usb hole", solid.Translate(solid.Box(s[0], s[1], s[2]), at)),
	}
}}

// RJ9 is an RJ9 jack holder beside column 0.
var RJ9 = Feature{Name: "rj9", build: func(g geometry) []Step {
	start := g.backWall(0, g.walls.Locate3(0, 1, false)).Add(mathutil.Vec3{0, -3, 0})
	at := mathutil.Vec3{start[0], start[1], 11}
	cube := solid.Box(14.78, 13, 22.38)
	inner := solid.Union(
		solid.Translate(solid.Box(10.78, 9, 18.38), mathutil.Vec3{0, 2, 0}),
		solid.Translate(solid.Box(10.78, 13, 5), mathutil.Vec3{0, 0, 5}),
	)
	return []Step{
		cut("rj9 space", solid.Translate(cube, at)),
		add("rj9 holder", solid.Translate(solid.Difference(cube, inner), at)),
	}
}}

const (
	teensyWidth          = 20.0
	teensyPCBThickness   = 2.0
	teensyHolderTopLen   = 18.0
	teensyHolderWidth    = 7.0 + teensyPCBThickness
	teensyHolderSetback  = 1.4
	teensyHolderRailSize = 3.0
)

// Teensy is a rail that holds a Teensy board upright inside the left wall.
var Teensy = Feature{Name: "teensy", build: func(g geometry) []Step {
	top := g.placer.KeyPosition(g.walls.Locate3(-1, 0, false), 0, g.props.CenterRow-1)
	bot := g.placer.KeyPosition(g.walls.Locate3(-1, 0, false), 0, g.props.CenterRow+1)
	length := top[1] - bot[1]
	offset := -length / 2
	topOffset := teensyHolderTopLen/2 - length

	r := teensyHolderRailSize
	parts := []solid.Shape{
		solid.Translate(solid.Box(r, length, 6+teensyWidth), mathutil.Vec3{r / 2, offset, 0}),
		solid.Translate(solid.Box(teensyPCBThickness, length, r),
			mathutil.Vec3{teensyPCBThickness/2 + r, offset, -r/2 - teensyWidth/2}),
		solid.Translate(solid.Box(teensyPCBThickness, teensyHolderTopLen, r),
			mathutil.Vec3{teensyPCBThickness/2 + r, topOffset, r/2 + teensyWidth/2}),
		solid.Translate(solid.Box(4, teensyHolderTopLen, 4),
			mathutil.Vec3{teensyPCBThickness + 5, topOffset, 1 + teensyWidth/2}),
	}
	at := mathutil.Vec3{
		top[0] - teensyHolderWidth - teensyHolderSetback,
		top[1] - 1,
		(6 + teensyWidth) / 2,
	}
	return []Step{add("teensy holder", solid.Translate(solid.Union(parts...), at))}
}}

// External is an opening for a controller in an external holder, with an undercut lip.
var External = Feature{Name: "external", build: func(g geometry) []Step {
	w, h := g.cfg.ExternalHolderWidth, g.cfg.ExternalHolderHeight
	start := g.backWall(0, g.walls.Locate3(0, 1, false)).Add(mathutil.Vec3{w / 2, 0, 0})
	hole := solid.Union(
		solid.Box(w, 20, h+0.1),
		solid.Translate(solid.Box(w+8, 10, h+8+0.1), mathutil.Vec3{0, -5, 0}),
	)
	at := mathutil.Vec3{
		start[0] + g.cfg.ExternalHolderXOffset,
		start[1] + g.cfg.ExternalHolderYOffset,
		h/2 - 0.05,
	}
	return []Step{cut("external holder", solid.Translate(hole, at))}
}}

// PCB is a shelf for a controller PCB with USB and TRRS openings and screw holes.
var PCB = Feature{Name: "pcb", build: func(g geometry) []Step {
	cfg := g.cfg
	ref := g.backWall(0, g.walls.Locate3(0, 1, false))
	ref = mathutil.Vec3{ref[0] + cfg.PCBMountRefOffset[0], ref[1] + cfg.PCBMountRefOffset[1], cfg.PCBMountRefOffset[2]}
	holder := ref.Add(cfg.PCBHolderOffset)
	hs := cfg.PCBHolderSize

	usb := ref.Add(cfg.PCBUSBHoleOffset)
	us := cfg.PCBUSBHoleSize
	usbHole := solid.Translate(solid.Box(us[0], us[1], us[2]),
		mathutil.Vec3{usb[0], usb[1], us[2]/2 + usbHolderThickness})

	trrs := ref.Add(cfg.TRRSOffset)
	trrsHole := solid.Rotate(solid.Cylinder(cfg.TRRSHoleSize[0], cfg.TRRSHoleSize[1], solid.DefaultSegments),
		mathutil.Vec3{0, 90, 90})
	trrsHole = solid.Translate(trrsHole, mathutil.Vec3{trrs[0], trrs[1], cfg.TRRSHoleSize[0] + hs[2]})

	shelf := solid.Translate(solid.Box(hs[0], hs[1], hs[2]),
		mathutil.Vec3{holder[0], holder[1] - hs[1]/2, hs[2] / 2})

	ws := cfg.WallThinnerSize
	thinner := solid.Translate(solid.Box(ws[0], ws[1], ws[2]),
		mathutil.Vec3{holder[0], holder[1] - ws[1]/2, ws[2]/2 + hs[2]})

	r, h := cfg.PCBScrewHoleSize[0], cfg.PCBScrewHoleSize[1]
	screw := ref.Add(mathutil.Vec3{0, cfg.PCBScrewYOffset, h/2 - 0.1})
	var screws []solid.Shape
	for _, dx := range cfg.PCBScrewXOffsets {
		screws = append(screws, solid.Translate(solid.Cylinder(r, h, solid.DefaultSegments), screw.Add(mathutil.Vec3{dx, 0, 0})))
	}

	return []Step{
		cut("pcb usb hole", usbHole),
		cut("trrs hole", trrsHole),
		add("pcb holder", shelf),
		cut("wall thinner", thinner),
		cut("pcb screw holes", solid.Union(screws...)),
	}
}}

// controllerFeatures lists the features of each mount type, in application order.
var controllerFeatures = map[config.ControllerMount][]Feature{
	config.ControllerNone:         nil,
	config.ControllerUSBWall:      {USB},
	config.ControllerRJ9USBWall:   {USB, RJ9},
	config.ControllerUSBTeensy:    {Teensy, USB},
	config.ControllerRJ9USBTeensy: {Teensy, USB, RJ9},
	config.ControllerExternal:     {External},
	config.ControllerPCBMount:     {PCB},
}

// Mount is the controller mount of one configuration.
type Mount struct {
	Type     config.ControllerMount
	features []Feature
	geometry geometry
	log      *zap.Logger
}

// NewController resolves the controller mount. An unknown type fails with
// config.ErrUnsupportedStyle.
func NewController(cfg *config.Config, placer *placement.Placer, e *walls.Engine, log *zap.Logger) (*Mount, error) {
	if log == nil {
		log = zap.NewNop()
	}
	features, ok := controllerFeatures[cfg.ControllerMountType]
	if !ok {
		return nil, fmt.Errorf("controller mount %q: %w", cfg.ControllerMountType, config.ErrUnsupportedStyle)
	}
	return &Mount{
		Type:     cfg.ControllerMountType,
		features: features,
		geometry: geometry{cfg: cfg, placer: placer, walls: e, props: placer.Properties()},
		log:      log,
	}, nil
}

// Features returns the feature names in application order.
func (m *Mount) Features() []string {
	out := make([]string, len(m.features))
	for i, f := range m.features {
		out[i] = f.Name
	}
	return out
}

// Steps expands every feature into its booleans.
func (m *Mount) Steps() []Step {
	var steps []Step
	for _, f := range m.features {
		steps = append(steps, f.build(m.geometry)...)
	}
	return steps
}

// Apply runs the steps against shell in order.
func (m *Mount) Apply(shell solid.Shape) solid.Shape {
	for _, s := range m.Steps() {
		m.log.Debug("controller mount step",
			zap.String("mount", string(m.Type)),
			zap.Stringer("op", s.Op),
			zap.String("step", s.Name))
		switch s.Op {
		case OpAdd:
			shell = solid.Union(shell, s.Shape)
		case OpCut:
			shell = solid.Difference(shell, s.Shape)
		}
	}
	return shell
}
