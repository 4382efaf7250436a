package mounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/walls"
)

func newPlacer(t *testing.T, cfg *config.Config) *placement.Placer {
	t.Helper()
	props := properties.New(cfg)
	s, err := placement.Resolve(props, cfg)
	require.NoError(t, err)
	return placement.New(props, cfg, s)
}

func newController(t *testing.T, cfg config.Config) *Mount {
	t.Helper()
	placer := newPlacer(t, &cfg)
	e := walls.NewEngine(&cfg, placer, connectors.NewPosts(&cfg, placer), nil)
	m, err := NewController(&cfg, placer, e, nil)
	require.NoError(t, err)
	return m
}

func ops(steps []Step) []Op {
	out := make([]Op, len(steps))
	for i, s := range steps {
		out[i] = s.Op
	}
	return out
}

func TestControllerFeatures(t *testing.T) {
	tests := []struct {
		mount config.ControllerMount
		want  []string
		ops   []Op
	}{
		{config.ControllerNone, []string{}, []Op{}},
		{config.ControllerUSBWall, []string{"usb"}, []Op{OpAdd, OpCut}},
		{config.ControllerRJ9USBWall, []string{"usb", "rj9"}, []Op{OpAdd, OpCut, OpCut, OpAdd}},
		{config.ControllerUSBTeensy, []string{"teensy", "usb"}, []Op{OpAdd, OpAdd, OpCut}},
		{config.ControllerRJ9USBTeensy, []string{"teensy", "usb", "rj9"}, []Op{OpAdd, OpAdd, OpCut, OpCut, OpAdd}},
		{config.ControllerExternal, []string{"external"}, []Op{OpCut}},
		{config.ControllerPCBMount, []string{"pcb"}, []Op{OpCut, OpCut, OpAdd, OpCut, OpCut}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mount), func(t *testing.T) {
			cfg := config.Defaults()
			cfg.ControllerMountType = tt.mount
			m := newController(t, cfg)
			assert.Equal(t, tt.want, m.Features())
			steps := m.Steps()
			assert.Equal(t, tt.ops, ops(steps))
			for _, s := range steps {
				assert.False(t, solid.IsEmpty(s.Shape), s.Name)
			}
		})
	}
}

func TestUnknownController(t *testing.T) {
	cfg := config.Defaults()
	cfg.ControllerMountType = "BLUETOOTH"
	placer := newPlacer(t, &cfg)
	_, err := NewController(&cfg, placer, nil, nil)
	require.ErrorIs(t, err, config.ErrUnsupportedStyle)
	assert.Contains(t, err.Error(), "BLUETOOTH")
}

func TestUSBHolderIsHollow(t *testing.T) {
	cfg := config.Defaults()
	cfg.ControllerMountType = config.ControllerUSBWall
	m := newController(t, cfg)
	got := m.Apply(solid.Empty())

	steps := m.Steps()
	c := steps[1].Shape.Bounds().Center()
	assert.Positive(t, got.Eval(c))
	wall := mathutil.Vec3{c[0] + usbHolderSize[0]/2 + usbHolderThickness/4, c[1], c[2]}
	assert.Negative(t, got.Eval(wall))
}

func TestExternalCutsShell(t *testing.T) {
	cfg := config.Defaults()
	cfg.ControllerMountType = config.ControllerExternal
	m := newController(t, cfg)
	shell := solid.Box(400, 400, 100)
	got := m.Apply(shell)

	c := m.Steps()[0].Shape.Bounds().Center()
	assert.Negative(t, shell.Eval(c))
	assert.Positive(t, got.Eval(c))
	assert.InDelta(t, cfg.ExternalHolderHeight/2-0.05, c[2], 1e-9)
}

func TestNoControllerKeepsShell(t *testing.T) {
	cfg := config.Defaults()
	cfg.ControllerMountType = config.ControllerNone
	m := newController(t, cfg)
	shell := solid.Box(1, 2, 3)
	assert.Equal(t, shell, m.Apply(shell))
}

func newOled(t *testing.T, cfg config.Config) *Oled {
	t.Helper()
	o, err := NewOled(&cfg, newPlacer(t, &cfg), nil)
	require.NoError(t, err)
	return o
}

func TestOledNone(t *testing.T) {
	cfg := config.Defaults()
	cfg.OledMountType = config.OledNone
	o := newOled(t, cfg)
	hole, frame := o.Frame(config.Right)
	assert.True(t, solid.IsEmpty(hole))
	assert.True(t, solid.IsEmpty(frame))

	shell := solid.Box(1, 2, 3)
	assert.Equal(t, shell, o.Apply(shell, config.Right))
	_, ok := o.Clip()
	assert.False(t, ok)
}

func TestUnknownOled(t *testing.T) {
	cfg := config.Defaults()
	cfg.OledMountType = "EINK"
	_, err := NewOled(&cfg, newPlacer(t, &cfg), nil)
	require.ErrorIs(t, err, config.ErrUnsupportedStyle)
}

func TestOledFrames(t *testing.T) {
	for _, mount := range []config.OledMount{config.OledUndercut, config.OledSliding, config.OledClip} {
		t.Run(string(mount), func(t *testing.T) {
			cfg := config.Defaults()
			cfg.OledMountType = mount
			o := newOled(t, cfg)
			hole, frame := o.Frame(config.Right)
			require.False(t, solid.IsEmpty(hole))
			require.False(t, solid.IsEmpty(frame))

			loc, _ := o.Placement(config.Right)
			center := frame.Bounds().Center()
			assert.InDeltaSlice(t, loc[:], center[:], 1e-6)

			// the frame keeps the display opening clear
			assert.Positive(t, frame.Eval(loc))

			shell := solid.Box(400, 400, 200)
			got := o.Apply(shell, config.Right)
			assert.Positive(t, got.Eval(loc))
		})
	}
}

func TestOledPlacementFollowsLeftEdge(t *testing.T) {
	cfg := config.Defaults()
	cfg.OledMountType = config.OledUndercut
	o := newOled(t, cfg)
	loc, rot := o.Placement(config.Right)

	props := o.props
	edge := mathutil.Vec3{-props.MountWidth / 2, props.MountHeight / 2, 0}
	p1 := o.placer.KeyPositionAt(edge, 0, cfg.OledCenterRow-1)
	p2 := o.placer.KeyPositionAt(edge, 0, cfg.OledCenterRow+1)
	wantX := (p1[0]+p2[0])/2 - cfg.OledConfigurations.Undercut.LeftWallXOffsetOverride/2 + cfg.OledTranslationOffset[0]
	assert.InDelta(t, wantX, loc[0], 1e-9)
	assert.InDelta(t, 0, rot[1], 1e-12)
}

func TestOledTrackballInWall(t *testing.T) {
	cfg := config.Defaults()
	cfg.OledMountType = config.OledUndercut
	cfg.TrackballInWall = true
	cfg.BallSide = config.Left
	cfg.TBIWOledRotationOffset = mathutil.Vec3{1, 2, 3}
	o := newOled(t, cfg)

	_, right := o.Placement(config.Right)
	_, left := o.Placement(config.Left)
	assert.InDelta(t, -87, left[2], 1e-9)
	assert.InDelta(t, 1, left[0], 1e-9)
	assert.NotEqual(t, left, right)
}

func TestOledClip(t *testing.T) {
	cfg := config.Defaults()
	cfg.OledMountType = config.OledClip
	o := newOled(t, cfg)
	clip, ok := o.Clip()
	require.True(t, ok)
	b := clip.Bounds()
	assert.InDelta(t, 0, b.Center()[1], 1e-9)
	assert.InDelta(t, cfg.OledConfigurations.Clip.BezelThickness, b.Max[2], 1e-9)
	assert.Less(t, b.Min[2], -cfg.OledConfigurations.Clip.Depth)
}
