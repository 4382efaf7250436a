package mounts

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
)

// Oled builds the display frame set into the left wall.
type Oled struct {
	Type   config.OledMount
	cfg    *config.Config
	placer *placement.Placer
	props  *properties.Properties
	log    *zap.Logger
}

// NewOled resolves the OLED mount. An unknown type fails with config.ErrUnsupportedStyle.
func NewOled(cfg *config.Config, placer *placement.Placer, log *zap.Logger) (*Oled, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.OledMountType {
	case config.OledNone, config.OledUndercut, config.OledSliding, config.OledClip:
	default:
		return nil, fmt.Errorf("oled mount %q: %w", cfg.OledMountType, config.ErrUnsupportedStyle)
	}
	return &Oled{Type: cfg.OledMountType, cfg: cfg, placer: placer, props: placer.Properties(), log: log}, nil
}

// Placement returns where the frame center sits on side and its xyz rotation in degrees.
// The frame follows the left edge of column 0 between the rows around the center row.
func (o *Oled) Placement(side config.Side) (loc, rot mathutil.Vec3) {
	cfg := o.cfg
	tbiw := o.props.TrackballInWall(side)

	row, trans, turn := cfg.OledCenterRow, cfg.OledTranslationOffset, cfg.OledRotationOffset
	leftX := cfg.LeftWallXOffset
	if m, ok := cfg.OledConfigurations.Mount(o.Type); ok {
		leftX = m.LeftWallXOffsetOverride
	}
	if tbiw {
		row, trans, turn = cfg.TBIWOledCenterRow, cfg.TBIWOledTranslationOffset, cfg.TBIWOledRotationOffset
		leftX = cfg.TBIWLeftWallXOffsetOverride
	}

	edge := mathutil.Vec3{-o.props.MountWidth / 2, o.props.MountHeight / 2, 0}
	p1 := o.placer.KeyPositionAt(edge, 0, row-1)
	p2 := o.placer.KeyPositionAt(edge, 0, row+1)
	p0 := o.placer.KeyPositionAt(edge, 0, row)

	loc = p1.Add(p2).Scale(0.5).Add(mathutil.Vec3{-leftX / 2, 0, 0}).Add(trans)
	loc[2] = (loc[2] + p0[2]) / 2

	ax := mathutil.Rad2Deg(math.Atan2(p1[2]-p2[2], p1[1]-p2[1]))
	az := mathutil.Rad2Deg(math.Atan2(p1[0]-p2[0], p1[1]-p2[1]))
	if tbiw {
		rot = mathutil.Vec3{0, ax, -90}
	} else {
		rot = mathutil.Vec3{ax, 0, -az}
	}
	return loc, rot.Add(turn)
}

func (o *Oled) place(s solid.Shape, side config.Side) solid.Shape {
	loc, rot := o.Placement(side)
	return solid.Translate(solid.Rotate(s, rot), loc)
}

// Parts returns the hole and the frame centered on the origin, facing +z. Both are empty
// for NONE.
func (o *Oled) Parts() (hole, frame solid.Shape) {
	switch o.Type {
	case config.OledUndercut:
		return undercutFrame(o.cfg.OledConfigurations.Undercut)
	case config.OledSliding:
		return slidingFrame(o.cfg.OledConfigurations.Sliding)
	case config.OledClip:
		return clipFrame(o.cfg.OledConfigurations.Clip)
	}
	return solid.Empty(), solid.Empty()
}

// Frame returns the hole cut into the wall and the frame put back into it. Both are
// empty for NONE.
func (o *Oled) Frame(side config.Side) (hole, frame solid.Shape) {
	hole, frame = o.Parts()
	if solid.IsEmpty(frame) {
		return hole, frame
	}
	o.log.Debug("oled frame", zap.String("side", string(side)), zap.String("mount", string(o.Type)))
	return o.place(hole, side), o.place(frame, side)
}

// Apply cuts the frame hole out of shell and adds the frame.
func (o *Oled) Apply(shell solid.Shape, side config.Side) solid.Shape {
	hole, frame := o.Frame(side)
	if solid.IsEmpty(frame) {
		return shell
	}
	return solid.Union(solid.Difference(shell, hole), frame)
}

// Clip returns the snap-down bezel of a CLIP mount, unplaced, and false for other mounts.
func (o *Oled) Clip() (solid.Shape, bool) {
	if o.Type != config.OledClip {
		return nil, false
	}
	return clipBezel(o.cfg.OledConfigurations.Clip), true
}

func undercutFrame(c config.UndercutOled) (hole, frame solid.Shape) {
	w, h := c.Width+2*c.Rim, c.Height+2*c.Rim
	hole = solid.Box(w, h, c.CutDepth+0.01)
	frame = solid.Difference(solid.Box(w, h, c.Depth),
		solid.Box(c.Width, c.Height, c.Depth+0.1),
		solid.Translate(solid.Box(c.Width+2*c.Undercut, c.Height+2*c.Undercut, c.Depth),
			mathutil.Vec3{0, 0, -c.UndercutThickness}),
	)
	return hole, frame
}

func slidingFrame(c config.SlidingOled) (hole, frame solid.Shape) {
	w := c.Width + 2*c.Rim
	h := c.Height + 2*c.EdgeOverlapEnd + c.EdgeOverlapConnector + c.EdgeOverlapClearance + 2*c.Rim
	upH := c.Height + 2*c.Rim
	topStart := -h/2 + c.Rim + c.EdgeOverlapEnd + c.EdgeOverlapConnector
	topLen := c.Height
	topY := topStart + topLen/2

	hole = solid.Union(
		solid.Translate(solid.Box(w, upH, c.CutDepth+0.01), mathutil.Vec3{0, topY, 0}),
		solid.Translate(solid.Box(w, h, c.Depth+c.CutDepth/2), mathutil.Vec3{0, 0, -c.CutDepth / 4}),
	)

	connStart := -h/2 + c.Rim
	connLen := c.EdgeOverlapEnd + c.EdgeOverlapConnector + c.EdgeOverlapClearance + c.Thickness
	conn := solid.Translate(solid.Box(c.Width, connLen+0.01, c.Depth),
		mathutil.Vec3{0, connStart + connLen/2, -c.EdgeOverlapThickness})

	endLen := c.EdgeOverlapEnd + c.EdgeOverlapClearance
	endStart := h/2 - c.Rim - endLen
	end := solid.Translate(solid.Box(c.Width, endLen+0.01, c.Depth),
		mathutil.Vec3{0, endStart + endLen/2, -c.EdgeOverlapThickness})

	top := solid.Translate(
		solid.Box(c.Width, topLen, c.EdgeOverlapThickness+c.Thickness-c.EdgeChamfer),
		mathutil.Vec3{0, topY, (c.Depth - c.EdgeOverlapThickness - c.Thickness - c.EdgeChamfer) / 2})
	chamfer, err := solid.HullFromShapes(
		solid.Translate(solid.Box(c.Width, topLen, 0.01), mathutil.Vec3{0, 0, -c.EdgeChamfer - 0.05}),
		solid.Box(c.Width+2*c.EdgeChamfer, topLen+2*c.EdgeChamfer, 0.01),
	)
	if err == nil {
		top = solid.Union(top, solid.Translate(chamfer, mathutil.Vec3{0, topY, c.Depth/2 + 0.05}))
	}

	frame = solid.Difference(solid.Box(w, h, c.Depth), conn, top, end)
	return hole, frame
}

func clipOuter(c config.ClipOled) (w, h float64) {
	return c.Width + 2*c.Rim,
		c.Height + 2*c.ClipThickness + 2*c.ClipUndercut + 2*c.ClipOverhang + 2*c.Rim
}

func clipFrame(c config.ClipOled) (hole, frame solid.Shape) {
	w, h := clipOuter(c)
	hole = solid.Box(w, h, c.CutDepth+0.01)

	slotW := c.ClipWidth + 2*c.ClipWidthClearance
	slotH := c.Height + 2*c.ClipThickness + 2*c.ClipOverhang
	frame = solid.Difference(solid.Box(w, h, c.Depth),
		solid.Box(c.Width, c.Height, c.Depth+0.1),
		solid.Box(slotW, slotH, c.Depth+0.1),
		solid.Translate(solid.Box(slotW, slotH+2*c.ClipUndercut, c.Depth+0.1),
			mathutil.Vec3{0, 0, c.ClipUndercutThickness}),
	)
	plate := solid.Translate(solid.Box(c.Width+0.1, c.Height-2*c.ConnectorHole, c.Depth-c.Thickness),
		mathutil.Vec3{0, 0, -c.Thickness / 2})
	return hole, solid.Union(frame, plate)
}

func clipBezel(c config.ClipOled) solid.Shape {
	w, h := clipOuter(c)
	legDepth := c.Depth + c.ClipZGap

	bezel := solid.Translate(solid.Box(w-0.1, h-0.1, c.BezelThickness),
		mathutil.Vec3{0, 0, c.BezelThickness / 2})
	window, err := solid.HullFromShapes(
		solid.Box(c.ScreenWidth+2*c.BezelChamfer, c.ScreenLength+2*c.BezelChamfer, 0.01),
		solid.Box(c.ScreenWidth, c.ScreenLength, 2.05*c.BezelThickness),
	)
	if err == nil {
		bezel = solid.Difference(bezel, solid.Translate(window, mathutil.Vec3{0, 0, c.BezelThickness}))
	}

	leg := solid.Translate(solid.Box(c.ClipWidth, c.ClipThickness, legDepth), mathutil.Vec3{0, 0, -legDepth / 2})
	latch, err := solid.HullFromShapes(
		solid.Box(c.ClipWidth, c.ClipOverhang+c.ClipThickness, 0.01),
		solid.Translate(solid.Box(c.ClipWidth, c.ClipThickness/2, c.ClipExtension),
			mathutil.Vec3{0, -(c.ClipThickness/2 + c.ClipOverhang) / 2, -c.ClipExtension / 2}),
	)
	if err == nil {
		leg = solid.Union(leg, solid.Translate(latch, mathutil.Vec3{0, c.ClipOverhang / 2, -legDepth}))
	}
	leg = solid.Translate(leg, mathutil.Vec3{0, (c.Height+2*c.ClipOverhang+c.ClipThickness)/2 - c.ClipYGap, 0})

	return solid.Union(bezel, leg, solid.Mirror(leg, mathutil.PlaneXZ))
}
