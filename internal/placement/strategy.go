package placement

import (
	"fmt"
	"math"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/properties"
)

// Strategy emits the pose of a key before the global tenting and height are applied.
// Rows may be fractional; the OLED frame sits between two rows.
type Strategy interface {
	Pose(col int, row float64) Pose
}

// Resolve picks the strategy for the configured column style.
func Resolve(props *properties.Properties, cfg *config.Config) (Strategy, error) {
	base := spherical{props: props, offsets: cfg.ColumnOffset}
	switch props.ColumnStyle {
	case config.ColumnStandard:
		return Default{base}, nil
	case config.ColumnOrthographic:
		return Orthographic{base}, nil
	case config.ColumnFixed:
		return Fixed{
			spherical: base,
			angles:    cfg.FixedAngles,
			x:         cfg.FixedX,
			z:         cfg.FixedZ,
			tenting:   cfg.FixedTenting,
		}, nil
	}
	return nil, fmt.Errorf("%w: column style %q", config.ErrUnsupportedStyle, props.ColumnStyle)
}

type spherical struct {
	props   *properties.Properties
	offsets func(col int) mathutil.Vec3
}

func (s spherical) columnAngle(col int) float64 {
	return s.props.RowCurvature * float64(s.props.CenterCol-col)
}

// rowArc bends the column: rotate about X through the row pivot.
func (s spherical) rowArc(row float64) Pose {
	var p Pose
	return p.Pivot(OpRotateX, s.props.RowRadius, s.props.ColumnCurvature*(float64(s.props.CenterRow)-row))
}

// Default places every column on a sphere: a row arc, then a column arc about the
// column pivot, then the per-column stagger.
type Default struct{ spherical }

func (d Default) Pose(col int, row float64) Pose {
	return d.rowArc(row).
		Pivot(OpRotateY, d.props.ColumnRadius, d.columnAngle(col)).
		Translate(d.offsets(col))
}

// Orthographic keeps the row arc but spaces the tilted columns by a fixed x step
// instead of swinging them about the column pivot, which limits fanning on wide grids.
type Orthographic struct{ spherical }

func (o Orthographic) Pose(col int, row float64) Pose {
	r := o.props.ColumnRadius
	dx := -1 - r*math.Sin(o.props.RowCurvature)
	dz := r * (1 - math.Cos(o.columnAngle(col)))
	return o.rowArc(row).
		RotateY(o.columnAngle(col)).
		Translate(mathutil.Vec3{-float64(col-o.props.CenterCol) * dx, 0, dz}).
		Translate(o.offsets(col))
}

// Fixed reads each column's tilt and x/z position from tables, for layouts that are not
// a regular matrix. The row pivot sits at the column's own height.
type Fixed struct {
	spherical
	angles, x, z []float64
	tenting      float64
}

func (f Fixed) Pose(col int, row float64) Pose {
	var p Pose
	z := f.z[col]
	p = p.RotateY(f.angles[col]).
		Translate(mathutil.Vec3{f.x[col], 0, z}).
		Pivot(OpRotateX, f.props.RowRadius+z, f.props.ColumnCurvature*(float64(f.props.CenterRow)-row)).
		RotateY(f.tenting)
	return p.Translate(mathutil.Vec3{0, f.offsets(col)[1], 0})
}
