// Package properties derives the scalar geometry shared by every builder: pivot radii,
// the special rows and columns of the key grid, and the mount size of one key plate.
package properties

import (
	"math"

	"dactyl-manuform/internal/config"
)

// Key is a (column, row) index into the key grid.
type Key struct {
	Col, Row int
}

// Properties is computed once per configuration and read-only afterwards.
type Properties struct {
	Rows, Columns int

	CenterRow, CenterCol int
	LastRow, LastCol     int
	// CornerRow is the lowest row present in every column.
	CornerRow int

	ReducedInner, ReducedOuter int

	// ColumnCurvature bends a column (rotation about X per row), RowCurvature bends a row.
	ColumnCurvature, RowCurvature float64

	KeyswitchWidth, KeyswitchHeight float64
	MountWidth, MountHeight         float64
	MountThickness                  float64
	CapTopHeight                    float64

	// RowRadius and ColumnRadius are the pivot distances of the two arcs.
	RowRadius, ColumnRadius float64

	KeyboardZOffset float64
	ColumnStyle     config.ColumnStyle
	Symmetry        config.Symmetry

	saLength float64
	cfg      *config.Config
}

// New derives the properties of cfg.
func New(cfg *config.Config) *Properties {
	p := &Properties{
		Rows:            cfg.Rows,
		Columns:         cfg.Columns,
		CenterRow:       cfg.Rows - cfg.CenterRowOffset,
		CenterCol:       cfg.CenterCol,
		LastRow:         cfg.Rows - 1,
		LastCol:         cfg.Columns - 1,
		ReducedInner:    cfg.ReducedInnerCols,
		ReducedOuter:    cfg.ReducedOuterCols,
		ColumnCurvature: cfg.Alpha,
		RowCurvature:    cfg.Beta,
		MountThickness:  cfg.PlateThickness,
		CapTopHeight:    cfg.PlateThickness + cfg.SAProfileKeyHeight,
		KeyboardZOffset: cfg.KeyboardZOffset,
		ColumnStyle:     cfg.ColumnStyle,
		saLength:        cfg.SALength,
		cfg:             cfg,
	}
	p.CornerRow = p.LastRow
	if p.ReducedInner > 0 || p.ReducedOuter > 0 {
		p.CornerRow = p.LastRow - 1
	}
	if p.Rows > 5 {
		p.ColumnStyle = cfg.ColumnStyleGT5
	}

	p.KeyswitchWidth, p.KeyswitchHeight = KeyswitchSize(cfg)
	p.MountWidth = p.KeyswitchWidth + 2*cfg.PlateRim
	p.MountHeight = p.KeyswitchHeight + 2*cfg.PlateRim

	p.RowRadius = (p.MountHeight+cfg.ExtraHeight)/2/math.Sin(p.ColumnCurvature/2) + p.CapTopHeight
	p.ColumnRadius = (p.MountWidth+cfg.ExtraWidth)/2/math.Sin(p.RowCurvature/2) + p.CapTopHeight

	p.Symmetry = symmetry(cfg)
	return p
}

// KeyswitchSize returns the switch cutout of the configured plate style. Notch and
// undercut plates share the undercut dimensions.
func KeyswitchSize(cfg *config.Config) (w, h float64) {
	switch cfg.PlateStyle.Base() {
	case config.PlateNotch, config.PlateUndercut:
		return cfg.UndercutKeyswitchWidth, cfg.UndercutKeyswitchHeight
	case config.PlateNub:
		return cfg.NubKeyswitchWidth, cfg.NubKeyswitchHeight
	}
	return cfg.HoleKeyswitchWidth, cfg.HoleKeyswitchHeight
}

func symmetry(cfg *config.Config) config.Symmetry {
	if cfg.PlateStyle.HotSwap() {
		return config.Asymmetric
	}
	trackball := cfg.TrackballInWall || cfg.ThumbStyle.Trackball()
	if trackball && cfg.BallSide != config.Both {
		return config.Asymmetric
	}
	return config.Symmetric
}

// AdjustablePlateSize is the extra plate length on each side of a key of size u.
func (p *Properties) AdjustablePlateSize(u float64) float64 {
	return (u*p.saLength - p.MountHeight) / 2
}

// KeyDimension is the length of a key of size u.
func (p *Properties) KeyDimension(u float64) float64 {
	return u * p.saLength
}

// HasKey reports whether a key hole exists at (col, row). The last row is dropped in
// the reduced inner and outer columns.
func (p *Properties) HasKey(col, row int) bool {
	if col < 0 || col >= p.Columns || row < 0 || row >= p.Rows {
		return false
	}
	return (p.ReducedInner <= col && col < p.Columns-p.ReducedOuter) || row != p.LastRow
}

// Keys lists every present key, column by column.
func (p *Properties) Keys() []Key {
	keys := make([]Key, 0, p.Rows*p.Columns)
	for c := 0; c < p.Columns; c++ {
		for r := 0; r < p.Rows; r++ {
			if p.HasKey(c, r) {
				keys = append(keys, Key{c, r})
			}
		}
	}
	return keys
}

// ThumbStyle returns the cluster used on side: trackball styles only on the ball side,
// other_thumb elsewhere.
func (p *Properties) ThumbStyle(side config.Side) config.ThumbStyle {
	if p.cfg.ThumbStyle.Trackball() && !p.onBallSide(side) {
		return p.cfg.OtherThumb
	}
	return p.cfg.ThumbStyle
}

// TrackballInWall reports whether the left wall of side carries the in-wall trackball.
func (p *Properties) TrackballInWall(side config.Side) bool {
	return p.cfg.TrackballInWall && p.onBallSide(side)
}

func (p *Properties) onBallSide(side config.Side) bool {
	return p.cfg.BallSide == config.Both || side == config.Both || side == p.cfg.BallSide
}
