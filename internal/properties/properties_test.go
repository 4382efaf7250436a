package properties

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/config"
)

func TestReducedColumnsDropLastRow(t *testing.T) {
	cfg := config.Defaults()
	cfg.Columns, cfg.Rows = 6, 5
	cfg.ReducedInnerCols, cfg.ReducedOuterCols = 2, 0
	p := New(&cfg)

	require.Len(t, p.Keys(), 6*5-2)
	for c := 0; c < 6; c++ {
		for r := 0; r < 5; r++ {
			want := !(r == p.LastRow && c < 2)
			assert.Equal(t, want, p.HasKey(c, r), "(%d,%d)", c, r)
		}
	}
	assert.False(t, p.HasKey(6, 0))
	assert.False(t, p.HasKey(0, -1))
}

func TestCornerRow(t *testing.T) {
	cfg := config.Defaults()
	cfg.ReducedInnerCols, cfg.ReducedOuterCols = 2, 0
	assert.Equal(t, New(&cfg).LastRow-1, New(&cfg).CornerRow)

	cfg.ReducedInnerCols = 0
	p := New(&cfg)
	assert.Equal(t, p.LastRow, p.CornerRow)
	assert.Len(t, p.Keys(), cfg.Columns*cfg.Rows)
}

func TestRadii(t *testing.T) {
	cfg := config.Defaults()
	p := New(&cfg)
	assert.Equal(t, cfg.UndercutKeyswitchWidth+2*cfg.PlateRim, p.MountWidth)
	capTop := cfg.PlateThickness + cfg.SAProfileKeyHeight
	assert.InDelta(t, (p.MountHeight+cfg.ExtraHeight)/2/math.Sin(cfg.Alpha/2)+capTop, p.RowRadius, 1e-12)
	assert.InDelta(t, (p.MountWidth+cfg.ExtraWidth)/2/math.Sin(cfg.Beta/2)+capTop, p.ColumnRadius, 1e-12)
	assert.Equal(t, cfg.Rows-cfg.CenterRowOffset, p.CenterRow)
	assert.InDelta(t, (1.5*cfg.SALength-p.MountHeight)/2, p.AdjustablePlateSize(1.5), 1e-12)
}

func TestColumnStyleForTallGrids(t *testing.T) {
	cfg := config.Defaults()
	cfg.ColumnStyle = config.ColumnStandard
	cfg.ColumnStyleGT5 = config.ColumnOrthographic
	assert.Equal(t, config.ColumnStandard, New(&cfg).ColumnStyle)
	cfg.Rows = 6
	assert.Equal(t, config.ColumnOrthographic, New(&cfg).ColumnStyle)
}

func TestSymmetry(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*config.Config)
		want config.Symmetry
	}{
		{"defaults", func(*config.Config) {}, config.Symmetric},
		{"hot swap", func(c *config.Config) { c.PlateStyle = config.PlateHSNotch }, config.Asymmetric},
		{"one trackball", func(c *config.Config) { c.ThumbStyle = config.ThumbTrackballCJ }, config.Asymmetric},
		{"two trackballs", func(c *config.Config) {
			c.ThumbStyle = config.ThumbTrackballCJ
			c.BallSide = config.Both
		}, config.Symmetric},
		{"in wall", func(c *config.Config) { c.TrackballInWall = true }, config.Asymmetric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.mod(&cfg)
			assert.Equal(t, tt.want, New(&cfg).Symmetry)
		})
	}
}

func TestThumbStylePerSide(t *testing.T) {
	cfg := config.Defaults()
	cfg.ThumbStyle = config.ThumbTrackballOrbyl
	cfg.OtherThumb = config.ThumbMini
	cfg.BallSide = config.Left
	p := New(&cfg)
	assert.Equal(t, config.ThumbTrackballOrbyl, p.ThumbStyle(config.Left))
	assert.Equal(t, config.ThumbMini, p.ThumbStyle(config.Right))

	cfg.ThumbStyle = config.ThumbMinidox
	p = New(&cfg)
	assert.Equal(t, config.ThumbMinidox, p.ThumbStyle(config.Right))
}
