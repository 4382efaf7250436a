package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/thumbs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func defaults() config.Config {
	cfg := config.Defaults()
	cfg.MeshResolution = 1
	return cfg
}

// samples are a few points through the case, on and off the walls.
var samples = []mathutil.Vec3{
	{0, 0, 10}, {20, -10, 5}, {-40, 30, 20}, {55, 45, 3}, {-70, -50, 8}, {10, 60, 25},
}

// thumbRim is a point inside the rim of the top-left thumb plate.
func thumbRim(t *testing.T, b *Builder, side config.Side) mathutil.Vec3 {
	t.Helper()
	mw, mh, mt := b.props.MountWidth, b.props.MountHeight, b.props.MountThickness
	dot := solid.Translate(solid.Box(0.01, 0.01, 0.01), mathutil.Vec3{mw/2 - 0.4, mh/2 - 0.4, mt / 2})
	placed, err := b.clusters[side].Place(thumbs.TL, dot)
	require.NoError(t, err)
	return placed.Bounds().Center()
}

func TestNewRejectsUnsupportedStyles(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"trackball thumb", func(c *config.Config) {
			c.ThumbStyle = config.ThumbTrackballOrbyl
			c.BallSide = config.Both
		}},
		{"controller", func(c *config.Config) { c.ControllerMountType = "BLUETOOTH" }},
		{"oled", func(c *config.Config) { c.OledMountType = "EINK" }},
		{"screws", func(c *config.Config) { c.ScrewsOffset = "FLOATING" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.modify(&cfg)
			_, err := New(&cfg, nil)
			require.ErrorIs(t, err, config.ErrUnsupportedStyle)
		})
	}
}

func TestSymmetricLeftMirrorsRight(t *testing.T) {
	cfg := defaults()
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	require.Equal(t, config.Symmetric, b.Symmetry())
	assert.Equal(t, []config.Side{config.Right}, b.renderedSides())

	ctx := context.Background()
	right, err := b.Side(ctx, config.Right)
	require.NoError(t, err)
	left, err := b.Side(ctx, config.Left)
	require.NoError(t, err)

	for _, p := range samples {
		m := mathutil.Vec3{-p[0], p[1], p[2]}
		assert.Equal(t, right.Main.Eval(p), left.Main.Eval(m), "%v", p)
		assert.Equal(t, right.Thumb.Eval(p), left.Thumb.Eval(m), "%v", p)
	}
}

func TestAsymmetricRendersBothSides(t *testing.T) {
	cfg := defaults()
	cfg.PlateStyle = config.PlateHSNotch
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, config.Asymmetric, b.Symmetry())
	assert.Len(t, b.clusters, 2)
	assert.Equal(t, config.Left, b.source(config.Left))
}

// TestAsymmetricLeftMirrorsRight samples the walls and base below the key plates, where
// the chiral hot-swap sockets do not reach.
func TestAsymmetricLeftMirrorsRight(t *testing.T) {
	cfg := defaults()
	cfg.PlateStyle = config.PlateHSNotch
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	require.Equal(t, config.Asymmetric, b.Symmetry())

	ctx := context.Background()
	right, err := b.Side(ctx, config.Right)
	require.NoError(t, err)
	left, err := b.Side(ctx, config.Left)
	require.NoError(t, err)

	bounds := right.Main.Bounds().Union(right.Thumb.Bounds())
	lb := left.Main.Bounds().Union(left.Thumb.Bounds())
	assert.InDelta(t, bounds.Max[0], -lb.Min[0], 1e-6)
	assert.InDelta(t, bounds.Min[1], lb.Min[1], 1e-6)

	const step = 7.0
	inside := 0
	for x := bounds.Min[0]; x <= bounds.Max[0]; x += step {
		for y := bounds.Min[1]; y <= bounds.Max[1]; y += step {
			for _, z := range []float64{0.5, 2, 3} {
				p := mathutil.Vec3{x, y, z}
				m := mathutil.Vec3{-x, y, z}
				rm := right.Main.Eval(p)
				assert.InDelta(t, rm, left.Main.Eval(m), 1e-6, "main %v", p)
				assert.InDelta(t, right.Thumb.Eval(p), left.Thumb.Eval(m), 1e-6, "thumb %v", p)
				if rm < 0 {
					inside++
				}
			}
		}
	}
	// the grid crosses the walls
	assert.Positive(t, inside)
}

func TestCarbonfetThumbBuilds(t *testing.T) {
	cfg := defaults()
	cfg.ThumbStyle = config.ThumbCarbonfet
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "CARBONFET", b.clusters[config.Right].Name())

	bodies, err := b.Side(context.Background(), config.Right)
	require.NoError(t, err)
	rim := thumbRim(t, b, config.Right)
	assert.Negative(t, bodies.Thumb.Eval(rim))
	assert.Negative(t, bodies.Main.Eval(rim))
}

func TestNothingBelowFloor(t *testing.T) {
	cfg := defaults()
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	bodies, err := b.Side(context.Background(), config.Right)
	require.NoError(t, err)

	for _, p := range samples {
		below := mathutil.Vec3{p[0], p[1], -1}
		assert.Positive(t, bodies.Main.Eval(below), "%v", below)
		assert.Positive(t, bodies.Thumb.Eval(below), "%v", below)
	}
}

func TestThumbJoinsMain(t *testing.T) {
	cfg := defaults()
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	bodies, err := b.Side(context.Background(), config.Right)
	require.NoError(t, err)

	rim := thumbRim(t, b, config.Right)
	assert.Negative(t, bodies.Thumb.Eval(rim))
	assert.Negative(t, bodies.Main.Eval(rim))
}

func TestSeparableThumb(t *testing.T) {
	cfg := defaults()
	cfg.SeparableThumb = true
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	bodies, err := b.Side(context.Background(), config.Right)
	require.NoError(t, err)

	rim := thumbRim(t, b, config.Right)
	assert.Negative(t, bodies.Thumb.Eval(rim))
	assert.Positive(t, bodies.Main.Eval(rim))
}

func TestOledExtras(t *testing.T) {
	tests := []struct {
		mount config.OledMount
		want  []string
	}{
		{config.OledNone, nil},
		{config.OledUndercut, []string{"oled_undercut_test"}},
		{config.OledSliding, []string{"oled_sliding_test"}},
		{config.OledClip, []string{"oled_clip", "oled_clip_assy_test", "oled_clip_test"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mount), func(t *testing.T) {
			cfg := defaults()
			cfg.OledMountType = tt.mount
			b, err := New(&cfg, nil)
			require.NoError(t, err)
			extras := b.extras()
			assert.Len(t, extras, len(tt.want))
			for _, name := range tt.want {
				require.Contains(t, extras, name)
				assert.False(t, solid.IsEmpty(extras[name]), name)
			}
		})
	}
}

func TestBuildCanceled(t *testing.T) {
	cfg := defaults()
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild(t *testing.T) {
	if testing.Short() {
		t.Skip("slices the whole case")
	}
	cfg := defaults()
	b, err := New(&cfg, nil)
	require.NoError(t, err)
	res, err := b.Build(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.RightPlate)
	require.NotNil(t, res.LeftPlate)
	assert.Positive(t, mathutil.SignedArea(res.RightPlate.Outline))
	assert.InDelta(t,
		mathutil.SignedArea(res.RightPlate.Outline),
		mathutil.SignedArea(res.LeftPlate.Outline), 1e-6)
	assert.Negative(t, mathutil.SignedArea(res.RightPlate.Inner))
	assert.Empty(t, res.Extras)
}
