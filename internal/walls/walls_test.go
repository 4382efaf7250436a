package walls

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newEngine(t *testing.T, cfg config.Config) *Engine {
	t.Helper()
	props := properties.New(&cfg)
	s, err := placement.Resolve(props, &cfg)
	require.NoError(t, err)
	placer := placement.New(props, &cfg, s)
	return NewEngine(&cfg, placer, connectors.NewPosts(&cfg, placer), nil)
}

func TestLocateStages(t *testing.T) {
	cfg := config.Defaults()
	e := newEngine(t, cfg)

	assert.Equal(t, mathutil.Vec3{-4.5, 0, -1}, e.Locate1(-1, 0))
	assert.Equal(t, mathutil.Vec3{0, 6, -15}, e.Locate2(0, 1))
	assert.Equal(t, mathutil.Vec3{9.5, 10.5, -15}, e.Locate3(1, 1, false))

	cfg.WallBaseBackThickness = 2
	e = newEngine(t, cfg)
	assert.Equal(t, mathutil.Vec3{0, 8, -15}, e.Locate3(0, 1, true))
}

func TestBraceReachesFloor(t *testing.T) {
	e := newEngine(t, config.Defaults())
	dirs := [][2]float64{{0, 1}, {1, 0}, {-1, 0}, {0, -1}, {-0.3, 1}, {0.5, -1}, {1, 1}}
	for _, d := range dirs {
		for _, opts := range []BraceOptions{{}, {Back: true}, {Skeleton: true, SkelBottom: true}} {
			w, err := e.KeyBrace(
				KeyEnd{Col: 2, Row: 0, DX: d[0], DY: d[1], Corner: connectors.TL},
				KeyEnd{Col: 3, Row: 1, DX: d[0], DY: d[1], Corner: connectors.BR},
				opts,
			)
			require.NoError(t, err)
			assert.LessOrEqual(t, w.Bounds().Min[2], 0.0, "dir %v opts %+v", d, opts)

			// the base ring stands on the floor
			fp := e.Footprint(
				e.KeyAnchor(2, 0, d[0], d[1], connectors.TL),
				e.KeyAnchor(3, 1, d[0], d[1], connectors.BR),
				opts,
			)
			if w.Bounds().Min[2] < solid.BottomFloor {
				// a setback dips under the floor; the slice there is not the whole ring
				continue
			}
			c := mathutil.Mean(vec3s(fp))
			assert.Negative(t, w.Eval(mathutil.Vec3{c[0], c[1], solid.BottomFloor + 0.01}), "dir %v", d)
		}
	}
}

func vec3s(pts []mathutil.Vec2) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(pts))
	for i, p := range pts {
		out[i] = p.Vec3(0)
	}
	return out
}

func TestSkeletonIsLighterWithSameFootprint(t *testing.T) {
	e := newEngine(t, config.Defaults())
	a := e.KeyAnchor(3, 0, 0, 1, connectors.TL)
	b := e.KeyAnchor(3, 0, 0, 1, connectors.TR)
	full := BraceOptions{Back: true}
	skel := BraceOptions{Back: true, Skeleton: true, SkelBottom: true}

	solidWall, err := e.Brace(a, b, full)
	require.NoError(t, err)
	skelWall, err := e.Brace(a, b, skel)
	require.NoError(t, err)

	const step = 0.25
	assert.Less(t, solid.Volume(skelWall, step), solid.Volume(solidWall, step))
	if diff := cmp.Diff(e.Footprint(a, b, full), e.Footprint(a, b, skel)); diff != "" {
		t.Errorf("footprint mismatch (-full +skeleton):\n%s", diff)
	}
}

// point is a solid reduced to a single vertex.
type point mathutil.Vec3

func (p point) Eval(q mathutil.Vec3) float64          { return q.Sub(mathutil.Vec3(p)).Len() }
func (p point) Bounds() solid.Bounds                  { return solid.BoundsOf([]mathutil.Vec3{mathutil.Vec3(p)}) }
func (p point) Vertices() []mathutil.Vec3             { return []mathutil.Vec3{mathutil.Vec3(p)} }
func (p point) Transform(m mathutil.Mat4) solid.Shape { return point(m.MulPoint(mathutil.Vec3(p))) }

func TestDegenerateBraceFails(t *testing.T) {
	e := newEngine(t, config.Defaults())
	same := func(s solid.Shape) solid.Shape { return s }
	a := Anchor{Place: same, Post: point{}}
	b := Anchor{Place: same, Post: point{1, 0, 0}}

	_, err := e.Brace(a, b, BraceOptions{Skeleton: true})
	require.ErrorIs(t, err, solid.ErrDegenerateHull)

	// two points with their setbacks still span a volume
	a.DX, b.DY = -1, 1
	_, err = e.Brace(a, b, BraceOptions{})
	require.NoError(t, err)
}

func TestFrontRegions(t *testing.T) {
	got := make([]frontRegion, 0, 7)
	for x := 3; x < 10; x++ {
		got = append(got, region(x, 6))
	}
	want := []frontRegion{frontPlain, frontPlain, frontSetup, frontOffset, frontCompletion, frontAfter, frontAfter}
	assert.Equal(t, want, got)
	assert.Equal(t, frontPlain, region(5, 7))
}

func TestCaseBuilds(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*config.Config)
	}{
		{"defaults", func(*config.Config) {}},
		{"skeletal", func(c *config.Config) { c.Skeletal = true }},
		{"reduced outer", func(c *config.Config) { c.ReducedOuterCols = 1 }},
		{"full grid", func(c *config.Config) { c.ReducedInnerCols = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			tt.setup(&cfg)
			e := newEngine(t, cfg)
			s, err := e.Case(context.Background(), config.Right)
			require.NoError(t, err)
			require.False(t, solid.IsEmpty(s))
			assert.LessOrEqual(t, s.Bounds().Min[2], 0.0)
		})
	}
}

func TestCaseCanceled(t *testing.T) {
	e := newEngine(t, config.Defaults())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Case(ctx, config.Right)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLeftWallFollowsBallSide(t *testing.T) {
	cfg := config.Defaults()
	cfg.TrackballInWall = true
	cfg.BallSide = config.Left
	e := newEngine(t, cfg)

	plain, err := e.Left(config.Right)
	require.NoError(t, err)
	ball, err := e.Left(config.Left)
	require.NoError(t, err)
	// the in-wall trackball pushes the wall further out
	assert.Less(t, ball.Bounds().Min[0], plain.Bounds().Min[0])
}

func TestWallErrorsNameTheSegment(t *testing.T) {
	e := newEngine(t, config.Defaults())
	e.posts = connectors.NewPosts(&config.Config{PostSize: 0, WebThickness: 0}, e.placer)
	_, err := e.Right()
	require.ErrorIs(t, err, solid.ErrDegenerateHull)
	assert.Contains(t, err.Error(), "right wall row 0")
}
