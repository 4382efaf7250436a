package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/mathutil"
)

func TestLookup(t *testing.T) {
	for _, name := range Views() {
		c, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name)
		assert.InDelta(t, 1, c.R.Det(), 1e-12, name)
	}
	c, err := Lookup("ISO")
	require.NoError(t, err)
	assert.Equal(t, "iso", c.Name)

	_, err = Lookup("fisheye")
	require.ErrorIs(t, err, ErrUnknownView)
	assert.Contains(t, err.Error(), "top")
}

var cube = []mathutil.Vec3{
	{-10, -10, 0}, {10, -10, 0}, {10, 10, 0}, {-10, 10, 0},
	{-10, -10, 20}, {10, -10, 20}, {10, 10, 20}, {-10, 10, 20},
}

func TestTopView(t *testing.T) {
	c, err := Lookup("top")
	require.NoError(t, err)
	p := Fit(c, cube, 100, 10)

	assert.InDelta(t, 4, p.Scale, 1e-12)
	center := p.Project(mathutil.Vec3{0, 0, 10})
	assert.InDeltaSlice(t, []float64{50, 50, 0}, center[:], 1e-9)

	// screen y grows downward
	corner := p.Project(mathutil.Vec3{10, 10, 20})
	assert.InDeltaSlice(t, []float64{90, 10, 10}, corner[:], 1e-9)
}

func TestFrontViewLooksFromMinusY(t *testing.T) {
	c, err := Lookup("front")
	require.NoError(t, err)
	p := Fit(c, cube, 100, 0)

	near := p.Project(mathutil.Vec3{0, -10, 10})
	far := p.Project(mathutil.Vec3{0, 10, 10})
	assert.Greater(t, near[2], far[2])

	top := p.Project(mathutil.Vec3{0, 0, 20})
	bottom := p.Project(mathutil.Vec3{0, 0, 0})
	assert.Less(t, top[1], bottom[1])
}

func TestPerspectiveEnlargesNearSide(t *testing.T) {
	c, err := Lookup("persp")
	require.NoError(t, err)
	p := Fit(c, cube, 200, 0)
	ortho := Fit(Camera{R: c.R}, cube, 200, 0)

	// a near corner lands further from the center than without perspective
	var near mathutil.Vec3
	for _, v := range cube {
		if c.R.MulVec3(v)[2] > c.R.MulVec3(near)[2] {
			near = v
		}
	}
	dist := func(s mathutil.Vec3) float64 { return mathutil.Vec2{s[0] - 100, s[1] - 100}.Len() }
	assert.Greater(t, dist(p.Project(near)), dist(ortho.Project(near)))
}

func TestFitEmpty(t *testing.T) {
	c, err := Lookup("iso")
	require.NoError(t, err)
	p := Fit(c, nil, 64, 0)
	got := p.Project(mathutil.Vec3{})
	assert.InDeltaSlice(t, []float64{32, 32, 0}, got[:], 1e-9)
}
