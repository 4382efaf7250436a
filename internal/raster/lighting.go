package raster

import (
	"image/color"
	"math"

	"dactyl-manuform/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in view space.
type LightConfig struct {
	LightDir  mathutil.Vec3
	RimDir    mathutil.Vec3
	HalfMain  mathutil.Vec3 // precomputed half-vector for Blinn-Phong
	Ambient   float64
	Hemi      float64
	Direct    float64
	Rim       float64
	SpecInt   float64
	SpecPow   float64
	Exposure  float64
	InvGamma  float64
	BaseColor color.NRGBA
}

// DefaultLightConfig is a key light from the upper right, a cool rim light from behind and
// a matte grey body.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir:  lightDir,
		RimDir:    rimDir,
		HalfMain:  lightDir.Add(viewDir).Normalize(),
		Ambient:   0.35,
		Hemi:      0.30,
		Direct:    0.90,
		Rim:       0.30,
		SpecInt:   0.25,
		SpecPow:   16.0,
		Exposure:  1.0,
		InvGamma:  1.0 / 2.2,
		BaseColor: color.NRGBA{R: 160, G: 160, B: 170, A: 255},
	}
}

// ComputeShade returns the combined lighting scalar for a view-space face normal.
func (lc *LightConfig) ComputeShade(n mathutil.Vec3) float64 {
	// abs keeps inverted or open faces lit
	ndlMain := math.Abs(n.Dot(lc.LightDir))
	ndlRim := math.Abs(n.Dot(lc.RimDir))

	// brighter for faces looking up the screen
	hemi := (n[1]*0.5 + 0.5) * lc.Hemi

	spec := math.Pow(math.Max(n.Dot(lc.HalfMain), 0), lc.SpecPow) * lc.SpecInt
	return lc.Ambient + hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Shade lights the base color with shade in linear space, tone maps and re-encodes it.
func (lc *LightConfig) Shade(shade float64) color.NRGBA {
	enc := func(c uint8) uint8 {
		l := srgbToLinear[c] * shade * lc.Exposure
		return clamp255(math.Pow(ACESTonemap(l), lc.InvGamma) * 255)
	}
	c := lc.BaseColor
	return color.NRGBA{R: enc(c.R), G: enc(c.G), B: enc(c.B), A: c.A}
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
