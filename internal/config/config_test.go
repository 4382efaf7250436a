package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dactyl-manuform/internal/mathutil"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	src := []byte(`{
		// json5 allows comments and trailing commas
		nrows: 4,
		ncols: 5,
		centercol: 2,
		plate_style: "HS_NOTCH",
		column_offsets: [[0, 0, 0], [0, 0, 0], [0, 2.82, -4.5], [0, 0, 0], [0, -6, 5],],
	}`)
	cfg, err := Parse(src)
	require.NoError(t, err)

	want := Defaults()
	want.Rows = 4
	want.Columns = 5
	want.CenterCol = 2
	want.PlateStyle = PlateHSNotch
	want.ColumnOffsets = want.ColumnOffsets[:5]
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"centercol past grid", `{ncols: 4, centercol: 4}`, "centercol"},
		{"unknown plate", `{plate_style: "CLAMP"}`, "plate_style"},
		{"unknown thumb", `{thumb_style: "WIDE"}`, "thumb_style"},
		{"short offsets", `{column_offsets: [[0, 0, 0]]}`, "column_offsets"},
		{"reduced everything", `{reduced_inner_cols: 3, reduced_outer_cols: 3}`, "reduced_inner_cols"},
		{"fixed tables", `{column_style: "fixed", fixed_x: [0, 1]}`, "fixed_x"},
		{"negative wall", `{wall_thickness: -1}`, "wall_thickness"},
		{"bad preview", `{preview: "gif"}`, "preview"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseSyntaxError(t *testing.T) {
	_, err := Parse([]byte(`{nrows: }`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalid)
}

func TestLoadNamesConfigAfterFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "four_by_five.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{nrows: 4}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "four_by_five", cfg.ConfigName)
	assert.Equal(t, 4, cfg.Rows)

	_, err = Load(filepath.Join(dir, "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve(t *testing.T) {
	cfg := Defaults()
	cfg.OutputDir = ""
	cfg.Workers = 0
	cfg.MeshResolution = 0
	cfg.Resolve(Flags{})
	assert.Equal(t, "things", cfg.OutputDir)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, 0.5, cfg.MeshResolution)

	cfg.Resolve(Flags{OutputDir: "out", Workers: 3, MeshResolution: 0.25, Preview: PreviewPNG})
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0.25, cfg.MeshResolution)
	assert.Equal(t, PreviewPNG, cfg.Preview)

	cfg.Resolve(Flags{NoPreview: true})
	assert.Equal(t, PreviewNone, cfg.Preview)
}

func TestPlateStyleHotSwap(t *testing.T) {
	assert.True(t, PlateHSUndercut.HotSwap())
	assert.Equal(t, PlateUndercut, PlateHSUndercut.Base())
	assert.False(t, PlateHole.HotSwap())
	assert.Equal(t, PlateHole, PlateHole.Base())
}

func TestOledMountLookup(t *testing.T) {
	cfgs := Defaults().OledConfigurations
	m, ok := cfgs.Mount(OledSliding)
	require.True(t, ok)
	assert.Equal(t, 12.5, m.Width)

	_, ok = cfgs.Mount(OledNone)
	assert.False(t, ok)
}

func TestColumnOffset(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, mathutil.Vec3{0, 2.82, -4.5}, cfg.ColumnOffset(2))
	assert.Equal(t, mathutil.Vec3{}, cfg.ColumnOffset(9))
}
