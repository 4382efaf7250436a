// Package export meshes finished bodies and writes them out: binary STL for every body,
// DXF outlines for the base plates and an optional shaded preview image.
package export

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"dactyl-manuform/internal/baseplate"
	"dactyl-manuform/internal/builder"
	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mesh"
	"dactyl-manuform/internal/postprocess"
	"dactyl-manuform/internal/raster"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/viewmatrix"
)

// fillRatio is the share of the preview canvas the part fills.
const fillRatio = 0.9

// Artifact lists the files written for one body.
type Artifact struct {
	Name      string `json:"name"`
	STL       string `json:"stl,omitempty"`
	DXF       string `json:"dxf,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Triangles int    `json:"triangles"`
}

// Exporter writes the artifacts of one configuration into one directory.
type Exporter struct {
	dir     string
	cell    float64
	workers int
	format  config.PreviewFormat
	raster  raster.Options
	log     *zap.Logger
}

// New returns an exporter for cfg, which must already be resolved. A nil logger discards
// output.
func New(cfg *config.Config, log *zap.Logger) (*Exporter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Exporter{
		dir:     cfg.OutputDir,
		cell:    cfg.MeshResolution,
		workers: cfg.Workers,
		format:  cfg.Preview,
		log:     log,
	}
	if e.format != config.PreviewNone {
		cam, err := viewmatrix.Lookup(cfg.PreviewView)
		if err != nil {
			return nil, err
		}
		e.raster = raster.Options{
			Camera:      cam,
			Size:        cfg.RenderSize,
			Supersample: cfg.Supersample,
			Light:       raster.DefaultLightConfig(),
		}
	}
	return e, nil
}

// Dir is the output directory.
func (e *Exporter) Dir() string { return e.dir }

func (e *Exporter) create(name string, write func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, f.Close()
}

// Preview renders m, downsamples the supersampled frame, drops stray specks and frames
// the part on the canvas.
func (e *Exporter) Preview(m *mesh.Mesh) *image.NRGBA {
	size := e.raster.Size
	img := raster.Render(m, e.raster)
	img = postprocess.Downsample(img, size, size)
	img = postprocess.RemoveSmallClusters(img, 0.002)
	return postprocess.CropAndCenter(img, size, fillRatio)
}

func (e *Exporter) writePreview(name string, img *image.NRGBA) (string, error) {
	return e.create(name+"."+string(e.format), func(w io.Writer) error {
		return WriteImage(w, img, e.format)
	})
}

func (e *Exporter) export(ctx context.Context, name string, s solid.Shape) (Artifact, *image.NRGBA, error) {
	m, err := mesh.Polygonize(ctx, s, e.cell, e.workers)
	if err != nil {
		return Artifact{}, nil, fmt.Errorf("mesh %s: %w", name, err)
	}
	a := Artifact{Name: name, Triangles: len(m.Triangles)}
	if a.STL, err = e.create(name+".stl", func(w io.Writer) error { return WriteSTL(w, name, m) }); err != nil {
		return Artifact{}, nil, err
	}

	var img *image.NRGBA
	if e.format != config.PreviewNone {
		img = e.Preview(m)
		if a.Preview, err = e.writePreview(name, img); err != nil {
			return Artifact{}, nil, err
		}
	}
	e.log.Info("exported",
		zap.String("name", name),
		zap.String("stl", a.STL),
		zap.Int("triangles", a.Triangles))
	return a, img, nil
}

// Export meshes s and writes <name>.stl and, when previews are on, its image.
func (e *Exporter) Export(ctx context.Context, name string, s solid.Shape) (Artifact, error) {
	a, _, err := e.export(ctx, name, s)
	return a, err
}

// ExportPlate exports p like Export and adds its outlines as <name>.dxf.
func (e *Exporter) ExportPlate(ctx context.Context, name string, p *baseplate.Plate) (Artifact, error) {
	a, err := e.Export(ctx, name, p.Solid)
	if err != nil {
		return Artifact{}, err
	}
	a.DXF, err = e.create(name+".dxf", func(w io.Writer) error { return WriteDXF(w, "plate", p.Loops()) })
	if err != nil {
		return Artifact{}, err
	}
	return a, nil
}

// ExportResult writes every body of res under prefix: both halves, the thumb sections
// when separable, both base plates and the loose OLED parts. With previews on, the halves
// are also drawn side by side as <prefix>_pair.
func (e *Exporter) ExportResult(ctx context.Context, prefix string, res *builder.Result) ([]Artifact, error) {
	var out []Artifact
	halves := make(map[string]*image.NRGBA, 2)
	body := func(suffix string, s solid.Shape) error {
		a, img, err := e.export(ctx, prefix+"_"+suffix, s)
		if err != nil {
			return err
		}
		halves[suffix] = img
		out = append(out, a)
		return nil
	}

	if err := body("right", res.Right.Main); err != nil {
		return nil, err
	}
	if err := body("left", res.Left.Main); err != nil {
		return nil, err
	}
	if res.Separable {
		if err := body("right_thumb", res.Right.Thumb); err != nil {
			return nil, err
		}
		if err := body("left_thumb", res.Left.Thumb); err != nil {
			return nil, err
		}
	}
	for _, pl := range []struct {
		suffix string
		plate  *baseplate.Plate
	}{{"right_plate", res.RightPlate}, {"left_plate", res.LeftPlate}} {
		if pl.plate == nil {
			continue
		}
		a, err := e.ExportPlate(ctx, prefix+"_"+pl.suffix, pl.plate)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	names := make([]string, 0, len(res.Extras))
	for n := range res.Extras {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		if err := body(n, res.Extras[n]); err != nil {
			return nil, err
		}
	}

	if e.format != config.PreviewNone {
		name := prefix + "_pair"
		path, err := e.writePreview(name, postprocess.Pair(halves["left"], halves["right"], e.raster.Size, fillRatio))
		if err != nil {
			return nil, err
		}
		out = append(out, Artifact{Name: name, Preview: path})
	}
	return out, nil
}
