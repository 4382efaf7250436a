// Package builder assembles the case halves of one configuration: the main body with its
// walls, plates, inserts and mounts, the thumb section, and the base plate under both.
package builder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dactyl-manuform/internal/baseplate"
	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/mounts"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/plate"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/screws"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/thumbs"
	"dactyl-manuform/internal/walls"
)

// Bodies are the printable parts of one side. Thumb is the thumb section on its own; Main
// already contains it unless the thumb cluster is separable.
type Bodies struct {
	Main  solid.Shape
	Thumb solid.Shape
}

func (b Bodies) mirror() Bodies {
	return Bodies{
		Main:  solid.Mirror(b.Main, mathutil.PlaneYZ),
		Thumb: solid.Mirror(b.Thumb, mathutil.PlaneYZ),
	}
}

// Result is everything one configuration produces.
type Result struct {
	Right, Left           Bodies
	RightPlate, LeftPlate *baseplate.Plate
	// Separable is set when the thumb bodies are printed on their own.
	Separable bool
	// Extras are the loose OLED parts by artifact name; empty without an OLED mount.
	Extras map[string]solid.Shape
}

// Builder holds the resolved part builders for one configuration. It is safe for
// concurrent use.
type Builder struct {
	cfg        *config.Config
	props      *properties.Properties
	placer     *placement.Placer
	posts      *connectors.Posts
	walls      *walls.Engine
	plates     *plate.Plates
	inserts    *screws.Inserts
	controller *mounts.Mount
	oled       *mounts.Oled
	clusters   map[config.Side]thumbs.Cluster
	base       *baseplate.Builder
	log        *zap.Logger
}

// New resolves every part builder of cfg. Unsupported styles fail here, before any
// geometry is built. A nil logger discards output.
func New(cfg *config.Config, log *zap.Logger) (*Builder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	props := properties.New(cfg)
	strategy, err := placement.Resolve(props, cfg)
	if err != nil {
		return nil, err
	}
	placer := placement.New(props, cfg, strategy)
	posts := connectors.NewPosts(cfg, placer)
	engine := walls.NewEngine(cfg, placer, posts, log)
	plates, err := plate.New(cfg, placer)
	if err != nil {
		return nil, err
	}
	inserts, err := screws.New(cfg, placer, engine, log)
	if err != nil {
		return nil, err
	}
	controller, err := mounts.NewController(cfg, placer, engine, log)
	if err != nil {
		return nil, err
	}
	oled, err := mounts.NewOled(cfg, placer, log)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:        cfg,
		props:      props,
		placer:     placer,
		posts:      posts,
		walls:      engine,
		plates:     plates,
		inserts:    inserts,
		controller: controller,
		oled:       oled,
		clusters:   make(map[config.Side]thumbs.Cluster),
		base:       baseplate.New(cfg, log),
		log:        log,
	}
	deps := thumbs.Deps{Config: cfg, Placer: placer, Posts: posts, Walls: engine, Plates: plates, Log: log}
	for _, side := range b.renderedSides() {
		c, err := thumbs.Resolve(deps, side)
		if err != nil {
			return nil, err
		}
		b.clusters[side] = c
	}
	log.Info("builder ready",
		zap.String("symmetry", string(props.Symmetry)),
		zap.Strings("controller", controller.Features()),
		zap.String("oled", string(oled.Type)),
		zap.Int("rows", props.Rows),
		zap.Int("cols", props.Columns))
	return b, nil
}

// Symmetry reports whether the left side is a mirror of the right.
func (b *Builder) Symmetry() config.Symmetry { return b.props.Symmetry }

// renderedSides are the sides whose geometry is built; a symmetric left side is the
// mirrored right one.
func (b *Builder) renderedSides() []config.Side {
	if b.props.Symmetry == config.Asymmetric {
		return []config.Side{config.Right, config.Left}
	}
	return []config.Side{config.Right}
}

// source is the side whose geometry is built for side.
func (b *Builder) source(side config.Side) config.Side {
	if b.props.Symmetry == config.Symmetric {
		return config.Right
	}
	return side
}

// block is everything below the floor.
func block() solid.Shape {
	return solid.Translate(solid.Box(350, 350, 40), mathutil.Vec3{0, 0, -20})
}

// parts are the shared pieces of one side: what stands on the floor and what sits on it.
type parts struct {
	side    config.Side
	cluster thumbs.Cluster
	shell   solid.Shape // case walls with the insert bosses
	thumb   solid.Shape // thumb section before the insert pockets
}

func (b *Builder) parts(ctx context.Context, side config.Side) (*parts, error) {
	c, ok := b.clusters[side]
	if !ok {
		return nil, fmt.Errorf("no thumb cluster for %s side", side)
	}
	separable := b.cfg.SeparableThumb

	p := &parts{side: side, cluster: c}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shell, err := b.walls.Case(ctx, side)
		if err != nil {
			return err
		}
		p.shell = solid.Union(shell, b.inserts.Outers(side))
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var acc solid.Accumulator
		acc.Add(c.Render(side), nil)
		acc.Add(c.Connectors())
		acc.Add(c.Walls())
		acc.Add(b.inserts.ThumbOuters(c, separable), nil)
		acc.Add(c.Connection(side))
		thumb, err := acc.Union()
		if err != nil {
			return fmt.Errorf("thumb section %s: %w", c.Name(), err)
		}
		p.thumb = thumb
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s side: %w", side, err)
	}
	return p, nil
}

// main is the key grid with its walls and mounts, unmirrored.
func (b *Builder) main(p *parts) (solid.Shape, error) {
	conns, err := b.posts.Connectors()
	if err != nil {
		return nil, fmt.Errorf("%s side connectors: %w", p.side, err)
	}
	shell := b.controller.Apply(p.shell)
	shell = solid.Difference(shell, b.inserts.Holes(p.side))
	s := solid.Union(b.plates.KeyHoles(p.side), conns, shell)
	s = b.oled.Apply(s, p.side)
	return solid.Difference(s, b.plates.PCBCutouts(p.side), block()), nil
}

// thumbSection is the thumb section with its insert pockets and PCB cutouts.
func (b *Builder) thumbSection(p *parts) solid.Shape {
	cuts := []solid.Shape{b.inserts.ThumbHoles(p.cluster, b.cfg.SeparableThumb)}
	if b.plates.PCBClear() {
		cuts = append(cuts, p.cluster.Cutouts(p.side))
	}
	cuts = append(cuts, block())
	return solid.Difference(p.thumb, cuts...)
}

func (b *Builder) assemble(p *parts) (Bodies, error) {
	m, err := b.main(p)
	if err != nil {
		return Bodies{}, err
	}
	t := b.thumbSection(p)
	if b.cfg.SeparableThumb {
		t = solid.Difference(t, m)
	} else {
		m = solid.Union(m, t)
	}
	out := Bodies{Main: m, Thumb: t}
	if p.side == config.Left {
		out = out.mirror()
	}
	return out, nil
}

func (b *Builder) footprint(p *parts) baseplate.Footprint {
	thumb := solid.Difference(p.thumb, b.inserts.ThumbHoles(p.cluster, b.cfg.SeparableThumb))
	screwXY := b.inserts.Locations(p.side)
	screwXY = append(screwXY, screws.ThumbLocations(p.cluster, b.cfg.SeparableThumb)...)
	return baseplate.Footprint{
		Shape:  solid.Union(p.shell, thumb),
		Screws: screwXY,
	}
}

func (b *Builder) plate(ctx context.Context, p *parts) (*baseplate.Plate, error) {
	out, err := b.base.Render(ctx, b.footprint(p))
	if err != nil {
		return nil, fmt.Errorf("%s side: %w", p.side, err)
	}
	if p.side == config.Left {
		out = out.Mirror()
	}
	return out, nil
}

// Side builds the bodies of side. The left side of a symmetric build is the mirrored right
// side.
func (b *Builder) Side(ctx context.Context, side config.Side) (Bodies, error) {
	p, err := b.parts(ctx, b.source(side))
	if err != nil {
		return Bodies{}, err
	}
	out, err := b.assemble(p)
	if err != nil {
		return Bodies{}, err
	}
	if side == config.Left && p.side == config.Right {
		out = out.mirror()
	}
	return out, nil
}

// Plate builds the base plate of side.
func (b *Builder) Plate(ctx context.Context, side config.Side) (*baseplate.Plate, error) {
	p, err := b.parts(ctx, b.source(side))
	if err != nil {
		return nil, err
	}
	out, err := b.plate(ctx, p)
	if err != nil {
		return nil, err
	}
	if side == config.Left && p.side == config.Right {
		out = out.Mirror()
	}
	return out, nil
}

type sideResult struct {
	bodies Bodies
	plate  *baseplate.Plate
}

// Build renders every rendered side concurrently and fills in the rest by mirroring.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	sides := b.renderedSides()
	results := make([]sideResult, len(sides))

	g, gctx := errgroup.WithContext(ctx)
	for i, side := range sides {
		g.Go(func() error {
			p, err := b.parts(gctx, side)
			if err != nil {
				return err
			}
			bodies, err := b.assemble(p)
			if err != nil {
				return err
			}
			pl, err := b.plate(gctx, p)
			if err != nil {
				return err
			}
			results[i] = sideResult{bodies: bodies, plate: pl}
			b.log.Debug("side built", zap.String("side", string(side)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{
		Right:      results[0].bodies,
		RightPlate: results[0].plate,
		Separable:  b.cfg.SeparableThumb,
		Extras:     b.extras(),
	}
	if len(results) > 1 {
		out.Left, out.LeftPlate = results[1].bodies, results[1].plate
	} else {
		out.Left, out.LeftPlate = out.Right.mirror(), out.RightPlate.Mirror()
	}
	b.log.Info("build finished",
		zap.Int("rendered_sides", len(sides)),
		zap.Int("extras", len(out.Extras)))
	return out, nil
}

// extras are the loose OLED parts: the frame for UNDERCUT and SLIDING mounts, and for a
// CLIP mount the bezel, the frame and both together.
func (b *Builder) extras() map[string]solid.Shape {
	out := make(map[string]solid.Shape)
	_, frame := b.oled.Parts()
	switch b.oled.Type {
	case config.OledUndercut:
		out["oled_undercut_test"] = frame
	case config.OledSliding:
		out["oled_sliding_test"] = frame
	case config.OledClip:
		clip, _ := b.oled.Clip()
		out["oled_clip"] = clip
		out["oled_clip_test"] = frame
		out["oled_clip_assy_test"] = solid.Union(frame, clip)
	}
	return out
}
