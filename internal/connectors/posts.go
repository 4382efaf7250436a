// Package connectors builds the web posts at key-plate corners and the hulls that join
// neighbouring plates into one surface.
package connectors

import (
	"fmt"
	"sync"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/properties"
	"dactyl-manuform/internal/solid"
)

// Corner names one corner of a key mount.
type Corner uint8

const (
	TL Corner = iota
	TR
	BL
	BR
)

func (c Corner) String() string {
	switch c {
	case TL:
		return "tl"
	case TR:
		return "tr"
	case BL:
		return "bl"
	case BR:
		return "br"
	}
	return fmt.Sprintf("corner(%d)", uint8(c))
}

// Sign returns the x and y direction of the corner from the key center.
func (c Corner) Sign() (sx, sy float64) {
	sx, sy = 1, 1
	if c == TL || c == BL {
		sx = -1
	}
	if c == BL || c == BR {
		sy = -1
	}
	return sx, sy
}

// Posts makes web posts and remembers the placed grid posts, which many walls and
// connectors share.
type Posts struct {
	placer *placement.Placer
	props  *properties.Properties

	size, adj, thickness, plateThickness float64

	mu     sync.RWMutex
	placed map[postKey]solid.Shape
}

type postKey struct {
	col, row int
	corner   Corner
}

// NewPosts returns the post factory for one render.
func NewPosts(cfg *config.Config, placer *placement.Placer) *Posts {
	return &Posts{
		placer:         placer,
		props:          placer.Properties(),
		size:           cfg.PostSize,
		adj:            cfg.PostAdj,
		thickness:      cfg.WebThickness,
		plateThickness: cfg.PlateThickness,
		placed:         make(map[postKey]solid.Shape),
	}
}

// Thickness returns the web thickness.
func (p *Posts) Thickness() float64 { return p.thickness }

// Post returns a web post centered on the key axis, flush with the top of the plate.
func (p *Posts) Post() solid.Shape {
	return solid.Translate(solid.Box(p.size, p.size, p.thickness), mathutil.Vec3{0, 0, p.plateThickness - p.thickness/2})
}

// Offset returns where the post of corner c sits relative to the key center. Wide posts
// reach further out in x, for 1.5U keys.
func (p *Posts) Offset(c Corner, wide bool) mathutil.Vec3 {
	divide := 2.0
	if wide {
		divide = 1.2
	}
	sx, sy := c.Sign()
	return mathutil.Vec3{
		sx * (p.props.MountWidth/divide - p.adj),
		sy * (p.props.MountHeight/2 - p.adj),
		0,
	}
}

// Corner returns the unplaced post of corner c.
func (p *Posts) Corner(c Corner, wide bool) solid.Shape {
	return solid.Translate(p.Post(), p.Offset(c, wide))
}

// At returns the post of corner c placed on key (col, row).
func (p *Posts) At(col, row int, c Corner) solid.Shape {
	k := postKey{col, row, c}

	p.mu.RLock()
	if s, ok := p.placed[k]; ok {
		p.mu.RUnlock()
		return s
	}
	p.mu.RUnlock()

	s := p.placer.KeyPlace(p.Corner(c, false), col, row)

	p.mu.Lock()
	if cached, ok := p.placed[k]; ok {
		p.mu.Unlock()
		return cached
	}
	p.placed[k] = s
	p.mu.Unlock()
	return s
}
