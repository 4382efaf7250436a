package walls

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/solid"
)

// Case builds the four perimeter walls of side concurrently and unions them.
func (e *Engine) Case(ctx context.Context, side config.Side) (solid.Shape, error) {
	parts := []struct {
		name  string
		build func() (solid.Shape, error)
	}{
		{"back", e.Back},
		{"left", func() (solid.Shape, error) { return e.Left(side) }},
		{"right", e.Right},
		{"front", e.Front},
	}

	out := make([]solid.Shape, len(parts))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := p.build()
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("case walls: %w", err)
	}
	e.log.Debug("case walls built", zap.String("side", string(side)))
	return solid.Union(out...), nil
}
