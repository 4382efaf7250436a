// Package thumbs builds the thumb clusters: the key layout beside the main grid, the webs
// between its plates, its walls, and the connection that closes it against the left wall.
//
// Every cluster declares the keys it has. Asking for any other key fails with
// ErrMissingKey instead of producing an anchor.
package thumbs

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/connectors"
	"dactyl-manuform/internal/mathutil"
	"dactyl-manuform/internal/placement"
	"dactyl-manuform/internal/plate"
	"dactyl-manuform/internal/solid"
	"dactyl-manuform/internal/walls"
)

// ErrMissingKey is returned when a cluster is asked to place a key it does not have.
var ErrMissingKey = errors.New("thumbs: missing key")

// Key names one thumb key position.
type Key uint8

const (
	TL Key = iota
	TR
	ML
	MR
	BL
	BR
	numKeys
)

var keyNames = [numKeys]string{"tl", "tr", "ml", "mr", "bl", "br"}

func (k Key) String() string {
	if k < numKeys {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// KeySet is the set of keys a cluster declares.
type KeySet uint8

// Keys returns the set holding keys.
func Keys(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KeySet) Has(k Key) bool { return k < numKeys && s&(1<<k) != 0 }

// List returns the keys in declaration order.
func (s KeySet) List() []Key {
	var out []Key
	for k := TL; k < numKeys; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s KeySet) String() string {
	names := make([]string, 0, numKeys)
	for _, k := range s.List() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Cluster is one thumb cluster layout.
type Cluster interface {
	// Name is the configured style, "DEFAULT_1U" for the 1U variant of DEFAULT.
	Name() string
	Keys() KeySet
	// Origin is the point every key pose is relative to.
	Origin() mathutil.Vec3
	// Place moves s onto key k.
	Place(k Key, s solid.Shape) (solid.Shape, error)
	// Render returns the key plates of side.
	Render(side config.Side) solid.Shape
	// Connectors returns the webs between the cluster plates and to the main grid.
	Connectors() (solid.Shape, error)
	Walls() (solid.Shape, error)
	// Connection closes the gap between the cluster and the left wall of side.
	Connection(side config.Side) (solid.Shape, error)
	// Cutouts returns the PCB clearance cutouts under the cluster keys.
	Cutouts(side config.Side) solid.Shape
	// ScrewXY returns the screw insert positions relative to Origin.
	ScrewXY(separable bool) []mathutil.Vec2
}

// Deps are the per-render builders a cluster places its geometry with.
type Deps struct {
	Config *config.Config
	Placer *placement.Placer
	Posts  *connectors.Posts
	Walls  *walls.Engine
	Plates *plate.Plates
	Log    *zap.Logger
}

// Resolve returns the cluster used on side. Trackball styles apply on the ball side only;
// they have no geometry here and fail with config.ErrUnsupportedStyle.
func Resolve(d Deps, side config.Side) (Cluster, error) {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	style := d.Placer.Properties().ThumbStyle(side)
	var table *layoutTable
	switch style {
	case config.ThumbDefault:
		if d.Config.Default1UCluster {
			table = default1UTable(d)
		} else {
			table = defaultTable(d)
		}
	case config.ThumbMini:
		table = miniTable(d)
	case config.ThumbMinidox:
		table = minidoxTable(d)
	case config.ThumbCarbonfet:
		table = carbonfetTable(d)
	default:
		return nil, fmt.Errorf("thumb style %q on %s side: %w", style, side, config.ErrUnsupportedStyle)
	}
	l := newLayout(d, table)
	d.Log.Debug("thumb cluster resolved",
		zap.String("side", string(side)),
		zap.String("cluster", l.Name()),
		zap.Stringer("keys", l.Keys()))
	return l, nil
}
