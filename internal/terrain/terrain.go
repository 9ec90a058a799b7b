// Package terrain defines the read-only world queries the simulation needs.
// Block layout and generation live outside the core.
package terrain

import (
	"fmt"
	"math"

	"github.com/voxelrealm/simcore/pkg/core"
)

// Heightmap returns the surface height of a column.
type Heightmap interface {
	Height(x, z int) int
}

// Occupancy reports whether a block cell is solid.
type Occupancy interface {
	Occupied(x, y, z int) bool
}

// Key formats block coordinates the way block maps are keyed.
func Key(x, y, z int) string {
	return fmt.Sprintf("%d,%d,%d", x, y, z)
}

// BlockMap is a sparse block occupancy map keyed by "x,y,z".
type BlockMap map[string]string

func (m BlockMap) Occupied(x, y, z int) bool {
	_, ok := m[Key(x, y, z)]
	return ok
}

// Set places a block. An empty block type removes the cell.
func (m BlockMap) Set(x, y, z int, block string) {
	if block == "" {
		delete(m, Key(x, y, z))
		return
	}
	m[Key(x, y, z)] = block
}

// Flat is a level world: every cell below Level is solid.
type Flat struct {
	Level int
}

func (f Flat) Height(x, z int) int { return f.Level }

func (f Flat) Occupied(x, y, z int) bool { return y < f.Level }

// GroundBelow reports whether the cell under p is solid. Without occupancy
// data the ground is assumed present so characters never fall forever.
func GroundBelow(o Occupancy, p core.Vec3) bool {
	if o == nil {
		return true
	}
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y)) - 1
	z := int(math.Round(p.Z))
	return o.Occupied(x, y, z)
}

// SurfaceAt returns the standing position on top of the column at (x, z).
func SurfaceAt(h Heightmap, x, z float64) core.Vec3 {
	if h == nil {
		return core.Vec3{X: x, Z: z}
	}
	y := h.Height(int(math.Round(x)), int(math.Round(z)))
	return core.Vec3{X: x, Y: float64(y), Z: z}
}
