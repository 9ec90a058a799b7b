// Package geo converts between world positions, their text form in host
// commands and the spatial points stored in the database.
package geo

import (
	"errors"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/voxelrealm/simcore/pkg/core"
)

// World positions are stored as XYZ points in WKB. The voxel world has no
// geodetic frame, so no SRID is attached.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseVec3 parses "x,y,z" or the ground shorthand "x,z". hasY is false for
// the shorthand, leaving the caller to place the point on the terrain.
func ParseVec3(s string) (v core.Vec3, hasY bool, err error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 && len(parts) != 3 {
		return core.Vec3{}, false, ErrInvalidCoordinates
	}

	vals := make([]float64, len(parts))
	for i, p := range parts {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return core.Vec3{}, false, ErrInvalidCoordinates
		}
	}

	if len(vals) == 2 {
		return core.Vec3{X: vals[0], Z: vals[1]}, false, nil
	}
	return core.Vec3{X: vals[0], Y: vals[1], Z: vals[2]}, true, nil
}

// FormatVec3 is the inverse of ParseVec3 for full positions.
func FormatVec3(v core.Vec3) string {
	return strconv.FormatFloat(v.X, 'f', -1, 64) + "," +
		strconv.FormatFloat(v.Y, 'f', -1, 64) + "," +
		strconv.FormatFloat(v.Z, 'f', -1, 64)
}

// PointFromVec3 converts a world position into an XYZ point.
func PointFromVec3(v core.Vec3) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: v.X, Y: v.Y},
		Z:    v.Z,
		Type: geom.DimXYZ,
	})
}

// Vec3FromPoint converts a stored point back into a world position. Empty
// points yield the origin.
func Vec3FromPoint(p geom.Point) core.Vec3 {
	c, ok := p.Coordinates()
	if !ok {
		return core.Vec3{}
	}
	return core.Vec3{X: c.X, Y: c.Y, Z: c.Z}
}
