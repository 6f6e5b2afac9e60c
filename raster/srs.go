package raster

import (
	"strings"

	lgdal "github.com/lukeroth/gdal"
)

// IsMetric reports whether the horizontal unit of a spatial reference (WKT)
// is already metres, i.e. whether pixel sizes can be read straight off the
// geotransform instead of going through geodesic distances.
func (g *Toolbox) IsMetric(wkt string) bool {
	if wkt == "" {
		return false
	}
	sr := lgdal.CreateSpatialReference(wkt)
	defer sr.Destroy()
	if !sr.IsProjected() {
		return false
	}
	unit, ok := sr.AttrValue("UNIT", 0)
	if !ok {
		// Projected references default to metres.
		return true
	}
	return strings.Contains(strings.ToLower(unit), "met")
}
