package raster

import "math"

const (
	degToRad = math.Pi / 180

	earthRadiusM = 6371008.8
)

// HaversineM returns the great-circle distance in metres between two
// lon/lat points on the WGS84 mean sphere.
func HaversineM(lon1, lat1, lon2, lat2 float64) float64 {
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	sLat := math.Sin(dLat / 2)
	sLon := math.Sin(dLon / 2)
	a := sLat*sLat + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*sLon*sLon
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

// PixelSizeM returns the ground extent in metres of one pixel anchored at
// (lon, lat), for geotransform pixel sizes given in degrees. The width
// shrinks with latitude, which is why per-pixel unit conversions in
// geographic references must evaluate this per pixel.
func PixelSizeM(lon, lat, pixelSizeX, pixelSizeY float64) (widthM, heightM float64) {
	widthM = HaversineM(lon, lat, lon+pixelSizeX, lat)
	heightM = HaversineM(lon, lat, lon, lat-pixelSizeY)
	return
}
