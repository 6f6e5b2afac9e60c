package raster

import (
	"sync"

	gdal "github.com/airbusgeo/godal"
)

// Toolbox wraps the GDAL primitives the layer pipeline consumes: raster
// metadata introspection, masked algebraic evaluation, warping/mosaicking
// and color-table rasterization. All methods operate on raster files and
// produce new raster files; nothing here mutates an input.
type Toolbox struct {
	logTag string
}

var registerOnce sync.Once

func NewToolbox() *Toolbox {
	registerOnce.Do(gdal.RegisterAll)
	return &Toolbox{
		logTag: "RasterToolbox:",
	}
}

// creationSwitches are appended to every warp producing a GTiff.
var creationSwitches = []string{"-co", "COMPRESS=LZW", "-co", "TILED=YES"}

// creationOptions mirror creationSwitches for direct dataset creation.
var creationOptions = []string{"COMPRESS=LZW", "TILED=YES"}
