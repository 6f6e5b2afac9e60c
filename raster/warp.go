package raster

import (
	"github.com/wgdzlh/gcbmanim/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// Warp runs gdalwarp-style resampling/reprojection over one or more inputs
// into a new GTiff. With multiple inputs the sources are mosaicked onto a
// common grid; nodata pixels of a later source never overwrite valid pixels
// already composited from an earlier one.
func (g *Toolbox) Warp(out string, inputs []string, switches []string) (err error) {
	if len(inputs) == 0 {
		err = ErrEmptyWarpInputs
		return
	}
	var (
		sds []*gdal.Dataset
		ds  *gdal.Dataset
	)
	defer func() {
		for _, d := range sds {
			d.Close()
		}
	}()
	for _, in := range inputs {
		if ds, err = gdal.Open(in, gdal.RasterOnly()); err != nil {
			log.Error(g.logTag+"open tif failed", zap.String("tif", in), zap.Error(err))
			err = ErrInvalidTif
			return
		}
		sds = append(sds, ds)
	}
	opts := append(append([]string{}, switches...), creationSwitches...)
	log.Debug(g.logTag+"warp rasters", zap.Int("inputs", len(inputs)),
		zap.Strings("switches", switches), zap.String("out", out))
	ods, err := gdal.Warp(out, sds, opts)
	if err != nil {
		log.Error(g.logTag+"warp failed", zap.String("out", out), zap.Error(err))
		err = ErrWarpFailed
		return
	}
	ods.Close()
	return
}

// Mosaic merges several same-theme rasters into one, delegating the
// composition order semantics to the engine's default warp behaviour.
func (g *Toolbox) Mosaic(out string, inputs []string) error {
	return g.Warp(out, inputs, nil)
}
