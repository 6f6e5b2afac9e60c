package raster

import (
	"github.com/wgdzlh/gcbmanim/log"

	"go.uber.org/zap"
)

// Calc evaluates fn once per pixel over the aligned bands of the input
// rasters and writes the result to out on the first input's grid with the
// given nodata value. fn receives one value per input, in argument order;
// masking against nodata is the caller's responsibility inside fn, which
// keeps the expression semantics next to the layer logic that owns them.
func (g *Toolbox) Calc(out string, nodata float64, fn func(vals []float64) float64, inputs ...string) (err error) {
	if len(inputs) == 0 {
		err = ErrEmptyCalcInputs
		return
	}
	log.Debug(g.logTag+"calc over rasters", zap.Int("inputs", len(inputs)), zap.String("out", out))
	var (
		data  = make([][]float64, len(inputs))
		infos = make([]Info, len(inputs))
	)
	for i, in := range inputs {
		if data[i], infos[i], err = g.ReadBand(in); err != nil {
			return
		}
		if infos[i].Width != infos[0].Width || infos[i].Height != infos[0].Height {
			log.Error(g.logTag+"calc input size mismatch", zap.String("tif", in),
				zap.Int("width", infos[i].Width), zap.Int("height", infos[i].Height))
			err = ErrSizeMismatch
			return
		}
	}
	result := make([]float64, len(data[0]))
	vals := make([]float64, len(inputs))
	for px := range data[0] {
		for j := range data {
			vals[j] = data[j][px]
		}
		result[px] = fn(vals)
	}
	return g.WriteLike(inputs[0], out, result, nodata)
}
