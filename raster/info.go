package raster

import (
	"github.com/wgdzlh/gcbmanim/log"

	gdal "github.com/airbusgeo/godal"
	"go.uber.org/zap"
)

// Info is the cached metadata of a single-band raster.
type Info struct {
	Width        int
	Height       int
	DataType     string
	GeoTransform [6]float64
	Projection   string
	NoData       float64
	HasNoData    bool
	Min          float64
	Max          float64
}

// Info reads the metadata of band 1. When computeMinMax is set the band is
// scanned and Min/Max are filled from the non-nodata pixels.
func (g *Toolbox) Info(tif string, computeMinMax bool) (info Info, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrNoBands
		return
	}
	band := bands[0]
	st := band.Structure()
	info.Width = st.SizeX
	info.Height = st.SizeY
	info.DataType = st.DataType.String()
	info.Projection = sds.Projection()
	info.NoData, info.HasNoData = band.NoData()
	gt, err := sds.GeoTransform()
	if err != nil {
		log.Error(g.logTag+"read geotransform failed", zap.String("tif", tif), zap.Error(err))
		return
	}
	info.GeoTransform = gt
	if !computeMinMax {
		return
	}
	buf := make([]float64, st.SizeX*st.SizeY)
	if err = band.IO(gdal.IORead, 0, 0, buf, st.SizeX, st.SizeY); err != nil {
		log.Error(g.logTag+"read tif band failed", zap.String("tif", tif), zap.Error(err))
		err = ErrTifReadFailed
		return
	}
	info.Min, info.Max = minMax(buf, info.NoData, info.HasNoData)
	return
}

// ReadBand reads band 1 fully, converted to float64.
func (g *Toolbox) ReadBand(tif string) (data []float64, info Info, err error) {
	sds, err := gdal.Open(tif, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open tif failed", zap.String("tif", tif), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrNoBands
		return
	}
	band := bands[0]
	st := band.Structure()
	info.Width = st.SizeX
	info.Height = st.SizeY
	info.DataType = st.DataType.String()
	info.Projection = sds.Projection()
	info.NoData, info.HasNoData = band.NoData()
	if info.GeoTransform, err = sds.GeoTransform(); err != nil {
		return
	}
	data = make([]float64, st.SizeX*st.SizeY)
	if err = band.IO(gdal.IORead, 0, 0, data, st.SizeX, st.SizeY); err != nil {
		log.Error(g.logTag+"read tif band failed", zap.String("tif", tif), zap.Error(err))
		data = nil
		err = ErrTifReadFailed
	}
	return
}

// WriteLike writes data as a new single-band GTiff sharing the template's
// grid, projection and data type, with the given nodata value.
func (g *Toolbox) WriteLike(template, out string, data []float64, nodata float64) (err error) {
	sds, err := gdal.Open(template, gdal.RasterOnly())
	if err != nil {
		log.Error(g.logTag+"open template tif failed", zap.String("tif", template), zap.Error(err))
		err = ErrInvalidTif
		return
	}
	defer sds.Close()
	bands := sds.Bands()
	if len(bands) == 0 {
		err = ErrNoBands
		return
	}
	st := bands[0].Structure()
	if len(data) != st.SizeX*st.SizeY {
		err = ErrSizeMismatch
		return
	}
	gt, err := sds.GeoTransform()
	if err != nil {
		return
	}
	ods, err := gdal.Create(gdal.GTiff, out, 1, st.DataType, st.SizeX, st.SizeY,
		gdal.CreationOption(creationOptions...))
	if err != nil {
		log.Error(g.logTag+"create tif failed", zap.String("tif", out), zap.Error(err))
		err = ErrTifWriteFailed
		return
	}
	defer ods.Close()
	if err = ods.SetGeoTransform(gt); err != nil {
		return
	}
	if proj := sds.Projection(); proj != "" {
		if err = ods.SetProjection(proj); err != nil {
			return
		}
	}
	oband := ods.Bands()[0]
	if err = oband.SetNoData(nodata); err != nil {
		return
	}
	if err = oband.IO(gdal.IOWrite, 0, 0, data, st.SizeX, st.SizeY); err != nil {
		log.Error(g.logTag+"write tif band failed", zap.String("tif", out), zap.Error(err))
		err = ErrTifWriteFailed
	}
	return
}

// Histogram counts the non-nodata pixels of band 1 into equal-width buckets
// over [min, max]; values outside the range are dropped.
func (g *Toolbox) Histogram(tif string, min, max float64, buckets int) (counts []int, err error) {
	data, info, err := g.ReadBand(tif)
	if err != nil {
		return
	}
	counts = bucketize(data, info.NoData, info.HasNoData, min, max, buckets)
	return
}

func minMax(data []float64, nodata float64, hasNoData bool) (min, max float64) {
	first := true
	for _, v := range data {
		if hasNoData && v == nodata {
			continue
		}
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return
}

func bucketize(data []float64, nodata float64, hasNoData bool, min, max float64, buckets int) (counts []int) {
	if buckets <= 0 || max <= min {
		return
	}
	counts = make([]int, buckets)
	width := (max - min) / float64(buckets)
	for _, v := range data {
		if hasNoData && v == nodata {
			continue
		}
		if v < min || v > max {
			continue
		}
		idx := int((v - min) / width)
		if idx == buckets { // max falls in the last bucket
			idx--
		}
		counts[idx]++
	}
	return
}
