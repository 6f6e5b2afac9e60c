package raster

import "errors"

var (
	ErrInvalidTif      = errors.New("gdal tif open err")
	ErrNoBands         = errors.New("gdal tif has no bands")
	ErrTifReadFailed   = errors.New("gdal tif read err")
	ErrTifWriteFailed  = errors.New("gdal tif write err")
	ErrSizeMismatch    = errors.New("gdal input rasters differ in size")
	ErrEmptyCalcInputs = errors.New("no input rasters for calc")
	ErrEmptyWarpInputs = errors.New("no input rasters for warp")
	ErrEmptyColorTable = errors.New("empty color table")
	ErrWarpFailed      = errors.New("gdal warp err")
)
