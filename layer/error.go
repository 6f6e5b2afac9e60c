package layer

import "errors"

var (
	ErrInvalidBlendArgs      = errors.New("blend operands must pair a layer with a valid mode")
	ErrMultipleLayersPerYear = errors.New("cannot blend collections containing more than one layer per year")
	ErrEmptyCollection       = errors.New("layer collection is empty")
	ErrYearRangeIncomplete   = errors.New("start year and end year must be given together")
	ErrNoInterpretation      = errors.New("layer has no interpretation to reclassify")
	ErrNoNoData              = errors.New("layer has no nodata value")
	ErrEmptyBoundingBox      = errors.New("bounding box contains no data pixels")
)
