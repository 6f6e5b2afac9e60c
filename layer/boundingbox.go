package layer

import (
	"strconv"

	"github.com/wgdzlh/gcbmanim/log"
	"github.com/wgdzlh/gcbmanim/raster"
	"github.com/wgdzlh/gcbmanim/utils"

	"go.uber.org/zap"
)

const bboxTag = "BoundingBox:"

// BoundingBox is a Layer whose non-nodata footprint defines a minimal crop
// region for other layers. The box initializes itself lazily and exactly
// once: its raster is re-warped to the minimal geographic extent of its
// data pixels, then warped a second time to normalize the axis-flip
// artifact the first warp can leave behind. Initialization is not
// synchronized; initialize (or single-own) the box before handing it to
// parallel crop tasks. Init leaves the metadata cache warm, so an
// initialized box serves concurrent crops read-only.
type BoundingBox struct {
	Layer
	projection  string
	initialized bool

	pixelBounds    [4]int // xMin, xMax, yMin, yMax
	hasPixelBounds bool
	geoBounds      [4]float64 // xMin, yMin, xMax, yMax
	hasGeoBounds   bool
}

type BoxOption func(*BoundingBox)

// WithProjection re-projects the box to the given spatial reference during
// initialization.
func WithProjection(projection string) BoxOption {
	return func(b *BoundingBox) {
		b.projection = projection
	}
}

func NewBoundingBox(tb *raster.Toolbox, path string, opts ...BoxOption) *BoundingBox {
	b := &BoundingBox{
		Layer: Layer{tb: tb, path: path, units: TcPerHa},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// MinPixelBounds is the smallest pixel rectangle, padded by one pixel on
// every side, containing all non-nodata pixels.
func (b *BoundingBox) MinPixelBounds() ([4]int, error) {
	if b.hasPixelBounds {
		return b.pixelBounds, nil
	}
	data, info, err := b.tb.ReadBand(b.path)
	if err != nil {
		return [4]int{}, err
	}
	if !info.HasNoData {
		return [4]int{}, ErrNoNoData
	}
	bounds, ok := minPixelBounds(data, info.Width, info.NoData)
	if !ok {
		return [4]int{}, ErrEmptyBoundingBox
	}
	b.pixelBounds = bounds
	b.hasPixelBounds = true
	return bounds, nil
}

// minPixelBounds scans each row for its first and last non-nodata column
// and returns (xMin, xMax, yMin, yMax) padded by one pixel.
func minPixelBounds(data []float64, width int, nodata float64) (bounds [4]int, ok bool) {
	xMin, xMax, yMin, yMax := width, -1, -1, -1
	height := len(data) / width
	for row := 0; row < height; row++ {
		first, last := -1, -1
		for col := 0; col < width; col++ {
			if data[row*width+col] != nodata {
				if first < 0 {
					first = col
				}
				last = col
			}
		}
		if first < 0 {
			continue
		}
		if yMin < 0 {
			yMin = row
		}
		yMax = row
		if first < xMin {
			xMin = first
		}
		if last > xMax {
			xMax = last
		}
	}
	if yMin < 0 {
		return
	}
	return [4]int{xMin - 1, xMax + 1, yMin - 1, yMax + 1}, true
}

// MinGeographicBounds maps the minimal pixel rectangle through the affine
// transform into projected coordinates, normalized to (xMin, yMin, xMax,
// yMax).
func (b *BoundingBox) MinGeographicBounds() ([4]float64, error) {
	if b.hasGeoBounds {
		return b.geoBounds, nil
	}
	pb, err := b.MinPixelBounds()
	if err != nil {
		return [4]float64{}, err
	}
	info, err := b.Info()
	if err != nil {
		return [4]float64{}, err
	}
	gt := info.GeoTransform
	x1 := gt[0] + float64(pb[0])*gt[1]
	x2 := gt[0] + float64(pb[1])*gt[1]
	y1 := gt[3] + float64(pb[2])*gt[5]
	y2 := gt[3] + float64(pb[3])*gt[5]
	b.geoBounds = [4]float64{min(x1, x2), min(y1, y2), max(x1, x2), max(y1, y2)}
	b.hasGeoBounds = true
	return b.geoBounds, nil
}

// Init warps the box's raster down to its minimal geographic extent. The
// resulting artifacts outlive individual crops and are only released with
// the temp manager.
func (b *BoundingBox) Init() (err error) {
	if b.initialized {
		return
	}
	gb, err := b.MinGeographicBounds()
	if err != nil {
		return
	}
	info, err := b.Info()
	if err != nil {
		return
	}
	srs := info.Projection
	dst := b.projection
	if dst == "" {
		dst = srs
	}
	log.Info(bboxTag+"initializing", zap.Float64s("bounds", gb[:]))
	tmp := utils.MkTmpKeep(".tif")
	switches := append(teSwitches(gb), "-t_srs", dst)
	if srs != "" {
		switches = append(switches, "-te_srs", srs)
	}
	if err = b.tb.Warp(tmp, []string{b.path}, switches); err != nil {
		return
	}
	// Warp once more to correct the vertical flip the bounded warp can
	// introduce.
	final := utils.MkTmpKeep(".tif")
	if err = b.tb.Warp(final, []string{tmp}, nil); err != nil {
		return
	}
	b.path = final
	b.info = nil
	b.hasPixelBounds = false
	b.hasGeoBounds = false
	// Reload the metadata now; crops running in parallel then read the
	// cache without ever writing it.
	if _, err = b.Info(); err != nil {
		return
	}
	b.initialized = true
	return
}

// Crop resamples a layer onto this box's grid, then masks it with the
// box's nodata footprint. Returns a new Layer at the target's year,
// interpretation and units.
func (b *BoundingBox) Crop(layer *Layer) (*Layer, error) {
	if err := b.Init(); err != nil {
		return nil, err
	}
	info, err := b.Info()
	if err != nil {
		return nil, err
	}
	if !info.HasNoData {
		return nil, ErrNoNoData
	}
	gt := info.GeoTransform
	ulx, uly := gt[0], gt[3]
	lrx := gt[0] + float64(info.Width)*gt[1]
	lry := gt[3] + float64(info.Height)*gt[5]

	// Stage 1: same grid, same corners, same reference as the box.
	resampled := utils.MkTmp(".tif")
	switches := append(teSwitches([4]float64{min(ulx, lrx), min(uly, lry), max(ulx, lrx), max(uly, lry)}),
		"-ts", strconv.Itoa(info.Width), strconv.Itoa(info.Height))
	if info.Projection != "" {
		switches = append(switches, "-t_srs", info.Projection)
	}
	if err = b.tb.Warp(resampled, []string{layer.path}, switches); err != nil {
		return nil, err
	}

	// Stage 2: apply the box's nodata mask.
	boxNoData := info.NoData
	layerNoData, err := layer.NoData()
	if err != nil {
		return nil, err
	}
	out := utils.MkTmp(".tif")
	err = b.tb.Calc(out, layerNoData, func(v []float64) float64 {
		if v[1] == boxNoData {
			return layerNoData
		}
		return v[0]
	}, resampled, b.path)
	if err != nil {
		return nil, err
	}
	return layer.derive(out, layer.year, layer.interp, layer.units), nil
}

func teSwitches(bounds [4]float64) []string {
	return []string{"-te",
		strconv.FormatFloat(bounds[0], 'f', -1, 64),
		strconv.FormatFloat(bounds[1], 'f', -1, 64),
		strconv.FormatFloat(bounds[2], 'f', -1, 64),
		strconv.FormatFloat(bounds[3], 'f', -1, 64),
	}
}
