package layer

import (
	"math"
	"sort"

	"github.com/wgdzlh/gcbmanim/log"
	"github.com/wgdzlh/gcbmanim/raster"
	"github.com/wgdzlh/gcbmanim/utils"

	"go.uber.org/zap"
)

const (
	layerTag = "Layer:"

	oneHectareM2 = 100 * 100
)

// BlendMode is the algebraic operator pairing a blend operand with the
// base layer.
type BlendMode string

const (
	Add      BlendMode = "+"
	Subtract BlendMode = "-"
)

func (m BlendMode) valid() bool {
	return m == Add || m == Subtract
}

// BlendOperand pairs a layer with its blend mode.
type BlendOperand struct {
	Layer *Layer
	Mode  BlendMode
}

// Layer is a single raster artifact for one year. The optional
// interpretation maps raster values to categorical labels; once a layer is
// reclassified, any pixel value absent from the interpretation is nodata.
// Layers are immutable: every transformation returns a new Layer backed by
// a new temporary raster, and derived metadata is cached for the life of
// the object.
type Layer struct {
	tb     *raster.Toolbox
	path   string
	year   int
	interp map[int]string
	units  Units

	info *raster.Info
}

type Option func(*Layer)

// WithInterpretation sets the attribute table of the raster, a mapping of
// pixel value to label, e.g. {1: "Wildfire"}.
func WithInterpretation(interp map[int]string) Option {
	return func(l *Layer) {
		l.interp = interp
	}
}

func WithUnits(units Units) Option {
	return func(l *Layer) {
		l.units = units
	}
}

func New(tb *raster.Toolbox, path string, year int, opts ...Option) *Layer {
	l := &Layer{
		tb:    tb,
		path:  path,
		year:  year,
		units: TcPerHa,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// derive keeps the toolbox of the receiver; transformations use it so every
// produced layer stays wired to the same engine.
func (l *Layer) derive(path string, year int, interp map[int]string, units Units) *Layer {
	return &Layer{tb: l.tb, path: path, year: year, interp: interp, units: units}
}

func (l *Layer) Path() string {
	return l.path
}

func (l *Layer) Year() int {
	return l.year
}

func (l *Layer) Units() Units {
	return l.units
}

func (l *Layer) Interpretation() map[int]string {
	return l.interp
}

func (l *Layer) HasInterpretation() bool {
	return l.interp != nil
}

// Info returns the raster metadata, computed once and cached. The cache is
// not synchronized; a layer belongs to a single task at a time.
func (l *Layer) Info() (raster.Info, error) {
	if l.info == nil {
		info, err := l.tb.Info(l.path, true)
		if err != nil {
			return raster.Info{}, err
		}
		l.info = &info
	}
	return *l.info, nil
}

func (l *Layer) MinMax() (min, max float64, err error) {
	info, err := l.Info()
	if err != nil {
		return
	}
	return info.Min, info.Max, nil
}

func (l *Layer) DataType() (string, error) {
	info, err := l.Info()
	if err != nil {
		return "", err
	}
	return info.DataType, nil
}

func (l *Layer) NoData() (float64, error) {
	info, err := l.Info()
	if err != nil {
		return 0, err
	}
	if !info.HasNoData {
		return 0, ErrNoNoData
	}
	return info.NoData, nil
}

// Scale is the layer's pixel size in metres. For non-metric references the
// width of one pixel at the raster origin is measured geodesically.
func (l *Layer) Scale() (float64, error) {
	info, err := l.Info()
	if err != nil {
		return 0, err
	}
	gt := info.GeoTransform
	if l.tb.IsMetric(info.Projection) {
		return math.Abs(gt[1]), nil
	}
	return raster.HaversineM(gt[0], gt[3], gt[0]+gt[1], gt[3]), nil
}

// Histogram buckets the layer's non-nodata pixel values over [min, max].
func (l *Layer) Histogram(min, max float64, buckets int) ([]int, error) {
	return l.tb.Histogram(l.path, min, max, buckets)
}

// ConvertUnits converts the layer's values into new units, both scale and
// area basis (per hectare or absolute), returning a new Layer. Blank layers
// and no-op conversions return the receiver without touching the raster.
func (l *Layer) ConvertUnits(units Units) (*Layer, error) {
	if l.units == Blank {
		return l, nil
	}
	ratio := conversionRatio(l.units, units)
	if l.units.PerHectare == units.PerHectare && ratio == 1 {
		l.units = units
		return l, nil
	}
	info, err := l.Info()
	if err != nil {
		return nil, err
	}
	if !info.HasNoData {
		return nil, ErrNoNoData
	}
	nodata := info.NoData
	perHa := l.units.PerHectare

	if l.units.PerHectare == units.PerHectare {
		out := utils.MkTmp(".tif")
		err = l.tb.Calc(out, nodata, func(v []float64) float64 {
			if v[0] == nodata {
				return nodata
			}
			return v[0] * ratio
		}, l.path)
		if err != nil {
			return nil, err
		}
		return l.derive(out, l.year, l.interp, units), nil
	}

	if l.tb.IsMetric(info.Projection) {
		pixelAreaHa := info.GeoTransform[1] * info.GeoTransform[1] / oneHectareM2
		out := utils.MkTmp(".tif")
		err = l.tb.Calc(out, nodata, func(v []float64) float64 {
			if v[0] == nodata {
				return nodata
			}
			if perHa {
				return v[0] * ratio * pixelAreaHa
			}
			return v[0] * ratio / pixelAreaHa
		}, l.path)
		if err != nil {
			return nil, err
		}
		return l.derive(out, l.year, l.interp, units), nil
	}

	// Geographic reference with a change of area basis: pixel ground area
	// depends on latitude, so every pixel is converted individually.
	data, dinfo, err := l.tb.ReadBand(l.path)
	if err != nil {
		return nil, err
	}
	gt := dinfo.GeoTransform
	for row := 0; row < dinfo.Height; row++ {
		lat := gt[3] + gt[5]*float64(row)
		for col := 0; col < dinfo.Width; col++ {
			px := row*dinfo.Width + col
			if data[px] == nodata {
				continue
			}
			lon := gt[0] + gt[1]*float64(col)
			widthM, heightM := raster.PixelSizeM(lon, lat, gt[1], gt[5])
			pixelAreaHa := widthM * heightM / oneHectareM2
			if perHa {
				data[px] *= ratio * pixelAreaHa
			} else {
				data[px] *= ratio / pixelAreaHa
			}
		}
	}
	out := utils.MkTmp(".tif")
	if err = l.tb.WriteLike(l.path, out, data, nodata); err != nil {
		return nil, err
	}
	return l.derive(out, l.year, l.interp, units), nil
}

// Reclassify remaps the layer's categorical pixel values to a new
// interpretation. Pixels whose value is not covered by the current
// interpretation become nodata, as do categories with no counterpart in the
// new interpretation (reported, non-fatal). Returns a new Layer carrying
// the new interpretation and the same units.
func (l *Layer) Reclassify(newInterpretation map[int]string, nodata float64) (*Layer, error) {
	if l.interp == nil {
		return nil, ErrNoInterpretation
	}
	log.Debug(layerTag+"reclassifying", zap.String("path", l.path))
	data, _, err := l.tb.ReadBand(l.path)
	if err != nil {
		return nil, err
	}
	missing := remapValues(data, l.interp, newInterpretation, nodata)
	for _, label := range missing {
		log.Info(layerTag+"no new pixel value for label, setting to nodata",
			zap.String("label", label), zap.Float64("nodata", nodata))
	}
	out := utils.MkTmp(".tif")
	if err = l.tb.WriteLike(l.path, out, data, nodata); err != nil {
		return nil, err
	}
	return l.derive(out, l.year, newInterpretation, l.units), nil
}

// remapValues rewrites data in place. Values outside the current
// interpretation become nodata; surviving values are first shifted by a
// collision offset past both value domains, then assigned their new pixel
// value by label. Returns the labels that had no new value, sorted.
func remapValues(data []float64, current, next map[int]string, nodata float64) (missing []string) {
	maxKey := 0
	for k := range current {
		if k > maxKey {
			maxKey = k
		}
	}
	for k := range next {
		if k > maxKey {
			maxKey = k
		}
	}
	offset := float64(maxKey + 1)

	known := make(map[float64]bool, len(current))
	for k := range current {
		known[float64(k)] = true
	}
	for i, v := range data {
		if !known[v] {
			data[i] = nodata
		} else {
			data[i] = v + offset
		}
	}

	inverse := make(map[string]float64, len(next))
	for k, label := range next {
		inverse[label] = float64(k)
	}
	replacement := make(map[float64]float64, len(current))
	for k, label := range current {
		newValue, ok := inverse[label]
		if !ok {
			newValue = nodata
			missing = append(missing, label)
		}
		replacement[float64(k)+offset] = newValue
	}
	for i, v := range data {
		if v == nodata {
			continue
		}
		data[i] = replacement[v]
	}
	sort.Strings(missing)
	return
}

// Flatten sets every non-nodata pixel to the given value, dropping the
// interpretation. Units reset to Blank unless preserved. Used to build
// background and placeholder layers.
func (l *Layer) Flatten(value float64, preserveUnits bool) (*Layer, error) {
	log.Debug(layerTag+"flattening", zap.String("path", l.path))
	nodata, err := l.NoData()
	if err != nil {
		return nil, err
	}
	out := utils.MkTmp(".tif")
	err = l.tb.Calc(out, nodata, func(v []float64) float64 {
		if v[0] == nodata {
			return nodata
		}
		return value
	}, l.path)
	if err != nil {
		return nil, err
	}
	units := Blank
	if preserveUnits {
		units = l.units
	}
	return l.derive(out, l.year, nil, units), nil
}

// Reproject resamples the layer to a new spatial reference, preserving
// interpretation and units.
func (l *Layer) Reproject(projection string) (*Layer, error) {
	out := utils.MkTmp(".tif")
	if err := l.tb.Warp(out, []string{l.path}, []string{"-t_srs", projection}); err != nil {
		return nil, err
	}
	return l.derive(out, l.year, l.interp, l.units), nil
}

// Blend combines this layer algebraically with one or more operands, each
// first converted to this layer's units. A pixel is nodata in the result
// iff it is nodata in this layer or in any operand.
func (l *Layer) Blend(operands ...BlendOperand) (*Layer, error) {
	if len(operands) == 0 {
		return nil, ErrInvalidBlendArgs
	}
	for _, op := range operands {
		if op.Layer == nil || !op.Mode.valid() {
			return nil, ErrInvalidBlendArgs
		}
	}
	nodata, err := l.NoData()
	if err != nil {
		return nil, err
	}
	var (
		inputs   = []string{l.path}
		modes    = make([]BlendMode, len(operands))
		nodataOp = make([]float64, len(operands))
	)
	for i, op := range operands {
		converted, err := op.Layer.ConvertUnits(l.units)
		if err != nil {
			return nil, err
		}
		if nodataOp[i], err = converted.NoData(); err != nil {
			return nil, err
		}
		inputs = append(inputs, converted.path)
		modes[i] = op.Mode
	}
	log.Debug(layerTag+"blending", zap.Strings("inputs", inputs))
	out := utils.MkTmp(".tif")
	err = l.tb.Calc(out, nodata, func(v []float64) float64 {
		return blendPixel(v, modes, nodata, nodataOp)
	}, inputs...)
	if err != nil {
		return nil, err
	}
	return l.derive(out, l.year, l.interp, l.units), nil
}

// blendPixel accumulates one pixel across the base value vals[0] and the
// operand values vals[1:], paired with modes. The result is nodata exactly
// when the base or any operand carries its own nodata value.
func blendPixel(vals []float64, modes []BlendMode, nodata float64, nodataOp []float64) float64 {
	if vals[0] == nodata {
		return nodata
	}
	acc := vals[0]
	for i, m := range modes {
		if vals[i+1] == nodataOp[i] {
			return nodata
		}
		if m == Subtract {
			acc -= vals[i+1]
		} else {
			acc += vals[i+1]
		}
	}
	return acc
}

// Render colorizes the layer into a Frame according to the legend. With a
// bounding box the layer is cropped to it first. When transparent, nodata
// and zero-value pixels are fully transparent in the output.
func (l *Layer) Render(legend Legend, boundingBox *BoundingBox, transparent bool) (*Frame, error) {
	working := l
	if boundingBox != nil {
		cropped, err := boundingBox.Crop(l)
		if err != nil {
			return nil, err
		}
		working = cropped
	}
	out := utils.MkTmp(".png")
	if err := l.tb.ColorRelief(working.path, out, legend.colorTable(transparent)); err != nil {
		return nil, err
	}
	scale, err := l.Scale()
	if err != nil {
		return nil, err
	}
	return NewFrame(l.year, out, scale), nil
}
