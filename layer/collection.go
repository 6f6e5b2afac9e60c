package layer

import (
	"sort"

	"github.com/wgdzlh/gcbmanim/log"
	"github.com/wgdzlh/gcbmanim/utils"

	"go.uber.org/zap"
)

const collectionTag = "LayerCollection:"

// CollectionOperand pairs a collection with its blend mode.
type CollectionOperand struct {
	Collection *LayerCollection
	Mode       BlendMode
}

// LayerCollection is an ordered set of layers along one theme, possibly
// spanning multiple years and possibly fragmented into multiple files per
// year. Rendering merges the layers by year, so each year becomes one
// Frame.
type LayerCollection struct {
	layers          []*Layer
	backgroundColor RGB
	colorizer       Colorizer
}

type CollectionOption func(*LayerCollection)

func WithBackgroundColor(c RGB) CollectionOption {
	return func(lc *LayerCollection) {
		lc.backgroundColor = c
	}
}

func WithColorizer(c Colorizer) CollectionOption {
	return func(lc *LayerCollection) {
		if c != nil {
			lc.colorizer = c
		}
	}
}

func NewCollection(layers []*Layer, opts ...CollectionOption) *LayerCollection {
	lc := &LayerCollection{
		layers:          layers,
		backgroundColor: RGB{224, 224, 224},
		colorizer:       NewColorizer(),
	}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

func (lc *LayerCollection) Empty() bool {
	return len(lc.layers) == 0
}

func (lc *LayerCollection) Layers() []*Layer {
	out := make([]*Layer, len(lc.layers))
	copy(out, lc.layers)
	return out
}

func (lc *LayerCollection) Append(l *Layer) {
	lc.layers = append(lc.layers, l)
}

// Merge concatenates another collection's layers into this one. Year
// collisions are not checked here; render merges same-year fragments, blend
// rejects them.
func (lc *LayerCollection) Merge(other *LayerCollection) {
	lc.layers = append(lc.layers, other.layers...)
}

// Blend combines this collection's layer values with one or more other
// collections, keyed by year. Years this collection misses are filled with
// a flattened zero placeholder before blending; operand years pass their
// values through the paired mode. The output has exactly one layer per
// year in the union.
func (lc *LayerCollection) Blend(operands ...CollectionOperand) (*LayerCollection, error) {
	if len(operands) == 0 {
		return nil, ErrInvalidBlendArgs
	}
	for _, op := range operands {
		if op.Collection == nil || !op.Mode.valid() {
			return nil, ErrInvalidBlendArgs
		}
	}
	blended := NewCollection(nil, WithBackgroundColor(lc.backgroundColor), WithColorizer(lc.colorizer))
	for _, year := range lc.blendYears(operands) {
		locals := layersForYear(lc.layers, year)
		if len(locals) > 1 {
			log.Error(collectionTag+"multiple layers for year", zap.Int("year", year))
			return nil, ErrMultipleLayersPerYear
		}
		var local *Layer
		if len(locals) == 1 {
			local = locals[0]
		} else {
			template := lc.anyLayer(operands)
			placeholder, err := template.Flatten(0, true)
			if err != nil {
				return nil, err
			}
			local = placeholder.derive(placeholder.path, year, placeholder.interp, placeholder.units)
		}
		var ops []BlendOperand
		for _, co := range operands {
			for _, l := range layersForYear(co.Collection.layers, year) {
				ops = append(ops, BlendOperand{Layer: l, Mode: co.Mode})
			}
		}
		if len(ops) == 0 {
			blended.Append(local)
			continue
		}
		result, err := local.Blend(ops...)
		if err != nil {
			return nil, err
		}
		blended.Append(result)
	}
	return blended, nil
}

// RenderOptions configures a collection render. StartYear and EndYear must
// be given together or left zero; the zero Units default to TcPerHa.
type RenderOptions struct {
	BoundingBox *BoundingBox
	StartYear   int
	EndYear     int
	Units       Units
}

// Render turns the collection into colorized Frames, one per requested
// year, plus the legend shared by all of them. Per-layer work (crop, unit
// conversion, reclassify, per-year merge, colorize) fans out over a worker
// pool with a full barrier between stages. Years inside the requested range
// with no source layer get a bare background Frame, so the output never has
// gaps; a range with no source layers at all still renders background-only
// frames when a bounding box supplies the background.
func (lc *LayerCollection) Render(opts RenderOptions) ([]*Frame, Legend, error) {
	if (opts.StartYear == 0) != (opts.EndYear == 0) {
		return nil, nil, ErrYearRangeIncomplete
	}
	if lc.Empty() {
		return nil, nil, ErrEmptyCollection
	}
	units := opts.Units
	if units == (Units{}) {
		units = TcPerHa
	}

	layerYears := map[int]bool{}
	for _, l := range lc.layers {
		layerYears[l.year] = true
	}
	renderYears := map[int]bool{}
	if opts.StartYear != 0 {
		for y := opts.StartYear; y <= opts.EndYear; y++ {
			renderYears[y] = true
		}
	} else {
		renderYears = layerYears
	}
	var working []*Layer
	for _, l := range lc.layers {
		if renderYears[l.year] {
			working = append(working, l)
		}
	}
	// A range with no source layers can still produce bare background
	// frames, but only a bounding box can supply the background then.
	if len(working) == 0 && opts.BoundingBox == nil {
		return nil, nil, ErrEmptyCollection
	}
	log.Info(collectionTag+"rendering", zap.Int("layers", len(working)),
		zap.Int("years", len(renderYears)), zap.String("units", units.Label))

	var err error
	if opts.BoundingBox != nil {
		// The box self-initializes lazily and is not safe for a concurrent
		// first use, so it is initialized before the fan-out.
		if err = opts.BoundingBox.Init(); err != nil {
			return nil, nil, err
		}
		if working, err = parallelMap(working, opts.BoundingBox.Crop); err != nil {
			return nil, nil, err
		}
	}

	if working, err = parallelMap(working, func(l *Layer) (*Layer, error) {
		return l.ConvertUnits(units)
	}); err != nil {
		return nil, nil, err
	}

	if anyInterpreted(working) {
		// Different years may encode the same category under different
		// pixel values; normalize to one shared interpretation so color
		// and legend stay stable across the whole series.
		common := commonInterpretation(working)
		if working, err = parallelMap(working, func(l *Layer) (*Layer, error) {
			if !l.HasInterpretation() {
				return l, nil
			}
			return l.Reclassify(common, 0)
		}); err != nil {
			return nil, nil, err
		}
	}

	var backgroundLayer *Layer
	if opts.BoundingBox != nil {
		backgroundLayer = &opts.BoundingBox.Layer
	} else {
		backgroundLayer = working[0]
	}
	flattened, err := backgroundLayer.Flatten(1, false)
	if err != nil {
		return nil, nil, err
	}
	backgroundFrame, err := flattened.Render(
		Legend{ValueEntry(1, lc.backgroundColor, "")}, opts.BoundingBox, false)
	if err != nil {
		return nil, nil, err
	}

	merged, err := parallelMap(groupByYear(working), mergeLayers)
	if err != nil {
		return nil, nil, err
	}

	frames := make([]*Frame, 0, len(renderYears))
	var legend Legend
	if len(merged) > 0 {
		if legend, err = lc.colorizer.CreateLegend(merged); err != nil {
			return nil, nil, err
		}
		rendered, err := parallelMap(merged, func(l *Layer) (*Frame, error) {
			return l.Render(legend, nil, true)
		})
		if err != nil {
			return nil, nil, err
		}
		for _, f := range rendered {
			composited, err := f.Composite(backgroundFrame, true)
			if err != nil {
				return nil, nil, err
			}
			frames = append(frames, composited)
		}
	}
	return fillMissingYears(frames, renderYears, layerYears, backgroundFrame), legend, nil
}

// fillMissingYears pads the rendered frames with a bare background frame for
// every requested year that had no source layer.
func fillMissingYears(frames []*Frame, renderYears, layerYears map[int]bool, background *Frame) []*Frame {
	for year := range renderYears {
		if !layerYears[year] {
			frames = append(frames, NewFrame(year, background.path, background.scale))
		}
	}
	return frames
}

// mergeLayers mosaicks the fragments of one year into a single layer.
func mergeLayers(group []*Layer) (*Layer, error) {
	if len(group) == 1 {
		return group[0], nil
	}
	paths := make([]string, len(group))
	for i, l := range group {
		paths[i] = l.path
	}
	out := utils.MkTmp(".tif")
	if err := group[0].tb.Mosaic(out, paths); err != nil {
		return nil, err
	}
	first := group[0]
	return first.derive(out, first.year, first.interp, first.units), nil
}

// blendYears is the sorted union of years across this collection and all
// operands.
func (lc *LayerCollection) blendYears(operands []CollectionOperand) []int {
	set := map[int]bool{}
	for _, l := range lc.layers {
		set[l.year] = true
	}
	for _, co := range operands {
		for _, l := range co.Collection.layers {
			set[l.year] = true
		}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// anyLayer finds a template layer for placeholders: the first local layer,
// else the first operand layer.
func (lc *LayerCollection) anyLayer(operands []CollectionOperand) *Layer {
	if len(lc.layers) > 0 {
		return lc.layers[0]
	}
	for _, co := range operands {
		if len(co.Collection.layers) > 0 {
			return co.Collection.layers[0]
		}
	}
	return nil
}

func layersForYear(layers []*Layer, year int) (out []*Layer) {
	for _, l := range layers {
		if l.year == year {
			out = append(out, l)
		}
	}
	return
}

func anyInterpreted(layers []*Layer) bool {
	for _, l := range layers {
		if l.HasInterpretation() {
			return true
		}
	}
	return false
}

// commonInterpretation assigns fresh 1-based pixel values to the sorted
// union of category labels across all interpreted layers.
func commonInterpretation(layers []*Layer) map[int]string {
	labelSet := map[string]bool{}
	for _, l := range layers {
		for _, label := range l.interp {
			labelSet[label] = true
		}
	}
	labels := make([]string, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	common := make(map[int]string, len(labels))
	for i, label := range labels {
		common[i+1] = label
	}
	return common
}

// groupByYear groups possibly-fragmented layers by year, ordered by year.
func groupByYear(layers []*Layer) [][]*Layer {
	byYear := map[int][]*Layer{}
	for _, l := range layers {
		byYear[l.year] = append(byYear[l.year], l)
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	groups := make([][]*Layer, len(years))
	for i, y := range years {
		groups[i] = byYear[y]
	}
	return groups
}
