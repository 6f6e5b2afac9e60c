package layer

import (
	"fmt"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colorizer builds the legend for a set of merged per-year layers. The
// legend must be derived from all years at once so the color scale stays
// stable across the whole animation.
type Colorizer interface {
	CreateLegend(layers []*Layer) (Legend, error)
}

// Palette is a two-point color ramp, interpolated perceptually.
type Palette struct {
	Start colorful.Color
	End   colorful.Color
}

// Ramp endpoints follow the ColorBrewer sequential schemes.
var (
	PaletteGreens = Palette{
		Start: colorful.Color{R: 0.898, G: 0.960, B: 0.878},
		End:   colorful.Color{R: 0.000, G: 0.267, B: 0.106},
	}
	PaletteBlues = Palette{
		Start: colorful.Color{R: 0.871, G: 0.921, B: 0.969},
		End:   colorful.Color{R: 0.031, G: 0.188, B: 0.420},
	}
	PaletteOranges = Palette{
		Start: colorful.Color{R: 0.996, G: 0.902, B: 0.807},
		End:   colorful.Color{R: 0.498, G: 0.153, B: 0.016},
	}
)

// ramp returns n colors evenly blended from Start to End in Lab space.
func (p Palette) ramp(n int) []RGB {
	colors := make([]RGB, n)
	for i := range colors {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r, g, b := p.Start.BlendLab(p.End, t).Clamped().RGB255()
		colors[i] = RGB{r, g, b}
	}
	return colors
}

// categoryColors spreads n distinct hues around the wheel by the golden
// angle, deterministically.
func categoryColors(n int) []RGB {
	colors := make([]RGB, n)
	for i := range colors {
		h := math.Mod(float64(i)*137.508, 360)
		r, g, b := colorful.Hsv(h, 0.65, 0.9).Clamped().RGB255()
		colors[i] = RGB{r, g, b}
	}
	return colors
}

// BinnedColorizer is the default legend policy: interpreted layers get one
// color per category; value layers get the cross-year value range split
// into equal-width bins over the palette ramp.
type BinnedColorizer struct {
	bins    int
	palette Palette
}

func NewBinnedColorizer(bins int, palette Palette) *BinnedColorizer {
	if bins <= 0 {
		bins = 8
	}
	return &BinnedColorizer{bins: bins, palette: palette}
}

// NewColorizer is the default: 8 equal bins over the Greens ramp.
func NewColorizer() *BinnedColorizer {
	return NewBinnedColorizer(8, PaletteGreens)
}

func (c *BinnedColorizer) CreateLegend(layers []*Layer) (Legend, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyCollection
	}
	if anyInterpreted(layers) {
		return categoricalLegend(layers), nil
	}
	min, max, err := valueRange(layers)
	if err != nil {
		return nil, err
	}
	return binnedLegend(equalEdges(min, max, c.bins), c.palette), nil
}

// QuantileColorizer places bin edges at equal pixel counts, using the
// engine's histogram primitive, so heavily skewed value distributions still
// spread across the whole ramp.
type QuantileColorizer struct {
	bins    int
	palette Palette
}

func NewQuantileColorizer(bins int, palette Palette) *QuantileColorizer {
	if bins <= 0 {
		bins = 8
	}
	return &QuantileColorizer{bins: bins, palette: palette}
}

func (c *QuantileColorizer) CreateLegend(layers []*Layer) (Legend, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyCollection
	}
	if anyInterpreted(layers) {
		return categoricalLegend(layers), nil
	}
	min, max, err := valueRange(layers)
	if err != nil {
		return nil, err
	}
	if max <= min {
		return binnedLegend(equalEdges(min, max, c.bins), c.palette), nil
	}
	const resolution = 256
	counts := make([]int, resolution)
	for _, l := range layers {
		h, err := l.Histogram(min, max, resolution)
		if err != nil {
			return nil, err
		}
		for i, n := range h {
			counts[i] += n
		}
	}
	edges := quantileEdges(counts, min, max, c.bins)
	if len(edges) < 2 {
		edges = equalEdges(min, max, c.bins)
	}
	return binnedLegend(edges, c.palette), nil
}

func valueRange(layers []*Layer) (min, max float64, err error) {
	for i, l := range layers {
		lo, hi, e := l.MinMax()
		if e != nil {
			err = e
			return
		}
		if i == 0 || lo < min {
			min = lo
		}
		if i == 0 || hi > max {
			max = hi
		}
	}
	return
}

// categoricalLegend lists the shared interpretation of the layers. Layers
// are expected to be reclassified against one common interpretation before
// the legend is built.
func categoricalLegend(layers []*Layer) Legend {
	values := map[int]string{}
	for _, l := range layers {
		for v, label := range l.interp {
			values[v] = label
		}
	}
	keys := make([]int, 0, len(values))
	for v := range values {
		keys = append(keys, v)
	}
	sort.Ints(keys)
	colors := categoryColors(len(keys))
	legend := make(Legend, 0, len(keys))
	for i, v := range keys {
		legend = append(legend, ValueEntry(v, colors[i], values[v]))
	}
	return legend
}

func binnedLegend(edges []float64, palette Palette) Legend {
	bins := len(edges) - 1
	colors := palette.ramp(bins)
	legend := make(Legend, 0, bins)
	for i := 0; i < bins; i++ {
		lo, hi := edges[i], edges[i+1]
		legend = append(legend, RangeEntry(lo, hi, colors[i], fmt.Sprintf("%.2f to %.2f", lo, hi)))
	}
	return legend
}

func equalEdges(min, max float64, bins int) []float64 {
	if max <= min {
		max = min + 1
	}
	width := (max - min) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = min + float64(i)*width
	}
	edges[bins] = max
	return edges
}

// quantileEdges converts a histogram into bin edges holding roughly equal
// pixel counts; duplicate edges from empty stretches are collapsed.
func quantileEdges(counts []int, min, max float64, bins int) []float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return nil
	}
	bucketWidth := (max - min) / float64(len(counts))
	edges := []float64{min}
	cum := 0
	target := 1
	for i, n := range counts {
		cum += n
		for target < bins && float64(cum) >= float64(target)*float64(total)/float64(bins) {
			edge := min + float64(i+1)*bucketWidth
			if edge > edges[len(edges)-1] {
				edges = append(edges, edge)
			}
			target++
		}
	}
	if edges[len(edges)-1] < max {
		edges = append(edges, max)
	}
	return edges
}
