package layer

import (
	"math"

	"github.com/wgdzlh/gcbmanim/raster"
)

// nearZeroGuard is the offset of the two color-table rows protecting the
// legend color closest to zero from the background/nodata color.
const nearZeroGuard = 1e-3

// RGB is a legend color.
type RGB struct {
	R, G, B uint8
}

// LegendEntry assigns a color and label to either a single pixel value or
// a (min, max) value range.
type LegendEntry struct {
	Value    float64
	RangeMin float64
	RangeMax float64
	IsRange  bool
	Color    RGB
	Label    string
}

// Legend is an ordered set of entries. Order matters for the near-zero
// guard: among entries equidistant from zero the earliest one wins.
type Legend []LegendEntry

func ValueEntry(value int, color RGB, label string) LegendEntry {
	return LegendEntry{Value: float64(value), Color: color, Label: label}
}

func RangeEntry(min, max float64, color RGB, label string) LegendEntry {
	return LegendEntry{RangeMin: min, RangeMax: max, IsRange: true, Color: color, Label: label}
}

// colorTable expands the legend into an engine color table. Nodata and
// pixel value 0 map to the background (transparent or opaque white); every
// legend entry emits one row per boundary value, fully opaque. Two guard
// rows at ±nearZeroGuard carry the color closest to zero so the background
// color cannot bleed into values infinitesimally close to it.
func (l Legend) colorTable(transparent bool) raster.ColorTable {
	bgAlpha := uint8(255)
	if transparent {
		bgAlpha = 0
	}
	background := raster.RGBA{R: 255, G: 255, B: 255, A: bgAlpha}
	table := raster.ColorTable{
		NoData:  background,
		Entries: []raster.ColorEntry{{Value: 0, Color: background}},
	}
	nearZeroDist := math.Inf(1)
	var nearZeroColor raster.RGBA
	for _, e := range l {
		c := raster.RGBA{R: e.Color.R, G: e.Color.G, B: e.Color.B, A: 255}
		var dist float64
		if e.IsRange {
			table.Entries = append(table.Entries,
				raster.ColorEntry{Value: e.RangeMin, Color: c},
				raster.ColorEntry{Value: e.RangeMax, Color: c})
			if e.RangeMin < 0 && e.RangeMax > 0 {
				dist = 0
			} else {
				dist = math.Min(math.Abs(e.RangeMin), math.Abs(e.RangeMax))
			}
		} else {
			table.Entries = append(table.Entries, raster.ColorEntry{Value: e.Value, Color: c})
			dist = math.Abs(e.Value)
		}
		if dist < nearZeroDist {
			nearZeroDist = dist
			nearZeroColor = c
		}
	}
	if len(l) > 0 {
		table.Entries = append(table.Entries,
			raster.ColorEntry{Value: -nearZeroGuard, Color: nearZeroColor},
			raster.ColorEntry{Value: nearZeroGuard, Color: nearZeroColor})
	}
	return table
}
