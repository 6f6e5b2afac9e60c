package raster

import (
	"image"
	"image/color"
	"sort"

	"github.com/wgdzlh/gcbmanim/log"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// RGBA is an 8-bit color table entry value.
type RGBA struct {
	R, G, B, A uint8
}

// ColorEntry maps one pixel value to a color.
type ColorEntry struct {
	Value float64
	Color RGBA
}

// ColorTable drives color-relief rasterization. Entries are matched by
// nearest value (gdaldem -nearest_color_entry semantics, no interpolation);
// nodata pixels take the NoData color.
type ColorTable struct {
	NoData  RGBA
	Entries []ColorEntry
}

// ColorRelief rasterizes band 1 of a raster into an RGBA image file using
// the color table. The output format follows the file extension (PNG for
// the animation pipeline).
func (g *Toolbox) ColorRelief(tif, out string, table ColorTable) (err error) {
	if len(table.Entries) == 0 {
		err = ErrEmptyColorTable
		return
	}
	data, info, err := g.ReadBand(tif)
	if err != nil {
		return
	}
	entries := make([]ColorEntry, len(table.Entries))
	copy(entries, table.Entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })

	img := image.NewNRGBA(image.Rect(0, 0, info.Width, info.Height))
	for px, v := range data {
		var c RGBA
		if info.HasNoData && v == info.NoData {
			c = table.NoData
		} else {
			c = nearestEntry(entries, v).Color
		}
		img.SetNRGBA(px%info.Width, px/info.Width, color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A})
	}
	if err = imaging.Save(img, out); err != nil {
		log.Error(g.logTag+"save color relief failed", zap.String("out", out), zap.Error(err))
	}
	return
}

// nearestEntry picks the entry whose value is closest to v; entries must be
// sorted ascending. A tie between the two neighbours goes to the lower one.
func nearestEntry(entries []ColorEntry, v float64) ColorEntry {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Value >= v })
	if i == 0 {
		return entries[0]
	}
	if i == len(entries) {
		return entries[len(entries)-1]
	}
	if entries[i].Value-v < v-entries[i-1].Value {
		return entries[i]
	}
	return entries[i-1]
}
