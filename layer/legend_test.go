package layer

import (
	"testing"

	"github.com/wgdzlh/gcbmanim/raster"
)

func entryFor(entries []raster.ColorEntry, value float64) (raster.ColorEntry, bool) {
	for _, e := range entries {
		if e.Value == value {
			return e, true
		}
	}
	return raster.ColorEntry{}, false
}

func TestColorTableBackground(t *testing.T) {
	legend := Legend{ValueEntry(1, RGB{10, 20, 30}, "one")}

	table := legend.colorTable(true)
	if table.NoData.A != 0 {
		t.Fatal(table.NoData)
	}
	zero, ok := entryFor(table.Entries, 0)
	if !ok || zero.Color.A != 0 {
		t.Fatal(zero)
	}

	table = legend.colorTable(false)
	if table.NoData != (raster.RGBA{255, 255, 255, 255}) {
		t.Fatal(table.NoData)
	}
	one, ok := entryFor(table.Entries, 1)
	if !ok || one.Color != (raster.RGBA{10, 20, 30, 255}) {
		t.Fatal(one)
	}
}

func TestColorTableNearZeroGuard(t *testing.T) {
	c := RGB{0, 128, 0}
	table := Legend{RangeEntry(0.5, 2, c, "")}.colorTable(true)
	lo, okLo := entryFor(table.Entries, -nearZeroGuard)
	hi, okHi := entryFor(table.Entries, nearZeroGuard)
	if !okLo || !okHi {
		t.Fatal(table.Entries)
	}
	want := raster.RGBA{0, 128, 0, 255}
	if lo.Color != want || hi.Color != want {
		t.Fatal(lo, hi)
	}

	// A range spanning zero is closest of all.
	spanning := RGB{200, 0, 0}
	table = Legend{
		RangeEntry(0.5, 2, c, ""),
		RangeEntry(-1, 1, spanning, ""),
	}.colorTable(true)
	lo, _ = entryFor(table.Entries, -nearZeroGuard)
	if lo.Color != (raster.RGBA{200, 0, 0, 255}) {
		t.Fatal(lo)
	}
}

func TestColorTableNearZeroTie(t *testing.T) {
	first := RGB{1, 1, 1}
	second := RGB{2, 2, 2}
	table := Legend{
		ValueEntry(-5, first, ""),
		ValueEntry(5, second, ""),
	}.colorTable(true)
	guard, ok := entryFor(table.Entries, nearZeroGuard)
	if !ok {
		t.Fatal(table.Entries)
	}
	// Equidistant from zero: the earlier entry keeps the guard.
	if guard.Color != (raster.RGBA{1, 1, 1, 255}) {
		t.Fatal(guard)
	}
}

func TestColorTableEmptyLegend(t *testing.T) {
	table := Legend{}.colorTable(true)
	if len(table.Entries) != 1 || table.Entries[0].Value != 0 {
		t.Fatal(table.Entries)
	}
}
