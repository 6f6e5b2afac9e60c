package layer

import (
	"math"
	"testing"
)

func TestCategoricalLegend(t *testing.T) {
	a := New(nil, "a.tif", 2010, WithInterpretation(map[int]string{1: "Fire", 2: "Harvest"}))
	b := New(nil, "b.tif", 2011, WithInterpretation(map[int]string{2: "Harvest", 3: "Insects"}))
	legend, err := NewColorizer().CreateLegend([]*Layer{a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(legend) != 3 {
		t.Fatal(legend)
	}
	labels := map[float64]string{1: "Fire", 2: "Harvest", 3: "Insects"}
	seen := map[RGB]bool{}
	for _, e := range legend {
		if e.IsRange {
			t.Fatal(e)
		}
		if labels[e.Value] != e.Label {
			t.Fatal(e)
		}
		if seen[e.Color] {
			t.Fatal("duplicate category color")
		}
		seen[e.Color] = true
	}
}

func TestCreateLegendEmpty(t *testing.T) {
	if _, err := NewColorizer().CreateLegend(nil); err != ErrEmptyCollection {
		t.Fatal(err)
	}
}

func TestBinnedColorizerDefaults(t *testing.T) {
	if c := NewBinnedColorizer(0, PaletteBlues); c.bins != 8 {
		t.Fatal(c.bins)
	}
	if c := NewQuantileColorizer(-1, PaletteBlues); c.bins != 8 {
		t.Fatal(c.bins)
	}
}

func TestPaletteRamp(t *testing.T) {
	colors := PaletteGreens.ramp(5)
	if len(colors) != 5 {
		t.Fatal(colors)
	}
	start := RGB{229, 245, 224}
	end := RGB{0, 68, 27}
	if colors[0] != start || colors[4] != end {
		t.Fatal(colors[0], colors[4])
	}
	if one := PaletteGreens.ramp(1); len(one) != 1 {
		t.Fatal(one)
	}
}

func TestEqualEdges(t *testing.T) {
	edges := equalEdges(0, 10, 5)
	want := []float64{0, 2, 4, 6, 8, 10}
	if len(edges) != len(want) {
		t.Fatal(edges)
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-12 {
			t.Fatal(edges)
		}
	}
	// Degenerate range still yields monotone edges.
	edges = equalEdges(3, 3, 2)
	if edges[0] != 3 || edges[len(edges)-1] != 4 {
		t.Fatal(edges)
	}
}

func TestQuantileEdges(t *testing.T) {
	counts := []int{10, 0, 0, 10}
	edges := quantileEdges(counts, 0, 4, 2)
	want := []float64{0, 1, 4}
	if len(edges) != len(want) {
		t.Fatal(edges)
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-12 {
			t.Fatal(edges)
		}
	}
	if quantileEdges([]int{0, 0}, 0, 1, 2) != nil {
		t.Fatal("empty histogram")
	}
}

func TestBinnedLegendLabels(t *testing.T) {
	legend := binnedLegend([]float64{0, 5, 10}, PaletteOranges)
	if len(legend) != 2 {
		t.Fatal(legend)
	}
	if !legend[0].IsRange || legend[0].RangeMin != 0 || legend[0].RangeMax != 5 {
		t.Fatal(legend[0])
	}
	if legend[0].Label != "0.00 to 5.00" {
		t.Fatal(legend[0].Label)
	}
}
