package raster

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	if d := HaversineM(10, 20, 10, 20); d != 0 {
		t.Fatal(d)
	}
	// One degree of longitude at the equator.
	d := HaversineM(0, 0, 1, 0)
	want := 2 * math.Pi * earthRadiusM / 360
	if math.Abs(d-want) > 1 {
		t.Fatal(d, want)
	}
	if a, b := HaversineM(5, 40, 6, 41), HaversineM(6, 41, 5, 40); math.Abs(a-b) > 1e-9 {
		t.Fatal(a, b)
	}
}

func TestPixelSize(t *testing.T) {
	equatorW, equatorH := PixelSizeM(0, 0, 0.01, -0.01)
	if math.Abs(equatorW-equatorH) > 1 {
		t.Fatal(equatorW, equatorH)
	}
	highW, highH := PixelSizeM(0, 60, 0.01, -0.01)
	// Width shrinks by cos(lat); height barely changes.
	if ratio := highW / equatorW; math.Abs(ratio-0.5) > 0.01 {
		t.Fatal(ratio)
	}
	if math.Abs(highH-equatorH) > 5 {
		t.Fatal(highH, equatorH)
	}
}
