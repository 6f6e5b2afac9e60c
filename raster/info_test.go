package raster

import "testing"

func TestMinMax(t *testing.T) {
	data := []float64{-9999, 3, -2, 7, -9999, 0}
	min, max := minMax(data, -9999, true)
	if min != -2 || max != 7 {
		t.Fatal(min, max)
	}
	min, max = minMax(data, -9999, false)
	if min != -9999 || max != 7 {
		t.Fatal(min, max)
	}
	if min, max = minMax(nil, 0, false); min != 0 || max != 0 {
		t.Fatal(min, max)
	}
}

func TestBucketize(t *testing.T) {
	data := []float64{0, 0.5, 1, 2.5, 4, -9999, 5, -1}
	counts := bucketize(data, -9999, true, 0, 4, 4)
	// -1 and 5 are out of range, 4 lands in the last bucket.
	want := []int{3, 0, 1, 1}
	if len(counts) != len(want) {
		t.Fatal(counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatal(counts)
		}
	}
	if bucketize(data, 0, false, 0, 4, 0) != nil {
		t.Fatal("no buckets")
	}
	if bucketize(data, 0, false, 4, 4, 2) != nil {
		t.Fatal("empty range")
	}
}
