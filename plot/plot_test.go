package plot

import (
	"os"
	"testing"

	"github.com/wgdzlh/gcbmanim/layer"
	"github.com/wgdzlh/gcbmanim/results"
)

type stubProvider struct {
	data map[int]float64
}

func (s *stubProvider) SimulationYears() (int, int, error) {
	min, max := 0, 0
	for y := range s.data {
		if min == 0 || y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	return min, max, nil
}

func (s *stubProvider) AnnualResult(f results.Filter, startYear, endYear int, units layer.Units) (map[int]float64, error) {
	return s.data, nil
}

func TestBasicResultsPlotRender(t *testing.T) {
	provider := &stubProvider{data: map[int]float64{
		2012: -1.5,
		2010: 3,
		2011: 0.25,
	}}
	p := NewBasicResultsPlot("NPP", provider, layer.Tc)
	frames, err := p.Render(results.Filter{Indicator: "NPP"}, 2010, 2012)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatal(len(frames))
	}
	for i, f := range frames {
		if f.Year() != 2010+i {
			t.Fatal(f.Year())
		}
		st, err := os.Stat(f.Path())
		if err != nil {
			t.Fatal(err)
		}
		if st.Size() == 0 {
			t.Fatal("empty chart file", f.Path())
		}
	}
}
