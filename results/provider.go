package results

import (
	"errors"

	"github.com/wgdzlh/gcbmanim/layer"
)

var (
	ErrNoResults = errors.New("no results for indicator")
)

// Filter narrows a results query to one indicator series. It is the
// explicit counterpart of the loose keyword filters the charting side
// passes around.
type Filter struct {
	Indicator string
}

// Provider supplies the non-spatial simulation results backing the
// time-series charts. AnnualResult values are divided by the units' scale
// factor; a zero start/end year means the provider's full simulation span.
type Provider interface {
	SimulationYears() (start, end int, err error)
	AnnualResult(f Filter, startYear, endYear int, units layer.Units) (map[int]float64, error)
}
