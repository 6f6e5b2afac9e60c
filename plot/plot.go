package plot

import (
	"fmt"
	"os"
	"sort"

	"github.com/wgdzlh/gcbmanim/layer"
	"github.com/wgdzlh/gcbmanim/results"
	"github.com/wgdzlh/gcbmanim/utils"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ResultsPlot renders the non-spatial side of an indicator into Frames,
// one per year.
type ResultsPlot interface {
	Render(f results.Filter, startYear, endYear int) ([]*layer.Frame, error)
}

var (
	colorNavy      = drawing.Color{R: 0, G: 0, B: 128, A: 255}
	colorShade     = drawing.Color{R: 220, G: 220, B: 220, A: 255}
	colorHighlight = drawing.Color{R: 46, G: 139, B: 87, A: 255}
)

// BasicResultsPlot draws the whole indicator series as a dashed line and
// emphasizes one year per frame: the region already played is shaded and
// the current year is annotated.
type BasicResultsPlot struct {
	title    string
	provider results.Provider
	units    layer.Units
}

func NewBasicResultsPlot(title string, provider results.Provider, units layer.Units) *BasicResultsPlot {
	return &BasicResultsPlot{
		title:    title,
		provider: provider,
		units:    units,
	}
}

func (p *BasicResultsPlot) Render(f results.Filter, startYear, endYear int) ([]*layer.Frame, error) {
	data, err := p.provider.AnnualResult(f, startYear, endYear, p.units)
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(data))
	for year := range data {
		years = append(years, year)
	}
	sort.Ints(years)

	xs := make([]float64, len(years))
	ys := make([]float64, len(years))
	minV, maxV := data[years[0]], data[years[0]]
	for i, year := range years {
		xs[i] = float64(year)
		ys[i] = data[year]
		if ys[i] < minV {
			minV = ys[i]
		}
		if ys[i] > maxV {
			maxV = ys[i]
		}
	}

	frames := make([]*layer.Frame, 0, len(years))
	for i, year := range years {
		out := utils.MkTmp(".png")
		if err := p.renderYear(out, xs, ys, i, minV, maxV); err != nil {
			return nil, err
		}
		frames = append(frames, layer.NewFrame(year, out, 0))
	}
	return frames, nil
}

func (p *BasicResultsPlot) renderYear(out string, xs, ys []float64, current int, minV, maxV float64) error {
	series := []chart.Series{}
	// Shade the portion of the series already reached.
	if current >= 1 {
		series = append(series, chart.ContinuousSeries{
			XValues: xs[:current+1],
			YValues: ys[:current+1],
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				FillColor:   colorShade,
			},
		})
	}
	series = append(series,
		chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor:     colorNavy,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
				DotColor:        colorNavy,
				DotWidth:        3,
			},
		},
		chart.AnnotationSeries{
			Annotations: []chart.Value2{{
				XValue: xs[current],
				YValue: ys[current],
				Label:  fmt.Sprintf("%d", int(xs[current])),
			}},
			Style: chart.Style{
				StrokeColor: colorHighlight,
				FillColor:   colorHighlight.WithAlpha(128),
			},
		},
	)
	graph := chart.Chart{
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			Name: "Years",
		},
		YAxis: chart.YAxis{
			Name: fmt.Sprintf("%s (%s)", p.title, p.units.Label),
			Range: &chart.ContinuousRange{
				Min: minV - 0.1,
				Max: maxV + 0.1,
			},
		},
		Series: series,
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()
	return graph.Render(chart.PNG, file)
}
