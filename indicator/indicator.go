package indicator

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wgdzlh/gcbmanim/layer"
	"github.com/wgdzlh/gcbmanim/log"
	"github.com/wgdzlh/gcbmanim/plot"
	"github.com/wgdzlh/gcbmanim/raster"
	"github.com/wgdzlh/gcbmanim/results"
	"github.com/wgdzlh/gcbmanim/utils"

	"go.uber.org/zap"
)

const indicatorTag = "Indicator:"

var (
	ErrNoLayersFound = errors.New("no spatial output found for pattern")
)

// Indicator ties one ecosystem indicator together: the file pattern of its
// yearly spatial outputs, the results provider for its non-spatial series,
// and the presentation settings for both.
type Indicator struct {
	tb           *raster.Toolbox
	name         string
	layerPattern string
	provider     results.Provider
	filter       results.Filter
	title        string
	graphUnits   layer.Units
	mapUnits     layer.Units
	palette      layer.Palette
	background   layer.RGB
}

type Option func(*Indicator)

func WithTitle(title string) Option {
	return func(i *Indicator) {
		i.title = title
	}
}

func WithFilter(f results.Filter) Option {
	return func(i *Indicator) {
		i.filter = f
	}
}

// WithGraphUnits sets the units of the charted series; result values are
// divided by the units' scale factor.
func WithGraphUnits(u layer.Units) Option {
	return func(i *Indicator) {
		i.graphUnits = u
	}
}

// WithMapUnits declares the units the spatial outputs are in, so rendered
// frames get the right unit labels.
func WithMapUnits(u layer.Units) Option {
	return func(i *Indicator) {
		i.mapUnits = u
	}
}

func WithPalette(p layer.Palette) Option {
	return func(i *Indicator) {
		i.palette = p
	}
}

func WithBackgroundColor(c layer.RGB) Option {
	return func(i *Indicator) {
		i.background = c
	}
}

// New builds an indicator. layerPattern is a glob, including the directory,
// locating the yearly spatial outputs, e.g. "my_run/NPP_*.tif"; the year of
// each layer is read from the last four characters of its file stem.
func New(tb *raster.Toolbox, name, layerPattern string, provider results.Provider, opts ...Option) *Indicator {
	i := &Indicator{
		tb:           tb,
		name:         name,
		layerPattern: layerPattern,
		provider:     provider,
		filter:       results.Filter{Indicator: name},
		title:        name,
		graphUnits:   layer.Tc,
		mapUnits:     layer.TcPerHa,
		palette:      layer.PaletteGreens,
		background:   layer.RGB{R: 255, G: 255, B: 255},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Indicator) Name() string {
	return i.name
}

func (i *Indicator) Title() string {
	return i.title
}

func (i *Indicator) MapUnits() layer.Units {
	return i.mapUnits
}

func (i *Indicator) GraphUnits() layer.Units {
	return i.graphUnits
}

// RenderMapFrames colorizes the indicator's spatial output into one Frame
// per simulation year, cropped to the bounding box when one is given.
func (i *Indicator) RenderMapFrames(boundingBox *layer.BoundingBox) ([]*layer.Frame, layer.Legend, error) {
	start, end, err := i.provider.SimulationYears()
	if err != nil {
		return nil, nil, err
	}
	layers, err := i.findLayers()
	if err != nil {
		return nil, nil, err
	}
	return layers.Render(layer.RenderOptions{
		BoundingBox: boundingBox,
		StartYear:   start,
		EndYear:     end,
		Units:       i.mapUnits,
	})
}

// RenderGraphFrames charts the indicator's non-spatial output, one Frame
// per year.
func (i *Indicator) RenderGraphFrames(startYear, endYear int) ([]*layer.Frame, error) {
	p := plot.NewBasicResultsPlot(i.title, i.provider, i.graphUnits)
	return p.Render(i.filter, startYear, endYear)
}

func (i *Indicator) findLayers() (*layer.LayerCollection, error) {
	matches, err := filepath.Glob(i.layerPattern)
	if err != nil {
		return nil, err
	}
	collection := layer.NewCollection(nil,
		layer.WithBackgroundColor(i.background),
		layer.WithColorizer(layer.NewBinnedColorizer(8, i.palette)))
	for _, path := range matches {
		year, ok := utils.TrailingYear(path)
		if !ok {
			log.Warn(indicatorTag+"cannot read year from layer file", zap.String("path", path))
			continue
		}
		collection.Append(layer.New(i.tb, path, year))
	}
	if collection.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrNoLayersFound, i.layerPattern)
	}
	return collection, nil
}
