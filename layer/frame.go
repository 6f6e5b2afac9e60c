package layer

import (
	"github.com/wgdzlh/gcbmanim/utils"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Frame is one rendered image tagged with a year and the physical pixel
// scale (metres) it was rendered at. Frames are immutable; Composite
// produces a new Frame backed by a new image file.
type Frame struct {
	year  int
	path  string
	scale float64
}

func NewFrame(year int, path string, scale float64) *Frame {
	return &Frame{year: year, path: path, scale: scale}
}

func (f *Frame) Year() int {
	return f.year
}

func (f *Frame) Path() string {
	return f.path
}

func (f *Frame) Scale() float64 {
	return f.scale
}

// Composite layers this frame and another into a new Frame tagged with this
// frame's year and scale. With sendToBottom the other frame becomes the
// background and shows through wherever this frame is transparent;
// otherwise the other frame is drawn on top.
func (f *Frame) Composite(other *Frame, sendToBottom bool) (*Frame, error) {
	top, err := imaging.Open(f.path)
	if err != nil {
		return nil, err
	}
	bottom, err := imaging.Open(other.path)
	if err != nil {
		return nil, err
	}
	if !sendToBottom {
		top, bottom = bottom, top
	}
	bb, tb := bottom.Bounds(), top.Bounds()
	if bb.Dx() != tb.Dx() || bb.Dy() != tb.Dy() {
		top = imaging.Resize(top, bb.Dx(), bb.Dy(), imaging.Lanczos)
	}
	out := utils.MkTmp(".png")
	if err = imaging.Save(blend.Normal(bottom, top), out); err != nil {
		return nil, err
	}
	return NewFrame(f.year, out, f.scale), nil
}
