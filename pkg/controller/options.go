package controller

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Options configures gesture thresholds and the preview.
type Options struct {
	// MinShapeSize is the smallest accepted drag width and height in
	// scene pixels.
	// Default: 12
	MinShapeSize float64

	// MinArrowDistance is the smallest accepted Manhattan drag length.
	// Default: 3
	MinArrowDistance float64

	// PreviewColor is the rubber band color, independent of the tool style.
	// Default: magenta
	PreviewColor color.NRGBA

	// PreviewDash is the rubber band dash pattern in scene pixels.
	// Default: 12 on, 6 off
	PreviewDash []float64

	// OnComplete receives the final result of gestures that returned
	// Pending.
	OnComplete func(Result)
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	m := colornames.Magenta
	return Options{
		MinShapeSize:     12,
		MinArrowDistance: 3,
		PreviewColor:     color.NRGBA{R: m.R, G: m.G, B: m.B, A: m.A},
		PreviewDash:      []float64{12, 6},
	}
}

// Option is a functional option for configuring a Controller.
type Option func(*Options)

// MinShapeSize sets the minimum shape drag size.
func MinShapeSize(px float64) Option {
	return func(o *Options) {
		o.MinShapeSize = px
	}
}

// MinArrowDistance sets the minimum arrow drag length.
func MinArrowDistance(px float64) Option {
	return func(o *Options) {
		o.MinArrowDistance = px
	}
}

// PreviewColor sets the rubber band color.
func PreviewColor(c color.NRGBA) Option {
	return func(o *Options) {
		o.PreviewColor = c
	}
}

// OnComplete sets the hook for results of prompts answered later.
func OnComplete(fn func(Result)) Option {
	return func(o *Options) {
		o.OnComplete = fn
	}
}

// NewOptions creates options from functional options.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
