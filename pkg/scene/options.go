package scene

import (
	"sheetmark/pkg/controller"
	"sheetmark/pkg/font"
)

// Options configures scene geometry, hit-testing and hooks.
type Options struct {
	// MinShapeSize is passed to the controller.
	// Default: 12
	MinShapeSize float64

	// HandleMargin is the radius around a bounding-box corner that starts
	// a resize.
	// Default: 8
	HandleMargin float64

	// MinResizeSize is the per-axis floor while resizing.
	// Default: 12
	MinResizeSize float64

	// SnapPad is how far outside a label box an arrow's tail stops.
	// Default: 3
	SnapPad float64

	// HitFloor and HitFactor dilate thin lines for hit-testing to
	// max(HitFloor, HitFactor*width).
	// Default: 20 and 3
	HitFloor  float64
	HitFactor float64

	// MarginRatio and MarginFloor size the editing margin around the
	// image: max(MarginRatio*max(w,h), MarginFloor) per side.
	// Default: 0.10 and 120
	MarginRatio float64
	MarginFloor float64

	// TextMargin pads the measured label on every side.
	// Default: 4
	TextMargin float64

	// Z bases added to each annotation's z-order per kind.
	// Default: text 30, shape 20, arrow 10, datum 0
	TextZ  float64
	ShapeZ float64
	ArrowZ float64
	DatumZ float64

	// Faces measures and draws labels.
	// Default: font.Default()
	Faces *font.Faces

	// OnChange is called whenever the scene needs repainting.
	OnChange func()

	// OnResult receives gesture results that completed after a prompt.
	OnResult func(controller.Result)
}

// DefaultOptions returns the stock scene options.
func DefaultOptions() Options {
	return Options{
		MinShapeSize:  12,
		HandleMargin:  8,
		MinResizeSize: 12,
		SnapPad:       3,
		HitFloor:      20,
		HitFactor:     3,
		MarginRatio:   0.10,
		MarginFloor:   120,
		TextMargin:    4,
		TextZ:         30,
		ShapeZ:        20,
		ArrowZ:        10,
		DatumZ:        0,
	}
}

// Option is a functional option for configuring a Scene.
type Option func(*Options)

// HandleMargin sets the resize handle radius.
func HandleMargin(px float64) Option {
	return func(o *Options) {
		o.HandleMargin = px
	}
}

// MinShapeSize sets the smallest shape the controller accepts.
func MinShapeSize(px float64) Option {
	return func(o *Options) {
		o.MinShapeSize = px
	}
}

// Margin sets the editing margin ratio and floor.
func Margin(ratio, floor float64) Option {
	return func(o *Options) {
		o.MarginRatio = ratio
		o.MarginFloor = floor
	}
}

// Faces sets the label font cache.
func Faces(f *font.Faces) Option {
	return func(o *Options) {
		o.Faces = f
	}
}

// OnChange sets the repaint hook.
func OnChange(fn func()) Option {
	return func(o *Options) {
		o.OnChange = fn
	}
}

// OnResult sets the hook for results of prompts answered later.
func OnResult(fn func(controller.Result)) Option {
	return func(o *Options) {
		o.OnResult = fn
	}
}

// NewOptions creates options from functional options.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Faces == nil {
		o.Faces = font.Default()
	}
	return o
}
