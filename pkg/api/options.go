package api

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
)

// RenderOptions configures offscreen rendering.
type RenderOptions struct {
	// Scale multiplies the background image's pixel size.
	// Default: 1.0
	Scale float64

	// Background fills the canvas under the image.
	// Default: white
	Background color.Color

	// Transparent leaves the canvas transparent (ignores Background).
	// Default: false
	Transparent bool

	// RenderAnnotations draws the annotations over the image.
	// Default: true
	RenderAnnotations bool
}

// DefaultRenderOptions returns render options with sensible defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Scale:             1.0,
		Background:        color.White,
		Transparent:       false,
		RenderAnnotations: true,
	}
}

// WithScale returns options with the specified scale.
func WithScale(scale float64) RenderOptions {
	opts := DefaultRenderOptions()
	opts.Scale = scale
	return opts
}

// WithTransparent returns options with transparent background.
func WithTransparent() RenderOptions {
	opts := DefaultRenderOptions()
	opts.Transparent = true
	return opts
}

// Option is a functional option for configuring RenderOptions.
type Option func(*RenderOptions)

// Scale sets the scale factor.
func Scale(scale float64) Option {
	return func(o *RenderOptions) {
		o.Scale = scale
	}
}

// Background sets the background color.
func Background(c color.Color) Option {
	return func(o *RenderOptions) {
		o.Background = c
	}
}

// Transparent enables transparent background.
func Transparent() Option {
	return func(o *RenderOptions) {
		o.Transparent = true
	}
}

// NoAnnotations renders the bare background image.
func NoAnnotations() Option {
	return func(o *RenderOptions) {
		o.RenderAnnotations = false
	}
}

// NewRenderOptions creates options from functional options.
func NewRenderOptions(opts ...Option) RenderOptions {
	o := DefaultRenderOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Apply applies functional options to existing options.
func (o *RenderOptions) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// ExportOptions selects the encoding of an exported image.
type ExportOptions struct {
	// Format specifies the output format: "png", "jpeg", "bmp", "tiff"
	Format string

	// Quality for JPEG (1-100)
	Quality int

	// Compression for PNG (0-9, where 0 is no compression)
	Compression int
}

// DefaultExportOptions returns default export options.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:      "png",
		Quality:     90,
		Compression: 6,
	}
}

// PNG returns export options for PNG format.
func PNG() ExportOptions {
	return ExportOptions{
		Format:      "png",
		Compression: 6,
	}
}

// JPEG returns export options for JPEG format with quality.
func JPEG(quality int) ExportOptions {
	return ExportOptions{
		Format:  "jpeg",
		Quality: min(max(quality, 1), 100),
	}
}

// ExportOptionsFor picks the format from a file name's extension.
func ExportOptionsFor(path string) (ExportOptions, error) {
	opts := DefaultExportOptions()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		opts.Format = "png"
	case ".jpg", ".jpeg":
		opts.Format = "jpeg"
	case ".bmp":
		opts.Format = "bmp"
	case ".tif", ".tiff":
		opts.Format = "tiff"
	default:
		return opts, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return opts, nil
}
