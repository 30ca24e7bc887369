// Package font measures and draws annotation labels with the bundled Go
// Regular typeface. Sizes are given in points; the configured DPI turns them
// into scene pixels.
package font

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultDPI matches the 96 dpi logical resolution desktop toolkits use for
// point sizes.
const DefaultDPI = 96

// Measurer reports the size of a label's ink box, excluding any margin.
type Measurer interface {
	Measure(text string, size float64) (width, height float64)
}

// Faces caches opentype faces per size.
type Faces struct {
	mu    sync.Mutex
	dpi   float64
	font  *opentype.Font
	cache map[float64]font.Face
}

var (
	defaultOnce  sync.Once
	defaultFaces *Faces
)

// Default returns the shared Go Regular face cache at DefaultDPI.
func Default() *Faces {
	defaultOnce.Do(func() {
		f, err := NewFaces(goregular.TTF, DefaultDPI)
		if err != nil {
			// The embedded font is known good.
			panic(err)
		}
		defaultFaces = f
	})
	return defaultFaces
}

// NewFaces parses an OpenType/TrueType font for use at the given DPI.
func NewFaces(data []byte, dpi float64) (*Faces, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Faces{
		dpi:   dpi,
		font:  f,
		cache: make(map[float64]font.Face),
	}, nil
}

// DPI returns the resolution faces are built for.
func (f *Faces) DPI() float64 {
	return f.dpi
}

// Face returns the face for a point size. Sizes below 1pt are raised to 1pt.
func (f *Faces) Face(size float64) font.Face {
	size = math.Max(1, size)

	f.mu.Lock()
	defer f.mu.Unlock()

	if face, ok := f.cache[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     f.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// NewFace only fails on invalid options.
		panic(err)
	}
	f.cache[size] = face
	return face
}

// Measure returns the width of the widest line and the total line height.
func (f *Faces) Measure(text string, size float64) (width, height float64) {
	face := f.Face(size)
	lineHeight := fixedToFloat(face.Metrics().Height)
	for _, line := range Lines(text) {
		width = math.Max(width, fixedToFloat(font.MeasureString(face, line)))
	}
	return width, lineHeight * float64(len(Lines(text)))
}

// Draw renders text with its ink box's top-left corner at (x, y).
func (f *Faces) Draw(dst draw.Image, text string, x, y, size float64, col color.Color) {
	face := f.Face(size)
	m := face.Metrics()
	lineHeight := fixedToFloat(m.Height)
	ascent := fixedToFloat(m.Ascent)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	for i, line := range Lines(text) {
		d.Dot = fixed.Point26_6{
			X: floatToFixed(x),
			Y: floatToFixed(y + ascent + float64(i)*lineHeight),
		}
		d.DrawString(line)
	}
}

// Lines splits text into display lines. Empty text is one empty line.
func Lines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
