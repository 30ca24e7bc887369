// Package raster provides the RGBA drawing surface annotations are painted
// onto, both on screen and for offscreen export.
package raster

import (
	"image"
	"image/color"
	"math"

	"sheetmark/pkg/font"
	"sheetmark/pkg/graphics"
	pathpkg "sheetmark/pkg/path"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// StrokeStyle describes how a path outline is drawn.
type StrokeStyle struct {
	Color color.Color
	Width float64
	Cap   graphics.LineCap
	Join  graphics.LineJoin

	// Dash alternates on and off lengths; nil draws a solid line.
	Dash []float64
}

// Canvas represents a drawing surface for rasterization.
type Canvas struct {
	img    *image.RGBA
	width  int
	height int

	faces *font.Faces

	// Default background
	background color.Color
}

// NewCanvas creates a new canvas with the given dimensions, cleared to white.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		width:      width,
		height:     height,
		faces:      font.Default(),
		background: color.White,
	}
	c.Clear()
	return c
}

// NewCanvasFor wraps an existing RGBA image without clearing it.
func NewCanvasFor(img *image.RGBA) *Canvas {
	b := img.Bounds()
	return &Canvas{
		img:        img,
		width:      b.Dx(),
		height:     b.Dy(),
		faces:      font.Default(),
		background: color.White,
	}
}

// Image returns the underlying RGBA image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Bounds returns the pixel bounds of the canvas.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// SetFaces replaces the font cache used by DrawText.
func (c *Canvas) SetFaces(f *font.Faces) {
	c.faces = f
}

// Clear fills the canvas with the background color. A nil background
// clears to transparent.
func (c *Canvas) Clear() {
	var src image.Image = image.Transparent
	if c.background != nil {
		src = image.NewUniform(c.background)
	}
	xdraw.Draw(c.img, c.img.Bounds(), src, image.Point{}, xdraw.Src)
}

// SetBackground sets the background color.
func (c *Canvas) SetBackground(col color.Color) {
	c.background = col
}

// Fill fills a path with the given color under the non-zero rule.
func (c *Canvas) Fill(path *graphics.Path, col color.Color) {
	if path.IsEmpty() {
		return
	}

	r := vector.NewRasterizer(c.width, c.height)
	pathpkg.ToVector(path, graphics.Translate(-float64(c.img.Rect.Min.X), -float64(c.img.Rect.Min.Y)), r)
	r.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

// Stroke draws the outline of a path with the given style.
func (c *Canvas) Stroke(path *graphics.Path, style StrokeStyle) {
	if path.IsEmpty() || style.Width <= 0 || style.Color == nil {
		return
	}

	lines := pathpkg.Flatten(path, pathpkg.DefaultTolerance)
	if len(style.Dash) > 0 {
		lines = pathpkg.Dash(lines, style.Dash)
	}
	c.Fill(pathpkg.Outline(lines, style.Width, style.Cap, style.Join), style.Color)
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, col color.Color, width float64) {
	path := graphics.NewPath()
	path.MoveTo(x1, y1)
	path.LineTo(x2, y2)
	c.Stroke(path, StrokeStyle{Color: col, Width: width})
}

// DrawRect draws a rectangle. Nil colors skip the fill or the outline.
func (c *Canvas) DrawRect(x, y, w, h float64, fillColor, strokeColor color.Color, strokeWidth float64) {
	path := graphics.NewPath()
	path.Rect(x, y, w, h)

	if fillColor != nil {
		c.Fill(path, fillColor)
	}
	if strokeColor != nil && strokeWidth > 0 {
		c.Stroke(path, StrokeStyle{Color: strokeColor, Width: strokeWidth, Join: graphics.LineJoinMiter})
	}
}

// DrawText draws text with its ink box's top-left corner at p.
func (c *Canvas) DrawText(text string, p graphics.Point, size float64, col color.Color) {
	if text == "" {
		return
	}
	c.faces.Draw(c.img, text, p.X, p.Y, size, col)
}

// MeasureText returns the ink box size DrawText would cover.
func (c *Canvas) MeasureText(text string, size float64) (float64, float64) {
	return c.faces.Measure(text, size)
}

// SetPixel sets a single pixel.
func (c *Canvas) SetPixel(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.Set(x, y, col)
	}
}

// GetPixel gets a pixel color.
func (c *Canvas) GetPixel(x, y int) color.Color {
	if image.Pt(x, y).In(c.img.Rect) {
		return c.img.At(x, y)
	}
	return color.Transparent
}

// DrawImage draws img scaled into dst, which is given in canvas pixels.
func (c *Canvas) DrawImage(img image.Image, dst graphics.Rect) {
	if img == nil || dst.IsEmpty() {
		return
	}
	r := image.Rect(
		int(math.Round(dst.Left())),
		int(math.Round(dst.Top())),
		int(math.Round(dst.Right())),
		int(math.Round(dst.Bottom())),
	)
	if r.Dx() == img.Bounds().Dx() && r.Dy() == img.Bounds().Dy() {
		xdraw.Draw(c.img, r, img, img.Bounds().Min, xdraw.Over)
		return
	}
	xdraw.BiLinear.Scale(c.img, r, img, img.Bounds(), xdraw.Over, nil)
}
