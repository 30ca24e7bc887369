// Package path provides path construction, flattening, dashing and stroke
// outlining for annotation geometry, and hands finished paths to the
// golang.org/x/image/vector rasterizer.
package path

import (
	"math"

	"sheetmark/pkg/graphics"

	"golang.org/x/image/vector"
)

// kappa is the control point distance for a cubic approximation of a
// quarter circle.
const kappa = 0.5522847498307936

// ToVector converts a graphics.Path to a golang.org/x/image/vector path.
// The matrix maps path coordinates into rasterizer pixels.
func ToVector(p *graphics.Path, m graphics.Matrix, rasterizer *vector.Rasterizer) {
	for _, seg := range p.Segments {
		switch seg.Op {
		case graphics.PathOpMoveTo:
			if len(seg.Points) >= 1 {
				x, y := m.Transform(seg.Points[0].X, seg.Points[0].Y)
				rasterizer.MoveTo(float32(x), float32(y))
			}
		case graphics.PathOpLineTo:
			if len(seg.Points) >= 1 {
				x, y := m.Transform(seg.Points[0].X, seg.Points[0].Y)
				rasterizer.LineTo(float32(x), float32(y))
			}
		case graphics.PathOpCurveTo:
			if len(seg.Points) >= 3 {
				x1, y1 := m.Transform(seg.Points[0].X, seg.Points[0].Y)
				x2, y2 := m.Transform(seg.Points[1].X, seg.Points[1].Y)
				x3, y3 := m.Transform(seg.Points[2].X, seg.Points[2].Y)
				rasterizer.CubeTo(
					float32(x1), float32(y1),
					float32(x2), float32(y2),
					float32(x3), float32(y3),
				)
			}
		case graphics.PathOpClose:
			rasterizer.ClosePath()
		}
	}
}

// Builder provides a fluent interface for building paths.
type Builder struct {
	path *graphics.Path
}

// NewBuilder creates a new path builder.
func NewBuilder() *Builder {
	return &Builder{
		path: graphics.NewPath(),
	}
}

// MoveTo starts a new subpath.
func (b *Builder) MoveTo(x, y float64) *Builder {
	b.path.MoveTo(x, y)
	return b
}

// LineTo draws a line to the given point.
func (b *Builder) LineTo(x, y float64) *Builder {
	b.path.LineTo(x, y)
	return b
}

// CurveTo draws a cubic Bezier curve.
func (b *Builder) CurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) *Builder {
	b.path.CurveTo(cp1x, cp1y, cp2x, cp2y, x, y)
	return b
}

// Close closes the current subpath.
func (b *Builder) Close() *Builder {
	b.path.Close()
	return b
}

// Line adds an open two-point subpath.
func (b *Builder) Line(from, to graphics.Point) *Builder {
	b.path.MoveTo(from.X, from.Y)
	b.path.LineTo(to.X, to.Y)
	return b
}

// Rect adds a rectangle to the path.
func (b *Builder) Rect(x, y, w, h float64) *Builder {
	b.path.Rect(x, y, w, h)
	return b
}

// Polygon adds a closed polygon to the path.
func (b *Builder) Polygon(pts []graphics.Point) *Builder {
	b.path.Polygon(pts)
	return b
}

// Circle adds a circle to the path.
func (b *Builder) Circle(cx, cy, r float64) *Builder {
	return b.Ellipse(cx, cy, r, r)
}

// Ellipse adds an ellipse to the path.
func (b *Builder) Ellipse(cx, cy, rx, ry float64) *Builder {
	k := kappa

	b.MoveTo(cx+rx, cy)
	b.CurveTo(cx+rx, cy+ry*k, cx+rx*k, cy+ry, cx, cy+ry)
	b.CurveTo(cx-rx*k, cy+ry, cx-rx, cy+ry*k, cx-rx, cy)
	b.CurveTo(cx-rx, cy-ry*k, cx-rx*k, cy-ry, cx, cy-ry)
	b.CurveTo(cx+rx*k, cy-ry, cx+rx, cy-ry*k, cx+rx, cy)
	b.Close()

	return b
}

// EllipseInRect adds the ellipse inscribed in r.
func (b *Builder) EllipseInRect(r graphics.Rect) *Builder {
	c := r.Center()
	return b.Ellipse(c.X, c.Y, r.Width/2, r.Height/2)
}

// ArrowHead adds a closed triangle with its point at tip, pointing away
// from tail. The triangle is length deep along the shaft and width wide at
// its base.
func (b *Builder) ArrowHead(tip, tail graphics.Point, length, width float64) *Builder {
	return b.Polygon(ArrowHeadPoints(tip, tail, length, width))
}

// ArrowHeadPoints returns the tip and both base corners of an arrowhead.
func ArrowHeadPoints(tip, tail graphics.Point, length, width float64) []graphics.Point {
	dx := tip.X - tail.X
	dy := tip.Y - tail.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		l = 1
	}
	ux, uy := dx/l, dy/l

	bx := tip.X - ux*length
	by := tip.Y - uy*length
	nx, ny := -uy, ux

	return []graphics.Point{
		tip,
		{X: bx + nx*width/2, Y: by + ny*width/2},
		{X: bx - nx*width/2, Y: by - ny*width/2},
	}
}

// Build returns the constructed path.
func (b *Builder) Build() *graphics.Path {
	return b.path
}

// Clear resets the builder for reuse.
func (b *Builder) Clear() *Builder {
	b.path.Clear()
	return b
}
