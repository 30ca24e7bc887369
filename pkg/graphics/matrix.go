// Package graphics holds the scene-space geometry shared by the annotation
// scene, the rasterizer and the editor: affine matrices, points, rectangles,
// paths and colors. Scene space is measured in background-image pixels with
// the origin at the image's top-left corner and Y growing downward.
package graphics

import (
	"math"
)

// Matrix represents a 3x3 affine transformation matrix.
// Only the first two columns are stored since the third is always [0 0 1].
// The matrix is stored as:
//
//	[A B 0]
//	[C D 0]
//	[E F 1]
//
// Where (A,B,C,D) handle scaling/rotation and (E,F) handle translation.
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// RectToRect returns the matrix mapping src onto dst, corner to corner.
// A degenerate src yields the identity.
func RectToRect(src, dst Rect) Matrix {
	if src.Width == 0 || src.Height == 0 {
		return Identity()
	}
	sx := dst.Width / src.Width
	sy := dst.Height / src.Height
	return Translate(-src.X, -src.Y).Multiply(Scale(sx, sy)).Multiply(Translate(dst.X, dst.Y))
}

// Multiply multiplies two matrices: result = m * other.
// Applying the result is the same as applying m first, then other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformPoint applies the matrix to a Point.
func (m Matrix) TransformPoint(p Point) Point {
	x, y := m.Transform(p.X, p.Y)
	return Point{x, y}
}

// TransformVector applies the matrix to a vector (without translation).
func (m Matrix) TransformVector(dx, dy float64) (float64, float64) {
	return m[0]*dx + m[2]*dy, m[1]*dx + m[3]*dy
}

// Determinant returns the determinant of the matrix.
func (m Matrix) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inverse returns the inverse of the matrix.
// A singular matrix has no inverse; the identity is returned instead.
func (m Matrix) Inverse() Matrix {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
}

// ScaleX returns the horizontal scaling factor.
func (m Matrix) ScaleX() float64 {
	return math.Sqrt(m[0]*m[0] + m[1]*m[1])
}

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Scale scales the point by a factor.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Length returns the distance from origin.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Manhattan returns |X| + |Y|.
func (p Point) Manhattan() float64 {
	return math.Abs(p.X) + math.Abs(p.Y)
}

// Normalize returns a unit vector in the same direction.
func (p Point) Normalize() Point {
	l := p.Length()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Dist2 returns the squared distance between two points.
func (p Point) Dist2(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Rect represents a rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect creates a rectangle from two corner points.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{
		X:      x1,
		Y:      y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}

// RectFromPoints returns the bounding box of pts.
func RectFromPoints(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return NewRect(minX, minY, maxX, maxY)
}

// Left returns the minimum X.
func (r Rect) Left() float64 { return r.X }

// Top returns the minimum Y.
func (r Rect) Top() float64 { return r.Y }

// Right returns the maximum X.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the maximum Y.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// TopLeft returns the top-left corner.
func (r Rect) TopLeft() Point { return Point{r.X, r.Y} }

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point { return Point{r.Right(), r.Bottom()} }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.Width/2, r.Y + r.Height/2}
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.Width, r.Height}
}

// Inset grows the rectangle by dx on the left and right and by dy on the
// top and bottom. Negative values shrink it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{r.X - dx, r.Y - dy, r.Width + 2*dx, r.Height + 2*dy}
}

// Clamp returns p moved inside the rectangle.
func (r Rect) Clamp(p Point) Point {
	return Point{
		math.Min(math.Max(p.X, r.Left()), r.Right()),
		math.Min(math.Max(p.Y, r.Top()), r.Bottom()),
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Transform applies a matrix transformation to the rectangle.
func (r Rect) Transform(m Matrix) Rect {
	// Transform all four corners and find bounding box
	corners := []Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}

	transformed := make([]Point, 4)
	for i, c := range corners {
		transformed[i] = m.TransformPoint(c)
	}
	return RectFromPoints(transformed)
}
