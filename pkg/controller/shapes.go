package controller

import (
	"math"

	"sheetmark/pkg/annotation"
)

// ShapePoints derives the control points of kind from two opposite drag
// corners:
//   - box kinds: top-left and bottom-right
//   - TRIANGLE: apex at top center, then bottom right and bottom left
//   - POLYGON: a diamond through the top, right, bottom and left midpoints
//   - STAR: ten points from -90 degrees in 36 degree steps, alternating
//     the full radius min(w,h)/2 and 0.4 of it
//   - DATUM_L: the first corner only
func ShapePoints(kind annotation.ShapeKind, a, b annotation.Point) []annotation.Point {
	if kind == annotation.ShapeDatumL {
		return []annotation.Point{a}
	}

	left, right := min(a.X, b.X), max(a.X, b.X)
	top, bottom := min(a.Y, b.Y), max(a.Y, b.Y)
	cx, cy := (left+right)/2, (top+bottom)/2

	switch kind {
	case annotation.ShapeTriangle:
		return []annotation.Point{{X: cx, Y: top}, {X: right, Y: bottom}, {X: left, Y: bottom}}
	case annotation.ShapePolygon:
		return []annotation.Point{{X: cx, Y: top}, {X: right, Y: cy}, {X: cx, Y: bottom}, {X: left, Y: cy}}
	case annotation.ShapeStar:
		return starPoints(cx, cy, min(right-left, bottom-top)/2)
	}
	return []annotation.Point{{X: left, Y: top}, {X: right, Y: bottom}}
}

func starPoints(cx, cy, r float64) []annotation.Point {
	pts := make([]annotation.Point, 0, 10)
	for i := 0; i < 10; i++ {
		angle := (-90 + float64(i)*36) * math.Pi / 180
		radius := r
		if i%2 == 1 {
			radius = r * 0.4
		}
		pts = append(pts, annotation.Point{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)})
	}
	return pts
}
