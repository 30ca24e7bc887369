package path

import (
	"math"

	"sheetmark/pkg/graphics"
)

// DefaultTolerance is the flattening tolerance in path units.
const DefaultTolerance = 0.25

// Polyline is a flattened subpath.
type Polyline struct {
	Points []graphics.Point
	Closed bool
}

// Flatten converts p into polylines, replacing every cubic segment with
// line segments no further than roughly tolerance from the curve.
func Flatten(p *graphics.Path, tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var out []Polyline
	var cur *Polyline
	var current graphics.Point

	flush := func() {
		if cur != nil && len(cur.Points) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, seg := range p.Segments {
		switch seg.Op {
		case graphics.PathOpMoveTo:
			if len(seg.Points) == 0 {
				continue
			}
			flush()
			current = seg.Points[0]
			cur = &Polyline{Points: []graphics.Point{current}}
		case graphics.PathOpLineTo:
			if len(seg.Points) == 0 {
				continue
			}
			if cur == nil {
				cur = &Polyline{Points: []graphics.Point{current}}
			}
			current = seg.Points[0]
			cur.Points = append(cur.Points, current)
		case graphics.PathOpCurveTo:
			if len(seg.Points) < 3 {
				continue
			}
			if cur == nil {
				cur = &Polyline{Points: []graphics.Point{current}}
			}
			c1, c2, end := seg.Points[0], seg.Points[1], seg.Points[2]
			cur.Points = append(cur.Points, flattenCubic(current, c1, c2, end, tolerance)...)
			current = end
		case graphics.PathOpClose:
			if cur != nil {
				cur.Closed = true
				current = cur.Points[0]
			}
			flush()
		}
	}
	flush()
	return out
}

// flattenCubic returns the points after p0 along the cubic p0..p3.
func flattenCubic(p0, p1, p2, p3 graphics.Point, tolerance float64) []graphics.Point {
	ctrl := math.Sqrt(p0.Dist2(p1)) + math.Sqrt(p1.Dist2(p2)) + math.Sqrt(p2.Dist2(p3))
	n := int(math.Ceil(math.Sqrt(ctrl / tolerance)))
	if n < 2 {
		n = 2
	}
	if n > 128 {
		n = 128
	}

	pts := make([]graphics.Point, 0, n)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a := mt * mt * mt
		b := 3 * mt * mt * t
		c := 3 * mt * t * t
		d := t * t * t
		pts = append(pts, graphics.Point{
			X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
			Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		})
	}
	return pts
}

// segments returns the consecutive point pairs of a polyline, including the
// closing segment of a closed one.
func (pl Polyline) segments() [][2]graphics.Point {
	n := len(pl.Points)
	if n < 2 {
		return nil
	}
	segs := make([][2]graphics.Point, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, [2]graphics.Point{pl.Points[i], pl.Points[i+1]})
	}
	if pl.Closed && pl.Points[0] != pl.Points[n-1] {
		segs = append(segs, [2]graphics.Point{pl.Points[n-1], pl.Points[0]})
	}
	return segs
}

// Dash splits polylines into the "on" runs of pattern, which alternates on
// and off lengths. An empty or non-positive pattern returns lines unchanged.
func Dash(lines []Polyline, pattern []float64) []Polyline {
	total := 0.0
	for _, v := range pattern {
		if v < 0 {
			return lines
		}
		total += v
	}
	if len(pattern) == 0 || total <= 0 {
		return lines
	}

	var out []Polyline
	for _, pl := range lines {
		idx := 0
		left := pattern[0]
		on := true
		var run []graphics.Point

		for _, seg := range pl.segments() {
			a, b := seg[0], seg[1]
			segLen := math.Sqrt(a.Dist2(b))
			pos := 0.0
			for segLen-pos > 1e-9 {
				step := math.Min(left, segLen-pos)
				t0 := pos / segLen
				t1 := (pos + step) / segLen
				p0 := lerp(a, b, t0)
				p1 := lerp(a, b, t1)
				if on {
					if len(run) == 0 {
						run = append(run, p0)
					}
					run = append(run, p1)
				}
				pos += step
				left -= step
				if left <= 1e-9 {
					if on && len(run) > 1 {
						out = append(out, Polyline{Points: run})
					}
					run = nil
					on = !on
					idx = (idx + 1) % len(pattern)
					left = pattern[idx]
				}
			}
		}
		if on && len(run) > 1 {
			out = append(out, Polyline{Points: run})
		}
	}
	return out
}

func lerp(a, b graphics.Point, t float64) graphics.Point {
	return graphics.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Outline converts stroked polylines into a fillable path. Every piece is
// emitted with the same orientation so overlaps accumulate under the
// non-zero rule instead of cancelling.
func Outline(lines []Polyline, width float64, lineCap graphics.LineCap, join graphics.LineJoin) *graphics.Path {
	result := graphics.NewPath()
	h := width / 2
	if h <= 0 {
		return result
	}

	for _, pl := range lines {
		segs := pl.segments()
		if len(segs) == 0 {
			if len(pl.Points) == 1 && lineCap == graphics.LineCapRound {
				emit(result, circlePoints(pl.Points[0], h))
			}
			continue
		}

		for i, seg := range segs {
			a, b := seg[0], seg[1]
			d := b.Sub(a)
			l := d.Length()
			if l == 0 {
				continue
			}
			u := d.Scale(1 / l)
			if !pl.Closed && lineCap == graphics.LineCapSquare {
				if i == 0 {
					a = a.Sub(u.Scale(h))
				}
				if i == len(segs)-1 {
					b = b.Add(u.Scale(h))
				}
			}
			n := graphics.Point{X: -u.Y * h, Y: u.X * h}
			emit(result, []graphics.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
		}

		// Joins at interior vertices, and at the seam of a closed polyline.
		for i := 0; i < len(segs); i++ {
			if i == len(segs)-1 && !pl.Closed {
				break
			}
			next := segs[(i+1)%len(segs)]
			v := segs[i][1]
			if join == graphics.LineJoinRound {
				emit(result, circlePoints(v, h))
				continue
			}
			n1 := normal(segs[i][0], v, h)
			n2 := normal(v, next[1], h)
			emit(result, []graphics.Point{v, v.Add(n1), v.Add(n2)})
			emit(result, []graphics.Point{v, v.Sub(n1), v.Sub(n2)})
		}

		if !pl.Closed && lineCap == graphics.LineCapRound {
			emit(result, circlePoints(segs[0][0], h))
			emit(result, circlePoints(segs[len(segs)-1][1], h))
		}
	}
	return result
}

func normal(a, b graphics.Point, h float64) graphics.Point {
	u := b.Sub(a).Normalize()
	return graphics.Point{X: -u.Y * h, Y: u.X * h}
}

func circlePoints(c graphics.Point, r float64) []graphics.Point {
	const steps = 16
	pts := make([]graphics.Point, steps)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / steps
		pts[i] = graphics.Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return pts
}

// emit appends pts as a closed subpath with negative signed area.
func emit(p *graphics.Path, pts []graphics.Point) {
	if len(pts) < 3 {
		return
	}
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area == 0 {
		return
	}
	if area > 0 {
		rev := make([]graphics.Point, len(pts))
		for i := range pts {
			rev[i] = pts[len(pts)-1-i]
		}
		pts = rev
	}
	p.Polygon(pts)
}

// StrokeContains reports whether pt lies within width/2 of the outline of p.
func StrokeContains(p *graphics.Path, pt graphics.Point, width float64) bool {
	h := width / 2
	h2 := h * h
	for _, pl := range Flatten(p, DefaultTolerance) {
		if len(pl.Points) == 1 && pl.Points[0].Dist2(pt) <= h2 {
			return true
		}
		for _, seg := range pl.segments() {
			if distToSegment2(pt, seg[0], seg[1]) <= h2 {
				return true
			}
		}
	}
	return false
}

// FillContains reports whether pt is inside the flattened area of p under
// the non-zero rule.
func FillContains(p *graphics.Path, pt graphics.Point) bool {
	flat := graphics.NewPath()
	for _, pl := range Flatten(p, DefaultTolerance) {
		if len(pl.Points) > 2 {
			flat.Polygon(pl.Points)
		}
	}
	return flat.Contains(pt, graphics.FillRuleNonZero)
}

func distToSegment2(p, a, b graphics.Point) float64 {
	d := b.Sub(a)
	l2 := d.X*d.X + d.Y*d.Y
	if l2 == 0 {
		return p.Dist2(a)
	}
	t := ((p.X-a.X)*d.X + (p.Y-a.Y)*d.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist2(graphics.Point{X: a.X + t*d.X, Y: a.Y + t*d.Y})
}
