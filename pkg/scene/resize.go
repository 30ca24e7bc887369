package scene

import (
	"math"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
)

type corner int

const (
	cornerTL corner = iota
	cornerTR
	cornerBL
	cornerBR
)

func (c corner) left() bool { return c == cornerTL || c == cornerBL }
func (c corner) top() bool  { return c == cornerTL || c == cornerTR }

func corners(r graphics.Rect) [4]graphics.Point {
	return [4]graphics.Point{
		cornerTL: r.TopLeft(),
		cornerTR: graphics.Pt(r.Right(), r.Top()),
		cornerBL: graphics.Pt(r.Left(), r.Bottom()),
		cornerBR: r.BottomRight(),
	}
}

// handleAt finds a resize handle of a selected shape under p, topmost item
// first.
func (s *Scene) handleAt(p graphics.Point) (*ShapeItem, corner, bool) {
	m2 := s.opts.HandleMargin * s.opts.HandleMargin
	for i := len(s.order) - 1; i >= 0; i-- {
		it, ok := s.order[i].(*ShapeItem)
		if !ok || !it.Selected() || !it.Resizable() {
			continue
		}
		for c, pt := range corners(it.localBounds().Translate(it.pos)) {
			if pt.Dist2(p) <= m2 {
				return it, corner(c), true
			}
		}
	}
	return nil, 0, false
}

// resizeBox moves corner c of r by dp, keeping the opposite corner fixed,
// and enforces min on both axes.
func resizeBox(r graphics.Rect, c corner, dp graphics.Point, min float64) graphics.Rect {
	l, t, rt, b := r.Left(), r.Top(), r.Right(), r.Bottom()
	if c.left() {
		l += dp.X
	} else {
		rt += dp.X
	}
	if c.top() {
		t += dp.Y
	} else {
		b += dp.Y
	}

	if rt-l < min {
		if c.left() {
			l = rt - min
		} else {
			rt = l + min
		}
	}
	if b-t < min {
		if c.top() {
			t = b - min
		} else {
			b = t + min
		}
	}
	return graphics.NewRect(l, t, rt, b)
}

// scalePoly maps pts from the box from to the box to, scaling about the
// centers.
func scalePoly(pts []graphics.Point, from, to graphics.Rect) []graphics.Point {
	sx, sy := 1.0, 1.0
	if from.Width > 1e-9 {
		sx = to.Width / from.Width
	}
	if from.Height > 1e-9 {
		sy = to.Height / from.Height
	}
	oc, nc := from.Center(), to.Center()
	out := make([]graphics.Point, len(pts))
	for i, p := range pts {
		out[i] = graphics.Pt(nc.X+(p.X-oc.X)*sx, nc.Y+(p.Y-oc.Y)*sy)
	}
	return out
}

func (s *Scene) resizeTo(p graphics.Point) {
	it := s.drag.item
	r := resizeBox(s.drag.pressRect, s.drag.corner, p.Sub(s.drag.press), s.opts.MinResizeSize)
	back := graphics.Pt(-it.pos.X, -it.pos.Y)

	if it.ShapeKind.IsBox() {
		it.rect = r.Translate(back)
	} else {
		pts := scalePoly(s.drag.pressPoly, s.drag.pressRect, r)
		for i := range pts {
			pts[i] = pts[i].Add(back)
		}
		it.poly = pts
	}
	s.writeShapePoints(it)
}

// writeShapePoints stores the item's current control geometry in its model
// shape.
func (s *Scene) writeShapePoints(it *ShapeItem) {
	sh := s.set.Shape(it.ID())
	if sh == nil {
		return
	}
	pts := it.Points()
	if len(pts) == 0 {
		return
	}
	out := make([]annotation.Point, len(pts))
	for i, p := range pts {
		out[i] = s.ToNormalized(p)
	}
	sh.Points = out
}

func nearlyZero(d annotation.Point, eps float64) bool {
	return math.Abs(d.X) < eps && math.Abs(d.Y) < eps
}
