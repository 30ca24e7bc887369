package scene

import (
	"math"

	"sheetmark/pkg/graphics"
)

// syncSelected writes the geometry of moved items back to the model. Texts
// go first, then shapes, then arrows, so a label grouped to a shape ends at
// the shape's offset rather than at a stale arrow end.
func (s *Scene) syncSelected() {
	sel := s.selectedItems()
	for _, it := range sel {
		if t, ok := it.(*TextItem); ok {
			s.syncText(t)
		}
	}
	for _, it := range sel {
		if sh, ok := it.(*ShapeItem); ok && movable(sh) {
			s.syncShape(sh)
		}
	}
	var moved bool
	for _, it := range sel {
		if a, ok := it.(*ArrowItem); ok {
			s.syncArrow(a)
			moved = true
		}
	}
	if moved {
		s.snapArrows("")
	}
}

func (s *Scene) syncText(it *TextItem) {
	t := s.set.Text(it.ID())
	if t == nil {
		return
	}
	before := s.ToScene(t.Position)
	center := it.Center()
	t.Position = s.ToNormalized(center)
	if t.ParentID == "" {
		return
	}

	if a := s.set.Arrow(t.ParentID); a != nil {
		// a selected arrow moves in its own pass and is snapped after it
		if s.isSelected(a.ID) {
			return
		}
		end := edgePointToward(it.Bounds(), s.ToScene(a.Start), s.opts.SnapPad)
		a.End = s.ToNormalized(end)
		return
	}
	if sh := s.set.Shape(t.ParentID); sh != nil {
		d := s.normDelta(center.Sub(before))
		if !nearlyZero(d, 1e-6) {
			sh.Translate(d)
		}
	}
}

func (s *Scene) syncShape(it *ShapeItem) {
	sh := s.set.Shape(it.ID())
	if sh == nil {
		return
	}
	s.writeShapePoints(it)
	if math.Abs(it.pos.X) < 1e-3 && math.Abs(it.pos.Y) < 1e-3 {
		return
	}
	d := s.normDelta(it.pos)
	for _, t := range s.set.ChildrenOf(sh.ID) {
		// a selected label was already written from its own item
		if s.isSelected(t.ID) {
			continue
		}
		t.Position = t.Position.Add(d)
	}
}

func (s *Scene) syncArrow(it *ArrowItem) {
	a := s.set.Arrow(it.ID())
	if a == nil {
		return
	}
	if math.Abs(it.pos.X)+math.Abs(it.pos.Y) < 1e-6 {
		return
	}
	a.Translate(s.normDelta(it.pos))
	it.pos = graphics.Point{}
	for _, t := range s.set.ChildrenOf(a.ID) {
		if s.isSelected(t.ID) {
			continue
		}
		t.Position = a.End
	}
}

func (s *Scene) isSelected(id string) bool {
	it := s.items[id]
	return it != nil && it.Selected()
}

// SnapArrowToLabels moves the end of the arrow arrowID onto the edge of its
// label's box, facing the arrowhead. An empty id snaps every arrow that has
// a label. It implements controller.Host.
func (s *Scene) SnapArrowToLabels(arrowID string) {
	if s.snapArrows(arrowID) {
		s.Redraw(true)
	}
}

func (s *Scene) snapArrows(arrowID string) bool {
	if !s.HasImage() {
		return false
	}
	var changed bool
	for _, t := range s.set.AllTexts() {
		if t.ParentID == "" || (arrowID != "" && t.ParentID != arrowID) {
			continue
		}
		a := s.set.Arrow(t.ParentID)
		if a == nil {
			continue
		}
		end := edgePointToward(s.labelBox(t), s.ToScene(a.Start), s.opts.SnapPad)
		a.End = s.ToNormalized(end)
		changed = true
	}
	return changed
}

// edgePointToward returns where the ray from r's center toward p leaves r,
// pushed pad pixels further out. It returns the center when p is the
// center.
func edgePointToward(r graphics.Rect, p graphics.Point, pad float64) graphics.Point {
	c := r.Center()
	dx, dy := p.X-c.X, p.Y-c.Y
	if math.Abs(dx) < 1e-9 && math.Abs(dy) < 1e-9 {
		return c
	}

	sx, sy := math.Inf(1), math.Inf(1)
	if math.Abs(dx) > 1e-9 {
		sx = r.Width / 2 / math.Abs(dx)
	}
	if math.Abs(dy) > 1e-9 {
		sy = r.Height / 2 / math.Abs(dy)
	}
	k := math.Min(sx, sy)

	l := math.Hypot(dx, dy)
	return graphics.Pt(c.X+dx*k+dx/l*pad, c.Y+dy*k+dy/l*pad)
}
