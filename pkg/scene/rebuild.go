package scene

import (
	"math"
	"sort"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
)

// Redraw discards every item and rebuilds one per visible annotation. With
// preserve set, items whose annotation was selected before are selected
// again afterwards.
//
// Redraw refuses to run while a label is being edited and reports false.
func (s *Scene) Redraw(preserve bool) bool {
	if s.editing != "" {
		annotation.Logger().Debug("scene: redraw refused during text edit", "id", s.editing)
		return false
	}

	var selected []string
	if preserve {
		selected = s.SelectedIDs()
	}
	s.rebuild()
	for _, id := range selected {
		if it, ok := s.items[id]; ok {
			it.base().selected = true
		}
	}
	s.changed()
	return true
}

func (s *Scene) rebuild() {
	s.items = make(map[string]Item)
	s.order = s.order[:0]
	s.drag = dragState{}
	if !s.HasImage() || s.set == nil {
		return
	}

	for _, t := range s.set.AllTexts() {
		if t.Visible {
			s.add(s.buildText(t))
		}
	}
	for _, a := range s.set.Arrows() {
		if a.Visible {
			s.add(s.buildArrow(a))
		}
	}
	for _, sh := range s.set.Shapes() {
		if sh.Visible && sh.Complete() {
			s.add(s.buildShape(sh))
		}
	}

	sort.SliceStable(s.order, func(i, j int) bool {
		return s.order[i].Z() < s.order[j].Z()
	})
}

func (s *Scene) add(it Item) {
	s.items[it.ID()] = it
	s.order = append(s.order, it)
}

// textBox returns the label box of text drawn at size, centered on c.
func (s *Scene) textBox(text string, size float64, c graphics.Point) graphics.Rect {
	w, h := s.opts.Faces.Measure(text, size)
	w += 2 * s.opts.TextMargin
	h += 2 * s.opts.TextMargin
	return graphics.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// labelBox returns the box a text annotation occupies in the model's
// current state.
func (s *Scene) labelBox(t *annotation.Text) graphics.Rect {
	return s.textBox(t.Text, t.FontSize, s.ToScene(t.Position))
}

func (s *Scene) buildText(t *annotation.Text) *TextItem {
	return &TextItem{
		itemBase: itemBase{id: t.ID, z: float64(t.Z) + s.opts.TextZ},
		Text:     t.Text,
		Color:    t.Color,
		Size:     t.FontSize,
		box:      s.labelBox(t),
	}
}

func (s *Scene) buildArrow(a *annotation.Arrow) *ArrowItem {
	diag := math.Hypot(s.imageRect.Width, s.imageRect.Height)
	headLen := a.HeadSize * diag
	return &ArrowItem{
		itemBase:   itemBase{id: a.ID, z: float64(a.Z) + s.opts.ArrowZ},
		Start:      s.ToScene(a.Start),
		End:        s.ToScene(a.End),
		Color:      a.Color,
		Width:      math.Max(2, a.LineWidth),
		HeadLength: headLen,
		HeadWidth:  headLen * 0.6,
	}
}

func (s *Scene) buildShape(sh *annotation.Shape) *ShapeItem {
	it := &ShapeItem{
		itemBase:    itemBase{id: sh.ID, z: float64(sh.Z) + s.opts.ShapeZ},
		ShapeKind:   sh.ShapeKind,
		StrokeColor: sh.StrokeColor,
		FillColor:   sh.FillColor,
		StrokeWidth: sh.StrokeWidth,
	}

	switch {
	case sh.ShapeKind == annotation.ShapeDatumL:
		it.z = float64(sh.Z) + s.opts.DatumZ
		it.datum = s.datumArms(sh.Points[0], sh.StrokeWidth)
	case sh.ShapeKind.IsBox():
		a, b := s.ToScene(sh.Points[0]), s.ToScene(sh.Points[1])
		r := graphics.NewRect(a.X, a.Y, b.X, b.Y)
		if sh.ShapeKind == annotation.ShapeCircle {
			d := math.Min(r.Width, r.Height)
			r.Width, r.Height = d, d
		}
		it.rect = r
	default:
		it.poly = make([]graphics.Point, len(sh.Points))
		for i, p := range sh.Points {
			it.poly[i] = s.ToScene(p)
		}
	}
	return it
}

// datumArms lays out a DATUM_L marker: two arrows starting just outside the
// image corner nearest the anchor and pointing inward along both edges.
func (s *Scene) datumArms(anchor annotation.Point, sw float64) []datumArm {
	r := s.imageRect
	type corner struct {
		norm   annotation.Point
		pt     graphics.Point
		sx, sy float64 // outward direction
	}
	corners := []corner{
		{annotation.Point{X: 0, Y: 0}, r.TopLeft(), -1, -1},
		{annotation.Point{X: 1, Y: 0}, graphics.Pt(r.Right(), r.Top()), 1, -1},
		{annotation.Point{X: 0, Y: 1}, graphics.Pt(r.Left(), r.Bottom()), -1, 1},
		{annotation.Point{X: 1, Y: 1}, r.BottomRight(), 1, 1},
	}
	best := corners[0]
	bestD := math.Inf(1)
	for _, c := range corners {
		d := anchor.Sub(c.norm)
		if d2 := d.X*d.X + d.Y*d.Y; d2 < bestD {
			best, bestD = c, d2
		}
	}

	offset := sw * 3
	arm := math.Max(math.Min(r.Width, r.Height)*0.10, sw*10)
	headLen := sw * 4
	headW := headLen * 0.6

	cx, cy := best.pt.X, best.pt.Y
	origin := graphics.Pt(cx+best.sx*offset, cy+best.sy*offset)
	hEnd := graphics.Pt(cx-best.sx*arm, cy+best.sy*offset)
	vEnd := graphics.Pt(cx+best.sx*offset, cy-best.sy*arm)

	return []datumArm{
		{From: origin, To: hEnd, HeadLength: headLen, HeadWidth: headW},
		{From: origin, To: vEnd, HeadLength: headLen, HeadWidth: headW},
	}
}

// Items returns the items bottom to top.
func (s *Scene) Items() []Item {
	return append([]Item(nil), s.order...)
}

// Item returns the item of an annotation id, or nil.
func (s *Scene) Item(id string) Item {
	it, ok := s.items[id]
	if !ok {
		return nil
	}
	return it
}

// ItemAt returns the topmost item under p, or nil.
func (s *Scene) ItemAt(p graphics.Point) Item {
	for i := len(s.order) - 1; i >= 0; i-- {
		if s.contains(s.order[i], p) {
			return s.order[i]
		}
	}
	return nil
}
