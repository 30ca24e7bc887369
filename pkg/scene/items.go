package scene

import (
	"math"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/graphics"
	pathpkg "sheetmark/pkg/path"
)

// Item is the interactive stand-in for one visible annotation. It is
// implemented by *TextItem, *ArrowItem and *ShapeItem only.
//
// Geometry is held as built from the model plus a drag offset; the model is
// only updated from it when a drag or resize ends.
type Item interface {
	ID() string
	Kind() annotation.Kind
	Z() float64
	// Bounds is the item's bounding box in scene coordinates, offset
	// included.
	Bounds() graphics.Rect
	Selected() bool
	// Offset is the displacement of an unfinished drag.
	Offset() graphics.Point

	base() *itemBase
}

type itemBase struct {
	id       string
	z        float64
	pos      graphics.Point
	selected bool
}

func (b *itemBase) ID() string             { return b.id }
func (b *itemBase) Z() float64             { return b.z }
func (b *itemBase) Selected() bool         { return b.selected }
func (b *itemBase) Offset() graphics.Point { return b.pos }
func (b *itemBase) base() *itemBase        { return b }

// TextItem is a label. Its box is the measured text plus a margin,
// centered on the annotation's position.
type TextItem struct {
	itemBase
	Text  string
	Color string
	Size  float64

	box     graphics.Rect
	editing bool
	buffer  string
}

// Kind implements Item.
func (*TextItem) Kind() annotation.Kind { return annotation.KindText }

// Bounds implements Item.
func (t *TextItem) Bounds() graphics.Rect { return t.box.Translate(t.pos) }

// Center returns the box center in scene coordinates.
func (t *TextItem) Center() graphics.Point { return t.Bounds().Center() }

// Editing reports whether the label is open for typing.
func (t *TextItem) Editing() bool { return t.editing }

// Shown returns the text as displayed, including uncommitted typing.
func (t *TextItem) Shown() string {
	if t.editing {
		return t.buffer
	}
	return t.Text
}

// ArrowItem is an arrow with its head at Start.
type ArrowItem struct {
	itemBase
	Start graphics.Point
	End   graphics.Point
	Color string

	// Width is the pen width, never below 2.
	Width      float64
	HeadLength float64
	HeadWidth  float64
}

// Kind implements Item.
func (*ArrowItem) Kind() annotation.Kind { return annotation.KindArrow }

// Bounds implements Item.
func (a *ArrowItem) Bounds() graphics.Rect {
	pts := append([]graphics.Point{a.End}, a.head()...)
	return graphics.RectFromPoints(pts).Inset(a.Width/2, a.Width/2).Translate(a.pos)
}

func (a *ArrowItem) head() []graphics.Point {
	return pathpkg.ArrowHeadPoints(a.Start, a.End, a.HeadLength, a.HeadWidth)
}

// ShapeItem draws one shape. Box kinds use a rect, polygon kinds a vertex
// list, and DATUM_L two inward arrows at the nearest image corner.
type ShapeItem struct {
	itemBase
	ShapeKind   annotation.ShapeKind
	StrokeColor string
	FillColor   string
	StrokeWidth float64

	rect  graphics.Rect
	poly  []graphics.Point
	datum []datumArm
}

// datumArm is one arrow of a DATUM_L marker, head at To.
type datumArm struct {
	From, To   graphics.Point
	HeadLength float64
	HeadWidth  float64
}

func (d datumArm) head() []graphics.Point {
	return pathpkg.ArrowHeadPoints(d.To, d.From, d.HeadLength, d.HeadWidth)
}

// Kind implements Item.
func (*ShapeItem) Kind() annotation.Kind { return annotation.KindShape }

// Bounds implements Item.
func (s *ShapeItem) Bounds() graphics.Rect {
	return s.localBounds().Translate(s.pos)
}

func (s *ShapeItem) localBounds() graphics.Rect {
	switch {
	case s.ShapeKind == annotation.ShapeDatumL:
		var pts []graphics.Point
		for _, arm := range s.datum {
			pts = append(pts, arm.From)
			pts = append(pts, arm.head()...)
		}
		return graphics.RectFromPoints(pts)
	case s.ShapeKind.IsBox():
		return s.rect
	default:
		return graphics.RectFromPoints(s.poly)
	}
}

// Resizable reports whether the item has corner handles.
func (s *ShapeItem) Resizable() bool {
	return s.ShapeKind != annotation.ShapeDatumL
}

// Points returns the item's control geometry in scene coordinates: the
// top-left and bottom-right corners for box kinds, the vertices for
// polygon kinds.
func (s *ShapeItem) Points() []graphics.Point {
	switch {
	case s.ShapeKind == annotation.ShapeDatumL:
		return nil
	case s.ShapeKind.IsBox():
		r := s.rect.Translate(s.pos)
		return []graphics.Point{r.TopLeft(), r.BottomRight()}
	default:
		out := make([]graphics.Point, len(s.poly))
		for i, p := range s.poly {
			out[i] = p.Add(s.pos)
		}
		return out
	}
}

func movable(it Item) bool {
	sh, ok := it.(*ShapeItem)
	return !ok || sh.ShapeKind != annotation.ShapeDatumL
}

// hitWidth is the dilated stroke width used to pick thin lines.
func (s *Scene) hitWidth(w float64) float64 {
	return math.Max(s.opts.HitFloor, s.opts.HitFactor*w)
}

// contains reports whether the scene point p picks it.
func (s *Scene) contains(it Item, p graphics.Point) bool {
	p = p.Sub(it.Offset())
	switch it := it.(type) {
	case *TextItem:
		return it.box.Contains(p)
	case *ArrowItem:
		shaft := pathpkg.NewBuilder().Line(it.End, it.Start).Build()
		if pathpkg.StrokeContains(shaft, p, s.hitWidth(it.Width)) {
			return true
		}
		return pathpkg.FillContains(pathpkg.NewBuilder().Polygon(it.head()).Build(), p)
	case *ShapeItem:
		switch {
		case it.ShapeKind == annotation.ShapeDatumL:
			for _, arm := range it.datum {
				line := pathpkg.NewBuilder().Line(arm.From, arm.To).Build()
				if pathpkg.StrokeContains(line, p, s.hitWidth(it.StrokeWidth)) {
					return true
				}
				if pathpkg.FillContains(pathpkg.NewBuilder().Polygon(arm.head()).Build(), p) {
					return true
				}
			}
			return false
		case it.ShapeKind == annotation.ShapeRect:
			return it.rect.Inset(it.StrokeWidth/2, it.StrokeWidth/2).Contains(p)
		default:
			m := math.Max(s.opts.HandleMargin, it.StrokeWidth/2)
			return it.localBounds().Inset(m, m).Contains(p)
		}
	}
	return false
}
