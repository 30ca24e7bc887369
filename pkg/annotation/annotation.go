// Package annotation holds the sheet annotation model: text labels, arrows
// and shapes positioned in normalized coordinates relative to the background
// image, collected in a Set that is the unit of saving and rendering.
//
// The model never sees pixels. A Point of (0,0) is the image's top-left
// corner and (1,1) its bottom-right; values outside the unit square are
// legal once the user drags an item into the editing margin.
package annotation

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies one of the three annotation variants.
type Kind string

const (
	KindText  Kind = "TEXT"
	KindArrow Kind = "ARROW"
	KindShape Kind = "SHAPE"
)

// ShapeKind is the fixed shape vocabulary.
type ShapeKind string

const (
	ShapeRect     ShapeKind = "RECT"
	ShapeTriangle ShapeKind = "TRIANGLE"
	ShapeCircle   ShapeKind = "CIRCLE"
	ShapeEllipse  ShapeKind = "ELLIPSE"
	ShapeStar     ShapeKind = "STAR"
	ShapePolygon  ShapeKind = "POLYGON"
	ShapeDatumL   ShapeKind = "DATUM_L"
)

// ShapeKinds lists every shape kind in tool bar order.
var ShapeKinds = []ShapeKind{
	ShapeRect, ShapeTriangle, ShapeCircle, ShapeEllipse, ShapeStar, ShapePolygon, ShapeDatumL,
}

// ParseShapeKind resolves a stored shape kind name.
func ParseShapeKind(s string) (ShapeKind, error) {
	for _, k := range ShapeKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShapeKind, s)
}

// IsBox reports whether the kind is defined by two opposite corners.
func (k ShapeKind) IsBox() bool {
	return k == ShapeRect || k == ShapeEllipse || k == ShapeCircle
}

// IsPolygon reports whether the kind is a vertex list.
func (k ShapeKind) IsPolygon() bool {
	return k == ShapeTriangle || k == ShapePolygon || k == ShapeStar
}

// MinPoints returns the number of control points a complete shape of this
// kind needs.
func (k ShapeKind) MinPoints() int {
	switch {
	case k == ShapeDatumL:
		return 1
	case k.IsBox():
		return 2
	default:
		return 3
	}
}

// Point is a position in normalized image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Base carries the fields every annotation shares.
type Base struct {
	ID      string
	Label   string
	Visible bool
	Z       int
}

func (b *Base) common() *Base { return b }

// Annotation is implemented by *Text, *Arrow and *Shape only.
type Annotation interface {
	Kind() Kind
	common() *Base
}

// BaseOf returns the shared fields of a.
func BaseOf(a Annotation) *Base {
	return a.common()
}

// IDOf returns the id of a, or "" for nil.
func IDOf(a Annotation) string {
	if a == nil {
		return ""
	}
	return a.common().ID
}

// NewID returns a fresh annotation id.
func NewID() string {
	return uuid.NewString()
}

// Text is a label centered on Position.
type Text struct {
	Base
	Position Point
	Text     string
	Color    string
	FontSize float64

	// ParentID links the label to an arrow or shape it moves and is
	// deleted with. Empty means ungrouped.
	ParentID string
}

// NewText returns a visible text with a fresh id.
func NewText(pos Point, text, color string, size float64) *Text {
	return &Text{
		Base:     Base{ID: NewID(), Label: "TEXT", Visible: true},
		Position: pos,
		Text:     text,
		Color:    color,
		FontSize: size,
	}
}

// Kind implements Annotation.
func (*Text) Kind() Kind { return KindText }

// Arrow is a straight arrow whose head is drawn at Start, the point of the
// first click. End is the release point, where a linked label sits.
type Arrow struct {
	Base
	Start     Point
	End       Point
	Text      string
	Color     string
	LineWidth float64

	// HeadSize is the head length as a fraction of the image diagonal.
	HeadSize float64
	TextSize float64
}

// NewArrow returns a visible arrow with a fresh id and the stock head size.
func NewArrow(start, end Point, color string, width float64) *Arrow {
	return &Arrow{
		Base:      Base{ID: NewID(), Label: "ARROW", Visible: true},
		Start:     start,
		End:       end,
		Color:     color,
		LineWidth: width,
		HeadSize:  DefaultHeadSize,
		TextSize:  DefaultTextSize,
	}
}

// Kind implements Annotation.
func (*Arrow) Kind() Kind { return KindArrow }

// Translate moves both ends by d.
func (a *Arrow) Translate(d Point) {
	a.Start = a.Start.Add(d)
	a.End = a.End.Add(d)
}

// Shape is one of the ShapeKinds described by control points: two opposite
// corners for box kinds, vertices for polygon kinds, or a single anchor for
// DATUM_L.
type Shape struct {
	Base
	ShapeKind   ShapeKind
	Points      []Point
	StrokeColor string

	// FillColor is empty for an unfilled shape.
	FillColor   string
	StrokeWidth float64
}

// NewShape returns a visible shape with a fresh id. pts is copied.
func NewShape(kind ShapeKind, pts []Point, stroke, fill string, width float64) *Shape {
	return &Shape{
		Base:        Base{ID: NewID(), Label: "SHAPE_" + string(kind), Visible: true},
		ShapeKind:   kind,
		Points:      append([]Point(nil), pts...),
		StrokeColor: stroke,
		FillColor:   fill,
		StrokeWidth: width,
	}
}

// Kind implements Annotation.
func (*Shape) Kind() Kind { return KindShape }

// Complete reports whether the shape has enough points to be drawn and
// saved.
func (s *Shape) Complete() bool {
	if s.ShapeKind == ShapeDatumL {
		return len(s.Points) == 1
	}
	return len(s.Points) >= s.ShapeKind.MinPoints()
}

// Translate moves every control point by d.
func (s *Shape) Translate(d Point) {
	for i := range s.Points {
		s.Points[i] = s.Points[i].Add(d)
	}
}

// Center returns the mean of the control points.
func (s *Shape) Center() Point {
	if len(s.Points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range s.Points {
		c = c.Add(p)
	}
	n := float64(len(s.Points))
	return Point{c.X / n, c.Y / n}
}
