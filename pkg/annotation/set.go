package annotation

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownKind is returned when a record's kind does not match.
	ErrUnknownKind = errors.New("unknown annotation kind")
	// ErrUnknownShapeKind is returned for shape kinds outside ShapeKinds.
	ErrUnknownShapeKind = errors.New("unknown shape kind")
	// ErrDuplicateID is reported by Validate when two annotations share an id.
	ErrDuplicateID = errors.New("duplicate annotation id")
	// ErrDanglingParent is reported by Validate when a text's parent is not
	// an arrow or shape of the same set.
	ErrDanglingParent = errors.New("dangling parent id")
	// ErrIncompleteShape is reported by Validate for shapes with too few
	// control points.
	ErrIncompleteShape = errors.New("incomplete shape")
)

// Set is every annotation on one background image: an optional main point
// label plus ordered texts, arrows and shapes.
//
// A Set is not safe for concurrent use. The controller and the scene share
// one instance and mutate it from the UI goroutine only.
type Set struct {
	MainPoint *Text

	texts  []*Text
	arrows []*Arrow
	shapes []*Shape
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{}
}

// AddText appends t, assigning an id if it has none, and returns it.
func (s *Set) AddText(t *Text) *Text {
	ensureID(&t.Base)
	s.texts = append(s.texts, t)
	return t
}

// AddArrow appends a, assigning an id if it has none, and returns it.
func (s *Set) AddArrow(a *Arrow) *Arrow {
	ensureID(&a.Base)
	s.arrows = append(s.arrows, a)
	return a
}

// AddShape appends sh, assigning an id if it has none, and returns it.
func (s *Set) AddShape(sh *Shape) *Shape {
	ensureID(&sh.Base)
	s.shapes = append(s.shapes, sh)
	return sh
}

// SetMainPoint replaces the main point label. Nil clears it.
func (s *Set) SetMainPoint(t *Text) {
	if t != nil {
		ensureID(&t.Base)
	}
	s.MainPoint = t
}

func ensureID(b *Base) {
	if b.ID == "" {
		b.ID = NewID()
	}
}

// Texts returns the texts in insertion order, excluding the main point.
func (s *Set) Texts() []*Text { return slices.Clone(s.texts) }

// Arrows returns the arrows in insertion order.
func (s *Set) Arrows() []*Arrow { return slices.Clone(s.arrows) }

// Shapes returns the shapes in insertion order.
func (s *Set) Shapes() []*Shape { return slices.Clone(s.shapes) }

// AllTexts returns the main point, if any, followed by the texts.
func (s *Set) AllTexts() []*Text {
	out := make([]*Text, 0, len(s.texts)+1)
	if s.MainPoint != nil {
		out = append(out, s.MainPoint)
	}
	return append(out, s.texts...)
}

// All returns every annotation: texts (main point first), arrows, shapes.
func (s *Set) All() []Annotation {
	out := make([]Annotation, 0, s.Len())
	for _, t := range s.AllTexts() {
		out = append(out, t)
	}
	for _, a := range s.arrows {
		out = append(out, a)
	}
	for _, sh := range s.shapes {
		out = append(out, sh)
	}
	return out
}

// Len returns the number of annotations including the main point.
func (s *Set) Len() int {
	n := len(s.texts) + len(s.arrows) + len(s.shapes)
	if s.MainPoint != nil {
		n++
	}
	return n
}

// Find returns the annotation with the given id, or nil.
func (s *Set) Find(id string) Annotation {
	if id == "" {
		return nil
	}
	for _, a := range s.All() {
		if a.common().ID == id {
			return a
		}
	}
	return nil
}

// Text returns the text (or main point) with the given id.
func (s *Set) Text(id string) *Text {
	t, _ := s.Find(id).(*Text)
	return t
}

// Arrow returns the arrow with the given id.
func (s *Set) Arrow(id string) *Arrow {
	a, _ := s.Find(id).(*Arrow)
	return a
}

// Shape returns the shape with the given id.
func (s *Set) Shape(id string) *Shape {
	sh, _ := s.Find(id).(*Shape)
	return sh
}

// ChildrenOf returns the texts grouped to parentID.
func (s *Set) ChildrenOf(parentID string) []*Text {
	if parentID == "" {
		return nil
	}
	var out []*Text
	for _, t := range s.AllTexts() {
		if t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

// Remove deletes the annotation with the given id and, for arrows and
// shapes, every text grouped to it. Removing a text never touches its
// parent. It returns the removed annotations, the requested one first.
func (s *Set) Remove(id string) []Annotation {
	target := s.Find(id)
	if target == nil {
		return nil
	}
	removed := []Annotation{target}

	switch target.(type) {
	case *Text:
		s.dropText(id)
	case *Arrow:
		s.arrows = slices.DeleteFunc(s.arrows, func(a *Arrow) bool { return a.ID == id })
	case *Shape:
		s.shapes = slices.DeleteFunc(s.shapes, func(sh *Shape) bool { return sh.ID == id })
	}

	if _, isText := target.(*Text); !isText {
		for _, child := range s.ChildrenOf(id) {
			s.dropText(child.ID)
			removed = append(removed, child)
		}
	}
	return removed
}

func (s *Set) dropText(id string) {
	if s.MainPoint != nil && s.MainPoint.ID == id {
		s.MainPoint = nil
		return
	}
	s.texts = slices.DeleteFunc(s.texts, func(t *Text) bool { return t.ID == id })
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{}
	if s.MainPoint != nil {
		mp := *s.MainPoint
		c.MainPoint = &mp
	}
	for _, t := range s.texts {
		cp := *t
		c.texts = append(c.texts, &cp)
	}
	for _, a := range s.arrows {
		cp := *a
		c.arrows = append(c.arrows, &cp)
	}
	for _, sh := range s.shapes {
		cp := *sh
		cp.Points = slices.Clone(sh.Points)
		c.shapes = append(c.shapes, &cp)
	}
	return c
}

// Validate checks id uniqueness, parent links and shape completeness. All
// problems are reported together.
func (s *Set) Validate() error {
	var errs []error
	seen := make(map[string]Kind, s.Len())
	for _, a := range s.All() {
		b := a.common()
		if b.ID == "" {
			errs = append(errs, fmt.Errorf("%w: empty id on %s", ErrDuplicateID, a.Kind()))
			continue
		}
		if _, dup := seen[b.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateID, b.ID))
			continue
		}
		seen[b.ID] = a.Kind()
	}

	for _, t := range s.AllTexts() {
		if t.ParentID == "" {
			continue
		}
		if k, ok := seen[t.ParentID]; !ok || k == KindText {
			errs = append(errs, fmt.Errorf("%w: text %s -> %s", ErrDanglingParent, t.ID, t.ParentID))
		}
	}

	for _, sh := range s.shapes {
		if !sh.Complete() {
			errs = append(errs, fmt.Errorf("%w: %s %s has %d points", ErrIncompleteShape, sh.ShapeKind, sh.ID, len(sh.Points)))
		}
	}
	return errors.Join(errs...)
}
