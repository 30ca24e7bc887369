package scene

import (
	"sheetmark/pkg/annotation"
	"sheetmark/pkg/controller"
	"sheetmark/pkg/graphics"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragResize
)

type dragState struct {
	mode  dragMode
	press graphics.Point
	last  graphics.Point
	moved bool

	// resize only
	item      *ShapeItem
	corner    corner
	pressRect graphics.Rect
	pressPoly []graphics.Point
}

// Cursor is the pointer shape the editor should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorResize
)

// PointerDown starts a gesture at the scene point p. A press on a resize
// handle of a selected shape starts a resize, a press on an item selects
// it and starts a move, and a press on empty space starts drawing with the
// active tool. With additive set, the press adds to the selection instead
// of replacing it.
func (s *Scene) PointerDown(p graphics.Point, additive bool) {
	if s.editing != "" {
		if it := s.items[s.editing]; it != nil && s.contains(it, p) {
			return
		}
		s.CommitTextEdit()
	}
	s.drag = dragState{press: p, last: p}

	if it, c, ok := s.handleAt(p); ok {
		s.drag.mode = dragResize
		s.drag.item = it
		s.drag.corner = c
		s.drag.pressRect = it.localBounds().Translate(it.pos)
		s.drag.pressPoly = it.Points()
		return
	}

	if it := s.ItemAt(p); it != nil {
		if !it.Selected() {
			if !additive {
				for _, o := range s.order {
					o.base().selected = false
				}
			}
			it.base().selected = true
			s.changed()
		}
		s.drag.mode = dragMove
		return
	}

	if !additive && len(s.SelectedIDs()) > 0 {
		s.ClearSelection()
	}
	s.ctrl.PointerDown(p)
}

// PointerMove continues the gesture in progress.
func (s *Scene) PointerMove(p graphics.Point) {
	switch {
	case s.ctrl.Drawing():
		s.ctrl.PointerMove(p)
	case s.drag.mode == dragResize:
		s.resizeTo(p)
		s.drag.last = p
		s.drag.moved = true
		s.changed()
	case s.drag.mode == dragMove:
		d := p.Sub(s.drag.last)
		s.drag.last = p
		if d.X == 0 && d.Y == 0 {
			return
		}
		for _, it := range s.selectedItems() {
			if movable(it) {
				b := it.base()
				b.pos = b.pos.Add(d)
			}
		}
		s.drag.moved = true
		s.changed()
	}
}

// PointerUp finishes the gesture in progress. Moves and resizes are written
// back to the model and the items are rebuilt; drawing gestures are
// finished by the controller.
func (s *Scene) PointerUp(p graphics.Point) controller.Result {
	if s.ctrl.Drawing() {
		return s.ctrl.PointerUp(p)
	}

	d := s.drag
	s.drag = dragState{}
	switch {
	case d.mode == dragResize && d.moved:
		s.Redraw(true)
	case d.mode == dragMove && d.moved:
		s.syncSelected()
		s.Redraw(true)
	}
	return controller.Result{Outcome: controller.NotCreated, Reason: controller.ReasonIdle}
}

// CancelGesture abandons a drawing gesture. Moves already applied stay.
func (s *Scene) CancelGesture() {
	s.ctrl.Cancel()
}

// DoubleClick opens the label under p for editing, or offers to attach a
// new label to the shape under p.
func (s *Scene) DoubleClick(p graphics.Point) {
	switch it := s.ItemAt(p).(type) {
	case *TextItem:
		s.BeginTextEdit(it.ID())
	case *ShapeItem:
		s.labelShape(it)
	}
}

func (s *Scene) labelShape(it *ShapeItem) {
	if s.prompt == nil {
		return
	}
	id := it.ID()
	center := it.Bounds().Center()
	s.prompt.Prompt("Add Label", "Enter label text:", func(text string, ok bool) {
		text = controller.CleanText(text)
		if !ok || text == "" {
			return
		}
		if s.set.Shape(id) == nil {
			return
		}
		t := annotation.NewText(s.ToNormalized(center), text, s.tools.TextColor, s.tools.TextSize)
		t.ParentID = id
		s.set.AddText(t)
		s.AnnotationsChanged()
	})
}

// ContextMenu describes the actions available for the item that was
// secondary-clicked.
type ContextMenu struct {
	ID   string
	Kind annotation.Kind

	// CanEdit is set for labels.
	CanEdit bool
	// CanUngroup is set when the item has a parent or children.
	CanUngroup bool
}

// SecondaryClick selects the item under p and returns its menu, or nil
// over empty space.
func (s *Scene) SecondaryClick(p graphics.Point) *ContextMenu {
	it := s.ItemAt(p)
	if it == nil {
		return nil
	}
	if !it.Selected() {
		for _, o := range s.order {
			o.base().selected = false
		}
		it.base().selected = true
		s.changed()
	}
	m := &ContextMenu{ID: it.ID(), Kind: it.Kind()}
	if t := s.set.Text(it.ID()); t != nil {
		m.CanEdit = true
		m.CanUngroup = t.ParentID != ""
	} else {
		m.CanUngroup = len(s.set.ChildrenOf(it.ID())) > 0
	}
	return m
}

// CursorAt returns the cursor for hovering over p.
func (s *Scene) CursorAt(p graphics.Point) Cursor {
	if _, _, ok := s.handleAt(p); ok {
		return CursorResize
	}
	if it := s.ItemAt(p); it != nil && movable(it) {
		return CursorMove
	}
	return CursorDefault
}
