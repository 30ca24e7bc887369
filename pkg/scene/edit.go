package scene

import (
	"unicode/utf8"

	"sheetmark/pkg/annotation"
	"sheetmark/pkg/controller"
)

// BeginTextEdit opens the label id for typing. Any other edit is committed
// first. It reports false when id is not a visible label.
func (s *Scene) BeginTextEdit(id string) bool {
	if s.editing == id {
		return true
	}
	if s.editing != "" {
		s.CommitTextEdit()
	}
	it, ok := s.items[id].(*TextItem)
	if !ok {
		return false
	}
	it.editing = true
	it.buffer = it.Text
	s.editing = id
	s.changed()
	return true
}

// Editing returns the id of the label open for typing, or "".
func (s *Scene) Editing() string {
	return s.editing
}

func (s *Scene) editItem() *TextItem {
	if s.editing == "" {
		return nil
	}
	it, _ := s.items[s.editing].(*TextItem)
	return it
}

// TypeText appends text to the label being edited.
func (s *Scene) TypeText(text string) {
	it := s.editItem()
	if it == nil || text == "" {
		return
	}
	it.buffer += text
	s.remeasure(it)
}

// Backspace deletes the last character of the label being edited.
func (s *Scene) Backspace() {
	it := s.editItem()
	if it == nil || it.buffer == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(it.buffer)
	it.buffer = it.buffer[:len(it.buffer)-n]
	s.remeasure(it)
}

// remeasure resizes the edit box around its current center.
func (s *Scene) remeasure(it *TextItem) {
	c := it.box.Center()
	it.box = s.textBox(it.buffer, it.Size, c)
	s.changed()
}

// CommitTextEdit writes the typed text and the label's on-screen center to
// the model and rebuilds. A label left empty is deleted.
func (s *Scene) CommitTextEdit() {
	it := s.editItem()
	s.editing = ""
	if it == nil {
		return
	}
	it.editing = false

	t := s.set.Text(it.ID())
	if t == nil {
		s.Redraw(true)
		return
	}
	text := controller.CleanText(it.buffer)
	if text == "" {
		annotation.Logger().Debug("scene: empty label removed", "id", t.ID)
		s.set.Remove(t.ID)
		s.Redraw(false)
		return
	}
	t.Text = text
	t.Position = s.ToNormalized(it.Center())
	if t.ParentID != "" && s.set.Arrow(t.ParentID) != nil {
		s.snapArrows(t.ParentID)
	}
	s.Redraw(true)
}

// CancelTextEdit drops the typing and restores the label.
func (s *Scene) CancelTextEdit() {
	it := s.editItem()
	s.editing = ""
	if it == nil {
		return
	}
	it.editing = false
	s.Redraw(true)
}
