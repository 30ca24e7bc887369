package scene

import "sheetmark/pkg/annotation"

// applySelected calls fn with the model annotation of every selected item
// and rebuilds, keeping the selection, if any call reported a change.
func (s *Scene) applySelected(fn func(annotation.Annotation) bool) bool {
	var changed bool
	for _, id := range s.SelectedIDs() {
		if a := s.set.Find(id); a != nil && fn(a) {
			changed = true
		}
	}
	if changed {
		s.Redraw(true)
	}
	return changed
}

// SetSelectedStrokeWidth sets the stroke width of selected shapes and the
// line width of selected arrows.
func (s *Scene) SetSelectedStrokeWidth(w float64) bool {
	if w <= 0 {
		return false
	}
	return s.applySelected(func(a annotation.Annotation) bool {
		switch a := a.(type) {
		case *annotation.Shape:
			a.StrokeWidth = w
		case *annotation.Arrow:
			a.LineWidth = w
		default:
			return false
		}
		return true
	})
}

// SetSelectedShapeStrokeColor sets the outline color of selected shapes.
func (s *Scene) SetSelectedShapeStrokeColor(c string) bool {
	return s.applySelected(func(a annotation.Annotation) bool {
		sh, ok := a.(*annotation.Shape)
		if ok {
			sh.StrokeColor = c
		}
		return ok
	})
}

// SetSelectedShapeFillColor sets the fill of selected shapes; "" removes
// it.
func (s *Scene) SetSelectedShapeFillColor(c string) bool {
	return s.applySelected(func(a annotation.Annotation) bool {
		sh, ok := a.(*annotation.Shape)
		if ok {
			sh.FillColor = c
		}
		return ok
	})
}

// SetSelectedTextColor sets the color of selected labels.
func (s *Scene) SetSelectedTextColor(c string) bool {
	return s.applySelected(func(a annotation.Annotation) bool {
		t, ok := a.(*annotation.Text)
		if ok {
			t.Color = c
		}
		return ok
	})
}

// SetSelectedTextSize sets the font size of selected labels and re-snaps
// the arrows pointing at them.
func (s *Scene) SetSelectedTextSize(size float64) bool {
	if size <= 0 {
		return false
	}
	var parents []string
	ok := s.applySelected(func(a annotation.Annotation) bool {
		t, ok := a.(*annotation.Text)
		if ok {
			t.FontSize = size
			if t.ParentID != "" {
				parents = append(parents, t.ParentID)
			}
		}
		return ok
	})
	for _, id := range parents {
		if s.set.Arrow(id) != nil {
			s.SnapArrowToLabels(id)
		}
	}
	return ok
}

// SetSelectedArrowColor sets the color of selected arrows.
func (s *Scene) SetSelectedArrowColor(c string) bool {
	return s.applySelected(func(a annotation.Annotation) bool {
		ar, ok := a.(*annotation.Arrow)
		if ok {
			ar.Color = c
		}
		return ok
	})
}

// DeleteSelected removes every selected annotation along with the labels
// grouped to selected arrows and shapes. It returns the number removed.
func (s *Scene) DeleteSelected() int {
	if s.editing != "" {
		return 0
	}
	var n int
	for _, id := range s.SelectedIDs() {
		n += len(s.set.Remove(id))
	}
	if n > 0 {
		annotation.Logger().Debug("scene: deleted selection", "count", n)
		s.Redraw(false)
	}
	return n
}

// Ungroup detaches labels from their parent. For a label id only that
// label is detached; for an arrow or shape id every label grouped to it is.
func (s *Scene) Ungroup(id string) bool {
	var changed bool
	if t := s.set.Text(id); t != nil {
		changed = t.ParentID != ""
		t.ParentID = ""
	} else {
		for _, t := range s.set.ChildrenOf(id) {
			t.ParentID = ""
			changed = true
		}
	}
	if changed {
		s.Redraw(true)
	}
	return changed
}
