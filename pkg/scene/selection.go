package scene

// SelectedIDs returns the ids of the selected items bottom to top.
func (s *Scene) SelectedIDs() []string {
	var ids []string
	for _, it := range s.order {
		if it.Selected() {
			ids = append(ids, it.ID())
		}
	}
	return ids
}

// Select adds the items of ids to the selection. Unknown ids are ignored.
func (s *Scene) Select(ids ...string) {
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			it.base().selected = true
		}
	}
	s.changed()
}

// Deselect removes the items of ids from the selection.
func (s *Scene) Deselect(ids ...string) {
	for _, id := range ids {
		if it, ok := s.items[id]; ok {
			it.base().selected = false
		}
	}
	s.changed()
}

// ClearSelection deselects every item.
func (s *Scene) ClearSelection() {
	for _, it := range s.order {
		it.base().selected = false
	}
	s.changed()
}

func (s *Scene) selectedItems() []Item {
	var out []Item
	for _, it := range s.order {
		if it.Selected() {
			out = append(out, it)
		}
	}
	return out
}
