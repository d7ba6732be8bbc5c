package query

import "sort"

// Selection is a set of order ids chosen for batch actions. It is kept
// independently of the filtered view; ids hidden by a later filter stay
// selected until toggled.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds id when absent and removes it otherwise.
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll clears the selection when it already equals the non-empty
// filtered set, and otherwise replaces it with exactly that set.
func (s *Selection) ToggleAll(filteredIDs []string) {
	if len(filteredIDs) > 0 && s.equals(filteredIDs) {
		s.Clear()
		return
	}
	next := make(map[string]struct{}, len(filteredIDs))
	for _, id := range filteredIDs {
		next[id] = struct{}{}
	}
	s.ids = next
}

func (s *Selection) equals(ids []string) bool {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	if len(set) != len(s.ids) {
		return false
	}
	for id := range set {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Has reports whether id is selected.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// IDs returns the selected ids sorted for stable output.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
