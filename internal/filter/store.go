package filter

import (
	"slices"
	"strings"
	"sync"
)

// Listener is called after every mutation that changes the state.
type Listener func(prev, next State)

// Partial carries the fields SetFilters should overwrite. Nil fields are
// left as they are.
type Partial struct {
	SearchQuery   *string
	Sources       []string
	Categories    []string
	Keywords      []string
	MinHotness    *float64
	SortBy        *SortBy
	TimeRange     *string
	ShowSummaries *bool
	ShowImages    *bool
}

// Store owns the process-wide filter State. Every mutator applies its change
// atomically and then notifies listeners synchronously, so a read issued
// after a mutator returns always observes the new value.
type Store struct {
	mu        sync.RWMutex
	state     State
	defaults  State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// NewStore creates a store holding defaults. Reset returns to this value.
func NewStore(defaults State) *Store {
	defaults = defaults.normalize(SortHotness)
	return &Store{
		state:     defaults.Clone(),
		defaults:  defaults.Clone(),
		listeners: make(map[int]Listener),
	}
}

// State returns a copy of the current value.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	}
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	prev := s.state.Clone()
	next := s.state.Clone()
	fn(&next)
	next = next.normalize(prev.SortBy)
	if next.Equal(prev) {
		s.mu.Unlock()
		return
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next.Clone())
	}
}

func (s *Store) SetSearchQuery(q string) {
	s.update(func(st *State) { st.SearchQuery = q })
}

func (s *Store) AddSource(name string) {
	s.update(func(st *State) { st.Sources = append(st.Sources, name) })
}

func (s *Store) RemoveSource(name string) {
	s.update(func(st *State) { st.Sources = remove(st.Sources, name) })
}

// ToggleSource adds name when absent and removes it when present.
func (s *Store) ToggleSource(name string) {
	s.update(func(st *State) { st.Sources = toggle(st.Sources, name) })
}

func (s *Store) SetSources(names []string) {
	s.update(func(st *State) { st.Sources = slices.Clone(names) })
}

func (s *Store) AddCategory(name string) {
	s.update(func(st *State) { st.Categories = append(st.Categories, name) })
}

func (s *Store) RemoveCategory(name string) {
	s.update(func(st *State) { st.Categories = remove(st.Categories, name) })
}

func (s *Store) ToggleCategory(name string) {
	s.update(func(st *State) { st.Categories = toggle(st.Categories, name) })
}

func (s *Store) SetCategories(names []string) {
	s.update(func(st *State) { st.Categories = slices.Clone(names) })
}

func (s *Store) AddKeyword(word string) {
	s.update(func(st *State) { st.Keywords = append(st.Keywords, word) })
}

func (s *Store) RemoveKeyword(word string) {
	s.update(func(st *State) { st.Keywords = remove(st.Keywords, word) })
}

func (s *Store) SetKeywords(words []string) {
	s.update(func(st *State) { st.Keywords = slices.Clone(words) })
}

// SetMinHotness stores v clamped to [0,1].
func (s *Store) SetMinHotness(v float64) {
	s.update(func(st *State) { st.MinHotness = v })
}

// SetSortBy ignores values outside AllSorts.
func (s *Store) SetSortBy(v SortBy) {
	s.update(func(st *State) {
		if v.Valid() {
			st.SortBy = v
		}
	})
}

func (s *Store) SetTimeRange(r string) {
	s.update(func(st *State) { st.TimeRange = r })
}

func (s *Store) SetShowSummaries(show bool) {
	s.update(func(st *State) { st.ShowSummaries = show })
}

func (s *Store) SetShowImages(show bool) {
	s.update(func(st *State) { st.ShowImages = show })
}

// Reset replaces the whole state with the store's defaults.
func (s *Store) Reset() {
	s.update(func(st *State) { *st = s.defaults.Clone() })
}

// SetFilters shallow-merges p into the current state.
func (s *Store) SetFilters(p Partial) {
	s.update(func(st *State) {
		if p.SearchQuery != nil {
			st.SearchQuery = *p.SearchQuery
		}
		if p.Sources != nil {
			st.Sources = slices.Clone(p.Sources)
		}
		if p.Categories != nil {
			st.Categories = slices.Clone(p.Categories)
		}
		if p.Keywords != nil {
			st.Keywords = slices.Clone(p.Keywords)
		}
		if p.MinHotness != nil {
			st.MinHotness = *p.MinHotness
		}
		if p.SortBy != nil && p.SortBy.Valid() {
			st.SortBy = *p.SortBy
		}
		if p.TimeRange != nil {
			st.TimeRange = *p.TimeRange
		}
		if p.ShowSummaries != nil {
			st.ShowSummaries = *p.ShowSummaries
		}
		if p.ShowImages != nil {
			st.ShowImages = *p.ShowImages
		}
	})
}

// remove and toggle compare trimmed names, the same form normalize stores.
func remove(set []string, v string) []string {
	v = strings.TrimSpace(v)
	return slices.DeleteFunc(set, func(x string) bool { return x == v })
}

func toggle(set []string, v string) []string {
	if slices.Contains(set, strings.TrimSpace(v)) {
		return remove(set, v)
	}
	return append(set, v)
}
