package tui

import (
	"slices"
	"strings"
	"testing"

	"github.com/matheuskafuri/ainews/internal/filter"
)

func panelAt(t *testing.T, p filterPanel, row panelRow, value string) filterPanel {
	t.Helper()
	for i, it := range p.items() {
		if it.row == row && it.value == value {
			p.cursor = i
			return p
		}
	}
	t.Fatalf("no panel row %d %q", row, value)
	return p
}

func TestPanelToggleSource(t *testing.T) {
	store := filter.NewStore(filter.Defaults())
	p := panelAt(t, newFilterPanel([]string{"OpenAI", "DeepMind"}, []string{"AI"}), rowSource, "DeepMind")

	p.activate(store)
	if got := store.State().Sources; !slices.Equal(got, []string{"DeepMind"}) {
		t.Fatalf("sources = %v", got)
	}
	p.activate(store)
	if got := store.State().Sources; len(got) != 0 {
		t.Fatalf("sources after second toggle = %v", got)
	}
}

func TestPanelHotnessSteps(t *testing.T) {
	store := filter.NewStore(filter.Defaults())
	p := panelAt(t, newFilterPanel(nil, nil), rowHotness, "")

	for range 3 {
		p.adjust(store, 1)
	}
	if got := store.State().MinHotness; got != 0.3 {
		t.Errorf("after 3 steps up = %v, want 0.3", got)
	}
	p.adjust(store, -1)
	if got := store.State().MinHotness; got != 0.2 {
		t.Errorf("after step down = %v, want 0.2", got)
	}
	for range 15 {
		p.adjust(store, 1)
	}
	if got := store.State().MinHotness; got != 1 {
		t.Errorf("hotness should clamp at 1, got %v", got)
	}
}

func TestPanelSortCycles(t *testing.T) {
	store := filter.NewStore(filter.Defaults())
	p := panelAt(t, newFilterPanel(nil, nil), rowSort, "")

	p.adjust(store, -1)
	if got := store.State().SortBy; got != filter.SortRelevance {
		t.Errorf("left from hotness = %q, want relevance", got)
	}
	p.adjust(store, 1)
	if got := store.State().SortBy; got != filter.SortHotness {
		t.Errorf("right from relevance = %q, want hotness", got)
	}
}

func TestPanelReset(t *testing.T) {
	store := filter.NewStore(filter.Defaults())
	store.AddSource("OpenAI")
	store.SetMinHotness(0.5)

	p := panelAt(t, newFilterPanel(nil, nil), rowReset, "")
	p.adjust(store, 1)
	if store.State().MinHotness != 0.5 {
		t.Fatal("adjust on reset row should do nothing")
	}
	p.activate(store)
	if !store.State().Equal(filter.Defaults()) {
		t.Errorf("state after reset = %+v", store.State())
	}
}

func TestPanelMoveWraps(t *testing.T) {
	p := newFilterPanel([]string{"A"}, []string{"B"})
	n := len(p.items())

	p.move(-1)
	if p.cursor != n-1 {
		t.Errorf("cursor = %d, want %d", p.cursor, n-1)
	}
	p.move(1)
	if p.cursor != 0 {
		t.Errorf("cursor = %d, want 0", p.cursor)
	}
}

func TestPanelSetOptionsClampsCursor(t *testing.T) {
	p := newFilterPanel([]string{"A", "B", "C"}, []string{"D"})
	p.cursor = len(p.items()) - 1
	p.setOptions([]string{"A"}, nil)
	if p.cursor != len(p.items())-1 {
		t.Errorf("cursor = %d, items = %d", p.cursor, len(p.items()))
	}
}

func TestStepHotnessNoDrift(t *testing.T) {
	v := 0.0
	for range 7 {
		v = stepHotness(v, hotnessStep)
	}
	if v != 0.7 {
		t.Errorf("seven steps = %v, want 0.7", v)
	}
}

func TestFilterLabel(t *testing.T) {
	st := filter.Defaults()
	st.Sources = []string{"OpenAI"}
	st.MinHotness = 0.6

	got := filterLabel(st)
	for _, want := range []string{"OpenAI", "AI", "by hotness score"} {
		if !strings.Contains(got, want) {
			t.Errorf("filterLabel = %q, missing %q", got, want)
		}
	}

	st = filter.Defaults()
	st.Categories = nil
	if got := filterLabel(st); !strings.Contains(got, "all categories") {
		t.Errorf("filterLabel without categories = %q", got)
	}
}
