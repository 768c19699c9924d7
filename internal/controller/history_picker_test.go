package controller

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/filterline/internal/model"
)

func testEntries() []m.HistoryEntry {
	return []m.HistoryEntry{
		{Polarity: m.PolarityContains, Value: "banana"},
		{Polarity: m.PolarityMatches, Value: "^gr"},
		{Polarity: m.PolarityNotContains, Value: "Debug", IgnoreCase: true},
	}
}

func TestTruncateToWidth(t *testing.T) {
	if got := truncateToWidth("hello", 0); got != "" {
		t.Fatalf("truncateToWidth width 0 = %q, want empty", got)
	}

	if got := truncateToWidth("hello", 10); got != "hello" {
		t.Fatalf("truncateToWidth no truncation = %q", got)
	}

	if got := truncateToWidth("hello", 1); got != "…" {
		t.Fatalf("truncateToWidth width 1 = %q, want ellipsis", got)
	}

	if got := truncateToWidth("hello", 2); got != "h…" {
		t.Fatalf("truncateToWidth width 2 = %q, want h…", got)
	}
}

func TestHistoryModel_EnterChoosesSelection(t *testing.T) {
	hm := newHistoryModel(testEntries())

	updated, _ := hm.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyDown})
	updated, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("enter should quit the picker")
	}

	got := updated.(historyModel)
	if got.chosen == nil {
		t.Fatal("enter did not record a choice")
	}

	if got.chosen.Value != "^gr" || got.chosen.Polarity != m.PolarityMatches {
		t.Fatalf("chosen = %+v, want matches ^gr", *got.chosen)
	}
}

func TestHistoryModel_EscapeLeavesWithoutChoice(t *testing.T) {
	hm := newHistoryModel(testEntries())

	updated, cmd := hm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit the picker")
	}

	if updated.(historyModel).chosen != nil {
		t.Fatal("esc should not choose")
	}
}

func TestHistoryModel_View(t *testing.T) {
	if got := newHistoryModel(nil).View(); got != "No patterns in history\n" {
		t.Fatalf("empty View() = %q", got)
	}

	hm := newHistoryModel(testEntries())
	updated, _ := hm.Update(tea.WindowSizeMsg{Width: 60, Height: 10})

	view := updated.View()
	for _, want := range []string{"Recent patterns", "banana", "^gr", "contains", "not-contains -i", "Debug"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q\nview:\n%s", want, view)
		}
	}
}

func TestPickHistory_EmptyReturnsNoChoice(t *testing.T) {
	_, ok, err := PickHistory(nil, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("PickHistory() error = %v", err)
	}

	if ok {
		t.Fatal("PickHistory() on empty history should not choose")
	}
}
