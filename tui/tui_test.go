package tui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/yokulogic/explorer"
	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/types"
	"github.com/nathoo/yokulogic/world"
)

func TestModeDisplayName(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"normal", "Normal"},
		{"hard", "Hard"},
		{"very_hard", "Very Hard"},
	}
	for _, tt := range tests {
		if got := modeDisplayName(tt.mode); got != tt.want {
			t.Errorf("modeDisplayName(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"+3 regions: Hub Village 4", kindGain},
		{"-1 region: Menu", kindLoss},
		{"The goal is now reachable!", kindGoal},
		{"Yes: Chest: Tweepers is reachable (Intro Landing Right 2).", kindGoal},
		{"No: Chest: Tweepers is out of reach (Intro Landing Right 2).", kindError},
		{`no item called "lantern"`, kindError},
		{"which tweepers? (NPC: Tweepers, Chest: Tweepers)", kindError},
		{"[Session saved to test.]", kindSystem},
		{"[trace] mode=normal", kindTrace},
		{"You hold 2 items:", kindHeading},
		{"  Mail bag", kindPlain},
		{"Collected Mail bag (now 1/1).", kindPlain},
		{"", kindPlain},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestComplete(t *testing.T) {
	names := []string{"Mail bag", "Mailbox 04: Tweepers", "Noisemaker", "hub_village4", "hub_village40"}
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"col", "collect", true},
		{"re", "re", false}, // reach and reset share nothing more
		{"collect noi", "collect Noisemaker", true},
		{"collect mail", "collect mail", false},
		{"path hub_v", "path hub_village4", true},
		{"collect ", "collect ", false},
		{"collect zzz", "collect zzz", false},
	}
	for _, tt := range tests {
		got, ok := complete(tt.input, names)
		if got != tt.want || ok != tt.ok {
			t.Errorf("complete(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("goal")
	h.Push("collect mail bag")
	h.Push("reach")

	for _, want := range []string{"reach", "collect mail bag", "goal", "goal"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("goal")
	h.Push("reach")

	h.Prev() // "reach"
	h.Prev() // "goal"

	next, ok := h.Next()
	if !ok || next != "reach" {
		t.Errorf("expected 'reach', got %q (ok=%v)", next, ok)
	}

	if _, ok = h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_Wraps(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted
	h.Push("d") // "b" evicted

	if got := strings.Join(h.Entries(), ","); got != "c,d" {
		t.Errorf("entries = %s", got)
	}
	prev, _ := h.Prev()
	if prev != "d" {
		t.Errorf("expected 'd', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c', got %q", prev)
	}
	prev, _ = h.Prev()
	if prev != "c" {
		t.Errorf("expected 'c' at boundary, got %q", prev)
	}
}

func TestHistory_NoDuplicates(t *testing.T) {
	h := NewHistory(5)
	h.Push("goal")
	h.Push("goal")
	h.Push("goal")

	if n := len(h.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("goal")
	h.Push("reach")

	h.Prev()
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "reach" {
		t.Errorf("expected 'reach' after reset, got %q", prev)
	}
}

var (
	svcOnce sync.Once
	svc     *service.Service
	svcErr  error
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	svcOnce.Do(func() {
		w, err := world.Default()
		if err != nil {
			svcErr = err
			return
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc, svcErr = service.New(w, service.NewMemoryCache(128), time.Minute, logger)
	})
	if svcErr != nil {
		t.Fatal(svcErr)
	}
	return New(explorer.New(svc, types.ModeNormal), t.TempDir())
}

func submit(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.prompt.SetValue(input)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestUpdate_CommandAndStatusBar(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	m = next.(Model)

	if !strings.Contains(m.View(), "Normal | Regions 8/188") {
		t.Errorf("expected starting status bar, got:\n%s", m.View())
	}

	m = submit(t, m, "collect mail bag")
	view := m.View()
	if !strings.Contains(view, "Regions 11/188") {
		t.Errorf("status bar should follow the inventory, got:\n%s", view)
	}
	if !strings.Contains(view, "Items: 1 | Goal: no") {
		t.Errorf("expected item count and goal, got:\n%s", view)
	}

	m = submit(t, m, "everything")
	if !strings.Contains(m.View(), "Goal: yes") {
		t.Error("expected goal in status bar")
	}
}

func TestUpdate_TabCompletes(t *testing.T) {
	m := newTestModel(t)
	m.prompt.SetValue("collect noisem")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if got := m.prompt.Value(); got != "collect Noisemaker" {
		t.Errorf("input = %q", got)
	}
}

func TestUpdate_Again(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "collect dive fish")
	m = submit(t, m, "/state")
	m = submit(t, m, "g")
	if n := m.session.Inv.Count("Progressive Dive Fish"); n != 2 {
		t.Errorf("again should repeat the last explorer command, have %d", n)
	}
}

func TestUpdate_HistoryKeys(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "goal")
	m = submit(t, m, "inventory")

	key := func(m Model, k tea.KeyType) Model {
		next, _ := m.Update(tea.KeyMsg{Type: k})
		return next.(Model)
	}
	m = key(m, tea.KeyUp)
	if got := m.prompt.Value(); got != "inventory" {
		t.Errorf("up = %q", got)
	}
	m = key(m, tea.KeyUp)
	if got := m.prompt.Value(); got != "goal" {
		t.Errorf("up twice = %q", got)
	}
	m = key(m, tea.KeyDown)
	m = key(m, tea.KeyDown)
	if got := m.prompt.Value(); got != "" {
		t.Errorf("down past the end = %q", got)
	}
}

func TestUpdate_TranscriptEchoesInput(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	m = submit(t, m, "collect mail bag")

	view := m.View()
	for _, want := range []string{"> collect mail bag", "Collected Mail bag (now 1/1).", "+3 regions"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "/quit")
	if !m.quitting {
		t.Error("expected quitting after /quit")
	}
	if m.View() != "" {
		t.Error("expected empty view after quit")
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)
	for _, cmd := range []string{"/quit", "/exit"} {
		if _, quit := m.handleMeta(cmd); !quit {
			t.Errorf("expected quit=true for %s", cmd)
		}
	}
}

func TestHandleMeta_SaveAndLoad(t *testing.T) {
	m := newTestModel(t)
	m.session.Step("mode very_hard")
	m.session.Step("collect noisemaker")

	output, quit := m.handleMeta("/save test")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Session saved to test.") {
		t.Errorf("expected save confirmation, got %v", output)
	}

	other := newTestModel(t)
	other.meta.SaveDir = m.meta.SaveDir
	output, _ = other.handleMeta("/load test")
	if len(output) == 0 || output[0] != "Session loaded from test (very_hard, 1 items)." {
		t.Errorf("expected load confirmation, got %v", output)
	}
}

func TestHandleMeta_LoadNonexistent(t *testing.T) {
	m := newTestModel(t)
	output, quit := m.handleMeta("/load nonexistent")
	if quit {
		t.Error("load should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Load failed") {
		t.Errorf("expected load failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m := newTestModel(t)
	output, _ := m.handleMeta("/help")

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/save", "/load", "/copy", "collect <item>", "Tab to complete"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Copy(t *testing.T) {
	m := newTestModel(t)
	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	output, _ := m.handleMeta("/copy")
	if output[0] != "Nothing to copy." {
		t.Errorf("got %v", output)
	}

	m = submit(t, m, "goal")
	output, _ = m.handleMeta("/copy")
	if output[0] != "Copied 1 lines." || copied != "The goal is not reachable in normal yet." {
		t.Errorf("got %v, copied %q", output, copied)
	}

	m.copy = func(string) error { return errors.New("no clipboard") }
	output, _ = m.handleMeta("/copy")
	if output[0] != "Copy failed: no clipboard" {
		t.Errorf("got %v", output)
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.meta.Trace || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected trace enabled, got %v", output)
	}
	output, _ = m.handleMeta("/trace")
	if m.meta.Trace || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected trace disabled, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m := newTestModel(t)
	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_StateAndHistory(t *testing.T) {
	m := newTestModel(t)
	m = submit(t, m, "collect noisemaker")

	output, _ := m.handleMeta("/state")
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Mode: normal") || !strings.Contains(joined, "Noisemaker:1") {
		t.Errorf("unexpected state output: %s", joined)
	}

	output, _ = m.handleMeta("/history")
	if len(output) != 1 || output[0] != "collect noisemaker" {
		t.Errorf("history = %v", output)
	}
}
