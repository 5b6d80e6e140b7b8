package explorer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const quicksave = "quicksave"

// Meta runs the slash commands both front ends share and remembers the last
// explorer command for "again".
type Meta struct {
	Session *Session
	SaveDir string
	Trace   bool

	last string
}

// NewMeta creates a dispatcher saving under saveDir.
func NewMeta(s *Session, saveDir string) *Meta {
	return &Meta{Session: s, SaveDir: saveDir}
}

// Recall maps "again" and "g" to the previous explorer command and remembers
// anything else. ok is false when there is nothing to repeat. Slash commands
// are never remembered.
func (m *Meta) Recall(input string) (string, bool) {
	switch strings.ToLower(input) {
	case "again", "g":
		return m.last, m.last != ""
	}
	if !strings.HasPrefix(input, "/") {
		m.last = input
	}
	return input, true
}

// Handle runs one slash command. known is false for commands it does not
// own, so a front end can try its own first or report them.
func (m *Meta) Handle(input string) (lines []string, quit, known bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, false, false
	}
	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true, true
	case "/save":
		return []string{m.save(arg)}, false, true
	case "/load":
		return []string{m.load(arg)}, false, true
	case "/state":
		return m.state(), false, true
	case "/trace":
		m.Trace = !m.Trace
		if m.Trace {
			return []string{"Trace output enabled."}, false, true
		}
		return []string{"Trace output disabled."}, false, true
	}
	return nil, false, false
}

// Unknown is the reply for a slash command nobody handles.
func Unknown(input string) string {
	name := input
	if fields := strings.Fields(input); len(fields) > 0 {
		name = fields[0]
	}
	return fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name)
}

// MetaHelp lists the slash commands, any front-end extras, then the explorer
// commands.
func MetaHelp(extra ...string) []string {
	out := []string{
		"System:",
		"  /save [name]  Save the session (default: quicksave)",
		"  /load [name]  Load a session (default: quicksave)",
	}
	out = append(out, extra...)
	out = append(out,
		"  /state        Dump the current mode and inventory",
		"  /trace        Toggle trace output",
		"  /help         Show this help",
		"  /quit         Exit",
		"",
	)
	out = append(out, helpLines...)
	return append(out, "  again (g)                   Repeat your last command")
}

func (m *Meta) path(name string) (string, string) {
	if name == "" {
		name = quicksave
	}
	return name, filepath.Join(m.SaveDir, name+".json")
}

func (m *Meta) save(arg string) string {
	name, path := m.path(arg)
	data, err := m.Session.Snapshot()
	if err == nil {
		err = os.MkdirAll(m.SaveDir, 0o755)
	}
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	if err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	return fmt.Sprintf("Session saved to %s.", name)
}

func (m *Meta) load(arg string) string {
	name, path := m.path(arg)
	data, err := os.ReadFile(path)
	if err == nil {
		_, err = m.Session.Restore(data)
	}
	if err != nil {
		return fmt.Sprintf("Load failed: %v", err)
	}
	return fmt.Sprintf("Session loaded from %s (%s, %d items).", name, m.Session.Mode, m.Session.Inv.Total())
}

func (m *Meta) state() []string {
	s := m.Session
	return []string{
		fmt.Sprintf("Mode: %s", s.Mode),
		fmt.Sprintf("Inventory: %v", map[string]int(s.Inv)),
		fmt.Sprintf("Commands: %d", len(s.CommandLog)),
	}
}
