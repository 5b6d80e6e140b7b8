package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/nathoo/yokulogic/explorer"
)

// entry is one transcript line kept unstyled so it can be re-wrapped when
// the terminal is resized.
type entry struct {
	text string
	kind lineKind
}

type keyMap struct {
	Quit     key.Binding
	Submit   key.Binding
	Complete key.Binding
	Older    key.Binding
	Newer    key.Binding
	Scroll   key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c")),
	Submit:   key.NewBinding(key.WithKeys("enter")),
	Complete: key.NewBinding(key.WithKeys("tab")),
	Older:    key.NewBinding(key.WithKeys("up")),
	Newer:    key.NewBinding(key.WithKeys("down")),
	Scroll:   key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// Model is the full-screen explorer: a scrolling transcript, a status bar
// and a prompt.
type Model struct {
	session *explorer.Session
	meta    *explorer.Meta

	transcript viewport.Model
	prompt     textinput.Model
	history    *History
	names      []string // completion candidates

	entries    []entry
	lastOutput []string // for /copy
	copy       func(string) error

	width, height int
	ready         bool
	quitting      bool
}

// transcriptMsg appends a block of lines to the transcript.
type transcriptMsg struct {
	echo  string
	lines []string
	kind  lineKind // kindPlain means classify each line
}

// New creates a model for session saving under saveDir.
func New(s *explorer.Session, saveDir string) Model {
	p := textinput.New()
	p.Prompt = "> "
	p.PromptStyle = styleInputPrompt
	p.CharLimit = 256
	p.Focus()

	return Model{
		session: s,
		meta:    explorer.NewMeta(s, saveDir),
		prompt:  p,
		history: NewHistory(100),
		names:   s.Completions(),
		copy:    clipboard.WriteAll,
	}
}

// Run starts the program on the alternate screen.
func Run(s *explorer.Session, saveDir string, trace bool) error {
	m := New(s, saveDir)
	m.meta.Trace = trace
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// Init blinks the cursor and shows the banner.
func (m Model) Init() tea.Cmd {
	banner := func() tea.Msg {
		return transcriptMsg{lines: []string{
			"Yoku's Island Express logic explorer",
			"",
			"Collect items and see what opens up. Type help for commands, /help for system commands.",
		}}
	}
	return tea.Batch(textinput.Blink, banner)
}

// Update routes resizes, keys and transcript messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case transcriptMsg:
		m.append(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.Complete):
			if done, ok := complete(m.prompt.Value(), m.names); ok {
				m.setPrompt(done)
			}
			return m, nil
		case key.Matches(msg, keys.Older):
			if prev, ok := m.history.Prev(); ok {
				m.setPrompt(prev)
			}
			return m, nil
		case key.Matches(msg, keys.Newer):
			next, ok := m.history.Next()
			if !ok {
				m.history.ResetCursor()
			}
			m.setPrompt(next)
			return m, nil
		case key.Matches(msg, keys.Scroll):
			var cmd tea.Cmd
			m.transcript, cmd = m.transcript.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) setPrompt(s string) {
	m.prompt.SetValue(s)
	m.prompt.CursorEnd()
}

// resize keeps one row for the status bar and one for the prompt.
func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	rows := max(h-2, 1)
	if !m.ready {
		m.transcript = viewport.New(w, rows)
		// Up and Down belong to the command history.
		m.transcript.KeyMap.Up.SetEnabled(false)
		m.transcript.KeyMap.Down.SetEnabled(false)
		m.ready = true
	} else {
		m.transcript.Width = w
		m.transcript.Height = rows
	}
	m.render()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.prompt.Value())
	m.prompt.SetValue("")
	if line == "" {
		return m, nil
	}
	m.history.Push(line)
	m.history.ResetCursor()

	if strings.HasPrefix(line, "/") {
		lines, quit := m.handleMeta(line)
		m.append(transcriptMsg{echo: line, lines: lines, kind: kindSystem})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	cmd, ok := m.meta.Recall(line)
	if !ok {
		m.append(transcriptMsg{echo: line, lines: []string{"Nothing to repeat."}, kind: kindSystem})
		return m, nil
	}
	result := m.session.Step(cmd)
	m.lastOutput = result.Output
	lines := result.Output
	if m.meta.Trace {
		for _, t := range result.Trace {
			lines = append(lines, "[trace] "+t)
		}
	}
	m.append(transcriptMsg{echo: line, lines: lines})
	return m, nil
}

// handleMeta runs a slash command: the TUI's own first, then the shared ones.
func (m *Model) handleMeta(line string) ([]string, bool) {
	switch strings.Fields(line)[0] {
	case "/copy":
		return []string{m.copyLast()}, false
	case "/history":
		return m.history.Entries(), false
	case "/help":
		return m.help(), false
	}
	lines, quit, known := m.meta.Handle(line)
	if !known {
		return []string{explorer.Unknown(line)}, false
	}
	return lines, quit
}

func (m *Model) copyLast() string {
	if len(m.lastOutput) == 0 {
		return "Nothing to copy."
	}
	if err := m.copy(strings.Join(m.lastOutput, "\n")); err != nil {
		return fmt.Sprintf("Copy failed: %v", err)
	}
	return fmt.Sprintf("Copied %d lines.", len(m.lastOutput))
}

func (m *Model) help() []string {
	out := explorer.MetaHelp(
		"  /copy         Copy the last output to the clipboard",
		"  /history      List recent commands",
	)
	return append(out, "", "Navigation: PgUp/PgDn to scroll, Up/Down for command history, Tab to complete names")
}

// append records a block followed by a blank separator.
func (m *Model) append(msg transcriptMsg) {
	if msg.echo != "" {
		m.entries = append(m.entries, entry{text: "> " + msg.echo, kind: kindInput})
	}
	for _, line := range msg.lines {
		kind := msg.kind
		if kind == kindPlain {
			kind = classifyLine(line)
		}
		m.entries = append(m.entries, entry{text: line, kind: kind})
	}
	m.entries = append(m.entries, entry{})
	m.render()
}

// render re-wraps and re-styles the whole transcript at the current width.
func (m *Model) render() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		if e.text != "" {
			out[i] = renderLineKind(wordwrap.String(e.text, width), e.kind)
		}
	}
	m.transcript.SetContent(strings.Join(out, "\n"))
	m.transcript.GotoBottom()
}

// View stacks the transcript, the status bar and the prompt.
func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return m.transcript.View() + "\n" + m.renderStatusBar() + "\n" + m.prompt.View()
}
