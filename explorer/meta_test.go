package explorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/yokulogic/types"
)

func TestMeta_Recall(t *testing.T) {
	m := NewMeta(newTestSession(t), t.TempDir())

	_, ok := m.Recall("again")
	assert.False(t, ok, "nothing to repeat yet")

	cmd, ok := m.Recall("collect noisemaker")
	assert.True(t, ok)
	assert.Equal(t, "collect noisemaker", cmd)

	m.Recall("/state")
	cmd, ok = m.Recall("G")
	assert.True(t, ok)
	assert.Equal(t, "collect noisemaker", cmd, "slash commands are not remembered")
}

func TestMeta_SaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "saves")
	s := newTestSession(t)
	s.Step("mode hard")
	s.Step("collect 2 dive fish")
	m := NewMeta(s, dir)

	lines, quit, known := m.Handle("/save")
	require.True(t, known)
	assert.False(t, quit)
	assert.Equal(t, []string{"Session saved to quicksave."}, lines)
	_, err := os.Stat(filepath.Join(dir, "quicksave.json"))
	require.NoError(t, err)

	other := NewMeta(newTestSession(t), dir)
	lines, _, _ = other.Handle("/load quicksave")
	assert.Equal(t, []string{"Session loaded from quicksave (hard, 2 items)."}, lines)
	assert.Equal(t, types.ModeHard, other.Session.Mode)

	lines, _, _ = other.Handle("/load missing")
	assert.Contains(t, lines[0], "Load failed")
}

func TestMeta_Handle(t *testing.T) {
	m := NewMeta(newTestSession(t), t.TempDir())

	_, quit, known := m.Handle("/exit")
	assert.True(t, quit)
	assert.True(t, known)

	lines, _, _ := m.Handle("/trace")
	assert.Equal(t, []string{"Trace output enabled."}, lines)
	assert.True(t, m.Trace)
	m.Handle("/trace")
	assert.False(t, m.Trace)

	lines, _, _ = m.Handle("/state")
	assert.Equal(t, "Mode: normal", lines[0])

	_, _, known = m.Handle("/copy")
	assert.False(t, known, "front-end commands are left to the caller")
	assert.Equal(t, "Unknown command: /copy. Type /help for available commands.", Unknown("/copy now"))
}

func TestMetaHelp(t *testing.T) {
	help := MetaHelp("  /extra        Something else")
	assert.Equal(t, "System:", help[0])
	assert.Contains(t, help, "  /extra        Something else")
	assert.Contains(t, help, "Commands:")
	assert.Equal(t, "  again (g)                   Repeat your last command", help[len(help)-1])
}
