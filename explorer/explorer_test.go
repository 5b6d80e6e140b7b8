package explorer

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/types"
	"github.com/nathoo/yokulogic/world"
)

var (
	svcOnce sync.Once
	svc     *service.Service
	svcErr  error
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	svcOnce.Do(func() {
		w, err := world.Default()
		if err != nil {
			svcErr = err
			return
		}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc, svcErr = service.New(w, service.NewMemoryCache(256), time.Minute, logger)
	})
	require.NoError(t, svcErr)
	return New(svc, types.ModeNormal)
}

func output(r types.Result) string {
	return strings.Join(r.Output, "\n")
}

func TestStep_Empty(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "What do you want to check?", output(s.Step("  ")))
	assert.Contains(t, output(s.Step("dance")), `I don't know how to "dance"`)
}

func TestStep_CollectOpensRegions(t *testing.T) {
	s := newTestSession(t)

	st, err := s.Status()
	require.NoError(t, err)
	assert.Equal(t, 8, st.Regions)
	assert.Equal(t, 188, st.TotalRegions)
	assert.False(t, st.Goal)

	out := output(s.Step("collect mail bag"))
	assert.Contains(t, out, "Collected Mail bag (now 1/1).")
	assert.Contains(t, out, "+3 regions: Intro Landing Right 1, Intro Landing Right 2, Intro Landing Upper 4")

	out = output(s.Step("-mail bag"))
	assert.Contains(t, out, "Dropped Mail bag (now 0).")
	assert.Contains(t, out, "-3 regions")
	assert.Equal(t, 0, s.Inv.Count("Mail bag"))
}

func TestStep_CollectCounts(t *testing.T) {
	s := newTestSession(t)

	assert.Contains(t, output(s.Step("collect dive fish 2")), "Collected Progressive Dive Fish x2 (now 2/2).")
	assert.Contains(t, output(s.Step("collect dive fish")), "You already hold every Progressive Dive Fish in the pool (2).")

	assert.Contains(t, output(s.Step("drop dive fish all")), "Dropped Progressive Dive Fish x2 (now 0).")
	assert.Contains(t, output(s.Step("drop dive fish")), "You don't hold any Progressive Dive Fish.")

	assert.Contains(t, output(s.Step("collect abilities/dive x9")), "(now 2/2)")
	assert.Contains(t, output(s.Step("collect")), "Collect what?")
}

func TestStep_CollectFoldsNumberedNames(t *testing.T) {
	s := newTestSession(t)
	s.Step("collect statue piece 2")
	assert.Equal(t, 1, s.Inv.Count("Statue Piece 2"))
	assert.Equal(t, 0, s.Inv.Count("Statue Piece"))
}

func TestStep_ResolveErrors(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, `no item called "lantern"`, output(s.Step("collect lantern")))
	assert.Contains(t, output(s.Step("can tweepers")), "which tweepers?")
}

func TestStep_Can(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "No: Mailbox 04: Tweepers is out of reach (Intro Landing Right 1).", output(s.Step("can mailbox 04")))

	s.Step("+mail bag")
	assert.Equal(t, "Yes: Mailbox 04: Tweepers is reachable (Intro Landing Right 1).", output(s.Step("? mailbox 04")))

	assert.Equal(t, "Mailbox 04: Tweepers is in Intro Landing Right 1 (intro_landing_right1).", output(s.Step("where mailbox 04")))
}

func TestStep_Path(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "Menu is where you start.", output(s.Step("path menu")))
	assert.Equal(t, "Intro Landing Right 1 is not reachable.", output(s.Step("path intro landing right 1")))

	s.Step("collect mail bag")
	r := s.Step("route intro_landing_right1")
	require.NotEmpty(t, r.Output)
	assert.True(t, strings.HasPrefix(r.Output[0], "Route to Intro Landing Right 1"))
	assert.True(t, strings.HasPrefix(r.Output[1], "  1. Menu -> "))

	r = s.Step("path mailbox 04")
	require.NotEmpty(t, r.Output)
	assert.True(t, strings.HasPrefix(r.Output[0], "Route to Intro Landing Right 1"))
}

func TestStep_EverythingAndGoal(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "The goal is not reachable in normal yet.", output(s.Step("goal")))

	out := output(s.Step("everything"))
	assert.Contains(t, out, "You now hold the whole item pool.")
	assert.Contains(t, out, "The goal is now reachable!")
	assert.Equal(t, "You hold every progression item.", output(s.Step("missing")))

	for _, m := range []string{"hard", "very hard"} {
		s.Step("mode " + m)
		assert.Contains(t, output(s.Step("goal")), "The goal is reachable")
	}

	out = output(s.Step("reset"))
	assert.Contains(t, out, "Inventory cleared.")
	assert.Contains(t, out, "The goal is no longer reachable.")
}

func TestStep_Mode(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "Mode: normal", output(s.Step("mode")))
	assert.Equal(t, "Already in normal.", output(s.Step("mode normal")))
	assert.Contains(t, output(s.Step("mode nightmare")), "unknown mode")
	assert.Equal(t, types.ModeNormal, s.Mode)

	s.Step("mode very_hard")
	assert.Equal(t, types.ModeVeryHard, s.Mode)
}

func TestStep_ModeSubset(t *testing.T) {
	s := newTestSession(t)
	s.Step("everything")
	s.Step("drop dive fish")

	counts := map[types.Mode]int{}
	for _, m := range types.Modes {
		s.Step("mode " + m.String())
		st, err := s.Status()
		require.NoError(t, err)
		counts[m] = st.Regions
	}
	assert.GreaterOrEqual(t, counts[types.ModeNormal], counts[types.ModeHard])
	assert.GreaterOrEqual(t, counts[types.ModeHard], counts[types.ModeVeryHard])
}

func TestStep_Listings(t *testing.T) {
	s := newTestSession(t)

	r := s.Step("reach")
	assert.Equal(t, "Reachable regions in normal: 8/188", r.Output[0])
	assert.Len(t, r.Output, 9)
	assert.Contains(t, output(s.Step("r morass")), "Intro Muddled Morass 0 (intro_muddled_morass0)")
	assert.Contains(t, output(s.Step("r volcano")), `none matching "volcano"`)

	assert.Contains(t, output(s.Step("locations")), "Reachable locations: ")
	out := output(s.Step("l intro landing right 2"))
	assert.Contains(t, out, "Intro Landing Right 2 is unreachable.")
	assert.Contains(t, out, "  Chest: Tweepers")

	assert.Contains(t, output(s.Step("pool")), "Item pool (248 items):")
	out = output(s.Step("pool movement"))
	assert.Contains(t, out, "Item pool, movement (8 items):")
	assert.Contains(t, out, "Sootling Leash")
	assert.NotContains(t, out, "Statue Piece")
	assert.Contains(t, output(s.Step("pool shoes")), `unknown item group "shoes"`)
	assert.Contains(t, output(s.Step("need")), "Missing progression items (43):")

	assert.Equal(t, "You hold nothing.", output(s.Step("i")))
	s.Step("collect noisemaker")
	assert.Equal(t, "You hold 1 item:\n  Noisemaker", output(s.Step("inventory")))
	assert.Contains(t, output(s.Step("need")), "Missing progression items (42):")
}

func TestStep_Trace(t *testing.T) {
	s := newTestSession(t)
	r := s.Step("collect mail bag")
	require.Len(t, r.Trace, 2)
	assert.True(t, strings.HasPrefix(r.Trace[0], "mode=normal fingerprint="))
	assert.True(t, strings.HasPrefix(r.Trace[1], "regions=11/188 "), r.Trace[1])
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestSession(t)
	s.Step("mode hard")
	s.Step("collect dive fish 2")
	s.Step("collect noisemaker")

	data, err := s.Snapshot()
	require.NoError(t, err)

	other := newTestSession(t)
	sd, err := other.Restore(data)
	require.NoError(t, err)
	assert.NotEmpty(t, sd.ID)
	assert.Equal(t, types.ModeHard, other.Mode)
	assert.Equal(t, s.Inv, other.Inv)
	assert.Equal(t, s.CommandLog, other.CommandLog)

	_, err = other.Restore([]byte("{"))
	assert.Error(t, err)
}

func TestRegionTitle(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, "Hub Village 4", s.RegionTitle("hub_village4"))
	assert.Equal(t, "Menu", s.RegionTitle("menu"))
	assert.Equal(t, "Win", s.RegionTitle("win"))
}

func TestSubtract(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, subtract([]string{"a", "b", "c"}, []string{"b", "d"}))
	assert.Nil(t, subtract([]string{"a"}, []string{"a"}))
}
