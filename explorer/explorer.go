// Package explorer runs an interactive logic session: the user collects and
// drops items, switches modes, and asks what that opens up. The CLI and the
// TUI both drive a Session one command at a time.
package explorer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/yokulogic/engine/inventory"
	"github.com/nathoo/yokulogic/engine/parser"
	"github.com/nathoo/yokulogic/engine/resolve"
	"github.com/nathoo/yokulogic/engine/save"
	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/types"
)

// Session holds one user's mode and inventory.
type Session struct {
	Mode       types.Mode
	Inv        inventory.Counts
	CommandLog []string

	svc       *service.Service
	ctx       context.Context
	items     []resolve.Candidate
	locations []resolve.Candidate
	regions   []resolve.Candidate
	title     cases.Caser
}

// Status is the summary shown after every step.
type Status struct {
	Mode           types.Mode
	Regions        int
	TotalRegions   int
	Locations      int
	TotalLocations int
	Goal           bool
	Items          int
}

// New starts an empty session in mode.
func New(svc *service.Service, mode types.Mode) *Session {
	s := &Session{
		Mode:  mode,
		Inv:   inventory.Counts{},
		svc:   svc,
		ctx:   context.Background(),
		title: cases.Title(language.English),
	}
	for _, it := range svc.World().Tables.Items {
		s.items = append(s.items, resolve.Candidate{Name: it.Name, Aliases: it.Aliases})
	}
	// Locations and regions are the same in every mode; only exits differ.
	g, _ := svc.Graph(types.ModeNormal)
	for _, loc := range g.Locations() {
		s.locations = append(s.locations, resolve.Candidate{Name: loc.Name})
	}
	for _, r := range g.Regions() {
		s.regions = append(s.regions, resolve.Candidate{Name: r.Name})
	}
	return s
}

// WithContext sets the context used for service calls.
func (s *Session) WithContext(ctx context.Context) *Session {
	s.ctx = ctx
	return s
}

// Service returns the logic service behind the session.
func (s *Session) Service() *service.Service {
	return s.svc
}

// Completions lists every item, location and region name.
func (s *Session) Completions() []string {
	var out []string
	for _, group := range [][]resolve.Candidate{s.items, s.locations, s.regions} {
		for _, c := range group {
			out = append(out, c.Name)
		}
	}
	return out
}

// Step runs one explorer command.
func (s *Session) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	s.CommandLog = append(s.CommandLog, input)

	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to check?")
		return result
	}

	before, err := s.svc.Check(s.ctx, s.Mode, s.Inv)
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}

	var out []string
	switch intent.Verb {
	case "collect":
		out, err = s.collect(intent)
	case "drop":
		out, err = s.drop(intent)
	case "inventory":
		out = s.inventory()
	case "reach":
		out = s.reach(before, intent.Object)
	case "locations":
		out, err = s.listLocations(before, intent.Object)
	case "can":
		out, err = s.can(intent.Object)
	case "goal":
		out = s.goal(before)
	case "path":
		out, err = s.path(intent.Object)
	case "where":
		out, err = s.where(intent.Object)
	case "mode":
		out, err = s.setMode(intent.Object)
	case "pool":
		out, err = s.pool(intent.Object)
	case "everything":
		s.Inv = s.svc.World().Tables.Pool()
		out = []string{"You now hold the whole item pool."}
	case "reset":
		s.Inv = inventory.Counts{}
		out = []string{"Inventory cleared."}
	case "missing":
		out = s.missing()
	case "help":
		out = helpLines
	default:
		out = []string{fmt.Sprintf("I don't know how to %q. Type help for commands.", intent.Verb)}
	}
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	result.Output = append(result.Output, out...)

	after, err := s.svc.Check(s.ctx, s.Mode, s.Inv)
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}
	result.Output = append(result.Output, s.diff(before, after)...)
	result.Trace = append(result.Trace,
		fmt.Sprintf("mode=%s fingerprint=%s", after.Mode, after.Fingerprint[:12]),
		fmt.Sprintf("regions=%d/%d locations=%d/%d goal=%t",
			len(after.Regions), after.TotalRegions, len(after.Locations), after.TotalLocations, after.Goal),
	)
	if len(after.Events) > 0 {
		result.Trace = append(result.Trace, "events="+strings.Join(after.Events, ", "))
	}
	return result
}

// Status summarizes the current session.
func (s *Session) Status() (Status, error) {
	r, err := s.svc.Check(s.ctx, s.Mode, s.Inv)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Mode:           s.Mode,
		Regions:        len(r.Regions),
		TotalRegions:   r.TotalRegions,
		Locations:      len(r.Locations),
		TotalLocations: r.TotalLocations,
		Goal:           r.Goal,
		Items:          s.Inv.Total(),
	}, nil
}

// Snapshot serializes the session.
func (s *Session) Snapshot() ([]byte, error) {
	return save.Save(s.Mode, s.Inv, s.CommandLog)
}

// Restore replaces the session with a snapshot.
func (s *Session) Restore(data []byte) (*save.SaveData, error) {
	sd, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	mode, inv, err := save.Apply(sd)
	if err != nil {
		return nil, err
	}
	s.Mode = mode
	s.Inv = inv
	s.CommandLog = sd.CommandLog
	return sd, nil
}

// RegionTitle renders a region name for display: "hub_village4" becomes
// "Hub Village 4".
func (s *Session) RegionTitle(name string) string {
	var words []string
	for _, w := range strings.Fields(strings.ReplaceAll(name, "_", " ")) {
		i := len(w)
		for i > 0 && w[i-1] >= '0' && w[i-1] <= '9' {
			i--
		}
		if i > 0 && i < len(w) {
			words = append(words, w[:i], w[i:])
			continue
		}
		words = append(words, w)
	}
	return s.title.String(strings.Join(words, " "))
}

func (s *Session) diff(before, after *service.Report) []string {
	var out []string
	gained := subtract(after.Regions, before.Regions)
	lost := subtract(before.Regions, after.Regions)
	if len(gained) > 0 {
		out = append(out, fmt.Sprintf("+%d %s: %s", len(gained), plural(len(gained), "region"), s.titles(gained)))
	}
	if len(lost) > 0 {
		out = append(out, fmt.Sprintf("-%d %s: %s", len(lost), plural(len(lost), "region"), s.titles(lost)))
	}
	switch {
	case after.Goal && !before.Goal:
		out = append(out, "The goal is now reachable!")
	case before.Goal && !after.Goal:
		out = append(out, "The goal is no longer reachable.")
	}
	return out
}

func (s *Session) titles(names []string) string {
	const limit = 6
	shown := names
	if len(shown) > limit {
		shown = shown[:limit]
	}
	parts := make([]string, len(shown))
	for i, n := range shown {
		parts[i] = s.RegionTitle(n)
	}
	text := strings.Join(parts, ", ")
	if len(names) > limit {
		text += fmt.Sprintf(" and %d more", len(names)-limit)
	}
	return text
}

// subtract returns the sorted names in a but not in b. Both are sorted.
func subtract(a, b []string) []string {
	var out []string
	j := 0
	for _, n := range a {
		for j < len(b) && b[j] < n {
			j++
		}
		if j < len(b) && b[j] == n {
			continue
		}
		out = append(out, n)
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func countLabel(name string, n int) string {
	if n == 1 {
		return name
	}
	return name + " x" + strconv.Itoa(n)
}

// Help lists the explorer commands.
func Help() []string {
	return helpLines
}

var helpLines = []string{
	"Commands:",
	"  collect <item> [n|all] (+)  Add items to the inventory",
	"  drop <item> [n|all] (-)     Remove items",
	"  inventory (i)               List held items",
	"  reach [filter] (r)          List reachable regions",
	"  locations [region] (l)      List reachable locations",
	"  can <location> (?)          Check one location",
	"  goal                        Check the goal",
	"  path <region|location>      Show a route to a region",
	"  where <location>            Show which region holds a location",
	"  mode [normal|hard|very_hard] Show or switch the logic mode",
	"  pool [group]                List the item pool",
	"  everything (all)            Hold the whole pool",
	"  reset                       Drop everything",
	"  missing (need)              List progression items not yet held",
}
