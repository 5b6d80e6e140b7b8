package explorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/yokulogic/engine/resolve"
	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/types"
)

// resolveItem finds the item named by an intent. A trailing count that is
// really part of the name ("statue piece 2") is folded back in.
func (s *Session) resolveItem(intent types.Intent) (string, int, error) {
	if intent.Count > 0 {
		whole := intent.Object + " " + strconv.Itoa(intent.Count)
		for _, c := range s.items {
			if strings.EqualFold(c.Name, whole) {
				return c.Name, 1, nil
			}
		}
	}
	name, err := resolve.Resolve("item", intent.Object, s.items)
	if err != nil {
		return "", 0, err
	}
	n := intent.Count
	if n == 0 {
		n = 1
	}
	return name, n, nil
}

func (s *Session) collect(intent types.Intent) ([]string, error) {
	if intent.Object == "" {
		return []string{"Collect what?"}, nil
	}
	name, n, err := s.resolveItem(intent)
	if err != nil {
		return nil, err
	}
	item, _ := s.svc.World().Tables.Item(name)
	room := item.Count - s.Inv.Count(name)
	if room <= 0 {
		return []string{fmt.Sprintf("You already hold every %s in the pool (%d).", name, item.Count)}, nil
	}
	if n < 0 || n > room {
		n = room
	}
	s.Inv.Add(name, n)
	return []string{fmt.Sprintf("Collected %s (now %d/%d).", countLabel(name, n), s.Inv.Count(name), item.Count)}, nil
}

func (s *Session) drop(intent types.Intent) ([]string, error) {
	if intent.Object == "" {
		return []string{"Drop what?"}, nil
	}
	name, n, err := s.resolveItem(intent)
	if err != nil {
		return nil, err
	}
	held := s.Inv.Count(name)
	if held == 0 {
		return []string{fmt.Sprintf("You don't hold any %s.", name)}, nil
	}
	if n < 0 || n > held {
		n = held
	}
	s.Inv.Remove(name, n)
	return []string{fmt.Sprintf("Dropped %s (now %d).", countLabel(name, n), s.Inv.Count(name))}, nil
}

func (s *Session) inventory() []string {
	names := s.Inv.Names()
	if len(names) == 0 {
		return []string{"You hold nothing."}
	}
	out := []string{fmt.Sprintf("You hold %d %s:", s.Inv.Total(), plural(s.Inv.Total(), "item"))}
	for _, name := range names {
		out = append(out, "  "+countLabel(name, s.Inv.Count(name)))
	}
	return out
}

func (s *Session) reach(r *service.Report, filter string) []string {
	filter = strings.ToLower(filter)
	var shown []string
	for _, name := range r.Regions {
		title := s.RegionTitle(name)
		if filter != "" && !strings.Contains(strings.ToLower(title), filter) && !strings.Contains(name, filter) {
			continue
		}
		shown = append(shown, fmt.Sprintf("  %s (%s)", title, name))
	}
	out := []string{fmt.Sprintf("Reachable regions in %s: %d/%d", r.Mode, len(r.Regions), r.TotalRegions)}
	if filter != "" && len(shown) == 0 {
		return append(out, fmt.Sprintf("  none matching %q", filter))
	}
	return append(out, shown...)
}

func (s *Session) listLocations(r *service.Report, region string) ([]string, error) {
	if region == "" {
		out := []string{fmt.Sprintf("Reachable locations: %d/%d", len(r.Locations), r.TotalLocations)}
		for _, name := range r.Locations {
			out = append(out, "  "+name)
		}
		return out, nil
	}

	name, err := resolve.Resolve("region", region, s.regions)
	if err != nil {
		return nil, err
	}
	g, err := s.svc.Graph(s.Mode)
	if err != nil {
		return nil, err
	}
	reg, _ := g.Region(name)
	locs := g.LocationsOf(reg)
	state := "unreachable"
	if r.HasRegion(name) {
		state = "reachable"
	}
	out := []string{fmt.Sprintf("%s is %s.", s.RegionTitle(name), state)}
	if len(locs) == 0 {
		return append(out, "  It holds no locations."), nil
	}
	for _, loc := range locs {
		out = append(out, "  "+loc.Name)
	}
	return out, nil
}

func (s *Session) can(query string) ([]string, error) {
	if query == "" {
		return []string{"Check which location?"}, nil
	}
	name, err := resolve.Resolve("location", query, s.locations)
	if err != nil {
		return nil, err
	}
	ok, err := s.svc.LocationReachable(s.ctx, s.Mode, s.Inv, name)
	if err != nil {
		return nil, err
	}
	g, _ := s.svc.Graph(s.Mode)
	loc, _ := g.Location(name)
	if ok {
		return []string{fmt.Sprintf("Yes: %s is reachable (%s).", name, s.RegionTitle(loc.Region.Name))}, nil
	}
	return []string{fmt.Sprintf("No: %s is out of reach (%s).", name, s.RegionTitle(loc.Region.Name))}, nil
}

func (s *Session) goal(r *service.Report) []string {
	if r.Goal {
		return []string{fmt.Sprintf("The goal is reachable in %s.", r.Mode)}
	}
	return []string{fmt.Sprintf("The goal is not reachable in %s yet.", r.Mode)}
}

func (s *Session) path(query string) ([]string, error) {
	if query == "" {
		return []string{"Route to which region?"}, nil
	}
	name, err := s.routeTarget(query)
	if err != nil {
		return nil, err
	}
	e, err := s.svc.Engine(s.Mode)
	if err != nil {
		return nil, err
	}
	exits, ok := e.PathTo(s.Inv, name)
	if !ok {
		return []string{fmt.Sprintf("%s is not reachable.", s.RegionTitle(name))}, nil
	}
	if len(exits) == 0 {
		return []string{fmt.Sprintf("%s is where you start.", s.RegionTitle(name))}, nil
	}
	out := []string{fmt.Sprintf("Route to %s (%d %s):", s.RegionTitle(name), len(exits), plural(len(exits), "step"))}
	for i, ex := range exits {
		out = append(out, fmt.Sprintf("  %d. %s -> %s", i+1, s.RegionTitle(ex.From.Name), s.RegionTitle(ex.To.Name)))
	}
	return out, nil
}

// routeTarget resolves a region, or failing that the region holding a
// location.
func (s *Session) routeTarget(query string) (string, error) {
	name, err := resolve.Resolve("region", query, s.regions)
	if err == nil {
		return name, nil
	}
	locName, lerr := resolve.Resolve("location", query, s.locations)
	if lerr != nil {
		return "", err
	}
	g, gerr := s.svc.Graph(s.Mode)
	if gerr != nil {
		return "", gerr
	}
	loc, _ := g.Location(locName)
	return loc.Region.Name, nil
}

func (s *Session) where(query string) ([]string, error) {
	if query == "" {
		return []string{"Find which location?"}, nil
	}
	name, err := resolve.Resolve("location", query, s.locations)
	if err != nil {
		return nil, err
	}
	g, _ := s.svc.Graph(s.Mode)
	loc, _ := g.Location(name)
	return []string{fmt.Sprintf("%s is in %s (%s).", name, s.RegionTitle(loc.Region.Name), loc.Region.Name)}, nil
}

func (s *Session) setMode(arg string) ([]string, error) {
	if arg == "" {
		return []string{fmt.Sprintf("Mode: %s", s.Mode)}, nil
	}
	m, err := types.ParseMode(arg)
	if err != nil {
		return nil, err
	}
	if m == s.Mode {
		return []string{fmt.Sprintf("Already in %s.", m)}, nil
	}
	s.Mode = m
	return []string{fmt.Sprintf("Mode set to %s.", m)}, nil
}

func (s *Session) pool(group string) ([]string, error) {
	tables := s.svc.World().Tables
	items := tables.Items
	header := fmt.Sprintf("Item pool (%d items):", tables.Pool().Total())
	if group != "" {
		g, ok := parseGroup(group)
		if !ok {
			return nil, fmt.Errorf("unknown item group %q (want one of %s)", group, strings.Join(groupNames(), ", "))
		}
		items = tables.Group(g)
		total := 0
		for _, it := range items {
			total += it.Count
		}
		header = fmt.Sprintf("Item pool, %s (%d items):", g, total)
	}
	out := []string{header}
	for _, it := range items {
		out = append(out, fmt.Sprintf("  %-32s %d/%d  %s", it.Name, s.Inv.Count(it.Name), it.Count, tables.Classify(it.Name)))
	}
	return out, nil
}

var groups = []types.ItemGroup{
	types.GroupCollectible, types.GroupFruit, types.GroupMovement, types.GroupTracker,
	types.GroupKeys, types.GroupQuest, types.GroupMisc,
}

func parseGroup(s string) (types.ItemGroup, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range groups {
		if string(g) == s || string(g) == strings.TrimSuffix(s, "s") {
			return g, true
		}
	}
	return "", false
}

func groupNames() []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}

func (s *Session) missing() []string {
	var out []string
	for _, it := range s.svc.World().Tables.Progression() {
		if held := s.Inv.Count(it.Name); held < it.Count {
			out = append(out, fmt.Sprintf("  %s %d/%d", it.Name, held, it.Count))
		}
	}
	if len(out) == 0 {
		return []string{"You hold every progression item."}
	}
	return append([]string{fmt.Sprintf("Missing progression items (%d):", len(out))}, out...)
}
