package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// modeDisplayName renders a mode for the status bar: "very_hard" becomes
// "Very Hard".
func modeDisplayName(mode string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(mode, "_", " "))
}

// renderStatusBar produces a full-width status line showing the mode,
// reachable regions and locations, held items and whether the goal is met.
func (m Model) renderStatusBar() string {
	st, err := m.session.Status()
	if err != nil {
		return styleStatusBar.Width(m.width).Render(" " + err.Error())
	}

	left := fmt.Sprintf(" %s | Regions %d/%d | Locations %d/%d",
		modeDisplayName(st.Mode.String()), st.Regions, st.TotalRegions, st.Locations, st.TotalLocations)
	right := fmt.Sprintf("Items: %d | Goal: no ", st.Items)
	if st.Goal {
		right = fmt.Sprintf("Items: %d | Goal: yes ", st.Items)
	}

	// Drop the location counts when the bar is too narrow.
	if lipgloss.Width(left)+lipgloss.Width(right)+1 > m.width {
		left = fmt.Sprintf(" %s | R %d/%d", modeDisplayName(st.Mode.String()), st.Regions, st.TotalRegions)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	if st.Goal {
		return styleStatusGoal.Width(m.width).Render(bar)
	}
	return styleStatusBar.Width(m.width).Render(bar)
}
