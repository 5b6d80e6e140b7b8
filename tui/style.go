package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusGoal = lipgloss.NewStyle().
			Background(lipgloss.Color("34")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleGain = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34"))

	styleLoss = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	styleGoal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindPlain lineKind = iota
	kindHeading
	kindGain
	kindLoss
	kindGoal
	kindSystem
	kindError
	kindTrace
	kindInput
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "+"):
		return kindGain
	case strings.HasPrefix(line, "-"):
		return kindLoss
	case strings.HasPrefix(line, "The goal is now"),
		strings.HasPrefix(line, "Yes:"):
		return kindGoal
	case strings.HasPrefix(line, "No:"),
		strings.HasPrefix(line, "no "),
		strings.HasPrefix(line, "which "),
		strings.HasPrefix(line, "unknown mode"),
		strings.HasPrefix(line, "I don't know"):
		return kindError
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeading
	default:
		return kindPlain
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindHeading:
		return styleHeading.Render(line)
	case kindGain:
		return styleGain.Render(line)
	case kindLoss:
		return styleLoss.Render(line)
	case kindGoal:
		return styleGoal.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	case kindInput:
		return stylePlayerInput.Render(line)
	default:
		return stylePlain.Render(line)
	}
}
