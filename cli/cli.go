// Package cli is the line-oriented front end of the logic explorer: a prompt
// loop for terminals, pipes and script files.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gookit/color"

	"github.com/nathoo/yokulogic/explorer"
	"github.com/nathoo/yokulogic/types"
)

var (
	systemStyle = color.Style{color.FgGray}
	traceStyle  = color.Style{color.FgCyan}
	gainStyle   = color.Style{color.FgGreen}
	lossStyle   = color.Style{color.FgRed}
	goalStyle   = color.Style{color.FgYellow, color.OpBold}
)

// CLI reads explorer commands from In and writes their results to Out.
type CLI struct {
	Session   *explorer.Session
	Meta      *explorer.Meta
	In        io.Reader
	Out       io.Writer
	Color     bool // style diff, goal, trace and system lines
	EchoInput bool // repeat each line after the prompt, for script playback
}

// New creates a CLI on stdin and stdout saving sessions under saveDir.
func New(s *explorer.Session, saveDir string) *CLI {
	return &CLI{
		Session: s,
		Meta:    explorer.NewMeta(s, saveDir),
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run prints the banner and the starting status, then reads commands until
// input ends or /quit. Blank lines and '#' comments are skipped.
func (c *CLI) Run() {
	fmt.Fprintln(c.Out, "Yoku's Island Express logic explorer. Type help for commands, /help for system commands.")
	c.status()

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprint(c.Out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if c.EchoInput {
			fmt.Fprintln(c.Out, line)
		}
		if !c.dispatch(line) {
			return
		}
	}
}

// dispatch handles one line and reports whether to keep going.
func (c *CLI) dispatch(line string) bool {
	if strings.HasPrefix(line, "/") {
		return c.meta(line)
	}

	cmd, ok := c.Meta.Recall(line)
	if !ok {
		fmt.Fprintln(c.Out, "Nothing to repeat.")
		return true
	}
	result := c.Session.Step(cmd)
	c.write(result)
	return true
}

func (c *CLI) meta(line string) bool {
	if strings.Fields(line)[0] == "/help" {
		for _, l := range explorer.MetaHelp() {
			fmt.Fprintln(c.Out, l)
		}
		return true
	}

	lines, quit, known := c.Meta.Handle(line)
	if !known {
		lines = []string{explorer.Unknown(line)}
	}
	for _, l := range lines {
		c.system(l)
	}
	if quit {
		return false
	}
	switch strings.Fields(line)[0] {
	case "/load", "/state":
		c.status()
	}
	return true
}

func (c *CLI) write(result types.Result) {
	for _, line := range result.Output {
		switch {
		case strings.HasPrefix(line, "+"):
			c.styled(gainStyle, line)
		case strings.HasPrefix(line, "-"):
			c.styled(lossStyle, line)
		case strings.HasPrefix(line, "The goal is now"):
			c.styled(goalStyle, line)
		default:
			fmt.Fprintln(c.Out, line)
		}
	}
	if c.Meta.Trace {
		for _, line := range result.Trace {
			c.styled(traceStyle, "[trace] "+line)
		}
	}
}

func (c *CLI) status() {
	st, err := c.Session.Status()
	if err != nil {
		c.system(err.Error())
		return
	}
	goal := "no"
	if st.Goal {
		goal = "yes"
	}
	c.system(fmt.Sprintf("%s | regions %d/%d | locations %d/%d | goal %s",
		st.Mode, st.Regions, st.TotalRegions, st.Locations, st.TotalLocations, goal))
}

func (c *CLI) system(text string) {
	c.styled(systemStyle, "["+text+"]")
}

func (c *CLI) styled(style color.Style, text string) {
	if c.Color {
		text = style.Sprint(text)
	}
	fmt.Fprintln(c.Out, text)
}
