// Yokulogic answers "what can I reach with these items?" for the Yoku's
// Island Express randomizer, as an interactive explorer or an MCP server.
// Usage: yokulogic [--version] [--plain] [--script <file>] [--trace]
//
//	[--mode <mode>] [--config <file>] [--content <dir>] [--mcp | --mcp-http [<addr>]]
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/nathoo/yokulogic/cli"
	"github.com/nathoo/yokulogic/config"
	"github.com/nathoo/yokulogic/explorer"
	"github.com/nathoo/yokulogic/logger"
	"github.com/nathoo/yokulogic/mcpserver"
	"github.com/nathoo/yokulogic/service"
	"github.com/nathoo/yokulogic/tui"
	"github.com/nathoo/yokulogic/types"
	"github.com/nathoo/yokulogic/world"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: yokulogic [--version] [--plain] [--script <file>] [--trace] [--mode <mode>] [--config <file>] [--content <dir>] [--mcp | --mcp-http [<addr>]]\n"

func main() {
	plain := false
	trace := false
	mcpStdio := false
	mcpHTTP := false
	var scriptFile, configFile, contentDir, modeName, mcpAddr string

	args := os.Args[1:]
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("yokulogic %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--mcp":
			mcpStdio = true
		case "--mcp-http":
			mcpHTTP = true
			// An address may follow; otherwise the configured one is used.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
				i++
				mcpAddr = args[i]
			}
		case "--script":
			scriptFile = value(&i, "--script")
		case "--config":
			configFile = value(&i, "--config")
		case "--content":
			contentDir = value(&i, "--content")
		case "--mode":
			modeName = value(&i, "--mode")
		default:
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if modeName != "" {
		m, err := types.ParseMode(modeName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Mode = m
	}
	if mcpAddr != "" {
		cfg.MCPAddr = mcpAddr
	}
	if trace {
		cfg.LogLevel = slog.LevelDebug
	}

	interactive := !mcpStdio && !mcpHTTP
	var log *slog.Logger
	if interactive && !trace {
		// The explorer owns the terminal; keep the logs out of its way.
		log = logger.SetupWriter(cfg, io.Discard)
	} else {
		log = logger.Setup(cfg)
	}

	w, err := loadWorld(contentDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading logic: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := service.New(w, openCache(ctx, cfg, log), cfg.CacheTTL, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logic: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	switch {
	case mcpStdio:
		err = mcpserver.New(svc, cfg.Mode, version, log).RunStdio(ctx)
	case mcpHTTP:
		err = mcpserver.New(svc, cfg.Mode, version, log).ServeHTTP(ctx, cfg.MCPAddr, cfg.MCPPath, cfg.MCPOrigins, cfg.MCPToken)
	default:
		err = explore(svc, cfg, scriptFile, plain, trace)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadWorld(dir string) (*world.World, error) {
	if dir == "" {
		return world.Default()
	}
	return world.Load(os.DirFS(dir))
}

// openCache prefers redis when configured and reachable, and falls back to
// an in-process LRU.
func openCache(ctx context.Context, cfg *config.Config, log *slog.Logger) service.Cache {
	if cfg.RedisURL == "" {
		return service.NewMemoryCache(cfg.CacheSize)
	}
	rc, err := service.NewRedisCache(cfg.RedisURL, log)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = rc.Ping(pingCtx)
		cancel()
		if err == nil {
			log.Info("using redis cache")
			return rc
		}
		rc.Close()
	}
	logger.WithError(log, err).Warn("redis unavailable, using memory cache")
	return service.NewMemoryCache(cfg.CacheSize)
}

func explore(svc *service.Service, cfg *config.Config, scriptFile string, plain, trace bool) error {
	session := explorer.New(svc, cfg.Mode)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		c := cli.New(session, cfg.SaveDir)
		c.In = f
		c.EchoInput = true
		c.Meta.Trace = trace
		c.Run()
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(session, cfg.SaveDir)
		c.Meta.Trace = trace
		c.Color = isTerminal()
		c.Run()
		return nil
	}

	return tui.Run(session, cfg.SaveDir, trace)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
