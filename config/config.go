// Package config reads settings from defaults, an optional ini file and the
// environment, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/nathoo/yokulogic/types"
)

type Config struct {
	Mode        types.Mode
	Environment string
	LogLevel    slog.Level

	RedisURL  string
	CacheSize int
	CacheTTL  time.Duration

	MCPAddr    string
	MCPPath    string
	MCPToken   string
	MCPOrigins []string

	SaveDir string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Mode:        types.ModeNormal,
		Environment: "development",
		LogLevel:    slog.LevelInfo,
		CacheSize:   1024,
		CacheTTL:    10 * time.Minute,
		MCPAddr:     "127.0.0.1:8765",
		MCPPath:     "/mcp",
		SaveDir:     defaultSaveDir(),
	}
}

// Load applies an ini file at path (skipped when path is empty) and then
// the environment on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	mode := cfg.Mode.String()
	level := "info"

	if path != "" {
		f, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		mode = f.Section("logic").Key("mode").MustString(mode)
		cfg.Environment = f.Section("log").Key("environment").MustString(cfg.Environment)
		level = f.Section("log").Key("level").MustString(level)
		cfg.RedisURL = f.Section("cache").Key("redis_url").String()
		cfg.CacheSize = f.Section("cache").Key("size").MustInt(cfg.CacheSize)
		cfg.CacheTTL = time.Duration(f.Section("cache").Key("ttl_seconds").MustInt(int(cfg.CacheTTL/time.Second))) * time.Second
		cfg.MCPAddr = f.Section("mcp").Key("addr").MustString(cfg.MCPAddr)
		cfg.MCPPath = f.Section("mcp").Key("path").MustString(cfg.MCPPath)
		cfg.MCPToken = f.Section("mcp").Key("token").String()
		cfg.MCPOrigins = f.Section("mcp").Key("origins").Strings(",")
		cfg.SaveDir = f.Section("explorer").Key("save_dir").MustString(cfg.SaveDir)
	}

	mode = getEnv("YOKU_MODE", mode)
	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	level = getEnv("LOG_LEVEL", level)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CacheSize = getEnvInt("YOKU_CACHE_SIZE", cfg.CacheSize)
	cfg.CacheTTL = time.Duration(getEnvInt("YOKU_CACHE_TTL", int(cfg.CacheTTL/time.Second))) * time.Second
	cfg.MCPAddr = getEnv("YOKU_MCP_ADDR", cfg.MCPAddr)
	cfg.MCPPath = getEnv("YOKU_MCP_PATH", cfg.MCPPath)
	cfg.MCPToken = getEnv("YOKU_MCP_TOKEN", cfg.MCPToken)
	cfg.SaveDir = getEnv("YOKU_SAVE_DIR", cfg.SaveDir)
	if origins := os.Getenv("YOKU_MCP_ORIGINS"); origins != "" {
		cfg.MCPOrigins = splitList(origins)
	}

	m, err := types.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Mode = m
	cfg.LogLevel = parseLogLevel(level)

	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("config: cache size must be positive, got %d", cfg.CacheSize)
	}
	if !strings.HasPrefix(cfg.MCPPath, "/") {
		cfg.MCPPath = "/" + cfg.MCPPath
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "saves")
	}
	return filepath.Join(home, ".yokulogic", "saves")
}
