package main

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
)

// envPrefix is the prefix of every recognized environment variable.
const envPrefix = "MD2SITE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath     string // MD2SITE_CONFIG: config file name or path
	InputDir       string // MD2SITE_INPUT_DIR: default input directory
	OutputDir      string // MD2SITE_OUTPUT_DIR: default output directory
	Title          string // MD2SITE_TITLE: page title
	Style          string // MD2SITE_STYLE: built-in stylesheet
	HighlightStyle string // MD2SITE_HIGHLIGHT_STYLE: chroma style
	Workers        int    // MD2SITE_WORKERS: parallel workers
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":          true,
	"MD2SITE_INPUT_DIR":       true,
	"MD2SITE_OUTPUT_DIR":      true,
	"MD2SITE_TITLE":           true,
	"MD2SITE_STYLE":           true,
	"MD2SITE_HIGHLIGHT_STYLE": true,
	"MD2SITE_WORKERS":         true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid or non-positive MD2SITE_WORKERS values are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("MD2SITE_CONFIG"),
		InputDir:       getenv("MD2SITE_INPUT_DIR"),
		OutputDir:      getenv("MD2SITE_OUTPUT_DIR"),
		Title:          getenv("MD2SITE_TITLE"),
		Style:          getenv("MD2SITE_STYLE"),
		HighlightStyle: getenv("MD2SITE_HIGHLIGHT_STYLE"),
	}

	if workers := getenv("MD2SITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognized MD2SITE_* variable.
// Helps catch typos like MD2SITE_OUTPUT instead of MD2SITE_OUTPUT_DIR.
func warnUnknownEnvVars(environ []string, logger *slog.Logger) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Title != "" && cfg.Site.Title == "" {
		cfg.Site.Title = env.Title
	}
	if env.Style != "" && cfg.Site.Style == "" {
		cfg.Site.Style = env.Style
	}

	// A highlight style implies highlighting
	if env.HighlightStyle != "" && cfg.Highlight.Style == "" {
		cfg.Highlight.Style = env.HighlightStyle
		cfg.Highlight.Enabled = true
	}

	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
