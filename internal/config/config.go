package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field limits.
const (
	MaxPathLength  = 4096
	MaxTitleLength = 200
	MaxStyleLength = 50
	MaxIndent      = 8
	MaxWorkers     = 64
)

// DefaultAssetsDir is the assets directory used when none is configured.
const DefaultAssetsDir = "assets"

// Config holds all configuration for site generation.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Assets    AssetsConfig    `yaml:"assets"`
	Site      SiteConfig      `yaml:"site"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Highlight HighlightConfig `yaml:"highlight"`
	Workers   int             `yaml:"workers"` // 0 = derive from GOMAXPROCS
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Used when no input directory is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir  string `yaml:"defaultDir"`  // Empty = same as input
	StopOnError bool   `yaml:"stopOnError"` // Abort on the first failed file
}

// AssetsConfig defines the static asset directory.
type AssetsConfig struct {
	Dir string `yaml:"dir"` // Relative to the working directory (default: "assets")
}

// SiteConfig defines page layout options.
type SiteConfig struct {
	Title   string `yaml:"title"`   // <title> of every page (default: "Title")
	Profile string `yaml:"profile"` // "shelled" or "minimal"
	Indent  int    `yaml:"indent"`  // Spaces per level, 0 = default
	Style   string `yaml:"style"`   // Built-in stylesheet name, "" = none
}

// MarkdownConfig defines parse and render switches.
type MarkdownConfig struct {
	Safe         bool `yaml:"safe"`
	Smart        bool `yaml:"smart"`
	HardBreaks   bool `yaml:"hardBreaks"`
	NoBreaks     bool `yaml:"noBreaks"`
	SourcePos    bool `yaml:"sourcePos"`
	Normalize    bool `yaml:"normalize"`
	ValidateUTF8 bool `yaml:"validateUTF8"`
	Linkify      bool `yaml:"linkify"`
	HeadingIDs   bool `yaml:"headingIDs"`
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Enabled bool   `yaml:"enabled"`
	Style   string `yaml:"style"` // chroma style name
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.dir", c.Assets.Dir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.title", c.Site.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.style", c.Site.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	switch strings.ToLower(c.Site.Profile) {
	case "", "shelled", "minimal", "simple":
		// valid
	default:
		return fmt.Errorf("%w: site.profile %q (must be shelled or minimal)", ErrInvalidValue, c.Site.Profile)
	}

	if c.Site.Indent < 0 || c.Site.Indent > MaxIndent {
		return fmt.Errorf("%w: site.indent must be between 0 and %d, got %d", ErrInvalidValue, MaxIndent, c.Site.Indent)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}
	if c.Markdown.HardBreaks && c.Markdown.NoBreaks {
		return fmt.Errorf("%w: markdown.hardBreaks and markdown.noBreaks are exclusive", ErrInvalidValue)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Assets: AssetsConfig{Dir: DefaultAssetsDir},
		Site:   SiteConfig{Profile: "shelled"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = DefaultAssetsDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files tried for a config name, in order:
// the current directory, then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "md2site", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
