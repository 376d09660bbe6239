package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/dustin/go-humanize"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input directory specified")
	ErrInputNotDir        = errors.New("input is not a directory")
	ErrTooManyArgs        = errors.New("too many arguments")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidVerbosity   = errors.New("invalid verbosity")
	ErrConversionFailed   = errors.New("conversion failed")
)

// highlightCSS is the name of the generated highlighting stylesheet.
const highlightCSS = "chroma.css"

// runSite orchestrates a site build: settings, assets, discovery, batch.
func runSite(ctx context.Context, args []string, flags *siteFlags, env *Environment, logger *slog.Logger) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: expected one input directory, got %d", ErrTooManyArgs, len(args))
	}

	// Settings: CLI flags > env vars > config file > defaults
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Environ(), logger)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	inputDir, err := resolveInputDir(args, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(inputDir, cfg)
	if err := os.MkdirAll(outputDir, fileutil.DirPerm); err != nil {
		return fmt.Errorf("%w: %v%s", md2site.ErrCreateDir, err, hints.ForOutputDirectory())
	}

	profile, err := md2site.ParseProfile(cfg.Site.Profile)
	if err != nil {
		return err
	}
	hl, err := newHighlighter(cfg, profile, logger)
	if err != nil {
		return err
	}
	converter := buildConverter(cfg, profile, hl, logger)

	var siteAssets []md2site.Asset
	if profile == md2site.ProfileShelled {
		siteAssets, err = publishAssets(ctx, cfg, outputDir, hl, env.Styles, logger)
		if err != nil {
			if cfg.Output.StopOnError {
				return err
			}
			logger.Error("assets not published", "dir", cfg.Assets.Dir, "err", err)
		}
	} else {
		logger.Info("minimal profile, skipping assets")
	}

	jobs, err := discoverFiles(ctx, inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	converts, copies := countKinds(jobs)
	if converts == 0 {
		logger.Warn("no markdown files found", "dir", inputDir)
	}

	workers := resolvePoolSize(cfg.Workers)
	logger.Info("starting conversion",
		"input", inputDir, "output", outputDir, "markdown", converts, "other", copies, "workers", workers)

	results := convertBatch(ctx, workers, jobs, &batchParams{
		converter: converter,
		assets:    siteAssets,
		noPersist: cfg.Output.StopOnError,
		logger:    logger,
		now:       env.Now,
	})

	verbose := flags.common.verbose >= maxVerbosity
	summary := printResultsWithWriter(results, flags.common.quiet, verbose, env)

	return summaryError(ctx, summary, len(results), cfg)
}

// summaryError turns a batch summary into the command's error.
// A contract violation wins over other failures; in no-persist mode the first
// failure is returned as is so its class decides the exit code.
func summaryError(ctx context.Context, s ResultSummary, total int, cfg *config.Config) error {
	switch {
	case s.Contract != nil:
		return fmt.Errorf("%w%s", s.Contract, hints.ForContractViolation())
	case ctx.Err() != nil:
		return fmt.Errorf("interrupted: %w", ctx.Err())
	case s.Failed == 0:
		return nil
	case cfg.Output.StopOnError:
		return fmt.Errorf("%w%s", s.FirstErr, encodingHint(s.FirstErr, cfg))
	default:
		return fmt.Errorf("%w: %d of %d file(s) failed%s",
			ErrConversionFailed, s.Failed, total, encodingHint(s.FirstErr, cfg))
	}
}

func encodingHint(err error, cfg *config.Config) string {
	if errors.Is(err, md2site.ErrInvalidUTF8) || errors.Is(err, md2site.ErrNulByte) {
		return hints.ForEncoding(cfg.Markdown.ValidateUTF8)
	}
	return ""
}

// loadConfig loads the config named by the flag, else by MD2SITE_CONFIG,
// else returns defaults.
func loadConfig(flagConfig, envConfig string) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envConfig
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *siteFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}
	if flags.noPersist {
		cfg.Output.StopOnError = true
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	// Site
	if flags.simple {
		cfg.Site.Profile = md2site.ProfileMinimal.String()
	}
	if flags.title != "" {
		cfg.Site.Title = flags.title
	}

	// Assets
	if flags.assets.dir != "" {
		cfg.Assets.Dir = flags.assets.dir
	}
	if flags.assets.style != "" {
		cfg.Site.Style = flags.assets.style
	}
	if flags.assets.highlight {
		cfg.Highlight.Enabled = true
	}
	if flags.assets.highlightStyle != "" {
		cfg.Highlight.Style = flags.assets.highlightStyle
		cfg.Highlight.Enabled = true
	}

	// Markdown
	m := flags.markdown
	cfg.Markdown.Safe = cfg.Markdown.Safe || m.safe
	cfg.Markdown.Smart = cfg.Markdown.Smart || m.smart
	cfg.Markdown.SourcePos = cfg.Markdown.SourcePos || m.sourcePos
	cfg.Markdown.Normalize = cfg.Markdown.Normalize || m.normalize
	cfg.Markdown.ValidateUTF8 = cfg.Markdown.ValidateUTF8 || m.validateUTF8
	cfg.Markdown.Linkify = cfg.Markdown.Linkify || m.linkify
	cfg.Markdown.HeadingIDs = cfg.Markdown.HeadingIDs || m.headingIDs

	// The break flags are exclusive: a flag replaces the config choice
	switch {
	case m.hardBreaks && m.noBreaks:
		cfg.Markdown.HardBreaks, cfg.Markdown.NoBreaks = true, true
	case m.hardBreaks:
		cfg.Markdown.HardBreaks, cfg.Markdown.NoBreaks = true, false
	case m.noBreaks:
		cfg.Markdown.HardBreaks, cfg.Markdown.NoBreaks = false, true
	}
}

// resolveInputDir returns the input directory from args or config.
func resolveInputDir(args []string, cfg *config.Config) (string, error) {
	dir := cfg.Input.DefaultDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForInputDirectory())
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s%s", ErrInputNotDir, dir, hints.ForInputDirectory())
	}
	return filepath.Clean(dir), nil
}

// resolveOutputDir returns the output directory, defaulting to the input.
func resolveOutputDir(inputDir string, cfg *config.Config) string {
	if cfg.Output.DefaultDir != "" {
		return filepath.Clean(cfg.Output.DefaultDir)
	}
	return inputDir
}

// markdownOptions maps the config switches to parser options.
func markdownOptions(m config.MarkdownConfig) md2site.Options {
	return md2site.Options{
		SourcePos:    m.SourcePos,
		HardBreaks:   m.HardBreaks,
		Safe:         m.Safe,
		NoBreaks:     m.NoBreaks,
		Normalize:    m.Normalize,
		ValidateUTF8: m.ValidateUTF8,
		Smart:        m.Smart,
		Linkify:      m.Linkify,
		HeadingIDs:   m.HeadingIDs,
	}
}

// newHighlighter returns the configured highlighter, or nil when highlighting
// is off or the profile has no page shell to link its stylesheet from.
func newHighlighter(cfg *config.Config, profile md2site.Profile, logger *slog.Logger) (*md2site.Highlighter, error) {
	if !cfg.Highlight.Enabled {
		return nil, nil
	}
	if profile != md2site.ProfileShelled {
		logger.Info("highlighting needs the page shell, ignored", "profile", profile.String())
		return nil, nil
	}

	hl, err := md2site.NewHighlighter(cfg.Highlight.Style)
	if err != nil {
		return nil, fmt.Errorf("%w%s", err, hints.ForHighlightStyle(styles.Names()))
	}
	return hl, nil
}

// buildConverter creates the converter shared by all workers.
func buildConverter(cfg *config.Config, profile md2site.Profile, hl *md2site.Highlighter, logger *slog.Logger) *md2site.Converter {
	opts := []md2site.Option{
		md2site.WithProfile(profile),
		md2site.WithParserOptions(markdownOptions(cfg.Markdown)),
		md2site.WithLogger(logger),
	}
	if hl != nil {
		opts = append(opts, md2site.WithHighlighter(hl))
	}
	if cfg.Site.Title != "" {
		opts = append(opts, md2site.WithTitle(cfg.Site.Title))
	}
	if cfg.Site.Indent > 0 {
		opts = append(opts, md2site.WithIndent(strings.Repeat(" ", cfg.Site.Indent)))
	}
	return md2site.NewConverter(opts...)
}

// publishAssets writes the site assets below {outputDir}/{base(assets dir)}
// and returns them in link order: built-in style, user assets, highlighting.
// A missing assets directory is not an error.
func publishAssets(ctx context.Context, cfg *config.Config, outputDir string, hl *md2site.Highlighter, loader assets.StyleLoader, logger *slog.Logger) ([]md2site.Asset, error) {
	base := filepath.Base(filepath.Clean(cfg.Assets.Dir))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		base = config.DefaultAssetsDir
	}

	dir, err := assets.NewDir(cfg.Assets.Dir)
	switch {
	case errors.Is(err, assets.ErrAssetsNotFound):
		logger.Info("no assets directory, pages link no user assets", "dir", cfg.Assets.Dir)
	case err != nil:
		return nil, err
	default:
		base = dir.Base()
	}

	pub := assets.NewPublisher(outputDir, base)
	var list []md2site.Asset
	var errs []error

	if cfg.Site.Style != "" {
		a, n, err := pub.WriteStyle(loader, cfg.Site.Style)
		switch {
		case errors.Is(err, assets.ErrStyleNotFound):
			errs = append(errs, fmt.Errorf("%w%s", err, hints.ForStyle(loader.Styles())))
		case err != nil:
			errs = append(errs, err)
		default:
			logger.Info("style written", "path", a.Path, "bytes", humanize.Bytes(uint64(n)))
			list = append(list, a)
		}
	}

	if dir != nil {
		res, err := pub.CopyDir(ctx, dir)
		if err != nil {
			errs = append(errs, err)
		}
		logger.Info("assets copied",
			"dir", cfg.Assets.Dir, "files", len(res.Assets), "copied", res.Copied, "bytes", humanize.Bytes(uint64(res.Bytes)))
		list = append(list, res.Assets...)
	}

	if hl != nil {
		a, n, err := pub.WriteFile(highlightCSS, hl.WriteCSS)
		if err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("highlight stylesheet written", "path", a.Path, "bytes", humanize.Bytes(uint64(n)))
			list = append(list, a)
		}
	}

	return list, errors.Join(errs...)
}
