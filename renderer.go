package md2site

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Renderer consumes an event stream and writes HTML.
// A Renderer is single use and must not be shared between goroutines.
type Renderer interface {
	// Begin writes anything that precedes the document body.
	Begin(w io.Writer) error
	// Render handles one event.
	Render(w io.Writer, ev Event) error
	// End writes anything that follows the body. It fails if the stream
	// stopped before the Document Exit event.
	End(w io.Writer) error
}

var (
	_ Renderer = (*MinimalRenderer)(nil)
	_ Renderer = (*ShellRenderer)(nil)
)

// Profile selects the renderer used for a document.
type Profile int

const (
	// ProfileShelled wraps the body in a full HTML document with assets.
	ProfileShelled Profile = iota
	// ProfileMinimal emits the body fragment only.
	ProfileMinimal
)

func (p Profile) String() string {
	if p == ProfileMinimal {
		return "minimal"
	}
	return "shelled"
}

// ParseProfile converts a profile name. "simple" is accepted for ProfileMinimal.
func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "shelled", "shell":
		return ProfileShelled, nil
	case "minimal", "simple":
		return ProfileMinimal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// MinimalRenderer writes a bare HTML fragment without indentation.
type MinimalRenderer struct {
	m machine
}

// NewMinimalRenderer creates a fragment renderer. A nil logger discards
// diagnostics.
func NewMinimalRenderer(opts Options, logger *slog.Logger) *MinimalRenderer {
	return &MinimalRenderer{m: newMachine(opts, minimalLayout, nil, logger, 0)}
}

// Begin writes nothing.
func (r *MinimalRenderer) Begin(io.Writer) error { return nil }

func (r *MinimalRenderer) Render(w io.Writer, ev Event) error { return r.m.render(w, ev) }

// End verifies the stream was complete.
func (r *MinimalRenderer) End(io.Writer) error { return r.m.finish() }

// Depth returns the current indent depth.
func (r *MinimalRenderer) Depth() int { return r.m.Depth() }

// ShellRenderer writes a complete HTML document: the Shell prologue, the
// indented body and the footer.
type ShellRenderer struct {
	m     machine
	shell Shell
}

// ShellConfig holds the collaborators of a ShellRenderer.
type ShellConfig struct {
	Shell       Shell
	Options     Options
	Highlighter *Highlighter
	Logger      *slog.Logger
}

// NewShellRenderer creates a document renderer. The body starts two levels
// deep, inside <body> and the container div.
func NewShellRenderer(cfg ShellConfig) *ShellRenderer {
	lay := shellLayout
	lay.indent = cfg.Shell.indent()
	return &ShellRenderer{
		m:     newMachine(cfg.Options, lay, cfg.Highlighter, cfg.Logger, shellBodyDepth),
		shell: cfg.Shell,
	}
}

// Begin writes the document head.
func (r *ShellRenderer) Begin(w io.Writer) error { return r.shell.WriteHeader(w) }

func (r *ShellRenderer) Render(w io.Writer, ev Event) error { return r.m.render(w, ev) }

// End writes the footer once the body is complete.
func (r *ShellRenderer) End(w io.Writer) error {
	if err := r.m.finish(); err != nil {
		return err
	}
	return r.shell.WriteFooter(w)
}

// Depth returns the current indent depth.
func (r *ShellRenderer) Depth() int { return r.m.Depth() }
