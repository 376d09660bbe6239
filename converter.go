package md2site

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"strings"
)

// Converter turns Markdown into HTML with a fixed profile and option set.
// A Converter holds no per-document state and may be shared between goroutines;
// each Convert call builds its own parser, cursor and renderer.
type Converter struct {
	profile     Profile
	opts        Options
	highlighter *Highlighter
	logger      *slog.Logger
	indent      string
	title       string
}

// Option configures a Converter.
type Option func(*Converter)

// WithProfile selects the minimal or shelled output.
func WithProfile(p Profile) Option {
	return func(c *Converter) {
		c.profile = p
	}
}

// WithParserOptions sets the parse and render options.
func WithParserOptions(opts Options) Option {
	return func(c *Converter) {
		c.opts = opts
	}
}

// WithHighlighter enables chroma highlighting of fenced code blocks in the
// shelled profile.
func WithHighlighter(h *Highlighter) Option {
	return func(c *Converter) {
		c.highlighter = h
	}
}

// WithLogger sets the logger receiving renderer diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithIndent sets the indentation unit of the shelled profile.
// Panics if s contains anything but spaces and tabs (programmer error).
func WithIndent(s string) Option {
	if strings.Trim(s, " \t") != "" {
		panic("md2site: WithIndent accepts spaces and tabs only")
	}
	return func(c *Converter) {
		c.indent = s
	}
}

// WithTitle sets the default document title.
func WithTitle(title string) Option {
	return func(c *Converter) {
		c.title = title
	}
}

// NewConverter creates a Converter. The default is the shelled profile with
// zero Options, no highlighting and a discarding logger.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		logger: slog.New(slog.DiscardHandler),
		indent: DefaultIndent,
		title:  DefaultTitle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document carries the per-file data of the shelled profile.
type Document struct {
	Assets []Asset
	// Distance is the directory depth of the output file below the output root.
	Distance int
	// Title overrides the converter's title when non-empty.
	Title string
}

// Profile returns the converter's profile.
func (c *Converter) Profile() Profile {
	return c.profile
}

// NewRenderer returns a fresh renderer for one document.
func (c *Converter) NewRenderer(doc Document) Renderer {
	if c.profile == ProfileMinimal {
		return NewMinimalRenderer(c.opts, c.logger)
	}
	title := doc.Title
	if title == "" {
		title = c.title
	}
	return NewShellRenderer(ShellConfig{
		Shell: Shell{
			Title:    title,
			Assets:   doc.Assets,
			Distance: doc.Distance,
			Indent:   c.indent,
		},
		Options:     c.opts,
		Highlighter: c.highlighter,
		Logger:      c.logger,
	})
}

// Convert reads Markdown from r and writes the HTML for doc to w.
// A panic is logged with its stack and returned as ErrHTMLConversion so one
// bad document cannot crash a batch.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer, doc Document) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("panic during conversion", "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	tree, err := Parse(src, c.opts)
	if err != nil {
		return err
	}
	return c.Render(ctx, tree, w, doc)
}

// Render streams the events of tree into a new renderer. It takes ownership
// of tree.
func (c *Converter) Render(ctx context.Context, tree *Tree, w io.Writer, doc Document) error {
	cur, err := NewCursor(tree)
	if err != nil {
		return err
	}
	defer func() { _ = cur.Close() }()

	bw := bufio.NewWriter(w)
	rend := c.NewRenderer(doc)

	if err := rend.Begin(bw); err != nil {
		return renderError(err)
	}
	for cur.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rend.Render(bw, cur.Event()); err != nil {
			return renderError(err)
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if err := rend.End(bw); err != nil {
		return renderError(err)
	}
	if err := bw.Flush(); err != nil {
		return renderError(err)
	}
	return nil
}

// renderError classifies write failures. Contract violations pass through.
func renderError(err error) error {
	if errors.Is(err, ErrContractViolation) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrWriteHTML, err)
}

// RenderString converts src with the minimal profile. It is meant for tests
// and small fragments.
func RenderString(src string, opts Options) (string, error) {
	var b strings.Builder
	c := NewConverter(WithProfile(ProfileMinimal), WithParserOptions(opts))
	if err := c.Convert(context.Background(), strings.NewReader(src), &b, Document{}); err != nil {
		return "", err
	}
	return b.String(), nil
}
