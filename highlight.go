package md2site

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used for the generated stylesheet.
const DefaultHighlightStyle = "github"

// Highlighter renders code blocks with chroma token classes.
// The matching stylesheet comes from WriteCSS.
type Highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
	lexer     func(lang string) chroma.Lexer
}

// NewHighlighter creates a Highlighter for a chroma style name.
// An empty name selects DefaultHighlightStyle.
func NewHighlighter(style string) (*Highlighter, error) {
	if style == "" {
		style = DefaultHighlightStyle
	}
	s, ok := styles.Registry[style]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, style)
	}
	return &Highlighter{
		style: s,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
		lexer: lexers.Get,
	}, nil
}

// Highlight writes the token spans for code in the given language.
// It reports false, writing nothing, when no lexer knows the language.
// A lexer that fails to tokenise the code is an error.
func (h *Highlighter) Highlight(w io.Writer, lang, code string) (bool, error) {
	if lang == "" {
		return false, nil
	}
	lexer := h.lexer(lang)
	if lexer == nil {
		return false, nil
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false, fmt.Errorf("%w: tokenising %s: %v", ErrHighlight, lang, err)
	}
	if err := h.formatter.Format(w, h.style, it); err != nil {
		return true, err
	}
	return true, nil
}

// WriteCSS writes the stylesheet for the highlighter's style.
func (h *Highlighter) WriteCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
