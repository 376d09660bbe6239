package md2site

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Options configures parsing and rendering. It is an immutable value handed to
// NewParser and to the renderers; nothing reads it from global state.
type Options struct {
	// SourcePos annotates block elements with data-sourcepos attributes.
	SourcePos bool

	// HardBreaks renders soft line breaks as <br />.
	HardBreaks bool

	// Safe omits raw HTML and drops javascript:, vbscript:, file: and
	// non-image data: URLs.
	Safe bool

	// NoBreaks renders soft line breaks as spaces.
	NoBreaks bool

	// Normalize merges adjacent text nodes.
	Normalize bool

	// ValidateUTF8 rejects invalid UTF-8 instead of replacing it.
	ValidateUTF8 bool

	// Smart enables typographic punctuation (curly quotes, dashes, ellipses).
	Smart bool

	// Linkify turns bare URLs and email addresses into links.
	Linkify bool

	// HeadingIDs generates id attributes for headings.
	HeadingIDs bool
}

// newMarkdown builds the goldmark instance for the given options. With bounds
// set, block parsers record where each block starts and ends.
func newMarkdown(opts Options, bounds *blockBounds) goldmark.Markdown {
	var exts []goldmark.Extender
	if opts.Linkify {
		exts = append(exts, extension.Linkify)
	}
	if opts.Smart {
		exts = append(exts, extension.Typographer)
	}

	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	var mdOpts []goldmark.Option
	if bounds != nil {
		mdOpts = append(mdOpts, goldmark.WithParser(bounds.parser()))
	}
	mdOpts = append(mdOpts,
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
	)
	return goldmark.New(mdOpts...)
}

// Parser accumulates Markdown text and turns it into a Tree.
// A Parser is single use: after Finish it rejects further input.
type Parser struct {
	opts     Options
	buf      bytes.Buffer
	finished bool
}

// NewParser creates a Parser with the given options.
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Feed appends text to the document. Embedded NUL bytes are rejected.
func (p *Parser) Feed(text []byte) error {
	if p.finished {
		return ErrParserFinished
	}
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return fmt.Errorf("%w at offset %d", ErrNulByte, p.buf.Len()+i)
	}
	p.buf.Write(text)
	return nil
}

// Finish parses the accumulated text and returns the document tree.
func (p *Parser) Finish() (*Tree, error) {
	if p.finished {
		return nil, ErrParserFinished
	}
	p.finished = true

	src := p.buf.Bytes()
	if !utf8.Valid(src) {
		if p.opts.ValidateUTF8 {
			return nil, ErrInvalidUTF8
		}
		src = bytes.ToValidUTF8(src, []byte(string(utf8.RuneError)))
	}

	var bounds *blockBounds
	if p.opts.SourcePos {
		bounds = newBlockBounds()
	}
	root := newMarkdown(p.opts, bounds).Parser().Parse(text.NewReader(src))
	return &Tree{root: root, source: src, opts: p.opts, bounds: bounds}, nil
}

// Parse is a shorthand for NewParser, Feed and Finish.
func Parse(src []byte, opts Options) (*Tree, error) {
	p := NewParser(opts)
	if err := p.Feed(src); err != nil {
		return nil, err
	}
	return p.Finish()
}

// Tree is a parsed document. Ownership moves to the Cursor created from it;
// the tree cannot be walked twice.
type Tree struct {
	root     ast.Node
	source   []byte
	opts     Options
	lines    []int
	bounds   *blockBounds
	extents  map[ast.Node]extent
	consumed bool
}

// release drops the references to the AST and source.
func (t *Tree) release() {
	t.root = nil
	t.source = nil
	t.lines = nil
	t.bounds = nil
	t.extents = nil
}

// position converts a byte offset to a 1-based line and column.
func (t *Tree) position(offset int) (line, col int) {
	if t.lines == nil {
		t.lines = []int{0}
		for i, b := range t.source {
			if b == '\n' {
				t.lines = append(t.lines, i+1)
			}
		}
	}
	idx := sort.SearchInts(t.lines, offset+1) - 1
	if idx < 0 {
		idx = 0
	}
	return idx + 1, offset - t.lines[idx] + 1
}
