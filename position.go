package md2site

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// blockBounds records, for each block goldmark opens, the offset of its first
// byte (markers included) and of the last non-blank byte of the lines it
// consumed. Content lines alone miss list markers, quote markers, heading
// hashes and code fences.
type blockBounds struct {
	start map[ast.Node]int
	end   map[ast.Node]int
}

func newBlockBounds() *blockBounds {
	return &blockBounds{start: map[ast.Node]int{}, end: map[ast.Node]int{}}
}

// parser returns a goldmark parser whose default block parsers report to b.
func (b *blockBounds) parser() parser.Parser {
	defaults := parser.DefaultBlockParsers()
	blocks := make([]util.PrioritizedValue, len(defaults))
	for i, v := range defaults {
		bp := boundsParser{BlockParser: v.Value.(parser.BlockParser), bounds: b}
		blocks[i] = util.Prioritized(bp, v.Priority)
	}
	return parser.NewParser(
		parser.WithBlockParsers(blocks...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

// extend moves the end of n to the last non-blank byte of seg.
func (b *blockBounds) extend(n ast.Node, src []byte, seg text.Segment) {
	last := lastByte(src, seg)
	if last < 0 {
		return
	}
	if e, ok := b.end[n]; !ok || last > e {
		b.end[n] = last
	}
}

// boundsParser wraps a block parser and records the bounds of its blocks.
type boundsParser struct {
	parser.BlockParser
	bounds *blockBounds
}

// SetOption forwards parser options such as auto heading IDs.
func (p boundsParser) SetOption(name parser.OptionName, value any) {
	if so, ok := p.BlockParser.(parser.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

func (p boundsParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	_, seg := reader.PeekLine()
	offset := pc.BlockOffset()
	node, state := p.BlockParser.Open(parent, reader, pc)
	if node == nil {
		return node, state
	}

	start := seg.Start
	if offset > seg.Padding {
		start += offset - seg.Padding
	}
	p.bounds.start[node] = start
	p.bounds.extend(node, reader.Source(), seg)
	return node, state
}

// Continue counts a line as part of the block when the wrapped parser
// advanced over it.
func (p boundsParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, seg := reader.PeekLine()
	state := p.BlockParser.Continue(node, reader, pc)
	if _, pos := reader.Position(); pos.Start != seg.Start && !util.IsBlank(line) {
		p.bounds.extend(node, reader.Source(), seg)
	}
	return state
}

// extent is the byte range of a block, last byte included.
type extent struct {
	start, end int
	ok         bool
}

// span returns the source position of block n, or the zero value when the
// block has no source bytes.
func (t *Tree) span(n ast.Node) SourcePos {
	e := t.extent(n)
	if !e.ok {
		return SourcePos{}
	}
	var pos SourcePos
	pos.StartLine, pos.StartColumn = t.position(e.start)
	pos.EndLine, pos.EndColumn = t.position(e.end)
	return pos
}

// extent merges the recorded bounds of n with its content lines and the
// extents of its block children.
func (t *Tree) extent(n ast.Node) extent {
	if e, ok := t.extents[n]; ok {
		return e
	}

	start, end := -1, -1
	if t.bounds != nil {
		if s, ok := t.bounds.start[n]; ok {
			start = s
		}
		if e, ok := t.bounds.end[n]; ok {
			end = e
		}
	}
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines != nil && lines.Len() > 0 {
			if first := lines.At(0); start < 0 || first.Start < start {
				start = first.Start
			}
			end = max(end, lastByte(t.source, lines.At(lines.Len()-1)))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		ce := t.extent(c)
		if !ce.ok {
			continue
		}
		if start < 0 || ce.start < start {
			start = ce.start
		}
		end = max(end, ce.end)
	}

	e := extent{start: start, end: max(end, start), ok: start >= 0}
	if t.extents == nil {
		t.extents = map[ast.Node]extent{}
	}
	t.extents[n] = e
	return e
}

// lastByte returns the offset of the last non-whitespace byte of seg, or -1.
func lastByte(src []byte, seg text.Segment) int {
	stop := min(seg.Stop, len(src))
	for stop > seg.Start && util.IsSpace(src[stop-1]) {
		stop--
	}
	if stop <= seg.Start {
		return -1
	}
	return stop - 1
}
