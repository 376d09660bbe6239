package md2site

import (
	"fmt"
	"iter"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Cursor walks a Tree as a forward-only sequence of events.
//
// The walk is iterative: it follows parent and sibling links instead of
// recursing, so arbitrarily deep documents need no call stack. Structural
// nodes are reported on Enter and Exit, leaves once. After the Document Exit
// event Next returns false and Err returns nil.
//
//	c, err := md2site.NewCursor(tree)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	for c.Next() {
//	    handle(c.Event())
//	}
//	return c.Err()
type Cursor struct {
	tree    *Tree
	node    ast.Node
	phase   Phase
	pending []Event
	current Event
	err     error
	done    bool
}

// NewCursor takes ownership of t and returns a cursor positioned before the
// Document Enter event. A tree backs at most one cursor.
func NewCursor(t *Tree) (*Cursor, error) {
	if t == nil || t.consumed {
		return nil, ErrTreeConsumed
	}
	if t.root == nil || t.root.Kind() != ast.KindDocument {
		return nil, fmt.Errorf("%w: tree has no document root", ErrContractViolation)
	}
	t.consumed = true
	return &Cursor{tree: t, node: t.root, phase: Enter}, nil
}

// Next advances to the next event. It returns false when the stream is
// exhausted, closed or failed.
func (c *Cursor) Next() bool {
	for len(c.pending) == 0 {
		if c.done || c.err != nil || c.tree == nil {
			return false
		}
		c.step()
	}
	c.current = c.pending[0]
	c.pending = c.pending[1:]
	return true
}

// Event returns the event produced by the last successful call to Next.
func (c *Cursor) Event() Event {
	return c.current
}

// Err returns the contract violation that stopped the walk, if any.
func (c *Cursor) Err() error {
	return c.err
}

// Close releases the tree. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.tree != nil {
		c.tree.release()
		c.tree = nil
	}
	c.node = nil
	c.pending = nil
	c.done = true
	return nil
}

// Events returns a single-use iterator over the events of t. The cursor is
// closed when the loop ends. A failure is yielded once as the final pair.
func Events(t *Tree) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		c, err := NewCursor(t)
		if err != nil {
			yield(Event{}, err)
			return
		}
		defer func() { _ = c.Close() }()

		for c.Next() {
			if !yield(c.Event(), nil) {
				return
			}
		}
		if err := c.Err(); err != nil {
			yield(Event{}, err)
		}
	}
}

// step translates the current AST position into one or more pending events
// and moves the position forward.
func (c *Cursor) step() {
	n := c.node

	if c.phase == Exit {
		node, err := c.structural(n)
		if err != nil {
			c.fail(err)
			return
		}
		c.pending = append(c.pending, Event{Node: node, Phase: Exit})
		if n == c.tree.root {
			c.done = true
			return
		}
		c.advance(n)
		return
	}

	if isStructural(n) {
		node, err := c.structural(n)
		if err != nil {
			c.fail(err)
			return
		}
		c.pending = append(c.pending, Event{Node: node, Phase: Enter})
		if child := n.FirstChild(); child != nil {
			c.node = child
		} else {
			c.phase = Exit
		}
		return
	}

	last := c.leaf(n)
	if c.err != nil {
		return
	}
	c.advance(last)
}

// advance moves past n: to its next sibling, or to its parent's Exit.
func (c *Cursor) advance(n ast.Node) {
	if next := n.NextSibling(); next != nil {
		c.node, c.phase = next, Enter
		return
	}
	parent := n.Parent()
	if parent == nil {
		c.fail(fmt.Errorf("%w: %s has no parent", ErrContractViolation, n.Kind()))
		return
	}
	c.node, c.phase = parent, Exit
}

func (c *Cursor) fail(err error) {
	c.err = err
	c.pending = nil
}

// isStructural reports whether n is walked with Enter and Exit events.
func isStructural(n ast.Node) bool {
	switch n.Kind() {
	case ast.KindDocument, ast.KindBlockquote, ast.KindList, ast.KindListItem,
		ast.KindParagraph, ast.KindTextBlock, ast.KindHeading,
		ast.KindEmphasis, ast.KindLink, ast.KindImage:
		return true
	}
	return false
}

// structural builds the Node for a structural AST node.
func (c *Cursor) structural(n ast.Node) (Node, error) {
	var node Node

	switch v := n.(type) {
	case *ast.Document:
		node.Kind = KindDocument
	case *ast.Blockquote:
		node.Kind = KindBlockquote
	case *ast.List:
		node.Kind = KindList
		node.List = listAttrs(v)
	case *ast.ListItem:
		if _, ok := n.Parent().(*ast.List); !ok {
			return Node{}, fmt.Errorf("%w: list item outside a list", ErrContractViolation)
		}
		node.Kind = KindItem
	case *ast.Paragraph, *ast.TextBlock:
		node.Kind = KindParagraph
	case *ast.Heading:
		if v.Level < 1 || v.Level > 6 {
			return Node{}, fmt.Errorf("%w: heading level %d", ErrContractViolation, v.Level)
		}
		node.Kind = KindHeading
		node.Level = v.Level
		if c.tree.opts.HeadingIDs {
			if id, ok := v.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					node.ID = string(b)
				}
			}
		}
	case *ast.Emphasis:
		switch v.Level {
		case 1:
			node.Kind = KindEmph
		case 2:
			node.Kind = KindStrong
		default:
			return Node{}, fmt.Errorf("%w: emphasis level %d", ErrContractViolation, v.Level)
		}
	case *ast.Link:
		node.Kind = KindLink
		node.URL = string(v.Destination)
		node.Title = plainText(v.Title)
	case *ast.Image:
		node.Kind = KindImage
		node.URL = string(v.Destination)
		node.Title = plainText(v.Title)
	default:
		return Node{}, fmt.Errorf("%w: unexpected structural node %s", ErrContractViolation, n.Kind())
	}

	if c.tree.opts.SourcePos && node.Kind.IsBlock() {
		node.Pos = c.tree.span(n)
	}
	return node, nil
}

// leaf queues the events of a node whose subtree is not walked and returns
// the last AST node it consumed.
func (c *Cursor) leaf(n ast.Node) ast.Node {
	src := c.tree.source
	last := n

	switch v := n.(type) {
	case *ast.Text:
		literal, brk := textLiteral(v, src), v
		if c.tree.opts.Normalize {
			var b strings.Builder
			b.WriteString(literal)
			for !hasBreak(brk) {
				next, ok := brk.NextSibling().(*ast.Text)
				if !ok {
					break
				}
				b.WriteString(textLiteral(next, src))
				brk, last = next, next
			}
			literal = b.String()
		}
		c.emitLeaf(Node{Kind: KindText, Literal: literal})
		switch {
		case brk.HardLineBreak():
			c.emitLeaf(Node{Kind: KindLineBreak})
		case brk.SoftLineBreak():
			c.emitLeaf(Node{Kind: KindSoftBreak})
		}

	case *ast.String:
		literal := string(v.Value)
		if v.IsCode() {
			literal = string(util.ResolveEntityNames(v.Value))
		}
		c.emitLeaf(Node{Kind: KindText, Literal: literal})

	case *ast.CodeSpan:
		c.emitLeaf(Node{Kind: KindCode, Literal: codeSpanLiteral(v, src)})

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(src))
		}
		c.emitLeaf(Node{Kind: KindHTMLInline, Literal: b.String()})

	case *ast.AutoLink:
		link := Node{Kind: KindLink, URL: string(v.URL(src))}
		c.pending = append(c.pending,
			Event{Node: link, Phase: Enter},
			Event{Node: Node{Kind: KindText, Literal: string(v.Label(src))}, Phase: Enter},
			Event{Node: link, Phase: Exit},
		)

	case *ast.FencedCodeBlock:
		node := Node{Kind: KindCodeBlock, Literal: linesValue(v, src)}
		if v.Info != nil {
			node.Info = strings.TrimSpace(plainText(v.Info.Segment.Value(src)))
		}
		c.emitBlockLeaf(node, n)

	case *ast.CodeBlock:
		c.emitBlockLeaf(Node{Kind: KindCodeBlock, Literal: linesValue(v, src)}, n)

	case *ast.HTMLBlock:
		literal := linesValue(v, src)
		if v.HasClosure() {
			closure := v.ClosureLine
			literal += string(closure.Value(src))
		}
		c.emitBlockLeaf(Node{Kind: KindHTMLBlock, Literal: literal}, n)

	case *ast.ThematicBreak:
		c.emitBlockLeaf(Node{Kind: KindThematicBreak}, n)

	default:
		kind := KindCustomInline
		if n.Type() == ast.TypeBlock {
			kind = KindCustomBlock
		}
		c.emitLeaf(Node{Kind: kind, Info: n.Kind().String()})
	}

	return last
}

func (c *Cursor) emitLeaf(node Node) {
	c.pending = append(c.pending, Event{Node: node, Phase: Enter})
}

func (c *Cursor) emitBlockLeaf(node Node, n ast.Node) {
	if c.tree.opts.SourcePos {
		node.Pos = c.tree.span(n)
	}
	c.emitLeaf(node)
}

func listAttrs(l *ast.List) ListAttrs {
	attrs := ListAttrs{Tight: l.IsTight}
	if !l.IsOrdered() {
		return attrs
	}
	attrs.Type = OrderedList
	attrs.Start = l.Start
	switch l.Marker {
	case '.':
		attrs.Delim = PeriodDelim
	case ')':
		attrs.Delim = ParenDelim
	}
	return attrs
}

func hasBreak(t *ast.Text) bool {
	return t.SoftLineBreak() || t.HardLineBreak()
}

// textLiteral decodes backslash escapes and entity references.
func textLiteral(t *ast.Text, src []byte) string {
	v := t.Segment.Value(src)
	if t.IsRaw() {
		return string(v)
	}
	return plainText(v)
}

func plainText(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return string(util.ResolveEntityNames(v))
}

// codeSpanLiteral joins the text children of a code span, turning line
// endings into spaces.
func codeSpanLiteral(n *ast.CodeSpan, src []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		var v []byte
		switch t := child.(type) {
		case *ast.Text:
			v = t.Segment.Value(src)
		case *ast.String:
			v = t.Value
		default:
			continue
		}
		if len(v) > 0 && v[len(v)-1] == '\n' {
			b.Write(v[:len(v)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(v)
	}
	return b.String()
}

func linesValue(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(src))
	}
	return b.String()
}
