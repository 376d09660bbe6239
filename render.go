package md2site

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// rawHTMLOmitted replaces raw HTML in safe mode.
const rawHTMLOmitted = "<!-- raw HTML omitted -->"

// layout controls the cosmetic shape of the output.
type layout struct {
	indent    string
	newline   string
	codeClass string // prefix of the language class on code blocks
}

var (
	minimalLayout = layout{codeClass: "language-"}
	shellLayout   = layout{indent: DefaultIndent, newline: "\n"}
)

// frame is an open structural node.
type frame struct {
	kind  Kind
	level int
	list  ListType
	// tight is the list's flag for List frames and the captured value for Items.
	tight bool
	// pending holds the <li> of a loose Item until its first child decides
	// whether a <p> follows it.
	pending string
	// open is set while a loose Item has an unclosed <p>.
	open bool
	// bare marks a paragraph whose tags are owned by the enclosing Item.
	bare bool
}

// machine turns events into HTML. It keeps the indent depth and a stack of
// open nodes. Each Item copies the tightness of its List frame, so nested
// lists never leak their flag to siblings.
type machine struct {
	opts   Options
	lay    layout
	hl     *Highlighter
	log    *slog.Logger
	base   int
	depth  int
	frames []frame
	// image counts open Image nodes; inside one only alt text is written.
	image    int
	started  bool
	finished bool
}

func newMachine(opts Options, lay layout, hl *Highlighter, log *slog.Logger, base int) machine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return machine{opts: opts, lay: lay, hl: hl, log: log, base: base, depth: base}
}

// Depth returns the current indent depth.
func (m *machine) Depth() int {
	return m.depth
}

func (m *machine) render(w io.Writer, ev Event) error {
	n := ev.Node
	if !n.Kind.Valid() {
		return fmt.Errorf("%w: unknown node kind %d", ErrContractViolation, int(n.Kind))
	}
	if m.finished {
		return fmt.Errorf("%w: %s after document end", ErrContractViolation, ev)
	}
	if !m.started && (n.Kind != KindDocument || ev.Phase != Enter) {
		return fmt.Errorf("%w: stream starts with %s", ErrContractViolation, ev)
	}

	switch ev.Phase {
	case Enter:
		if n.Kind.IsLeaf() {
			return m.leaf(w, n)
		}
		return m.enter(w, n)
	case Exit:
		if n.Kind.IsLeaf() {
			return fmt.Errorf("%w: exit event for leaf %s", ErrContractViolation, n.Kind)
		}
		return m.exit(w, n)
	default:
		return fmt.Errorf("%w: unknown phase %d", ErrContractViolation, int(ev.Phase))
	}
}

// finish reports whether the stream reached the Document Exit event.
func (m *machine) finish() error {
	if !m.finished {
		return fmt.Errorf("%w: stream ended before document end", ErrContractViolation)
	}
	return nil
}

func (m *machine) enter(w io.Writer, n Node) error {
	f := frame{kind: n.Kind}
	if n.Kind.IsBlock() && n.Kind != KindParagraph {
		if err := m.closeItemParagraph(w); err != nil {
			return err
		}
	}

	switch n.Kind {
	case KindDocument:
		if m.started {
			return fmt.Errorf("%w: nested document", ErrContractViolation)
		}
		m.started = true
		m.frames = append(m.frames, f)
		return nil

	case KindBlockquote:
		if err := m.line(w, "<blockquote"+m.blockAttrs(n)+">"); err != nil {
			return err
		}

	case KindList:
		f.list, f.tight = n.List.Type, n.List.Tight
		open := "<ul"
		if n.List.Type == OrderedList {
			open = "<ol"
			if n.List.Start != 1 {
				open += ` start="` + strconv.Itoa(n.List.Start) + `"`
			}
		}
		if err := m.line(w, open+m.blockAttrs(n)+">"); err != nil {
			return err
		}

	case KindItem:
		list := m.top()
		if list == nil || list.kind != KindList {
			return fmt.Errorf("%w: item outside a list", ErrContractViolation)
		}
		f.tight = list.tight
		open := "<li" + m.blockAttrs(n) + ">"
		if !f.tight {
			f.pending = open
			break
		}
		if err := m.line(w, open); err != nil {
			return err
		}

	case KindParagraph:
		if err := m.enterParagraph(w, n, &f); err != nil {
			return err
		}

	case KindHeading:
		f.level = n.Level
		attrs := m.blockAttrs(n)
		if n.ID != "" {
			attrs = ` id="` + escape(n.ID) + `"` + attrs
		}
		if err := m.write(w, m.prefix(m.depth), "<h", strconv.Itoa(n.Level), attrs, ">"); err != nil {
			return err
		}

	case KindEmph:
		if err := m.inline(w, "<em>"); err != nil {
			return err
		}

	case KindStrong:
		if err := m.inline(w, "<strong>"); err != nil {
			return err
		}

	case KindLink:
		open := `<a href="` + m.url(n.URL) + `"`
		if n.Title != "" {
			open += ` title="` + escape(n.Title) + `"`
		}
		if err := m.inline(w, open+">"); err != nil {
			return err
		}

	case KindImage:
		open := `<img src="` + m.url(n.URL) + `"`
		if n.Title != "" {
			open += ` title="` + escape(n.Title) + `"`
		}
		if err := m.inline(w, open+` alt="`); err != nil {
			return err
		}
		m.image++
		m.frames = append(m.frames, f)
		return nil

	default:
		return fmt.Errorf("%w: unhandled structural kind %s", ErrContractViolation, n.Kind)
	}

	m.frames = append(m.frames, f)
	if n.Kind.IsBlock() {
		m.depth++
	}
	return nil
}

// enterParagraph opens a paragraph. Directly inside an Item the item owns the
// wrapping: a tight item writes no <p>, a loose one opens <p> here and keeps
// it open until the next block or the item's end.
func (m *machine) enterParagraph(w io.Writer, n Node, f *frame) error {
	parent := m.top()
	if parent == nil || parent.kind != KindItem {
		return m.write(w, m.prefix(m.depth), "<p", m.blockAttrs(n), ">")
	}

	f.bare = true
	if !parent.tight {
		open := "<p" + m.blockAttrs(n) + ">"
		switch {
		case parent.pending != "":
			open = parent.pending + open
			parent.pending = ""
		case parent.open:
			open = "</p>" + open
		}
		if err := m.write(w, m.prefix(m.depth-1), open, m.lay.newline); err != nil {
			return err
		}
		parent.open = true
	}
	return m.write(w, m.prefix(m.depth))
}

// closeItemParagraph prepares a loose Item for a nested block: it writes the
// deferred <li> or ends the open <p>.
func (m *machine) closeItemParagraph(w io.Writer) error {
	parent := m.top()
	if parent == nil || parent.kind != KindItem {
		return nil
	}
	if parent.pending != "" {
		open := parent.pending
		parent.pending = ""
		return m.write(w, m.prefix(m.depth-1), open, m.lay.newline)
	}
	if !parent.open {
		return nil
	}
	parent.open = false
	return m.line(w, "</p>")
}

func (m *machine) exit(w io.Writer, n Node) error {
	if len(m.frames) == 0 {
		return fmt.Errorf("%w: exit %s without enter", ErrContractViolation, n.Kind)
	}
	f := m.frames[len(m.frames)-1]
	if f.kind != n.Kind {
		return fmt.Errorf("%w: exit %s while %s is open", ErrContractViolation, n.Kind, f.kind)
	}
	m.frames = m.frames[:len(m.frames)-1]
	if n.Kind.IsBlock() && n.Kind != KindDocument {
		m.depth--
	}

	switch n.Kind {
	case KindDocument:
		if m.depth != m.base {
			return fmt.Errorf("%w: indent depth %d at document end", ErrContractViolation, m.depth)
		}
		m.finished = true
		return nil
	case KindBlockquote:
		return m.line(w, "</blockquote>")
	case KindList:
		if f.list == OrderedList {
			return m.line(w, "</ol>")
		}
		return m.line(w, "</ul>")
	case KindItem:
		switch {
		case f.pending != "":
			return m.line(w, f.pending+"</li>")
		case f.open:
			return m.line(w, "</p></li>")
		}
		return m.line(w, "</li>")
	case KindParagraph:
		if f.bare {
			return m.write(w, m.lay.newline)
		}
		return m.write(w, "</p>", m.lay.newline)
	case KindHeading:
		return m.write(w, "</h", strconv.Itoa(f.level), ">", m.lay.newline)
	case KindEmph:
		return m.inline(w, "</em>")
	case KindStrong:
		return m.inline(w, "</strong>")
	case KindLink:
		return m.inline(w, "</a>")
	case KindImage:
		m.image--
		return m.inline(w, `" />`)
	}
	return nil
}

func (m *machine) leaf(w io.Writer, n Node) error {
	if m.image > 0 {
		return m.altText(w, n)
	}

	if n.Kind.IsBlock() {
		if err := m.closeItemParagraph(w); err != nil {
			return err
		}
	}

	switch n.Kind {
	case KindCodeBlock:
		return m.codeBlock(w, n)
	case KindHTMLBlock:
		literal := strings.TrimRight(n.Literal, "\n")
		if m.opts.Safe {
			literal = rawHTMLOmitted
		}
		return m.line(w, literal)
	case KindThematicBreak:
		return m.line(w, "<hr"+m.blockAttrs(n)+" />")
	case KindText:
		return m.write(w, escape(n.Literal))
	case KindSoftBreak:
		switch {
		case m.opts.HardBreaks:
			return m.write(w, "<br />\n")
		case m.opts.NoBreaks:
			return m.write(w, " ")
		}
		return m.write(w, "\n")
	case KindLineBreak:
		return m.write(w, "<br />\n")
	case KindCode:
		return m.write(w, "<code>", escape(n.Literal), "</code>")
	case KindHTMLInline:
		if m.opts.Safe {
			return m.write(w, rawHTMLOmitted)
		}
		return m.write(w, n.Literal)
	case KindCustomBlock, KindCustomInline:
		m.log.Warn("node not implemented", "kind", n.Kind.String(), "source", n.Info)
		return nil
	}
	return fmt.Errorf("%w: unhandled leaf kind %s", ErrContractViolation, n.Kind)
}

// altText writes the plain-text form of a leaf inside an image.
func (m *machine) altText(w io.Writer, n Node) error {
	switch n.Kind {
	case KindText, KindCode:
		return m.write(w, escape(n.Literal))
	case KindSoftBreak, KindLineBreak:
		return m.write(w, " ")
	case KindCustomBlock, KindCustomInline:
		m.log.Warn("node not implemented", "kind", n.Kind.String(), "source", n.Info)
	}
	return nil
}

func (m *machine) top() *frame {
	if len(m.frames) == 0 {
		return nil
	}
	return &m.frames[len(m.frames)-1]
}

func (m *machine) codeBlock(w io.Writer, n Node) error {
	lang := ""
	if fields := strings.Fields(n.Info); len(fields) > 0 {
		lang = fields[0]
	}
	class := ""
	if lang != "" {
		class = ` class="` + escape(m.lay.codeClass+lang) + `"`
	}

	if m.hl != nil && lang != "" {
		var buf bytes.Buffer
		ok, err := m.hl.Highlight(&buf, lang, n.Literal)
		if err != nil {
			return err
		}
		if ok {
			return m.write(w, m.prefix(m.depth), `<pre class="chroma"`, m.blockAttrs(n), "><code", class, ">",
				buf.String(), "</code></pre>", m.lay.newline)
		}
	}

	return m.write(w, m.prefix(m.depth), "<pre", m.blockAttrs(n), "><code", class, ">",
		escape(n.Literal), "</code></pre>", m.lay.newline)
}

// inline writes markup that is suppressed inside image alt text.
func (m *machine) inline(w io.Writer, s string) error {
	if m.image > 0 {
		return nil
	}
	return m.write(w, s)
}

// line writes s on its own line at the current depth.
func (m *machine) line(w io.Writer, s string) error {
	return m.write(w, m.prefix(m.depth), s, m.lay.newline)
}

func (m *machine) write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *machine) prefix(depth int) string {
	if m.lay.indent == "" || depth <= 0 {
		return ""
	}
	return strings.Repeat(m.lay.indent, depth)
}

func (m *machine) blockAttrs(n Node) string {
	if !m.opts.SourcePos || n.Pos.IsZero() {
		return ""
	}
	return ` data-sourcepos="` + n.Pos.String() + `"`
}

func (m *machine) url(u string) string {
	if m.opts.Safe && unsafeURL(u) {
		return ""
	}
	return string(util.EscapeHTML(util.URLEscape([]byte(u), true)))
}

// safeDataPrefixes lists the data: URLs allowed in safe mode.
var safeDataPrefixes = []string{"data:image/png", "data:image/gif", "data:image/jpeg", "data:image/webp"}

func unsafeURL(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	switch {
	case strings.HasPrefix(lower, "javascript:"),
		strings.HasPrefix(lower, "vbscript:"),
		strings.HasPrefix(lower, "file:"):
		return true
	case strings.HasPrefix(lower, "data:"):
		for _, p := range safeDataPrefixes {
			if strings.HasPrefix(lower, p) {
				return false
			}
		}
		return true
	}
	return false
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
