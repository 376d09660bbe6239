package md2site

import "fmt"

// Kind identifies the variant of a Node.
// The set is closed: renderers switch on it exhaustively.
type Kind int

// Block kinds.
const (
	KindDocument Kind = iota + 1
	KindBlockquote
	KindList
	KindItem
	KindCodeBlock
	KindHTMLBlock
	KindCustomBlock
	KindParagraph
	KindHeading
	KindThematicBreak
)

// Inline kinds.
const (
	KindText Kind = iota + 100
	KindSoftBreak
	KindLineBreak
	KindCode
	KindHTMLInline
	KindCustomInline
	KindEmph
	KindStrong
	KindLink
	KindImage
)

var kindNames = map[Kind]string{
	KindDocument:      "Document",
	KindBlockquote:    "Blockquote",
	KindList:          "List",
	KindItem:          "Item",
	KindCodeBlock:     "CodeBlock",
	KindHTMLBlock:     "HTMLBlock",
	KindCustomBlock:   "CustomBlock",
	KindParagraph:     "Paragraph",
	KindHeading:       "Heading",
	KindThematicBreak: "ThematicBreak",
	KindText:          "Text",
	KindSoftBreak:     "SoftBreak",
	KindLineBreak:     "LineBreak",
	KindCode:          "Code",
	KindHTMLInline:    "HTMLInline",
	KindCustomInline:  "CustomInline",
	KindEmph:          "Emph",
	KindStrong:        "Strong",
	KindLink:          "Link",
	KindImage:         "Image",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsBlock reports whether k is a block-level kind.
func (k Kind) IsBlock() bool {
	return k >= KindDocument && k <= KindThematicBreak
}

// IsLeaf reports whether k is reported as a single event.
// Custom kinds count as leaves because their subtree is never walked.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindCodeBlock, KindHTMLBlock, KindThematicBreak,
		KindText, KindSoftBreak, KindLineBreak, KindCode, KindHTMLInline,
		KindCustomBlock, KindCustomInline:
		return true
	}
	return false
}

// ListType distinguishes bullet from ordered lists.
type ListType int

const (
	BulletList ListType = iota
	OrderedList
)

// Delim is the delimiter following an ordered list number.
// It is NoDelim for bullet lists.
type Delim int

const (
	NoDelim Delim = iota
	PeriodDelim
	ParenDelim
)

// ListAttrs is the payload of a List node.
type ListAttrs struct {
	Type  ListType
	Delim Delim
	Start int
	// Tight lists render item contents without paragraph tags.
	Tight bool
}

// SourcePos is a 1-based line/column span in the source document.
// The zero value means no position was recorded.
type SourcePos struct {
	StartLine, StartColumn int
	EndLine, EndColumn     int
}

// IsZero reports whether no position is recorded.
func (p SourcePos) IsZero() bool {
	return p.StartLine == 0
}

func (p SourcePos) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", p.StartLine, p.StartColumn, p.EndLine, p.EndColumn)
}

// Node is one document node as seen by the renderer.
// Only the fields relevant to Kind are populated.
type Node struct {
	Kind Kind

	// Literal holds the text of CodeBlock, HTMLBlock, Text, Code and HTMLInline.
	Literal string

	// Info is the info string of a fenced CodeBlock. For custom nodes it
	// names the unsupported source node kind.
	Info string

	// Level is the heading level, 1 through 6.
	Level int

	// ID is the heading identifier when heading IDs are enabled.
	ID string

	List ListAttrs

	// URL and Title belong to Link and Image.
	URL   string
	Title string

	Pos SourcePos
}

// Phase tells whether a structural node is being entered or exited.
type Phase int

const (
	Enter Phase = iota
	Exit
)

func (p Phase) String() string {
	if p == Exit {
		return "Exit"
	}
	return "Enter"
}

// Event is a (node, phase) observation. Leaf nodes only ever appear with Enter.
type Event struct {
	Node  Node
	Phase Phase
}

func (e Event) String() string {
	return e.Phase.String() + " " + e.Node.Kind.String()
}
