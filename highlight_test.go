package md2site

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
)

// brokenLexer fails every tokenisation.
type brokenLexer struct{ chroma.Lexer }

func (brokenLexer) Tokenise(*chroma.TokeniseOptions, string) (chroma.Iterator, error) {
	return nil, errors.New("lexer state machine stuck")
}

func TestNewHighlighter(t *testing.T) {
	t.Parallel()

	if _, err := NewHighlighter(""); err != nil {
		t.Errorf("default style: %v", err)
	}
	if _, err := NewHighlighter("monokai"); err != nil {
		t.Errorf("monokai: %v", err)
	}
	if _, err := NewHighlighter("no-such-style"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("unknown style error = %v, want ErrUnknownStyle", err)
	}
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	h, err := NewHighlighter(DefaultHighlightStyle)
	if err != nil {
		t.Fatalf("NewHighlighter: %v", err)
	}

	t.Run("known language", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		ok, err := h.Highlight(&b, "go", "func main() {}\n")
		if err != nil {
			t.Fatalf("Highlight: %v", err)
		}
		if !ok {
			t.Fatal("Highlight reported no lexer for go")
		}
		if !strings.Contains(b.String(), `<span class="`) {
			t.Errorf("no token spans in %q", b.String())
		}
		if strings.Contains(b.String(), "<pre") {
			t.Errorf("output should not carry its own <pre>: %q", b.String())
		}
	})

	t.Run("unknown language", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		ok, err := h.Highlight(&b, "definitely-not-a-language", "x")
		if err != nil || ok {
			t.Errorf("Highlight = (%v, %v), want (false, nil)", ok, err)
		}
		if b.Len() != 0 {
			t.Errorf("wrote %q for unknown language", b.String())
		}
	})

	t.Run("tokenise failure", func(t *testing.T) {
		t.Parallel()

		broken := *h
		broken.lexer = func(string) chroma.Lexer { return brokenLexer{} }

		var b strings.Builder
		ok, err := broken.Highlight(&b, "go", "x")
		if !errors.Is(err, ErrHighlight) {
			t.Fatalf("Highlight error = %v, want ErrHighlight", err)
		}
		if ok {
			t.Error("Highlight reported success after a tokenise failure")
		}
		if !strings.Contains(err.Error(), "lexer state machine stuck") {
			t.Errorf("error %q lacks the lexer cause", err)
		}
	})

	t.Run("stylesheet", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		if err := h.WriteCSS(&b); err != nil {
			t.Fatalf("WriteCSS: %v", err)
		}
		if !strings.Contains(b.String(), ".chroma") {
			t.Errorf("stylesheet lacks .chroma rules:\n%s", b.String())
		}
	})
}
