package md2site

// Notes:
// - Shelled output is inspected with goquery instead of string matching so the
//   tests do not depend on indentation.
// - A writer that panics reaches the recovery branch in Convert.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func convert(t *testing.T, c *Converter, src string, doc Document) string {
	t.Helper()

	var b strings.Builder
	if err := c.Convert(context.Background(), strings.NewReader(src), &b, doc); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	return b.String()
}

func query(t *testing.T, s string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("goquery: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestNewConverter - Defaults and options
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		c := NewConverter()
		if c.Profile() != ProfileShelled {
			t.Errorf("Profile() = %v, want shelled", c.Profile())
		}
		if _, ok := c.NewRenderer(Document{}).(*ShellRenderer); !ok {
			t.Error("default renderer is not a ShellRenderer")
		}
	})

	t.Run("minimal profile", func(t *testing.T) {
		t.Parallel()

		c := NewConverter(WithProfile(ProfileMinimal))
		if _, ok := c.NewRenderer(Document{}).(*MinimalRenderer); !ok {
			t.Error("renderer is not a MinimalRenderer")
		}
	})

	t.Run("WithIndent rejects non-whitespace", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if recover() == nil {
				t.Error("WithIndent(\"x\") did not panic")
			}
		}()
		WithIndent("x")
	})
}

// ---------------------------------------------------------------------------
// TestParseProfile - Profile names
// ---------------------------------------------------------------------------

func TestParseProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Profile
		wantErr bool
	}{
		{"", ProfileShelled, false},
		{"shelled", ProfileShelled, false},
		{"Minimal", ProfileMinimal, false},
		{"simple", ProfileMinimal, false},
		{"pdf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseProfile(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProfile) {
					t.Errorf("error = %v, want ErrUnknownProfile", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseProfile(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertShelled - Full documents
// ---------------------------------------------------------------------------

func TestConvertShelled(t *testing.T) {
	t.Parallel()

	t.Run("exact body", func(t *testing.T) {
		t.Parallel()

		got := convert(t, NewConverter(), "# T\n\nHello\n", Document{Title: "Doc"})
		want := "        <h1>T</h1>\n        <p>Hello</p>\n"
		if !strings.Contains(got, "<div class=\"container u-full-width\">\n"+want+"        </div>\n") {
			t.Errorf("body not found in:\n%s", got)
		}
		assertBalanced(t, got)
	})

	t.Run("structure", func(t *testing.T) {
		t.Parallel()

		out := convert(t, NewConverter(WithTitle("Site")), "# Hi\n\n- a\n- b\n", Document{
			Assets:   []Asset{NewAsset("assets/main.css"), NewAsset("assets/app.js")},
			Distance: 1,
		})
		doc := query(t, out)

		if got := doc.Find("title").Text(); got != "Site" {
			t.Errorf("title = %q, want %q", got, "Site")
		}
		href, _ := doc.Find(`link[rel="stylesheet"]`).Attr("href")
		if href != "../assets/main.css" {
			t.Errorf("stylesheet href = %q", href)
		}
		src, _ := doc.Find(`script[src]`).Attr("src")
		if src != "../assets/app.js" {
			t.Errorf("script src = %q", src)
		}
		if got := strings.TrimSpace(doc.Find("div.container h1").Text()); got != "Hi" {
			t.Errorf("h1 = %q, want %q", got, "Hi")
		}
		if n := doc.Find("div.container ul > li").Length(); n != 2 {
			t.Errorf("list items = %d, want 2", n)
		}
	})

	t.Run("document title overrides converter title", func(t *testing.T) {
		t.Parallel()

		out := convert(t, NewConverter(WithTitle("Site")), "x", Document{Title: "Page"})
		if got := query(t, out).Find("title").Text(); got != "Page" {
			t.Errorf("title = %q, want %q", got, "Page")
		}
	})

	t.Run("shelled code class has no prefix", func(t *testing.T) {
		t.Parallel()

		out := convert(t, NewConverter(), "```rust\nfn main() {}\n```\n", Document{})
		class, _ := query(t, out).Find("pre code").Attr("class")
		if class != "rust" {
			t.Errorf("code class = %q, want %q", class, "rust")
		}
	})

	t.Run("highlighting", func(t *testing.T) {
		t.Parallel()

		h, err := NewHighlighter("")
		if err != nil {
			t.Fatalf("NewHighlighter: %v", err)
		}
		out := convert(t, NewConverter(WithHighlighter(h)), "```go\nx := 1\n```\n\n```nolang\ny\n```\n", Document{})
		doc := query(t, out)

		if doc.Find("pre.chroma code.go span").Length() == 0 {
			t.Errorf("no highlighted spans:\n%s", out)
		}
		plain := doc.Find("pre:not(.chroma) code.nolang")
		if plain.Length() != 1 || plain.Text() != "y\n" {
			t.Errorf("unknown language should fall back to plain code:\n%s", out)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvertErrors - Failure classification
// ---------------------------------------------------------------------------

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

type panicWriter struct{}

func (panicWriter) Write([]byte) (int, error) { panic("writer exploded") }

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	c := NewConverter()

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()

		err := c.Convert(context.Background(), errReader{}, &strings.Builder{}, Document{})
		if !errors.Is(err, ErrReadMarkdown) {
			t.Errorf("error = %v, want ErrReadMarkdown", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		t.Parallel()

		err := c.Convert(context.Background(), strings.NewReader("# x"), &failWriter{left: 3}, Document{})
		if !errors.Is(err, ErrWriteHTML) {
			t.Errorf("error = %v, want ErrWriteHTML", err)
		}
	})

	t.Run("panic is logged with stack", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		err := NewConverter(WithLogger(logger)).Convert(context.Background(), strings.NewReader("# x"), panicWriter{}, Document{})
		if !errors.Is(err, ErrHTMLConversion) {
			t.Fatalf("error = %v, want ErrHTMLConversion", err)
		}
		if !strings.Contains(err.Error(), "writer exploded") {
			t.Errorf("error %q should carry the panic value", err)
		}
		out := logs.String()
		if !strings.Contains(out, "panic during conversion") || !strings.Contains(out, "goroutine") {
			t.Errorf("log lacks panic and stack:\n%s", out)
		}
	})

	t.Run("NUL byte", func(t *testing.T) {
		t.Parallel()

		err := c.Convert(context.Background(), strings.NewReader("a\x00b"), &strings.Builder{}, Document{})
		if !errors.Is(err, ErrNulByte) {
			t.Errorf("error = %v, want ErrNulByte", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var b strings.Builder
		err := c.Convert(ctx, strings.NewReader("# x"), &b, Document{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if b.Len() != 0 {
			t.Errorf("wrote %d bytes after cancellation", b.Len())
		}
	})

	t.Run("consumed tree", func(t *testing.T) {
		t.Parallel()

		tree, err := Parse([]byte("x"), Options{})
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := c.Render(context.Background(), tree, &strings.Builder{}, Document{}); err != nil {
			t.Fatalf("first Render: %v", err)
		}
		if err := c.Render(context.Background(), tree, &strings.Builder{}, Document{}); !errors.Is(err, ErrTreeConsumed) {
			t.Errorf("second Render = %v, want ErrTreeConsumed", err)
		}
	})
}
