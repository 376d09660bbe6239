package main

// Notes:
// - run: end-to-end builds over temp directories through the same entry
//   point as main, with captured stdout/stderr and a fixed environment.
// - Pages are inspected with goquery rather than string matching so the
//   tests do not depend on shell indentation.
// - The subtests do not call t.Parallel: run adjusts GOMAXPROCS through
//   automaxprocs, which is process-wide.

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func loadPage(t *testing.T, root, name string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(readFile(t, root, name)))
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestRun - Command entry point
// ---------------------------------------------------------------------------

func TestRun(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if code := run(context.Background(), []string{"--help"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, want 0", code)
		}
		assertContains(t, env.stdout.String(), "Usage: md2site <input-dir>", "--no-persist", "MD2SITE_OUTPUT_DIR", "stylesheet: dark, default")
	})

	t.Run("version", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if code := run(context.Background(), []string{"--version"}, env.Environment); code != ExitSuccess {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if got := env.stdout.String(); got != "md2site "+Version+"\n" {
			t.Errorf("version output = %q", got)
		}
	})

	usageTests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--pdf"}, "unknown flag"},
		{"too verbose", []string{"-vvvv", "."}, "at most 3"},
		{"two inputs", []string{"a", "b"}, "too many arguments"},
		{"negative workers", []string{"-w", "-1", "."}, "invalid worker count"},
		{"exclusive breaks", []string{"--hardbreaks", "--nobreaks", "."}, "exclusive"},
	}
	for _, tt := range usageTests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			if code := run(context.Background(), tt.args, env.Environment); code != ExitUsage {
				t.Fatalf("exit code = %d, want %d; stderr:\n%s", code, ExitUsage, env.stderr.String())
			}
			assertContains(t, env.stderr.String(), tt.want)
		})
	}

	t.Run("no input", func(t *testing.T) {
		env := newTestEnv(t, nil)
		if code := run(context.Background(), nil, env.Environment); code != ExitIO {
			t.Fatalf("exit code = %d, want %d", code, ExitIO)
		}
		assertContains(t, env.stderr.String(), "no input directory", "hint:")
	})

	t.Run("builds a shelled site", func(t *testing.T) {
		root := t.TempDir()
		in := filepath.Join(root, "src")
		out := filepath.Join(root, "public")
		assetsDir := filepath.Join(root, "assets")
		writeTree(t, in, map[string]string{
			"index.md":       "# Welcome\n\n- one\n- two\n",
			"guide/setup.md": "## Setup\n\n```go\nfunc main() {}\n```\n",
			"guide/img.png":  "png",
		})
		writeTree(t, assetsDir, map[string]string{"site.css": "body{}", "app.js": "x()"})

		env := newTestEnv(t, nil)
		code := run(context.Background(), []string{
			in, "-o", out, "--assets", assetsDir, "--title", "Docs", "--highlight", "-w", "2",
		}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr:\n%s", code, env.stderr.String())
		}

		index := loadPage(t, out, "index.html")
		if got := index.Find("title").Text(); got != "Docs" {
			t.Errorf("title = %q, want Docs", got)
		}
		if got := index.Find("div.container h1").Text(); got != "Welcome" {
			t.Errorf("h1 = %q, want Welcome", got)
		}
		if got := index.Find("div.container li").Length(); got != 2 {
			t.Errorf("list items = %d, want 2", got)
		}
		if href, _ := index.Find(`link[rel="stylesheet"]`).First().Attr("href"); href != "assets/site.css" {
			t.Errorf("first stylesheet = %q, want assets/site.css", href)
		}
		if src, _ := index.Find("script[src]").Attr("src"); src != "assets/app.js" {
			t.Errorf("script src = %q, want assets/app.js", src)
		}

		setup := loadPage(t, out, "guide/setup.html")
		if href, _ := setup.Find(`link[rel="stylesheet"]`).Last().Attr("href"); href != "../assets/chroma.css" {
			t.Errorf("nested stylesheet = %q, want ../assets/chroma.css", href)
		}
		if setup.Find("pre.chroma code.go span").Length() == 0 {
			t.Error("code block not highlighted")
		}

		if readFile(t, out, "guide/img.png") != "png" {
			t.Error("img.png not copied")
		}
		if readFile(t, out, "assets/site.css") != "body{}" {
			t.Error("site.css not published")
		}
		assertContains(t, env.stdout.String(),
			"Created "+filepath.Join(out, "index.html"),
			"2 converted, 1 copied, 0 failed")
	})

	t.Run("simple profile skips shell and assets", func(t *testing.T) {
		root := t.TempDir()
		assetsDir := filepath.Join(root, "assets")
		writeTree(t, root, map[string]string{"doc.md": "Hello *there*\n", "assets/site.css": "body{}"})

		env := newTestEnv(t, nil)
		code := run(context.Background(), []string{root, "--simple", "--assets", assetsDir, "-q"}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr:\n%s", code, env.stderr.String())
		}
		if got := readFile(t, root, "doc.html"); got != "<p>Hello <em>there</em></p>" {
			t.Errorf("doc.html = %q", got)
		}
		if env.stdout.String() != "" {
			t.Errorf("quiet run printed %q", env.stdout.String())
		}
	})

	t.Run("persist reports failures and keeps going", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.md": "bad \xff\n", "b.md": "good\n"})

		env := newTestEnv(t, nil)
		code := run(context.Background(), []string{root, "--simple", "--validate-utf8", "-w", "1"}, env.Environment)
		if code != ExitGeneral {
			t.Fatalf("exit code = %d, want %d", code, ExitGeneral)
		}
		if readFile(t, root, "b.html") != "<p>good</p>" {
			t.Error("b.html not written")
		}
		assertContains(t, env.stderr.String(), "level=ERROR", "a.md", "1 of 2 file(s) failed", "hint:")
	})

	t.Run("no-persist stops at first failure", func(t *testing.T) {
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a.md": "bad \xff\n", "b.md": "good\n"})

		env := newTestEnv(t, nil)
		code := run(context.Background(), []string{root, "--simple", "--validate-utf8", "--no-persist", "-w", "1"}, env.Environment)
		if code != ExitGeneral {
			t.Fatalf("exit code = %d, want %d", code, ExitGeneral)
		}
		assertContains(t, env.stdout.String(), "1 not processed after cancellation")
	})

	t.Run("environment variables", func(t *testing.T) {
		root := t.TempDir()
		out := filepath.Join(root, "out")
		writeTree(t, root, map[string]string{"src/page.md": "# P\n"})

		env := newTestEnv(t, map[string]string{
			"MD2SITE_INPUT_DIR":  filepath.Join(root, "src"),
			"MD2SITE_OUTPUT_DIR": out,
			"MD2SITE_TITLE":      "FromEnv",
			"MD2SITE_TYPO":       "x",
		})
		code := run(context.Background(), []string{"-vv", "--assets", filepath.Join(root, "none")}, env.Environment)
		if code != ExitSuccess {
			t.Fatalf("exit code = %d; stderr:\n%s", code, env.stderr.String())
		}
		if got := loadPage(t, out, "page.html").Find("title").Text(); got != "FromEnv" {
			t.Errorf("title = %q, want FromEnv", got)
		}
		assertContains(t, env.stderr.String(), "level=WARN", "MD2SITE_TYPO")
	})
}

// ---------------------------------------------------------------------------
// TestLogLevel - Verbosity mapping
// ---------------------------------------------------------------------------

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verbosity int
		want      string
		wantErr   bool
	}{
		{0, "ERROR", false},
		{1, "ERROR", false},
		{2, "WARN", false},
		{3, "INFO", false},
		{4, "", true},
	}

	for _, tt := range tests {
		got, err := logLevel(tt.verbosity)
		if tt.wantErr {
			if err == nil {
				t.Errorf("logLevel(%d) expected error", tt.verbosity)
			}
			continue
		}
		if err != nil {
			t.Errorf("logLevel(%d) unexpected error: %v", tt.verbosity, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("logLevel(%d) = %s, want %s", tt.verbosity, got, tt.want)
		}
	}
}
