package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Input tree walking
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("plans conversions and copies", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		out := t.TempDir()
		writeTree(t, in, map[string]string{
			"index.md":             "# Home",
			"guide/intro.markdown": "# Intro",
			"guide/deep/notes.MD":  "notes",
			"guide/deep/pic.png":   "png",
			"robots.txt":           "ok",
		})

		jobs, err := discoverFiles(context.Background(), in, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []FileJob{
			{jobConvert, filepath.Join(in, "guide", "deep", "notes.MD"), filepath.Join(out, "guide", "deep", "notes.html"), 2},
			{jobCopy, filepath.Join(in, "guide", "deep", "pic.png"), filepath.Join(out, "guide", "deep", "pic.png"), 2},
			{jobConvert, filepath.Join(in, "guide", "intro.markdown"), filepath.Join(out, "guide", "intro.html"), 1},
			{jobConvert, filepath.Join(in, "index.md"), filepath.Join(out, "index.html"), 0},
			{jobCopy, filepath.Join(in, "robots.txt"), filepath.Join(out, "robots.txt"), 0},
		}
		if len(jobs) != len(want) {
			t.Fatalf("got %d jobs, want %d: %+v", len(jobs), len(want), jobs)
		}
		for i := range want {
			if jobs[i] != want[i] {
				t.Errorf("job %d = %+v, want %+v", i, jobs[i], want[i])
			}
		}

		converts, copies := countKinds(jobs)
		if converts != 3 || copies != 2 {
			t.Errorf("countKinds() = %d, %d, want 3, 2", converts, copies)
		}
	})

	t.Run("skips output nested in input", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		out := filepath.Join(in, "public")
		writeTree(t, in, map[string]string{
			"a.md":          "a",
			"public/a.html": "old",
		})

		jobs, err := discoverFiles(context.Background(), in, out)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 1 || jobs[0].InputPath != filepath.Join(in, "a.md") {
			t.Errorf("jobs = %+v, want only a.md", jobs)
		}
	})

	t.Run("in-place output keeps every file", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeTree(t, in, map[string]string{"a.md": "a", "b.css": "b"})

		jobs, err := discoverFiles(context.Background(), in, in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(jobs) != 2 {
			t.Fatalf("got %d jobs, want 2", len(jobs))
		}
		if jobs[1].OutputPath != jobs[1].InputPath {
			t.Errorf("copy job %+v should target itself", jobs[1])
		}
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(context.Background(), filepath.Join(t.TempDir(), "nope"), t.TempDir())
		if err == nil {
			t.Fatal("expected error for missing input")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		in := t.TempDir()
		writeTree(t, in, map[string]string{"a.md": "a"})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := discoverFiles(ctx, in, in)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want int
	}{
		{"index.md", 0},
		{filepath.Join("a", "index.md"), 1},
		{filepath.Join("a", "b", "c", "index.md"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()

			if got := distance(tt.rel); got != tt.want {
				t.Errorf("distance(%q) = %d, want %d", tt.rel, got, tt.want)
			}
		})
	}
}
