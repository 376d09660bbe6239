package hints

import (
	"strings"
	"testing"
)

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains []string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"site.yaml", "site.yml", "/home/u/.config/md2site/site.yaml"},
			contains: []string{"--config", "create /home/u/.config/md2site/site.yaml"},
		},
		{
			name:     "no user path",
			paths:    []string{"site.yaml"},
			contains: []string{"--config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.HasPrefix(hint, "\n  hint: ") {
				t.Errorf("hint %q lacks prefix", hint)
			}
			for _, want := range tt.contains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint %q missing %q", hint, want)
				}
			}
		})
	}
}

func TestForHighlightStyle(t *testing.T) {
	t.Parallel()

	if got := ForHighlightStyle(nil); got != "" {
		t.Errorf("empty list hint = %q, want empty", got)
	}

	in := []string{"monokai", "dracula", "github"}
	got := ForHighlightStyle(in)
	if !strings.Contains(got, "dracula, github, monokai") {
		t.Errorf("hint = %q, want sorted names", got)
	}
	if in[0] != "monokai" {
		t.Error("input slice was reordered")
	}
}

func TestForStyle(t *testing.T) {
	t.Parallel()

	got := ForStyle([]string{"default", "dark"})
	if got != "\n  hint: built-in styles: dark, default" {
		t.Errorf("ForStyle() = %q", got)
	}
}

func TestForEncoding(t *testing.T) {
	t.Parallel()

	plain := ForEncoding(false)
	if !strings.Contains(plain, "UTF-8") || strings.Contains(plain, "--validate-utf8") {
		t.Errorf("ForEncoding(false) = %q", plain)
	}
	strict := ForEncoding(true)
	if !strings.Contains(strict, "--validate-utf8") || strings.Count(strict, "hint:") != 1 {
		t.Errorf("ForEncoding(true) = %q", strict)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"output":   ForOutputDirectory(),
		"input":    ForInputDirectory(),
		"contract": ForContractViolation(),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") || len(hint) <= len("\n  hint: ") {
			t.Errorf("%s hint = %q", name, hint)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	if format("") != "" {
		t.Error("format(\"\") should be empty")
	}
	if formatHints(nil) != "" {
		t.Error("formatHints(nil) should be empty")
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints = %q", got)
	}
}
