// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"sort"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/md2site/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/md2site") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputDirectory returns hints when the input is missing or not a directory.
func ForInputDirectory() string {
	return format("pass a directory containing .md files, not a single file")
}

// ForHighlightStyle returns hints for unknown chroma styles.
// The list is sorted so the message is stable.
func ForHighlightStyle(available []string) string {
	return listHint("available styles: ", available)
}

// ForStyle returns hints for unknown built-in stylesheets.
func ForStyle(available []string) string {
	return listHint("built-in styles: ", available)
}

// listHint formats a sorted copy of names after prefix.
func listHint(prefix string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return format(prefix + strings.Join(sorted, ", "))
}

// ForEncoding returns hints for input that is not valid UTF-8 or contains NUL
// bytes. validating reports whether --validate-utf8 was set.
func ForEncoding(validating bool) string {
	hints := []string{"re-save the file as UTF-8"}
	if validating {
		hints = append(hints, "drop --validate-utf8 to replace invalid bytes instead")
	}
	return formatHints(hints)
}

// ForContractViolation returns the hint printed when the renderer rejects
// the parsed tree.
func ForContractViolation() string {
	return format("this is a bug; rerun with -vvv and report the input file")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
