package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2site/internal/assets"
)

// printUsage prints the command usage.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2site <input-dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a directory of Markdown files into a static HTML site.")
	fmt.Fprintln(w, "Markdown files (.md, .markdown) become .html pages; other files are copied.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input-dir    Source directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output-dir <dir>    Output directory (default: input directory)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --no-persist          Stop at the first failed file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --simple              Bare HTML fragments, no page shell or assets")
	fmt.Fprintln(w, "      --title <s>           Page title (default \"Title\")")
	fmt.Fprintln(w, "      --assets <dir>        Assets directory (default \"assets\")")
	fmt.Fprintf(w, "      --style <name>        Built-in stylesheet: %s\n", strings.Join(assets.Styles(), ", "))
	fmt.Fprintln(w, "      --highlight           Highlight fenced code blocks")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (default \"github\")")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --safe                Omit raw HTML and unsafe link URLs")
	fmt.Fprintln(w, "      --smart               Typographic quotes, dashes and ellipses")
	fmt.Fprintln(w, "      --hardbreaks          Soft line breaks become <br />")
	fmt.Fprintln(w, "      --nobreaks            Soft line breaks become spaces")
	fmt.Fprintln(w, "      --sourcepos           Add data-sourcepos to block tags")
	fmt.Fprintln(w, "      --normalize           Merge adjacent text nodes")
	fmt.Fprintln(w, "      --validate-utf8       Reject invalid UTF-8 instead of replacing it")
	fmt.Fprintln(w, "      --linkify             Turn bare URLs into links")
	fmt.Fprintln(w, "      --heading-ids         Add id attributes to headings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Log verbosity: -vv warnings, -vvv info")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2SITE_CONFIG, MD2SITE_INPUT_DIR, MD2SITE_OUTPUT_DIR, MD2SITE_TITLE,")
	fmt.Fprintln(w, "  MD2SITE_STYLE, MD2SITE_HIGHLIGHT_STYLE, MD2SITE_WORKERS")
	fmt.Fprintln(w, "  Flags override environment variables, which override the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 conversion failures, 2 usage, 3 I/O, 4 internal contract violation")
}
