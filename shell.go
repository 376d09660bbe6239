package md2site

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark/util"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Title"

// DefaultIndent is the indentation unit of the shelled profile.
const DefaultIndent = "    "

// shellBodyDepth is the indent depth of the body content inside the shell.
const shellBodyDepth = 2

// Shell wraps a rendered body in a complete HTML document.
type Shell struct {
	Title  string
	Assets []Asset
	// Distance is the number of directories between the generated document
	// and the output root. Asset URLs get one "../" per level.
	Distance int
	Indent   string
}

// WriteHeader writes the prologue, the asset tags and the opening of the body.
func (s Shell) WriteHeader(w io.Writer) error {
	ind := s.indent()
	title := s.Title
	if title == "" {
		title = DefaultTitle
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n%[1]s<head>\n%[1]s%[1]s<meta charset=\"UTF-8\">\n%[1]s%[1]s<title>%[2]s</title>\n",
		ind, util.EscapeHTML([]byte(title))); err != nil {
		return err
	}

	if err := s.writeAssets(w); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%[1]s</head>\n\n%[1]s<body>\n%[1]s%[1]s<div class=\"container u-full-width\">\n", ind)
	return err
}

// writeAssets emits one tag per stylesheet or script, in input order.
func (s Shell) writeAssets(w io.Writer) error {
	prefix := strings.Repeat("../", s.Distance)
	ind := strings.Repeat(s.indent(), 2)

	for _, a := range s.Assets {
		href := util.EscapeHTML(util.URLEscape([]byte(prefix+a.Path), false))
		var err error
		switch a.Kind {
		case AssetCSS:
			_, err = fmt.Fprintf(w, "%s<link rel=\"stylesheet\" href=\"%s\" type=\"text/css\">\n", ind, href)
		case AssetJS:
			_, err = fmt.Fprintf(w, "%s<script src=\"%s\" type=\"text/javascript\"></script>\n", ind, href)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteFooter closes the body and the document.
func (s Shell) WriteFooter(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%[1]s%[1]s</div>\n%[1]s</body>\n%[1]s<script>hljs.initHighlightingOnLoad();</script>\n</html>\n", s.indent())
	return err
}

func (s Shell) indent() string {
	if s.Indent == "" {
		return DefaultIndent
	}
	return s.Indent
}
