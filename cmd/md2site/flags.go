package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// maxVerbosity is the highest accepted -v count (info level).
const maxVerbosity = 3

// commonFlags holds flags that control reporting and config lookup.
type commonFlags struct {
	config  string
	quiet   bool
	verbose int // -v count
}

// markdownFlags holds parse and render switches. A flag can only turn an
// option on; options set in the config file stay on.
type markdownFlags struct {
	safe         bool
	smart        bool
	hardBreaks   bool
	noBreaks     bool
	sourcePos    bool
	normalize    bool
	validateUTF8 bool
	linkify      bool
	headingIDs   bool
}

// assetFlags holds asset and styling flags.
type assetFlags struct {
	dir            string // assets directory, "" = config value
	style          string // built-in stylesheet name
	highlight      bool
	highlightStyle string
}

// siteFlags holds every flag of the md2site command.
type siteFlags struct {
	common    commonFlags
	output    string
	workers   int
	noPersist bool
	simple    bool
	title     string
	markdown  markdownFlags
	assets    assetFlags
	version   bool
	help      bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.CountVarP(&f.verbose, "verbose", "v", "increase log verbosity (-vv warn, -vvv info)")
}

// addMarkdownFlags adds parse and render flags to a FlagSet.
func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.BoolVar(&f.safe, "safe", false, "omit raw HTML and unsafe link URLs")
	fs.BoolVar(&f.smart, "smart", false, "typographic quotes, dashes and ellipses")
	fs.BoolVar(&f.hardBreaks, "hardbreaks", false, "render soft line breaks as <br />")
	fs.BoolVar(&f.noBreaks, "nobreaks", false, "render soft line breaks as spaces")
	fs.BoolVar(&f.sourcePos, "sourcepos", false, "add data-sourcepos to block tags")
	fs.BoolVar(&f.normalize, "normalize", false, "merge adjacent text nodes")
	fs.BoolVar(&f.validateUTF8, "validate-utf8", false, "reject invalid UTF-8 instead of replacing it")
	fs.BoolVar(&f.linkify, "linkify", false, "turn bare URLs into links")
	fs.BoolVar(&f.headingIDs, "heading-ids", false, "add id attributes to headings")
}

// addAssetFlags adds asset flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.dir, "assets", "", `assets directory (default "assets")`)
	fs.StringVar(&f.style, "style", "", "built-in stylesheet: default, dark")
	fs.BoolVar(&f.highlight, "highlight", false, "highlight fenced code blocks")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for highlighting (default \"github\")")
}

// newFlagSet registers every flag into a fresh FlagSet bound to f.
// Parse errors are returned, not printed: run reports them with a usage hint.
func newFlagSet(f *siteFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("md2site", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&f.output, "output-dir", "o", "", "output directory (default: input directory)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.noPersist, "no-persist", false, "stop at the first failed file")
	fs.BoolVar(&f.simple, "simple", false, "write bare HTML fragments without the page shell")
	fs.StringVar(&f.title, "title", "", "page title (default \"Title\")")

	addCommonFlags(fs, &f.common)
	addMarkdownFlags(fs, &f.markdown)
	addAssetFlags(fs, &f.assets)

	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	fs.Usage = func() {}
	return fs
}

// parseFlags parses command-line arguments (without the program name) and
// returns the positional arguments.
func parseFlags(args []string) (*siteFlags, []string, error) {
	f := &siteFlags{}
	fs := newFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return f, fs.Args(), nil
}
