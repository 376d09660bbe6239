// Package md2site converts Markdown documents to HTML pages.
//
// # Quick Start
//
//	conv := md2site.NewConverter()
//	err := conv.Convert(ctx, strings.NewReader("# Hello\n\nWorld"), os.Stdout, md2site.Document{
//	    Title: "Hello",
//	})
//
// # Pipeline
//
// A document goes through three stages:
//
//  1. Parser accumulates input (Feed) and builds a Tree (Finish), using
//     goldmark for CommonMark parsing.
//  2. Cursor walks the tree without recursion and yields Events: structural
//     nodes are entered and exited, leaves appear once.
//  3. A Renderer consumes the events and writes HTML.
//
// The tree moves into the cursor: it cannot be walked twice and is released
// when the cursor is closed.
//
// # Profiles
//
// ProfileShelled (the default) wraps the body in a full page with a head,
// stylesheet and script tags for the configured assets, and a body container.
// ProfileMinimal writes the bare fragment with no indentation.
//
//	conv := md2site.NewConverter(
//	    md2site.WithProfile(md2site.ProfileMinimal),
//	    md2site.WithParserOptions(md2site.Options{Smart: true, Safe: true}),
//	)
//
// # Events
//
// Callers that need their own output can range over the events directly:
//
//	tree, err := md2site.Parse(src, md2site.Options{})
//	if err != nil {
//	    return err
//	}
//	for ev, err := range md2site.Events(tree) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(ev)
//	}
//
// # Errors
//
// ErrContractViolation means the tree or event stream broke the node model
// (mismatched exit, heading level outside 1..6). It signals a bug rather than
// bad input and batch callers abort on it. Unsupported node kinds are not
// errors: they are logged at warn level and skipped.
package md2site
