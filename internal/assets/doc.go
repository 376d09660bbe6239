// Package assets manages the static files published next to generated pages.
//
// # Sources
//
//	StyleLoader (interface)
//	    │
//	    └── EmbeddedLoader  - built-in stylesheets compiled into the binary
//
//	Dir                     - a user assets directory on disk
//
// Dir walks a directory with path containment checks: symlinks resolving
// outside the directory are rejected.
//
// # Publishing
//
// Publisher copies a Dir, or writes generated files such as the highlight
// stylesheet, below {output}/{base}/ and returns one md2site.Asset per file.
// CSS and JS assets are referenced from every page head; other files are
// only copied.
//
// # Security
//
// Style names are validated to prevent path traversal attacks.
package assets
