package md2site

import "errors"

// Sentinel errors for library operations.
var (
	// ErrContractViolation reports a tree or event sequence the model does not
	// recognize. It indicates a mismatched parser, not bad input, and callers
	// should abort the whole run.
	ErrContractViolation = errors.New("document contract violation")

	// Parser errors.
	ErrNulByte        = errors.New("input contains NUL byte")
	ErrInvalidUTF8    = errors.New("input is not valid UTF-8")
	ErrParserFinished = errors.New("parser already finished")
	ErrTreeConsumed   = errors.New("document tree already consumed")

	// Rendering errors.
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownProfile = errors.New("unknown renderer profile")
	ErrUnknownStyle   = errors.New("unknown highlight style")
	ErrHighlight      = errors.New("code highlighting failed")

	// I/O errors.
	ErrReadMarkdown = errors.New("failed to read markdown")
	ErrWriteHTML    = errors.New("failed to write HTML")
	ErrCopyFile     = errors.New("failed to copy file")
	ErrCreateDir    = errors.New("failed to create directory")
)
