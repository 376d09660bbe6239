package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-md2site/internal/assets"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and built-in styles.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string
	Styles  assets.StyleLoader
}

// DefaultEnv returns production environment with embedded styles.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Styles:  assets.NewEmbeddedLoader(),
	}
}
