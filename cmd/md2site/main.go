package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'md2site --help' for usage.\n", err)
		return ExitUsage
	}

	if flags.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.version {
		fmt.Fprintf(env.Stdout, "md2site %s\n", Version)
		return ExitSuccess
	}

	level, err := logLevel(flags.common.verbose)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	logger := newLogger(env.Stderr, level)

	// Configure GOMAXPROCS before sizing the worker pool.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Info(fmt.Sprintf(format, args...))
	}))
	defer undo()

	if err := runSite(ctx, positional, flags, env, logger); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		if isUsageError(err) {
			fmt.Fprintln(env.Stderr, "Run 'md2site --help' for usage.")
		}
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// logLevel maps the -v count to a log level: errors only up to -v, then warn
// and info. More than three is a usage error.
func logLevel(verbosity int) (slog.Level, error) {
	switch {
	case verbosity < 0 || verbosity > maxVerbosity:
		return 0, fmt.Errorf("%w: -v given %d times, at most %d allowed", ErrInvalidVerbosity, verbosity, maxVerbosity)
	case verbosity == 3:
		return slog.LevelInfo, nil
	case verbosity == 2:
		return slog.LevelWarn, nil
	default:
		return slog.LevelError, nil
	}
}

// newLogger creates the stderr text logger.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// isUsageError reports whether err comes from the command line itself.
func isUsageError(err error) bool {
	return errors.Is(err, ErrUsage) || errors.Is(err, ErrTooManyArgs)
}
