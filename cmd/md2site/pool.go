package main

import (
	"fmt"
	"runtime"

	"github.com/alnah/go-md2site/internal/config"
)

// Automatic pool size bounds.
const (
	minAutoWorkers = 1
	maxAutoWorkers = 8
)

// resolvePoolSize determines the number of conversion workers.
// Priority: explicit flag or config value > GOMAXPROCS-based calculation.
func resolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / 2
	return min(max(n, minAutoWorkers), maxAutoWorkers)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
