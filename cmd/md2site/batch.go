package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// ConversionResult holds the outcome of a single job.
type ConversionResult struct {
	Job      FileJob
	Bytes    int64
	Err      error
	Duration time.Duration
	// Skipped is set for copies whose source already is the destination.
	Skipped bool
}

// batchParams groups parameters shared by every job of a run.
type batchParams struct {
	converter *md2site.Converter
	assets    []md2site.Asset
	noPersist bool
	logger    *slog.Logger
	now       func() time.Time
}

// convertBatch processes jobs concurrently with a bounded worker pool.
// A failure cancels the remaining jobs when noPersist is set; a contract
// violation always does. Canceled jobs report the context error.
func convertBatch(ctx context.Context, workers int, jobs []FileJob, p *batchParams) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := min(max(workers, 1), len(jobs))
	results := make([]ConversionResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{Job: jobs[idx], Err: err}
					continue
				}

				r := processJob(ctx, jobs[idx], p)
				results[idx] = r
				if r.Err == nil || isCanceled(r.Err) {
					continue
				}

				p.logger.Error("file failed", "path", r.Job.InputPath, "op", r.Job.Kind.String(), "err", r.Err)
				if p.noPersist || errors.Is(r.Err, md2site.ErrContractViolation) {
					cancel()
				}
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// processJob converts or copies one file and returns the result.
func processJob(ctx context.Context, job FileJob, p *batchParams) (result ConversionResult) {
	start := p.now()
	result.Job = job
	defer func() { result.Duration = p.now().Sub(start) }()

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), fileutil.DirPerm); err != nil {
		result.Err = fmt.Errorf("%w: %v", md2site.ErrCreateDir, err)
		return result
	}

	switch job.Kind {
	case jobCopy:
		result.Bytes, result.Skipped, result.Err = copyFile(job)
	default:
		result.Bytes, result.Err = convertFile(ctx, job, p)
	}
	if result.Skipped {
		p.logger.Info("source is the destination, not copied", "path", job.InputPath)
	} else if result.Err == nil {
		p.logger.Info("file written", "src", job.InputPath, "dst", job.OutputPath, "bytes", result.Bytes)
	}

	return result
}

// copyFile copies a non-Markdown file unless source and destination coincide.
func copyFile(job FileJob) (int64, bool, error) {
	if fileutil.SameFile(job.InputPath, job.OutputPath) {
		return 0, true, nil
	}
	n, err := fileutil.CopyFile(job.InputPath, job.OutputPath)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", md2site.ErrCopyFile, err)
	}
	return n, false, nil
}

// convertFile renders one Markdown file into a temp file next to the output
// and renames it into place.
func convertFile(ctx context.Context, job FileJob, p *batchParams) (int64, error) {
	in, err := os.Open(job.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return 0, fmt.Errorf("%w: %v", md2site.ErrReadMarkdown, err)
	}
	defer func() { _ = in.Close() }()

	doc := md2site.Document{Assets: p.assets, Distance: job.Distance}

	var convErr error
	n, err := fileutil.WriteFileAtomic(job.OutputPath, func(w io.Writer) error {
		convErr = p.converter.Convert(ctx, in, w, doc)
		return convErr
	})
	if convErr != nil {
		return 0, convErr
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", md2site.ErrWriteHTML, err)
	}
	return n, nil
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ResultSummary tallies the outcome of a batch.
type ResultSummary struct {
	Converted int
	Copied    int
	Skipped   int
	Failed    int
	Canceled  int
	Bytes     int64
	// FirstErr is the earliest failure in job order, cancellations excluded.
	FirstErr error
	// Contract is the first contract violation, if any.
	Contract error
}

// countResults tallies converted, copied and failed jobs.
func countResults(results []ConversionResult) ResultSummary {
	var s ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil && isCanceled(r.Err):
			s.Canceled++
		case r.Err != nil:
			s.Failed++
			if s.FirstErr == nil {
				s.FirstErr = r.Err
			}
			if s.Contract == nil && errors.Is(r.Err, md2site.ErrContractViolation) {
				s.Contract = r.Err
			}
		case r.Skipped:
			s.Skipped++
		case r.Job.Kind == jobCopy:
			s.Copied++
			s.Bytes += r.Bytes
		default:
			s.Converted++
			s.Bytes += r.Bytes
		}
	}
	return s
}

// printResultsWithWriter reports written files and totals on env.Stdout.
// Failures are reported by the logger as they happen.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)
	if quiet {
		return summary
	}

	for _, r := range results {
		if r.Err != nil || r.Skipped {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n",
				r.Job.InputPath, r.Job.OutputPath, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
			continue
		}
		if r.Job.Kind == jobConvert {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.Job.OutputPath)
		}
	}

	fmt.Fprintf(env.Stdout, "\n%d converted, %d copied, %d failed (%s written)\n",
		summary.Converted, summary.Copied, summary.Failed, humanize.Bytes(uint64(summary.Bytes)))
	if summary.Canceled > 0 {
		fmt.Fprintf(env.Stdout, "%d not processed after cancellation\n", summary.Canceled)
	}

	return summary
}
