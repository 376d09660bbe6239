package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// jobKind tells how a discovered file is processed.
type jobKind int

const (
	jobConvert jobKind = iota // Markdown rendered to HTML
	jobCopy                   // any other file, copied byte for byte
)

func (k jobKind) String() string {
	if k == jobCopy {
		return "copy"
	}
	return "convert"
}

// FileJob represents a single file of the input tree.
type FileJob struct {
	Kind       jobKind
	InputPath  string
	OutputPath string
	// Distance is the number of directories between OutputPath and the output root.
	Distance int
}

// discoverFiles walks inputDir and plans one job per regular file, in lexical
// order. An output directory nested inside inputDir is not descended into.
func discoverFiles(ctx context.Context, inputDir, outputDir string) ([]FileJob, error) {
	var jobs []FileJob

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != inputDir && fileutil.SameFile(path, outputDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}

		job := FileJob{
			Kind:       jobCopy,
			InputPath:  path,
			OutputPath: filepath.Join(outputDir, rel),
			Distance:   distance(rel),
		}
		if fileutil.IsMarkdown(path) {
			job.Kind = jobConvert
			job.OutputPath = fileutil.ReplaceExt(job.OutputPath, ".html")
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// distance counts the directories in a relative file path.
func distance(rel string) int {
	return strings.Count(filepath.ToSlash(rel), "/")
}

// countKinds tallies conversion and copy jobs.
func countKinds(jobs []FileJob) (converts, copies int) {
	for _, j := range jobs {
		if j.Kind == jobConvert {
			converts++
		} else {
			copies++
		}
	}
	return converts, copies
}
