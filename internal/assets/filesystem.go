package assets

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// Dir is a user assets directory on the filesystem.
type Dir struct {
	// path is the directory as given, used for naming the published copy.
	path string
	// root is the absolute path with symlinks resolved, used for containment.
	root string
}

// NewDir opens an assets directory.
// Returns ErrAssetsNotFound if it does not exist and ErrInvalidBasePath if it
// is not a readable directory.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	// Resolve symlinks in base path for consistent comparisons
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrAssetsNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, path)
	}

	// Verify read access by attempting to read directory
	if _, err := os.ReadDir(absPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &Dir{path: path, root: absPath}, nil
}

// Root returns the resolved absolute path of the directory.
func (d *Dir) Root() string {
	return d.root
}

// Base returns the directory name used for the published copy: the last
// element of the path as given, so a symlinked directory keeps its link name.
func (d *Dir) Base() string {
	base := filepath.Base(filepath.Clean(d.path))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return filepath.Base(d.root)
	}
	return base
}

// Files lists the regular files below the directory as slash-separated
// relative paths, in lexical order.
func (d *Dir) Files(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("%w: %v", ErrAssetRead, walkErr)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if err := d.verifyPathContainment(path); err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// verifyPathContainment ensures the resolved file path is within the root.
// Resolves symlinks to prevent escape via symlink pointing outside the root.
func (d *Dir) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if absFilePath == d.root || !fileutil.IsWithin(d.root, absFilePath) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, filePath, d.path)
	}

	return nil
}
