package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/fileutil"
)

// Publisher writes assets below {outRoot}/{base}.
type Publisher struct {
	outRoot string
	base    string
}

// NewPublisher creates a Publisher. base is the directory name inside the
// output root and the first element of every asset path.
func NewPublisher(outRoot, base string) *Publisher {
	return &Publisher{outRoot: outRoot, base: base}
}

// Result summarizes a publishing step.
type Result struct {
	Assets []md2site.Asset
	// Copied counts files written; files that already are the destination are skipped.
	Copied int
	Bytes  int64
}

// CopyDir copies every file of d and returns the assets in lexical order.
// A file that cannot be copied is left out of the result and copying goes on;
// the failures are joined into the returned error.
func (p *Publisher) CopyDir(ctx context.Context, d *Dir) (Result, error) {
	var res Result

	files, err := d.Files(ctx)
	if err != nil {
		return res, err
	}

	var errs []error
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return res, errors.Join(append(errs, err)...)
		}

		src := filepath.Join(d.root, filepath.FromSlash(rel))
		dst := p.destination(rel)
		asset := md2site.NewAsset(path.Join(p.base, rel))

		if fileutil.SameFile(src, dst) {
			res.Assets = append(res.Assets, asset)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), fileutil.DirPerm); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrAssetWrite, rel, err))
			continue
		}
		n, err := fileutil.CopyFile(src, dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrAssetWrite, rel, err))
			continue
		}
		res.Assets = append(res.Assets, asset)
		res.Copied++
		res.Bytes += n
	}

	return res, errors.Join(errs...)
}

// WriteFile publishes a generated file named name.
func (p *Publisher) WriteFile(name string, write func(w io.Writer) error) (md2site.Asset, int64, error) {
	if err := ValidateAssetName(trimExt(name)); err != nil {
		return md2site.Asset{}, 0, err
	}

	dst := p.destination(name)
	if err := os.MkdirAll(filepath.Dir(dst), fileutil.DirPerm); err != nil {
		return md2site.Asset{}, 0, fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}
	n, err := fileutil.WriteFileAtomic(dst, write)
	if err != nil {
		return md2site.Asset{}, 0, fmt.Errorf("%w: %s: %v", ErrAssetWrite, name, err)
	}
	return md2site.NewAsset(path.Join(p.base, name)), n, nil
}

// WriteStyle publishes a built-in style from loader as {name}.css.
func (p *Publisher) WriteStyle(loader StyleLoader, name string) (md2site.Asset, int64, error) {
	css, err := loader.LoadStyle(name)
	if err != nil {
		return md2site.Asset{}, 0, err
	}
	return p.WriteFile(name+".css", func(w io.Writer) error {
		_, err := io.WriteString(w, css)
		return err
	})
}

func (p *Publisher) destination(rel string) string {
	return filepath.Join(p.outRoot, p.base, filepath.FromSlash(rel))
}

func trimExt(name string) string {
	return name[:len(name)-len(path.Ext(name))]
}
