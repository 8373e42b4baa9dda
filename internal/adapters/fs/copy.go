package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// CopyToTarget copies files into dir in parallel, keeping their base names.
// It returns the size of every copied file in the order of files.
func CopyToTarget(ctx context.Context, dir string, files ...string) ([]int64, error) {
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create target directory"), "path", dir)
	}

	sizes := make([]int64, len(files))
	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := copyFile(file, filepath.Join(dir, filepath.Base(file)))
			if err != nil {
				return err
			}
			sizes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // paths come from configuration
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file to copy"), "path", src)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file to copy"), "path", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // see above
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create copy"), "path", dst)
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, zerr.With(zerr.With(zerr.Wrap(err, "failed to copy file"), "from", src), "to", dst)
	}
	return n, nil
}
