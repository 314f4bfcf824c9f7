package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// artifact is an output file that is built at most once. An existing file
// is treated as already produced and is never regenerated.
type artifact struct {
	name  string
	path  string
	build func(ctx context.Context, tmpPath string) error
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// size returns the size of path, or -1 if it does not exist.
func size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return -1
	}
	return info.Size()
}

// ensure builds a into a temporary file and renames it into place, so an
// interrupted build never leaves a file that a later run would skip.
// It reports whether the artifact was built.
func ensure(ctx context.Context, logger *zap.Logger, a artifact) (bool, error) {
	ok, err := exists(a.path)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", a.name, err)
	}
	if ok {
		logger.Info("artifact already produced, skipping",
			zap.String("artifact", a.name),
			zap.String("path", a.path))
		return false, nil
	}

	tmp := a.path + ".tmp"
	if err := a.build(ctx, tmp); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("build %s: %w", a.name, err)
	}
	if err := os.Rename(tmp, a.path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("publish %s: %w", a.name, err)
	}

	logger.Info("artifact produced",
		zap.String("artifact", a.name),
		zap.String("path", a.path),
		zap.Int64("bytes", size(a.path)))
	return true, nil
}
