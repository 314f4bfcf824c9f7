package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// ErrNoCSVEntry is returned for a zip archive without a csv entry.
var ErrNoCSVEntry = errors.New("trace: no csv entry in archive")

type readCloser struct {
	io.Reader
	closers []func() error
}

func (rc *readCloser) Close() error {
	var errs []error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func wrapDecoder(file *os.File, path string) (io.ReadCloser, error) {
	ext := filepath.Ext(path)

	switch ext {
	case ".gz":
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("not valid .gzip file: %w", err)
		}
		return &readCloser{
			Reader:  gzipReader,
			closers: []func() error{file.Close, gzipReader.Close},
		}, nil
	case ".zst":
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("not valid .zst file: %w", err)
		}
		return &readCloser{
			Reader: zstdReader,
			closers: []func() error{file.Close, func() error {
				zstdReader.Close()
				return nil
			}},
		}, nil
	case ".zip":
		return openCSVEntry(file)
	default:
		// without decoding
		return file, nil
	}
}

func openCSVEntry(file *os.File) (io.ReadCloser, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat archive: %w", err)
	}

	archive, err := zip.NewReader(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("not valid .zip file: %w", err)
	}

	for _, entry := range archive.File {
		if !strings.HasSuffix(entry.Name, "csv") {
			continue
		}

		entryReader, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}
		return &readCloser{
			Reader:  entryReader,
			closers: []func() error{file.Close, entryReader.Close},
		}, nil
	}

	return nil, ErrNoCSVEntry
}

// NewReader opens path and decodes it according to its extension
// (.gz, .zst, or the first csv entry of a .zip).
func NewReader(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	r, err := wrapDecoder(file, path)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}
