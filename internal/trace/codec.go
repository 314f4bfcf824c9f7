package trace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrUnknownCodec is returned for an unsupported compression codec name.
var ErrUnknownCodec = errors.New("trace: unknown codec")

const (
	ZstdCodec   = "zstd"
	GzipCodec   = "gzip"
	BrotliCodec = "brotli"
	NoneCodec   = "none"
)

func IsAvailableCodec(codec string) bool {
	switch codec {
	case ZstdCodec, GzipCodec, BrotliCodec, NoneCodec:
		return true
	default:
		return false
	}
}

// Extension returns the file extension appended to compressed artifacts.
func Extension(codec string) string {
	switch codec {
	case ZstdCodec:
		return ".zst"
	case GzipCodec:
		return ".gz"
	case BrotliCodec:
		return ".br"
	default:
		return ""
	}
}

func newEncoder(w io.Writer, codec string) (io.WriteCloser, error) {
	switch codec {
	case ZstdCodec:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case GzipCodec:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case BrotliCodec:
		return brotli.NewWriterLevel(w, brotli.DefaultCompression), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, codec)
	}
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// Compress writes a compressed copy of src to dst. It stops between reads
// once ctx is done, and dst is removed on any error.
func Compress(ctx context.Context, src, dst, codec string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close target: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	enc, err := newEncoder(out, codec)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, contextReader{ctx: ctx, r: in}); err != nil {
		_ = enc.Close()
		return fmt.Errorf("compress %s: %w", src, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish %s stream: %w", codec, err)
	}
	return nil
}
