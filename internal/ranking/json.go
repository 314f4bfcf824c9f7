package ranking

import (
	"bufio"
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonRecord struct {
	Rank         int64   `json:"rank"`
	Domain       string  `json:"domain"`
	OpenPageRank float64 `json:"openPageRank"`
}

const cancelCheckInterval = 1 << 14

// WriteJSONLines writes one JSON object per record, newline-terminated.
// It stops with ctx.Err() once ctx is done.
func WriteJSONLines(ctx context.Context, w io.Writer, s *Set) error {
	bw := bufio.NewWriterSize(w, 1<<16)
	stream := json.BorrowStream(bw)
	defer json.ReturnStream(stream)

	written := 0
	err := s.Each(func(r Record) error {
		if written%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		written++

		stream.WriteVal(jsonRecord{
			Rank:         r.Rank,
			Domain:       r.Domain,
			OpenPageRank: r.Score,
		})
		stream.WriteRaw("\n")
		if stream.Error != nil {
			return stream.Error
		}
		if stream.Buffered() >= 1<<15 {
			return stream.Flush()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write ranking json: %w", err)
	}

	if err := stream.Flush(); err != nil {
		return fmt.Errorf("flush ranking json: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush ranking json: %w", err)
	}
	return nil
}
