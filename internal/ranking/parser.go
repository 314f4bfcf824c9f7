package ranking

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned for ranking rows that can not be parsed.
var ErrInvalidFormat = errors.New("ranking: invalid format")

// Parser reads "Rank","Domain","Open Page Rank" rows. Ranks must be
// positive and strictly increasing, scores finite and non-negative.
type Parser struct {
	reader   *csv.Reader
	line     int
	lastRank int64
}

func NewParser(r io.Reader) *Parser {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
	return &Parser{
		reader: reader,
	}
}

// Next returns the next record. The header row is skipped. It returns io.EOF
// when the input is exhausted.
func (p *Parser) Next() (Record, error) {
	for {
		fields, err := p.reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Record{}, io.EOF
			}
			return Record{}, wrapError(p.line+1, err)
		}

		p.line++
		if p.line == 1 {
			continue
		}

		rec, err := parseFields(p.line, fields)
		if err != nil {
			return Record{}, err
		}
		if rec.Rank <= p.lastRank {
			return Record{}, wrapError(p.line, fmt.Errorf("%w: rank %d after rank %d", ErrInvalidFormat, rec.Rank, p.lastRank))
		}
		p.lastRank = rec.Rank
		return rec, nil
	}
}

func parseFields(line int, fields []string) (Record, error) {
	if len(fields) != 3 {
		return Record{}, wrapError(line, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidFormat, len(fields)))
	}

	rank, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return Record{}, wrapError(line, fmt.Errorf("%w: rank: %w", ErrInvalidFormat, err))
	}
	if rank < 1 {
		return Record{}, wrapError(line, fmt.Errorf("%w: rank %d < 1", ErrInvalidFormat, rank))
	}

	domain := strings.TrimSpace(fields[1])
	if domain == "" {
		return Record{}, wrapError(line, fmt.Errorf("%w: empty domain", ErrInvalidFormat))
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Record{}, wrapError(line, fmt.Errorf("%w: score: %w", ErrInvalidFormat, err))
	}
	if !(score >= 0) || math.IsInf(score, 1) {
		return Record{}, wrapError(line, fmt.Errorf("%w: score %v", ErrInvalidFormat, score))
	}

	return Record{
		Rank:   rank,
		Domain: domain,
		Score:  score,
	}, nil
}

func wrapError(line int, err error) error {
	return fmt.Errorf("parse line %d: %w", line, err)
}

// Parse reads every record from r in input order.
func Parse(r io.Reader) ([]Record, error) {
	p := NewParser(r)

	var records []Record
	for {
		rec, err := p.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
