package ranking

import (
	"fmt"

	"github.com/maypok86/trafficgen/internal/trace"
)

// Load reads the ranking file at path and returns it as a Set.
// Compressed and zipped inputs are decoded transparently.
func Load(path string) (*Set, error) {
	reader, err := trace.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("create ranking reader: %w", err)
	}
	defer reader.Close()

	records, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parse ranking %s: %w", path, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("load ranking %s: %w", path, ErrEmptySet)
	}

	return NewSet(records), nil
}
