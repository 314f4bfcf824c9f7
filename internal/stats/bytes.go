package stats

import (
	"fmt"
	"strconv"
)

const prefixes = "kMGTPE"

// FormatBytes formats a byte count with decimal unit prefixes:
// 999 is "999 B", 1000 is "1.0 kB" and 999950 is "1.0 MB".
func FormatBytes(bytes int64) string {
	if -1000 < bytes && bytes < 1000 {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	i := 0
	for bytes <= -999_950 || bytes >= 999_950 {
		bytes /= 1000
		i++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/1000.0, prefixes[i])
}
