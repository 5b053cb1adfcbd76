// Package mediafmt renders media durations and sizes for display.
package mediafmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders seconds as M:SS below one hour and H:MM:SS from one
// hour up. Negative values render as "0:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseDuration is the inverse of FormatDuration. It only accepts canonical
// strings, so FormatDuration(ParseDuration(x)) == x for every accepted x.
func ParseDuration(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || strings.TrimLeft(p, "0123456789") != "" {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", value, err)
		}
		nums[i] = n
	}

	var total int
	if len(nums) == 3 {
		if nums[0] == 0 || len(parts[1]) != 2 || len(parts[2]) != 2 || nums[1] > 59 || nums[2] > 59 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		if len(parts[0]) > 1 && parts[0][0] == '0' {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		total = nums[0]*3600 + nums[1]*60 + nums[2]
	} else {
		if len(parts[1]) != 2 || nums[0] > 59 || nums[1] > 59 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		if len(parts[0]) > 1 && parts[0][0] == '0' {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		total = nums[0]*60 + nums[1]
	}
	return total, nil
}

// FormatSize renders a byte count with IEC units, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
