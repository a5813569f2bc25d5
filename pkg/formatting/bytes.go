// Package formatting converts between byte counts and their human-readable
// form and decodes JSON replies from chat completion models.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizeUnits is ordered by power of 1024.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// unitPower resolves every accepted suffix spelling to its power of 1024.
var unitPower = map[string]int{
	"": 0, "B": 0,
	"K": 1, "KB": 1, "KIB": 1,
	"M": 2, "MB": 2, "MIB": 2,
	"G": 3, "GB": 3, "GIB": 3,
	"T": 4, "TB": 4, "TIB": 4,
}

var sizePattern = regexp.MustCompile(`^(\d+(?:\.\d*)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, e.g. 1536 at precision 1 is "1.5 KB".
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	value := float64(n)
	power := 0
	for math.Abs(value) >= 1024 && power < len(sizeUnits)-1 {
		value /= 1024
		power++
	}

	if power == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(value, 'f', precision, 64) + " " + sizeUnits[power]
}

// ParseBytes reads sizes such as "64KB", "2 mb", "1.5K" or "512". Suffixes
// are case-insensitive and base-1024; a bare number is a byte count.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	power, ok := unitPower[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", m[2])
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	size := value * math.Pow(1024, float64(power))
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return int64(size), nil
}
