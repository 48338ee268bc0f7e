package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned by ParseSize.
var ErrInvalidSize = errors.New("invalid size")

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"TIB", 1 << 40}, {"GIB", 1 << 30}, {"MIB", 1 << 20}, {"KIB", 1 << 10},
	{"TB", 1 << 40}, {"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"T", 1 << 40}, {"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// ParseSize parses a human-readable size into bytes. Units are powers of
// 1024 whether spelled K, KB or KiB; case is ignored. Fractions such as
// "1.5M" are allowed.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSize)
	}

	upper := strings.ToUpper(s)
	multiplier := int64(1)
	numStr := s
	for _, u := range sizeUnits {
		if strings.HasSuffix(upper, u.suffix) {
			multiplier = u.mult
			numStr = strings.TrimSpace(s[:len(s)-len(u.suffix)])
			break
		}
	}
	if numStr == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: %q is negative", ErrInvalidSize, s)
		}
		return n * multiplier, nil
	}
	f, err := strconv.ParseFloat(numStr, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(f * float64(multiplier)), nil
}
