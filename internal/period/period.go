// Package period handles the YYYYMmm month tokens used by the SCB time
// dimension and the persisted dataset.
package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidFormat = errors.New("period: invalid month token")

var tokenPattern = regexp.MustCompile(`^(\d{4})M(\d{2})$`)

// Month is a calendar month at month granularity. The zero value sorts
// before every valid month.
type Month struct {
	Year  int
	Month time.Month
}

// Parse decodes a YYYYMmm token. Anything that does not match the fixed
// pattern, including month numbers outside 01-12, yields ErrInvalidFormat.
func Parse(token string) (Month, error) {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidFormat, token)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// String renders the canonical zero-padded token, e.g. "2025M01".
func (m Month) String() string {
	return fmt.Sprintf("%04dM%02d", m.Year, int(m.Month))
}

// Add returns the month n months after m. Negative n moves backwards;
// year rollover is handled in both directions.
func (m Month) Add(n int) Month {
	months := m.Year*12 + int(m.Month) - 1 + n
	year := months / 12
	month := months%12 + 1
	if month <= 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: time.Month(month)}
}

// Compare orders months chronologically: -1 if m is before o, +1 if
// after, 0 if equal.
func (m Month) Compare(o Month) int {
	a := m.Year*12 + int(m.Month)
	b := o.Year*12 + int(o.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (m Month) Before(o Month) bool { return m.Compare(o) < 0 }

func (m Month) After(o Month) bool { return m.Compare(o) > 0 }

// LastElapsed returns the month immediately preceding the month that
// contains today. That is the newest month SCB can have finished counting.
func LastElapsed(today time.Time) Month {
	return Month{Year: today.Year(), Month: today.Month()}.Add(-1)
}

// Range returns the tokens in (afterExclusive, endInclusive] in ascending
// order. An empty or inverted range yields nil.
func Range(afterExclusive, endInclusive Month) []Month {
	var out []Month
	for cur := afterExclusive.Add(1); !cur.After(endInclusive); cur = cur.Add(1) {
		out = append(out, cur)
	}
	return out
}

// Tokens renders a month slice as canonical tokens, in the same order.
func Tokens(months []Month) []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.String()
	}
	return out
}
