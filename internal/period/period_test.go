package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	tokens := []string{"2025M01", "2025M12", "1999M06", "0001M02", "2100M10"}
	for _, token := range tokens {
		m, err := Parse(token)
		require.NoError(t, err, token)
		assert.Equal(t, token, m.String())
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	bad := []string{
		"",
		"2025M13",
		"2025M00",
		"2025-01",
		"202M01",
		"2025M1",
		"2025M012",
		"x2025M01",
		"2025M01x",
	}
	for _, token := range bad {
		_, err := Parse(token)
		assert.ErrorIs(t, err, ErrInvalidFormat, token)
	}
}

func TestAddRollsOverYears(t *testing.T) {
	jan := Month{Year: 2025, Month: time.January}

	assert.Equal(t, Month{Year: 2025, Month: time.February}, jan.Add(1))
	assert.Equal(t, Month{Year: 2026, Month: time.January}, jan.Add(12))
	assert.Equal(t, Month{Year: 2024, Month: time.December}, jan.Add(-1))
	assert.Equal(t, Month{Year: 2022, Month: time.November}, jan.Add(-26))
}

func TestAddIsInvertible(t *testing.T) {
	start := Month{Year: 2020, Month: time.July}
	for n := -40; n <= 40; n++ {
		assert.Equal(t, start, start.Add(n).Add(-n), "n=%d", n)
	}
}

func TestCompare(t *testing.T) {
	a := Month{Year: 2024, Month: time.December}
	b := Month{Year: 2025, Month: time.January}

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, Month{}.Before(a), "zero value sorts first")
}

func TestLastElapsed(t *testing.T) {
	assert.Equal(t,
		Month{Year: 2025, Month: time.July},
		LastElapsed(time.Date(2025, time.August, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t,
		Month{Year: 2024, Month: time.December},
		LastElapsed(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestRange(t *testing.T) {
	from := Month{Year: 2024, Month: time.November}
	to := Month{Year: 2025, Month: time.February}

	got := Tokens(Range(from, to))
	assert.Equal(t, []string{"2024M12", "2025M01", "2025M02"}, got)

	assert.Nil(t, Range(to, to), "end equal to start is empty")
	assert.Nil(t, Range(to, from), "inverted range is empty")
}
