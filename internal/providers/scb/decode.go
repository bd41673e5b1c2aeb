package scb

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/encoding/charmap"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
)

// The PxWeb endpoint answers with PC-Axis-flavoured text, not JSON.
// Only two fragments matter: the echoed region code order and the flat
// value list.
var (
	regionCodesPattern = regexp.MustCompile(`CODES\("region"\)=([^;]+);`)
	quotedCodePattern  = regexp.MustCompile(`"([^"]+)"`)
	dataBlockPattern   = regexp.MustCompile(`DATA=\s*([^;]+);`)
	integerPattern     = regexp.MustCompile(`-?\d+`)
)

// decodeTable turns a raw PC-Axis response into observations. Values are
// laid out region-major: index = regionIndex*len(months) + monthIndex.
// A short value list truncates the output; a missing DATA block is fatal.
func decodeTable(body []byte, requestedCodes []string, names map[string]string, months []period.Month) ([]model.Observation, error) {
	text := decodeLatin1(body)

	codes := requestedCodes
	if m := regionCodesPattern.FindStringSubmatch(text); m != nil {
		var echoed []string
		for _, q := range quotedCodePattern.FindAllStringSubmatch(m[1], -1) {
			echoed = append(echoed, q[1])
		}
		if len(echoed) > 0 {
			if !sameCodeSet(echoed, requestedCodes) {
				return nil, fmt.Errorf("%w: got %v, requested %v", ErrRegionMismatch, echoed, requestedCodes)
			}
			codes = echoed
		}
	}

	m := dataBlockPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, ErrMissingData
	}

	raw := integerPattern.FindAllString(m[1], -1)
	values := make([]int64, 0, len(raw))
	for _, token := range raw {
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("scb: bad value %q in DATA block: %w", token, err)
		}
		values = append(values, v)
	}

	rows := make([]model.Observation, 0, len(codes)*len(months))
	idx := 0
	for _, code := range codes {
		name, ok := names[code]
		if !ok {
			name = code
		}
		for _, month := range months {
			if idx >= len(values) {
				// SCB sometimes omits trailing months; emit what we got.
				return rows, nil
			}
			rows = append(rows, model.Observation{
				Region:     name,
				Month:      month.String(),
				Population: values[idx],
			})
			idx++
		}
	}
	return rows, nil
}

// decodeLatin1 converts the ISO 8859-1 response body to UTF-8. The table
// markers are plain ASCII, so decode problems must never reject the whole
// response; the raw text is good enough as a fallback.
func decodeLatin1(body []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

func sameCodeSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
