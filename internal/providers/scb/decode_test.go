package scb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
)

var (
	testCodes  = []string{"0581", "0680"}
	testNames  = map[string]string{"0581": "Norrköping", "0680": "Jönköping"}
	testMonths = []period.Month{
		{Year: 2025, Month: time.January},
		{Year: 2025, Month: time.February},
	}
)

func TestDecodeTableRegionMajorLayout(t *testing.T) {
	body := []byte(`CHARSET="ANSI";
CODES("region")="0581","0680";
DATA=100,200,110,210;
`)

	rows, err := decodeTable(body, testCodes, testNames, testMonths)
	require.NoError(t, err)

	assert.Equal(t, []model.Observation{
		{Region: "Norrköping", Month: "2025M01", Population: 100},
		{Region: "Norrköping", Month: "2025M02", Population: 200},
		{Region: "Jönköping", Month: "2025M01", Population: 110},
		{Region: "Jönköping", Month: "2025M02", Population: 210},
	}, rows)
}

func TestDecodeTableFollowsEchoedCodeOrder(t *testing.T) {
	// Same code set as requested, but echoed in the opposite order: the
	// value layout must follow the response, not the request.
	body := []byte(`CODES("region")="0680","0581";
DATA=110,210,100,200;`)

	rows, err := decodeTable(body, testCodes, testNames, testMonths)
	require.NoError(t, err)

	assert.Equal(t, []model.Observation{
		{Region: "Jönköping", Month: "2025M01", Population: 110},
		{Region: "Jönköping", Month: "2025M02", Population: 210},
		{Region: "Norrköping", Month: "2025M01", Population: 100},
		{Region: "Norrköping", Month: "2025M02", Population: 200},
	}, rows)
}

func TestDecodeTableMissingCodesFallsBackToRequestOrder(t *testing.T) {
	body := []byte(`DATA= 100 200 110 210 ;`)

	rows, err := decodeTable(body, testCodes, testNames, testMonths)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Norrköping", rows[0].Region)
	assert.Equal(t, "Jönköping", rows[2].Region)
}

func TestDecodeTableShortDataTruncates(t *testing.T) {
	body := []byte(`CODES("region")="0581","0680";
DATA=100,200,110;`)

	rows, err := decodeTable(body, testCodes, testNames, testMonths)
	require.NoError(t, err)

	assert.Equal(t, []model.Observation{
		{Region: "Norrköping", Month: "2025M01", Population: 100},
		{Region: "Norrköping", Month: "2025M02", Population: 200},
		{Region: "Jönköping", Month: "2025M01", Population: 110},
	}, rows)
}

func TestDecodeTableNegativeSentinelsPassThrough(t *testing.T) {
	body := []byte(`DATA=-1,-1,-1,-1;`)

	rows, err := decodeTable(body, testCodes, testNames, testMonths)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, int64(-1), row.Population)
	}
}

func TestDecodeTableMissingDataBlockIsFatal(t *testing.T) {
	body := []byte(`CODES("region")="0581","0680";`)

	_, err := decodeTable(body, testCodes, testNames, testMonths)
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestDecodeTableRejectsMismatchedRegionCodes(t *testing.T) {
	body := []byte(`CODES("region")="0581","0680","0180";
DATA=100,200,110,210,500,510;`)

	_, err := decodeTable(body, testCodes, testNames, testMonths)
	assert.ErrorIs(t, err, ErrRegionMismatch)
}

func TestDecodeTableUnknownCodeKeepsRawCode(t *testing.T) {
	body := []byte(`DATA=1,2,3,4;`)

	rows, err := decodeTable(body, testCodes, map[string]string{}, testMonths)
	require.NoError(t, err)
	assert.Equal(t, "0581", rows[0].Region)
	assert.Equal(t, "0680", rows[2].Region)
}

func TestDecodeLatin1(t *testing.T) {
	// "Norrköping" with ö as the single ISO 8859-1 byte 0xF6.
	raw := append([]byte("Norrk"), 0xF6)
	raw = append(raw, []byte("ping")...)

	assert.Equal(t, "Norrköping", decodeLatin1(raw))
}
