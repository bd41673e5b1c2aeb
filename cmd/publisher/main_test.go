package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/store"
)

func TestBuildLatestPicksNewestMonthPerRegion(t *testing.T) {
	snapshot := &store.Snapshot{
		Observations: []model.Observation{
			{Region: "Jönköping", Month: "2025M06", Population: 44800},
			{Region: "Norrköping", Month: "2025M06", Population: 60500},
			{Region: "Jönköping", Month: "2025M07", Population: 44830},
			{Region: "Norrköping", Month: "2025M07", Population: 60480},
		},
	}

	rows := buildLatest(snapshot)
	require.Len(t, rows, 2)

	assert.Equal(t, latestEntry{
		Region: "Jönköping", Month: "2025M07", Population: 44830, Change: 30,
	}, rows[0])
	assert.Equal(t, latestEntry{
		Region: "Norrköping", Month: "2025M07", Population: 60480, Change: -20,
	}, rows[1])
}

func TestBuildLatestWithoutPrecedingMonth(t *testing.T) {
	snapshot := &store.Snapshot{
		Observations: []model.Observation{
			{Region: "Norrköping", Month: "2025M07", Population: 60480},
		},
	}

	rows := buildLatest(snapshot)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Change)
}

func TestBuildLatestSkipsMalformedTokens(t *testing.T) {
	snapshot := &store.Snapshot{
		Observations: []model.Observation{
			{Region: "Norrköping", Month: "garbage", Population: 1},
		},
	}

	assert.Empty(t, buildLatest(snapshot))
}
