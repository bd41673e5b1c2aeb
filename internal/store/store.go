package store

import (
	"context"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
)

// Snapshot is the persisted dataset as loaded at the start of a run:
// the observations up to and including the latest complete month, the
// de-duplication index over them, and the latest complete month itself.
// HasBaseline is false when the document is missing or empty.
type Snapshot struct {
	Observations   []model.Observation
	Seen           map[model.ObservationKey]struct{}
	LatestComplete period.Month
	HasBaseline    bool
}

type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Write(ctx context.Context, observations []model.Observation) error
}
