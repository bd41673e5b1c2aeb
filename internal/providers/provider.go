package providers

import (
	"context"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
)

type Provider interface {
	Name() string
	FetchMonths(ctx context.Context, months []period.Month) ([]model.Observation, error)
}
