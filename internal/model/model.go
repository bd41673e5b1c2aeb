package model

// Observation is one monthly population figure for one municipality.
// The (Region, Month) pair is unique across the whole dataset.
type Observation struct {
	Region     string `json:"region"`
	Month      string `json:"month"`
	Population int64  `json:"population"`
}

// ObservationKey is the de-duplication identity of an observation.
type ObservationKey struct {
	Region string
	Month  string
}

func (o Observation) Key() ObservationKey {
	return ObservationKey{Region: o.Region, Month: o.Month}
}
