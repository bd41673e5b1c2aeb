// Package jsonfile persists the dataset as a single JSON document. The
// document is the artifact the site serves, so it is kept diff-friendly:
// stable field order, two-space indent, trailing newline, rewritten in
// full or not at all.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/josaatt/josaatt.github.io/internal/model"
	"github.com/josaatt/josaatt.github.io/internal/period"
	"github.com/josaatt/josaatt.github.io/internal/store"
)

type Store struct {
	path           string
	trackedRegions []string
}

func New(path string, trackedRegions []string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonfile: path is required")
	}
	if len(trackedRegions) == 0 {
		return nil, fmt.Errorf("jsonfile: tracked regions are required")
	}
	return &Store{path: path, trackedRegions: trackedRegions}, nil
}

// Load reads the document and prepares it for merging: it finds the
// latest month every tracked region has data for, drops the partial
// months after it, and builds the de-duplication index. A missing or
// empty file yields an empty snapshot without a baseline.
func (s *Store) Load(ctx context.Context) (*store.Snapshot, error) {
	_ = ctx

	snapshot := &store.Snapshot{
		Seen: make(map[model.ObservationKey]struct{}),
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return snapshot, nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: reading %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return snapshot, nil
	}

	var rows []model.Observation
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("jsonfile: parsing %s: %w", s.path, err)
	}

	latest, ok := s.latestCompleteMonth(rows)
	if !ok {
		// Rows exist but no month covers every region; unusable as a
		// baseline, same as an empty file.
		return snapshot, nil
	}
	snapshot.LatestComplete = latest
	snapshot.HasBaseline = true

	for _, row := range rows {
		if m, err := period.Parse(row.Month); err == nil && m.After(latest) {
			continue
		}
		snapshot.Observations = append(snapshot.Observations, row)
		snapshot.Seen[row.Key()] = struct{}{}
	}
	return snapshot, nil
}

// latestCompleteMonth is the greatest parseable month whose region set
// equals the tracked set exactly. Unparseable tokens are skipped here but
// stay in the document.
func (s *Store) latestCompleteMonth(rows []model.Observation) (period.Month, bool) {
	regionsByMonth := make(map[string]map[string]struct{})
	for _, row := range rows {
		set, ok := regionsByMonth[row.Month]
		if !ok {
			set = make(map[string]struct{})
			regionsByMonth[row.Month] = set
		}
		set[row.Region] = struct{}{}
	}

	var latest period.Month
	var found bool
	for token, regions := range regionsByMonth {
		if !s.coversTracked(regions) {
			continue
		}
		m, err := period.Parse(token)
		if err != nil {
			continue
		}
		if !found || m.After(latest) {
			latest = m
			found = true
		}
	}
	return latest, found
}

func (s *Store) coversTracked(regions map[string]struct{}) bool {
	if len(regions) != len(s.trackedRegions) {
		return false
	}
	for _, name := range s.trackedRegions {
		if _, ok := regions[name]; !ok {
			return false
		}
	}
	return true
}

// Write rewrites the whole document, sorted by month then region.
// Unparseable month tokens sort before everything else.
func (s *Store) Write(ctx context.Context, observations []model.Observation) error {
	_ = ctx

	rows := append([]model.Observation(nil), observations...)
	sort.SliceStable(rows, func(i, j int) bool {
		mi, erri := period.Parse(rows[i].Month)
		mj, errj := period.Parse(rows[j].Month)
		if erri != nil {
			mi = period.Month{}
		}
		if errj != nil {
			mj = period.Month{}
		}
		if c := mi.Compare(mj); c != 0 {
			return c < 0
		}
		return rows[i].Region < rows[j].Region
	})

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encoding dataset: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", s.path, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
