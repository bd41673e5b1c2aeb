// Command publisher turns the population dataset into the small JSON
// artifacts the site loads: a generation timestamp and the latest figure
// per municipality.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josaatt/josaatt.github.io/internal/period"
	"github.com/josaatt/josaatt.github.io/internal/providers/scb"
	"github.com/josaatt/josaatt.github.io/internal/store"
	"github.com/josaatt/josaatt.github.io/internal/store/jsonfile"
)

const defaultDataFile = "norrkoping_jonkoping_manad.json"

type metaFile struct {
	GeneratedAt string `json:"generated_at"`
}

type latestFile struct {
	GeneratedAt string        `json:"generated_at"`
	Rows        []latestEntry `json:"rows"`
}

type latestEntry struct {
	Region     string `json:"region"`
	Month      string `json:"month"`
	Population int64  `json:"population"`
	// Change is the delta against the preceding month, 0 when the
	// preceding month is absent.
	Change int64 `json:"change"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		build(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func build(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	outDir := fs.String("out", "site/data", "output directory")
	dataPath := fs.String("data", defaultDataFile, "path to the dataset document")
	fs.Parse(args)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "failed to create output dir:", err)
		os.Exit(1)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := writeJSON(filepath.Join(*outDir, "meta.json"), metaFile{GeneratedAt: now}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write meta.json:", err)
		os.Exit(1)
	}

	snapshot, err := loadSnapshot(*dataPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load dataset:", err)
		os.Exit(1)
	}

	latest := buildLatest(snapshot)
	if err := writeJSON(filepath.Join(*outDir, "latest.json"), latestFile{GeneratedAt: now, Rows: latest}); err != nil {
		fmt.Fprintln(os.Stderr, "failed to write latest.json:", err)
		os.Exit(1)
	}

	fmt.Printf("publisher build complete (out=%s rows=%d)\n", *outDir, len(latest))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: publisher build [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options:")
	fmt.Fprintln(os.Stderr, "  -out   output directory (default: site/data)")
	fmt.Fprintln(os.Stderr, "  -data  path to the dataset document (default: "+defaultDataFile+")")
}

func loadSnapshot(dataPath string) (*store.Snapshot, error) {
	provider, err := scb.NewWithConfig(scb.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	fileStore, err := jsonfile.New(dataPath, provider.RegionNames())
	if err != nil {
		return nil, err
	}
	return fileStore.Load(context.Background())
}

// buildLatest picks, per region, the newest complete-month figure and the
// month-over-month change. The snapshot is already truncated to complete
// months, so every region reports the same month.
func buildLatest(snapshot *store.Snapshot) []latestEntry {
	byRegion := make(map[string]map[string]int64)
	for _, row := range snapshot.Observations {
		if _, err := period.Parse(row.Month); err != nil {
			continue
		}
		months, ok := byRegion[row.Region]
		if !ok {
			months = make(map[string]int64)
			byRegion[row.Region] = months
		}
		months[row.Month] = row.Population
	}

	results := make([]latestEntry, 0, len(byRegion))
	for _, row := range snapshot.Observations {
		months := byRegion[row.Region]
		if months == nil {
			continue
		}
		latestToken := ""
		var latest period.Month
		for token := range months {
			m, err := period.Parse(token)
			if err != nil {
				continue
			}
			if latestToken == "" || m.After(latest) {
				latestToken = token
				latest = m
			}
		}
		if latestToken == "" {
			continue
		}

		entry := latestEntry{
			Region:     row.Region,
			Month:      latestToken,
			Population: months[latestToken],
		}
		if prev, ok := months[latest.Add(-1).String()]; ok {
			entry.Change = entry.Population - prev
		}
		results = append(results, entry)
		delete(byRegion, row.Region) // one entry per region, dataset order
	}
	return results
}

func writeJSON(path string, value any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
