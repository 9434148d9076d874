// Package ingest reads a directory of streaming-history JSON exports
// into one merged dataset.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/avhart/spotify-history-tools/internal/dataset"
)

// ErrNotFound is returned when the data directory does not exist.
// This is the one fatal ingestion error; everything else degrades to
// a warning.
var ErrNotFound = errors.New("folder not found")

const loadWorkers = 4

// LoadDirectory reads every *.json file under dir and merges them into
// a single dataset. Files are merged in lexicographic filename order,
// which fixes the row order of the result; loading happens on a small
// worker pool but results are reassembled in that order. A file that
// fails to parse is reported and skipped. Zero files, or zero files
// parsing, yields an empty dataset and no error.
func LoadDirectory(dir string) (*dataset.Dataset, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(files)

	if len(files) == 0 {
		fmt.Printf("No JSON files found in %s\n", dir)
		return dataset.New(), nil
	}

	parts := make([]*dataset.Dataset, len(files))
	loadErrs := make([]error, len(files))

	bar := progressbar.Default(int64(len(files)), "loading")
	var g errgroup.Group
	g.SetLimit(loadWorkers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			parts[i], loadErrs[i] = loadFile(file)
			bar.Add(1)
			return nil
		})
	}
	g.Wait()
	bar.Finish()

	for i, file := range files {
		if loadErrs[i] != nil {
			fmt.Printf("Error reading %s: %v\n", filepath.Base(file), loadErrs[i])
			continue
		}
		fmt.Printf("Loaded: %s - %d records\n", filepath.Base(file), parts[i].Len())
	}

	merged := dataset.Merge(parts)
	if merged.Len() > 0 {
		fmt.Printf("\nTotal records ingested: %d\n", merged.Len())
		fmt.Printf("Columns: %v\n", merged.Columns())
	}
	return merged, nil
}

func loadFile(path string) (*dataset.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []dataset.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	d := dataset.New()
	for _, r := range records {
		d.Append(r)
	}
	return d, nil
}
