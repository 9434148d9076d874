package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/avhart/spotify-history-tools/internal/dataset"
	"github.com/avhart/spotify-history-tools/internal/ingest"
	"github.com/avhart/spotify-history-tools/internal/store"
)

// loadFiltered runs ingestion and both filter stages. The returned
// dataset may be empty; callers treat that as a normal terminal case,
// not an error.
func loadFiltered(cfg RunConfig) (*dataset.Dataset, error) {
	ds, err := ingest.LoadDirectory(viper.GetString("data"))
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return ds, nil
	}

	ds = dataset.FilterByDateRange(ds, cfg.Start, cfg.End, "ts")
	ds = dataset.ApplyFlagFilters(ds, cfg.MinDurationFilter, cfg.MusicOnlyFilter)
	return ds, nil
}

// buildStore loads the filtered dataset into the in-memory store with
// time buckets in the configured zone.
func buildStore(ds *dataset.Dataset, cfg RunConfig) (*store.Store, error) {
	st, err := store.New()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if err := st.InsertDataset(ds, loadLocation(cfg.Timezone)); err != nil {
		st.Close()
		return nil, fmt.Errorf("loading store: %w", err)
	}
	return st, nil
}
