package store

import (
	"fmt"
	"time"
)

type LabelCount struct {
	Label string
	Count int64
}

type SkipRate struct {
	Track string
	Plays int64
	Skips int64
	Rate  float64
}

func (s *Store) TotalPlays() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(id) FROM Play").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return n, nil
}

// DateRange returns the earliest and latest play timestamps, in UTC.
// ok is false when no row has a timestamp.
func (s *Store) DateRange() (min, max time.Time, ok bool, err error) {
	var lo, hi *int64
	err = s.db.QueryRow("SELECT MIN(ts), MAX(ts) FROM Play WHERE ts IS NOT NULL").Scan(&lo, &hi)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("querying date range: %w", err)
	}
	if lo == nil || hi == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return time.Unix(*lo, 0).UTC(), time.Unix(*hi, 0).UTC(), true, nil
}

// Time-bucket columns valid for grouping. Guarding the column name
// keeps callers from interpolating arbitrary SQL.
var groupColumns = map[string]bool{
	"day":          true,
	"hour":         true,
	"month":        true,
	"artist":       true,
	"track_artist": true,
	"reason_end":   true,
	"platform":     true,
	"conn_country": true,
}

// CountsBy groups plays over one column, dropping NULL values. Buckets
// come back in bucket order for the time columns and descending count
// order otherwise.
func (s *Store) CountsBy(column string) ([]LabelCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("cannot group by column %q", column)
	}

	order := "COUNT(*) DESC, " + column
	switch column {
	case "day", "hour", "month":
		order = column
	}

	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*)
		FROM Play
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY %[2]s
	`, column, order)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("grouping by %s: %w", column, err)
	}
	defer rows.Close()

	var results []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		results = append(results, lc)
	}
	return results, rows.Err()
}

func (s *Store) TopArtists(limit int) ([]LabelCount, error) {
	return s.topBy("artist", limit)
}

func (s *Store) TopTracks(limit int) ([]LabelCount, error) {
	return s.topBy("track_artist", limit)
}

func (s *Store) topBy(column string, limit int) ([]LabelCount, error) {
	if !groupColumns[column] {
		return nil, fmt.Errorf("cannot group by column %q", column)
	}
	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*)
		FROM Play
		WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC, %[1]s
		LIMIT ?
	`, column)

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top %s: %w", column, err)
	}
	defer rows.Close()

	var results []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		results = append(results, lc)
	}
	return results, rows.Err()
}

// MostSkipped ranks tracks by how often their skipped flag was set.
func (s *Store) MostSkipped(limit int) ([]LabelCount, error) {
	rows, err := s.db.Query(`
		SELECT track_artist, COUNT(*)
		FROM Play
		WHERE skipped = 1 AND track_artist IS NOT NULL
		GROUP BY track_artist
		ORDER BY COUNT(*) DESC, track_artist
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying most skipped: %w", err)
	}
	defer rows.Close()

	var results []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		results = append(results, lc)
	}
	return results, rows.Err()
}

// SkippedByButton ranks tracks by forward-button skips (reason_end =
// "fwdbtn").
func (s *Store) SkippedByButton(limit int) ([]LabelCount, error) {
	rows, err := s.db.Query(`
		SELECT track_artist, COUNT(*)
		FROM Play
		WHERE reason_end = 'fwdbtn' AND track_artist IS NOT NULL
		GROUP BY track_artist
		ORDER BY COUNT(*) DESC, track_artist
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying skips by button: %w", err)
	}
	defer rows.Close()

	var results []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		results = append(results, lc)
	}
	return results, rows.Err()
}

// SkipRates computes per-track skip rates over tracks with at least
// minPlays plays. ascending=true returns the least-skipped tracks
// first. Ties break on play count (more plays first), then track name.
func (s *Store) SkipRates(minPlays, limit int, ascending bool) ([]SkipRate, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT track_artist,
			COUNT(*) AS plays,
			SUM(COALESCE(skipped, 0)) AS skips,
			SUM(COALESCE(skipped, 0)) * 1.0 / COUNT(*) AS rate
		FROM Play
		WHERE track_artist IS NOT NULL
		GROUP BY track_artist
		HAVING COUNT(*) >= ?
		ORDER BY rate %s, plays DESC, track_artist
		LIMIT ?
	`, direction)

	rows, err := s.db.Query(query, minPlays, limit)
	if err != nil {
		return nil, fmt.Errorf("querying skip rates: %w", err)
	}
	defer rows.Close()

	var results []SkipRate
	for rows.Next() {
		var sr SkipRate
		if err := rows.Scan(&sr.Track, &sr.Plays, &sr.Skips, &sr.Rate); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}
