package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/avhart/spotify-history-tools/internal/dataset"
)

// InsertDataset loads every record transactionally. The day, hour and
// month buckets are computed in loc so that hour-of-day reporting uses
// the same zone normalization as the range filter: zone-aware
// timestamps are converted into loc, naive ones are treated as UTC
// first.
func (s *Store) InsertDataset(d *dataset.Dataset, loc *time.Location) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO Play (ts, day, hour, month, artist, track, track_artist,
			ms_played, episode, skipped, reason_end, platform, conn_country)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < d.Len(); i++ {
		r := d.Row(i)

		var ts, hour, msPlayed, skipped any
		var day, month any
		if t, _, ok := dataset.ParseTimestamp(r["ts"]); ok {
			local := t.In(loc)
			ts = t.UTC().Unix()
			day = local.Format("2006-01-02")
			hour = local.Hour()
			month = local.Format("2006-01")
		}
		if ms, ok := r.Int("ms_played"); ok {
			msPlayed = ms
		}
		if sk, ok := r.Bool("skipped"); ok {
			skipped = boolToInt(sk)
		}

		artist := nullString(r, "master_metadata_album_artist_name")
		track := nullString(r, "master_metadata_track_name")
		var trackArtist any
		if track.Valid && artist.Valid {
			trackArtist = track.String + " - " + artist.String
		}

		_, err := stmt.Exec(ts, day, hour, month, artist, track, trackArtist,
			msPlayed, nullString(r, "episode_name"), skipped,
			nullString(r, "reason_end"), nullString(r, "platform"),
			nullString(r, "conn_country"))
		if err != nil {
			return fmt.Errorf("inserting play %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func nullString(r dataset.Record, field string) sql.NullString {
	if s, ok := r.String(field); ok {
		return sql.NullString{String: s, Valid: true}
	}
	return sql.NullString{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
