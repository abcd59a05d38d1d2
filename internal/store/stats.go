package store

import (
	"context"
	"database/sql"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string        `json:"db_path"`
	DBSizeBytes      int64         `json:"db_size_bytes"`
	TotalBriefings   int           `json:"total_briefings"`
	SessionItems     int           `json:"session_items"`
	SessionUpdatedAt *time.Time    `json:"session_updated_at,omitempty"`
	Sources          []SourceStats `json:"sources"`
}

// SourceStats holds per-source counts.
type SourceStats struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Items  int    `json:"items"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Sources: []SourceStats{}}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM briefings`).Scan(&st.TotalBriefings)

	var data, updated sql.NullString
	s.db.QueryRowContext(ctx, `SELECT data, updated_at FROM session WHERE id = 1`).Scan(&data, &updated)
	if data.Valid {
		if snap, err := decodeSnapshot(data.String); err == nil {
			st.SessionItems = itemCount(snap)
		}
	}
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339Nano, updated.String); err == nil {
			st.SessionUpdatedAt = &t
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) AS cnt, COALESCE(SUM(items), 0) AS items
		FROM briefings GROUP BY source ORDER BY cnt DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ss SourceStats
		rows.Scan(&ss.Source, &ss.Count, &ss.Items)
		st.Sources = append(st.Sources, ss)
	}

	return st, rows.Err()
}
