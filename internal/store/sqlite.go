package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/thisismy/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS briefings (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		source      TEXT NOT NULL DEFAULT 'user',
		data        TEXT NOT NULL,
		items       INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE (name, source)
	);
	CREATE INDEX IF NOT EXISTS idx_briefings_source ON briefings(source, name);

	CREATE TABLE IF NOT EXISTS session (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		data        TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) PutBriefing(ctx context.Context, p PutParams) (*model.Briefing, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("briefing name is required")
	}
	source := p.Source
	if source == "" {
		source = SourceUser
	}
	data, err := encodeSnapshot(p.Snapshot)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b, err := putTx(ctx, tx, s.newID(), name, source, data, itemCount(p.Snapshot))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	b.Snapshot = p.Snapshot
	return b, nil
}

// putTx inserts or overwrites one briefing. An overwrite keeps the row's
// id and creation time.
func putTx(ctx context.Context, tx *sql.Tx, newID, name, source, data string, items int) (*model.Briefing, error) {
	now := time.Now().UTC()
	b := &model.Briefing{Name: name, Source: source, Items: items, UpdatedAt: now}

	var createdAt string
	err := tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM briefings WHERE name = ? AND source = ?`,
		name, source).Scan(&b.ID, &createdAt)
	switch {
	case err == nil:
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		_, err = tx.ExecContext(ctx,
			`UPDATE briefings SET data = ?, items = ?, updated_at = ? WHERE id = ?`,
			data, items, now.Format(time.RFC3339Nano), b.ID)
		if err != nil {
			return nil, fmt.Errorf("update briefing: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		b.ID = newID
		b.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO briefings (id, name, source, data, items, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, name, source, data, items, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
		if err != nil {
			return nil, fmt.Errorf("insert briefing: %w", err)
		}
	default:
		return nil, err
	}
	return b, nil
}

func (s *SQLiteStore) GetBriefing(ctx context.Context, p GetParams) (*model.Briefing, error) {
	query := `SELECT id, name, source, items, created_at, updated_at, data
	          FROM briefings WHERE name = ?`
	args := []interface{}{p.Name}
	if p.Source != "" {
		query += ` AND source = ?`
		args = append(args, p.Source)
	}
	// user briefings shadow prepared ones of the same name
	query += ` ORDER BY CASE source WHEN 'user' THEN 0 ELSE 1 END LIMIT 1`

	var data string
	b, err := scanBriefing(s.db.QueryRowContext(ctx, query, args...), &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.Name)
	}
	if err != nil {
		return nil, err
	}
	b.Snapshot, err = decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLiteStore) ListBriefings(ctx context.Context, p ListParams) ([]model.Briefing, error) {
	query := `SELECT id, name, source, items, created_at, updated_at FROM briefings`
	var args []interface{}
	if p.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, p.Source)
	}
	query += ` ORDER BY source DESC, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefings []model.Briefing
	for rows.Next() {
		b, err := scanBriefing(rows, nil)
		if err != nil {
			return nil, err
		}
		briefings = append(briefings, b)
	}
	return briefings, rows.Err()
}

func (s *SQLiteStore) DeleteBriefing(ctx context.Context, p RmParams) error {
	source := p.Source
	if source == "" {
		source = SourceUser
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM briefings WHERE name = ? AND source = ?`, p.Name, source)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, p.Name)
	}
	return nil
}

func (s *SQLiteStore) SyncPrepared(ctx context.Context, briefings map[string]*model.Snapshot) (*SyncResult, error) {
	names := make([]string, 0, len(briefings))
	for name := range briefings {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := preparedNames(ctx, tx)
	if err != nil {
		return nil, err
	}

	res := &SyncResult{Stored: []string{}, Removed: []string{}}
	for _, name := range names {
		data, err := encodeSnapshot(briefings[name])
		if err != nil {
			return nil, err
		}
		if _, err := putTx(ctx, tx, s.newID(), name, SourcePrepared, data, itemCount(briefings[name])); err != nil {
			return nil, err
		}
		res.Stored = append(res.Stored, name)
	}
	for _, name := range existing {
		if _, ok := briefings[name]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM briefings WHERE name = ? AND source = ?`, name, SourcePrepared); err != nil {
			return nil, fmt.Errorf("remove prepared briefing: %w", err)
		}
		res.Removed = append(res.Removed, name)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func preparedNames(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM briefings WHERE source = ? ORDER BY name`, SourcePrepared)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) LoadSession(ctx context.Context) (*model.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM session WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeSnapshot(data)
}

func (s *SQLiteStore) SaveSession(ctx context.Context, snap *model.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanBriefing reads a briefing row. When data is non-nil the row carries
// the data column last.
func scanBriefing(row scanner, data *string) (model.Briefing, error) {
	var b model.Briefing
	var createdAt, updatedAt string

	dest := []interface{}{&b.ID, &b.Name, &b.Source, &b.Items, &createdAt, &updatedAt}
	if data != nil {
		dest = append(dest, data)
	}
	if err := row.Scan(dest...); err != nil {
		return b, err
	}

	b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	b.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return b, nil
}
