package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/thisismy/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func noteSnapshot(keys ...string) *model.Snapshot {
	snap := &model.Snapshot{}
	for _, k := range keys {
		snap.SelectedNotes = append(snap.SelectedNotes, model.NewPair(k, "text of "+k))
		snap.OutputContents = append(snap.OutputContents, model.NewPair(k, "content of "+k))
		snap.SelectionOrder = append(snap.SelectionOrder, k)
	}
	return snap
}

func TestPutAndGetBriefing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	b, err := s.PutBriefing(ctx, PutParams{Name: "review", Snapshot: noteSnapshot("note:1", "note:2")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if b.ID == "" {
		t.Error("expected non-empty ID")
	}
	if b.Source != SourceUser {
		t.Errorf("expected source %q, got %q", SourceUser, b.Source)
	}
	if b.Items != 2 {
		t.Errorf("expected 2 items, got %d", b.Items)
	}

	got, err := s.GetBriefing(ctx, GetParams{Name: "review"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != b.ID {
		t.Errorf("expected id %s, got %s", b.ID, got.ID)
	}
	if len(got.Snapshot.SelectionOrder) != 2 || got.Snapshot.SelectionOrder[1] != "note:2" {
		t.Errorf("unexpected order %v", got.Snapshot.SelectionOrder)
	}
	text, err := got.Snapshot.OutputContents[0].String()
	if err != nil || text != "content of note:1" {
		t.Errorf("unexpected content %q (%v)", text, err)
	}
}

func TestPutOverwritesSameName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, _ := s.PutBriefing(ctx, PutParams{Name: "b", Snapshot: noteSnapshot("note:1")})
	second, err := s.PutBriefing(ctx, PutParams{Name: "b", Snapshot: noteSnapshot("note:1", "note:2", "note:3")})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("overwrite should keep id %s, got %s", first.ID, second.ID)
	}

	list, _ := s.ListBriefings(ctx, ListParams{})
	if len(list) != 1 {
		t.Fatalf("expected 1 briefing, got %d", len(list))
	}
	if list[0].Items != 3 {
		t.Errorf("expected 3 items, got %d", list[0].Items)
	}
}

func TestPutRequiresName(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.PutBriefing(context.Background(), PutParams{Name: "  "}); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetBriefing(context.Background(), GetParams{Name: "nope"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserShadowsPrepared(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutBriefing(ctx, PutParams{Name: "go", Source: SourcePrepared, Snapshot: noteSnapshot("note:p")})
	s.PutBriefing(ctx, PutParams{Name: "go", Snapshot: noteSnapshot("note:u")})

	got, err := s.GetBriefing(ctx, GetParams{Name: "go"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Source != SourceUser {
		t.Errorf("expected user briefing, got %s", got.Source)
	}

	got, err = s.GetBriefing(ctx, GetParams{Name: "go", Source: SourcePrepared})
	if err != nil {
		t.Fatalf("get prepared: %v", err)
	}
	if got.Snapshot.SelectionOrder[0] != "note:p" {
		t.Errorf("expected prepared snapshot, got %v", got.Snapshot.SelectionOrder)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutBriefing(ctx, PutParams{Name: "b", Snapshot: noteSnapshot("note:1")})
	s.PutBriefing(ctx, PutParams{Name: "a", Snapshot: noteSnapshot("note:1")})
	s.PutBriefing(ctx, PutParams{Name: "p", Source: SourcePrepared, Snapshot: noteSnapshot("note:1")})

	all, _ := s.ListBriefings(ctx, ListParams{})
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	if all[0].Name != "a" || all[1].Name != "b" || all[2].Name != "p" {
		t.Errorf("unexpected order: %s %s %s", all[0].Name, all[1].Name, all[2].Name)
	}
	if all[0].Snapshot != nil {
		t.Error("list should not load snapshots")
	}

	user, _ := s.ListBriefings(ctx, ListParams{Source: SourceUser})
	if len(user) != 2 {
		t.Errorf("expected 2 user briefings, got %d", len(user))
	}

	if err := s.DeleteBriefing(ctx, RmParams{Name: "a"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteBriefing(ctx, RmParams{Name: "a"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	// user delete does not touch prepared briefings
	if err := s.DeleteBriefing(ctx, RmParams{Name: "p"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for prepared name, got %v", err)
	}
}

func TestSyncPrepared(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutBriefing(ctx, PutParams{Name: "mine", Snapshot: noteSnapshot("note:1")})
	res, err := s.SyncPrepared(ctx, map[string]*model.Snapshot{
		"go":   noteSnapshot("note:g"),
		"rust": noteSnapshot("note:r"),
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(res.Stored) != 2 || len(res.Removed) != 0 {
		t.Errorf("unexpected first sync result %+v", res)
	}

	res, err = s.SyncPrepared(ctx, map[string]*model.Snapshot{
		"go": noteSnapshot("note:g", "note:h"),
	})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(res.Removed) != 1 || res.Removed[0] != "rust" {
		t.Errorf("expected rust removed, got %+v", res)
	}

	prepared, _ := s.ListBriefings(ctx, ListParams{Source: SourcePrepared})
	if len(prepared) != 1 || prepared[0].Items != 2 {
		t.Errorf("unexpected prepared set %+v", prepared)
	}
	if _, err := s.GetBriefing(ctx, GetParams{Name: "mine"}); err != nil {
		t.Errorf("user briefing should survive sync: %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	snap, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if !snap.Empty() {
		t.Error("expected empty session on fresh database")
	}

	if err := s.SaveSession(ctx, noteSnapshot("note:1")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveSession(ctx, noteSnapshot("note:1", "note:2")); err != nil {
		t.Fatalf("save again: %v", err)
	}

	snap, err = s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.SelectionOrder) != 2 {
		t.Errorf("expected 2 keys, got %v", snap.SelectionOrder)
	}

	if err := s.SaveSession(ctx, nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	snap, _ = s.LoadSession(ctx)
	if !snap.Empty() {
		t.Error("expected empty session after saving nil")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	s.PutBriefing(ctx, PutParams{Name: "a", Snapshot: noteSnapshot("note:1", "note:2")})
	s.PutBriefing(ctx, PutParams{Name: "p", Source: SourcePrepared, Snapshot: noteSnapshot("note:1")})
	s.SaveSession(ctx, noteSnapshot("note:1", "note:2", "note:3"))

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalBriefings != 2 {
		t.Errorf("expected 2 briefings, got %d", st.TotalBriefings)
	}
	if st.SessionItems != 3 {
		t.Errorf("expected 3 session items, got %d", st.SessionItems)
	}
	if st.SessionUpdatedAt == nil {
		t.Error("expected session timestamp")
	}
	if len(st.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(st.Sources))
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file missing: %v", err)
	}
	if st.DBPath != dbPath {
		t.Errorf("expected db path %s, got %s", dbPath, st.DBPath)
	}
}
