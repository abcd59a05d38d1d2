// Package store provides the briefing storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/thisismy/internal/model"
)

// Briefing sources.
const (
	SourceUser     = "user"
	SourcePrepared = "prepared"
)

// ErrNotFound is returned when a briefing does not exist.
var ErrNotFound = errors.New("briefing not found")

// PutParams holds parameters for storing a briefing.
type PutParams struct {
	Name     string
	Source   string // defaults to SourceUser
	Snapshot *model.Snapshot
}

// GetParams identifies one stored briefing.
type GetParams struct {
	Name   string
	Source string // empty means user first, then prepared
}

// ListParams holds parameters for listing briefings.
type ListParams struct {
	Source string // empty lists every source
}

// RmParams identifies a briefing to delete.
type RmParams struct {
	Name   string
	Source string // defaults to SourceUser
}

// SyncResult reports how the prepared set changed.
type SyncResult struct {
	Stored  []string `json:"stored"`
	Removed []string `json:"removed"`
}

// Store defines the briefing storage interface.
type Store interface {
	// PutBriefing stores a briefing, overwriting one with the same name and source.
	PutBriefing(ctx context.Context, p PutParams) (*model.Briefing, error)

	// GetBriefing retrieves a briefing with its snapshot.
	GetBriefing(ctx context.Context, p GetParams) (*model.Briefing, error)

	// ListBriefings lists briefings without their snapshots.
	ListBriefings(ctx context.Context, p ListParams) ([]model.Briefing, error)

	// DeleteBriefing removes a briefing.
	DeleteBriefing(ctx context.Context, p RmParams) error

	// SyncPrepared replaces the whole prepared set.
	SyncPrepared(ctx context.Context, briefings map[string]*model.Snapshot) (*SyncResult, error)

	// LoadSession returns the current session. A fresh database yields an empty snapshot.
	LoadSession(ctx context.Context) (*model.Snapshot, error)

	// SaveSession stores the current session.
	SaveSession(ctx context.Context, snap *model.Snapshot) error

	// Stats returns database statistics.
	Stats(ctx context.Context, dbPath string) (*Stats, error)

	// Close closes the store.
	Close() error
}
