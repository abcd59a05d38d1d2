package model

import "time"

// Briefing is a named, stored snapshot.
type Briefing struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Snapshot  *Snapshot `json:"snapshot,omitempty"`
	Items     int       `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
