package activity

import "time"

// Entry is one item in a user's activity feed.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProjectID string    `json:"projectId"`
	Action    string    `json:"action"`
	Title     string    `json:"title,omitempty"`
	At        time.Time `json:"at"`
}
