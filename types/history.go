package types

import "time"

type HistoryEntry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp string    `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// UserActivity mirrors a history entry into the user_activities table.
type UserActivity struct {
	ID           string    `json:"id,omitempty"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Content      string    `json:"content"`
	Metadata     string    `json:"metadata,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
