package decks

import "time"

// PitchDeck represents a deck generation job and its assembled result.
type PitchDeck struct {
	ID             string         `json:"id"`
	StartupID      string         `json:"startupId"`
	UserID         string         `json:"userId"`
	TemplateID     string         `json:"templateId"`
	SlideTypes     []string       `json:"slideTypes,omitempty"`
	Status         string         `json:"status"`
	Result         map[string]any `json:"result,omitempty"`
	SnapshotKey    string         `json:"snapshotKey,omitempty"`
	ErrorCode      string         `json:"errorCode,omitempty"`
	ErrorMessage   *string        `json:"errorMessage,omitempty"`
	ErrorRetryable bool           `json:"errorRetryable,omitempty"`
	StartedAt      *time.Time     `json:"startedAt,omitempty"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
