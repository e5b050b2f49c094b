package usage

import "time"

// Usage is a snapshot of how many deck generations a user has left on their plan.
type Usage struct {
	Plan     string    `json:"plan"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}
