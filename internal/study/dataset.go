package study

import "time"

// Dataset holds metadata for a readings file registered with a study.
type Dataset struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Patients    int       `json:"patients"`
	Days        int       `json:"days"`
	Missing     int       `json:"missing"`
	Summary     string    `json:"summary,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}
