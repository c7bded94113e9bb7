package match

import (
	"strings"
	"time"
)

type Status string

const (
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusUpcoming  Status = "upcoming"
)

// ClassifyStatus buckets a free-text provider status by keyword
// containment, checking "live" before "complete" so in-progress matches
// with partial results are not marked finished early.
func ClassifyStatus(raw string) Status {
	text := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(text, "live"):
		return StatusLive
	case strings.Contains(text, "complete") || strings.Contains(text, "won") || strings.Contains(text, "win"):
		return StatusCompleted
	default:
		return StatusUpcoming
	}
}

type Match struct {
	ID           string
	Number       int
	Season       int
	ScheduledAt  time.Time
	Venue        string
	HomeTeam     string
	AwayTeam     string
	HomeTeamID   string
	AwayTeamID   string
	IsCompleted  bool
	IsLive       bool
	WinnerTeamID string
	WinByRuns    *int
	WinByWickets *int
	StatusText   string
}
