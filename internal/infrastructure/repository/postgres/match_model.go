package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
)

type matchTableModel struct {
	ID           string         `db:"id"`
	MatchNumber  int            `db:"match_number"`
	Season       int            `db:"season"`
	ScheduledAt  time.Time      `db:"scheduled_at"`
	Venue        string         `db:"venue"`
	HomeTeam     string         `db:"home_team"`
	AwayTeam     string         `db:"away_team"`
	HomeTeamID   string         `db:"home_team_id"`
	AwayTeamID   string         `db:"away_team_id"`
	IsCompleted  bool           `db:"is_completed"`
	IsLive       bool           `db:"is_live"`
	WinnerTeamID sql.NullString `db:"winner_team_id"`
	WinByRuns    sql.NullInt64  `db:"win_by_runs"`
	WinByWickets sql.NullInt64  `db:"win_by_wickets"`
	StatusText   string         `db:"status_text"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}

type matchInsertModel struct {
	ID           string        `db:"id"`
	MatchNumber  int           `db:"match_number"`
	Season       int           `db:"season"`
	ScheduledAt  time.Time     `db:"scheduled_at"`
	Venue        string        `db:"venue"`
	HomeTeam     string        `db:"home_team"`
	AwayTeam     string        `db:"away_team"`
	HomeTeamID   string        `db:"home_team_id"`
	AwayTeamID   string        `db:"away_team_id"`
	IsCompleted  bool          `db:"is_completed"`
	IsLive       bool          `db:"is_live"`
	WinnerTeamID *string       `db:"winner_team_id"`
	WinByRuns    sql.NullInt64 `db:"win_by_runs"`
	WinByWickets sql.NullInt64 `db:"win_by_wickets"`
	StatusText   string        `db:"status_text"`
}

func mapMatchRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.ID,
		Number:       row.MatchNumber,
		Season:       row.Season,
		ScheduledAt:  row.ScheduledAt,
		Venue:        row.Venue,
		HomeTeam:     row.HomeTeam,
		AwayTeam:     row.AwayTeam,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		IsCompleted:  row.IsCompleted,
		IsLive:       row.IsLive,
		WinnerTeamID: row.WinnerTeamID.String,
		WinByRuns:    nullIntToPtr(row.WinByRuns),
		WinByWickets: nullIntToPtr(row.WinByWickets),
		StatusText:   row.StatusText,
	}
}
