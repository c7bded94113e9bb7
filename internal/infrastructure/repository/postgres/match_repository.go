package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match id=%s: %w", id, err)
	}
	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.IsNull("deleted_at")).
		OrderBy("scheduled_at", "match_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status, liveWindow time.Duration) ([]match.Match, error) {
	builder := qb.Select("*").From("matches")

	switch status {
	case match.StatusCompleted:
		builder.Where(qb.Eq("is_completed", true))
	case match.StatusLive:
		// Stale live rows age out of the bucket once their schedule time
		// falls outside the window.
		builder.Where(
			qb.Eq("is_live", true),
			qb.Eq("is_completed", false),
			qb.Expr("scheduled_at >= ?", time.Now().UTC().Add(-liveWindow)),
		)
	case match.StatusUpcoming:
		builder.Where(
			qb.Eq("is_completed", false),
			qb.Eq("is_live", false),
		)
	default:
		return nil, fmt.Errorf("unknown match status %q", status)
	}

	query, args, err := builder.
		Where(qb.IsNull("deleted_at")).
		OrderBy("scheduled_at", "match_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by status query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

// Upsert conflicts on the upstream match id and rewrites only the
// mutable columns. Nothing here cascades into participation rows.
func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	model := matchInsertModel{
		ID:           item.ID,
		MatchNumber:  item.Number,
		Season:       item.Season,
		ScheduledAt:  item.ScheduledAt.UTC(),
		Venue:        item.Venue,
		HomeTeam:     item.HomeTeam,
		AwayTeam:     item.AwayTeam,
		HomeTeamID:   item.HomeTeamID,
		AwayTeamID:   item.AwayTeamID,
		IsCompleted:  item.IsCompleted,
		IsLive:       item.IsLive,
		WinnerTeamID: optionalString(item.WinnerTeamID),
		WinByRuns:    ptrToNullInt(item.WinByRuns),
		WinByWickets: ptrToNullInt(item.WinByWickets),
		StatusText:   item.StatusText,
	}

	query, args, err := qb.InsertModel("matches", model, `ON CONFLICT (id)
DO UPDATE SET
    match_number = EXCLUDED.match_number,
    season = EXCLUDED.season,
    scheduled_at = EXCLUDED.scheduled_at,
    venue = EXCLUDED.venue,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    is_completed = EXCLUDED.is_completed,
    is_live = EXCLUDED.is_live,
    winner_team_id = EXCLUDED.winner_team_id,
    win_by_runs = EXCLUDED.win_by_runs,
    win_by_wickets = EXCLUDED.win_by_wickets,
    status_text = EXCLUDED.status_text,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match id=%s: %w", item.ID, err)
	}

	saved, found, err := r.GetByID(ctx, item.ID)
	if err != nil {
		return match.Match{}, err
	}
	if !found {
		return match.Match{}, fmt.Errorf("match id=%s missing after upsert", item.ID)
	}
	return saved, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}
	return out, nil
}
