package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/participation"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type ParticipationRepository struct {
	db *sqlx.DB
}

func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

type participationTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MatchID   string     `db:"match_id"`
	UserID    string     `db:"user_id"`
	Points    int        `db:"points"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type participationInsertModel struct {
	PublicID string `db:"public_id"`
	MatchID  string `db:"match_id"`
	UserID   string `db:"user_id"`
	Points   int    `db:"points"`
}

// Upsert conflicts on (match_id, user_id) so a user holds at most one
// entry per match. The row survives match re-syncs untouched.
func (r *ParticipationRepository) Upsert(ctx context.Context, item participation.Participation) (participation.Participation, error) {
	model := participationInsertModel{
		PublicID: item.ID,
		MatchID:  item.MatchID,
		UserID:   item.UserID,
		Points:   item.Points,
	}

	query, args, err := qb.InsertModel("participations", model, `ON CONFLICT (match_id, user_id) WHERE deleted_at IS NULL
DO UPDATE SET
    points = EXCLUDED.points,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return participation.Participation{}, fmt.Errorf("build upsert participation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return participation.Participation{}, fmt.Errorf("upsert participation match=%s user=%s: %w", item.MatchID, item.UserID, err)
	}

	return r.getByMatchAndUser(ctx, item.MatchID, item.UserID)
}

func (r *ParticipationRepository) ListByMatch(ctx context.Context, matchID string) ([]participation.Participation, error) {
	query, args, err := qb.Select("*").From("participations").
		Where(
			qb.Eq("match_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select participations by match query: %w", err)
	}
	return r.selectParticipations(ctx, query, args)
}

func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string) ([]participation.Participation, error) {
	query, args, err := qb.Select("*").From("participations").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select participations by user query: %w", err)
	}
	return r.selectParticipations(ctx, query, args)
}

func (r *ParticipationRepository) List(ctx context.Context) ([]participation.Participation, error) {
	query, args, err := qb.Select("*").From("participations").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select participations query: %w", err)
	}
	return r.selectParticipations(ctx, query, args)
}

func (r *ParticipationRepository) getByMatchAndUser(ctx context.Context, matchID, userID string) (participation.Participation, error) {
	query, args, err := qb.Select("*").From("participations").
		Where(
			qb.Eq("match_id", matchID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return participation.Participation{}, fmt.Errorf("build select participation query: %w", err)
	}

	var row participationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return participation.Participation{}, fmt.Errorf("select participation match=%s user=%s: %w", matchID, userID, err)
	}
	return mapParticipationRow(row), nil
}

func (r *ParticipationRepository) selectParticipations(ctx context.Context, query string, args []any) ([]participation.Participation, error) {
	var rows []participationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participations: %w", err)
	}

	out := make([]participation.Participation, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapParticipationRow(row))
	}
	return out, nil
}

func mapParticipationRow(row participationTableModel) participation.Participation {
	return participation.Participation{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		UserID:    row.UserID,
		Points:    row.Points,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
