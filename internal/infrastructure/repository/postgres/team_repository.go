package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/team"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.IsNull("deleted_at")).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByKey(ctx context.Context, nameKey string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("name_key", nameKey),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by key query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by key=%s: %w", nameKey, err)
	}
	return mapTeamRow(row), true, nil
}

// Upsert conflicts on the normalized name key. Only the logo is mutable,
// and only when the incoming value is non-empty; identity columns keep
// their first-write values.
func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.Team, error) {
	model := teamInsertModel{
		PublicID:    item.ID,
		Name:        item.Name,
		NameKey:     item.NameKey,
		Short:       item.Short,
		LogoURL:     item.LogoURL,
		FoundedYear: item.FoundedYear,
	}

	query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (name_key) WHERE deleted_at IS NULL
DO UPDATE SET
    logo_url = CASE
        WHEN EXCLUDED.logo_url <> '' THEN EXCLUDED.logo_url
        ELSE teams.logo_url
    END,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return team.Team{}, fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("upsert team key=%s: %w", item.NameKey, err)
	}

	saved, found, err := r.GetByKey(ctx, item.NameKey)
	if err != nil {
		return team.Team{}, err
	}
	if !found {
		return team.Team{}, fmt.Errorf("team key=%s missing after upsert", item.NameKey)
	}
	return saved, nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:          row.PublicID,
		Name:        row.Name,
		NameKey:     row.NameKey,
		Short:       row.Short,
		LogoURL:     row.LogoURL,
		FoundedYear: row.FoundedYear,
	}
}
