package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the tournament franchises into an empty
// database so first sync runs resolve against stable team ids.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (public_id, name, name_key, short, logo_url, founded_year)
VALUES (:public_id, :name, :name_key, :short, :logo_url, :founded_year)
ON CONFLICT (name_key) WHERE deleted_at IS NULL DO NOTHING`, map[string]any{
			"public_id":    t.ID,
			"name":         t.Name,
			"name_key":     t.NameKey,
			"short":        t.Short,
			"logo_url":     t.LogoURL,
			"founded_year": t.FoundedYear,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
