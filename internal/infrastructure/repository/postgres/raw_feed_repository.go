package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/rawfeed"
	qb "github.com/riskibarqy/fantasy-cricket/internal/platform/querybuilder"
)

type RawFeedRepository struct {
	db *sqlx.DB
}

func NewRawFeedRepository(db *sqlx.DB) *RawFeedRepository {
	return &RawFeedRepository{db: db}
}

func (r *RawFeedRepository) UpsertMany(ctx context.Context, items []rawfeed.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw feed payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		fetchedAt := item.FetchedAt.UTC()
		if fetchedAt.IsZero() {
			fetchedAt = time.Now().UTC()
		}

		insertModel := rawFeedPayloadInsertModel{
			Source:      item.Source,
			Endpoint:    item.Endpoint,
			EntityKey:   item.EntityKey,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   fetchedAt,
		}

		query, args, err := qb.InsertModel("raw_feed_payloads", insertModel, `ON CONFLICT (source, endpoint, entity_key) WHERE deleted_at IS NULL
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert raw feed payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw feed payload endpoint=%s key=%s: %w", item.Endpoint, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw feed payloads tx: %w", err)
	}

	return nil
}

type rawFeedPayloadInsertModel struct {
	Source      string    `db:"source"`
	Endpoint    string    `db:"endpoint"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}
