package match

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	// ListByStatus filters stored matches. The live window bounds how far
	// back a non-completed match still counts as live when status rows
	// have gone stale between syncs.
	ListByStatus(ctx context.Context, status Status, liveWindow time.Duration) ([]Match, error)
	// Upsert is keyed by the upstream match id. On conflict only the
	// mutable columns change: schedule, venue, flags, winner and margins.
	// Rows in other tables referencing the match are never touched.
	Upsert(ctx context.Context, item Match) (Match, error)
}
