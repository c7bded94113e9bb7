package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByKey(ctx context.Context, nameKey string) (Team, bool, error)
	// Upsert creates the team when its name key is unseen, otherwise
	// refreshes the logo URL when the incoming one is non-empty. Name,
	// key, short code and founding year are immutable after creation.
	Upsert(ctx context.Context, item Team) (Team, error)
}
