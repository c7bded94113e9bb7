package participation

import "context"

type Repository interface {
	Upsert(ctx context.Context, item Participation) (Participation, error)
	ListByMatch(ctx context.Context, matchID string) ([]Participation, error)
	ListByUser(ctx context.Context, userID string) ([]Participation, error)
	List(ctx context.Context) ([]Participation, error)
}
