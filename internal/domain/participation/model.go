package participation

import "time"

// Participation is one user's self-reported point total for one match.
// The sync engine never writes to this entity; it is owned by users.
type Participation struct {
	ID        string
	MatchID   string
	UserID    string
	Points    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserTotal struct {
	UserID  string
	Points  int
	Matches int
}
