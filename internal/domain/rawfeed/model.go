package rawfeed

import "time"

// Payload is a snapshot of one upstream response, kept for diagnosing
// reconciliation disputes against what the provider actually sent.
type Payload struct {
	Source      string
	Endpoint    string
	EntityKey   string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
