package seen

import (
	"context"
	"time"
)

// Record is one previously-alerted listing identity. Records are
// created on first successful alert emission and never updated.
type Record struct {
	Source      string    `json:"source"`
	ListingID   string    `json:"listing_id"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// Store is the durable dedup store. Identity is (source, id): titles
// are not unique and price changes do not create a new identity.
// Implementations must support concurrent reads and idempotent
// concurrent writes.
type Store interface {
	// HasSeen reports whether the listing was alerted on in any prior run
	HasSeen(ctx context.Context, source, listingID string) (bool, error)

	// MarkSeen records the listing identity. Marking an already-seen
	// id is a no-op, not an error.
	MarkSeen(ctx context.Context, source, listingID string, firstSeen time.Time) error

	// Close releases the underlying storage handle
	Close() error
}
