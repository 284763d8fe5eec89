package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ovenlight/storefront/internal/domain"
)

// Key is the single record the storefront persists.
const Key = "storefront:cart"

// SnapshotTTL is how long a persisted cart stays restorable. Snapshots
// at or beyond this age are discarded on load.
const SnapshotTTL = 24 * time.Hour

// Store persists the cart between sessions. Save overwrites the one
// snapshot record; Load returns an empty cart when the record is
// absent, expired or unreadable.
type Store interface {
	Save(ctx context.Context, lines []domain.CartLine) error
	Load(ctx context.Context) ([]domain.CartLine, error)
	Clear(ctx context.Context) error
}

type snapshotLine struct {
	ProductID int64 `json:"productId" bson:"productId"`
	Quantity  int   `json:"quantity" bson:"quantity"`
}

type snapshot struct {
	Cart      []snapshotLine `json:"cart" bson:"cart"`
	Timestamp int64          `json:"timestamp" bson:"timestamp"` // epoch millis
}

func encodeSnapshot(lines []domain.CartLine, now time.Time) ([]byte, error) {
	return json.Marshal(makeSnapshot(lines, now))
}

func makeSnapshot(lines []domain.CartLine, now time.Time) snapshot {
	snap := snapshot{
		Cart:      make([]snapshotLine, 0, len(lines)),
		Timestamp: now.UnixMilli(),
	}
	for _, l := range lines {
		snap.Cart = append(snap.Cart, snapshotLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return snap
}

// restore converts a snapshot back into cart lines, reporting whether
// the snapshot has expired relative to now.
func (s snapshot) restore(now time.Time) ([]domain.CartLine, bool) {
	age := now.Sub(time.UnixMilli(s.Timestamp))
	if age >= SnapshotTTL {
		return nil, true
	}
	lines := make([]domain.CartLine, 0, len(s.Cart))
	for _, l := range s.Cart {
		lines = append(lines, domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines, false
}
