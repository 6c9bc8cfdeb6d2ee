package hintstore

import (
	"context"

	"broker_market/internal/domain/entity"
)

// Store keeps client-announced sell decisions until the matching settlement
// arrives. A hint is consumed at most once; writing the same key twice keeps
// only the later hint.
type Store interface {
	Put(ctx context.Context, ownerID, itemID string, decision entity.SellDecision) error
	// Take returns and removes the hint, ok reporting whether one was stored.
	Take(ctx context.Context, ownerID, itemID string) (entity.SellDecision, bool, error)
}

func key(ownerID, itemID string) string {
	return ownerID + ":" + itemID
}
