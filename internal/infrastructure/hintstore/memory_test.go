package hintstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"broker_market/internal/domain/entity"
	"broker_market/internal/infrastructure/hintstore"
)

func TestMemory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	decision := entity.SellDecision{DestinationID: "vendor-a", Gross: 600, Canonical: 600, NetProfit: 600}

	t.Run("take consumes the hint", func(*testing.T) {
		store := hintstore.NewMemory(time.Minute, time.Minute)
		rq.NoError(store.Put(ctx, "owner-1", "item-1", decision))

		got, ok, err := store.Take(ctx, "owner-1", "item-1")
		rq.NoError(err)
		rq.True(ok)
		rq.Equal(decision, got)

		_, ok, err = store.Take(ctx, "owner-1", "item-1")
		rq.NoError(err)
		rq.False(ok)
	})

	t.Run("miss on unknown key", func(*testing.T) {
		store := hintstore.NewMemory(time.Minute, time.Minute)

		_, ok, err := store.Take(ctx, "owner-1", "item-1")
		rq.NoError(err)
		rq.False(ok)
	})

	t.Run("keyed per owner and item", func(*testing.T) {
		store := hintstore.NewMemory(time.Minute, time.Minute)
		rq.NoError(store.Put(ctx, "owner-1", "item-1", decision))

		_, ok, err := store.Take(ctx, "owner-2", "item-1")
		rq.NoError(err)
		rq.False(ok)

		_, ok, err = store.Take(ctx, "owner-1", "item-2")
		rq.NoError(err)
		rq.False(ok)
	})

	t.Run("last announcement wins", func(*testing.T) {
		store := hintstore.NewMemory(time.Minute, time.Minute)
		rq.NoError(store.Put(ctx, "owner-1", "item-1", decision))

		updated := decision
		updated.Gross = 700
		rq.NoError(store.Put(ctx, "owner-1", "item-1", updated))

		got, ok, err := store.Take(ctx, "owner-1", "item-1")
		rq.NoError(err)
		rq.True(ok)
		rq.Equal(updated, got)
	})

	t.Run("hints expire", func(*testing.T) {
		store := hintstore.NewMemory(10*time.Millisecond, time.Minute)
		rq.NoError(store.Put(ctx, "owner-1", "item-1", decision))

		time.Sleep(30 * time.Millisecond)

		_, ok, err := store.Take(ctx, "owner-1", "item-1")
		rq.NoError(err)
		rq.False(ok)
	})
}
