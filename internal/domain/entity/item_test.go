package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"broker_market/internal/domain/entity"
)

func TestInventory(t *testing.T) {
	rq := require.New(t)

	inv := entity.NewInventory([]entity.ItemInstance{
		{ID: "rifle-1", TemplateID: "rifle"},
		{ID: "scope-1", TemplateID: "scope", ParentID: "rifle-1"},
		{ID: "mount-1", TemplateID: "mount", ParentID: "scope-1"},
		{ID: "ammo-1", TemplateID: "ammo", StackCount: 60},
	})

	t.Run("item lookup", func(*testing.T) {
		item, ok := inv.Item("rifle-1")
		rq.True(ok)
		rq.Equal("rifle", item.TemplateID)

		_, ok = inv.Item("missing")
		rq.False(ok)
	})

	t.Run("subtree is root first", func(*testing.T) {
		subtree := inv.ItemWithChildren("rifle-1")
		rq.Len(subtree, 3)
		rq.Equal("rifle-1", subtree[0].ID)
		rq.Equal("scope-1", subtree[1].ID)
		rq.Equal("mount-1", subtree[2].ID)
	})

	t.Run("children", func(*testing.T) {
		rq.True(inv.HasChildren("rifle-1"))
		rq.False(inv.HasChildren("ammo-1"))
	})

	t.Run("full count sums stacks over the subtree", func(*testing.T) {
		rq.EqualValues(3, inv.FullCount("rifle-1"))
		rq.EqualValues(60, inv.FullCount("ammo-1"))
	})
}

func TestItemInstanceStack(t *testing.T) {
	rq := require.New(t)

	item := entity.ItemInstance{ID: "a", TemplateID: "t"}
	rq.EqualValues(1, item.Stack())

	item.StackCount = 40
	rq.EqualValues(40, item.Stack())
}
