package condition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/service/condition"
	"broker_market/internal/domain/value"
)

type stubTemplates map[string]entity.ItemTemplate

func (s stubTemplates) Template(id string) (*entity.ItemTemplate, bool) {
	tpl, ok := s[id]
	if !ok {
		return nil, false
	}
	return &tpl, true
}

func testTemplates() stubTemplates {
	return stubTemplates{
		"rifle": {ID: "rifle", BasePrice: 1000, MaxDurability: 100, Valid: true},
		"meds": {
			ID: "meds", BasePrice: 300, MaxUnits: 15, Valid: true,
			Categories: []string{value.CategoryMedical},
		},
		"water": {
			ID: "water", BasePrice: 120, MaxResource: 60, Valid: true,
			Categories: []string{value.CategoryFoodDrink},
		},
		"key":  {ID: "key", BasePrice: 5000, MaxUsage: 5, Valid: true},
		"coin": {ID: "coin", BasePrice: 10, Valid: true},
		"token": {
			ID: "token", BasePrice: 200, Valid: true,
			Categories: []string{value.CategoryGradedToken},
		},
	}
}

func TestComponentTypes(t *testing.T) {
	rq := require.New(t)
	model := condition.NewModel(testTemplates())

	t.Run("derived from the template", func(*testing.T) {
		types, err := model.ComponentTypes(&entity.ItemInstance{ID: "r", TemplateID: "rifle"})
		rq.NoError(err)
		rq.Equal([]value.ComponentType{value.ComponentDurability}, types)
	})

	t.Run("instance buff joins template types", func(*testing.T) {
		types, err := model.ComponentTypes(&entity.ItemInstance{
			ID: "r", TemplateID: "rifle",
			Buff: &entity.Buff{Type: "accuracy", Value: 1.2},
		})
		rq.NoError(err)
		rq.Equal([]value.ComponentType{value.ComponentDurability, value.ComponentBuff}, types)
	})

	t.Run("unknown template", func(*testing.T) {
		_, err := model.ComponentTypes(&entity.ItemInstance{ID: "x", TemplateID: "nope"})
		rq.Error(err)
	})

	t.Run("plain item has none", func(*testing.T) {
		types, err := model.ComponentTypes(&entity.ItemInstance{ID: "c", TemplateID: "coin"})
		rq.NoError(err)
		rq.Empty(types)
	})
}

func TestPoints(t *testing.T) {
	rq := require.New(t)
	model := condition.NewModel(testTemplates())

	t.Run("durability tracks the instance maximum", func(*testing.T) {
		p, err := model.Points(&entity.ItemInstance{
			ID: "r", TemplateID: "rifle",
			Durability: &entity.Durability{Current: 50, Max: 80},
		}, value.ComponentDurability)
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 50, MaxPoints: 80, TemplateMax: 100}, p)
	})

	t.Run("stateless item is factory new", func(*testing.T) {
		p, err := model.Points(&entity.ItemInstance{ID: "r", TemplateID: "rifle"}, value.ComponentDurability)
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 100, MaxPoints: 100, TemplateMax: 100}, p)
	})

	t.Run("usage counts remaining uses", func(*testing.T) {
		p, err := model.Points(&entity.ItemInstance{
			ID: "k", TemplateID: "key",
			Usage: &entity.Usage{Consumed: 2},
		}, value.ComponentUsage)
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 3, MaxPoints: 5, TemplateMax: 5}, p)
	})

	t.Run("zero points floor to one", func(*testing.T) {
		p, err := model.Points(&entity.ItemInstance{
			ID: "r", TemplateID: "rifle",
			Durability: &entity.Durability{Current: 0, Max: 0},
		}, value.ComponentDurability)
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 1, MaxPoints: 1, TemplateMax: 100}, p)
	})

	t.Run("level is a discrete multiplier", func(*testing.T) {
		level := int64(3)
		p, err := model.Points(&entity.ItemInstance{
			ID: "t", TemplateID: "token", Level: &level,
		}, value.ComponentLevel)
		rq.NoError(err)
		rq.InDelta(3, p.Points, 0)
		rq.InDelta(1, p.TemplateMax, 0)
	})
}

func TestMarketPoints(t *testing.T) {
	rq := require.New(t)
	model := condition.NewModel(testTemplates())

	t.Run("first market-relevant component wins", func(*testing.T) {
		p, err := model.MarketPoints(&entity.ItemInstance{
			ID: "m", TemplateID: "meds",
			Medical: &entity.Medical{Remaining: 5},
		})
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 5, MaxPoints: 15, TemplateMax: 15}, p)
	})

	t.Run("neutral state without components", func(*testing.T) {
		p, err := model.MarketPoints(&entity.ItemInstance{ID: "c", TemplateID: "coin"})
		rq.NoError(err)
		rq.Equal(value.ComponentPoints{Points: 1, MaxPoints: 1, TemplateMax: 1}, p)
	})
}
