package market_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/service/condition"
	"broker_market/internal/domain/service/market"
	"broker_market/pkg/tests"
)

type stubTemplates map[string]entity.ItemTemplate

func (s stubTemplates) Template(id string) (*entity.ItemTemplate, bool) {
	tpl, ok := s[id]
	if !ok {
		return nil, false
	}
	return &tpl, true
}

type stubListings map[string][]entity.MarketListing

func (s stubListings) ListingsForTemplate(_ context.Context, templateID string) ([]entity.MarketListing, error) {
	return s[templateID], nil
}

type stubEstimator struct {
	static, dynamic int64
	err             error
}

func (s stubEstimator) StaticPrice(context.Context, string) (int64, error)  { return s.static, s.err }
func (s stubEstimator) DynamicPrice(context.Context, string) (int64, error) { return s.dynamic, s.err }

type stubPrices map[string]float64

func (s stubPrices) MarketPrice(templateID string) (float64, bool) {
	avg, ok := s[templateID]
	return avg, ok
}

const categoryWeapon = "cat-weapon"

func testTemplates() stubTemplates {
	return stubTemplates{
		"rifle": {
			ID: "rifle", BasePrice: 1000, MaxDurability: 100, CommissionModifier: 1, Valid: true,
			Categories: []string{categoryWeapon},
		},
		"ammo": {
			ID: "ammo", BasePrice: 15, CommissionModifier: 1, Valid: true,
			Categories: []string{categoryWeapon},
		},
		"relic": {ID: "relic", BasePrice: 700, CommissionModifier: 1, Valid: true},
	}
}

func testRules() *entity.TradingRules {
	return &entity.TradingRules{
		ItemTaxPercent:        3,
		RequirementTaxPercent: 3,
		SkillBoostPercent:     10,
		Marketplace: entity.MarketplaceRules{
			Categories:        []string{categoryWeapon},
			ConditionFraction: 0.85,
		},
	}
}

func newValuation(listings stubListings, estimator stubEstimator) *market.Valuation {
	templates := testTemplates()
	return market.NewValuation(
		templates,
		condition.NewModel(templates),
		listings,
		estimator,
		testRules(),
	)
}

func listing(id string, cost int64, root entity.ItemInstance) entity.MarketListing {
	root.ID = id + "-root"
	root.TemplateID = "rifle"
	return entity.MarketListing{
		ID: id, TemplateID: "rifle",
		Items:            []entity.ItemInstance{root},
		RequirementsCost: cost,
	}
}

func TestEligibleTemplate(t *testing.T) {
	rq := require.New(t)
	v := newValuation(stubListings{}, stubEstimator{})

	rq.True(v.EligibleTemplate("rifle"))
	rq.False(v.EligibleTemplate("relic"))
	rq.False(v.EligibleTemplate("missing"))
}

func TestAverageTemplatePrice(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	t.Run("averages only representative listings", func(*testing.T) {
		barter := listing("l-barter", 5000, entity.ItemInstance{})
		barter.Barter = true

		vendorOwned := listing("l-vendor", 5000, entity.ItemInstance{})
		vendorOwned.VendorOwned = true

		bundled := listing("l-bundle", 5000, entity.ItemInstance{})
		bundled.Bundled = true

		worn := listing("l-worn", 5000, entity.ItemInstance{
			Durability: &entity.Durability{Current: 40, Max: 100},
		})

		v := newValuation(stubListings{"rifle": {
			listing("l-1", 900, entity.ItemInstance{}),
			listing("l-2", 1100, entity.ItemInstance{}),
			barter, vendorOwned, bundled, worn,
		}}, stubEstimator{})

		avg, err := v.AverageTemplatePrice(ctx, "rifle")
		rq.NoError(err)
		rq.InDelta(1000, avg, 0.001)
	})

	t.Run("falls back to the larger reference estimate", func(*testing.T) {
		v := newValuation(stubListings{}, stubEstimator{static: 800, dynamic: 950})

		avg, err := v.AverageTemplatePrice(ctx, "rifle")
		rq.NoError(err)
		rq.InDelta(950, avg, 0.001)
	})

	t.Run("estimator failure degrades to zero", func(*testing.T) {
		v := newValuation(stubListings{}, stubEstimator{err: errors.New("down")})

		avg, err := v.AverageTemplatePrice(ctx, "rifle")
		rq.NoError(err)
		rq.Zero(avg)
	})
}

func TestItemPrices(t *testing.T) {
	rq := require.New(t)

	v := newValuation(stubListings{}, stubEstimator{})
	v.SetPriceSource(stubPrices{"rifle": 1000, "ammo": 20})

	t.Run("condition fraction scales the average, floored", func(*testing.T) {
		price, err := v.SingleItemPrice(&entity.ItemInstance{
			ID: "r", TemplateID: "rifle",
			Durability: &entity.Durability{Current: 50, Max: 100},
		})
		rq.NoError(err)
		rq.EqualValues(500, price)
	})

	t.Run("linear in stack count", func(*testing.T) {
		for _, stack := range []int64{1, 2, 7, 60} {
			price, err := v.SingleItemPrice(&entity.ItemInstance{
				ID: "a", TemplateID: "ammo", StackCount: stack,
			})
			rq.NoError(err)
			rq.EqualValues(20*stack, price)
		}
	})

	t.Run("no table entry prices at zero", func(*testing.T) {
		price, err := v.SingleItemPrice(&entity.ItemInstance{ID: "x", TemplateID: "relic"})
		rq.NoError(err)
		rq.Zero(price)
	})

	t.Run("recursive over children", func(*testing.T) {
		inv := entity.NewInventory([]entity.ItemInstance{
			{ID: "rifle-1", TemplateID: "rifle"},
			{ID: "ammo-1", TemplateID: "ammo", ParentID: "rifle-1", StackCount: 30},
		})

		price, err := v.ItemPrice(inv, "rifle-1")
		rq.NoError(err)
		rq.EqualValues(1000+20*30, price)
	})

	t.Run("root only when attachments are ignored", func(*testing.T) {
		templates := testTemplates()
		rootOnly := market.NewValuation(
			templates, condition.NewModel(templates), stubListings{}, stubEstimator{}, testRules(),
		).WithIgnoreAttachments(true)
		rootOnly.SetPriceSource(stubPrices{"rifle": 1000, "ammo": 20})

		inv := entity.NewInventory([]entity.ItemInstance{
			{ID: "rifle-1", TemplateID: "rifle"},
			{ID: "ammo-1", TemplateID: "ammo", ParentID: "rifle-1", StackCount: 30},
		})

		price, err := rootOnly.ItemPrice(inv, "rifle-1")
		rq.NoError(err)
		rq.EqualValues(1000, price)
	})
}

func TestTax(t *testing.T) {
	rq := require.New(t)
	v := newValuation(stubListings{}, stubEstimator{})
	item := &entity.ItemInstance{ID: "r", TemplateID: "rifle"}

	t.Run("asking the item's worth taxes both sides flat", func(*testing.T) {
		tax, err := v.Tax(item, nil, 1000, 1000, 1, false)
		rq.NoError(err)
		rq.EqualValues(60, tax)
	})

	t.Run("overpricing is punished nonlinearly", func(*testing.T) {
		fair, err := v.Tax(item, nil, 1000, 1000, 1, false)
		rq.NoError(err)

		greedy, err := v.Tax(item, nil, 1000, 10000, 1, false)
		rq.NoError(err)
		rq.Greater(greedy, fair*10)
	})

	t.Run("owner bonus reduces the tax", func(*testing.T) {
		owner := &entity.Owner{ID: "o", CommissionBonus: -10, SkillProgress: 250}

		// reduction = 10 * (1 + 2*0.1) / 100 = 0.12
		tax, err := v.Tax(item, owner, 1000, 1000, 1, false)
		rq.NoError(err)
		rq.EqualValues(53, tax)
	})

	t.Run("degenerate inputs tax at zero", func(*testing.T) {
		for _, tc := range []struct {
			name      string
			base      float64
			requested int64
			quantity  int64
		}{
			{"zero ask", 1000, 0, 1},
			{"zero quantity", 1000, 1000, 0},
			{"zero offer value", 0, 1000, 1},
		} {
			tax, err := v.Tax(item, nil, tc.base, tc.requested, tc.quantity, false)
			rq.NoError(err, tc.name)
			rq.Zero(tax, tc.name)
		}
	})

	t.Run("never negative across random asks", func(*testing.T) {
		random := tests.NewRandomizer()

		for range 100 {
			requested := int64(random.Float64()*20000) + 1

			tax, err := v.Tax(item, nil, 1000, requested, 1, false)
			rq.NoError(err)
			rq.GreaterOrEqual(tax, int64(0))
		}
	})

	t.Run("buff raises the tax", func(*testing.T) {
		templates := testTemplates()
		rules := testRules()
		rules.BuffPriceModifiers = map[string]float64{"accuracy": 2}

		buffed := market.NewValuation(
			templates, condition.NewModel(templates), stubListings{}, stubEstimator{}, rules,
		)

		withBuff := &entity.ItemInstance{
			ID: "r", TemplateID: "rifle",
			Buff: &entity.Buff{Type: "accuracy", Value: 1.5},
		}

		plain, err := buffed.Tax(item, nil, 1000, 1000, 1, false)
		rq.NoError(err)

		taxed, err := buffed.Tax(withBuff, nil, 1000, 1000, 1, false)
		rq.NoError(err)
		rq.EqualValues(plain*2, taxed)
	})
}
