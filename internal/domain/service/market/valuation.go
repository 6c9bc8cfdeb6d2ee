package market

import (
	"context"
	"log/slog"
	"math"

	"github.com/samber/lo"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/value"
	"broker_market/pkg/contextx"
	"broker_market/pkg/errcodes"
	"broker_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const taxCurveExponent = 1.08

// Templates is the slice of the catalog the valuation needs.
type Templates interface {
	Template(templateID string) (*entity.ItemTemplate, bool)
}

// Conditions extracts component state for listing filtering and price scaling.
type Conditions interface {
	MarketPoints(item *entity.ItemInstance) (value.ComponentPoints, error)
}

// Listings samples the live marketplace offers of a template.
type Listings interface {
	ListingsForTemplate(ctx context.Context, templateID string) ([]entity.MarketListing, error)
}

// Estimator is the external reference-price service consulted when no live
// listing qualifies.
type Estimator interface {
	StaticPrice(ctx context.Context, templateID string) (int64, error)
	DynamicPrice(ctx context.Context, templateID string) (int64, error)
}

// PriceSource serves the warmed-up average-price table on the per-request
// path. Set once after the lookup cache goes warm.
type PriceSource interface {
	MarketPrice(templateID string) (float64, bool)
}

// Valuation derives average per-template marketplace prices and the nonlinear
// listing tax.
type Valuation struct {
	templates  Templates
	conditions Conditions
	listings   Listings
	estimates  Estimator
	rules      *entity.TradingRules

	prices            PriceSource
	ignoreAttachments bool
}

func NewValuation(
	templates Templates,
	conditions Conditions,
	listings Listings,
	estimates Estimator,
	rules *entity.TradingRules,
) *Valuation {
	return &Valuation{
		templates:  templates,
		conditions: conditions,
		listings:   listings,
		estimates:  estimates,
		rules:      rules,
	}
}

// WithIgnoreAttachments requests root-only valuation: child items are left out
// of the market price so incidental attachments don't inflate it.
func (v *Valuation) WithIgnoreAttachments(ignore bool) *Valuation {
	v.ignoreAttachments = ignore
	return v
}

// SetPriceSource wires the warmed-up lookup table. One-way, done at startup.
func (v *Valuation) SetPriceSource(prices PriceSource) {
	v.prices = prices
}

// EligibleTemplate reports whether the template may appear on the marketplace
// at all (validity plus category allow-list).
func (v *Valuation) EligibleTemplate(templateID string) bool {
	tpl, ok := v.templates.Template(templateID)
	if !ok || !tpl.Valid {
		return false
	}
	for _, categoryID := range v.rules.Marketplace.Categories {
		if tpl.IsOfCategory(categoryID) {
			return true
		}
	}
	return false
}

// AverageTemplatePrice samples live listings and averages the requirement cost
// of the representative ones: peer-posted, currency-priced, not an assembled
// bundle, and in at least the configured condition fraction. With no
// qualifying listing it falls back to the larger of the static and dynamic
// reference estimates.
func (v *Valuation) AverageTemplatePrice(ctx context.Context, templateID string) (float64, error) {
	listings, err := v.listings.ListingsForTemplate(ctx, templateID)
	if err != nil {
		return 0, err
	}

	qualified := lo.Filter(listings, func(l entity.MarketListing, _ int) bool {
		return v.listingQualifies(&l)
	})

	if len(qualified) == 0 {
		return v.estimateFallback(ctx, templateID), nil
	}

	total := lo.SumBy(qualified, func(l entity.MarketListing) int64 { return l.RequirementsCost })
	return float64(total) / float64(len(qualified)), nil
}

func (v *Valuation) listingQualifies(l *entity.MarketListing) bool {
	root := l.Root()
	if root == nil || l.VendorOwned || l.Barter || l.Bundled {
		return false
	}

	p, err := v.conditions.MarketPoints(root)
	if err != nil {
		return false
	}

	// listings below the condition floor would drag the per-unit estimate down
	floor := p.TemplateMax * v.rules.Marketplace.ConditionFraction
	return p.Points >= floor && p.MaxPoints >= floor
}

func (v *Valuation) estimateFallback(ctx context.Context, templateID string) float64 {
	static, err := v.estimates.StaticPrice(ctx, templateID)
	if err != nil {
		logger(ctx).Warn("static estimate unavailable",
			slog.String("template_id", templateID), logx.Error(err))
	}
	dynamic, err := v.estimates.DynamicPrice(ctx, templateID)
	if err != nil {
		logger(ctx).Warn("dynamic estimate unavailable",
			slog.String("template_id", templateID), logx.Error(err))
	}
	return math.Max(float64(static), float64(dynamic))
}

// TemplatePrice reads the warmed-up average-price table, zero for templates
// without a market entry.
func (v *Valuation) TemplatePrice(templateID string) float64 {
	if v.prices == nil {
		return 0
	}
	avg, ok := v.prices.MarketPrice(templateID)
	if !ok {
		return 0
	}
	return avg
}

// SingleItemPrice scales the template average by the item's remaining
// condition fraction, floored, times the stack count.
func (v *Valuation) SingleItemPrice(item *entity.ItemInstance) (int64, error) {
	p, err := v.conditions.MarketPoints(item)
	if err != nil {
		return 0, err
	}
	return int64(math.Floor(p.Points*v.TemplatePrice(item.TemplateID)/p.TemplateMax)) * item.Stack(), nil
}

// ItemPrice values the item and, unless root-only valuation is configured,
// every owned child.
func (v *Valuation) ItemPrice(inv *entity.Inventory, itemID string) (int64, error) {
	root, ok := inv.Item(itemID)
	if !ok {
		return 0, domain.NewError(errcodes.ItemNotFound, "item not in inventory "+itemID)
	}

	if v.ignoreAttachments {
		return v.SingleItemPrice(root)
	}

	var total int64
	for _, item := range inv.ItemWithChildren(itemID) {
		price, err := v.SingleItemPrice(item)
		if err != nil {
			return 0, err
		}
		total += price
	}
	return total, nil
}

// Tax computes the marketplace listing tax.
//
// base is the per-unit worth of the offered item (its best-vendor valuation),
// requestedPrice the seller's per-unit ask. The curve punishes the gap
// between the two exponentially in either direction. Degenerate inputs never
// fail, they price the tax at zero.
func (v *Valuation) Tax(
	item *entity.ItemInstance,
	owner *entity.Owner,
	base float64,
	requestedPrice int64,
	quantity int64,
	bundle bool,
) (int64, error) {
	if requestedPrice < 1 || quantity < 1 {
		return 0, nil
	}

	tpl, ok := v.templates.Template(item.TemplateID)
	if !ok {
		return 0, domain.NewError(errcodes.TemplateNotFound, "unknown template "+item.TemplateID)
	}

	// a bundle is taxed as one line of quantity units
	lines := int64(1)
	if bundle {
		lines = quantity
	}

	valueOffer := base * float64(quantity) / float64(lines)
	valueRequested := float64(requestedPrice)
	if !bundle {
		valueRequested *= float64(quantity)
	}

	// log of zero or of a non-positive ratio has no meaning here; the tax
	// degrades to zero rather than propagating NaN
	if valueOffer <= 0 || valueRequested <= 0 {
		return 0, nil
	}

	itemTax := v.rules.ItemTaxPercent / 100
	requirementTax := v.rules.RequirementTaxPercent / 100

	offerExp := math.Log10(valueOffer / valueRequested)
	requestedExp := math.Log10(valueRequested / valueOffer)
	if valueRequested >= valueOffer {
		requestedExp = math.Pow(requestedExp, taxCurveExponent)
	} else {
		offerExp = math.Pow(offerExp, taxCurveExponent)
	}

	tax := (valueOffer*itemTax*math.Pow(4, offerExp) +
		valueRequested*requirementTax*math.Pow(4, requestedExp)) * float64(lines)

	tax *= tpl.CommissionModifier

	if item.Buff != nil {
		modifier := v.rules.BuffPriceModifier(item.Buff.Type)
		tax *= 1 + math.Abs(item.Buff.Value-1)*modifier
	}

	tax *= 1 - v.ownerTaxReduction(owner)

	if tax <= 0 || math.IsNaN(tax) || math.IsInf(tax, 0) {
		return 0, nil
	}
	return int64(math.Ceil(tax)), nil
}

// ownerTaxReduction converts the seller's tax-reduction bonus and progression
// into a fraction of the tax waived. The bonus magnitude is stored negative;
// each full hundred progression points boosts it by the configured percent.
func (v *Valuation) ownerTaxReduction(owner *entity.Owner) float64 {
	if owner == nil {
		return 0
	}
	bonus := math.Abs(owner.CommissionBonus)
	boost := 1 + math.Trunc(owner.SkillProgress/100)*v.rules.SkillBoostPercent/100
	return bonus * boost / 100
}
