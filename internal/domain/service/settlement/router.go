package settlement

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/rs/xid"

	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/value"
	"broker_market/internal/infrastructure/hintstore"
	"broker_market/internal/metrics"
	"broker_market/pkg/contextx"
	"broker_market/pkg/errcodes"
	"broker_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Catalog is the vendor-side pricing surface the router routes against.
type Catalog interface {
	Vendor(vendorID string) (entity.Vendor, bool)
	BestVendorFor(templateID string) (entity.Vendor, bool)
	PassesBuyoutRestrictions(item *entity.ItemInstance, bypass bool) bool
	BuyoutPrice(item *entity.ItemInstance, count int64, bypass bool) (float64, error)
}

// Valuation is the marketplace-side pricing surface.
type Valuation interface {
	EligibleTemplate(templateID string) bool
	ItemPrice(inv *entity.Inventory, itemID string) (int64, error)
	Tax(item *entity.ItemInstance, owner *entity.Owner, base float64,
		requestedPrice, quantity int64, bundle bool) (int64, error)
}

// Conditions gates marketplace eligibility on item state.
type Conditions interface {
	MarketPoints(item *entity.ItemInstance) (value.ComponentPoints, error)
}

// Templates resolves currency templates for settlement conversion.
type Templates interface {
	Template(templateID string) (*entity.ItemTemplate, bool)
}

// VendorTable is the warmed-up best-vendor lookup; nil routes through the
// catalog directly (cold path, startup only).
type VendorTable interface {
	VendorFor(templateID string) (string, bool)
}

// Router resolves the most profitable destination per item and groups a batch
// into per-destination settlements.
type Router struct {
	catalog    Catalog
	valuation  Valuation
	conditions Conditions
	templates  Templates
	rules      *entity.TradingRules
	hints      hintstore.Store

	tables              VendorTable
	events              chan<- entity.Settlement
	commissionPercent   float64
	ignoreAttachments   bool
	ignoreConditionGate bool
	ignoreLevelGate     bool
}

func NewRouter(
	catalog Catalog,
	valuation Valuation,
	conditions Conditions,
	templates Templates,
	rules *entity.TradingRules,
	hints hintstore.Store,
) *Router {
	return &Router{
		catalog:    catalog,
		valuation:  valuation,
		conditions: conditions,
		templates:  templates,
		rules:      rules,
		hints:      hints,
	}
}

// WithVendorTable wires the warmed-up lookup table. One-way, done at startup.
func (r *Router) WithVendorTable(tables VendorTable) *Router {
	r.tables = tables
	return r
}

// WithEvents publishes one event per processed batch; the channel is never
// blocked on.
func (r *Router) WithEvents(events chan<- entity.Settlement) *Router {
	r.events = events
	return r
}

// WithCommissionPercent sets the broker cut deducted on both channels.
func (r *Router) WithCommissionPercent(percent float64) *Router {
	r.commissionPercent = percent
	return r
}

// WithIgnoreAttachments requests root-only market valuation and lifts the
// container listing rule.
func (r *Router) WithIgnoreAttachments(ignore bool) *Router {
	r.ignoreAttachments = ignore
	return r
}

// WithIgnoreConditionGate lifts the fresh-find and condition-floor gates on
// marketplace eligibility.
func (r *Router) WithIgnoreConditionGate(ignore bool) *Router {
	r.ignoreConditionGate = ignore
	return r
}

// WithIgnoreLevelGate lifts the owner progression gate on the marketplace.
func (r *Router) WithIgnoreLevelGate(ignore bool) *Router {
	r.ignoreLevelGate = ignore
	return r
}

// BestVendorPrice values the item subtree against the root item's best vendor,
// in the canonical currency. Zero when no vendor buys the root template or any
// subtree member fails its buyout restriction.
func (r *Router) BestVendorPrice(inv *entity.Inventory, itemID string) (entity.Vendor, int64, error) {
	root, ok := inv.Item(itemID)
	if !ok {
		return entity.Vendor{}, 0, domain.NewError(errcodes.ItemNotFound, "item not in inventory "+itemID)
	}

	vendor, ok := r.resolveVendor(root.TemplateID)
	if !ok {
		return entity.Vendor{}, 0, nil
	}

	var total float64
	for _, item := range inv.ItemWithChildren(itemID) {
		if !r.catalog.PassesBuyoutRestrictions(item, vendor.NoRestrictions) {
			return vendor, 0, nil
		}
		// restrictions already checked above, children included
		base, err := r.catalog.BuyoutPrice(item, 0, true)
		if err != nil {
			return entity.Vendor{}, 0, err
		}
		total += base
	}

	total *= 1 - vendor.PayoutCoefficient/100
	if total < 0 {
		total = 0
	}
	return vendor, int64(math.Floor(total)), nil
}

func (r *Router) resolveVendor(templateID string) (entity.Vendor, bool) {
	if r.tables != nil {
		if vendorID, ok := r.tables.VendorFor(templateID); ok {
			if vendor, ok := r.catalog.Vendor(vendorID); ok {
				return vendor, true
			}
		}
		return entity.Vendor{}, false
	}
	return r.catalog.BestVendorFor(templateID)
}

// BestDecision resolves the destination and economics for one item. A hint
// announced for the item is preferred verbatim and consumed; otherwise the
// vendor and marketplace valuations are recomputed and compared. An item no
// channel accepts yields the defined unsellable decision, never an error.
func (r *Router) BestDecision(
	ctx context.Context,
	inv *entity.Inventory,
	owner *entity.Owner,
	itemID string,
) (entity.SellDecision, error) {
	if r.hints != nil {
		hint, ok, err := r.hints.Take(ctx, owner.ID, itemID)
		if err != nil {
			logger(ctx).Warn("hint store unavailable", slog.String("item_id", itemID), logx.Error(err))
		}
		if ok {
			metrics.PriceHints.WithLabelValues(metrics.OutcomeHit).Inc()
			metrics.SellDecisions.WithLabelValues(metrics.ChannelHint).Inc()
			return hint, nil
		}
		metrics.PriceHints.WithLabelValues(metrics.OutcomeMiss).Inc()
	}

	root, ok := inv.Item(itemID)
	if !ok {
		return entity.SellDecision{}, domain.NewError(errcodes.ItemNotFound, "item not in inventory "+itemID)
	}

	vendor, vendorCanonical, err := r.BestVendorPrice(inv, itemID)
	if err != nil {
		return entity.SellDecision{}, err
	}

	var marketCanonical int64
	marketEligible := r.marketEligible(inv, owner, root)
	if marketEligible {
		marketCanonical, err = r.valuation.ItemPrice(inv, itemID)
		if err != nil {
			logger(ctx).Warn("market valuation failed, vendor only",
				slog.String("item_id", itemID), logx.Error(err))
			marketCanonical = 0
		}
	}

	switch {
	case marketEligible && marketCanonical > vendorCanonical:
		return r.marketplaceDecision(ctx, root, owner, vendorCanonical, marketCanonical)
	case vendor.ID != "" && vendorCanonical > 0:
		return r.vendorDecision(ctx, vendor, vendorCanonical), nil
	default:
		metrics.SellDecisions.WithLabelValues(metrics.ChannelUnsellable).Inc()
		return entity.SellDecision{Unsellable: true}, nil
	}
}

func (r *Router) marketplaceDecision(
	ctx context.Context,
	root *entity.ItemInstance,
	owner *entity.Owner,
	vendorCanonical, marketCanonical int64,
) (entity.SellDecision, error) {
	tax, err := r.valuation.Tax(root, owner, float64(vendorCanonical), marketCanonical, 1, false)
	if err != nil {
		logger(ctx).Warn("tax computation failed, taxing at zero",
			slog.String("item_id", root.ID), logx.Error(err))
		tax = 0
	}
	commission := r.commission(marketCanonical)

	metrics.SellDecisions.WithLabelValues(metrics.ChannelMarketplace).Inc()
	return entity.SellDecision{
		DestinationID: entity.MarketplaceID,
		Gross:         marketCanonical,
		Canonical:     marketCanonical,
		Tax:           tax,
		Commission:    commission,
		NetProfit:     marketCanonical - tax - commission,
	}, nil
}

func (r *Router) vendorDecision(ctx context.Context, vendor entity.Vendor, canonical int64) entity.SellDecision {
	gross, err := r.convertFromCanonical(canonical, vendor.Currency)
	if err != nil {
		logger(ctx).Warn("currency conversion failed, settling in canonical",
			slog.String("vendor_id", vendor.ID),
			slog.String("currency", vendor.Currency),
			logx.Error(err))
		gross = canonical
	}
	commission := r.commission(gross)

	metrics.SellDecisions.WithLabelValues(metrics.ChannelVendor).Inc()
	return entity.SellDecision{
		DestinationID: vendor.ID,
		Gross:         gross,
		Canonical:     canonical,
		Commission:    commission,
		NetProfit:     gross - commission,
	}
}

func (r *Router) commission(gross int64) int64 {
	if r.commissionPercent <= 0 {
		return 0
	}
	return int64(math.Floor(float64(gross) * r.commissionPercent / 100))
}

// convertFromCanonical floors, never rounds: the engine must not pay out more
// than the canonical amount is worth.
func (r *Router) convertFromCanonical(amount int64, currency string) (int64, error) {
	if currency == "" || currency == r.rules.CanonicalCurrency {
		return amount, nil
	}

	ref, ok := r.rules.Currencies[currency]
	if !ok {
		return 0, domain.NewError(errcodes.RulesUnavailable, "no currency template for "+currency)
	}
	tpl, ok := r.templates.Template(ref.TemplateID)
	if !ok {
		return 0, domain.NewError(errcodes.TemplateNotFound, "unknown currency template "+ref.TemplateID)
	}
	if tpl.BasePrice <= 0 {
		return 0, domain.NewError(errcodes.RulesUnavailable, "currency template has no rate: "+ref.TemplateID)
	}
	return int64(math.Floor(float64(amount) / float64(tpl.BasePrice))), nil
}

func (r *Router) marketEligible(inv *entity.Inventory, owner *entity.Owner, root *entity.ItemInstance) bool {
	if !r.valuation.EligibleTemplate(root.TemplateID) {
		return false
	}

	if !r.ignoreConditionGate {
		if !root.FreshFind {
			return false
		}
		p, err := r.conditions.MarketPoints(root)
		if err != nil {
			return false
		}
		if p.Fraction() < r.rules.Marketplace.ConditionFraction {
			return false
		}
	}

	// a filled container can only go to the marketplace as a bundle, which
	// the engine does not list; root-only valuation lifts the rule
	if !r.ignoreAttachments && inv.HasChildren(root.ID) {
		if tpl, ok := r.templates.Template(root.TemplateID); ok && tpl.IsOfCategory(value.CategoryContainer) {
			return false
		}
	}

	if !r.ignoreLevelGate && !owner.MarketAccessOverride && owner.Level < r.rules.Marketplace.MinOwnerLevel {
		return false
	}
	return true
}

// ProcessBatch resolves every requested item and groups the outcomes by
// destination, deterministically ordered. Items that fail to price degrade to
// a warning, never abort the batch.
func (r *Router) ProcessBatch(ctx context.Context, req *entity.SellRequest) (*entity.Settlement, error) {
	inv := entity.NewInventory(req.Items)
	groups := make(map[string]*entity.SettlementGroup)

	for _, itemID := range req.SellIDs {
		decision, err := r.BestDecision(ctx, inv, &req.Owner, itemID)
		if err != nil {
			logger(ctx).Warn("item skipped", slog.String("item_id", itemID), logx.Error(err))
			continue
		}
		if decision.Unsellable {
			logger(ctx).Warn("item unsellable", slog.String("item_id", itemID))
			continue
		}
		r.accumulate(groups, inv, itemID, decision)
	}

	settlement := &entity.Settlement{
		BatchID: xid.New().String(),
		OwnerID: req.Owner.ID,
		Groups:  sortedGroups(groups),
	}

	metrics.SettlementBatches.Inc()
	r.publish(ctx, settlement)
	return settlement, nil
}

func (r *Router) accumulate(
	groups map[string]*entity.SettlementGroup,
	inv *entity.Inventory,
	itemID string,
	decision entity.SellDecision,
) {
	group, ok := groups[decision.DestinationID]
	if !ok {
		name := decision.DestinationID
		if vendor, found := r.catalog.Vendor(decision.DestinationID); found {
			name = vendor.Name
		}
		group = &entity.SettlementGroup{
			DestinationID:   decision.DestinationID,
			DestinationName: name,
			Marketplace:     decision.DestinationID == entity.MarketplaceID,
			Request:         entity.SubRequest{DestinationID: decision.DestinationID},
		}
		groups[decision.DestinationID] = group
	}

	group.ItemIDs = append(group.ItemIDs, itemID)
	group.TotalGross += decision.Gross
	group.TotalTax += decision.Tax
	group.TotalCommission += decision.Commission
	group.TotalProfit += decision.NetProfit
	group.TotalCanonical += decision.Canonical
	group.ItemCount++

	if root, ok := inv.Item(itemID); ok {
		group.StackCount += root.Stack()
	}
	group.UnitCount += inv.FullCount(itemID)

	group.Request.ItemIDs = append(group.Request.ItemIDs, itemID)
	group.Request.Price += decision.NetProfit
}

func sortedGroups(groups map[string]*entity.SettlementGroup) []entity.SettlementGroup {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]entity.SettlementGroup, 0, len(ids))
	for _, id := range ids {
		result = append(result, *groups[id])
	}
	return result
}

func (r *Router) publish(ctx context.Context, settlement *entity.Settlement) {
	if r.events == nil {
		return
	}
	select {
	case r.events <- *settlement:
	default:
		logger(ctx).Warn("settlement event dropped", slog.String("batch_id", settlement.BatchID))
	}
}
