package persistence

import (
	"encoding/json"

	"broker_market/internal/domain/entity"
)

// templateSchema maps one item_templates row.
type templateSchema struct {
	ID                 string  `db:"id"`
	Name               string  `db:"name"`
	BasePrice          int64   `db:"base_price"`
	Categories         []byte  `db:"categories"`
	MaxDurability      float64 `db:"max_durability"`
	MaxUsage           float64 `db:"max_usage"`
	MaxResource        float64 `db:"max_resource"`
	MaxUnits           float64 `db:"max_units"`
	MaxRepairResource  float64 `db:"max_repair_resource"`
	RepairCost         float64 `db:"repair_cost"`
	CommissionModifier float64 `db:"commission_modifier"`
	HasSideEffects     bool    `db:"has_side_effects"`
	HasAssembledForm   bool    `db:"has_assembled_form"`
	Valid              bool    `db:"valid"`
}

func (s *templateSchema) toDomain() (entity.ItemTemplate, error) {
	var categories []string
	if len(s.Categories) > 0 {
		if err := json.Unmarshal(s.Categories, &categories); err != nil {
			return entity.ItemTemplate{}, err
		}
	}

	return entity.ItemTemplate{
		ID:                 s.ID,
		Name:               s.Name,
		BasePrice:          s.BasePrice,
		Categories:         categories,
		MaxDurability:      s.MaxDurability,
		MaxUsage:           s.MaxUsage,
		MaxResource:        s.MaxResource,
		MaxUnits:           s.MaxUnits,
		MaxRepairResource:  s.MaxRepairResource,
		RepairCost:         s.RepairCost,
		CommissionModifier: s.CommissionModifier,
		HasSideEffects:     s.HasSideEffects,
		HasAssembledForm:   s.HasAssembledForm,
		Valid:              s.Valid,
	}, nil
}

// vendorSchema maps one vendors row.
type vendorSchema struct {
	ID                string  `db:"id"`
	Name              string  `db:"name"`
	Currency          string  `db:"currency"`
	PayoutCoefficient float64 `db:"payout_coefficient"`
	Buys              []byte  `db:"buys"`
	Refuses           []byte  `db:"refuses"`
	Locked            bool    `db:"locked"`
	NoRestrictions    bool    `db:"no_restrictions"`
}

func (s *vendorSchema) toDomain() (entity.Vendor, error) {
	var buys, refuses entity.ItemFilter
	if len(s.Buys) > 0 {
		if err := json.Unmarshal(s.Buys, &buys); err != nil {
			return entity.Vendor{}, err
		}
	}
	if len(s.Refuses) > 0 {
		if err := json.Unmarshal(s.Refuses, &refuses); err != nil {
			return entity.Vendor{}, err
		}
	}

	return entity.Vendor{
		ID:                s.ID,
		Name:              s.Name,
		Currency:          s.Currency,
		PayoutCoefficient: s.PayoutCoefficient,
		Buys:              buys,
		Refuses:           refuses,
		Locked:            s.Locked,
		NoRestrictions:    s.NoRestrictions,
	}, nil
}

// listingSchema maps one market_listings row; the item tree rides in a jsonb
// column since the engine never queries into it.
type listingSchema struct {
	ID               string `db:"id"`
	TemplateID       string `db:"template_id"`
	Items            []byte `db:"items"`
	RequirementsCost int64  `db:"requirements_cost"`
	Barter           bool   `db:"barter"`
	VendorOwned      bool   `db:"vendor_owned"`
	Bundled          bool   `db:"bundled"`
}

func (s *listingSchema) toDomain() (entity.MarketListing, error) {
	var items []entity.ItemInstance
	if len(s.Items) > 0 {
		if err := json.Unmarshal(s.Items, &items); err != nil {
			return entity.MarketListing{}, err
		}
	}

	return entity.MarketListing{
		ID:               s.ID,
		TemplateID:       s.TemplateID,
		Items:            items,
		RequirementsCost: s.RequirementsCost,
		Barter:           s.Barter,
		VendorOwned:      s.VendorOwned,
		Bundled:          s.Bundled,
	}, nil
}
