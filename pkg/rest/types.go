// This file should be generated from the openapi specification and be named
// types.gen.go.
package rest

type Owner struct {
	ID                   string  `json:"id" validate:"required"`
	Level                int     `json:"level"`
	CommissionBonus      float64 `json:"commission_bonus"`
	SkillProgress        float64 `json:"skill_progress"`
	MarketAccessOverride bool    `json:"market_access_override,omitempty"`
}

type Durability struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

type Buff struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type Item struct {
	ID         string      `json:"id" validate:"required"`
	TemplateID string      `json:"template_id" validate:"required"`
	ParentID   string      `json:"parent_id,omitempty"`
	StackCount int64       `json:"stack_count,omitempty"`
	FreshFind  bool        `json:"fresh_find,omitempty"`
	Durability *Durability `json:"durability,omitempty"`
	Buff       *Buff       `json:"buff,omitempty"`
	Level      *int64      `json:"level,omitempty"`
	Usage      *float64    `json:"usage_consumed,omitempty"`
	Resource   *float64    `json:"resource,omitempty"`
	SideEffect *float64    `json:"side_effect,omitempty"`
	Medical    *float64    `json:"medical_remaining,omitempty"`
	Nutrition  *float64    `json:"nutrition_remaining,omitempty"`
	RepairKit  *float64    `json:"repair_kit_remaining,omitempty"`
}

type SettlementRequest struct {
	Owner   Owner    `json:"owner" validate:"required"`
	Items   []Item   `json:"items" validate:"required,min=1,dive"`
	SellIDs []string `json:"sell_ids" validate:"required,min=1"`
}

type SubRequest struct {
	DestinationID string   `json:"destination_id"`
	ItemIDs       []string `json:"item_ids"`
	Price         int64    `json:"price"`
}

type SettlementGroup struct {
	DestinationID   string     `json:"destination_id"`
	DestinationName string     `json:"destination_name"`
	Marketplace     bool       `json:"marketplace"`
	ItemIDs         []string   `json:"item_ids"`
	TotalGross      int64      `json:"total_gross"`
	TotalTax        int64      `json:"total_tax"`
	TotalCommission int64      `json:"total_commission"`
	TotalProfit     int64      `json:"total_profit"`
	TotalCanonical  int64      `json:"total_canonical"`
	ItemCount       int64      `json:"item_count"`
	StackCount      int64      `json:"stack_count"`
	UnitCount       int64      `json:"unit_count"`
	Request         SubRequest `json:"request"`
}

type Settlement struct {
	BatchID string            `json:"batch_id"`
	OwnerID string            `json:"owner_id"`
	Groups  []SettlementGroup `json:"groups"`
}

type PriceHint struct {
	OwnerID       string `json:"owner_id" validate:"required"`
	ItemID        string `json:"item_id" validate:"required"`
	DestinationID string `json:"destination_id" validate:"required"`
	Gross         int64  `json:"gross"`
	Canonical     int64  `json:"canonical"`
	Tax           int64  `json:"tax"`
	Commission    int64  `json:"commission"`
	NetProfit     int64  `json:"net_profit"`
}

type VendorTable struct {
	Vendors map[string]string `json:"vendors"` // template id -> vendor id
}

type MarketTable struct {
	Prices map[string]float64 `json:"prices"` // template id -> average price
}

type Vendor struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Currency          string  `json:"currency,omitempty"`
	PayoutCoefficient float64 `json:"payout_coefficient"`
	Locked            bool    `json:"locked,omitempty"`
	Marketplace       bool    `json:"marketplace,omitempty"`
}

type VendorList struct {
	Vendors []Vendor `json:"vendors"`
}

// EngineConfig lists the recognized engine options, as configured.
type EngineConfig struct {
	IgnoreAttachmentsInMarketValuation bool    `json:"ignore_attachments_in_market_valuation"`
	IgnoreConditionEligibilityGate     bool    `json:"ignore_condition_eligibility_gate"`
	IgnoreMarketplaceLevelGate         bool    `json:"ignore_marketplace_level_gate"`
	IgnoreVendorLockState              bool    `json:"ignore_vendor_lock_state"`
	CommissionPercent                  float64 `json:"commission_percent"`
	Notify                             bool    `json:"notify"`
}

// Error is the error payload model.
type Error struct {
	// Code is the machine error code.
	Code ErrorCode `json:"code"`

	// Message is the human-readable message (for future UI display).
	Message string `json:"message"`
}

// ErrorCode is the machine error code.
type ErrorCode string
