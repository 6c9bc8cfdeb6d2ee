package entity

// SellDecision is the resolved destination and economics for one item.
// Gross is in the destination's settlement currency, Canonical in the
// engine's canonical currency. An unsellable item yields the zero decision
// with Unsellable set.
type SellDecision struct {
	DestinationID string `json:"destination_id"`
	Gross         int64  `json:"gross"`
	Canonical     int64  `json:"canonical"`
	Tax           int64  `json:"tax"`
	Commission    int64  `json:"commission"`
	NetProfit     int64  `json:"net_profit"`
	Unsellable    bool   `json:"unsellable,omitempty"`
}

// SellRequest is the inbound batch: the owner, the relevant inventory slice
// (items plus their attachment subtrees) and the ids the client wants sold.
type SellRequest struct {
	Owner   Owner          `json:"owner"`
	Items   []ItemInstance `json:"items"`
	SellIDs []string       `json:"sell_ids"`
}

// SubRequest is the per-destination slice of a batch, executed against one
// vendor or the marketplace.
type SubRequest struct {
	DestinationID string   `json:"destination_id"`
	ItemIDs       []string `json:"item_ids"`
	Price         int64    `json:"price"` // aggregated net, destination currency
}

// SettlementGroup aggregates every item of a batch routed to one destination.
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
	UnitCount       int64      `json:"unit_count"` // stacks plus attached children
	Request         SubRequest `json:"request"`
}

// Settlement is the outcome of one processed batch.
type Settlement struct {
	BatchID string            `json:"batch_id"`
	OwnerID string            `json:"owner_id"`
	Groups  []SettlementGroup `json:"groups"`
}
