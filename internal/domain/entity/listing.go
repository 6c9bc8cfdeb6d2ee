package entity

// MarketListing is one live marketplace offer, sampled when deriving average
// per-template prices.
type MarketListing struct {
	ID               string         `json:"id"`
	TemplateID       string         `json:"template_id"`
	Items            []ItemInstance `json:"items"` // root item first
	RequirementsCost int64          `json:"requirements_cost"`
	Barter           bool           `json:"barter"`       // asks for goods, not currency
	VendorOwned      bool           `json:"vendor_owned"` // posted by a vendor, not a peer
	Bundled          bool           `json:"bundled"`      // assembled composite sold as one line
}

// Root returns the root item of the listing, nil for a malformed empty one.
func (l *MarketListing) Root() *ItemInstance {
	if len(l.Items) == 0 {
		return nil
	}
	return &l.Items[0]
}
