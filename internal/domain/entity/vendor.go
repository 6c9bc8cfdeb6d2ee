package entity

import "math"

// MarketplaceID is the synthetic destination id used to route a settlement to
// the peer-priced marketplace instead of a fixed-rate vendor.
const MarketplaceID = "marketplace"

// ItemFilter is a vendor's category/template allow- or deny-list.
type ItemFilter struct {
	Categories []string `json:"categories"`
	Templates  []string `json:"templates"`
}

// Vendor is a fixed-rate buyer. The lower the payout coefficient, the larger
// the fraction of base value the seller receives.
type Vendor struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Currency          string     `json:"currency"`
	PayoutCoefficient float64    `json:"payout_coefficient"`
	Buys              ItemFilter `json:"buys"`
	Refuses           ItemFilter `json:"refuses"`
	Locked            bool       `json:"locked"`
	NoRestrictions    bool       `json:"no_restrictions"` // buys regardless of condition floors
}

// MarketplaceVendor returns the sentinel entry representing the marketplace
// channel. Its infinite coefficient guarantees it is never picked as the best
// fixed-rate vendor.
func MarketplaceVendor() Vendor {
	return Vendor{
		ID:                MarketplaceID,
		Name:              "MARKETPLACE",
		Currency:          "RUB",
		PayoutCoefficient: math.Inf(1),
	}
}
