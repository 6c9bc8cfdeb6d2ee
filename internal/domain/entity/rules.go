package entity

// BuyoutRestrictions are the minimum-condition floors a vendor applies before
// buying an item. A vendor with NoRestrictions skips them entirely.
type BuyoutRestrictions struct {
	MinDurabilityFraction float64 `json:"min_durability_fraction"`
	MinMedicalFraction    float64 `json:"min_medical_fraction"`
	MinNutritionUnits     float64 `json:"min_nutrition_units"`
}

// MarketplaceRules gate what may be listed on the peer-priced channel.
type MarketplaceRules struct {
	MinOwnerLevel     int      `json:"min_owner_level"`
	Categories        []string `json:"categories"`         // allow-list
	ConditionFraction float64  `json:"condition_fraction"` // listings below this fraction of template max are not representative
}

// CurrencyRef binds a currency tag to the template whose base price defines
// its exchange rate against the canonical currency.
type CurrencyRef struct {
	TemplateID string `json:"template_id"`
}

// TradingRules is the protocol-constant block loaded with the catalogs:
// tax rates, buff price modifiers, buyout floors and marketplace gates.
type TradingRules struct {
	ItemTaxPercent        float64                `json:"item_tax_percent"`        // Ti
	RequirementTaxPercent float64                `json:"requirement_tax_percent"` // Tr
	SkillBoostPercent     float64                `json:"skill_boost_percent"`     // per progression level
	BuyoutRestrictions    BuyoutRestrictions     `json:"buyout_restrictions"`
	BuffPriceModifiers    map[string]float64     `json:"buff_price_modifiers"` // buff type -> price modifier
	Marketplace           MarketplaceRules       `json:"marketplace"`
	Currencies            map[string]CurrencyRef `json:"currencies"` // tag -> currency template
	CanonicalCurrency     string                 `json:"canonical_currency"`
}

// BuffPriceModifier returns the configured modifier for a buff type, zero when
// the type is unknown.
func (r *TradingRules) BuffPriceModifier(buffType string) float64 {
	return r.BuffPriceModifiers[buffType]
}
