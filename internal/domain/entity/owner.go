package entity

// Owner is the seller context a settlement is computed for.
type Owner struct {
	ID                   string  `json:"id"`
	Level                int     `json:"level"`
	CommissionBonus      float64 `json:"commission_bonus"` // tax reduction, stored negative
	SkillProgress        float64 `json:"skill_progress"`   // raw progression points, 100 per level
	MarketAccessOverride bool    `json:"market_access_override,omitempty"`
}
