package value

// ComponentType names a degradable attribute that scales an item's value.
type ComponentType string

const (
	ComponentDurability ComponentType = "durability"
	ComponentBuff       ComponentType = "buff"
	ComponentLevel      ComponentType = "level"
	ComponentUsage      ComponentType = "usage"
	ComponentResource   ComponentType = "resource"
	ComponentSideEffect ComponentType = "side_effect"
	ComponentMedical    ComponentType = "medical"
	ComponentNutrition  ComponentType = "nutrition"
	ComponentRepairKit  ComponentType = "repair_kit"
)

// ComponentPoints is the extracted state of one component. All three fields
// are floored to 1 so downstream ratios stay well-defined.
type ComponentPoints struct {
	Points      float64 `json:"points"`
	MaxPoints   float64 `json:"max_points"`
	TemplateMax float64 `json:"template_max"`
}

// Fraction is the remaining share of the template capacity.
func (p ComponentPoints) Fraction() float64 {
	return p.Points / p.TemplateMax
}
