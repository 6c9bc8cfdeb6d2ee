package entity

// ItemTemplate is the immutable type definition shared by every instance of an
// item. Loaded from the catalog once at startup, read-only afterwards.
type ItemTemplate struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	BasePrice          int64    `json:"base_price"` // canonical currency
	Categories         []string `json:"categories"` // full ancestry chain, self included
	MaxDurability      float64  `json:"max_durability,omitempty"`
	MaxUsage           float64  `json:"max_usage,omitempty"`
	MaxResource        float64  `json:"max_resource,omitempty"`
	MaxUnits           float64  `json:"max_units,omitempty"` // medical charge capacity
	MaxRepairResource  float64  `json:"max_repair_resource,omitempty"`
	RepairCost         float64  `json:"repair_cost,omitempty"`
	CommissionModifier float64  `json:"commission_modifier"`
	HasSideEffects     bool     `json:"has_side_effects,omitempty"`
	HasAssembledForm   bool     `json:"has_assembled_form,omitempty"` // sold as a composite preset on the marketplace
	Valid              bool     `json:"valid"`
}

// IsOfCategory reports whether the template belongs to the given category,
// directly or through any ancestor.
func (t *ItemTemplate) IsOfCategory(categoryID string) bool {
	for _, c := range t.Categories {
		if c == categoryID {
			return true
		}
	}
	return false
}

// TemplateIndex is the in-memory template catalog the pricing services read
// from. Immutable after construction.
type TemplateIndex struct {
	templates map[string]ItemTemplate
	order     []string
}

func NewTemplateIndex(templates []ItemTemplate) *TemplateIndex {
	index := &TemplateIndex{
		templates: make(map[string]ItemTemplate, len(templates)),
		order:     make([]string, 0, len(templates)),
	}
	for _, tpl := range templates {
		index.templates[tpl.ID] = tpl
		index.order = append(index.order, tpl.ID)
	}
	return index
}

func (idx *TemplateIndex) Template(templateID string) (*ItemTemplate, bool) {
	tpl, ok := idx.templates[templateID]
	if !ok {
		return nil, false
	}
	return &tpl, true
}

// All returns the catalog in load order.
func (idx *TemplateIndex) All() []ItemTemplate {
	result := make([]ItemTemplate, 0, len(idx.order))
	for _, id := range idx.order {
		result = append(result, idx.templates[id])
	}
	return result
}
