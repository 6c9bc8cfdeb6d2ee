package condition

import (
	"broker_market/internal/domain"
	"broker_market/internal/domain/entity"
	"broker_market/internal/domain/value"
	"broker_market/pkg/errcodes"
)

// Templates is the slice of the catalog the condition model needs.
type Templates interface {
	Template(templateID string) (*entity.ItemTemplate, bool)
}

// strategy binds one component type to its template-derivation and
// instance-extraction rules. New component types register here instead of
// growing scattered conditionals.
type strategy struct {
	templateMax func(tpl *entity.ItemTemplate) float64
	derivable   func(tpl *entity.ItemTemplate) bool
	// extract reads the instance state; stateless means the item carries no
	// explicit state and counts as factory-new.
	extract func(item *entity.ItemInstance, templateMax float64) (points, maxPoints float64, stateless bool)
}

func fullWhenStateless(templateMax float64) (float64, float64, bool) {
	return templateMax, templateMax, true
}

//nolint:gochecknoglobals // registration table, written once
var strategies = map[value.ComponentType]strategy{
	value.ComponentDurability: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxDurability },
		derivable:   func(tpl *entity.ItemTemplate) bool { return tpl.MaxDurability > 0 },
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Durability == nil {
				return fullWhenStateless(templateMax)
			}
			return item.Durability.Current, item.Durability.Max, false
		},
	},
	value.ComponentUsage: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxUsage },
		derivable:   func(tpl *entity.ItemTemplate) bool { return tpl.MaxUsage > 0 },
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Usage == nil {
				return fullWhenStateless(templateMax)
			}
			// consumed uses are tracked, remaining uses are priced
			return templateMax - item.Usage.Consumed, templateMax, false
		},
	},
	value.ComponentResource: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxResource },
		derivable: func(tpl *entity.ItemTemplate) bool {
			return tpl.MaxResource > 0 && tpl.IsOfCategory(value.CategoryBarterGoods)
		},
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Resource == nil {
				return fullWhenStateless(templateMax)
			}
			return item.Resource.Value, templateMax, false
		},
	},
	value.ComponentSideEffect: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxResource },
		derivable: func(tpl *entity.ItemTemplate) bool {
			return tpl.MaxResource > 0 && tpl.HasSideEffects
		},
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.SideEffect == nil {
				return fullWhenStateless(templateMax)
			}
			return item.SideEffect.Value, templateMax, false
		},
	},
	value.ComponentMedical: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxUnits },
		derivable:   func(tpl *entity.ItemTemplate) bool { return tpl.IsOfCategory(value.CategoryMedical) },
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Medical == nil {
				return fullWhenStateless(templateMax)
			}
			return item.Medical.Remaining, templateMax, false
		},
	},
	value.ComponentNutrition: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxResource },
		derivable: func(tpl *entity.ItemTemplate) bool {
			return tpl.MaxResource > 0 && tpl.IsOfCategory(value.CategoryFoodDrink)
		},
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Nutrition == nil {
				return fullWhenStateless(templateMax)
			}
			return item.Nutrition.Remaining, templateMax, false
		},
	},
	value.ComponentRepairKit: {
		templateMax: func(tpl *entity.ItemTemplate) float64 { return tpl.MaxRepairResource },
		derivable: func(tpl *entity.ItemTemplate) bool {
			return tpl.MaxRepairResource > 0 && tpl.IsOfCategory(value.CategoryRepairKits)
		},
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.RepairKit == nil {
				return fullWhenStateless(templateMax)
			}
			return item.RepairKit.Remaining, templateMax, false
		},
	},
	value.ComponentLevel: {
		templateMax: func(*entity.ItemTemplate) float64 { return 0 },
		derivable:   func(tpl *entity.ItemTemplate) bool { return tpl.IsOfCategory(value.CategoryGradedToken) },
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Level == nil {
				return fullWhenStateless(templateMax)
			}
			return float64(*item.Level), templateMax, false
		},
	},
	value.ComponentBuff: {
		templateMax: func(*entity.ItemTemplate) float64 { return 0 },
		derivable:   func(*entity.ItemTemplate) bool { return false }, // only detectable on the instance
		extract: func(item *entity.ItemInstance, templateMax float64) (float64, float64, bool) {
			if item.Buff == nil {
				return fullWhenStateless(templateMax)
			}
			return item.Buff.Value, templateMax, false
		},
	},
}

// templateOrder fixes the iteration order over template-derivable components.
//
//nolint:gochecknoglobals
var templateOrder = []value.ComponentType{
	value.ComponentDurability,
	value.ComponentLevel,
	value.ComponentUsage,
	value.ComponentResource,
	value.ComponentSideEffect,
	value.ComponentMedical,
	value.ComponentNutrition,
	value.ComponentRepairKit,
}

// marketOrder lists the component types relevant for marketplace valuation,
// in lookup priority.
//
//nolint:gochecknoglobals
var marketOrder = []value.ComponentType{
	value.ComponentDurability,
	value.ComponentUsage,
	value.ComponentResource,
	value.ComponentMedical,
	value.ComponentNutrition,
	value.ComponentRepairKit,
}

// Model extracts degradable-attribute state for item instances, independent of
// vendors and the marketplace.
type Model struct {
	templates Templates
}

func NewModel(templates Templates) *Model {
	return &Model{templates: templates}
}

// ComponentTypes unions the types derivable from the item's template with the
// instance-only buff component.
func (m *Model) ComponentTypes(item *entity.ItemInstance) ([]value.ComponentType, error) {
	tpl, ok := m.templates.Template(item.TemplateID)
	if !ok {
		return nil, domain.NewError(errcodes.TemplateNotFound, "unknown template "+item.TemplateID)
	}

	var types []value.ComponentType
	for _, t := range templateOrder {
		if strategies[t].derivable(tpl) {
			types = append(types, t)
		}
	}
	if item.Buff != nil {
		types = append(types, value.ComponentBuff)
	}
	return types, nil
}

func (m *Model) HasComponent(item *entity.ItemInstance, componentType value.ComponentType) bool {
	types, err := m.ComponentTypes(item)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == componentType {
			return true
		}
	}
	return false
}

// Points extracts the component state of one item. Zero outputs are floored
// to 1 to keep downstream ratios well-defined.
func (m *Model) Points(item *entity.ItemInstance, componentType value.ComponentType) (value.ComponentPoints, error) {
	tpl, ok := m.templates.Template(item.TemplateID)
	if !ok {
		return value.ComponentPoints{}, domain.NewError(errcodes.TemplateNotFound, "unknown template "+item.TemplateID)
	}

	s, ok := strategies[componentType]
	if !ok {
		return value.ComponentPoints{Points: 1, MaxPoints: 1, TemplateMax: 1}, nil
	}

	templateMax := s.templateMax(tpl)
	points, maxPoints, _ := s.extract(item, templateMax)

	// Only durability tracks a degradable current maximum; for everything
	// else the capacity never shrinks below the template's.
	if componentType != value.ComponentDurability {
		maxPoints = templateMax
	}

	return value.ComponentPoints{
		Points:      floorToOne(points),
		MaxPoints:   floorToOne(maxPoints),
		TemplateMax: floorToOne(templateMax),
	}, nil
}

// MarketPoints extracts the points of the first market-relevant component, or
// the neutral all-ones state when the item has none.
func (m *Model) MarketPoints(item *entity.ItemInstance) (value.ComponentPoints, error) {
	types, err := m.ComponentTypes(item)
	if err != nil {
		return value.ComponentPoints{}, err
	}

	for _, want := range marketOrder {
		for _, t := range types {
			if t == want {
				return m.Points(item, t)
			}
		}
	}
	return value.ComponentPoints{Points: 1, MaxPoints: 1, TemplateMax: 1}, nil
}

func floorToOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
