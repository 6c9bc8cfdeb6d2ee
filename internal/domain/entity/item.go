package entity

// Condition states of an item instance. Absent state means the attribute is at
// its factory value; extraction rules default to the template maximum then.

type Durability struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

type Buff struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type Usage struct {
	Consumed float64 `json:"consumed"` // times used, not times remaining
}

type Resource struct {
	Value float64 `json:"value"`
}

type SideEffect struct {
	Value float64 `json:"value"`
}

type Medical struct {
	Remaining float64 `json:"remaining"`
}

type Nutrition struct {
	Remaining float64 `json:"remaining"`
}

type RepairKit struct {
	Remaining float64 `json:"remaining"`
}

// ItemInstance is a concrete owned item, possibly a node of an ownership tree
// (weapon with attachments, container with contents).
type ItemInstance struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id"`
	ParentID   string `json:"parent_id,omitempty"`
	StackCount int64  `json:"stack_count"`
	FreshFind  bool   `json:"fresh_find,omitempty"` // eligible for marketplace listing

	Durability *Durability `json:"durability,omitempty"`
	Buff       *Buff       `json:"buff,omitempty"`
	Level      *int64      `json:"level,omitempty"`
	Usage      *Usage      `json:"usage,omitempty"`
	Resource   *Resource   `json:"resource,omitempty"`
	SideEffect *SideEffect `json:"side_effect,omitempty"`
	Medical    *Medical    `json:"medical,omitempty"`
	Nutrition  *Nutrition  `json:"nutrition,omitempty"`
	RepairKit  *RepairKit  `json:"repair_kit,omitempty"`
}

// Stack returns the stack count, treating the zero value as a single object.
func (i *ItemInstance) Stack() int64 {
	if i.StackCount < 1 {
		return 1
	}
	return i.StackCount
}

// Inventory indexes a flat item list by id and parent, the shape the external
// inventory service hands over per request.
type Inventory struct {
	items    map[string]*ItemInstance
	children map[string][]*ItemInstance
	order    []string
}

func NewInventory(items []ItemInstance) *Inventory {
	inv := &Inventory{
		items:    make(map[string]*ItemInstance, len(items)),
		children: make(map[string][]*ItemInstance),
		order:    make([]string, 0, len(items)),
	}
	for idx := range items {
		item := &items[idx]
		inv.items[item.ID] = item
		inv.order = append(inv.order, item.ID)
		if item.ParentID != "" {
			inv.children[item.ParentID] = append(inv.children[item.ParentID], item)
		}
	}
	return inv
}

func (inv *Inventory) Item(id string) (*ItemInstance, bool) {
	item, ok := inv.items[id]
	return item, ok
}

// ItemWithChildren returns the item and its whole ownership subtree, root
// first, in stable insertion order.
func (inv *Inventory) ItemWithChildren(id string) []*ItemInstance {
	root, ok := inv.items[id]
	if !ok {
		return nil
	}

	result := []*ItemInstance{root}
	for cursor := 0; cursor < len(result); cursor++ {
		result = append(result, inv.children[result[cursor].ID]...)
	}
	return result
}

// HasChildren reports whether anything is attached to or contained in the item.
func (inv *Inventory) HasChildren(id string) bool {
	return len(inv.children[id]) > 0
}

// FullCount sums stack counts over the item and its subtree.
func (inv *Inventory) FullCount(id string) int64 {
	var total int64
	for _, item := range inv.ItemWithChildren(id) {
		total += item.Stack()
	}
	return total
}
