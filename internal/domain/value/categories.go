package value

// Well-known catalog category ids the engine keys component detection and
// filter rules on. The catalog may define arbitrarily more; these are the ones
// with pricing semantics.
const (
	CategoryBarterGoods = "cat-barter-goods"
	CategoryMedical     = "cat-medical"
	CategoryFoodDrink   = "cat-food-drink"
	CategoryRepairKits  = "cat-repair-kits"
	CategoryGradedToken = "cat-graded-token"
	CategoryContainer   = "cat-container"
)
