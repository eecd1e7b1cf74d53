// Package catalog defines the immutable dish catalog and its precomputed
// statistics index.
package catalog

// Restaurant describes the venue serving a dish.
type Restaurant struct {
	Name         string  `json:"name"`
	Neighborhood string  `json:"neighborhood"`
	Cuisine      string  `json:"cuisines"`
	Rating       float64 `json:"rating"`
	ETAMin       int     `json:"eta_min"`
}

// Dish is a single catalog item. Immutable for the process lifetime once the
// catalog is loaded and augmented.
type Dish struct {
	ID          string   `json:"id"`
	Name        string   `json:"dish_name"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	Synonyms    []string `json:"synonyms"`
	Ingredients []string `json:"ingredients"`
	Allergens   []string `json:"allergens"`
	// DietFlags maps canonical diet tokens (veg, vegan, gluten_free, ...) to
	// whether the dish satisfies them.
	DietFlags  map[string]bool `json:"diet_flags"`
	HealthTags []string        `json:"health_tags"`
	IntentTags []string        `json:"intent_tags"`
	// ExperienceTags is a legacy alias for IntentTags still present in older
	// catalog files. Merged into IntentTags at load time, empty afterwards.
	ExperienceTags []string `json:"experience_tags,omitempty"`
	NotContains    []string `json:"not_contains"`
	MealMoments    []string `json:"meal_moments"`

	PriceARS       int        `json:"price_ars"`
	Popularity     int        `json:"popularity"`
	DeliveryFee    float64    `json:"delivery_fee"`
	DiscountPct    float64    `json:"discount_pct"`
	DeliveryETAMin int        `json:"delivery_eta_min"`
	Restaurant     Restaurant `json:"restaurant"`
	Available      bool       `json:"available"`
}

// EffectiveETA is min(dish-specific delivery ETA, restaurant base ETA).
// A zero delivery ETA means "not set" and falls back to the restaurant's.
func (d Dish) EffectiveETA() int {
	if d.DeliveryETAMin > 0 && d.DeliveryETAMin < d.Restaurant.ETAMin {
		return d.DeliveryETAMin
	}
	return d.Restaurant.ETAMin
}

// HasIntentTag reports whether the dish carries the given intent tag.
func (d Dish) HasIntentTag(tag string) bool {
	for _, t := range d.IntentTags {
		if t == tag {
			return true
		}
	}
	return false
}
