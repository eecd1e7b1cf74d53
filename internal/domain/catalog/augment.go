package catalog

import (
	"sort"

	"github.com/comidalab/buscaplato/internal/normalize"
)

// Category groupings driving intent-tag derivation.
var (
	romanticCategories = map[string]struct{}{
		"pasta": {}, "sushi": {}, "parrilla": {}, "wok": {}, "postres": {},
	}
	friendsCategories = map[string]struct{}{
		"pizza": {}, "burger": {}, "hamburguesas": {}, "tacos": {}, "sandwich": {}, "sandwiches": {}, "empanadas": {},
	}
	familyCategories = map[string]struct{}{
		"parrilla": {}, "pasta": {}, "sopas": {}, "bowls": {},
	}
	healthCategories = map[string]struct{}{
		"ensaladas": {}, "ensalada": {}, "bowls": {}, "wok": {},
	}
	romanticCuisines = map[string]struct{}{
		"italiana": {}, "sushi": {}, "parrilla": {},
	}
)

const (
	budgetPriceCeiling  = 6000
	expressETACeiling   = 25
	topRatedThreshold   = 4.7
	romanticRatingFloor = 4.4
)

// Augment derives intent tags for every dish in place: legacy experience tags
// are folded into IntentTags, then rating/price/ETA/category heuristics add
// occasion tags. Runs once at load, before the catalog is shared.
func Augment(dishes []Dish) {
	for i := range dishes {
		augmentDish(&dishes[i])
	}
}

func augmentDish(d *Dish) {
	tags := make(map[string]struct{})
	for _, t := range d.IntentTags {
		tags[t] = struct{}{}
	}
	for _, t := range d.ExperienceTags {
		tags[t] = struct{}{}
	}
	d.ExperienceTags = nil

	tags["delivery_dining"] = struct{}{}

	categories := make(map[string]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		categories[normalize.Strict(c)] = struct{}{}
	}
	cuisine := normalize.Strict(d.Restaurant.Cuisine)
	health := make(map[string]struct{}, len(d.HealthTags))
	for _, h := range d.HealthTags {
		health[normalize.Strict(h)] = struct{}{}
	}

	_, romanticCuisine := romanticCuisines[cuisine]
	if d.Restaurant.Rating >= romanticRatingFloor &&
		(intersects(categories, romanticCategories) || romanticCuisine) {
		tags["romantic_evening"] = struct{}{}
		tags["date_night"] = struct{}{}
	}
	if intersects(categories, friendsCategories) {
		tags["friends_gathering"] = struct{}{}
		tags["movie_night"] = struct{}{}
	}
	if intersects(categories, familyCategories) {
		tags["family_sharing"] = struct{}{}
	}
	if intersects(categories, healthCategories) || hasAny(health, "no_fry", "low_sodium") {
		tags["healthy_choice"] = struct{}{}
	}
	if d.PriceARS <= budgetPriceCeiling {
		tags["budget_friendly"] = struct{}{}
	}
	if d.Restaurant.ETAMin <= expressETACeiling {
		tags["express_delivery"] = struct{}{}
		tags["quick_lunch"] = struct{}{}
	}
	if d.Restaurant.Rating >= topRatedThreshold {
		tags["top_rated"] = struct{}{}
	}
	if _, ok := categories["postres"]; ok {
		tags["sweet_treat"] = struct{}{}
	}

	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Strings(out)
	d.IntentTags = out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func hasAny(set map[string]struct{}, keys ...string) bool {
	for _, k := range keys {
		if _, ok := set[k]; ok {
			return true
		}
	}
	return false
}
