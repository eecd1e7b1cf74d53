// Package lexicon holds the immutable vocabulary tables every query is
// resolved against: canonical categories, ingredients with synonyms, diets,
// allergens, health tags, meal moments, neighborhoods, cuisines and the
// closed intent-tag set. Built once at startup, read-only afterwards.
package lexicon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/comidalab/buscaplato/internal/normalize"
)

// Lexicon is the process-wide dictionary set. Safe for concurrent use: it is
// never mutated after New/Load returns.
type Lexicon struct {
	categories  map[string][]string
	ingredients map[string][]string
	diets       map[string][]string
	allergens   map[string][]string
	health      map[string][]string
	mealMoments map[string][]string

	neighborhoods []string
	cuisines      []string
	intentTags    map[string]struct{}

	// Derived lookup indexes, normalized surface form -> canonical token.
	ingredientIndex map[string]string
	allergenIndex   map[string]string
	dietIndex       map[string]string
	healthIndex     map[string]string
	categoryIndex   map[string]string

	// Canonical ingredient -> full normalized surface set (canonical included).
	ingredientGroups map[string]map[string]struct{}
}

// Override is the YAML shape of a lexicon override file. Present keys replace
// the built-in entry of the same canonical token; new keys are added.
type Override struct {
	Categories    map[string][]string `yaml:"categories"`
	Ingredients   map[string][]string `yaml:"ingredients"`
	Diets         map[string][]string `yaml:"diets"`
	Allergens     map[string][]string `yaml:"allergens"`
	Health        map[string][]string `yaml:"health"`
	MealMoments   map[string][]string `yaml:"meal_moments"`
	Neighborhoods []string            `yaml:"neighborhoods"`
	Cuisines      []string            `yaml:"cuisines"`
	IntentTags    []string            `yaml:"intent_tags"`
}

// New builds a Lexicon from the built-in tables.
func New() *Lexicon {
	lex := &Lexicon{
		categories:    defaultCategories(),
		ingredients:   defaultIngredients(),
		diets:         defaultDiets(),
		allergens:     defaultAllergens(),
		health:        defaultHealth(),
		mealMoments:   defaultMealMoments(),
		neighborhoods: defaultNeighborhoods(),
		cuisines:      defaultCuisines(),
	}
	lex.intentTags = make(map[string]struct{})
	for _, tag := range defaultIntentTags() {
		lex.intentTags[tag] = struct{}{}
	}
	lex.buildIndexes()
	return lex
}

// Load builds a Lexicon from the built-in tables merged with a YAML override
// file. An empty path returns the defaults.
func Load(path string) (*Lexicon, error) {
	lex := New()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read lexicon override %s: %w", path, err)
	}
	var ov Override
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return nil, fmt.Errorf("parse lexicon override: %w", err)
	}

	mergeTable(lex.categories, ov.Categories)
	mergeTable(lex.ingredients, ov.Ingredients)
	mergeTable(lex.diets, ov.Diets)
	mergeTable(lex.allergens, ov.Allergens)
	mergeTable(lex.health, ov.Health)
	mergeTable(lex.mealMoments, ov.MealMoments)
	if len(ov.Neighborhoods) > 0 {
		lex.neighborhoods = ov.Neighborhoods
	}
	if len(ov.Cuisines) > 0 {
		lex.cuisines = ov.Cuisines
	}
	for _, tag := range ov.IntentTags {
		lex.intentTags[tag] = struct{}{}
	}

	lex.buildIndexes()
	return lex, nil
}

func mergeTable(dst, src map[string][]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func (l *Lexicon) buildIndexes() {
	l.ingredientIndex = buildIndex(l.ingredients)
	l.allergenIndex = buildIndex(l.allergens)
	l.dietIndex = buildIndex(l.diets)
	l.healthIndex = buildIndex(l.health)
	l.categoryIndex = buildIndex(l.categories)

	l.ingredientGroups = make(map[string]map[string]struct{}, len(l.ingredients))
	for canonical, syns := range l.ingredients {
		group := map[string]struct{}{normalize.Strict(canonical): {}}
		for _, s := range syns {
			group[normalize.Strict(s)] = struct{}{}
		}
		l.ingredientGroups[canonical] = group
	}
}

// buildIndex maps each normalized surface form (and the canonical token
// itself) to the canonical token. A surface claimed by another canonical's
// synonym list resolves to that owner, so "mozzarella" lands on its synonym
// group "queso" and an exclusion over it catches every queso dish. Owners are
// visited in sorted order and the first claim wins.
func buildIndex(table map[string][]string) map[string]string {
	idx := make(map[string]string)
	for _, canonical := range sortedKeys(table) {
		key := normalize.Strict(canonical)
		for _, s := range table[canonical] {
			sk := normalize.Strict(s)
			if sk == key {
				continue
			}
			if _, ok := idx[sk]; !ok {
				idx[sk] = canonical
			}
		}
	}
	for _, canonical := range sortedKeys(table) {
		key := normalize.Strict(canonical)
		if _, ok := idx[key]; !ok {
			idx[key] = canonical
		}
	}
	// Inflections of a claimed canonical follow it: "mozzarellas" points at
	// the "mozzarella" group, which itself resolves to "queso".
	for sk, c := range idx {
		if owner, ok := idx[normalize.Strict(c)]; ok && owner != c {
			idx[sk] = owner
		}
	}
	return idx
}

// Categories returns the category table. Callers must not mutate it.
func (l *Lexicon) Categories() map[string][]string { return l.categories }

// Ingredients returns the ingredient table. Callers must not mutate it.
func (l *Lexicon) Ingredients() map[string][]string { return l.ingredients }

// Diets returns the diet table. Callers must not mutate it.
func (l *Lexicon) Diets() map[string][]string { return l.diets }

// Allergens returns the allergen table. Callers must not mutate it.
func (l *Lexicon) Allergens() map[string][]string { return l.allergens }

// Health returns the health-tag table. Callers must not mutate it.
func (l *Lexicon) Health() map[string][]string { return l.health }

// MealMoments returns the meal-moment table. Callers must not mutate it.
func (l *Lexicon) MealMoments() map[string][]string { return l.mealMoments }

// Neighborhoods returns the known neighborhood names.
func (l *Lexicon) Neighborhoods() []string { return l.neighborhoods }

// Cuisines returns the known cuisine names.
func (l *Lexicon) Cuisines() []string { return l.cuisines }

// IngredientGroups returns canonical ingredient -> normalized surface set.
func (l *Lexicon) IngredientGroups() map[string]map[string]struct{} {
	return l.ingredientGroups
}

// IngredientSurfaces returns normalized surface form -> canonical ingredient.
// Callers must not mutate it.
func (l *Lexicon) IngredientSurfaces() map[string]string { return l.ingredientIndex }

// AllergenSurfaces returns normalized surface form -> canonical allergen.
// Callers must not mutate it.
func (l *Lexicon) AllergenSurfaces() map[string]string { return l.allergenIndex }

// CanonicalIngredient resolves a surface form to its canonical ingredient.
func (l *Lexicon) CanonicalIngredient(surface string) (string, bool) {
	c, ok := l.ingredientIndex[normalize.Strict(surface)]
	return c, ok
}

// CanonicalAllergen resolves a surface form to its canonical allergen.
func (l *Lexicon) CanonicalAllergen(surface string) (string, bool) {
	c, ok := l.allergenIndex[normalize.Strict(surface)]
	return c, ok
}

// CanonicalDiet resolves a surface form to its canonical diet token.
func (l *Lexicon) CanonicalDiet(surface string) (string, bool) {
	c, ok := l.dietIndex[normalize.Strict(surface)]
	return c, ok
}

// CanonicalHealth resolves a surface form to its canonical health tag.
func (l *Lexicon) CanonicalHealth(surface string) (string, bool) {
	c, ok := l.healthIndex[normalize.Strict(surface)]
	return c, ok
}

// CanonicalCategory resolves a surface form to its canonical category.
func (l *Lexicon) CanonicalCategory(surface string) (string, bool) {
	c, ok := l.categoryIndex[normalize.Strict(surface)]
	return c, ok
}

// CanonicalCuisine resolves a surface form to a known cuisine name.
func (l *Lexicon) CanonicalCuisine(surface string) (string, bool) {
	key := normalize.Strict(surface)
	for _, c := range l.cuisines {
		if normalize.Strict(c) == key {
			return c, true
		}
	}
	return "", false
}

// CanonicalNeighborhood resolves a surface form to a known neighborhood name.
func (l *Lexicon) CanonicalNeighborhood(surface string) (string, bool) {
	key := normalize.Strict(surface)
	for _, n := range l.neighborhoods {
		if normalize.Strict(n) == key {
			return n, true
		}
	}
	return "", false
}

// CanonicalMealMoment resolves a surface form to a canonical meal moment.
func (l *Lexicon) CanonicalMealMoment(surface string) (string, bool) {
	key := normalize.Strict(surface)
	for canonical, syns := range l.mealMoments {
		if normalize.Strict(canonical) == key {
			return canonical, true
		}
		for _, s := range syns {
			if normalize.Strict(s) == key {
				return canonical, true
			}
		}
	}
	return "", false
}

// KnownIntentTag reports whether tag belongs to the intent vocabulary.
func (l *Lexicon) KnownIntentTag(tag string) bool {
	_, ok := l.intentTags[tag]
	return ok
}

// Facets summarizes the vocabulary for the enrichment prompt payload.
type Facets struct {
	Categories    []string `json:"categories"`
	Diets         []string `json:"diets"`
	Allergens     []string `json:"allergens"`
	HealthTags    []string `json:"health_tags"`
	IntentTags    []string `json:"intent_tags"`
	Neighborhoods []string `json:"neighborhoods"`
	Cuisines      []string `json:"cuisines"`
	MealMoments   []string `json:"meal_moments"`
}

// Facets returns the sorted canonical vocabulary per facet.
func (l *Lexicon) Facets() Facets {
	return Facets{
		Categories:    sortedKeys(l.categories),
		Diets:         sortedKeys(l.diets),
		Allergens:     sortedKeys(l.allergens),
		HealthTags:    sortedKeys(l.health),
		IntentTags:    sortedSet(l.intentTags),
		Neighborhoods: append([]string(nil), l.neighborhoods...),
		Cuisines:      append([]string(nil), l.cuisines...),
		MealMoments:   sortedKeys(l.mealMoments),
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
