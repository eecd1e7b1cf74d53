package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCanonicalIngredient(t *testing.T) {
	lex := New()

	tests := []struct {
		surface string
		want    string
		ok      bool
	}{
		{"mozzarella", "queso", true},
		{"mozzarellas", "queso", true},
		{"cheddar", "queso", true},
		{"salmones", "pescado", true},
		{"atún", "pescado", true},
		{"nuez", "nueces", true},
		{"tomates", "tomate", true},
		{"kriptonita", "", false},
	}
	for _, tt := range tests {
		got, ok := lex.CanonicalIngredient(tt.surface)
		if ok != tt.ok {
			t.Errorf("CanonicalIngredient(%q) ok = %v, want %v", tt.surface, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("CanonicalIngredient(%q) = %q, want %q", tt.surface, got, tt.want)
		}
	}
}

func TestCanonicalAllergen_Accents(t *testing.T) {
	lex := New()
	got, ok := lex.CanonicalAllergen("maní")
	if !ok || got != "peanut" {
		t.Fatalf("CanonicalAllergen(maní) = %q, %v; want peanut, true", got, ok)
	}
}

func TestCanonicalDiet(t *testing.T) {
	lex := New()
	for surface, want := range map[string]string{
		"vegetariano":  "veg",
		"veggie":       "veg",
		"apto celiaco": "gluten_free",
		"vegana":       "vegan",
	} {
		got, ok := lex.CanonicalDiet(surface)
		if !ok || got != want {
			t.Errorf("CanonicalDiet(%q) = %q, %v; want %q", surface, got, ok, want)
		}
	}
}

func TestIngredientGroups_ContainSynonyms(t *testing.T) {
	lex := New()
	group, ok := lex.IngredientGroups()["queso"]
	if !ok {
		t.Fatal("expected ingredient group for queso")
	}
	for _, surface := range []string{"queso", "mozzarella", "cheddar"} {
		if _, ok := group[surface]; !ok {
			t.Errorf("group queso missing surface %q", surface)
		}
	}
}

func TestKnownIntentTag(t *testing.T) {
	lex := New()
	if !lex.KnownIntentTag("romantic_evening") {
		t.Error("romantic_evening should be a known intent tag")
	}
	if lex.KnownIntentTag("llm_invented_tag") {
		t.Error("unknown tags must not validate")
	}
}

func TestLoad_OverrideExtendsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	override := `
ingredients:
  kimchi:
    - kimchi
    - kimchis
intent_tags:
  - late_night
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := lex.CanonicalIngredient("kimchis"); !ok || got != "kimchi" {
		t.Errorf("override ingredient not indexed: got %q, %v", got, ok)
	}
	// defaults survive a partial override
	if _, ok := lex.CanonicalIngredient("mozzarella"); !ok {
		t.Error("default ingredients lost after override merge")
	}
	if !lex.KnownIntentTag("late_night") {
		t.Error("override intent tag not registered")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/lexicon.yaml"); err == nil {
		t.Fatal("expected error for missing override file")
	}
}

func TestFacets_Populated(t *testing.T) {
	f := New().Facets()
	if len(f.Categories) == 0 || len(f.Diets) == 0 || len(f.Allergens) == 0 ||
		len(f.HealthTags) == 0 || len(f.IntentTags) == 0 {
		t.Fatalf("facets incomplete: %+v", f)
	}
}
