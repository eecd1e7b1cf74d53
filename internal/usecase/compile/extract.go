package compile

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
	"github.com/comidalab/buscaplato/internal/normalize"
)

// Words that open a negative context: a vocabulary match within five tokens
// after one of these must not count as an inclusion ("sin maní", "alergia a
// los mariscos"). Applies to categories, cuisines, ingredients and allergens.
var negativeMarkers = map[string]struct{}{
	"sin": {}, "evitar": {}, "alergia": {}, "alergias": {},
	"intolerancia": {}, "intolerancias": {},
}

const negativeWindowTokens = 5

// negativeContext reports whether the byte offset start in normalized text is
// preceded, within the marker window, by a negative marker or "no quiero".
func negativeContext(textNorm string, start int) bool {
	window := normalize.Tokens(textNorm[:start])
	lo := len(window) - negativeWindowTokens
	if lo < 0 {
		lo = 0
	}
	for i := lo; i < len(window); i++ {
		if _, ok := negativeMarkers[window[i]]; ok {
			return true
		}
		if window[i] == "quiero" && i > 0 && window[i-1] == "no" {
			return true
		}
	}
	return false
}

// surfacePattern is a precompiled synonym matcher bound to a canonical token.
type surfacePattern struct {
	token   string
	surface string
	re      *regexp.Regexp
}

// extractor holds the precompiled recognizer battery. Built once per process
// from the immutable lexicon; safe for concurrent use.
type extractor struct {
	lex         *lexicon.Lexicon
	restaurants []string

	categories  []surfacePattern
	cuisines    []surfacePattern
	ingredients []surfacePattern
	allergens   []surfacePattern
	diets       []surfacePattern
	health      []surfacePattern
	moments     []surfacePattern

	lowSodiumRe  *regexp.Regexp
	priceCapRe   *regexp.Regexp
	ratingRes    []*regexp.Regexp
	celiacRe     *regexp.Regexp
	cocinaDietRe map[string]*regexp.Regexp
}

func newExtractor(lex *lexicon.Lexicon, restaurantNames []string) *extractor {
	e := &extractor{
		lex:         lex,
		restaurants: restaurantNames,
		lowSodiumRe: regexp.MustCompile(`\b(?:poca|baja)\s+sal\b|\bsin\s+sal\b`),
		priceCapRe:  regexp.MustCompile(`(?:hasta|<=|menos de|<)\s*(\d{3,6})`),
		ratingRes: []*regexp.Regexp{
			regexp.MustCompile(`(?:rating|puntaje|puntuacion)\s*(?:mayor(?:\s*a)?|>=?)\s*([0-5](?:[.,]\d+)?)`),
			regexp.MustCompile(`(?:rating|puntaje|puntuacion)\s*([0-5](?:[.,]\d+)?)`),
			regexp.MustCompile(`\b([0-5](?:[.,]\d+)?)\b\s*(?:o\s*mas|para\s*arriba)\s*(?:de\s*(?:rating|puntaje|puntuacion))?`),
		},
		celiacRe:     regexp.MustCompile(`\bapto celiacos?\b|\bsin gluten\b`),
		cocinaDietRe: make(map[string]*regexp.Regexp),
	}

	e.categories = buildPatterns(lex.Categories(), wordPattern)
	e.ingredients = buildSurfacePatterns(lex.IngredientSurfaces(), pluralPattern)
	e.allergens = buildSurfacePatterns(lex.AllergenSurfaces(), pluralPattern)
	e.diets = buildPatterns(lex.Diets(), prefixPattern)
	e.health = buildPatterns(lex.Health(), prefixPattern)
	e.moments = buildPatterns(lex.MealMoments(), wordPattern)

	for _, c := range lex.Cuisines() {
		cn := normalize.Strict(c)
		// "Vegana"/"Vegetariana" only count as cuisines after "cocina",
		// otherwise they collide with the diet recognizers.
		if c == "Vegana" || c == "Vegetariana" {
			e.cocinaDietRe[c] = regexp.MustCompile(`\bcocina\s+` + regexp.QuoteMeta(cn) + `\b`)
			continue
		}
		e.cuisines = append(e.cuisines, surfacePattern{
			token: c, surface: cn, re: regexp.MustCompile(wordPattern(cn)),
		})
	}
	return e
}

func wordPattern(surface string) string {
	return `\b` + regexp.QuoteMeta(surface) + `\b`
}

// pluralPattern tolerates common Spanish plural and diminutive suffixes.
func pluralPattern(surface string) string {
	return `\b` + regexp.QuoteMeta(surface) + `(?:s|es|ito|itos|ita|itas)?\b`
}

// prefixPattern matches the surface form with any word-character suffix
// (diet/health forms inflect freely: vegetariano/vegetarianas).
func prefixPattern(surface string) string {
	return `\b` + regexp.QuoteMeta(surface) + `\w*\b`
}

// buildSurfacePatterns compiles one matcher per deduplicated surface form.
func buildSurfacePatterns(index map[string]string, shape func(string) string) []surfacePattern {
	surfaces := make([]string, 0, len(index))
	for s := range index {
		surfaces = append(surfaces, s)
	}
	sort.Strings(surfaces)

	out := make([]surfacePattern, 0, len(surfaces))
	for _, s := range surfaces {
		out = append(out, surfacePattern{
			token: index[s], surface: s, re: regexp.MustCompile(shape(s)),
		})
	}
	return out
}

func buildPatterns(table map[string][]string, shape func(string) string) []surfacePattern {
	tokens := make([]string, 0, len(table))
	for t := range table {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)

	var out []surfacePattern
	for _, token := range tokens {
		for _, syn := range table[token] {
			sn := normalize.Strict(syn)
			if sn == "" {
				continue
			}
			out = append(out, surfacePattern{
				token: token, surface: sn, re: regexp.MustCompile(shape(sn)),
			})
		}
	}
	return out
}

// matchOutsideNegativeWindow reports a hit when at least one occurrence of the
// pattern is not inside a negative context.
func matchOutsideNegativeWindow(re *regexp.Regexp, textNorm string) bool {
	for _, loc := range re.FindAllStringIndex(textNorm, -1) {
		if !negativeContext(textNorm, loc[0]) {
			return true
		}
	}
	return false
}

// matchInNegativeWindow reports a hit when at least one occurrence of the
// pattern sits inside a negative context.
func matchInNegativeWindow(re *regexp.Regexp, textNorm string) bool {
	for _, loc := range re.FindAllStringIndex(textNorm, -1) {
		if negativeContext(textNorm, loc[0]) {
			return true
		}
	}
	return false
}

func (e *extractor) extractRestaurants(raw string, trace *Trace) []string {
	soft := normalize.Soft(raw)
	var hits []string
	for _, rn := range e.restaurants {
		rnn := normalize.Soft(rn)
		if rnn != "" && strings.Contains(soft, rnn) {
			hits = append(hits, rn)
		}
	}
	if len(hits) > 0 {
		trace.Addf("Restaurantes detectados: %v", hits)
	}
	return hits
}

func (e *extractor) extractCategories(textNorm string, trace *Trace) []string {
	var cats []string
	seen := make(map[string]struct{})
	for _, p := range e.categories {
		if _, ok := seen[p.token]; ok {
			continue
		}
		if matchOutsideNegativeWindow(p.re, textNorm) {
			cats = append(cats, p.token)
			seen[p.token] = struct{}{}
		}
	}
	sort.Strings(cats)
	if len(cats) > 0 {
		trace.Addf("Categorias: %v", cats)
	}
	return cats
}

func (e *extractor) extractNeighborhoods(raw string, trace *Trace) []string {
	t := normalize.Strict(raw)
	var selected []string
	for _, n := range e.lex.Neighborhoods() {
		re := regexp.MustCompile(wordPattern(normalize.Strict(n)))
		if re.MatchString(t) {
			selected = append(selected, n)
		}
	}
	if len(selected) > 0 {
		trace.Addf("Barrios: %v", selected)
	}
	return selected
}

func (e *extractor) extractCuisines(raw string, trace *Trace) []string {
	t := normalize.Strict(raw)
	var selected []string
	for _, p := range e.cuisines {
		if matchOutsideNegativeWindow(p.re, t) {
			selected = append(selected, p.token)
		}
	}
	for cuisine, re := range e.cocinaDietRe {
		if re.MatchString(t) {
			selected = append(selected, cuisine)
		}
	}
	sort.Strings(selected)
	if len(selected) > 0 {
		trace.Addf("Cocinas: %v", selected)
	}
	return selected
}

// ingredientChannels classifies every lexicon ingredient mention into hard
// include ("con X"), exclude (negative window) or soft include (bare
// mention), and collects allergen exclusions from negative windows.
type ingredientChannels struct {
	include    []string
	exclude    []string
	softAny    []string
	allergens  []string
	lowSodium  bool
	saltRouted bool
}

func (e *extractor) extractIngredients(textNorm string, trace *Trace) ingredientChannels {
	ch := ingredientChannels{lowSodium: e.lowSodiumRe.MatchString(textNorm)}

	include := make(map[string]struct{})
	exclude := make(map[string]struct{})
	soft := make(map[string]struct{})

	for _, p := range e.ingredients {
		if ch.lowSodium && p.surface == "sal" {
			// "poca sal"/"sin sal" routes to the low_sodium health tag, never
			// to the ingredient channels.
			ch.saltRouted = true
			continue
		}
		for _, loc := range p.re.FindAllStringIndex(textNorm, -1) {
			if negativeContext(textNorm, loc[0]) {
				exclude[p.token] = struct{}{}
				continue
			}
			if precededBy(textNorm, loc[0], "con") {
				include[p.token] = struct{}{}
				continue
			}
			soft[p.token] = struct{}{}
		}
	}
	// A token excluded anywhere never also counts as soft include.
	for t := range exclude {
		delete(soft, t)
		delete(include, t)
	}

	allergens := make(map[string]struct{})
	for _, p := range e.allergens {
		if matchInNegativeWindow(p.re, textNorm) {
			allergens[p.token] = struct{}{}
		}
	}

	ch.include = sortedTokens(include)
	ch.exclude = sortedTokens(exclude)
	ch.softAny = sortedTokens(soft)
	ch.allergens = sortedTokens(allergens)

	if len(ch.include) > 0 {
		trace.Addf("Incluir ingredientes: %v", ch.include)
	}
	if len(ch.softAny) > 0 {
		trace.Addf("Ingredientes mencionados: %v", ch.softAny)
	}
	if len(ch.exclude) > 0 {
		trace.Addf("Excluir ingredientes: %v", ch.exclude)
	}
	if len(ch.allergens) > 0 {
		trace.Addf("Excluir alergenos: %v", ch.allergens)
	}
	return ch
}

// precededBy reports whether the token immediately before byte offset start
// equals word.
func precededBy(textNorm string, start int, word string) bool {
	toks := normalize.Tokens(textNorm[:start])
	return len(toks) > 0 && toks[len(toks)-1] == word
}

func (e *extractor) extractDiets(textNorm string, trace *Trace) []string {
	must := make(map[string]struct{})
	for _, p := range e.diets {
		if p.re.MatchString(textNorm) {
			must[p.token] = struct{}{}
		}
	}
	if e.celiacRe.MatchString(textNorm) {
		must["gluten_free"] = struct{}{}
	}
	out := sortedTokens(must)
	if len(out) > 0 {
		trace.Addf("Dietas requeridas: %v", out)
	}
	return out
}

// healthIntents is the output of the health/intent recognizer pass.
type healthIntents struct {
	healthAny []string
	hints     []string
	boost     []string
	penalize  []string
}

func (e *extractor) extractHealthAndIntents(textNorm string, trace *Trace) healthIntents {
	var out healthIntents
	health := make(map[string]struct{})

	for _, p := range e.health {
		if p.re.MatchString(textNorm) {
			health[p.token] = struct{}{}
		}
	}
	if strings.Contains(textNorm, "saludable") || e.lowSodiumRe.MatchString(textNorm) {
		health["no_fry"] = struct{}{}
		health["low_sodium"] = struct{}{}
	}
	if strings.Contains(textNorm, "no me caiga pesado") ||
		strings.Contains(textNorm, "mal de la panza") ||
		strings.Contains(textNorm, "liviano") {
		for _, t := range []string{"no_fry", "grilled", "baked", "low_sodium"} {
			health[t] = struct{}{}
		}
		out.boost = append(out.boost, "soup", "no_fry", "grilled", "baked", "rice")
		out.penalize = append(out.penalize, "fried", "spicy", "creamy", "very_greasy")
		out.hints = append(out.hints, "light_digest")
	}
	if strings.Contains(textNorm, "porcion grande") ||
		strings.Contains(textNorm, "para compartir") ||
		strings.Contains(textNorm, "tengo hambre") ||
		strings.Contains(textNorm, "abundante") {
		out.boost = append(out.boost, "portion_large", "combos")
		out.hints = append(out.hints, "portion_large")
	}
	// Common-noun category nudges.
	if regexp.MustCompile(`\bcarne\b`).MatchString(textNorm) {
		out.boost = append(out.boost, "parrilla")
	}
	if regexp.MustCompile(`\bpescado\b`).MatchString(textNorm) {
		out.boost = append(out.boost, "sushi")
	}

	out.healthAny = sortedTokens(health)
	out.boost = query.AddUnique(nil, out.boost...)
	out.penalize = query.AddUnique(nil, out.penalize...)
	out.hints = query.AddUnique(nil, out.hints...)

	if len(out.healthAny) > 0 {
		trace.Addf("Salud: %v", out.healthAny)
	}
	if len(out.boost) > 0 {
		trace.Addf("Boost: %v", out.boost)
	}
	if len(out.penalize) > 0 {
		trace.Addf("Penalizar: %v", out.penalize)
	}
	if len(out.hints) > 0 {
		trace.Addf("Hints: %v", out.hints)
	}
	return out
}

// priceWords maps qualitative wording to percentile labels, longest phrases
// first so "ultra barato" wins over "barato".
var priceWords = []struct {
	phrase string
	pct    int
}{
	{"ultra barato", 15},
	{"muy barato", 20},
	{"baratisimo", 20},
	{"barato", 35},
	{"economico", 40},
	{"caro", 80},
	{"premium", 85},
}

func (e *extractor) extractPriceMax(textNorm string, trace *Trace) *query.PriceLimit {
	for _, pw := range priceWords {
		if strings.Contains(textNorm, pw.phrase) {
			l := query.PercentilePrice(pw.pct)
			trace.Addf("Detectado precio %s -> %s", pw.phrase, l.String())
			return &l
		}
	}
	if m := e.priceCapRe.FindStringSubmatch(textNorm); m != nil {
		var val float64
		fmt.Sscanf(m[1], "%f", &val)
		l := query.LiteralPrice(val)
		trace.Addf("Limite de precio detectado %.0f", val)
		return &l
	}
	return nil
}

const quickETAMinutes = 25

func (e *extractor) extractETAMax(textNorm string, trace *Trace) *float64 {
	if strings.Contains(textNorm, "rapido") ||
		strings.Contains(textNorm, "entrega rapida") ||
		strings.Contains(textNorm, "express") {
		eta := float64(quickETAMinutes)
		trace.Addf("Velocidad: eta_max=%d", quickETAMinutes)
		return &eta
	}
	return nil
}

const goodRatingFloor = 4.3

func (e *extractor) extractRatingMin(raw string, trace *Trace) *float64 {
	t := normalize.Soft(raw)

	if strings.Contains(t, "buen rating") ||
		strings.Contains(t, "bien puntuado") ||
		strings.Contains(t, "mejor valorado") {
		v := goodRatingFloor
		trace.Addf("Calidad: rating_min=%.1f", v)
		return &v
	}

	for _, re := range e.ratingRes {
		m := re.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		var val float64
		fmt.Sscanf(strings.ReplaceAll(m[1], ",", "."), "%f", &val)
		if val < 0 {
			val = 0
		}
		if val > 5 {
			val = 5
		}
		trace.Addf("Calidad: rating_min=%.2g", val)
		return &val
	}
	return nil
}

func (e *extractor) extractMealMoments(textNorm string, trace *Trace) []string {
	moments := make(map[string]struct{})
	for _, p := range e.moments {
		if p.re.MatchString(textNorm) {
			moments[p.token] = struct{}{}
		}
	}
	out := sortedTokens(moments)
	if len(out) > 0 {
		trace.Addf("Meal moments: %v", out)
	}
	return out
}

// extractWeights maps quality/price emphasis wording to query-level weights.
func (e *extractor) extractWeights(textNorm string, trace *Trace) map[string]float64 {
	weights := make(map[string]float64)
	if strings.Contains(textNorm, "buen rating") {
		weights[query.WeightRating] = 0.35
	}
	if strings.Contains(textNorm, "ultra barato") {
		weights[query.WeightPrice] = 0.45
	}
	if len(weights) > 0 {
		trace.Addf("Pesos ajustados: %v", weights)
	}
	return weights
}

func sortedTokens(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
