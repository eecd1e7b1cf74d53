package compile

import (
	"regexp"

	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
)

// Conversational scenarios. Each rule fires independently off the soft
// normalized text and only ever tightens filters; bounds it introduces on a
// previously unset field are recorded as auto constraints so the relaxation
// controller may undo them later. User-supplied bounds are never marked auto.

const (
	ScenarioRomanticDate   = "romantic_date"
	ScenarioBudgetFriendly = "budget_friendly"
	ScenarioQuickLunch     = "quick_lunch"
	ScenarioFriendsGather  = "friends_gathering"
	ScenarioFamilySharing  = "family_sharing"
)

const (
	romanticRatingFloor = 4.4
	budgetPriceCeiling  = 4500
	budgetPricePct      = 0.28
	quickETAPct         = 0.35
	quickETAFallback    = 20
)

var (
	romanticCategoryDefaults = []string{"pasta", "sushi", "parrilla", "wok"}
	friendsCategoryDefaults  = []string{"pizza", "burger", "tacos", "sandwich", "empanadas"}
	familyCategoryDefaults   = []string{"parrilla", "pasta", "sopas", "bowls"}

	// Savory replacement set for the course-preference pass, used when
	// stripping desserts empties a non-empty category list.
	savoryCategoryDefaults = []string{"parrilla", "pasta", "ensalada", "wok", "combos"}

	dessertCategories = []string{"postres", "helado"}
)

type scenarioRule struct {
	tag      string
	patterns []*regexp.Regexp
	label    string
	detail   string
	summary  string
	apply    func(sc *scenarioContext)
}

type scenarioContext struct {
	q   *query.CompiledQuery
	idx *catalog.Index
}

// hadRating etc. snapshot whether a bound existed before the rule ran, so a
// rule-introduced bound is marked auto but a user bound never is.
func (sc *scenarioContext) tightenRatingMin(v float64) {
	had := sc.q.Filters.RatingMin != nil
	sc.q.Filters.RatingMin = query.TightenMin(sc.q.Filters.RatingMin, v)
	if !had {
		sc.q.Metadata.MarkAuto(query.FieldRatingMin)
	}
}

func (sc *scenarioContext) tightenETAMax(v float64) {
	had := sc.q.Filters.ETAMax != nil
	sc.q.Filters.ETAMax = query.TightenMax(sc.q.Filters.ETAMax, v)
	if !had {
		sc.q.Metadata.MarkAuto(query.FieldETAMax)
	}
}

func (sc *scenarioContext) tightenPriceMax(v float64) {
	had := sc.q.Filters.PriceMax != nil
	sc.q.Filters.PriceMax = query.TightenPriceMax(sc.q.Filters.PriceMax, v, sc.idx)
	if !had {
		sc.q.Metadata.MarkAuto(query.FieldPriceMax)
	}
}

// defaultCategories fills category_any only when the user supplied none.
func (sc *scenarioContext) defaultCategories(cats ...string) {
	if len(sc.q.Filters.CategoryAny) > 0 {
		return
	}
	sc.q.Filters.CategoryAny = query.AddUnique(sc.q.Filters.CategoryAny, cats...)
	sc.q.Metadata.MarkAuto(query.FieldCategoryAny)
}

func (sc *scenarioContext) autoIntentTags(tags ...string) {
	had := len(sc.q.Filters.IntentTagsAny) > 0
	sc.q.Filters.IntentTagsAny = query.AddUnique(sc.q.Filters.IntentTagsAny, tags...)
	if !had {
		sc.q.Metadata.MarkAuto(query.FieldIntentTagsAny)
	}
}

func compilePatterns(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}

var scenarioRules = []scenarioRule{
	{
		tag: ScenarioRomanticDate,
		patterns: compilePatterns(
			`cita\s+romant`, `salida\s+romant`, `plan\s+romant`,
			`con\s+mi\s+pareja`, `cena\s+romant`, `noche\s+romant`,
		),
		label:   "cita romántica",
		detail:  "priorizar lugares íntimos y con alto rating",
		summary: "Prioricé opciones con ambiente romántico, buen rating y etiquetas especiales de cita.",
		apply: func(sc *scenarioContext) {
			sc.tightenRatingMin(romanticRatingFloor)
			sc.q.Filters.AvailableOnly = true
			sc.defaultCategories(romanticCategoryDefaults...)
			sc.autoIntentTags("romantic_evening", "date_night")
			sc.q.AddHints("date", "special_evening")
			sc.q.Overrides.AddBoost("romantic", "date-night", "vino", "intimo")
			sc.q.Overrides.NudgeWeight(query.WeightRating, 0.45)
			sc.q.Overrides.NudgeWeight(query.WeightLex, 0.15)
		},
	},
	{
		tag: ScenarioBudgetFriendly,
		patterns: compilePatterns(
			`no\s+tengo\s+mucha\s+plata`, `poco\s+presupuesto`,
			`barato\s+pero\s+rico`, `estoy\s+corto\s+de\s+plata`,
			`cuide\s+el\s+presupuesto`,
		),
		label:   "presupuesto ajustado",
		detail:  "fijar tope de precio y dar peso extra a opciones económicas",
		summary: "Ajusté la búsqueda a opciones accesibles y destaqué platos marcados como económicos.",
		apply: func(sc *scenarioContext) {
			target := float64(budgetPriceCeiling)
			if p, ok := sc.idx.PricePercentile(budgetPricePct); ok && p < target {
				target = p
			}
			sc.tightenPriceMax(target)
			sc.autoIntentTags("budget_friendly")
			sc.q.Overrides.AddBoost("budget_friendly", "ahorro", "combo")
			sc.q.Overrides.NudgeWeight(query.WeightPrice, 0.45)
			sc.q.Overrides.NudgeWeight(query.WeightPop, 0.12)
		},
	},
	{
		tag: ScenarioQuickLunch,
		patterns: compilePatterns(
			`algo\s+rapido\s+para\s+almorzar`, `almuerzo\s+rapido`,
			`comer\s+rapido\s+al\s+mediodia`, `necesito\s+algo\s+express`,
		),
		label:   "almuerzo rápido",
		detail:  "limitar tiempos de entrega y priorizar formatos express",
		summary: "Configuré filtros para almuerzos rápidos con entregas cortas y platos listos al paso.",
		apply: func(sc *scenarioContext) {
			target := float64(quickETAFallback)
			if p, ok := sc.idx.ETAPercentile(quickETAPct); ok {
				target = p
			}
			sc.tightenETAMax(target)
			sc.q.Filters.MealMomentsAny = query.AddUnique(sc.q.Filters.MealMomentsAny, "almuerzo")
			sc.autoIntentTags("quick_lunch")
			sc.q.Overrides.AddBoost("quick_lunch", "sandwich", "wrap", "express")
			sc.q.Overrides.NudgeWeight(query.WeightETA, 0.22)
			sc.q.Overrides.NudgeWeight(query.WeightDist, 0.12)
		},
	},
	{
		tag: ScenarioFriendsGather,
		patterns: compilePatterns(
			`con\s+amigos`, `juntada`, `con\s+los\s+pibes`,
			`noche\s+de\s+pelicula`, `para\s+compartir`,
		),
		label:   "juntada con amigos",
		detail:  "priorizar platos para compartir y formatos abundantes",
		summary: "Elegí opciones pensadas para compartir entre varios, con formatos abundantes.",
		apply: func(sc *scenarioContext) {
			sc.defaultCategories(friendsCategoryDefaults...)
			sc.autoIntentTags("friends_gathering")
			sc.q.AddHints("friends")
			sc.q.Overrides.AddBoost("friends_gathering", "combos", "movie_night")
			sc.q.Overrides.NudgeWeight(query.WeightPop, 0.15)
		},
	},
	{
		tag: ScenarioFamilySharing,
		patterns: compilePatterns(
			`en\s+familia`, `plan\s+familiar`, `con\s+los\s+chicos`,
			`para\s+toda\s+la\s+familia`, `menu\s+familiar`,
		),
		label:   "plan familiar",
		detail:  "priorizar porciones grandes y platos rendidores",
		summary: "Armé una selección familiar con porciones grandes y platos que rinden para todos.",
		apply: func(sc *scenarioContext) {
			sc.defaultCategories(familyCategoryDefaults...)
			sc.autoIntentTags("family_sharing")
			sc.q.AddHints("family")
			sc.q.Overrides.AddBoost("family_sharing", "portion_large", "combos")
			sc.q.Overrides.NudgeWeight(query.WeightPop, 0.12)
		},
	},
}

// applyScenarios runs every rule in order against the soft-normalized text
// and returns the advisor summaries of the rules that fired.
func applyScenarios(q *query.CompiledQuery, idx *catalog.Index, textSoft string, trace *Trace) []string {
	sc := &scenarioContext{q: q, idx: idx}
	var summaries []string
	for _, rule := range scenarioRules {
		if !anyMatch(rule.patterns, textSoft) {
			continue
		}
		q.AddScenarioTags(rule.tag)
		rule.apply(sc)
		trace.Addf("Escenario conversacional: %s -> %s", rule.label, rule.detail)
		summaries = append(summaries, rule.summary)
	}
	return summaries
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// mealOccasionMoments are the moments that signal a savory meal occasion.
var mealOccasionMoments = map[string]struct{}{
	"desayuno": {}, "almuerzo": {}, "merienda": {}, "cena": {},
}

// applyCoursePreference strips desserts from category_any when the text
// signals a meal occasion (a meal moment or any fired scenario) without an
// explicit dessert request. If stripping empties a previously non-empty list
// it is replaced by the default savory set.
func applyCoursePreference(q *query.CompiledQuery, dessertRequested bool, trace *Trace) {
	if dessertRequested {
		return
	}
	occasion := len(q.ScenarioTags) > 0
	for _, m := range q.Filters.MealMomentsAny {
		if _, ok := mealOccasionMoments[m]; ok {
			occasion = true
			break
		}
	}
	if !occasion {
		return
	}
	hadCategories := len(q.Filters.CategoryAny) > 0
	stripped := query.Remove(q.Filters.CategoryAny, dessertCategories...)
	if len(stripped) == len(q.Filters.CategoryAny) {
		return
	}
	q.Filters.CategoryAny = stripped
	if hadCategories && len(stripped) == 0 {
		q.Filters.CategoryAny = append([]string(nil), savoryCategoryDefaults...)
		q.Metadata.MarkAuto(query.FieldCategoryAny)
	}
	trace.Addf("Preferencia de plato principal: quité postres del filtro de categorías")
}
