package lexicon

// Built-in vocabulary tables. A YAML override file may extend or replace
// individual entries at startup, never at request time.

func defaultCategories() map[string][]string {
	return map[string][]string{
		"parrilla":     {"parrilla", "asado", "vacio", "entrana", "matambre", "costillas", "bbq argentina"},
		"pasta":        {"pasta", "fideos", "tallarines", "ravioles", "noquis", "lasana"},
		"ensalada":     {"ensalada", "salad", "verde"},
		"wok":          {"wok", "salteado", "stir fry"},
		"pizza":        {"pizza", "muzza", "napolitana", "fugazzeta"},
		"burger":       {"hamburguesa", "burger", "cheeseburger"},
		"sandwich":     {"sandwich", "sandwiches", "sanguches", "lomito", "baguette"},
		"arabe":        {"arabe", "shawarma", "falafel", "hummus", "kebab", "tabule"},
		"sushi":        {"sushi", "roll", "nigiri", "uramaki"},
		"milanesa":     {"milanesa", "mila"},
		"tacos":        {"taco", "tacos", "burrito", "quesadilla"},
		"sopas":        {"sopa", "sopas", "caldo", "ramen", "pho"},
		"postres":      {"postre", "flan", "tiramisu", "cheesecake", "brownie", "torta"},
		"bowls":        {"bowl", "poke", "buddha", "grain bowl"},
		"empanadas":    {"empanada", "empanadas"},
		"combos":       {"combo", "menu para dos", "menu familiar"},
		"helado":       {"helado", "gelato", "paleta"},
		"wraps":        {"wrap", "wraps", "tortilla enrollada"},
		"poke":         {"poke", "poke bowl"},
		"pollo":        {"pollo", "fried chicken", "alitas", "tenders"},
		"vegano":       {"vegano", "plant based"},
		"desayuno":     {"desayuno", "brunch", "avena"},
		"arepas":       {"arepa", "arepas"},
		"peruana":      {"peruana", "ceviche", "lomo saltado"},
		"india":        {"india", "curry", "masala"},
		"thai":         {"thai", "pad thai", "curry thai"},
		"mediterranea": {"mediterranea", "mezze", "greek"},
		"mariscos":     {"mariscos", "seafood"},
		"cafeteria":    {"cafe", "cafeteria", "latte"},
	}
}

func defaultIngredients() map[string][]string {
	return map[string][]string{
		"tomate":         {"salsa de tomate", "tomate", "tomates"},
		"espinaca":       {"espinaca", "acelga"},
		"queso":          {"cheddar", "mozzarella", "queso", "queso rallado", "quesos"},
		"pollo":          {"chicken", "pollo", "pollos"},
		"carne":          {"asado", "bife", "carne", "carnes", "vacuna"},
		"cerdo":          {"cerdo", "cerdos", "puerco"},
		"pescado":        {"atun", "merluza", "pescado", "pescados", "salmon"},
		"camaron":        {"camaron", "langostino", "gamba"},
		"cebolla":        {"cebolla", "cebollas"},
		"huevo":          {"huevo", "huevos"},
		"nueces":         {"nuez", "nueces", "walnut"},
		"mani":           {"mani", "cacahuate", "peanut"},
		"gluten":         {"gluten", "trigo", "harina de trigo"},
		"lacteos":        {"lacteo", "lacteos", "leche", "crema"},
		"soja":           {"soja", "sojas", "soya"},
		"arroz":          {"arroces", "arroz", "rice"},
		"palta":          {"aguacate", "palta", "paltas"},
		"pepino":         {"pepino", "pepinos"},
		"frito":          {"frito", "fried"},
		"cremoso":        {"cremoso", "crema", "creamy"},
		"berenjena":      {"berenjena", "berenjenas"},
		"zucchini":       {"zapallito", "zapallito italiano", "zucchini", "zucchinis"},
		"lechuga":        {"lechuga", "lechugas"},
		"brocoli":        {"brocoli", "brocolis"},
		"zanahoria":      {"zanahoria", "zanahorias"},
		"choclo":         {"choclo", "choclos", "maiz"},
		"sesamo":         {"ajonjoli", "sesamo", "sesamos"},
		"perejil":        {"perejil", "perejiles"},
		"quinoa":         {"quinoa", "quinoas", "quinua"},
		"anana":          {"anana", "ananas", "pina"},
		"surimi":         {"kanikama", "surimi", "surimis"},
		"miso":           {"miso", "misos"},
		"tofu":           {"tofu", "tofus"},
		"garbanzo":       {"garbanzo", "garbanzos"},
		"albahaca":       {"albahaca", "albahacas"},
		"pasta de trigo": {"pasta", "pasta de trigo", "pastas"},
		"ricota":         {"ricota", "ricotas"},
		"papa":           {"papa", "papas"},
		"harina":         {"harina", "harinas"},
		"jamon":          {"jamon", "jamones"},
		"crema":          {"crema", "cremas"},
		"mozzarella":     {"mozzarella", "mozzarellas"},
		"oregano":        {"oregano", "oreganos"},
		"ajo":            {"ajo", "ajos"},
		"chimichurri":    {"chimichurri", "chimichurris"},
		"sal":            {"sal", "sales"},
		"croutons":       {"croutons"},
		"pan":            {"pan", "panes"},
		"pan pita":       {"pan pita", "pan pitas"},
		"especias":       {"especias"},
		"trigo":          {"trigo", "trigos"},
		"salmon":         {"salmon", "salmones"},
		"tortilla":       {"tortilla", "tortillas"},
		"calabaza":       {"calabaza", "calabazas"},
		"fideos":         {"fideos"},
		"leche":          {"leche", "leches"},
		"azucar":         {"azucar", "azucares"},
		"mascarpone":     {"mascarpone", "mascarpones"},
		"cafe":           {"cafe", "cafes"},
		"gaseosa":        {"gaseosa", "gaseosas"},
		"chorizo":        {"chorizo", "chorizos"},
		"morcilla":       {"morcilla", "morcillas"},
		"dulce de leche": {"dulce de leche", "dulce de leches"},
	}
}

func defaultDiets() map[string][]string {
	return map[string][]string{
		"veg":         {"vegetarian", "vegetariana", "vegetarianas", "vegetariano", "vegetarianos", "veggie", "veggies"},
		"vegan":       {"vegan", "vegana", "veganas", "vegano", "veganos"},
		"keto":        {"keto", "cetogenica"},
		"gluten_free": {"apto celiaco", "apto celiacos", "celiaco", "celiacos", "gluten free", "sin gluten"},
		"halal":       {"halal"},
	}
}

func defaultAllergens() map[string][]string {
	return map[string][]string{
		"gluten":    {"gluten", "trigo"},
		"dairy":     {"lacteos", "leche", "queso", "manteca", "mantequilla"},
		"egg":       {"huevo", "huevos"},
		"soy":       {"soja", "soya"},
		"peanut":    {"mani", "cacahuate", "peanut"},
		"tree_nut":  {"nuez", "nueces", "almendra", "avellana", "frutos secos"},
		"shellfish": {"camaron", "langostino", "camarones", "mariscos"},
	}
}

func defaultHealth() map[string][]string {
	return map[string][]string{
		"no_fry":      {"sin fritura", "no frito", "liviano", "saludable", "saludables"},
		"grilled":     {"grillado", "a la parrilla"},
		"baked":       {"al horno"},
		"low_sodium":  {"poco sodio", "bajo en sodio", "poca sal", "sin sal", "baja en sal"},
		"spicy":       {"picante"},
		"creamy":      {"cremoso", "con crema"},
		"very_greasy": {"muy grasoso", "grasoso"},
		"soup":        {"sopa", "caldo"},
		"rice":        {"arroz"},
	}
}

func defaultMealMoments() map[string][]string {
	return map[string][]string{
		"desayuno": {"desayuno", "desayunos"},
		"almuerzo": {"almuerzo", "almuerzos", "almorzar"},
		"merienda": {"merienda", "meriendas", "merendar"},
		"cena":     {"cena", "cenas", "cenar"},
		"postre":   {"postre", "postres"},
	}
}

func defaultNeighborhoods() []string {
	return []string{
		"Palermo", "Belgrano", "Colegiales", "Recoleta", "Chacarita", "Villa Crespo",
		"Almagro", "Caballito", "Núñez", "Boedo", "San Telmo", "Microcentro",
		"Balvanera", "Devoto", "Saavedra",
	}
}

func defaultCuisines() []string {
	return []string{
		"Argentina", "Parrilla", "Italiana", "Pizzería", "Empanadas", "Ensaladas",
		"Wok", "Árabe", "Japonesa", "Mexicana", "Hamburguesas", "Vegana",
		"Vegetariana", "Sushi", "Tacos", "Sandwiches", "Bowls", "Sopas", "Postres",
	}
}

// Intent tags the catalog augmentation may attach to a dish. Enrichment
// suggestions outside this set are dropped.
func defaultIntentTags() []string {
	return []string{
		"delivery_dining", "romantic_evening", "date_night", "friends_gathering",
		"movie_night", "family_sharing", "healthy_choice", "budget_friendly",
		"express_delivery", "quick_lunch", "top_rated", "sweet_treat",
		"portion_large",
	}
}
