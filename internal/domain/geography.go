package domain

import "strings"

// cyprusAliases lists every Cyprus-related territory spelling that must
// normalize to the canonical "Cyprus". Centralizing the set keeps the
// country dropdown from splitting one island across six entries.
var cyprusAliases = map[string]struct{}{
	// Sovereign base areas and local variants.
	"akrotiri":                     {},
	"dhekelia":                     {},
	"akrotiri sovereign base area": {},
	"dhekelia cantonment":          {},
	// Abbreviations and short forms for northern cyprus.
	"n.cyprus":        {},
	"n. cyprus":       {},
	"n cyprus":        {},
	"north cyprus":    {},
	"northern cyprus": {},
	"trnc":            {},
	// Full and misspelled names of the self-declared entity.
	"turkish republic of northern cyprus": {},
	"turkish republic of northen cyprus":  {},
	// UN buffer zone variants.
	"cyprus u.n. buffer":                  {},
	"cyprus un buffer":                    {},
	"cyprus u.n. buffer zone":             {},
	"cyprus un buffer zone":               {},
	"united nations buffer zone in cyprus": {},
	"united nations buffer zone":           {},
	"u.n. buffer zone in cyprus":           {},
	"u.n. buffer zone":                     {},
	"un buffer zone in cyprus":             {},
	"un buffer zone":                       {},
}

// countryAliases folds remaining country spelling variants onto canonical names.
var countryAliases = map[string]string{
	"saudi":                   "Saudi Arabia",
	"kingdom of saudi arabia": "Saudi Arabia",
}

// areaAliases folds admin-1 spelling variants onto the keys used by areaBuckets.
var areaAliases = map[string]string{
	// Jordan Ma'an variants.
	"maan":   "ma'an",
	"ma’an":  "ma'an",
	"maʼan":  "ma'an",
	// Lebanon Bekaa variants.
	"bekaa":        "beqaa",
	"beqa":         "beqaa",
	"beqaa valley": "beqaa",
	// Syria As-Suwayda variants.
	"as suwayda": "as-suwayda",
	"suwayda":    "as-suwayda",
	// Saudi eastern province variants.
	"ash sharqiyah":          "al sharqia",
	"ash sharqiyah province": "al sharqia",
	"eastern province":       "al sharqia",
}

// areaBuckets maps (country, admin-1 area) onto the coarser regional buckets
// the filter UI presents. Unmapped areas pass through unchanged.
var areaBuckets = map[string]map[string]string{
	"syria": {
		"aleppo": "North", "idlib": "North", "latakia": "North", "tartus": "North", "hama": "North",
		"rif dimashq": "South", "quneitra": "South", "homs": "South", "daraa": "South",
		"as-suwayda": "South", "western al-samadania": "South",
	},
	"turkey": {
		"hatay": "South", "antalya": "South", "mersin": "South",
	},
	"lebanon": {
		"north": "North", "beirut": "North", "mount lebanon": "North",
		"beqaa": "South", "nabatieh": "South", "south": "South",
	},
	"jordan": {
		"irbid": "North", "ajloun": "North", "mafraq": "North",
		"amman": "Central", "zarqa": "Central", "balqa": "Central", "madaba": "Central",
		"ma'an": "South", "karak": "South", "tafilah": "South", "aqaba": "South",
	},
	"israel": {
		"tel aviv": "HaMerkaz", "hamerkaz": "HaMerkaz", "yerushalayim": "HaMerkaz",
		"haifa": "HaZafon", "hazafon": "HaZafon",
		"hadarom": "HaDarom",
	},
	"palestine": {
		"gaza":      "Palestine",
		"west bank": "West Bank",
	},
	"cyprus": {
		"nicosia": "Cyprus", "limassol": "Cyprus", "larnaca": "Cyprus", "paphos": "Cyprus",
		"famagusta": "Cyprus", "northern cyprus": "Cyprus", "akrotiri": "Cyprus", "dhekelia": "Cyprus",
		"akrotiri sovereign base area": "Cyprus", "dhekelia cantonment": "Cyprus",
	},
	"egypt": {
		"damietta": "North", "port said": "North", "ismailia": "North",
		"suez": "South", "red sea": "South",
		"north sinai": "Sinai", "south sinai": "Sinai",
	},
	"saudi arabia": {
		"tabuk": "Northwest", "al-jowf": "Northwest", "al jowf": "Northwest",
		"al madinah": "Northwest", "al sharqia": "Northwest",
	},
}

// NormalizeCountry maps Cyprus territory variants to "Cyprus" and folds other
// known country spellings onto their canonical names. Empty input stays empty.
func NormalizeCountry(country string) string {
	key := normKey(country)
	if key == "" {
		return country
	}
	if _, ok := cyprusAliases[key]; ok {
		return "Cyprus"
	}
	if canonical, ok := countryAliases[key]; ok {
		return canonical
	}
	return country
}

// AggregateArea maps an admin-1 area to its regional bucket for the given
// country. Areas with no mapping, and empty areas, pass through unchanged.
func AggregateArea(country, area string) string {
	if strings.TrimSpace(area) == "" {
		return area
	}

	c := normKey(NormalizeCountry(country))
	a := normKey(area)
	if canonical, ok := areaAliases[a]; ok {
		a = canonical
	}

	if bucket, ok := areaBuckets[c][a]; ok {
		return bucket
	}
	return area
}

// normKey lowercases and trims a geography name for map lookup.
func normKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
