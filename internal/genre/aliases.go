package genre

// CanonicalAliases maps common variations to vocabulary slugs.
var CanonicalAliases = map[string]string{
	// Science Fiction variations
	"sci-fi":          "scifi",
	"science-fiction": "scifi",
	"sf":              "scifi",

	// Mystery / crime
	"crime":     "detective",
	"whodunit":  "mystery",
	"noir":      "detective",
	"detective": "detective",

	// Children's
	"kids":       "children",
	"childrens":  "children",
	"children-s": "children",

	// Humor
	"humor":  "comedy",
	"humour": "comedy",

	// Biography / memoir
	"memoir":        "biography",
	"autobiography": "biography",

	// Misc
	"cooking":     "gastronomy",
	"food":        "gastronomy",
	"military":    "war",
	"fairy-tales": "tales",
	"graphic":     "manga",
	"comics":      "manga",
	"poems":       "poetry",
	"self-help":   "psychology",
}

// Normalize takes a raw genre string and returns its canonical slug.
// Unknown genres keep their slugified form so custom entries survive.
func Normalize(raw string) string {
	slug := Slugify(raw)
	if canonical, ok := CanonicalAliases[slug]; ok {
		return canonical
	}
	return slug
}
