package genre

// Genre is an entry in the built-in vocabulary.
type Genre struct {
	Slug string
	Name string
}

// Vocabulary is the built-in set of genres offered when tagging a book.
// Books may also carry custom genres outside this list.
var Vocabulary = []Genre{
	{Slug: "action", Name: "Action"},
	{Slug: "adventure", Name: "Adventure"},
	{Slug: "biography", Name: "Biography"},
	{Slug: "science", Name: "Science"},
	{Slug: "classic", Name: "Classic"},
	{Slug: "comedy", Name: "Comedy"},
	{Slug: "tales", Name: "Tales"},
	{Slug: "chronicle", Name: "Chronicle"},
	{Slug: "drama", Name: "Drama"},
	{Slug: "education", Name: "Education"},
	{Slug: "fantasy", Name: "Fantasy"},
	{Slug: "fiction", Name: "Fiction"},
	{Slug: "philosophy", Name: "Philosophy"},
	{Slug: "gastronomy", Name: "Gastronomy"},
	{Slug: "war", Name: "War"},
	{Slug: "history", Name: "History"},
	{Slug: "horror", Name: "Horror"},
	{Slug: "children", Name: "Children"},
	{Slug: "manga", Name: "Manga"},
	{Slug: "mystery", Name: "Mystery"},
	{Slug: "narrative", Name: "Narrative"},
	{Slug: "novel", Name: "Novel"},
	{Slug: "poetry", Name: "Poetry"},
	{Slug: "detective", Name: "Detective"},
	{Slug: "psychology", Name: "Psychology"},
	{Slug: "romance", Name: "Romance"},
	{Slug: "scifi", Name: "Sci-Fi"},
	{Slug: "suspense", Name: "Suspense"},
	{Slug: "thriller", Name: "Thriller"},
	{Slug: "other", Name: "Other"},
}

var vocabularyBySlug = func() map[string]Genre {
	m := make(map[string]Genre, len(Vocabulary))
	for _, g := range Vocabulary {
		m[g.Slug] = g
	}
	return m
}()

// IsStandard reports whether slug belongs to the built-in vocabulary.
func IsStandard(slug string) bool {
	_, ok := vocabularyBySlug[slug]
	return ok
}

// Slugs returns the vocabulary slugs in display order.
func Slugs() []string {
	out := make([]string, len(Vocabulary))
	for i, g := range Vocabulary {
		out[i] = g.Slug
	}
	return out
}
