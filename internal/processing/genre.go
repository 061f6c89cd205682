package processing

import (
	"strings"
)

// CanonicalGenres is the closed genre vocabulary, in precedence order.
// The first matched genre in this order is a movie's main genre.
var CanonicalGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Drama",
	"Fantasy", "Horror", "Mystery", "Romance", "Sci-Fi", "Thriller",
}

var genreKeywords = map[string][]string{
	"Action":    {"action"},
	"Adventure": {"adventure"},
	"Animation": {"animation", "animated"},
	"Comedy":    {"comedy"},
	"Crime":     {"crime"},
	"Drama":     {"drama"},
	"Fantasy":   {"fantasy"},
	"Horror":    {"horror"},
	"Mystery":   {"mystery"},
	"Romance":   {"romance"},
	"Sci-Fi":    {"sci fi", "sci-fi", "science fiction"},
	"Thriller":  {"thriller"},
}

var genreSeparators = strings.NewReplacer("|", ",", "/", ",", ";", ",")

// ClassifyGenres maps free text such as "Adventure, Comedy, Family" to the
// canonical genres it mentions, in canonical order. No match yields nil.
func ClassifyGenres(raw string) []string {
	txt := genreSeparators.Replace(strings.ToLower(raw))

	matched := make(map[string]bool)
	for _, tok := range strings.Split(txt, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		for genre, keys := range genreKeywords {
			if matched[genre] {
				continue
			}
			for _, k := range keys {
				if strings.Contains(tok, k) {
					matched[genre] = true
					break
				}
			}
		}
	}

	if len(matched) == 0 {
		return nil
	}

	ordered := make([]string, 0, len(matched))
	for _, g := range CanonicalGenres {
		if matched[g] {
			ordered = append(ordered, g)
		}
	}
	return ordered
}

// GenreString joins classified genres the way they are stored ("Action, Comedy").
func GenreString(genres []string) string {
	return strings.Join(genres, ", ")
}

// MainGenre returns the first canonical genre mentioned by raw, or nil.
func MainGenre(raw string) *string {
	genres := ClassifyGenres(raw)
	if len(genres) == 0 {
		return nil
	}
	main := genres[0]
	return &main
}

// IsCanonicalGenre reports whether g is in the vocabulary (case-insensitive)
// and returns its canonical spelling.
func IsCanonicalGenre(g string) (string, bool) {
	for _, c := range CanonicalGenres {
		if strings.EqualFold(c, strings.TrimSpace(g)) {
			return c, true
		}
	}
	return "", false
}
