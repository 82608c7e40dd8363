package recommend

import (
	"strings"

	"github.com/kdimtricp/cinematch/internal/models"
	"github.com/kdimtricp/cinematch/internal/similarity"
)

// QuizParams carries one preference-quiz submission. Zero values mean the
// corresponding filter or boost is not applied.
type QuizParams struct {
	Genres    []string
	Mood      string
	Pace      string
	Era       string
	Languages []string
	MinRating *float64
}

// quiz soft-score weights for rating and popularity on top of the
// synthetic-query similarity.
const (
	voteWeight       = 0.02
	popularityWeight = 0.003
)

// moodKeywords maps each mood to the keywords boosted into the synthetic
// query.
var moodKeywords = map[string][]string{
	"uplifting":    {"heartwarming", "feel-good", "inspiring"},
	"dark":         {"dark", "gritty", "noir", "tragic"},
	"romantic":     {"romance", "love", "relationship"},
	"thrilling":    {"thriller", "suspense", "edge-of-seat"},
	"funny":        {"comedy", "humor", "hilarious"},
	"mind-bending": {"mystery", "twist", "mind-bending", "surreal"},
}

// eraQueryTokens feeds the synthetic query; distinct from the era filter
// buckets below.
var eraQueryTokens = map[string][]string{
	"classic":       {"classic", "iconic"},
	"nineties":      {"90s"},
	"two_thousands": {"2000s"},
	"tens":          {"2010s"},
	"recent":        {"recent", "modern"},
}

// RecommendByQuiz hard-filters the catalog by the quiz answers, then
// ranks what survives. With no text tokens to score on, the filtered set
// is ordered like trending; otherwise a synthetic query built from the
// answers is scored by similarity with small rating and popularity
// boosts.
func (s *Service) RecommendByQuiz(p QuizParams, topK int) []models.Movie {
	if topK < 1 {
		return []models.Movie{}
	}

	positions := s.filterCatalog(p)
	if len(positions) == 0 {
		return []models.Movie{}
	}

	tokens := quizTokens(p)
	if len(tokens) == 0 {
		key := s.sortKey(positions)
		items := make([]scored, len(positions))
		for i, pos := range positions {
			items[i] = scored{idx: pos, score: key(s.store.At(pos))}
		}
		rankDesc(items)
		if topK < len(items) {
			items = items[:topK]
		}
		return s.movies(items)
	}

	query := s.vectorizer.Transform(strings.Join(tokens, " "))
	items := make([]scored, len(positions))
	for i, pos := range positions {
		r := s.store.At(pos)
		score := similarity.Dot(query, s.vectors[pos]) +
			floatOrZero(r.VoteAverage)*voteWeight +
			floatOrZero(r.Popularity)*popularityWeight
		items[i] = scored{idx: pos, score: score}
	}
	rankDesc(items)
	if topK < len(items) {
		items = items[:topK]
	}
	return s.movies(items)
}

// filterCatalog applies the hard filters in order: language, rating
// floor, era, pace. Records missing the release date are excluded when an
// era is set, and records missing the runtime when a pace is set.
func (s *Service) filterCatalog(p QuizParams) []int {
	languages := make(map[string]bool, len(p.Languages))
	for _, l := range p.Languages {
		languages[strings.ToLower(l)] = true
	}

	var positions []int
	for i := 0; i < s.store.Len(); i++ {
		r := s.store.At(i)

		if len(languages) > 0 && !languages[strings.ToLower(r.OriginalLanguage)] {
			continue
		}
		if p.MinRating != nil && floatOrZero(r.VoteAverage) < *p.MinRating {
			continue
		}
		if !eraMatch(p.Era, r) {
			continue
		}
		if !paceMatch(p.Pace, r) {
			continue
		}
		positions = append(positions, i)
	}
	return positions
}

// eraMatch buckets the release year. Unrecognized era values apply no
// filter, matching the boundary's lenient enum handling.
func eraMatch(era string, r *models.MovieRecord) bool {
	year, ok := models.ParseYear(r.ReleaseDate)
	switch era {
	case "classic":
		return ok && year < 1990
	case "nineties":
		return ok && year >= 1990 && year < 2000
	case "two_thousands":
		return ok && year >= 2000 && year < 2010
	case "tens":
		return ok && year >= 2010 && year < 2018
	case "recent":
		return ok && year >= 2018
	default:
		return true
	}
}

// paceMatch buckets the runtime in minutes: slow >130, moderate 95-130
// inclusive, fast <95.
func paceMatch(pace string, r *models.MovieRecord) bool {
	if pace != "slow" && pace != "moderate" && pace != "fast" {
		return true
	}
	if r.Runtime == nil {
		return false
	}
	runtime := *r.Runtime
	switch pace {
	case "slow":
		return runtime > 130
	case "moderate":
		return runtime >= 95 && runtime <= 130
	default:
		return runtime < 95
	}
}

// quizTokens builds the synthetic query: each genre three times, each
// mood keyword twice, era tokens and language codes once.
func quizTokens(p QuizParams) []string {
	var tokens []string
	for _, g := range p.Genres {
		tokens = append(tokens, g, g, g)
	}
	for _, kw := range moodKeywords[p.Mood] {
		tokens = append(tokens, kw, kw)
	}
	tokens = append(tokens, eraQueryTokens[p.Era]...)
	tokens = append(tokens, p.Languages...)
	return tokens
}
