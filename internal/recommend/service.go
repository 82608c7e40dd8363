// Package recommend ranks the movie catalog for every query mode the API
// serves: direct lookup, trending, more-like-this by id or fuzzy title,
// free-text search, and quiz-driven recommendation.
package recommend

import (
	"errors"
	"sort"
	"strings"

	"github.com/kdimtricp/cinematch/internal/catalog"
	"github.com/kdimtricp/cinematch/internal/feature"
	"github.com/kdimtricp/cinematch/internal/models"
	"github.com/kdimtricp/cinematch/internal/similarity"
)

// ErrUnknownMovie is returned by Get for ids not in the catalog.
var ErrUnknownMovie = errors.New("movie not found")

// titleBoost is added to a search score when the query appears in the
// movie title.
const titleBoost = 0.15

// Service is the recommendation engine. It is constructed once at
// startup; all fields are read-only afterwards, so a single instance is
// shared across request handlers without locking.
type Service struct {
	store      *catalog.Store
	vectorizer *feature.Vectorizer
	vectors    []feature.Vector
	matrix     *similarity.Matrix
}

// NewService runs the startup pipeline over an immutable catalog: fit the
// vocabulary, vectorize every movie, precompute the pairwise similarity
// matrix. The matrix is the dominant cost and is what makes per-movie
// recommendation a row lookup at query time.
func NewService(store *catalog.Store) *Service {
	records := store.All()
	corpus := make([]string, len(records))
	for i := range records {
		corpus[i] = records[i].CombinedText()
	}

	vectorizer := feature.NewVectorizer(corpus)
	vectors := vectorizer.TransformAll(corpus)

	return &Service{
		store:      store,
		vectorizer: vectorizer,
		vectors:    vectors,
		matrix:     similarity.Full(vectors),
	}
}

// CatalogSize reports how many movies the engine serves.
func (s *Service) CatalogSize() int {
	return s.store.Len()
}

// VocabSize reports the fitted vocabulary size.
func (s *Service) VocabSize() int {
	return s.vectorizer.VocabSize()
}

// Get returns the external shape of one movie or ErrUnknownMovie.
func (s *Service) Get(id int) (models.Movie, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return models.Movie{}, ErrUnknownMovie
	}
	return models.FromRecord(rec), nil
}

// scored pairs a catalog position with a ranking score. Candidate slices
// are per-request scratch; nothing here touches shared state.
type scored struct {
	idx   int
	score float64
}

// rankDesc orders candidates by score descending; the stable sort keeps
// catalog order between ties.
func rankDesc(items []scored) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
}

// Trending sorts the catalog by popularity, falling back to vote average
// when no record carries a popularity value, and to plain catalog order
// when neither is present anywhere. Pagination is 1-indexed; pages past
// the end yield an empty slice.
func (s *Service) Trending(page, pageSize int) []models.Movie {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	} else if pageSize > 100 {
		pageSize = 100
	}

	key := s.sortKey(allPositions(s.store.Len()))
	items := make([]scored, s.store.Len())
	for i := range items {
		items[i] = scored{idx: i, score: key(s.store.At(i))}
	}
	rankDesc(items)

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []models.Movie{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return s.movies(items[start:end])
}

// RecommendByID ranks every other movie by the precomputed similarity row
// for id. An unknown id yields an empty list, not an error.
func (s *Service) RecommendByID(id, topK int) []models.Movie {
	pos, ok := s.store.IndexOf(id)
	if !ok || topK < 1 {
		return []models.Movie{}
	}

	row := s.matrix.Row(pos)
	items := make([]scored, 0, len(row)-1)
	for i, sim := range row {
		if i == pos {
			continue
		}
		items = append(items, scored{idx: i, score: sim})
	}
	rankDesc(items)

	if topK < len(items) {
		items = items[:topK]
	}
	return s.movies(items)
}

// RecommendByTitle fuzzy-matches the query against catalog titles and
// delegates to RecommendByID for the best match. No match above the
// acceptance cutoff yields an empty list.
func (s *Service) RecommendByTitle(query string, topK int) []models.Movie {
	id, ok := s.closestTitle(query)
	if !ok {
		return []models.Movie{}
	}
	return s.RecommendByID(id, topK)
}

// SearchResult is one page of ranked search results.
type SearchResult struct {
	Results []models.Movie `json:"results"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Pages   int            `json:"pages"`
}

// Search scores the whole catalog against a free-text query: TF-IDF
// cosine similarity plus a fixed boost for titles containing the query.
// The requested page is clamped into the valid range; an empty query
// yields zero results and zero pages.
func (s *Service) Search(q string, page, pageSize int) SearchResult {
	q = strings.TrimSpace(q)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if q == "" {
		return SearchResult{Results: []models.Movie{}, Total: 0, Page: page, Pages: 0}
	}

	sims := similarity.Against(s.vectorizer.Transform(q), s.vectors)
	qLower := strings.ToLower(q)

	items := make([]scored, len(sims))
	for i, sim := range sims {
		score := sim
		if strings.Contains(strings.ToLower(s.store.At(i).Title), qLower) {
			score += titleBoost
		}
		items[i] = scored{idx: i, score: score}
	}
	rankDesc(items)

	total := len(items)
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	return SearchResult{
		Results: s.movies(items[start:end]),
		Total:   total,
		Page:    page,
		Pages:   pages,
	}
}

// sortKey picks the trending sort key the way the dataset dictates:
// popularity when any of the given positions has one, else vote average
// when any has one, else a constant. Missing values read as 0 without
// being written back to the record.
func (s *Service) sortKey(positions []int) func(*models.MovieRecord) float64 {
	anyPopularity, anyVote := false, false
	for _, i := range positions {
		r := s.store.At(i)
		anyPopularity = anyPopularity || r.Popularity != nil
		anyVote = anyVote || r.VoteAverage != nil
	}
	switch {
	case anyPopularity:
		return func(r *models.MovieRecord) float64 { return floatOrZero(r.Popularity) }
	case anyVote:
		return func(r *models.MovieRecord) float64 { return floatOrZero(r.VoteAverage) }
	default:
		return func(*models.MovieRecord) float64 { return 0 }
	}
}

func (s *Service) movies(items []scored) []models.Movie {
	out := make([]models.Movie, len(items))
	for i, it := range items {
		out[i] = models.FromRecord(s.store.At(it.idx))
	}
	return out
}

func allPositions(n int) []int {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return positions
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
