package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/kdimtricp/cinematch/internal/catalog"
	"github.com/kdimtricp/cinematch/internal/config"
	"github.com/kdimtricp/cinematch/internal/models"
	"github.com/kdimtricp/cinematch/internal/recommend"
)

func f(v float64) *float64 { return &v }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	records := []models.MovieRecord{
		{ID: 1, Title: "Edge of Steel", Genres: "Action|Drama", Keywords: "war battle",
			Popularity: f(10), VoteAverage: f(7.0), OriginalLanguage: "en", ReleaseDate: "2015-03-01"},
		{ID: 2, Title: "Steel Rain", Genres: "Action", Keywords: "battle explosion",
			Popularity: f(50), VoteAverage: f(6.5), OriginalLanguage: "en", ReleaseDate: "1994-06-10"},
		{ID: 3, Title: "Paris Laughs", Genres: "Comedy", Keywords: "humor paris",
			Popularity: f(5), VoteAverage: f(8.1), OriginalLanguage: "fr", ReleaseDate: "2019-09-20"},
	}
	store, err := catalog.NewStore(records)
	if err != nil {
		t.Fatalf("Failed to build store: %v", err)
	}

	server := NewServer(recommend.NewService(store), zerolog.Nop())
	return NewRouter(server, config.CORSConfig{AllowedOrigins: []string{"*"}})
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeMovies(t *testing.T, rr *httptest.ResponseRecorder) []models.Movie {
	t.Helper()
	var out []models.Movie
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode movie list: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if !body["ok"] {
		t.Error("Expected ok=true")
	}
}

func TestGetMovie(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/movies/2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var m models.Movie
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("Failed to decode movie: %v", err)
	}
	if m.ID != 2 || m.Title != "Steel Rain" {
		t.Errorf("Unexpected movie: %+v", m)
	}
	if m.Year == nil || *m.Year != 1994 {
		t.Errorf("Expected year 1994, got %v", m.Year)
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/movies/404", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if body["detail"] != "Movie not found" {
		t.Errorf("Unexpected error detail: %q", body["detail"])
	}
}

func TestGetMovie_InvalidID(t *testing.T) {
	router := newTestRouter(t)

	if rr := do(t, router, http.MethodGet, "/api/movies/abc", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-integer id, got %d", rr.Code)
	}
}

func TestTrending(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/movies/trending?page=1&page_size=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	movies := decodeMovies(t, rr)
	if len(movies) != 2 || movies[0].ID != 2 || movies[1].ID != 1 {
		t.Errorf("Expected [Steel Rain, Edge of Steel] by popularity, got %+v", movies)
	}
}

func TestTrending_BoundsRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{
		"/api/movies/trending?page=0",
		"/api/movies/trending?page_size=101",
		"/api/movies/trending?page=abc",
	} {
		if rr := do(t, router, http.MethodGet, target, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", target, rr.Code)
		}
	}
}

func TestRecommend_ByID(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/recommend?movie_id=1&top_k=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	movies := decodeMovies(t, rr)
	if len(movies) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(movies))
	}
	for _, m := range movies {
		if m.ID == 1 {
			t.Error("Recommendations must not include the queried movie")
		}
	}
}

func TestRecommend_ByTitle(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/recommend?title=Steel+Rane", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if movies := decodeMovies(t, rr); len(movies) == 0 {
		t.Error("Expected recommendations for a close title match")
	}
}

func TestRecommend_ArgumentXOR(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{
		"/api/recommend",
		"/api/recommend?movie_id=1&title=Steel+Rain",
	} {
		rr := do(t, router, http.MethodGet, target, "")
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", target, rr.Code)
		}
	}
}

func TestRecommend_TopKBounds(t *testing.T) {
	router := newTestRouter(t)

	for _, target := range []string{
		"/api/recommend?movie_id=1&top_k=0",
		"/api/recommend?movie_id=1&top_k=51",
	} {
		if rr := do(t, router, http.MethodGet, target, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for %s, got %d", target, rr.Code)
		}
	}
}

func TestSearch(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/search?q=Paris+Laughs", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var res recommend.SearchResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}
	if res.Total != 3 || res.Page != 1 || res.Pages != 1 {
		t.Errorf("Unexpected search envelope: %+v", res)
	}
	if len(res.Results) == 0 || res.Results[0].ID != 3 {
		t.Errorf("Expected exact title first, got %+v", res.Results)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/api/search?q=", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var res recommend.SearchResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("Failed to decode search response: %v", err)
	}
	if len(res.Results) != 0 || res.Total != 0 || res.Pages != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}

func TestQuiz(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/recommend/by-quiz", `{"genres":["Action"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	movies := decodeMovies(t, rr)
	if len(movies) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(movies))
	}
	// both action movies above the comedy
	if movies[2].ID != 3 {
		t.Errorf("Expected the comedy ranked last, got %+v", movies)
	}
}

func TestQuiz_InvalidEnum(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/recommend/by-quiz", `{"mood":"gloomy"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown mood, got %d", rr.Code)
	}
}

func TestQuiz_UnknownLanguage(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodPost, "/api/recommend/by-quiz", `{"languages":["xx"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if movies := decodeMovies(t, rr); len(movies) != 0 {
		t.Errorf("Expected empty result for unmatched language, got %+v", movies)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/health", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header on responses")
	}
}
