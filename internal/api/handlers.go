package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/kdimtricp/cinematch/internal/recommend"
)

// quizTopK is the fixed result count for quiz recommendations.
const quizTopK = 30

type Server struct {
	engine   *recommend.Service
	logger   zerolog.Logger
	validate *validator.Validate
}

func NewServer(engine *recommend.Service, logger zerolog.Logger) *Server {
	return &Server{
		engine:   engine,
		logger:   logger,
		validate: validator.New(),
	}
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) MovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	movie, err := s.engine.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Movie not found")
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) TrendingHandler(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		s.respondError(w, http.StatusBadRequest, "page must be an integer >= 1")
		return
	}
	pageSize, err := queryInt(r, "page_size", 20)
	if err != nil || pageSize < 1 || pageSize > 100 {
		s.respondError(w, http.StatusBadRequest, "page_size must be between 1 and 100")
		return
	}

	s.respondJSON(w, http.StatusOK, s.engine.Trending(page, pageSize))
}

func (s *Server) RecommendHandler(w http.ResponseWriter, r *http.Request) {
	movieID := r.URL.Query().Get("movie_id")
	title := r.URL.Query().Get("title")
	if (movieID == "") == (title == "") {
		s.respondError(w, http.StatusBadRequest, "Provide either movie_id or title")
		return
	}

	topK, err := queryInt(r, "top_k", 10)
	if err != nil || topK < 1 || topK > 50 {
		s.respondError(w, http.StatusBadRequest, "top_k must be between 1 and 50")
		return
	}

	if movieID != "" {
		id, err := strconv.Atoi(movieID)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "Invalid movie_id")
			return
		}
		s.respondJSON(w, http.StatusOK, s.engine.RecommendByID(id, topK))
		return
	}
	s.respondJSON(w, http.StatusOK, s.engine.RecommendByTitle(title, topK))
}

func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		s.respondError(w, http.StatusBadRequest, "page must be an integer >= 1")
		return
	}
	pageSize, err := queryInt(r, "page_size", 20)
	if err != nil || pageSize < 1 || pageSize > 60 {
		s.respondError(w, http.StatusBadRequest, "page_size must be between 1 and 60")
		return
	}

	q := r.URL.Query().Get("q")
	s.respondJSON(w, http.StatusOK, s.engine.Search(q, page, pageSize))
}

type quizRequest struct {
	Genres    []string `json:"genres"`
	Mood      string   `json:"mood" validate:"omitempty,oneof=uplifting dark romantic thrilling funny mind-bending"`
	Pace      string   `json:"pace" validate:"omitempty,oneof=slow moderate fast"`
	Era       string   `json:"era" validate:"omitempty,oneof=classic nineties two_thousands tens recent"`
	Languages []string `json:"languages"`
	MinRating *float64 `json:"min_rating" validate:"omitempty,gte=0,lte=10"`
}

func (s *Server) QuizHandler(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid quiz parameters")
		return
	}

	params := recommend.QuizParams{
		Genres:    req.Genres,
		Mood:      req.Mood,
		Pace:      req.Pace,
		Era:       req.Era,
		Languages: req.Languages,
		MinRating: req.MinRating,
	}
	s.respondJSON(w, http.StatusOK, s.engine.RecommendByQuiz(params, quizTopK))
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, detail string) {
	s.respondJSON(w, status, map[string]string{"detail": detail})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
