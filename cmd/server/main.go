package main

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/kdimtricp/cinematch/internal/api"
	"github.com/kdimtricp/cinematch/internal/catalog"
	"github.com/kdimtricp/cinematch/internal/config"
	"github.com/kdimtricp/cinematch/internal/models"
	"github.com/kdimtricp/cinematch/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Log)

	var records []models.MovieRecord
	switch cfg.Catalog.Source {
	case "sqlite":
		records, err = catalog.LoadSQLite(cfg.Catalog.SQLitePath)
	default:
		records, err = catalog.LoadCSV(cfg.Catalog.CSVPath)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("source", cfg.Catalog.Source).Msg("failed to load catalog")
	}

	store, err := catalog.NewStore(records)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build catalog store")
	}

	start := time.Now()
	engine := recommend.NewService(store)
	logger.Info().
		Int("movies", engine.CatalogSize()).
		Int("vocabulary", engine.VocabSize()).
		Dur("took", time.Since(start)).
		Msg("recommendation engine ready")

	server := api.NewServer(engine, logger)
	router := api.NewRouter(server, cfg.CORS)

	logger.Info().Str("addr", cfg.Addr).Str("catalog", cfg.Catalog.Source).Msg("server starting")
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
