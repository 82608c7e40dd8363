package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kdimtricp/cinematch/internal/models"
)

// LoadSQLite reads the movie catalog from a sqlite database. The movies
// table mirrors the CSV columns; NULLs follow the same defaulting rules.
// Rows are read in rowid order so positional ids stay stable across runs.
func LoadSQLite(path string) ([]models.MovieRecord, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging catalog database: %w", err)
	}

	query := `
	SELECT id, title, original_title, genres, keywords, tagline, "cast",
	       director, overview, release_date, original_language,
	       runtime, vote_average, popularity
	FROM movies
	ORDER BY rowid`

	rows, err := conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying movies: %w", err)
	}
	defer rows.Close()

	var records []models.MovieRecord
	var rawIDs []sql.NullInt64

	for rows.Next() {
		var (
			id                            sql.NullInt64
			title, originalTitle          sql.NullString
			genres, keywords, tagline     sql.NullString
			cast, director, overview      sql.NullString
			releaseDate, language         sql.NullString
			runtime, voteAverage, popular sql.NullFloat64
		)
		if err := rows.Scan(&id, &title, &originalTitle, &genres, &keywords, &tagline,
			&cast, &director, &overview, &releaseDate, &language,
			&runtime, &voteAverage, &popular); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}

		rec := models.MovieRecord{
			Title:            sqliteTitle(title, originalTitle),
			Genres:           genres.String,
			Keywords:         keywords.String,
			Tagline:          tagline.String,
			Cast:             cast.String,
			Director:         director.String,
			Overview:         overview.String,
			ReleaseDate:      releaseDate.String,
			OriginalLanguage: language.String,
			Runtime:          nullableFloat(runtime),
			VoteAverage:      nullableFloat(voteAverage),
			Popularity:       nullableFloat(popular),
		}
		records = append(records, rec)
		rawIDs = append(rawIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	assignIDs(records, rawIDs)
	return records, nil
}

// assignIDs adopts the id column when every row holds a distinct value,
// mirroring the CSV loader; otherwise ids are zero-based row positions.
func assignIDs(records []models.MovieRecord, rawIDs []sql.NullInt64) {
	seen := make(map[int]bool, len(rawIDs))
	usable := true
	for _, id := range rawIDs {
		if !id.Valid || seen[int(id.Int64)] {
			usable = false
			break
		}
		seen[int(id.Int64)] = true
	}
	for i := range records {
		if usable {
			records[i].ID = int(rawIDs[i].Int64)
		} else {
			records[i].ID = i
		}
	}
}

func sqliteTitle(title, originalTitle sql.NullString) string {
	if title.Valid && title.String != "" {
		return title.String
	}
	if originalTitle.Valid && originalTitle.String != "" {
		return originalTitle.String
	}
	return "Untitled"
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
