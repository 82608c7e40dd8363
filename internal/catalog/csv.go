package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kdimtricp/cinematch/internal/models"
)

// ErrNoTitleColumn is returned when the dataset carries neither a title
// nor an original_title column. The service cannot start without one.
var ErrNoTitleColumn = errors.New("dataset must contain a title or original_title column")

// LoadCSV reads the movie catalog from a CSV file. The first row is the
// header; column names are matched case-insensitively. Text fields the
// feature encoder depends on default to empty strings, numeric fields to
// absent when missing or unparseable.
func LoadCSV(path string) ([]models.MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	_, hasTitle := cols["title"]
	_, hasOriginalTitle := cols["original_title"]
	if !hasTitle && !hasOriginalTitle {
		return nil, ErrNoTitleColumn
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}
		rows = append(rows, row)
	}

	ids := resolveIDs(cols, rows)

	records := make([]models.MovieRecord, len(rows))
	for i, row := range rows {
		records[i] = models.MovieRecord{
			ID:               ids[i],
			Title:            rowTitle(cols, row),
			Genres:           cell(cols, row, "genres"),
			Keywords:         cell(cols, row, "keywords"),
			Tagline:          cell(cols, row, "tagline"),
			Cast:             cell(cols, row, "cast"),
			Director:         cell(cols, row, "director"),
			Overview:         cell(cols, row, "overview"),
			ReleaseDate:      cell(cols, row, "release_date"),
			OriginalLanguage: cell(cols, row, "original_language"),
			Runtime:          numericCell(cols, row, "runtime"),
			VoteAverage:      numericCell(cols, row, "vote_average"),
			Popularity:       numericCell(cols, row, "popularity"),
		}
	}
	return records, nil
}

// resolveIDs adopts an id or index column as the stable movie id when
// every row holds a distinct integer; otherwise ids are the zero-based
// row positions.
func resolveIDs(cols map[string]int, rows [][]string) []int {
	for _, name := range []string{"id", "index"} {
		if _, ok := cols[name]; !ok {
			continue
		}
		ids := make([]int, len(rows))
		seen := make(map[int]bool, len(rows))
		usable := true
		for i, row := range rows {
			v, err := strconv.Atoi(strings.TrimSpace(cell(cols, row, name)))
			if err != nil || seen[v] {
				usable = false
				break
			}
			seen[v] = true
			ids[i] = v
		}
		if usable {
			return ids
		}
	}

	ids := make([]int, len(rows))
	for i := range rows {
		ids[i] = i
	}
	return ids
}

func rowTitle(cols map[string]int, row []string) string {
	if t := strings.TrimSpace(cell(cols, row, "title")); t != "" {
		return t
	}
	if t := strings.TrimSpace(cell(cols, row, "original_title")); t != "" {
		return t
	}
	return "Untitled"
}

func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func numericCell(cols map[string]int, row []string, name string) *float64 {
	raw := strings.TrimSpace(cell(cols, row, name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
