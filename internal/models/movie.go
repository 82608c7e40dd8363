package models

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MovieRecord is one row of the catalog. The full set is built once at
// startup and never mutated afterwards, so records are safe to share
// between request handlers without locking.
type MovieRecord struct {
	ID               int
	Title            string
	Genres           string // pipe-separated, as in the source dataset
	Keywords         string
	Tagline          string
	Cast             string
	Director         string
	Overview         string
	ReleaseDate      string
	OriginalLanguage string
	Runtime          *float64
	VoteAverage      *float64
	Popularity       *float64
}

// CombinedText concatenates the metadata fields that feed the feature
// encoder. Field order is fixed; missing fields are empty strings.
func (r *MovieRecord) CombinedText() string {
	return r.Genres + " " + r.Keywords + " " + r.Tagline + " " + r.Cast + " " + r.Director
}

// Movie is the external representation served over the API.
type Movie struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Year      *int     `json:"year"`
	Genres    []string `json:"genres"`
	Overview  *string  `json:"overview"`
	PosterURL string   `json:"posterUrl"`
	Rating    *float64 `json:"rating"`
}

// FromRecord maps a catalog row to its external shape. The poster URL is a
// deterministic placeholder embedding the title; the dataset carries no
// poster column.
func FromRecord(r *MovieRecord) Movie {
	m := Movie{
		ID:        r.ID,
		Title:     r.Title,
		Genres:    SplitGenres(r.Genres),
		PosterURL: "https://placehold.co/400x600?text=" + url.QueryEscape(r.Title),
		Rating:    r.VoteAverage,
	}
	if y, ok := ParseYear(r.ReleaseDate); ok {
		m.Year = &y
	}
	if r.Overview != "" {
		overview := r.Overview
		m.Overview = &overview
	}
	return m
}

// SplitGenres splits a pipe-separated genre string, trimming entries and
// dropping empty ones.
func SplitGenres(raw string) []string {
	genres := []string{}
	for _, g := range strings.Split(raw, "|") {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// ParseYear extracts a release year from a date string. It accepts full
// dates and year-only values; failing those, any string whose first four
// characters are digits is read as a year. Anything else reports no year.
func ParseYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), true
		}
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y, true
		}
	}
	return 0, false
}
