// Package catalog holds the immutable movie table the service is built
// around. A Store is constructed once at startup from a CSV file or a
// sqlite database and is read-only afterwards; concurrent readers need no
// synchronization.
package catalog

import (
	"fmt"
	"strings"

	"github.com/kdimtricp/cinematch/internal/models"
)

type Store struct {
	records []models.MovieRecord
	byID    map[int]int // id -> position in records
	byTitle map[string]int
}

// NewStore builds a Store from normalized records. Record order is
// preserved; it doubles as the row order of the feature and similarity
// matrices. Duplicate ids are a dataset defect and fail construction.
func NewStore(records []models.MovieRecord) (*Store, error) {
	s := &Store{
		records: records,
		byID:    make(map[int]int, len(records)),
		byTitle: make(map[string]int, len(records)),
	}
	for i := range records {
		r := &records[i]
		if _, dup := s.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate movie id %d", r.ID)
		}
		s.byID[r.ID] = i
		key := titleKey(r.Title)
		if _, taken := s.byTitle[key]; !taken {
			s.byTitle[key] = r.ID
		}
	}
	return s, nil
}

func (s *Store) Len() int {
	return len(s.records)
}

// All returns the records in catalog order. Callers must treat the slice
// as read-only.
func (s *Store) All() []models.MovieRecord {
	return s.records
}

func (s *Store) Get(id int) (*models.MovieRecord, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.records[i], true
}

// IndexOf reports the catalog position of a movie id, which is also its
// row in the similarity matrix.
func (s *Store) IndexOf(id int) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// At returns the record at a catalog position.
func (s *Store) At(i int) *models.MovieRecord {
	return &s.records[i]
}

// FindByTitleExact resolves a title to a movie id, case-insensitively and
// ignoring surrounding whitespace. The first record wins when titles
// collide.
func (s *Store) FindByTitleExact(title string) (int, bool) {
	id, ok := s.byTitle[titleKey(title)]
	return id, ok
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
