// Package linkservice manages the categorized link collection persisted as
// one JSON document.
//
// Every mutation is an atomic read-modify-write over the whole collection:
// load, mutate in memory, persist. A single mutex scopes each mutating call,
// so concurrent writers serialize and conflicting updates resolve
// last-write-wins.
package linkservice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/starford/wunjo/internal/apperr"
	"github.com/starford/wunjo/internal/models"
	"github.com/starford/wunjo/internal/storage"
)

const fileName = "links.json"

// urlPattern is the accepted link URL shape: http(s) scheme plus a dotted host.
var urlPattern = regexp.MustCompile(`^https?://.+\..+`)

// Service is the link collection store.
type Service struct {
	files storage.Provider

	mu     sync.Mutex
	lastID int64 // last assigned link id, unix milliseconds
}

// NewService creates the service and seeds a small demo collection when no
// links.json exists yet.
func NewService(files storage.Provider) *Service {
	s := &Service{files: files}
	if _, err := files.Read(fileName); err != nil {
		if saveErr := s.save(seedCollection()); saveErr != nil {
			slog.Warn("linkservice: seed failed", slog.String("error", saveErr.Error()))
		}
	}
	return s
}

// ListAll returns the full categorized collection. Read or parse failures
// yield an empty collection so the serving path stays alive.
func (s *Service) ListAll() models.Collection {
	return s.load()
}

// CreateCategory appends an empty category.
func (s *Service) CreateCategory(id, name string) (*models.Category, error) {
	if id == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", apperr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	if findCategory(&col, id) != nil {
		return nil, fmt.Errorf("%w: category id %q already exists", apperr.ErrConflict, id)
	}
	cat := models.Category{ID: id, Name: name, Links: []models.Link{}}
	col.Categories = append(col.Categories, cat)
	if err := s.save(col); err != nil {
		return nil, err
	}
	return &cat, nil
}

// RenameCategory changes a category's display name in place.
func (s *Service) RenameCategory(id, newName string) (*models.Category, error) {
	if newName == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	cat := findCategory(&col, id)
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", apperr.ErrNotFound, id)
	}
	for i := range col.Categories {
		if col.Categories[i].ID != id && col.Categories[i].Name == newName {
			return nil, fmt.Errorf("%w: category name %q already in use", apperr.ErrConflict, newName)
		}
	}
	cat.Name = newName
	if err := s.save(col); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes a category and cascades to all its links.
func (s *Service) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	for i := range col.Categories {
		if col.Categories[i].ID == id {
			col.Categories = append(col.Categories[:i], col.Categories[i+1:]...)
			return s.save(col)
		}
	}
	return fmt.Errorf("%w: category %q", apperr.ErrNotFound, id)
}

// CreateLink appends a new link with a fresh id to the given category.
func (s *Service) CreateLink(categoryID, title, url string) (*models.Link, error) {
	if categoryID == "" || title == "" || url == "" {
		return nil, fmt.Errorf("%w: categoryId, title and url are required", apperr.ErrInvalidInput)
	}
	if !urlPattern.MatchString(url) {
		return nil, fmt.Errorf("%w: url %q", apperr.ErrInvalidInput, url)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	cat := findCategory(&col, categoryID)
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", apperr.ErrNotFound, categoryID)
	}
	link := models.Link{ID: s.nextIDLocked(), Title: title, URL: url}
	cat.Links = append(cat.Links, link)
	if err := s.save(col); err != nil {
		return nil, err
	}
	return &link, nil
}

// UpdateLink mutates a link's title and url in place; identity and category
// are unchanged.
func (s *Service) UpdateLink(categoryID, linkID, title, url string) (*models.Link, error) {
	if title == "" || url == "" {
		return nil, fmt.Errorf("%w: title and url are required", apperr.ErrInvalidInput)
	}
	if !urlPattern.MatchString(url) {
		return nil, fmt.Errorf("%w: url %q", apperr.ErrInvalidInput, url)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	cat := findCategory(&col, categoryID)
	if cat == nil {
		return nil, fmt.Errorf("%w: category %q", apperr.ErrNotFound, categoryID)
	}
	for i := range cat.Links {
		if cat.Links[i].ID == linkID {
			cat.Links[i].Title = title
			cat.Links[i].URL = url
			if err := s.save(col); err != nil {
				return nil, err
			}
			link := cat.Links[i]
			return &link, nil
		}
	}
	return nil, fmt.Errorf("%w: link %q", apperr.ErrNotFound, linkID)
}

// MoveLink removes a link from its source category and re-inserts it, with
// updated title and url but the same id, at the end of the destination.
// The two steps happen under one lock and one save, but are not atomic
// against a crash between load and save.
func (s *Service) MoveLink(linkID, fromCategoryID, toCategoryID, title, url string) (*models.Link, error) {
	if linkID == "" || fromCategoryID == "" || toCategoryID == "" || title == "" || url == "" {
		return nil, fmt.Errorf("%w: missing required fields", apperr.ErrInvalidInput)
	}
	if !urlPattern.MatchString(url) {
		return nil, fmt.Errorf("%w: url %q", apperr.ErrInvalidInput, url)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	from := findCategory(&col, fromCategoryID)
	if from == nil {
		return nil, fmt.Errorf("%w: source category %q", apperr.ErrNotFound, fromCategoryID)
	}
	to := findCategory(&col, toCategoryID)
	if to == nil {
		return nil, fmt.Errorf("%w: destination category %q", apperr.ErrNotFound, toCategoryID)
	}

	idx := -1
	for i := range from.Links {
		if from.Links[i].ID == linkID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: link %q in category %q", apperr.ErrNotFound, linkID, fromCategoryID)
	}

	moved := models.Link{ID: linkID, Title: title, URL: url}
	from.Links = append(from.Links[:idx], from.Links[idx+1:]...)
	to.Links = append(to.Links, moved)
	if err := s.save(col); err != nil {
		return nil, err
	}
	return &moved, nil
}

// DeleteLink removes one link from its category.
func (s *Service) DeleteLink(categoryID, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.load()
	cat := findCategory(&col, categoryID)
	if cat == nil {
		return fmt.Errorf("%w: category %q", apperr.ErrNotFound, categoryID)
	}
	for i := range cat.Links {
		if cat.Links[i].ID == linkID {
			cat.Links = append(cat.Links[:i], cat.Links[i+1:]...)
			return s.save(col)
		}
	}
	return fmt.Errorf("%w: link %q", apperr.ErrNotFound, linkID)
}

// nextIDLocked assigns a timestamp-derived id that is strictly distinct from
// every id this process has handed out. Caller holds s.mu.
func (s *Service) nextIDLocked() string {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Service) load() models.Collection {
	data, err := s.files.Read(fileName)
	if err != nil {
		return models.Collection{Categories: []models.Category{}}
	}
	var col models.Collection
	if err := json.Unmarshal(data, &col); err != nil {
		slog.Error("linkservice: parse collection failed", slog.String("error", err.Error()))
		return models.Collection{Categories: []models.Category{}}
	}
	if col.Categories == nil {
		col.Categories = []models.Category{}
	}
	return col
}

func (s *Service) save(col models.Collection) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return fmt.Errorf("linkservice: encode collection: %w", err)
	}
	if err := s.files.Write(fileName, data); err != nil {
		return fmt.Errorf("linkservice: persist collection: %w", err)
	}
	return nil
}

func findCategory(col *models.Collection, id string) *models.Category {
	for i := range col.Categories {
		if col.Categories[i].ID == id {
			return &col.Categories[i]
		}
	}
	return nil
}

func seedCollection() models.Collection {
	return models.Collection{
		Categories: []models.Category{
			{
				ID:   "demo",
				Name: "Demo",
				Links: []models.Link{
					{ID: "1", Title: "Demo", URL: "https://example.com"},
					{ID: "2", Title: "Demo2", URL: "https://example2.com"},
				},
			},
			{
				ID:   "work",
				Name: "Work",
				Links: []models.Link{
					{ID: "3", Title: "OA", URL: "https://oa-example.com"},
				},
			},
		},
	}
}
