// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package store persists the user state of the weatherflow service: favorited
// locations and recent search terms. All operations are synchronous and degrade
// to empty results or no-ops when the persistence backend is unavailable.
package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/weather"
)

const (
	savedLocationsKey = "weather-saved-locations"
	recentSearchesKey = "weather-recent-searches"

	// MaxRecentSearches is the maximum number of recent search terms that are retained.
	MaxRecentSearches = 10
)

// Backend is the key-value persistence capability the Store operates on. Every
// mutation reads the full record list and rewrites it in full.
type Backend interface {
	Load(key string, target any) (bool, error)
	Store(key string, value any) error
}

// SavedLocation is a single favorited location. Uniqueness is enforced on the
// (name, country) pair, not on the id or the coordinates.
type SavedLocation struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	AddedAt time.Time `json:"added_at"`
}

// Store provides CRUD access to saved locations and recent searches.
type Store struct {
	backend Backend
	logger  *logger.Logger
}

// New returns a new Store operating on the given backend.
func New(backend Backend, log *logger.Logger) *Store {
	return &Store{backend: backend, logger: log}
}

// List returns all saved locations in insertion order. A backend failure
// degrades to an empty list.
func (s *Store) List() []SavedLocation {
	var locations []SavedLocation
	if _, err := s.backend.Load(savedLocationsKey, &locations); err != nil {
		s.logger.Warn("failed to load saved locations", logger.Err(err))
		return nil
	}
	return locations
}

// Add appends a new saved location with a fresh unique id and creation
// timestamp. If a location with the same name and country already exists the
// call is a no-op.
func (s *Store) Add(name, country string, coords weather.Coordinate) {
	locations := s.List()
	for _, location := range locations {
		if location.Name == name && location.Country == country {
			return
		}
	}

	locations = append(locations, SavedLocation{
		ID:      uuid.NewString(),
		Name:    name,
		Country: country,
		Lat:     coords.Lat,
		Lon:     coords.Lon,
		AddedAt: time.Now(),
	})
	if err := s.backend.Store(savedLocationsKey, locations); err != nil {
		s.logger.Warn("failed to store saved locations", logger.Err(err))
	}
}

// Remove deletes the saved location with the given id. Unknown ids are a no-op.
func (s *Store) Remove(id string) {
	locations := s.List()
	filtered := locations[:0]
	for _, location := range locations {
		if location.ID != id {
			filtered = append(filtered, location)
		}
	}
	if len(filtered) == len(locations) {
		return
	}
	if err := s.backend.Store(savedLocationsKey, filtered); err != nil {
		s.logger.Warn("failed to store saved locations", logger.Err(err))
	}
}

// FindByName returns the first saved location whose name matches the given
// place name case-insensitively.
func (s *Store) FindByName(name string) (SavedLocation, bool) {
	for _, location := range s.List() {
		if strings.EqualFold(location.Name, name) {
			return location, true
		}
	}
	return SavedLocation{}, false
}

// ListRecent returns up to MaxRecentSearches recent search terms, most recent
// first. A backend failure degrades to an empty list.
func (s *Store) ListRecent() []string {
	var searches []string
	if _, err := s.backend.Load(recentSearchesKey, &searches); err != nil {
		s.logger.Warn("failed to load recent searches", logger.Err(err))
		return nil
	}
	if len(searches) > MaxRecentSearches {
		searches = searches[:MaxRecentSearches]
	}
	return searches
}

// AddRecent prepends the given search term to the recent searches. Any existing
// case-insensitive duplicate is removed first, the list is truncated to
// MaxRecentSearches entries.
func (s *Store) AddRecent(term string) {
	searches := s.ListRecent()
	filtered := make([]string, 0, len(searches)+1)
	filtered = append(filtered, term)
	for _, search := range searches {
		if !strings.EqualFold(search, term) {
			filtered = append(filtered, search)
		}
	}
	if len(filtered) > MaxRecentSearches {
		filtered = filtered[:MaxRecentSearches]
	}
	if err := s.backend.Store(recentSearchesKey, filtered); err != nil {
		s.logger.Warn("failed to store recent searches", logger.Err(err))
	}
}

// ClearRecent empties the recent searches.
func (s *Store) ClearRecent() {
	if err := s.backend.Store(recentSearchesKey, []string{}); err != nil {
		s.logger.Warn("failed to clear recent searches", logger.Err(err))
	}
}
