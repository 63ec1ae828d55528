// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/wneessen/weatherflow/internal/airquality"
	"github.com/wneessen/weatherflow/internal/geoloc"
	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/weather"
)

// Snapshot returns a copy of the current application snapshot.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Search fetches weather data for a free-text place name and commits the
// result to the snapshot. The search term is recorded in the recent searches
// regardless of the outcome.
func (s *Service) Search(ctx context.Context, place string) {
	place = strings.TrimSpace(place)
	if place == "" {
		return
	}
	s.store.AddRecent(place)
	s.run(ctx, query{place: place})
}

// SearchByCoords fetches weather data for a coordinate pair and commits the
// result to the snapshot.
func (s *Service) SearchByCoords(ctx context.Context, coords weather.Coordinate) {
	s.run(ctx, query{coords: coords, byCoords: true})
}

// Locate resolves the device position through the configured locator and
// searches by the resolved coordinates. A denied or failed location lookup
// surfaces its own error message without issuing any provider request.
func (s *Service) Locate(ctx context.Context) {
	generation := s.begin(query{byCoords: true})
	coords, err := s.locator.Locate(ctx)
	if err != nil {
		s.logger.Warn("failed to resolve device position", logger.Err(err))
		s.commitFailure(generation, MsgLocationDenied)
		return
	}

	s.mu.Lock()
	s.active = query{coords: coords, byCoords: true}
	s.mu.Unlock()
	s.fetch(ctx, generation, query{coords: coords, byCoords: true})
}

// Refresh re-issues the active query. It only acts on a Ready session: a
// failed search is never retried automatically, retry is a new user action.
func (s *Service) Refresh(ctx context.Context) {
	s.mu.RLock()
	active := s.active
	state := s.snapshot.State
	s.mu.RUnlock()
	if state != StateReady {
		return
	}
	s.run(ctx, active)
}

// ToggleFavorite flips the favorite status of the active place in the location
// store and mirrors the new status into the snapshot. It is a no-op while no
// place is active and never triggers a network call.
func (s *Service) ToggleFavorite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot.Current == nil {
		return false
	}

	current := s.snapshot.Current
	if location, ok := s.store.FindByName(current.PlaceName); ok {
		s.store.Remove(location.ID)
		s.snapshot.Favorite = false
	} else {
		s.store.Add(current.PlaceName, current.Country, current.Coordinates)
		s.snapshot.Favorite = true
	}
	return s.snapshot.Favorite
}

// run executes one full search action: begin, fetch the required pair, commit
// and dispatch the best-effort air quality fetch.
func (s *Service) run(ctx context.Context, request query) {
	generation := s.begin(request)
	s.fetch(ctx, generation, request)
}

// begin transitions the session to Loading and returns the generation token
// every fetch of this action is tagged with. Results of superseded generations
// are discarded on arrival.
func (s *Service) begin(request query) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.active = request
	s.snapshot.State = StateLoading
	s.snapshot.Loading = true
	s.snapshot.Error = ""
	return s.generation
}

// fetch issues the two required fetches concurrently, commits the settled
// result and dispatches the air quality fetch when both succeeded.
func (s *Service) fetch(ctx context.Context, generation uint64, request query) {
	var wg sync.WaitGroup
	var conditions *weather.CurrentConditions
	var forecast *weather.Forecast
	var conditionsErr, forecastErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		if request.byCoords {
			conditions, conditionsErr = s.provider.CurrentByCoords(ctx, request.coords)
			return
		}
		conditions, conditionsErr = s.provider.CurrentByName(ctx, request.place)
	}()
	go func() {
		defer wg.Done()
		if request.byCoords {
			forecast, forecastErr = s.provider.ForecastByCoords(ctx, request.coords)
			return
		}
		forecast, forecastErr = s.provider.ForecastByName(ctx, request.place)
	}()
	wg.Wait()

	if err := errors.Join(conditionsErr, forecastErr); err != nil {
		s.logger.Error("failed to fetch weather data", logger.Err(err))
		s.commitFailure(generation, failureMessage(err, request.byCoords))
		return
	}

	if !s.commitSuccess(generation, conditions, forecast) {
		return
	}

	// Air quality is best-effort: it is fetched only after the required pair
	// succeeded and its failure never surfaces to the user.
	s.airFetches.Add(1)
	go func() {
		defer s.airFetches.Done()
		s.fetchAirQuality(ctx, generation, conditions.Coordinates)
	}()
}

func (s *Service) fetchAirQuality(ctx context.Context, generation uint64, coords weather.Coordinate) {
	sample, err := s.provider.AirQuality(ctx, coords)
	if err != nil {
		s.logger.Warn("air quality data not available", logger.Err(err))
		return
	}
	s.mergeAirQuality(generation, airquality.Classify(sample))
}

// commitSuccess replaces the snapshot with the fetched conditions and the
// derived forecast views. Results of superseded generations are discarded.
func (s *Service) commitSuccess(generation uint64, conditions *weather.CurrentConditions,
	forecast *weather.Forecast,
) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}

	_, favorite := s.store.FindByName(conditions.PlaceName)
	s.snapshot = Snapshot{
		State:     StateReady,
		Place:     conditions.Label(),
		Favorite:  favorite,
		IsDaytime: isDaytime(conditions.Coordinates, time.Now()),
		UpdatedAt: time.Now(),
		Current:   conditions,
		Hourly:    forecast.HourlyOutlook(),
		Daily:     forecast.DailyOutlook(),
	}
	return true
}

// commitFailure clears all weather state from the snapshot and records the
// user-facing error message. Results of superseded generations are discarded.
func (s *Service) commitFailure(generation uint64, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return
	}
	s.snapshot = Snapshot{
		State:     StateFailed,
		Error:     message,
		UpdatedAt: time.Now(),
	}
}

// mergeAirQuality attaches the classification to the snapshot, unless a newer
// action has superseded the fetch in the meantime.
func (s *Service) mergeAirQuality(generation uint64, classification *airquality.Classification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation || s.snapshot.State != StateReady {
		return
	}
	s.snapshot.AirQuality = classification
}

func failureMessage(err error, byCoords bool) string {
	switch {
	case errors.Is(err, geoloc.ErrLocationDenied):
		return MsgLocationDenied
	case errors.Is(err, weather.ErrPlaceNotFound):
		return MsgPlaceNotFound
	case byCoords:
		return MsgCoordsFailed
	default:
		return MsgFetchFailed
	}
}

func isDaytime(coords weather.Coordinate, now time.Time) bool {
	rise, set := sunrise.SunriseSunset(coords.Lat, coords.Lon, now.Year(), now.Month(), now.Day())
	return now.After(rise) && now.Before(set)
}
