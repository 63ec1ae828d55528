// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service implements the weatherflow session orchestrator. It
// coordinates the weather provider, the location store and the geolocation
// source per user action and maintains the application snapshot.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/weatherflow/internal/config"
	"github.com/wneessen/weatherflow/internal/geoloc"
	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/store"
	"github.com/wneessen/weatherflow/internal/weather"
)

// Service orchestrates the weather provider, the location store and the
// geolocation source into one consistent application snapshot.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	provider  weather.Provider
	store     *store.Store
	locator   geoloc.Locator
	scheduler gocron.Scheduler
	output    io.Writer

	airFetches sync.WaitGroup

	mu         sync.RWMutex
	generation uint64
	active     query
	snapshot   Snapshot
}

// query identifies the request a fetch belongs to. Exactly one representation
// is active: a free-text place or a coordinate pair.
type query struct {
	place    string
	coords   weather.Coordinate
	byCoords bool
}

// New returns a new Service.
func New(conf *config.Config, log *logger.Logger, provider weather.Provider, locations *store.Store,
	locator geoloc.Locator,
) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if locations == nil {
		return nil, fmt.Errorf("location store is required")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		provider:  provider,
		store:     locations,
		locator:   locator,
		scheduler: scheduler,
		output:    os.Stdout,
		snapshot:  Snapshot{State: StateIdle},
	}
	return service, nil
}

// Run starts the scheduled refresh and output jobs, issues the bootstrap search
// for the configured default place and blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.Refresh, s.refreshJob,
		"weatherdata_refresh_job"); err != nil {
		return err
	}
	if err := s.createScheduledJob(ctx, s.config.Intervals.Output, s.printSnapshot,
		"snapshot_output_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	// Bootstrap convenience: search the default place if no place is active yet
	if s.Snapshot().State == StateIdle {
		s.Search(ctx, s.config.Weather.DefaultPlace)
		s.printSnapshot(ctx)
	}

	<-ctx.Done()
	s.airFetches.Wait()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// refreshJob re-issues the active query to keep the snapshot current.
func (s *Service) refreshJob(ctx context.Context) {
	s.Refresh(ctx)
	s.printSnapshot(ctx)
}

// printSnapshot writes the current snapshot as a JSON document to the output writer.
func (s *Service) printSnapshot(context.Context) {
	snapshot := s.Snapshot()
	if snapshot.State == StateIdle {
		return
	}
	if err := json.NewEncoder(s.output).Encode(snapshot); err != nil {
		s.logger.Error("failed to encode snapshot", logger.Err(err))
	}
}

// SavedLocations returns all favorited locations in insertion order.
func (s *Service) SavedLocations() []store.SavedLocation {
	return s.store.List()
}

// RecentSearches returns the recent search terms, most recent first.
func (s *Service) RecentSearches() []string {
	return s.store.ListRecent()
}

// ClearRecentSearches empties the recent search terms.
func (s *Service) ClearRecentSearches() {
	s.store.ClearRecent()
}

// Suggestions resolves a partial search query to up to 5 place candidates for
// autocompletion. Queries shorter than 2 characters yield no candidates.
func (s *Service) Suggestions(ctx context.Context, partial string) []weather.Place {
	places, err := s.provider.SearchPlaces(ctx, partial)
	if err != nil {
		s.logger.Warn("failed to search place candidates", logger.Err(err))
		return nil
	}
	return places
}
