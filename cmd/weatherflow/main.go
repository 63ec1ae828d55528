// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the weatherflow service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/weatherflow/internal/config"
	"github.com/wneessen/weatherflow/internal/geoloc"
	"github.com/wneessen/weatherflow/internal/http"
	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/service"
	"github.com/wneessen/weatherflow/internal/store"
	"github.com/wneessen/weatherflow/internal/weather/provider/openweather"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGKILL,
		syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize logger
	log := logger.New(slog.LevelError)

	// Read config, either from the given file or from the environment
	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()
	var conf *config.Config
	var err error
	if *confPath != "" {
		conf, err = config.NewFromFile(filepath.Dir(*confPath), filepath.Base(*confPath))
	} else {
		conf, err = config.New()
	}
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	// Initialize the weather provider
	provider, err := openweather.New(http.New(log), log, conf.Provider.APIKey, conf.Units)
	if err != nil {
		log.Error("failed to create weather provider", logger.Err(err))
		os.Exit(1)
	}

	// Initialize the location store
	backend, err := store.NewFileBackend(conf.Store.Path)
	if err != nil {
		log.Error("failed to create location store", logger.Err(err))
		os.Exit(1)
	}
	locations := store.New(backend, log)

	// Initialize the service
	locator := geoloc.NewFileLocator(conf.GeoLocation.File)
	weatherflow, err := service.New(conf, log, provider, locations, locator)
	if err != nil {
		log.Error("failed to initialize weatherflow service", logger.Err(err))
		os.Exit(1)
	}

	// Start the service loop
	log.Info("starting weatherflow service")
	if err = weatherflow.Run(ctx); err != nil {
		log.Error("failed to start weatherflow service", logger.Err(err))
	}
	log.Info("shutting down weatherflow service")
}
