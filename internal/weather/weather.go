// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather defines the typed weather domain model and the provider contract
// of the weatherflow service.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/wneessen/weatherflow/internal/airquality"
)

// ErrPlaceNotFound is returned when the weather provider cannot resolve the requested place.
var ErrPlaceNotFound = errors.New("place not found")

// Coordinate represents a geographic coordinate.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid checks if the coordinate is valid according to the EPSG logic
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Condition is a single dominant weather condition as reported by the provider.
type Condition struct {
	Icon        string
	Description string
}

// CurrentConditions holds the current weather observation for one place. It is
// replaced wholesale on every successful fetch and never partially mutated.
type CurrentConditions struct {
	PlaceName      string
	Country        string
	Coordinates    Coordinate
	TimezoneOffset int

	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Humidity    float64
	Pressure    float64
	Visibility  float64

	WindSpeed     float64
	WindDirection float64

	Sunrise time.Time
	Sunset  time.Time

	Condition Condition
}

// Label returns the display label for the place of the observation.
func (c *CurrentConditions) Label() string {
	if c.Country == "" {
		return c.PlaceName
	}
	return c.PlaceName + ", " + c.Country
}

// ForecastSample is a single fixed-interval (3-hour) forecast prediction.
type ForecastSample struct {
	Time              time.Time
	Temperature       float64
	Humidity          float64
	WindSpeed         float64
	PrecipProbability float64
	Condition         Condition
}

// Forecast is the ordered sequence of forecast samples for one place, together
// with the UTC offset of the place the samples belong to.
type Forecast struct {
	Samples        []ForecastSample
	TimezoneOffset int
}

// Place is a single candidate returned by the provider's place search.
type Place struct {
	Name        string
	Country     string
	Coordinates Coordinate
}

// Label returns the display label for the place.
func (p Place) Label() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + ", " + p.Country
}

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	CurrentByName(ctx context.Context, place string) (*CurrentConditions, error)
	CurrentByCoords(ctx context.Context, coords Coordinate) (*CurrentConditions, error)
	ForecastByName(ctx context.Context, place string) (*Forecast, error)
	ForecastByCoords(ctx context.Context, coords Coordinate) (*Forecast, error)
	AirQuality(ctx context.Context, coords Coordinate) (*airquality.Sample, error)
	SearchPlaces(ctx context.Context, query string) ([]Place, error)
}
