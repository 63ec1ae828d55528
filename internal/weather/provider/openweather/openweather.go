// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package openweather implements the weather.Provider contract on top of the
// OpenWeatherMap API.
package openweather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wneessen/weatherflow/internal/airquality"
	"github.com/wneessen/weatherflow/internal/http"
	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/weather"
)

const (
	name                = "openweathermap"
	apiCurrentEndpoint  = "https://api.openweathermap.org/data/2.5/weather"
	apiForecastEndpoint = "https://api.openweathermap.org/data/2.5/forecast"
	apiAirEndpoint      = "https://api.openweathermap.org/data/2.5/air_pollution"
	apiGeoEndpoint      = "https://api.openweathermap.org/geo/1.0/direct"
	apiTimeout          = time.Second * 10

	// searchLimit caps the number of place candidates returned by SearchPlaces.
	searchLimit = 5
	// minQueryLength is the minimum query length before SearchPlaces issues a request.
	minQueryLength = 2
)

// OpenWeather is a client for the OpenWeatherMap API. All requests run through
// a shared circuit breaker, so a failing API trips fast instead of piling up
// timed-out requests.
type OpenWeather struct {
	apiKey  string
	units   string
	log     *logger.Logger
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

type conditionResponse struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []conditionResponse `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Timezone int `json:"timezone"`
	Sys      struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []conditionResponse `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
	} `json:"city"`
}

type airResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO   float64 `json:"no"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			SO2  float64 `json:"so2"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
			NH3  float64 `json:"nh3"`
		} `json:"components"`
	} `json:"list"`
}

type geoResponse struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// New returns a new OpenWeather client.
func New(client *http.Client, log *logger.Logger, apiKey, units string) (*OpenWeather, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		// An unresolvable place is an answer, not a service failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, weather.ErrPlaceNotFound)
		},
	})
	return &OpenWeather{apiKey: apiKey, units: units, log: log, http: client, breaker: breaker}, nil
}

// Name returns the name of the provider.
func (o *OpenWeather) Name() string {
	return name
}

// CurrentByName fetches the current weather conditions for a free-text place name.
func (o *OpenWeather) CurrentByName(ctx context.Context, place string) (*weather.CurrentConditions, error) {
	query := o.baseQuery()
	query.Set("q", place)
	return o.fetchCurrent(ctx, query)
}

// CurrentByCoords fetches the current weather conditions for a coordinate pair.
func (o *OpenWeather) CurrentByCoords(ctx context.Context, coords weather.Coordinate) (*weather.CurrentConditions, error) {
	query := o.baseQuery()
	setCoords(query, coords)
	return o.fetchCurrent(ctx, query)
}

// ForecastByName fetches the 5-day/3-hour forecast for a free-text place name.
func (o *OpenWeather) ForecastByName(ctx context.Context, place string) (*weather.Forecast, error) {
	query := o.baseQuery()
	query.Set("q", place)
	return o.fetchForecast(ctx, query)
}

// ForecastByCoords fetches the 5-day/3-hour forecast for a coordinate pair.
func (o *OpenWeather) ForecastByCoords(ctx context.Context, coords weather.Coordinate) (*weather.Forecast, error) {
	query := o.baseQuery()
	setCoords(query, coords)
	return o.fetchForecast(ctx, query)
}

// AirQuality fetches the current air quality sample for a coordinate pair.
func (o *OpenWeather) AirQuality(ctx context.Context, coords weather.Coordinate) (*airquality.Sample, error) {
	query := url.Values{}
	query.Set("appid", o.apiKey)
	setCoords(query, coords)

	res := new(airResponse)
	if err := o.get(ctx, apiAirEndpoint, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve air quality data from OpenWeatherMap API: %w", err)
	}
	if len(res.List) == 0 {
		return nil, fmt.Errorf("OpenWeatherMap API returned no air quality samples")
	}

	// The first list element is the current sample
	current := res.List[0]
	return &airquality.Sample{
		Time:  time.Unix(current.Dt, 0),
		Index: current.Main.AQI,
		Components: airquality.Components{
			CO:   current.Components.CO,
			NO:   current.Components.NO,
			NO2:  current.Components.NO2,
			O3:   current.Components.O3,
			SO2:  current.Components.SO2,
			PM25: current.Components.PM25,
			PM10: current.Components.PM10,
			NH3:  current.Components.NH3,
		},
	}, nil
}

// SearchPlaces resolves a free-text place query to up to 5 candidate places.
// Queries shorter than 2 characters short-circuit to an empty result without
// issuing a request.
func (o *OpenWeather) SearchPlaces(ctx context.Context, query string) ([]weather.Place, error) {
	if len(query) < minQueryLength {
		return nil, nil
	}

	params := url.Values{}
	params.Set("appid", o.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(searchLimit))

	var res []geoResponse
	if err := o.get(ctx, apiGeoEndpoint, &res, params); err != nil {
		return nil, fmt.Errorf("failed to retrieve place candidates from OpenWeatherMap API: %w", err)
	}

	places := make([]weather.Place, 0, len(res))
	for _, candidate := range res {
		places = append(places, weather.Place{
			Name:        candidate.Name,
			Country:     candidate.Country,
			Coordinates: weather.Coordinate{Lat: candidate.Lat, Lon: candidate.Lon},
		})
	}
	return places, nil
}

func (o *OpenWeather) fetchCurrent(ctx context.Context, query url.Values) (*weather.CurrentConditions, error) {
	res := new(currentResponse)
	if err := o.get(ctx, apiCurrentEndpoint, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve current weather data from OpenWeatherMap API: %w", err)
	}

	conditions := &weather.CurrentConditions{
		PlaceName:      res.Name,
		Country:        res.Sys.Country,
		Coordinates:    weather.Coordinate{Lat: res.Coord.Lat, Lon: res.Coord.Lon},
		TimezoneOffset: res.Timezone,
		Temperature:    res.Main.Temp,
		FeelsLike:      res.Main.FeelsLike,
		TempMin:        res.Main.TempMin,
		TempMax:        res.Main.TempMax,
		Humidity:       res.Main.Humidity,
		Pressure:       res.Main.Pressure,
		Visibility:     res.Visibility,
		WindSpeed:      res.Wind.Speed,
		WindDirection:  res.Wind.Deg,
		Sunrise:        time.Unix(res.Sys.Sunrise, 0),
		Sunset:         time.Unix(res.Sys.Sunset, 0),
	}
	if len(res.Weather) > 0 {
		conditions.Condition = weather.Condition{
			Icon:        res.Weather[0].Icon,
			Description: res.Weather[0].Description,
		}
	}
	return conditions, nil
}

func (o *OpenWeather) fetchForecast(ctx context.Context, query url.Values) (*weather.Forecast, error) {
	res := new(forecastResponse)
	if err := o.get(ctx, apiForecastEndpoint, res, query); err != nil {
		return nil, fmt.Errorf("failed to retrieve forecast data from OpenWeatherMap API: %w", err)
	}

	forecast := &weather.Forecast{
		Samples:        make([]weather.ForecastSample, 0, len(res.List)),
		TimezoneOffset: res.City.Timezone,
	}
	for _, entry := range res.List {
		sample := weather.ForecastSample{
			Time:              time.Unix(entry.Dt, 0),
			Temperature:       entry.Main.Temp,
			Humidity:          entry.Main.Humidity,
			WindSpeed:         entry.Wind.Speed,
			PrecipProbability: entry.Pop,
		}
		if len(entry.Weather) > 0 {
			sample.Condition = weather.Condition{
				Icon:        entry.Weather[0].Icon,
				Description: entry.Weather[0].Description,
			}
		}
		forecast.Samples = append(forecast.Samples, sample)
	}

	// The API contract guarantees ordered samples, enforce it anyway
	sort.SliceStable(forecast.Samples, func(i, j int) bool {
		return forecast.Samples[i].Time.Before(forecast.Samples[j].Time)
	})
	return forecast, nil
}

// get performs a circuit-breaker guarded GET request against the given endpoint
// and maps HTTP status codes to the provider error taxonomy.
func (o *OpenWeather) get(ctx context.Context, endpoint string, target any, query url.Values) error {
	_, err := o.breaker.Execute(func() (any, error) {
		code, err := o.http.GetWithTimeout(ctx, endpoint, target, query, apiTimeout)
		if err != nil {
			return nil, err
		}
		switch {
		case code == 200:
			return nil, nil
		case code == 404:
			return nil, weather.ErrPlaceNotFound
		default:
			return nil, fmt.Errorf("OpenWeatherMap API returned non-positive response code: %d", code)
		}
	})
	return err
}

func setCoords(query url.Values, coords weather.Coordinate) {
	query.Set("lat", strconv.FormatFloat(coords.Lat, 'f', 6, 64))
	query.Set("lon", strconv.FormatFloat(coords.Lon, 'f', 6, 64))
}

func (o *OpenWeather) baseQuery() url.Values {
	query := url.Values{}
	query.Set("appid", o.apiKey)
	query.Set("units", o.units)
	return query
}
