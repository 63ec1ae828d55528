// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweather

import (
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"os"
	"strings"
	"testing"

	"github.com/wneessen/weatherflow/internal/http"
	"github.com/wneessen/weatherflow/internal/logger"
	"github.com/wneessen/weatherflow/internal/testhelper"
	"github.com/wneessen/weatherflow/internal/weather"
)

const (
	testAPIKey = "test-api-key"

	currentFixture  = "../../../../testdata/owm_current_london.json"
	forecastFixture = "../../../../testdata/owm_forecast_london.json"
	airFixture      = "../../../../testdata/owm_air_london.json"
	geoFixture      = "../../../../testdata/owm_geo_london.json"
	notFoundFixture = "../../../../testdata/owm_notfound.json"
)

var testCoords = weather.Coordinate{Lat: 51.5085, Lon: -0.1257}

// fixtureClient returns a provider whose HTTP transport replays the given
// fixture file with the given status code. The last request that went through
// the transport is captured for query inspection.
func fixtureClient(t *testing.T, fixture string, status int, lastRequest **stdhttp.Request) *OpenWeather {
	t.Helper()
	rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
		if lastRequest != nil {
			*lastRequest = req
		}
		data, err := os.Open(fixture)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &stdhttp.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(stdhttp.Header),
		}, nil
	}

	log := logger.NewLogger(slog.LevelError, io.Discard)
	httpClient := http.New(log)
	httpClient.Transport = testhelper.MockRoundTripper{Fn: rtFn}

	provider, err := New(httpClient, log, testAPIKey, "metric")
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	return provider
}

func TestNew(t *testing.T) {
	log := logger.NewLogger(slog.LevelError, io.Discard)
	t.Run("valid arguments create a provider", func(t *testing.T) {
		provider, err := New(http.New(log), log, testAPIKey, "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		if provider.Name() != "openweathermap" {
			t.Errorf("expected provider name to be 'openweathermap', got %q", provider.Name())
		}
	})
	t.Run("missing http client fails", func(t *testing.T) {
		if _, err := New(nil, log, testAPIKey, "metric"); err == nil {
			t.Error("expected provider creation without http client to fail")
		}
	})
	t.Run("missing logger fails", func(t *testing.T) {
		if _, err := New(http.New(log), nil, testAPIKey, "metric"); err == nil {
			t.Error("expected provider creation without logger to fail")
		}
	})
	t.Run("missing API key fails", func(t *testing.T) {
		if _, err := New(http.New(log), log, "", "metric"); err == nil {
			t.Error("expected provider creation without API key to fail")
		}
	})
}

func TestOpenWeather_CurrentByName(t *testing.T) {
	t.Run("response fields map to current conditions", func(t *testing.T) {
		var request *stdhttp.Request
		provider := fixtureClient(t, currentFixture, 200, &request)
		conditions, err := provider.CurrentByName(t.Context(), "London")
		if err != nil {
			t.Fatalf("failed to get current conditions: %s", err)
		}

		if conditions.PlaceName != "London" || conditions.Country != "GB" {
			t.Errorf("unexpected place: %q, %q", conditions.PlaceName, conditions.Country)
		}
		if conditions.Label() != "London, GB" {
			t.Errorf("expected label to be 'London, GB', got %q", conditions.Label())
		}
		if conditions.Temperature != 17.54 {
			t.Errorf("expected temperature 17.54, got %f", conditions.Temperature)
		}
		if conditions.FeelsLike != 17.18 {
			t.Errorf("expected feels-like 17.18, got %f", conditions.FeelsLike)
		}
		if conditions.Humidity != 71 {
			t.Errorf("expected humidity 71, got %f", conditions.Humidity)
		}
		if conditions.TimezoneOffset != 3600 {
			t.Errorf("expected timezone offset 3600, got %d", conditions.TimezoneOffset)
		}
		if conditions.Condition.Icon != "04d" || conditions.Condition.Description != "broken clouds" {
			t.Errorf("unexpected condition: %+v", conditions.Condition)
		}
		if conditions.Sunrise.Unix() != 1756615604 || conditions.Sunset.Unix() != 1756664812 {
			t.Errorf("unexpected sun times: %s / %s", conditions.Sunrise, conditions.Sunset)
		}
		if conditions.Coordinates != testCoords {
			t.Errorf("unexpected coordinates: %+v", conditions.Coordinates)
		}

		query := request.URL.Query()
		if query.Get("q") != "London" {
			t.Errorf("expected query parameter q to be 'London', got %q", query.Get("q"))
		}
		if query.Get("appid") != testAPIKey {
			t.Errorf("expected query parameter appid to be set, got %q", query.Get("appid"))
		}
		if query.Get("units") != "metric" {
			t.Errorf("expected query parameter units to be 'metric', got %q", query.Get("units"))
		}
	})
	t.Run("unknown place maps to ErrPlaceNotFound", func(t *testing.T) {
		provider := fixtureClient(t, notFoundFixture, 404, nil)
		if _, err := provider.CurrentByName(t.Context(), "Nowhereville"); !errors.Is(err, weather.ErrPlaceNotFound) {
			t.Errorf("expected ErrPlaceNotFound, got %s", err)
		}
	})
	t.Run("server error maps to a generic provider error", func(t *testing.T) {
		provider := fixtureClient(t, notFoundFixture, 500, nil)
		_, err := provider.CurrentByName(t.Context(), "London")
		if err == nil {
			t.Fatal("expected current conditions request to fail")
		}
		if errors.Is(err, weather.ErrPlaceNotFound) {
			t.Error("expected a generic error, got ErrPlaceNotFound")
		}
		if !strings.Contains(err.Error(), "non-positive response code: 500") {
			t.Errorf("expected error to carry the status code, got %s", err)
		}
	})
}

func TestOpenWeather_CurrentByCoords(t *testing.T) {
	t.Run("coordinates are passed as query parameters", func(t *testing.T) {
		var request *stdhttp.Request
		provider := fixtureClient(t, currentFixture, 200, &request)
		if _, err := provider.CurrentByCoords(t.Context(), testCoords); err != nil {
			t.Fatalf("failed to get current conditions: %s", err)
		}
		query := request.URL.Query()
		if query.Get("lat") != "51.508500" || query.Get("lon") != "-0.125700" {
			t.Errorf("unexpected coordinate query parameters: lat=%q lon=%q",
				query.Get("lat"), query.Get("lon"))
		}
	})
}

func TestOpenWeather_ForecastByName(t *testing.T) {
	t.Run("response entries map to ordered forecast samples", func(t *testing.T) {
		provider := fixtureClient(t, forecastFixture, 200, nil)
		forecast, err := provider.ForecastByName(t.Context(), "London")
		if err != nil {
			t.Fatalf("failed to get forecast: %s", err)
		}

		if len(forecast.Samples) != 4 {
			t.Fatalf("expected 4 forecast samples, got %d", len(forecast.Samples))
		}
		if forecast.TimezoneOffset != 3600 {
			t.Errorf("expected timezone offset 3600, got %d", forecast.TimezoneOffset)
		}
		for i := 1; i < len(forecast.Samples); i++ {
			if forecast.Samples[i].Time.Before(forecast.Samples[i-1].Time) {
				t.Errorf("expected sample %d not to be before sample %d", i, i-1)
			}
		}
		first := forecast.Samples[0]
		if first.Temperature != 16.2 {
			t.Errorf("expected first sample temperature 16.2, got %f", first.Temperature)
		}
		if first.PrecipProbability != 0.42 {
			t.Errorf("expected first sample pop 0.42, got %f", first.PrecipProbability)
		}
		if first.Condition.Icon != "10n" {
			t.Errorf("expected first sample icon 10n, got %s", first.Condition.Icon)
		}
	})
	t.Run("unknown place maps to ErrPlaceNotFound", func(t *testing.T) {
		provider := fixtureClient(t, notFoundFixture, 404, nil)
		if _, err := provider.ForecastByName(t.Context(), "Nowhereville"); !errors.Is(err, weather.ErrPlaceNotFound) {
			t.Errorf("expected ErrPlaceNotFound, got %s", err)
		}
	})
}

func TestOpenWeather_AirQuality(t *testing.T) {
	t.Run("first list entry maps to the air quality sample", func(t *testing.T) {
		provider := fixtureClient(t, airFixture, 200, nil)
		sample, err := provider.AirQuality(t.Context(), testCoords)
		if err != nil {
			t.Fatalf("failed to get air quality: %s", err)
		}
		if sample.Index != 2 {
			t.Errorf("expected air quality index 2, got %d", sample.Index)
		}
		if sample.Components.PM25 != 4.51 {
			t.Errorf("expected PM2.5 concentration 4.51, got %f", sample.Components.PM25)
		}
		if sample.Components.NO2 != 21.59 {
			t.Errorf("expected NO2 concentration 21.59, got %f", sample.Components.NO2)
		}
		if sample.Components.O3 != 68.66 {
			t.Errorf("expected O3 concentration 68.66, got %f", sample.Components.O3)
		}
	})
	t.Run("empty sample list fails", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			return &stdhttp.Response{
				StatusCode: 200,
				Body:       io.NopCloser(strings.NewReader(`{"list": []}`)),
				Header:     make(stdhttp.Header),
			}, nil
		}
		log := logger.NewLogger(slog.LevelError, io.Discard)
		httpClient := http.New(log)
		httpClient.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		provider, err := New(httpClient, log, testAPIKey, "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}
		if _, err := provider.AirQuality(t.Context(), testCoords); err == nil {
			t.Error("expected air quality request without samples to fail")
		}
	})
}

func TestOpenWeather_SearchPlaces(t *testing.T) {
	t.Run("query returns up to 5 candidates", func(t *testing.T) {
		var request *stdhttp.Request
		provider := fixtureClient(t, geoFixture, 200, &request)
		places, err := provider.SearchPlaces(t.Context(), "London")
		if err != nil {
			t.Fatalf("failed to search places: %s", err)
		}
		if len(places) != 5 {
			t.Fatalf("expected 5 place candidates, got %d", len(places))
		}
		if places[0].Name != "London" || places[0].Country != "GB" {
			t.Errorf("unexpected first candidate: %+v", places[0])
		}
		if places[2].Country != "CA" {
			t.Errorf("expected third candidate country to be CA, got %q", places[2].Country)
		}
		if request.URL.Query().Get("limit") != "5" {
			t.Errorf("expected query parameter limit to be 5, got %q", request.URL.Query().Get("limit"))
		}
	})
	t.Run("short query short-circuits without a request", func(t *testing.T) {
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			t.Error("expected no request for a short query")
			return nil, errors.New("unexpected request")
		}
		log := logger.NewLogger(slog.LevelError, io.Discard)
		httpClient := http.New(log)
		httpClient.Transport = testhelper.MockRoundTripper{Fn: rtFn}
		provider, err := New(httpClient, log, testAPIKey, "metric")
		if err != nil {
			t.Fatalf("failed to create provider: %s", err)
		}

		places, err := provider.SearchPlaces(t.Context(), "L")
		if err != nil {
			t.Fatalf("expected short query not to fail: %s", err)
		}
		if len(places) != 0 {
			t.Errorf("expected no place candidates, got %d", len(places))
		}
	})
}
