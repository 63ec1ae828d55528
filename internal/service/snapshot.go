// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/wneessen/weatherflow/internal/airquality"
	"github.com/wneessen/weatherflow/internal/weather"
)

// State is the lifecycle state of the session.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// User-facing error messages of the session.
const (
	MsgPlaceNotFound  = "City not found. Please check the spelling and try again."
	MsgFetchFailed    = "Failed to fetch weather data. Please try again."
	MsgCoordsFailed   = "Failed to fetch weather data for your location."
	MsgLocationDenied = "Unable to access your location. Please search for a city manually."
)

// Snapshot is the single consistent bundle of weather state exposed to
// consumers. Nil or empty fields are absent. Each settled user action replaces
// the snapshot atomically, no partially-applied state is ever observable.
type Snapshot struct {
	State     State     `json:"state"`
	Loading   bool      `json:"loading"`
	Place     string    `json:"place,omitempty"`
	Favorite  bool      `json:"favorite"`
	IsDaytime bool      `json:"is_daytime"`
	UpdatedAt time.Time `json:"updated_at"`
	Error     string    `json:"error,omitempty"`

	Current    *weather.CurrentConditions `json:"current,omitempty"`
	Hourly     []weather.ForecastSample   `json:"hourly,omitempty"`
	Daily      []weather.DayAggregate     `json:"daily,omitempty"`
	AirQuality *airquality.Classification `json:"air_quality,omitempty"`
}
