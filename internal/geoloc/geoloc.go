// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geoloc resolves the device position for coordinate-based weather lookups.
package geoloc

import (
	"context"
	"errors"

	"github.com/wneessen/weatherflow/internal/weather"
)

// ErrLocationDenied is returned when no device position can be resolved. It maps
// to the "search manually" error message of the session.
var ErrLocationDenied = errors.New("location access denied")

// Locator is implemented by each geolocation source.
type Locator interface {
	Name() string
	Locate(ctx context.Context) (weather.Coordinate, error)
}
