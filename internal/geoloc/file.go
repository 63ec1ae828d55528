// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoloc

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wneessen/weatherflow/internal/weather"
)

const fileProviderName = "geolocation_file"

// FileLocator reads the device position from a plain text file holding a
// "lat,lon" coordinate pair. Comment lines starting with # are skipped.
type FileLocator struct {
	path string
}

// NewFileLocator returns a FileLocator reading from the given path.
func NewFileLocator(path string) *FileLocator {
	return &FileLocator{path: path}
}

// Name returns the name of the FileLocator.
func (l *FileLocator) Name() string {
	return fileProviderName
}

// Locate reads and parses the geolocation file. Any read or parse failure maps
// to ErrLocationDenied, mirroring a device that refuses location access.
func (l *FileLocator) Locate(_ context.Context) (weather.Coordinate, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return weather.Coordinate{}, fmt.Errorf("%w: failed to read geolocation file %q: %s",
			ErrLocationDenied, l.path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		coord := weather.Coordinate{Lat: lat, Lon: lon}
		if !coord.Valid() {
			continue
		}
		return coord, nil
	}
	return weather.Coordinate{}, fmt.Errorf("%w: no valid coordinates found in geolocation file %q",
		ErrLocationDenied, l.path)
}
