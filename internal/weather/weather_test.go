// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import "testing"

func TestCoordinate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"valid coordinate", Coordinate{Lat: 51.5085, Lon: -0.1257}, true},
		{"zero coordinate is valid", Coordinate{}, true},
		{"latitude out of range", Coordinate{Lat: 91}, false},
		{"negative latitude out of range", Coordinate{Lat: -90.1}, false},
		{"longitude out of range", Coordinate{Lon: 180.1}, false},
		{"negative longitude out of range", Coordinate{Lon: -181}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.coord.Valid() != tc.want {
				t.Errorf("expected Valid() to return %t for %+v", tc.want, tc.coord)
			}
		})
	}
}

func TestPlace_Label(t *testing.T) {
	t.Run("place with country", func(t *testing.T) {
		place := Place{Name: "London", Country: "GB"}
		if place.Label() != "London, GB" {
			t.Errorf("expected label to be 'London, GB', got %q", place.Label())
		}
	})
	t.Run("place without country", func(t *testing.T) {
		place := Place{Name: "Atlantis"}
		if place.Label() != "Atlantis" {
			t.Errorf("expected label to be 'Atlantis', got %q", place.Label())
		}
	})
}

func TestCurrentConditions_Label(t *testing.T) {
	t.Run("conditions with country", func(t *testing.T) {
		conditions := &CurrentConditions{PlaceName: "Berlin", Country: "DE"}
		if conditions.Label() != "Berlin, DE" {
			t.Errorf("expected label to be 'Berlin, DE', got %q", conditions.Label())
		}
	})
	t.Run("conditions without country", func(t *testing.T) {
		conditions := &CurrentConditions{PlaceName: "Berlin"}
		if conditions.Label() != "Berlin" {
			t.Errorf("expected label to be 'Berlin', got %q", conditions.Label())
		}
	})
}
