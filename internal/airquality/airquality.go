// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package airquality classifies provider air quality samples into human-readable
// severity tiers and per-pollutant severity levels.
package airquality

import "time"

// Severity percentage above which a pollutant is flagged as elevated
const elevatedThreshold = 80

// Reference limits in µg/m³ the pollutant severity is calculated against. These
// are fixed and not provider-supplied.
const (
	LimitPM25 = 25.0
	LimitPM10 = 50.0
	LimitNO2  = 200.0
	LimitO3   = 180.0
)

// Sample is a single air quality measurement as reported by the provider. The
// Index is the provider-defined ordinal air quality index (1=Good to 5=Very Poor).
type Sample struct {
	Time  time.Time
	Index int

	Components Components
}

// Components holds the raw pollutant concentrations of a Sample in µg/m³. Only
// PM2.5, PM10, NO₂ and O₃ take part in the classification, the others are
// carried for completeness.
type Components struct {
	CO   float64
	NO   float64
	NO2  float64
	O3   float64
	SO2  float64
	PM25 float64
	PM10 float64
	NH3  float64
}

// Tier is the human-readable severity tier of an air quality index.
type Tier struct {
	Level       string
	Description string
}

// TierUnknown is returned for any index outside the provider-defined 1 to 5 range.
var TierUnknown = Tier{
	Level:       "Unknown",
	Description: "No air quality assessment is available.",
}

var tiers = map[int]Tier{
	1: {Level: "Good", Description: "Air quality is satisfactory and poses little or no risk."},
	2: {Level: "Fair", Description: "Air quality is acceptable for most people."},
	3: {Level: "Moderate", Description: "Sensitive groups may experience minor effects."},
	4: {Level: "Poor", Description: "Everyone may begin to experience health effects."},
	5: {Level: "Very Poor", Description: "Health alert, everyone may experience serious effects."},
}

// Pollutant is the threshold-relative severity of one tracked pollutant.
type Pollutant struct {
	Name          string
	Concentration float64
	Limit         float64
	Severity      float64
	Elevated      bool
}

// Classification is the derived, display-ready view of an air quality Sample.
type Classification struct {
	Index       int
	Level       string
	Description string
	Alert       bool
	Pollutants  []Pollutant
}

// TierForIndex maps a provider air quality index to its severity tier. Indices
// outside the defined 1 to 5 range map to TierUnknown.
func TierForIndex(index int) Tier {
	if tier, ok := tiers[index]; ok {
		return tier
	}
	return TierUnknown
}

// Classify derives the severity tier and the per-pollutant severities for the
// given sample.
func Classify(sample *Sample) *Classification {
	tier := TierForIndex(sample.Index)
	return &Classification{
		Index:       sample.Index,
		Level:       tier.Level,
		Description: tier.Description,
		Alert:       sample.Index > 3,
		Pollutants: []Pollutant{
			pollutant("PM2.5", sample.Components.PM25, LimitPM25),
			pollutant("PM10", sample.Components.PM10, LimitPM10),
			pollutant("NO₂", sample.Components.NO2, LimitNO2),
			pollutant("O₃", sample.Components.O3, LimitO3),
		},
	}
}

func pollutant(name string, concentration, limit float64) Pollutant {
	severity := concentration * 100 / limit
	if severity > 100 {
		severity = 100
	}
	return Pollutant{
		Name:          name,
		Concentration: concentration,
		Limit:         limit,
		Severity:      severity,
		Elevated:      severity > elevatedThreshold,
	}
}
