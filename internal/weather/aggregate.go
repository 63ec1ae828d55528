// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"math"
	"time"
)

const (
	// HourlySamples is the number of samples in the hourly outlook (8 samples at
	// a 3 hour interval cover roughly the next 24 hours).
	HourlySamples = 8
	// MaxOutlookDays is the maximum number of day aggregates in the daily outlook.
	MaxOutlookDays = 7
	// noonHour is the hour-of-day the representative sample of a day is selected against.
	noonHour = 12
)

// DayAggregate is the derived per-day view of a group of forecast samples sharing
// the same calendar date.
type DayAggregate struct {
	Date    time.Time
	TempMin float64
	TempMax float64

	// Condition, Humidity, WindSpeed and PrecipProbability are taken from the
	// representative sample of the day, the one closest to local noon.
	Condition         Condition
	Humidity          float64
	WindSpeed         float64
	PrecipProbability float64
}

// HourlyOutlook returns the first HourlySamples forecast samples in original
// order. An empty sample sequence yields an empty outlook.
func (f *Forecast) HourlyOutlook() []ForecastSample {
	if len(f.Samples) <= HourlySamples {
		return f.Samples
	}
	return f.Samples[:HourlySamples]
}

// DailyOutlook groups the forecast samples by their calendar date in the
// timezone of the forecast place and derives one DayAggregate per date. Days
// are returned in chronological order, truncated to MaxOutlookDays. A sequence
// spanning fewer distinct dates simply yields fewer aggregates.
func (f *Forecast) DailyOutlook() []DayAggregate {
	if len(f.Samples) == 0 {
		return nil
	}

	zone := time.FixedZone("place", f.TimezoneOffset)

	type group struct {
		aggregate DayAggregate
		noonDist  int
	}
	var days []*group
	byDate := make(map[string]*group)

	for _, sample := range f.Samples {
		local := sample.Time.In(zone)
		date := local.Format(time.DateOnly)
		dist := noonDistance(local.Hour())

		g, ok := byDate[date]
		if !ok {
			g = &group{
				aggregate: DayAggregate{
					Date:              time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone),
					TempMin:           sample.Temperature,
					TempMax:           sample.Temperature,
					Condition:         sample.Condition,
					Humidity:          sample.Humidity,
					WindSpeed:         sample.WindSpeed,
					PrecipProbability: sample.PrecipProbability,
				},
				noonDist: dist,
			}
			byDate[date] = g
			days = append(days, g)
			continue
		}

		g.aggregate.TempMin = math.Min(g.aggregate.TempMin, sample.Temperature)
		g.aggregate.TempMax = math.Max(g.aggregate.TempMax, sample.Temperature)

		// The earlier sample wins on equal noon distance
		if dist < g.noonDist {
			g.noonDist = dist
			g.aggregate.Condition = sample.Condition
			g.aggregate.Humidity = sample.Humidity
			g.aggregate.WindSpeed = sample.WindSpeed
			g.aggregate.PrecipProbability = sample.PrecipProbability
		}
	}

	if len(days) > MaxOutlookDays {
		days = days[:MaxOutlookDays]
	}
	aggregates := make([]DayAggregate, 0, len(days))
	for _, g := range days {
		aggregates = append(aggregates, g.aggregate)
	}
	return aggregates
}

func noonDistance(hour int) int {
	if hour > noonHour {
		return hour - noonHour
	}
	return noonHour - hour
}
