// Package classifier derives a day's training load from its sessions.
package classifier

import (
	"strings"

	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/fdg312/fuel-score/internal/targets"
)

// Session is a planned or recorded training session.
type Session struct {
	Type        string   `json:"type"`
	DurationMin float64  `json:"duration_min"`
	DistanceKm  float64  `json:"distance_km,omitempty"`
	Intensity   string   `json:"intensity,omitempty"`
	AvgHR       *float64 `json:"avg_hr,omitempty"`
	MaxHR       *float64 `json:"max_hr,omitempty"`
}

const (
	minTrainingMinutes = 20
	longMinutes        = 90
	longRunDistanceKm  = 18
	moderateMinutes    = 45
	qualityMinMinutes  = 20
	lightFamilyWeight  = 0.5
)

// qualityTypes are session types that are hard by definition.
var qualityTypes = map[string]bool{
	"tempo":     true,
	"interval":  true,
	"intervals": true,
	"race":      true,
	"threshold": true,
}

// lightFamilies count at reduced weight toward the day's volume.
var lightFamilies = map[string]bool{
	"walk":     true,
	"strength": true,
}

// Classify returns the load implied by sessions. No sessions is a rest day.
func Classify(sessions []Session) targets.TrainingLoad {
	var (
		volume  float64
		long    bool
		quality bool
	)
	for _, s := range sessions {
		if s.DurationMin <= 0 {
			continue
		}
		family := scoring.SessionFamily(s.Type)
		weight := 1.0
		if lightFamilies[family] {
			weight = lightFamilyWeight
		}
		volume += s.DurationMin * weight

		if lightFamilies[family] {
			continue
		}
		if s.DurationMin >= longMinutes || (family == "run" && s.DistanceKm >= longRunDistanceKm) {
			long = true
		}
		if s.DurationMin >= qualityMinMinutes && isHard(s) {
			quality = true
		}
	}

	switch {
	case volume < minTrainingMinutes:
		return targets.LoadRest
	case long:
		return targets.LoadLong
	case quality:
		return targets.LoadQuality
	case volume >= moderateMinutes:
		return targets.LoadModerate
	default:
		return targets.LoadEasy
	}
}

func isHard(s Session) bool {
	if qualityTypes[strings.ToLower(strings.TrimSpace(s.Type))] {
		return true
	}
	if scoring.Intensity(strings.ToLower(s.Intensity)) == scoring.IntensityHigh {
		return true
	}
	if s.AvgHR != nil && s.MaxHR != nil && *s.MaxHR > 0 {
		return scoring.IntensityFromHeartRate(*s.AvgHR, *s.MaxHR) == scoring.IntensityHigh
	}
	return false
}
