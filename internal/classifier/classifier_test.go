package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fdg312/fuel-score/internal/targets"
)

func hr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		sessions []Session
		want     targets.TrainingLoad
	}{
		{"no sessions", nil, targets.LoadRest},
		{"short walk", []Session{{Type: "walk", DurationMin: 30}}, targets.LoadRest},
		{"easy jog", []Session{{Type: "run", DurationMin: 35}}, targets.LoadEasy},
		{"steady hour", []Session{{Type: "run", DurationMin: 60}}, targets.LoadModerate},
		{"double day", []Session{{Type: "run", DurationMin: 30}, {Type: "ride", DurationMin: 30}}, targets.LoadModerate},
		{"long by time", []Session{{Type: "run", DurationMin: 100}}, targets.LoadLong},
		{"long by distance", []Session{{Type: "run", DurationMin: 85, DistanceKm: 20}}, targets.LoadLong},
		{"tempo", []Session{{Type: "tempo", DurationMin: 50}}, targets.LoadQuality},
		{"high label", []Session{{Type: "run", DurationMin: 40, Intensity: "high"}}, targets.LoadQuality},
		{"hard by heart rate", []Session{{Type: "run", DurationMin: 40, AvgHR: hr(170), MaxHR: hr(190)}}, targets.LoadQuality},
		{"long beats quality", []Session{{Type: "interval", DurationMin: 95}}, targets.LoadLong},
		{"strength is light", []Session{{Type: "strength", DurationMin: 60}}, targets.LoadEasy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.sessions))
		})
	}
}
