package main

import (
	"github.com/fdg312/fuel-score/internal/nutrition"
	"github.com/fdg312/fuel-score/internal/periodization"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/spf13/cobra"
)

var (
	targetsWeight     float64
	targetsHeight     float64
	targetsAge        int
	targetsSex        string
	targetsExperience string
	targetsLoad       string
	targetsDate       string
	targetsGoal       string
	targetsRaceDate   string
	targetsPhase      string
)

type targetsOutput struct {
	Date   string                  `json:"date"`
	Load   targets.TrainingLoad    `json:"load"`
	Goal   string                  `json:"goal,omitempty"`
	Phase  periodization.RacePhase `json:"phase"`
	Target targets.DayTarget       `json:"target"`
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Compute the day target for body metrics and a training load",
	RunE: func(cmd *cobra.Command, args []string) error {
		load, err := targets.ParseTrainingLoad(targetsLoad)
		if err != nil {
			return err
		}
		date := targetsDate
		if date == "" {
			date = today()
		}

		profile := storage.Profile{
			WeightKg:        targetsWeight,
			HeightCm:        targetsHeight,
			Age:             targetsAge,
			Sex:             targetsSex,
			ExperienceLevel: targetsExperience,
			Goal:            targetsGoal,
			RaceDate:        optionalString(targetsRaceDate),
		}
		var (
			dt    targets.DayTarget
			phase periodization.RacePhase
		)
		if targetsPhase != "" {
			// explicit phase wins over --race-date
			phase, err = periodization.ParsePhase(targetsPhase)
			if err != nil {
				return err
			}
			dt, err = nutrition.BuildDayTargetInPhase(profile, load, date, phase)
		} else {
			dt, phase, err = nutrition.BuildDayTarget(profile, load, date)
		}
		if err != nil {
			return err
		}

		return writeJSON(cmd.OutOrStdout(), targetsOutput{
			Date:   date,
			Load:   load,
			Goal:   targetsGoal,
			Phase:  phase,
			Target: dt,
		})
	},
}

func init() {
	f := targetsCmd.Flags()
	f.Float64Var(&targetsWeight, "weight", 0, "Body weight in kg")
	f.Float64Var(&targetsHeight, "height", 0, "Height in cm")
	f.IntVar(&targetsAge, "age", 0, "Age in years")
	f.StringVar(&targetsSex, "sex", "", "male or female")
	f.StringVar(&targetsExperience, "experience", "intermediate", "beginner, intermediate or advanced")
	f.StringVar(&targetsLoad, "load", "rest", "rest, easy, moderate, long or quality")
	f.StringVar(&targetsDate, "date", "", "Day (YYYY-MM-DD), default today UTC")
	f.StringVar(&targetsGoal, "goal", "", "weight_loss, gain_muscle, 5k, 10k, half_marathon, full_marathon or ultra")
	f.StringVar(&targetsRaceDate, "race-date", "", "Race day (YYYY-MM-DD)")
	f.StringVar(&targetsPhase, "phase", "", "Force a race phase: base, build, peak, taper, race or off")
	_ = targetsCmd.MarkFlagRequired("weight")
	_ = targetsCmd.MarkFlagRequired("height")
	_ = targetsCmd.MarkFlagRequired("age")
	_ = targetsCmd.MarkFlagRequired("sex")

	rootCmd.AddCommand(targetsCmd)
}
