package main

import (
	"github.com/fdg312/fuel-score/internal/periodization"
	"github.com/spf13/cobra"
)

var (
	phaseDate     string
	phaseRaceDate string
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Show the race phase of a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := phaseDate
		if date == "" {
			date = today()
		}
		phase, err := periodization.DetermineRacePhase(date, optionalString(phaseRaceDate))
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
			"date":      date,
			"race_date": optionalString(phaseRaceDate),
			"phase":     phase,
		})
	},
}

func init() {
	phaseCmd.Flags().StringVar(&phaseDate, "date", "", "Day (YYYY-MM-DD), default today UTC")
	phaseCmd.Flags().StringVar(&phaseRaceDate, "race-date", "", "Race day (YYYY-MM-DD)")
	rootCmd.AddCommand(phaseCmd)
}
