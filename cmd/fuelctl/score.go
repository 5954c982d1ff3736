package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fdg312/fuel-score/internal/config"
	"github.com/fdg312/fuel-score/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	scoreFile           string
	scorePenaltyProfile string
	scoreStrategy       string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a day from a JSON scoring context (use --file - for stdin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, scoreFile)
		if err != nil {
			return err
		}
		var c scoring.Context
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("parse context: %w", err)
		}

		// значения по умолчанию берём из того же окружения, что и API
		cfg := config.Load().Scoring
		name := cfg.PenaltyProfile
		if scorePenaltyProfile != "" {
			name = scorePenaltyProfile
		}
		profile, err := scoring.PenaltyProfileByName(name)
		if err != nil {
			return err
		}
		strategy := cfg.Strategy
		if scoreStrategy != "" {
			strategy = scoreStrategy
		}
		defaultStrategy, err := scoring.ParseStrategy(strategy)
		if err != nil {
			return err
		}

		opts := scoring.Options{PenaltyProfile: profile, DefaultStrategy: defaultStrategy}
		if name == cfg.PenaltyProfile {
			opts.NoFoodLogsPenalty = cfg.NoFoodLogsPenalty
		}
		engine, err := scoring.NewEngine(opts)
		if err != nil {
			return err
		}

		b, err := engine.Score(c)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), b)
	},
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFile, "file", "", "Path to a scoring context JSON file, or - for stdin")
	scoreCmd.Flags().StringVar(&scorePenaltyProfile, "penalty-profile", "", "reduced or strict (default from SCORING_PENALTY_PROFILE)")
	scoreCmd.Flags().StringVar(&scoreStrategy, "strategy", "", "runner-focused, general or meal-level (default from SCORING_STRATEGY)")
	_ = scoreCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scoreCmd)
}
