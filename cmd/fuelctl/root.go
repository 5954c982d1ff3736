package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fuelctl",
	Short: "fuelctl computes fueling targets and day scores offline",
	Long: "fuelctl runs the fuel-score engines without the API: daily targets from body metrics, " +
		"race phases, and scores for a prepared scoring context. Output is JSON.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func today() string {
	return time.Now().UTC().Format(targets.DateLayout)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
