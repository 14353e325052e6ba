package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/caleb/scholarmatch/internal/validation"
)

var (
	validateTopN    int
	validateSummary bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run fixture validation against the current algorithm",
	Long:  `Run every active validation fixture through the recommendation engine, record the results, and print them as JSON.`,
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateTopN, "top-n", 0, "Override the top-N cutoff for every fixture")
	validateCmd.Flags().BoolVar(&validateSummary, "summary", false, "Print the aggregate summary report instead of per-fixture results")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	validator := validation.New(a.engine, a.store, a.logger)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if validateSummary {
		summary, err := validator.GenerateSummaryReport(cmd.Context())
		if err != nil {
			return err
		}
		return enc.Encode(summary)
	}

	results, err := validator.ValidateAllFixtures(cmd.Context(), validateTopN)
	if err != nil {
		return err
	}
	if err := enc.Encode(results); err != nil {
		return err
	}

	for _, r := range results {
		if r.Status == validation.StatusFail {
			return fmt.Errorf("validation failed: one or more fixtures did not pass")
		}
	}
	return nil
}
