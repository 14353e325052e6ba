package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caleb/scholarmatch/internal/fixtures"
)

var (
	fixturesFile   string
	fixturesSchema string
	fixturesForce  bool
)

var fixturesCmd = &cobra.Command{
	Use:   "seed-fixtures",
	Short: "Load validation fixtures from a JSON file",
	Long:  `Validate a fixture file against the fixture schema and seed it into the database. Seeding is skipped when fixtures already exist unless --force is set.`,
	RunE:  runSeedFixtures,
}

func init() {
	fixturesCmd.Flags().StringVar(&fixturesFile, "file", "fixtures.json", "Path to the fixture JSON file")
	fixturesCmd.Flags().StringVar(&fixturesSchema, "schema", "schemas/fixture.schema.json", "Path to the fixture JSON schema")
	fixturesCmd.Flags().BoolVar(&fixturesForce, "force", false, "Seed even when fixtures already exist")
	rootCmd.AddCommand(fixturesCmd)
}

func runSeedFixtures(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	loaded, err := fixtures.LoadFile(fixturesFile, fixturesSchema)
	if err != nil {
		return err
	}
	if len(loaded) == 0 {
		return fmt.Errorf("fixture file %s contains no fixtures", fixturesFile)
	}

	return fixtures.Seed(cmd.Context(), a.store, loaded, fixturesForce, a.logger)
}
