package main

import (
	"github.com/spf13/cobra"

	"github.com/caleb/scholarmatch/internal/server"
	"github.com/caleb/scholarmatch/internal/validation"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes recommendation generation, interaction tracking, metrics, and fixture validation endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	port := a.cfg.Server.Port
	if servePort > 0 {
		port = servePort
	}

	validator := validation.New(a.engine, a.store, a.logger)
	srv := server.New(server.Config{Port: port}, a.engine, validator, a.logger)
	return srv.Start()
}
