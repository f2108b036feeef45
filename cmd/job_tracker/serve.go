package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API",
	Long: `Start the local HTTP API used by the browser relay. It exposes the
counter, saved jobs, settings and resume generation.

Endpoints:
  GET  /health
  POST /messages
  GET  /jobs
  GET  /counter
  POST /counter/increment
  POST /counter/reset
  GET  /settings
  PUT  /settings/api-key
  POST /generate
  POST /generate/stream`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8765)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv := server.New(server.Config{
		Port:         port,
		Verbose:      a.cfg.Verbose,
		FetchOptions: a.fetchOptions(),
	}, server.Deps{
		Store:     a.store,
		Tracker:   a.tracker,
		Scraper:   a.scraper,
		Generator: a.service(),
	})
	return srv.Start()
}
