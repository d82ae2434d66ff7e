package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Load the vocabulary and classifier, then serve the extraction endpoints over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort > 0 {
		port = servePort
	}

	deps := server.Deps{Engine: a.engine, Logger: a.logger}
	if a.classifier != nil {
		deps.Classifier = a.classifier
	}
	if a.db != nil {
		deps.History = a.db
	}
	srv, err := server.New(server.Config{Port: port, UseBrowser: a.cfg.UseBrowser}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := a.engine.EnsureLoaded(ctx); err != nil {
		return fmt.Errorf("failed to load skills engine: %w", err)
	}
	return srv.Start()
}
