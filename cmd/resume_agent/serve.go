package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-analyzer/internal/server"
	"github.com/jonathan/resume-analyzer/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the analysis, resume builder and template endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	port := appConfig.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}
	if port == 0 {
		port = 8080
	}

	deps := server.Deps{
		Analyzer: a.analysis,
		Metadata: a.store,
		Builder:  a.builder,
	}
	if a.pg != nil {
		deps.Health = a.pg
	}
	srv := server.New(server.Config{
		Port:           port,
		MaxUploadBytes: appConfig.UploadLimit(),
		RateLimit:      ratelimit.LoadConfig(os.Getenv),
	}, deps)
	return srv.Start(ctx)
}
