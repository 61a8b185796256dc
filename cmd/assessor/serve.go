package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/siherrmann/assessor/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  GET  /           liveness message
  GET  /health     catalog size
  POST /recommend  {"query": "...", "top_k": 6}`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", server.DefaultConfig().Port, "HTTP port")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openAssessor(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a, cfg.Server, logger)
	return srv.Run(ctx)
}
