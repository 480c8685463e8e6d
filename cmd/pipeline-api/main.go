package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-trip-pipeline/internal/api"
	"go-trip-pipeline/internal/store"
	"go-trip-pipeline/pkg/logging"
	"go-trip-pipeline/pkg/router"
)

// @title Trip Pipeline API
// @version 1.0
// @description HTTP API for running and inspecting bike-trip analysis jobs
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "pipeline-api",
		Short: "HTTP API for bike-trip analysis jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.NewLogger()
			defer log.Sync()

			if err := store.InitDB(viper.GetString("db")); err != nil {
				return fmt.Errorf("opening job store: %w", err)
			}

			r := router.New(log)
			api.RegisterRoutes(r)
			return r.Start(viper.GetString("addr"))
		},
	}

	rootCmd.Flags().String("addr", ":8080", "listen address")
	rootCmd.Flags().String("db", "pipeline.db", "sqlite database path")
	viper.BindPFlag("addr", rootCmd.Flags().Lookup("addr"))
	viper.BindPFlag("db", rootCmd.Flags().Lookup("db"))
	viper.SetEnvPrefix("TRIP_PIPELINE")
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
