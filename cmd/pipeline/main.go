package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-trip-pipeline/internal/model"
	"go-trip-pipeline/internal/pipeline"
	"go-trip-pipeline/internal/store"
	"go-trip-pipeline/pkg/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run a bike-trip analysis job from a spec file",
		RunE:  run,
	}

	rootCmd.Flags().String("spec", "", "path to the analysis job spec (JSON)")
	rootCmd.Flags().String("db", "pipeline.db", "sqlite database path")
	rootCmd.MarkFlagRequired("spec")
	viper.BindPFlag("spec", rootCmd.Flags().Lookup("spec"))
	viper.BindPFlag("db", rootCmd.Flags().Lookup("db"))
	viper.SetEnvPrefix("TRIP_PIPELINE")
	viper.AutomaticEnv()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.NewLogger()
	defer log.Sync()

	data, err := os.ReadFile(viper.GetString("spec"))
	if err != nil {
		return fmt.Errorf("reading spec: %w", err)
	}
	var job model.AnalysisJobSpec
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("decoding spec: %w", err)
	}
	if err := pipeline.ValidateSpec(job); err != nil {
		return err
	}

	if err := store.InitDB(viper.GetString("db")); err != nil {
		return fmt.Errorf("opening job store: %w", err)
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, job); err != nil {
		return fmt.Errorf("saving job: %w", err)
	}

	ctx := logging.WithLogger(context.Background(), log)
	if err := pipeline.Run(ctx, jobID, job); err != nil {
		return err
	}
	log.Infow("job finished", "job", jobID)
	return nil
}
