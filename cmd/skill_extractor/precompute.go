package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/observability"
)

var precomputeCmd = &cobra.Command{
	Use:   "precompute",
	Short: "Encode the exemplar sets and store them in the vector cache",
	Long: "Encode every exemplar set with the configured embedding provider and write the vectors to the " +
		"cache directory, so servers started with require_cache load without calling the provider.",
	RunE: runPrecompute,
}

func init() {
	rootCmd.AddCommand(precomputeCmd)
}

func runPrecompute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if a.classifier == nil {
		return fmt.Errorf("classifier is disabled in the configuration")
	}
	if a.cache == nil {
		return fmt.Errorf("classifier.cache_dir (or EMBEDDINGS_CACHE_DIR) must be set")
	}
	if err := a.classifier.Precompute(ctx); err != nil {
		return fmt.Errorf("precompute failed: %w", err)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintClassifierStats(a.classifier.Stats())
	fmt.Fprintf(cmd.OutOrStdout(), "Exemplar vectors cached in %s\n", a.cfg.Classifier.CacheDir)
	return nil
}
