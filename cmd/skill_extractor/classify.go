package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/observability"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <skill>...",
	Short: "Classify skills into important, less important or non-technical",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

var classifyJSON bool

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the verdicts as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	verdicts := make([]types.ClassificationVerdict, 0, len(args))
	for _, skill := range args {
		v, err := a.engine.ClassifyTier(ctx, strings.TrimSpace(skill))
		if err != nil {
			return fmt.Errorf("failed to classify %q: %w", skill, err)
		}
		verdicts = append(verdicts, v)
	}

	if classifyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(verdicts)
	}
	p := observability.NewPrinter(cmd.OutOrStdout())
	available := a.engine.ClassifierAvailable()
	for _, v := range verdicts {
		p.PrintVerdict(v, available)
	}
	return nil
}
