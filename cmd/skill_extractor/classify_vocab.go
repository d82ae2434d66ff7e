package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/observability"
)

var classifyVocabCmd = &cobra.Command{
	Use:   "classify-vocab",
	Short: "Classify every vocabulary phrase and write a CSV report",
	Long:  "Classify every phrase of the loaded vocabulary and write skill, category, similarity_score and is_technical rows as CSV.",
	RunE:  runClassifyVocab,
}

var classifyVocabOut string

func init() {
	classifyVocabCmd.Flags().StringVarP(&classifyVocabOut, "out", "o", "", "Output CSV path (default stdout)")
	rootCmd.AddCommand(classifyVocabCmd)
}

func runClassifyVocab(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = cmd.OutOrStdout()
	if classifyVocabOut != "" {
		f, createErr := os.Create(classifyVocabOut)
		if createErr != nil {
			return fmt.Errorf("failed to create report: %w", createErr)
		}
		// A partial report is removed rather than left looking complete.
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write report: %w", cerr)
			}
			if err != nil {
				_ = os.Remove(classifyVocabOut)
			}
		}()
		w = f
	}

	summary, err := a.engine.ClassifyVocabulary(ctx, w)
	if err != nil {
		return fmt.Errorf("failed to classify vocabulary: %w", err)
	}
	if classifyVocabOut != "" {
		observability.NewPrinter(cmd.OutOrStdout()).PrintVocabularyReport(summary, classifyVocabOut)
	}
	return nil
}
