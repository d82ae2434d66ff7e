package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/db"
	"github.com/mentorque/Extension-Free-backend/internal/ingestion"
	"github.com/mentorque/Extension-Free-backend/internal/observability"
	"github.com/mentorque/Extension-Free-backend/internal/skills"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract skills from a job posting",
	Long:  "Extract skills from inline text, a text file or a posting URL and print them grouped by tier.",
	RunE:  runExtract,
}

var (
	extractText      string
	extractFile      string
	extractURL       string
	extractBrowser   bool
	extractNoFuzzy   bool
	extractNoContext bool
	extractJSON      bool
)

func init() {
	extractCmd.Flags().StringVar(&extractText, "text", "", "Job posting text")
	extractCmd.Flags().StringVarP(&extractFile, "text-file", "t", "", "Path to text file containing job posting")
	extractCmd.Flags().StringVarP(&extractURL, "url", "u", "", "URL to fetch job posting from")
	extractCmd.Flags().BoolVar(&extractBrowser, "browser", false, "Render the page in headless Chrome when the fetched text is too short")
	extractCmd.Flags().BoolVar(&extractNoFuzzy, "no-fuzzy", false, "Disable discovery of phrases outside the vocabulary")
	extractCmd.Flags().BoolVar(&extractNoContext, "no-context", false, "Disable the skill context filter")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Print the result as JSON")

	extractCmd.MarkFlagsMutuallyExclusive("text", "text-file", "url")
	extractCmd.MarkFlagsOneRequired("text", "text-file", "url")

	rootCmd.AddCommand(extractCmd)
}

// extractOutput is the JSON printed by extract --json.
type extractOutput struct {
	Skills        []string            `json:"skills"`
	Important     []string            `json:"important_skills"`
	LessImportant []string            `json:"less_important_skills"`
	NonTechnical  []string            `json:"non_technical_skills"`
	Count         int                 `json:"count"`
	Source        *ingestion.Metadata `json:"source,omitempty"`
	RunID         string              `json:"run_id,omitempty"`
}

func runExtract(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	text, source := extractText, "cli"
	var meta *ingestion.Metadata
	switch {
	case extractFile != "":
		text, meta, err = ingestion.FromFile(extractFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting: %w", err)
		}
		source = extractFile
	case extractURL != "":
		text, meta, err = ingestion.FromURL(ctx, extractURL, ingestion.Options{
			UseBrowser: extractBrowser || a.cfg.UseBrowser,
			Logger:     a.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		source = extractURL
	}

	opts := skills.DefaultOptions()
	opts.UseFuzzy = !extractNoFuzzy
	opts.UseContextFilter = !extractNoContext

	result, err := a.engine.Extract(ctx, text, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var runID string
	if a.db != nil && strings.TrimSpace(text) != "" {
		run := db.NewExtractionRun(source, text, result, time.Since(start))
		if err := a.db.RecordExtraction(ctx, run); err != nil {
			a.logger.Warn("recording extraction failed", "error", err)
		} else {
			runID = run.ID.String()
		}
	}

	out := cmd.OutOrStdout()
	if extractJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(extractOutput{
			Skills:        result.Names(),
			Important:     result.Important,
			LessImportant: result.LessImportant,
			NonTechnical:  result.NonTechnical,
			Count:         len(result.Skills),
			Source:        meta,
			RunID:         runID,
		})
	}

	p := observability.NewPrinter(out)
	if extractURL != "" {
		p.PrintSource(meta)
	}
	p.PrintExtraction(result)
	if runID != "" {
		fmt.Fprintf(out, "Run ID: %s\n", runID)
	}
	return nil
}
