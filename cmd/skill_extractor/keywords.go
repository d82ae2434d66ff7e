package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentorque/Extension-Free-backend/internal/overrides"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

var importSkillsCmd = &cobra.Command{
	Use:   "import-skills",
	Short: "Load the skills CSV into the database vocabulary",
	RunE:  runImportSkills,
}

var addKeywordCmd = &cobra.Command{
	Use:   "add-keyword <base>",
	Short: "Store a custom keyword that bypasses every filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddKeyword,
}

var (
	importCSV          string
	keywordDescription string
	keywordVariations  []string
)

func init() {
	importSkillsCmd.Flags().StringVar(&importCSV, "csv", "", "Skills CSV to import (default from config)")
	addKeywordCmd.Flags().StringVar(&keywordDescription, "description", "", "Why the keyword matters")
	addKeywordCmd.Flags().StringSliceVar(&keywordVariations, "variation", nil, "Extra spelling to match (repeatable)")

	rootCmd.AddCommand(importSkillsCmd)
	rootCmd.AddCommand(addKeywordCmd)
}

func runImportSkills(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{needDB: true})
	if err != nil {
		return err
	}
	defer a.Close()

	path := importCSV
	if path == "" {
		path = a.cfg.SkillsCSV
	}
	phrases, err := (&vocabulary.CSVSource{Path: path, Column: a.cfg.SkillsColumn}).Phrases(ctx)
	if err != nil {
		return err
	}
	relevant, err := a.relevantPhrases(ctx, phrases)
	if err != nil {
		return err
	}
	inserted, err := a.db.UpsertSkills(ctx, relevant)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Read %d skills from %s, dropped %d irrelevant, inserted %d new\n",
		len(phrases), path, len(phrases)-len(relevant), inserted)
	return nil
}

// relevantPhrases drops phrases far from every exemplar set that do not look
// like proper nouns. Without a usable classifier every phrase is kept.
func (a *app) relevantPhrases(ctx context.Context, phrases []string) ([]string, error) {
	if a.classifier == nil {
		return phrases, nil
	}
	if err := a.classifier.Load(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("classifier unavailable, importing every phrase", "error", err)
		return phrases, nil
	}
	return a.classifier.FilterRelevant(ctx, phrases)
}

func runAddKeyword(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, appOptions{needDB: true})
	if err != nil {
		return err
	}
	defer a.Close()

	entry, err := newKeyword(args[0], keywordDescription, keywordVariations)
	if err != nil {
		return err
	}
	if err := a.db.SaveOverride(ctx, entry); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s with %d variations\n", entry.Base, len(entry.Variations))
	return nil
}

// newKeyword builds an override entry with its generated spelling variations.
func newKeyword(base, description string, extra []string) (types.CustomOverrideEntry, error) {
	cleaned, ok := vocabulary.CleanPhrase(base)
	if !ok {
		return types.CustomOverrideEntry{}, fmt.Errorf("invalid keyword %q", base)
	}
	return types.CustomOverrideEntry{
		Base:        cleaned,
		Description: description,
		Variations:  overrides.GenerateVariations(cleaned, extra...),
	}, nil
}
