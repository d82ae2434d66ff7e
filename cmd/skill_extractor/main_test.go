package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorque/Extension-Free-backend/internal/classifier"
	"github.com/mentorque/Extension-Free-backend/internal/embedding"
	"github.com/mentorque/Extension-Free-backend/internal/skills"
	"github.com/mentorque/Extension-Free-backend/internal/types"
)

const posting = "Experience with Python and Docker. Strong communication."

// setupWorkspace writes a skills CSV and a config file into a temp dir and
// isolates the run from any database or provider set in the environment.
func setupWorkspace(t *testing.T, classifierEnabled bool) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	csvPath := filepath.Join(dir, "skills.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("name\nPython\nDocker\ncommunication\n"), 0o644))

	cfg := "skills_csv: " + csvPath + "\nembedding:\n  provider: ngram\n"
	if classifierEnabled {
		cfg += "classifier:\n  cache_dir: " + filepath.Join(dir, "cache") + "\n"
	} else {
		cfg += "classifier:\n  disabled: true\n"
	}
	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	for _, key := range []string{"DATABASE_URL", "SKILLS_CSV", "EMBEDDING_PROVIDER", "EMBEDDINGS_CACHE_DIR", "CUSTOM_KEYWORDS", "SKILL_ONTOLOGY", "PORT"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
	return dir, cfgPath
}

// resetFlags restores every flag to its default so commands can run more
// than once in the same process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command in-process and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExtractCommand_TextJSON(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)

	out, err := runCLI(t, "--config", cfgPath, "extract", "--text", posting, "--json")
	require.NoError(t, err)

	var got extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, []string{"Python", "Docker"}, got.Skills)
	assert.Equal(t, []string{"Python"}, got.Important)
	assert.Equal(t, []string{"Docker"}, got.LessImportant)
	assert.Equal(t, 2, got.Count)
	assert.Nil(t, got.Source)
	assert.Empty(t, got.RunID)
}

func TestExtractCommand_TextFile(t *testing.T) {
	dir, cfgPath := setupWorkspace(t, false)
	postingPath := filepath.Join(dir, "posting.txt")
	require.NoError(t, os.WriteFile(postingPath, []byte(posting+"\n"), 0o644))

	out, err := runCLI(t, "--config", cfgPath, "extract", "--text-file", postingPath)
	require.NoError(t, err)
	assert.Contains(t, out, "EXTRACTED SKILLS")
	assert.Contains(t, out, "• Python")
	assert.Contains(t, out, "Mode: rule-based")
	assert.NotContains(t, out, "SOURCE")
}

func TestExtractCommand_FlagErrors(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)

	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "no input",
			args:        []string{"--config", cfgPath, "extract"},
			errorString: "at least one of the flags",
		},
		{
			name:        "text and url",
			args:        []string{"--config", cfgPath, "extract", "--text", posting, "--url", "https://example.com"},
			errorString: "none of the others can be",
		},
		{
			name:        "missing file",
			args:        []string{"--config", cfgPath, "extract", "--text-file", "does-not-exist.txt"},
			errorString: "failed to read job posting",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestExtractCommand_BadConfig(t *testing.T) {
	dir, _ := setupWorkspace(t, false)
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("embedding:\n  provider: word2vec\n"), 0o644))

	_, err := runCLI(t, "--config", bad, "extract", "--text", posting)
	assert.Error(t, err)
}

func TestClassifyCommand_RuleBased(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)

	out, err := runCLI(t, "--config", cfgPath, "classify", "--json", "Python", "Docker")
	require.NoError(t, err)

	var verdicts []types.ClassificationVerdict
	require.NoError(t, json.Unmarshal([]byte(out), &verdicts), out)
	require.Len(t, verdicts, 2)
	assert.Equal(t, types.TierImportant, verdicts[0].Tier)
	assert.Equal(t, types.TierLessImportant, verdicts[1].Tier)
}

func TestClassifyCommand_Semantic(t *testing.T) {
	_, cfgPath := setupWorkspace(t, true)

	out, err := runCLI(t, "--config", cfgPath, "classify", "Kubernetes")
	require.NoError(t, err)
	assert.Contains(t, out, "KUBERNETES")
	assert.Contains(t, out, "Tier:       important")
	assert.Contains(t, out, "Confidence:")
}

func TestClassifyCommand_RequiresArgs(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)
	_, err := runCLI(t, "--config", cfgPath, "classify")
	assert.Error(t, err)
}

func TestPrecomputeCommand(t *testing.T) {
	dir, cfgPath := setupWorkspace(t, true)

	out, err := runCLI(t, "--config", cfgPath, "precompute")
	require.NoError(t, err)
	assert.Contains(t, out, "Exemplar vectors cached in "+filepath.Join(dir, "cache"))
	assert.DirExists(t, filepath.Join(dir, "cache"))
}

func TestPrecomputeCommand_ClassifierDisabled(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)
	_, err := runCLI(t, "--config", cfgPath, "precompute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestClassifyVocabCommand(t *testing.T) {
	dir, cfgPath := setupWorkspace(t, true)
	report := filepath.Join(dir, "report.csv")

	out, err := runCLI(t, "--config", cfgPath, "classify-vocab", "--out", report)
	require.NoError(t, err)
	assert.Contains(t, out, "VOCABULARY CLASSIFICATION")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "skill,category,similarity_score,is_technical", lines[0])
}

func TestClassifyVocabCommand_ClassifierDisabled(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)
	_, err := runCLI(t, "--config", cfgPath, "classify-vocab")
	require.Error(t, err)
	assert.ErrorIs(t, err, skills.ErrClassifierUnavailable)
}

func TestClassifyVocabCommand_FailureRemovesReport(t *testing.T) {
	dir, cfgPath := setupWorkspace(t, false)
	report := filepath.Join(dir, "report.csv")

	_, err := runCLI(t, "--config", cfgPath, "classify-vocab", "--out", report)
	require.ErrorIs(t, err, skills.ErrClassifierUnavailable)
	assert.NoFileExists(t, report)
}

func TestRelevantPhrases(t *testing.T) {
	c, err := classifier.New(embedding.NewNGramEmbedder(0), classifier.WithRelevanceThreshold(0.99))
	require.NoError(t, err)
	t.Cleanup(c.Close)
	a := &app{classifier: c, logger: slog.Default()}

	kept, err := a.relevantPhrases(context.Background(), []string{"Kubernetes", "zzqx wvvy", "AWS"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes", "AWS"}, kept)
}

func TestRelevantPhrases_ClassifierDisabled(t *testing.T) {
	a := &app{logger: slog.Default()}
	phrases := []string{"zzqx wvvy", "Python"}

	kept, err := a.relevantPhrases(context.Background(), phrases)
	require.NoError(t, err)
	assert.Equal(t, phrases, kept)
}

func TestDatabaseCommands_RequireDatabase(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)

	for _, args := range [][]string{
		{"--config", cfgPath, "import-skills"},
		{"--config", cfgPath, "add-keyword", "RAG"},
	} {
		_, err := runCLI(t, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL is required")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	_, cfgPath := setupWorkspace(t, false)
	t.Setenv("SKILLS_CSV", "/elsewhere/skills.csv")
	t.Setenv("PORT", "9100")
	resetFlags(rootCmd)
	configPath = cfgPath

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/skills.csv", cfg.SkillsCSV)
	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.Classifier.Disabled)
	assert.Equal(t, "name", cfg.SkillsColumn)
}

func TestNewKeyword(t *testing.T) {
	entry, err := newKeyword(` "RAG" `, "retrieval augmented generation", []string{"retrieval-augmented generation"})
	require.NoError(t, err)
	assert.Equal(t, "RAG", entry.Base)
	assert.Contains(t, entry.Variations, "R.A.G")
	assert.Contains(t, entry.Variations, "rag")
	assert.Contains(t, entry.Variations, "retrieval-augmented generation")

	_, err = newKeyword("x", "", nil)
	assert.Error(t, err)
}

func TestCLI_Help(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "--help").CombinedOutput()
	require.NoError(t, err)
	for _, sub := range []string{"serve", "extract", "classify", "precompute", "classify-vocab"} {
		assert.Contains(t, string(output), sub)
	}
}
