package cli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func writeStageConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stages.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestRun_ValidateCommand_BuiltinForms(t *testing.T) {
	err := cli.Run(context.Background(), []string{"themis", "validate"}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_ValidConfig(t *testing.T) {
	path := writeStageConfig(t, `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "architecture"
  name = "Architecture"
  type = "text"
  required = true

  [[stage.field]]
  id = "model_family"
  name = "Model family"
  type = "select"

    [[stage.field.option]]
    id = "gbdt"
    name = "Gradient boosting"

    [[stage.field.option]]
    id = "llm"
    name = "Large language model"
`)

	err := cli.Run(context.Background(), []string{
		"themis", "validate",
		"--stage-config", path,
	}, "test")
	gt.NoError(t, err)
}

func TestRun_ValidateCommand_InvalidConfig(t *testing.T) {
	path := writeStageConfig(t, `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "architecture"
  name = "Architecture"
  type = "essay"
`)

	err := cli.Run(context.Background(), []string{
		"themis", "validate",
		"--stage-config", path,
	}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_UnknownStage(t *testing.T) {
	path := writeStageConfig(t, `
[[stage]]
id = "monitoring"
name = "Monitoring"
`)

	err := cli.Run(context.Background(), []string{
		"themis", "validate",
		"--stage-config", path,
	}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_MissingConfigFile(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"themis", "validate",
		"--stage-config", filepath.Join(t.TempDir(), "missing.toml"),
	}, "test")
	gt.Value(t, err).NotNil()
}

func TestRun_ValidateCommand_CheckDB(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"themis", "validate",
		"--check-db",
		"--repository-backend", "memory",
	}, "test")
	gt.NoError(t, err)
}

func TestRun_SuggestCommand_RequiresModel(t *testing.T) {
	t.Setenv("THEMIS_GEMINI_PROJECT", "")

	err := cli.Run(context.Background(), []string{
		"themis", "suggest",
		"--project-id", "3f0c1e1a-8b9e-4c55-9a53-0d6f5c1d2e3f",
		"--flow", "risk-analysis",
		"--repository-backend", "memory",
	}, "test")
	gt.Error(t, err).Is(usecase.ErrLLMNotConfigured)
}

func TestRun_SuggestCommand_RequiresBucketWithFirestore(t *testing.T) {
	t.Setenv("THEMIS_STORAGE_BUCKET", "")

	err := cli.Run(context.Background(), []string{
		"themis", "suggest",
		"--project-id", "3f0c1e1a-8b9e-4c55-9a53-0d6f5c1d2e3f",
		"--flow", "document",
		"--repository-backend", "firestore",
		"--firestore-project-id", "themis-test",
	}, "test")
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}
