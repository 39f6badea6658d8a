package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestStage_DefaultForms(t *testing.T) {
	schemas, err := config.NewStageForTest("").Configure()
	gt.NoError(t, err).Required()

	list := schemas.List()
	gt.Array(t, list).Length(8).Required()
	for i, stage := range types.AllStages() {
		gt.Value(t, list[i].Stage).Equal(stage)
		gt.Number(t, len(list[i].RequiredFieldIDs())).Describef("stage %s has required fields", stage).GreaterOrEqual(1)
	}

	basic, ok := schemas.Get(types.StageBasicInfo)
	gt.B(t, ok).True()
	categories, ok := basic.Field("data_categories")
	gt.B(t, ok).True()
	gt.Value(t, categories.Type).Equal(types.FieldTypeMultiSelect)
	gt.Array(t, categories.OptionIDs()).Equal([]string{"personal", "sensitive", "biometric", "public", "proprietary", "synthetic"})

	deployment, _ := schemas.Get(types.StageDeployment)
	env, ok := deployment.Field("environment")
	gt.B(t, ok).True()
	gt.B(t, env.Required).True()
	gt.Value(t, env.Type).Equal(types.FieldTypeSelect)

	docURL, ok := deployment.Field("documentation_url")
	gt.B(t, ok).True()
	gt.Value(t, docURL.Type).Equal(types.FieldTypeURL)
}

func TestParseStageSchemas(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name: "valid single stage",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "architecture"
  name = "Architecture"
  type = "text"
  required = true

  [[stage.field]]
  id = "model_approach"
  name = "Model approach"
  type = "select"

    [[stage.field.option]]
    id = "llm"
    name = "LLM"
`,
		},
		{
			name:    "broken toml",
			content: `[[stage]`,
			wantErr: config.ErrInvalidConfig,
		},
		{
			name: "unknown stage",
			content: `
[[stage]]
id = "launch"
name = "Launch"
`,
			wantErr: config.ErrInvalidStage,
		},
		{
			name: "duplicate stage",
			content: `
[[stage]]
id = "design"
name = "Design"

[[stage]]
id = "design"
name = "Design again"
`,
			wantErr: config.ErrDuplicateStage,
		},
		{
			name: "missing stage name",
			content: `
[[stage]]
id = "design"
`,
			wantErr: config.ErrMissingName,
		},
		{
			name: "invalid field ID",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "Model-Approach"
  name = "Model approach"
  type = "text"
`,
			wantErr: config.ErrInvalidFieldID,
		},
		{
			name: "duplicate field ID",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "architecture"
  name = "Architecture"
  type = "text"

  [[stage.field]]
  id = "architecture"
  name = "Architecture 2"
  type = "text"
`,
			wantErr: config.ErrDuplicateFieldID,
		},
		{
			name: "unknown field type",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "budget"
  name = "Budget"
  type = "number"
`,
			wantErr: config.ErrInvalidFieldType,
		},
		{
			name: "select without options",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "model_approach"
  name = "Model approach"
  type = "select"
`,
			wantErr: config.ErrMissingOptions,
		},
		{
			name: "options on text field",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "architecture"
  name = "Architecture"
  type = "text"

    [[stage.field.option]]
    id = "a"
    name = "A"
`,
			wantErr: config.ErrUnexpectedOptions,
		},
		{
			name: "duplicate option",
			content: `
[[stage]]
id = "design"
name = "Design"

  [[stage.field]]
  id = "model_approach"
  name = "Model approach"
  type = "multi-select"

    [[stage.field.option]]
    id = "llm"
    name = "LLM"

    [[stage.field.option]]
    id = "llm"
    name = "LLM again"
`,
			wantErr: config.ErrDuplicateOptionID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schemas, err := config.ParseStageSchemas([]byte(tt.content))
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.Array(t, schemas.List()).Length(1)
		})
	}
}

func TestLoadStageSchemas(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stages.toml")
		gt.NoError(t, os.WriteFile(path, []byte(`
[[stage]]
id = "retirement"
name = "Retirement"

  [[stage.field]]
  id = "data_disposal"
  name = "Data disposal"
  type = "text"
  required = true
`), 0600)).Required()

		schemas, err := config.NewStageForTest(path).Configure()
		gt.NoError(t, err).Required()
		_, ok := schemas.Get(types.StageRetirement)
		gt.B(t, ok).True()
		_, ok = schemas.Get(types.StageDesign)
		gt.B(t, ok).False()
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadStageSchemas(filepath.Join(t.TempDir(), "nope.toml"))
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})
}
