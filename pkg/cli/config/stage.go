package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

//go:embed stages.toml
var defaultStages []byte

// Stage holds the path of the stage form configuration
type Stage struct {
	path string
}

func (x *Stage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "stage-config",
			Usage:       "TOML file defining the lifecycle stage forms. Built-in forms are used when empty",
			Category:    "Stage",
			Sources:     cli.EnvVars("THEMIS_STAGE_CONFIG"),
			Destination: &x.path,
		},
	}
}

func (x Stage) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the stage forms from the configured file, or the built-in ones
func (x *Stage) Configure() (*domainConfig.StageSchemas, error) {
	if x.path == "" {
		return ParseStageSchemas(defaultStages)
	}
	return LoadStageSchemas(x.path)
}

type stageFile struct {
	Stages []stageEntry `toml:"stage"`
}

type stageEntry struct {
	ID          string       `toml:"id"`
	Name        string       `toml:"name"`
	Description string       `toml:"description"`
	Fields      []fieldEntry `toml:"field"`
}

type fieldEntry struct {
	ID          string        `toml:"id"`
	Name        string        `toml:"name"`
	Type        string        `toml:"type"`
	Required    bool          `toml:"required"`
	Description string        `toml:"description"`
	Options     []optionEntry `toml:"option"`
}

type optionEntry struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

var (
	fieldIDPattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	optionIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9\-_]*$`)
)

// LoadStageSchemas reads and validates a stage form file
func LoadStageSchemas(path string) (*domainConfig.StageSchemas, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "stage config does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read stage config", goerr.V(ConfigPathKey, path))
	}

	schemas, err := ParseStageSchemas(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load stage config", goerr.V(ConfigPathKey, path))
	}
	return schemas, nil
}

// ParseStageSchemas decodes TOML stage forms. Stages not present in the file have no form.
func ParseStageSchemas(data []byte) (*domainConfig.StageSchemas, error) {
	var file stageFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML", goerr.V("cause", err.Error()))
	}

	seen := make(map[types.Stage]bool)
	schemas := make([]*domainConfig.StageSchema, 0, len(file.Stages))
	for _, entry := range file.Stages {
		schema, err := entry.toSchema()
		if err != nil {
			return nil, err
		}
		if seen[schema.Stage] {
			return nil, goerr.Wrap(ErrDuplicateStage, "stage defined twice", goerr.V(StageKey, schema.Stage))
		}
		seen[schema.Stage] = true
		schemas = append(schemas, schema)
	}

	return domainConfig.NewStageSchemas(schemas...), nil
}

func (e stageEntry) toSchema() (*domainConfig.StageSchema, error) {
	stage := types.Stage(e.ID)
	if !stage.IsValid() {
		return nil, goerr.Wrap(ErrInvalidStage, "invalid stage ID", goerr.V(StageKey, e.ID))
	}
	if e.Name == "" {
		return nil, goerr.Wrap(ErrMissingName, "stage name is required", goerr.V(StageKey, e.ID))
	}

	schema := &domainConfig.StageSchema{
		Stage:       stage,
		Name:        e.Name,
		Description: e.Description,
		Fields:      make([]domainConfig.FieldDefinition, 0, len(e.Fields)),
	}

	fieldIDs := make(map[string]bool)
	for i, f := range e.Fields {
		def, err := f.toDefinition()
		if err != nil {
			return nil, goerr.Wrap(err, "invalid field", goerr.V(StageKey, e.ID), goerr.V(FieldIndexKey, i))
		}
		if fieldIDs[def.ID] {
			return nil, goerr.Wrap(ErrDuplicateFieldID, "field defined twice", goerr.V(StageKey, e.ID), goerr.V(FieldIDKey, def.ID))
		}
		fieldIDs[def.ID] = true
		schema.Fields = append(schema.Fields, def)
	}

	return schema, nil
}

func (f fieldEntry) toDefinition() (domainConfig.FieldDefinition, error) {
	var def domainConfig.FieldDefinition

	if !fieldIDPattern.MatchString(f.ID) {
		return def, goerr.Wrap(ErrInvalidFieldID, "field ID must be lower snake case", goerr.V(FieldIDKey, f.ID))
	}
	if f.Name == "" {
		return def, goerr.Wrap(ErrMissingName, "field name is required", goerr.V(FieldIDKey, f.ID))
	}

	fieldType := types.FieldType(f.Type)
	if !fieldType.IsValid() {
		return def, goerr.Wrap(ErrInvalidFieldType, "unknown field type", goerr.V(FieldIDKey, f.ID), goerr.V(FieldTypeKey, f.Type))
	}

	switch {
	case fieldType.HasOptions() && len(f.Options) == 0:
		return def, goerr.Wrap(ErrMissingOptions, "field has no options", goerr.V(FieldIDKey, f.ID))
	case !fieldType.HasOptions() && len(f.Options) > 0:
		return def, goerr.Wrap(ErrUnexpectedOptions, "field must not have options", goerr.V(FieldIDKey, f.ID), goerr.V(FieldTypeKey, f.Type))
	}

	def = domainConfig.FieldDefinition{
		ID:          f.ID,
		Name:        f.Name,
		Type:        fieldType,
		Required:    f.Required,
		Description: f.Description,
	}

	optionIDs := make(map[string]bool)
	for i, o := range f.Options {
		if !optionIDPattern.MatchString(o.ID) {
			return def, goerr.Wrap(ErrInvalidFieldID, "invalid option ID", goerr.V(FieldIDKey, f.ID), goerr.V(OptionIDKey, o.ID), goerr.V(OptionIndexKey, i))
		}
		if o.Name == "" {
			return def, goerr.Wrap(ErrMissingName, "option name is required", goerr.V(FieldIDKey, f.ID), goerr.V(OptionIDKey, o.ID))
		}
		if optionIDs[o.ID] {
			return def, goerr.Wrap(ErrDuplicateOptionID, "option defined twice", goerr.V(FieldIDKey, f.ID), goerr.V(OptionIDKey, o.ID))
		}
		optionIDs[o.ID] = true
		def.Options = append(def.Options, domainConfig.FieldOption{
			ID:          o.ID,
			Name:        o.Name,
			Description: o.Description,
		})
	}

	return def, nil
}
