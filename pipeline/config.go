package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ivande/combiner/core/model"
	"github.com/ivande/combiner/pkg/errors"
	"github.com/ivande/combiner/transformers"
	"gopkg.in/yaml.v3"
)

// Step types accepted in a pipeline definition.
const (
	TypeCalendarExtractor        = "calendar_extractor"
	TypeNoInfoFeatureRemover     = "no_info_feature_remover"
	TypeOutlierRemover           = "outlier_remover"
	TypeWithAnotherColumnImputer = "with_another_column_imputer"
	TypeCatCaster                = "cat_caster"
	TypeFeaturesOrder            = "features_order"
	TypeScalerPicker             = "scaler_picker"
	TypeSimpleImputerPicker      = "simple_imputer_picker"
)

// Config is a pipeline definition.
//
//	steps:
//	  - name: dates
//	    type: calendar_extractor
//	    date_col: ds
//	    calendar_level: 3
//	  - type: scaler_picker
//	    columns: [amount]
//	    scaler_type: robust
type Config struct {
	Steps []StepConfig `yaml:"steps"`
}

// StepConfig holds the keys of every step type. Name defaults to Type.
type StepConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// calendar_extractor
	DateCol       string `yaml:"date_col"`
	CalendarLevel *int   `yaml:"calendar_level"`

	// no_info_feature_remover
	ColsToExcept []string `yaml:"cols_to_except"`
	Verbose      bool     `yaml:"verbose"`

	// outlier_remover, cat_caster, scaler_picker, simple_imputer_picker
	Columns []string `yaml:"columns"`
	Method  string   `yaml:"method"`

	// with_another_column_imputer: target → source
	Mapping map[string]string `yaml:"mapping"`

	// features_order
	Order []string `yaml:"order"`

	ScalerType string `yaml:"scaler_type"`

	// simple_imputer_picker
	Strategy       string                       `yaml:"strategy"`
	ConstantGroups []transformers.ConstantGroup `yaml:"constant_groups"`
}

// LoadConfig decodes a YAML pipeline definition. Unknown keys are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parse pipeline config")
	}
	return &cfg, nil
}

// LoadConfigFile reads a definition from path, expanding ${VAR} references
// from the environment first.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read pipeline config %s", path)
	}
	return LoadConfig(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
}

// Build creates the pipeline described by cfg.
func Build(cfg *Config) (*Pipeline, error) {
	if cfg == nil || len(cfg.Steps) == 0 {
		return nil, errors.NewValidationError("steps", "pipeline needs at least one step", nil)
	}
	steps := make([]Step, 0, len(cfg.Steps))
	for i, sc := range cfg.Steps {
		tr, err := buildStep(sc)
		if err != nil {
			return nil, errors.Wrapf(err, "build step %d (%s)", i, sc.Type)
		}
		name := sc.Name
		if name == "" {
			name = sc.Type
		}
		steps = append(steps, Step{Name: name, Transformer: tr})
	}
	return New(steps...)
}

func buildStep(sc StepConfig) (model.Transformer, error) {
	switch sc.Type {
	case TypeCalendarExtractor:
		var opts []transformers.CalendarOption
		if sc.CalendarLevel != nil {
			opts = append(opts, transformers.WithCalendarLevel(*sc.CalendarLevel))
		}
		return transformers.NewCalendarExtractor(sc.DateCol, opts...)
	case TypeNoInfoFeatureRemover:
		return transformers.NewNoInfoFeatureRemover(
			transformers.WithExceptColumns(sc.ColsToExcept...),
			transformers.WithVerbose(sc.Verbose),
		)
	case TypeOutlierRemover:
		var opts []transformers.OutlierOption
		if sc.Method != "" {
			opts = append(opts, transformers.WithOutlierMethod(sc.Method))
		}
		return transformers.NewOutlierRemover(sc.Columns, opts...)
	case TypeWithAnotherColumnImputer:
		return transformers.NewWithAnotherColumnImputer(sc.Mapping)
	case TypeCatCaster:
		return transformers.NewCatCaster(sc.Columns)
	case TypeFeaturesOrder:
		return transformers.NewFeaturesOrder(sc.Order)
	case TypeScalerPicker:
		var opts []transformers.ScalerOption
		if sc.ScalerType != "" {
			opts = append(opts, transformers.WithScalerType(sc.ScalerType))
		}
		return transformers.NewScalerPicker(sc.Columns, opts...)
	case TypeSimpleImputerPicker:
		var opts []transformers.ImputerOption
		if sc.Strategy != "" {
			opts = append(opts, transformers.WithStrategy(sc.Strategy))
		}
		if len(sc.ConstantGroups) > 0 {
			opts = append(opts, transformers.WithConstantGroups(sc.ConstantGroups...))
		}
		if sc.Columns != nil {
			opts = append(opts, transformers.WithImputeColumns(sc.Columns...))
		}
		return transformers.NewSimpleImputerPicker(opts...)
	default:
		return nil, errors.NewValidationError("type", fmt.Sprintf("unknown step type %q", sc.Type), sc.Type)
	}
}
