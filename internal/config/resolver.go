// Package config resolves runtime settings from the config file,
// environment variables, and CLI flags, with later sources winning.
// Every resolved value records where it came from.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath  string
	CLIDBPath   string
	CLISchema   string
	CLIDistrict string
	CLILLM      string
}

type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath     ResolvedValue `json:"db_path"`
	SchemaPath ResolvedValue `json:"schema_path"`
	District   ResolvedValue `json:"district"`

	LLMProvider ResolvedValue `json:"llm_provider"`
	LLMModel    ResolvedValue `json:"llm_model"`
	LLMAPIKey   ResolvedValue `json:"llm_api_key"`
}

type fileConfig struct {
	DBPath     string `yaml:"db_path"`
	SchemaPath string `yaml:"schema_path"`
	District   string `yaml:"district"`
	LLM        struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"llm"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".firfill", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.SchemaPath, cfg.SchemaPath, SourceConfig, path)
		apply(&out.District, cfg.District, SourceConfig, path)
		apply(&out.LLMProvider, cfg.LLM.Provider, SourceConfig, path)
		apply(&out.LLMModel, cfg.LLM.Model, SourceConfig, path)
		apply(&out.LLMAPIKey, cfg.LLM.APIKey, SourceConfig, path)
	}

	applyEnv(&out.DBPath, "FIRFILL_DB")
	applyEnv(&out.SchemaPath, "FIRFILL_SCHEMA")
	applyEnv(&out.District, "FIRFILL_DISTRICT")
	applyEnv(&out.LLMProvider, "FIRFILL_LLM")

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.SchemaPath, opts.CLISchema, SourceCLI, "--schema")
	apply(&out.District, opts.CLIDistrict, SourceCLI, "--district")
	apply(&out.LLMProvider, opts.CLILLM, SourceCLI, "--llm")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}
	if out.SchemaPath.Value != "" {
		out.SchemaPath.Value = expandUserPath(out.SchemaPath.Value)
	}

	return out, nil
}

// EffectiveLLM returns the provider spec to use, falling back to the
// built-in default. A bare "provider/model" string in the provider
// field carries the model.
func (r ResolvedConfig) EffectiveLLM(fallback string) ResolvedValue {
	if strings.TrimSpace(r.LLMProvider.Value) != "" {
		spec := r.LLMProvider.Value
		if !strings.Contains(spec, "/") && strings.TrimSpace(r.LLMModel.Value) != "" {
			spec = spec + "/" + r.LLMModel.Value
		}
		return ResolvedValue{Value: spec, Source: r.LLMProvider.Source, From: r.LLMProvider.From}
	}
	return ResolvedValue{Value: fallback, Source: SourceDefault, From: "built-in default"}
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
