package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"dario.cat/mergo"
	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsondp/internal/errors"
	"github.com/mcncl/jsondp/internal/jsondp"
	"github.com/mcncl/jsondp/internal/models"
)

// ImportIDKey is the provenance key stamped on merge sources when
// provenance.import_id is enabled.
const ImportIDKey = "importId"

// Config represents the complete configuration for jsondp
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Provenance ProvenanceConfig `yaml:"provenance"`
	Dev        DevConfig        `yaml:"dev"`
}

// OutputConfig controls how documents are written
type OutputConfig struct {
	Indent         int  `yaml:"indent"`
	WithProvenance bool `yaml:"with_provenance"`
}

// ProvenanceConfig controls the blocks created by annotate and merge
type ProvenanceConfig struct {
	SourceKey     string            `yaml:"source_key"`
	NormalizeKeys bool              `yaml:"normalize_keys"`
	ImportID      bool              `yaml:"import_id"`
	Defaults      map[string]string `yaml:"defaults"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Indent:         0,
			WithProvenance: true,
		},
		Provenance: ProvenanceConfig{
			SourceKey:     "importedFrom",
			NormalizeKeys: false,
			ImportID:      false,
			Defaults:      make(map[string]string),
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsondp.yml", ".jsondp.yaml", "jsondp.yml", "jsondp.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

func (c *Config) validate() error {
	if c.Output.Indent < 0 {
		return errors.NewConfigError(
			fmt.Sprintf("output.indent must not be negative, got %d", c.Output.Indent),
			nil,
		)
	}
	if c.Provenance.SourceKey == "" {
		return errors.NewConfigError("provenance.source_key must not be empty", nil)
	}
	return nil
}

// MergeConfigs merges CLI overrides into a base config.
// Non-zero values from override take precedence over base values; base is
// left untouched.
func MergeConfigs(base, override *Config) (*Config, error) {
	merged := *base
	merged.Provenance.Defaults = maps.Clone(base.Provenance.Defaults)

	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return nil, errors.NewConfigError("failed to merge CLI overrides", err)
	}
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults. An empty configPath skips the file.
func LoadConfigWithCLI(configPath string, override *Config) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if override == nil {
		return cfg, nil
	}
	return MergeConfigs(cfg, override)
}

// OverrideIndent sets output.indent from a flag that was given explicitly,
// zero included. A nil indent leaves the config as it is.
func (c *Config) OverrideIndent(indent *int) error {
	if indent == nil {
		return nil
	}
	c.Output.Indent = *indent
	return c.validate()
}

// NormalizeKey returns the provenance key as it should be stored.
func (c *Config) NormalizeKey(key string) string {
	if c.Provenance.NormalizeKeys {
		return strcase.ToLowerCamel(key)
	}
	return key
}

// ApplyProvenance returns a copy of block with normalized keys, followed by
// the configured defaults whose keys it does not already hold. Defaults are
// added in key order. A nil result means there is no provenance to attach.
func (c *Config) ApplyProvenance(block *jsondp.Block) *jsondp.Block {
	out := jsondp.NewBlock()
	for _, k := range block.Keys() {
		v, _ := block.Get(k)
		out.Put(c.NormalizeKey(k), v)
	}
	for _, k := range slices.Sorted(maps.Keys(c.Provenance.Defaults)) {
		key := c.NormalizeKey(k)
		if _, ok := out.Get(key); ok {
			continue
		}
		out.Put(key, models.StringJSON(c.Provenance.Defaults[k]))
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

// SourceBlock builds the provenance block of one merge source:
// {source_key: name}, stamped with a fresh importId when enabled.
func (c *Config) SourceBlock(name string) *jsondp.Block {
	block := jsondp.StringBlock(c.Provenance.SourceKey, name)
	if c.Provenance.ImportID {
		block.Put(ImportIDKey, models.StringJSON(uuid.NewString()))
	}
	return c.ApplyProvenance(block)
}
