package internal

import (
	"log/slog"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/agenticomni/conform/internal/docs"
	"github.com/agenticomni/conform/internal/report"
	"github.com/agenticomni/conform/internal/structure"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig      `yaml:"app"`
	Docs      DocsConfig             `yaml:"docs"`
	Structure structure.Expectations `yaml:"structure"`
	History   HistoryConfig          `yaml:"history"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	return c.Structure.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	Name     string     `yaml:"name"`
	LogLevel slog.Level `yaml:"log_level"`
	Format   string     `yaml:"format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In(report.FormatText, report.FormatJSON)),
	)
}

// DocsConfig describes where documentation lives and which files are checked.
type DocsConfig struct {
	Dir       string   `yaml:"dir"`
	Extension string   `yaml:"extension"`
	Exclude   []string `yaml:"exclude"`
	Workers   int      `yaml:"workers"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Extension, validation.Required),
		validation.Field(&c.Workers, validation.Min(0), validation.Max(256)),
	)
}

// HistoryConfig holds the optional run history database. An empty path
// disables recording.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether runs are recorded.
func (c *HistoryConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			Name:     "AgenticOmni",
			LogLevel: slog.LevelWarn,
			Format:   report.FormatText,
		},
		Docs: DocsConfig{
			Dir:       "docs",
			Extension: ".md",
			Exclude:   append([]string(nil), docs.DefaultExclude...),
			Workers:   1,
		},
		Structure: structure.DefaultExpectations(),
	}
}

// ConfigPath resolves the config file name for a project root. A name given
// explicitly is used as is; the default name is looked up under root.
func ConfigPath(root, name string, explicit bool) string {
	if explicit || name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, name)
}
