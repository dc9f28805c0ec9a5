// Package config loads floortime's YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/faizmokh/floortime/internal/category"
	"github.com/faizmokh/floortime/internal/timer"
)

// Settings is the effective runtime configuration.
type Settings struct {
	MinimumDuration  time.Duration
	DurationPolicy   timer.Policy
	DeletePassphrase string
	TickInterval     time.Duration
	SaveInterval     time.Duration
	Storage          string
	ExportFile       string
	LogLevel         string

	Uptime   []category.Category
	Downtime []category.Category
}

// Defaults returns the built-in settings used when config.yaml is absent.
func Defaults() Settings {
	catalog := category.Default()
	return Settings{
		MinimumDuration:  5 * time.Second,
		DurationPolicy:   timer.PolicyPerRun,
		DeletePassphrase: "1234",
		TickInterval:     100 * time.Millisecond,
		SaveInterval:     2 * time.Second,
		Storage:          "json",
		ExportFile:       "time_entries.csv",
		LogLevel:         "info",
		Uptime:           catalog.Uptime(),
		Downtime:         catalog.Downtime(),
	}
}

// Catalog builds the category catalog described by the settings.
func (s Settings) Catalog() (*category.Catalog, error) {
	c, err := category.New(s.Uptime, s.Downtime)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return c, nil
}

type yamlCategory struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon,omitempty"`
	Color string `yaml:"color,omitempty"`
}

type yamlCategories struct {
	Uptime   []yamlCategory `yaml:"uptime,omitempty"`
	Downtime []yamlCategory `yaml:"downtime,omitempty"`
}

type yamlSettings struct {
	MinimumDurationSeconds float64        `yaml:"minimum_duration_seconds"`
	DurationPolicy         string         `yaml:"duration_policy"`
	DeletePassphrase       string         `yaml:"delete_passphrase"`
	TickIntervalMillis     int            `yaml:"tick_interval_ms"`
	SaveIntervalMillis     int            `yaml:"save_interval_ms"`
	Storage                string         `yaml:"storage"`
	ExportFile             string         `yaml:"export_file"`
	LogLevel               string         `yaml:"log_level"`
	Categories             yamlCategories `yaml:"categories"`
}

// Load reads settings from path.
// If the file does not exist, default settings are returned.
func Load(path string) (Settings, error) {
	settings := Defaults()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	if _, err := settings.Catalog(); err != nil {
		return Defaults(), err
	}
	return settings, nil
}

// Save writes settings to path as YAML.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := Marshal(settings)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Marshal renders settings in the same YAML shape Load reads.
func Marshal(settings Settings) ([]byte, error) {
	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return nil, fmt.Errorf("marshal settings yaml: %w", err)
	}
	return serialized, nil
}

func toYamlSettings(s Settings) yamlSettings {
	return yamlSettings{
		MinimumDurationSeconds: s.MinimumDuration.Seconds(),
		DurationPolicy:         s.DurationPolicy.String(),
		DeletePassphrase:       s.DeletePassphrase,
		TickIntervalMillis:     int(s.TickInterval / time.Millisecond),
		SaveIntervalMillis:     int(s.SaveInterval / time.Millisecond),
		Storage:                s.Storage,
		ExportFile:             s.ExportFile,
		LogLevel:               s.LogLevel,
		Categories: yamlCategories{
			Uptime:   toYamlCategories(s.Uptime),
			Downtime: toYamlCategories(s.Downtime),
		},
	}
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.MinimumDurationSeconds > 0 {
		settings.MinimumDuration = time.Duration(fileData.MinimumDurationSeconds * float64(time.Second))
	}

	if fileData.DurationPolicy != "" {
		if policy, err := timer.ParsePolicy(fileData.DurationPolicy); err == nil {
			settings.DurationPolicy = policy
		}
	}

	if fileData.DeletePassphrase != "" {
		settings.DeletePassphrase = fileData.DeletePassphrase
	}

	// Ticks faster than 10ms or slower than a second make the display useless.
	if fileData.TickIntervalMillis >= 10 && fileData.TickIntervalMillis <= 1000 {
		settings.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.SaveIntervalMillis >= 100 {
		settings.SaveInterval = time.Duration(fileData.SaveIntervalMillis) * time.Millisecond
	}

	if s := strings.TrimSpace(fileData.Storage); s != "" {
		settings.Storage = strings.ToLower(s)
	}
	if f := strings.TrimSpace(fileData.ExportFile); f != "" {
		settings.ExportFile = f
	}
	if l := strings.TrimSpace(fileData.LogLevel); l != "" {
		settings.LogLevel = strings.ToLower(l)
	}

	if len(fileData.Categories.Uptime) > 0 || len(fileData.Categories.Downtime) > 0 {
		settings.Uptime = fromYamlCategories(fileData.Categories.Uptime)
		settings.Downtime = fromYamlCategories(fileData.Categories.Downtime)
	}
}

func toYamlCategories(cats []category.Category) []yamlCategory {
	out := make([]yamlCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, yamlCategory{Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	return out
}

func fromYamlCategories(cats []yamlCategory) []category.Category {
	out := make([]category.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, category.Category{Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	return out
}
