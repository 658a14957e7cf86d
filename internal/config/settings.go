package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"frameview/internal/frame"
)

// Settings holds all configuration options.
type Settings struct {
	// Server settings
	ServerURL             string `json:"server_url"`
	APIToken              string `json:"api_token"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`

	// Retry behavior for frame fetches
	MaxRetries    int     `json:"max_retries"`
	RetryCooldown float64 `json:"retry_cooldown"`
	RetryExponent float64 `json:"retry_exponent"`

	// Concurrency
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
	AnnotationBatchSize   int `json:"annotation_batch_size"`

	// Viewer defaults
	DefaultMode      string `json:"default_mode"` // single, composite
	ThumbnailMaxSize int    `json:"thumbnail_max_size"`

	// Output
	OutputPath string `json:"output_path"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		ServerURL:             "http://localhost:8080/api/v1",
		RequestTimeoutSeconds: 30,

		MaxRetries:    5,
		RetryCooldown: 0.2,
		RetryExponent: 4.0,

		MaxConcurrentRequests: 4,
		AnnotationBatchSize:   50,

		DefaultMode:      "composite",
		ThumbnailMaxSize: 1024,

		OutputPath: filepath.Join(homeDir, "frameview"),
	}
}

// Load reads settings from a JSON file. A missing file yields the
// defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (s *Settings) validate() error {
	if s.ServerURL == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	switch s.DefaultMode {
	case "single", "composite":
	default:
		return fmt.Errorf("default_mode %q: must be \"single\" or \"composite\"", s.DefaultMode)
	}
	if s.MaxRetries < 1 {
		return fmt.Errorf("max_retries %d: must be >= 1", s.MaxRetries)
	}
	if s.MaxConcurrentRequests < 1 {
		return fmt.Errorf("max_concurrent_requests %d: must be >= 1", s.MaxConcurrentRequests)
	}
	if s.AnnotationBatchSize < 1 {
		return fmt.Errorf("annotation_batch_size %d: must be >= 1", s.AnnotationBatchSize)
	}
	return nil
}

// Mode converts the configured default mode to a frame.Mode.
func (s *Settings) Mode() frame.Mode {
	if s.DefaultMode == "single" {
		return frame.ModeSingle
	}
	return frame.ModeComposite
}
