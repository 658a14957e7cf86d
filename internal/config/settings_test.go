package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defaults := DefaultSettings()
	if settings.ServerURL != defaults.ServerURL || settings.MaxRetries != defaults.MaxRetries {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid overrides", `{"server_url": "http://host/api/v1", "max_retries": 3}`, false},
		{"empty server url", `{"server_url": ""}`, true},
		{"bad mode", `{"default_mode": "blend"}`, true},
		{"zero retries", `{"max_retries": 0}`, true},
		{"negative retries", `{"max_retries": -2}`, true},
		{"zero concurrency", `{"max_concurrent_requests": 0}`, true},
		{"zero batch size", `{"annotation_batch_size": 0}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.ServerURL = "http://images.example.org/api/v1"
	settings.DefaultMode = "single"
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ServerURL != settings.ServerURL || loaded.DefaultMode != "single" {
		t.Errorf("loaded = %+v, want saved values", loaded)
	}
}
