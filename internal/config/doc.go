// Package config provides configuration management for frameview.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Conversion to the frame model's selection mode
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Local server, composite mode, 1024px thumbnails
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.ServerURL = "https://images.example.org/api/v1"
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Server URL and API token
//   - Request timeouts and retry behavior
//   - Concurrent request and annotation batch limits
//   - Default selection mode and thumbnail size
package config
