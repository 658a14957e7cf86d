// Package http provides an HTTP client configured for large-image server
// API requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - API token authentication (Girder-Token header)
//   - JSON endpoint decoding
//   - Frame/thumbnail image decoding
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(30*time.Second, token)
//
//	// Fetch tile metadata as JSON
//	var meta dto.JSONTileMetadata
//	err := client.GetJSON(ctx, serverURL+"/item/"+itemID+"/tiles", &meta)
//
//	// Fetch a frame thumbnail
//	img, err := client.GetImage(ctx, serverURL+"/item/"+itemID+"/tiles/thumbnail?frame=7")
//
// Retrying is left to callers (see internal/viewer), which apply
// exponential cooldown between attempts.
package http
