package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"net/http"
	"time"
)

// tokenHeader is the authentication header the CMS expects.
const tokenHeader = "Girder-Token"

// Client wraps HTTP operations with server-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - Optional API token authentication
//   - JSON endpoint decoding
//   - Image payload decoding (PNG/JPEG frame thumbnails)
//
// Example usage:
//
//	client := NewClient(30*time.Second, token)
//
//	// Fetch tile metadata
//	var meta dto.JSONTileMetadata
//	err := client.GetJSON(ctx, server+"/item/"+id+"/tiles", &meta)
//
//	// Fetch one frame as an image
//	img, err := client.GetImage(ctx, server+"/item/"+id+"/tiles/thumbnail?frame=3")
type Client struct {
	httpClient *http.Client
	userAgent  string
	token      string
}

// NewClient creates a new HTTP client for the large-image server.
//
// The token is sent in the Girder-Token header on every request; pass ""
// for anonymous access.
func NewClient(timeout time.Duration, token string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "frameview",
		token:     token,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent and, when set, the API
// token header.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON response into v.
//
// Example:
//
//	var counts map[string]int
//	err := client.GetJSON(ctx, server+"/annotation/counts?items=a,b", &counts)
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", url, err)
	}
	return nil
}

// GetImage performs a GET request and decodes the response body as an
// image. PNG and JPEG are supported, which covers the encodings the
// server emits for frame thumbnails and tiles.
func (c *Client) GetImage(ctx context.Context, url string) (image.Image, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding image from %s: %w", url, err)
	}
	return img, nil
}
