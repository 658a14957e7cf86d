package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"frameview/internal/config"
	"frameview/internal/frame"
)

const testMetadata = `{
	"sizeX": 64, "sizeY": 64, "tileWidth": 64, "tileHeight": 64, "levels": 1,
	"frames": [
		{"Frame": 0, "IndexC": 0}, {"Frame": 1, "IndexC": 1}
	],
	"IndexRange": {"IndexC": 2},
	"IndexStride": {"IndexC": 1},
	"channels": ["nuclei", "membrane"],
	"channelmap": {"nuclei": 0, "membrane": 1}
}`

// newTestServer serves tile metadata, per-frame thumbnails (frame 0 dark,
// frame 1 bright), and annotation counts.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/item/abc/tiles", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testMetadata)
	})
	mux.HandleFunc("/item/abc/tiles/thumbnail", func(w http.ResponseWriter, r *http.Request) {
		n, _ := strconv.Atoi(r.URL.Query().Get("frame"))
		img := image.NewGray(image.Rect(0, 0, 8, 8))
		value := uint8(64)
		if n == 1 {
			value = 255
		}
		for i := range img.Pix {
			img.Pix[i] = value
		}
		if err := png.Encode(w, img); err != nil {
			t.Errorf("encoding thumbnail: %v", err)
		}
	})
	mux.HandleFunc("/annotation/counts", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]int{"abc": 12}); err != nil {
			t.Errorf("encoding counts: %v", err)
		}
	})

	return httptest.NewServer(mux)
}

func testSettings(serverURL string) *config.Settings {
	settings := config.DefaultSettings()
	settings.ServerURL = serverURL
	settings.MaxRetries = 1
	settings.ThumbnailMaxSize = 8
	return settings
}

func TestSession_Open(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	session := NewSession(testSettings(srv.URL), nil)
	if err := session.Open(context.Background(), "abc"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	desc := session.Description()
	if desc.FrameCount != 2 {
		t.Errorf("FrameCount = %d, want 2", desc.FrameCount)
	}

	m := session.Model()
	channels := m.Channels()
	if len(channels) != 2 || channels[0].Name != "nuclei" {
		t.Fatalf("channels = %+v, want nuclei/membrane", channels)
	}
}

func TestSession_StyleJSON(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	session := NewSession(testSettings(srv.URL), nil)
	if err := session.Open(context.Background(), "abc"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	m := session.Model()
	if err := m.ToggleChannelEnabled("membrane", true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChannelStyle("nuclei", frame.StylePatch{FalseColor: frame.String("#0000ff")}); err != nil {
		t.Fatal(err)
	}

	data, err := session.StyleJSON()
	if err != nil {
		t.Fatalf("StyleJSON failed: %v", err)
	}

	var style struct {
		Bands []map[string]any `json:"bands"`
	}
	if err := json.Unmarshal(data, &style); err != nil {
		t.Fatalf("style JSON invalid: %v", err)
	}
	if len(style.Bands) != 2 {
		t.Fatalf("band count = %d, want 2", len(style.Bands))
	}
	if style.Bands[0]["palette"] != "#0000ff" {
		t.Errorf("bands[0].palette = %v, want #0000ff", style.Bands[0]["palette"])
	}
	// default bounds must be omitted from the wire format
	if _, present := style.Bands[0]["min"]; present {
		t.Error("bands[0].min should be omitted at defaults")
	}
}

func TestSession_RenderComposite(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	session := NewSession(testSettings(srv.URL), nil)
	ctx := context.Background()
	if err := session.Open(ctx, "abc"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	m := session.Model()
	if err := m.ToggleChannelEnabled("membrane", true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChannelStyle("nuclei", frame.StylePatch{FalseColor: frame.String("#ff0000")}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetChannelStyle("membrane", frame.StylePatch{FalseColor: frame.String("#00ff00")}); err != nil {
		t.Fatal(err)
	}

	img, err := session.RenderComposite(ctx)
	if err != nil {
		t.Fatalf("RenderComposite failed: %v", err)
	}

	c := img.NRGBAAt(0, 0)
	// frame 1 (membrane) is full intensity: green channel saturated
	if c.G != 0xff {
		t.Errorf("pixel green = %d, want 255", c.G)
	}
	// frame 0 (nuclei) is dim: red present but not saturated
	if c.R == 0 || c.R == 0xff {
		t.Errorf("pixel red = %d, want partial intensity", c.R)
	}
}

func TestSession_AutoWindow(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	session := NewSession(testSettings(srv.URL), nil)
	ctx := context.Background()
	if err := session.Open(ctx, "abc"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// thumbnails are flat; AutoWindow must warn and keep the defaults
	var warned bool
	session.onProgress = func(e ProgressEvent) {
		if e.Level == LevelWarning {
			warned = true
		}
	}
	if err := session.AutoWindow(ctx, "nuclei"); err != nil {
		t.Fatalf("AutoWindow failed: %v", err)
	}
	if !warned {
		t.Error("expected flat-channel warning")
	}
	c, _ := session.Model().Channel("nuclei")
	if c.Min != frame.DefaultMin || c.Max != frame.DefaultMax {
		t.Errorf("bounds changed to [%g, %g] on flat channel", c.Min, c.Max)
	}
}

func TestSession_DecorateItems(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	session := NewSession(testSettings(srv.URL), nil)
	counts, err := session.DecorateItems(context.Background(), []string{"abc"})
	if err != nil {
		t.Fatalf("DecorateItems failed: %v", err)
	}
	if counts["abc"] != 12 {
		t.Errorf("count = %d, want 12", counts["abc"])
	}
}

func TestSession_RenderComposite_ZeroedLimits(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	// Settings built by hand can skip Load's validation; a session must
	// still make at least one fetch attempt and bound its prefetching.
	settings := testSettings(srv.URL)
	settings.MaxRetries = 0
	settings.MaxConcurrentRequests = 0

	session := NewSession(settings, nil)
	ctx := context.Background()
	if err := session.Open(ctx, "abc"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	img, err := session.RenderComposite(ctx)
	if err != nil {
		t.Fatalf("RenderComposite failed: %v", err)
	}
	if img == nil {
		t.Fatal("RenderComposite returned nil image")
	}

	// must return rather than deadlock on a zero concurrency limit
	session.PrefetchFrames(ctx, 1)
}

func TestSession_RenderBeforeOpen(t *testing.T) {
	session := NewSession(testSettings("http://localhost:1"), nil)
	if _, err := session.RenderComposite(context.Background()); err == nil {
		t.Error("expected error before Open")
	}
	if _, err := session.StyleJSON(); err == nil {
		t.Error("expected error before Open")
	}
}
