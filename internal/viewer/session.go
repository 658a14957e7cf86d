package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"frameview/internal/annotations"
	"frameview/internal/config"
	"frameview/internal/frame"
	"frameview/internal/http"
	"frameview/internal/largeimage"
	"frameview/internal/render"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a session progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Session coordinates one viewer session: it fetches an item's tile
// metadata, builds the frame model from it, renders composites and frame
// thumbnails, and decorates item listings with annotation counts.
//
// The frame model is mutated by a single goroutine (the UI); Session fans
// out only read-side fetches.
type Session struct {
	settings    *config.Settings
	httpClient  *http.Client
	parser      *largeimage.Parser
	annotations *annotations.Service
	compositor  *render.Compositor

	itemID string
	desc   *largeimage.ImageDescription
	model  *frame.Model

	onProgress func(ProgressEvent)
}

// NewSession creates a new Session.
func NewSession(settings *config.Settings, onProgress func(ProgressEvent)) *Session {
	client := http.NewClient(time.Duration(settings.RequestTimeoutSeconds)*time.Second, settings.APIToken)

	return &Session{
		settings:   settings,
		httpClient: client,
		parser:     largeimage.NewParser(),
		annotations: annotations.NewService(client, settings.ServerURL, annotations.Options{
			BatchSize:     settings.AnnotationBatchSize,
			MaxConcurrent: settings.MaxConcurrentRequests,
		}),
		compositor: render.NewCompositor(),
		onProgress: onProgress,
	}
}

// Open fetches the item's tile metadata and builds the frame model.
func (s *Session) Open(ctx context.Context, itemID string) error {
	s.progress(ProgressEvent{Message: fmt.Sprintf("Fetching tile metadata for item %s", itemID), Level: LevelVerbose})

	url := fmt.Sprintf("%s/item/%s/tiles", strings.TrimRight(s.settings.ServerURL, "/"), itemID)
	body, err := s.httpClient.Get(ctx, url)
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching metadata: %v", err), Level: LevelError})
		return err
	}

	desc, err := s.parser.ParseMetadata(body)
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error parsing metadata: %v", err), Level: LevelError})
		return err
	}

	model, err := desc.NewFrameModel(s.settings.Mode())
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error building frame model: %v", err), Level: LevelError})
		return err
	}

	s.itemID = itemID
	s.desc = desc
	s.model = model

	s.progress(ProgressEvent{
		Message: fmt.Sprintf("Opened item %s: %dx%d, %d frames, %d channels",
			itemID, desc.SizeX, desc.SizeY, desc.FrameCount, len(desc.Channels)),
		Level: LevelInfo,
	})
	return nil
}

// Model returns the session's frame model. Nil before Open succeeds.
func (s *Session) Model() *frame.Model { return s.model }

// Description returns the parsed image description. Nil before Open
// succeeds.
func (s *Session) Description() *largeimage.ImageDescription { return s.desc }

// StyleJSON returns the current style descriptor as the JSON document the
// rendering backend consumes: {"bands": [...]}.
func (s *Session) StyleJSON() ([]byte, error) {
	if s.model == nil {
		return nil, fmt.Errorf("no open session")
	}
	return json.Marshal(struct {
		Bands []frame.BandSpec `json:"bands"`
	}{Bands: s.model.BandSpecs()})
}

// RenderFrame fetches the current linear frame's thumbnail without any
// style applied (the bare frame-number path).
func (s *Session) RenderFrame(ctx context.Context) (image.Image, error) {
	if s.model == nil {
		return nil, fmt.Errorf("no open session")
	}
	return s.fetchFrame(ctx, s.model.LinearFrame())
}

// RenderComposite builds the style descriptor from the model and
// composites the enabled channels into one image.
func (s *Session) RenderComposite(ctx context.Context) (*image.NRGBA, error) {
	if s.model == nil {
		return nil, fmt.Errorf("no open session")
	}

	specs := s.model.BandSpecs()
	s.progress(ProgressEvent{Message: fmt.Sprintf("Compositing %d band(s)", len(specs)), Level: LevelVerbose})

	img, err := s.compositor.Composite(ctx, specs, s.fetchFrame)
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error compositing: %v", err), Level: LevelError})
		return nil, err
	}

	s.progress(ProgressEvent{Message: "Composite rendered", Level: LevelSuccess})
	return img, nil
}

// AutoWindow scans one channel's frame and sets the channel's intensity
// bounds to the observed range, so low-contrast channels become visible.
func (s *Session) AutoWindow(ctx context.Context, channelName string) error {
	if s.model == nil {
		return fmt.Errorf("no open session")
	}
	c, err := s.model.Channel(channelName)
	if err != nil {
		return err
	}

	// scan the channel's own frame, not the composite
	img, err := s.fetchFrame(ctx, s.model.FrameForChannel(c.Number))
	if err != nil {
		return err
	}

	min, max := render.ScanMinMax(img)
	if max <= min {
		s.progress(ProgressEvent{
			Message: fmt.Sprintf("Channel %s is flat; leaving bounds unchanged", channelName),
			Level:   LevelWarning,
		})
		return nil
	}
	return s.model.SetChannelStyle(channelName, frame.StylePatch{
		Min: frame.Float(min),
		Max: frame.Float(max),
	})
}

// DecorateItems returns the annotation count for each item in a listing.
func (s *Session) DecorateItems(ctx context.Context, itemIDs []string) (map[string]int, error) {
	counts, err := s.annotations.Counts(ctx, itemIDs)
	if err != nil {
		s.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching annotation counts: %v", err), Level: LevelError})
		return nil, err
	}
	return counts, nil
}

// PrefetchFrames warms the HTTP cache for a span of frames around the
// current one, fetching concurrently. Fetch failures are reported as
// warnings, not errors; prefetching is best-effort.
func (s *Session) PrefetchFrames(ctx context.Context, radius int) {
	if s.model == nil || radius <= 0 {
		return
	}
	current := s.model.LinearFrame()

	limit := s.settings.MaxConcurrentRequests
	if limit < 1 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for offset := -radius; offset <= radius; offset++ {
		n := current + offset
		if n < 0 || n > s.model.MaxFrame() || n == current {
			continue
		}
		g.Go(func() error {
			if _, err := s.fetchFrame(ctx, n); err != nil {
				s.progress(ProgressEvent{Message: fmt.Sprintf("Prefetch of frame %d failed: %v", n, err), Level: LevelWarning})
			}
			return nil
		})
	}
	_ = g.Wait()
}

// fetchFrame downloads one frame's thumbnail, retrying with exponential
// cooldown.
func (s *Session) fetchFrame(ctx context.Context, frameNumber int) (image.Image, error) {
	url := fmt.Sprintf("%s/item/%s/tiles/thumbnail?frame=%d&width=%d&height=%d",
		strings.TrimRight(s.settings.ServerURL, "/"), s.itemID, frameNumber,
		s.settings.ThumbnailMaxSize, s.settings.ThumbnailMaxSize)

	// At least one attempt even if the settings bypassed validation.
	retries := s.settings.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var img image.Image
	var err error
	for tries := 0; tries < retries; tries++ {
		img, err = s.httpClient.GetImage(ctx, url)
		if err == nil {
			return img, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		s.progress(ProgressEvent{
			Message: fmt.Sprintf("Retry %d/%d for frame %d", tries+1, s.settings.MaxRetries, frameNumber),
			Level:   LevelWarning,
		})
		s.waitForRetry(ctx, tries)
	}
	return nil, err
}

func (s *Session) waitForRetry(ctx context.Context, tries int) {
	cooldown := s.settings.RetryCooldown * math.Pow(s.settings.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (s *Session) progress(event ProgressEvent) {
	if s.onProgress != nil {
		s.onProgress(event)
	}
}
