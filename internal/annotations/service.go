package annotations

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"frameview/internal/http"
)

// Options configures a Service. Zero values fall back to the defaults.
type Options struct {
	// BatchSize is the maximum number of item IDs per request.
	// Default 50.
	BatchSize int

	// MaxConcurrent is the maximum number of in-flight batch requests.
	// Default 4.
	MaxConcurrent int
}

// Service fetches annotation counts for items, with batching and caching.
//
// Counts are cached per item ID; repeated decoration of the same listing
// does not hit the server again. Service is safe for concurrent use.
type Service struct {
	client    *http.Client
	serverURL string
	opts      Options

	mu    sync.Mutex
	cache map[string]int
}

// NewService creates an annotation-count Service for the given server.
func NewService(client *http.Client, serverURL string, opts Options) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	return &Service{
		client:    client,
		serverURL: strings.TrimRight(serverURL, "/"),
		opts:      opts,
		cache:     make(map[string]int),
	}
}

// Counts returns the annotation count for every requested item ID.
//
// IDs already in the cache are served from it; the rest are fetched in
// batches of at most BatchSize, up to MaxConcurrent batches in flight.
// Items the endpoint omits from its response are reported as 0.
//
// The returned map has exactly one entry per distinct requested ID.
func (s *Service) Counts(ctx context.Context, itemIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(itemIDs))
	var missing []string

	s.mu.Lock()
	for _, id := range itemIDs {
		if id == "" {
			continue
		}
		if _, seen := result[id]; seen {
			continue
		}
		if n, ok := s.cache[id]; ok {
			result[id] = n
		} else {
			result[id] = 0
			missing = append(missing, id)
		}
	}
	s.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	fetched := make([]map[string]int, 0, (len(missing)+s.opts.BatchSize-1)/s.opts.BatchSize)
	var fetchedMu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)

	for start := 0; start < len(missing); start += s.opts.BatchSize {
		end := start + s.opts.BatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]
		g.Go(func() error {
			counts, err := s.fetchBatch(ctx, batch)
			if err != nil {
				return err
			}
			fetchedMu.Lock()
			fetched = append(fetched, counts)
			fetchedMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, counts := range fetched {
		for id, n := range counts {
			s.cache[id] = n
			if _, wanted := result[id]; wanted {
				result[id] = n
			}
		}
	}
	// IDs the endpoint left out count as zero and are cached as such.
	for _, id := range missing {
		if _, ok := s.cache[id]; !ok {
			s.cache[id] = 0
		}
	}
	s.mu.Unlock()

	return result, nil
}

// Invalidate drops cached counts for the given items, forcing a refetch on
// the next Counts call. Call it after annotations are added or removed.
func (s *Service) Invalidate(itemIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range itemIDs {
		delete(s.cache, id)
	}
}

func (s *Service) fetchBatch(ctx context.Context, ids []string) (map[string]int, error) {
	endpoint := fmt.Sprintf("%s/annotation/counts?items=%s",
		s.serverURL, url.QueryEscape(strings.Join(ids, ",")))

	var counts map[string]int
	if err := s.client.GetJSON(ctx, endpoint, &counts); err != nil {
		return nil, fmt.Errorf("fetching annotation counts: %w", err)
	}
	return counts, nil
}
