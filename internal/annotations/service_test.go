package annotations

import (
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"frameview/internal/http"
)

// countsServer serves /annotation/counts and records how many requests it
// saw. Every known item reports its numeric suffix as its count.
func countsServer(t *testing.T, requests *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path != "/annotation/counts" {
			nethttp.NotFound(w, r)
			return
		}
		atomic.AddInt32(requests, 1)

		counts := map[string]int{}
		for _, id := range strings.Split(r.URL.Query().Get("items"), ",") {
			var n int
			if _, err := fmt.Sscanf(id, "item%d", &n); err == nil {
				counts[id] = n
			}
			// unknown IDs are omitted from the response
		}
		if err := json.NewEncoder(w).Encode(counts); err != nil {
			t.Errorf("encoding response: %v", err)
		}
	}))
}

func TestCounts(t *testing.T) {
	var requests int32
	srv := countsServer(t, &requests)
	defer srv.Close()

	svc := NewService(http.NewClient(5*time.Second, ""), srv.URL, Options{})
	counts, err := svc.Counts(context.Background(), []string{"item3", "item7", "unknown"})
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}

	if counts["item3"] != 3 || counts["item7"] != 7 {
		t.Errorf("counts = %v, want item3:3 item7:7", counts)
	}
	if counts["unknown"] != 0 {
		t.Errorf("unknown item count = %d, want 0", counts["unknown"])
	}
	if len(counts) != 3 {
		t.Errorf("result size = %d, want 3", len(counts))
	}
}

func TestCounts_Batching(t *testing.T) {
	var requests int32
	srv := countsServer(t, &requests)
	defer srv.Close()

	svc := NewService(http.NewClient(5*time.Second, ""), srv.URL, Options{BatchSize: 2})

	ids := []string{"item1", "item2", "item3", "item4", "item5"}
	counts, err := svc.Counts(context.Background(), ids)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if len(counts) != 5 {
		t.Errorf("result size = %d, want 5", len(counts))
	}
	if got := atomic.LoadInt32(&requests); got != 3 {
		t.Errorf("request count = %d, want 3 (batches of 2)", got)
	}
}

func TestCounts_CacheAndInvalidate(t *testing.T) {
	var requests int32
	srv := countsServer(t, &requests)
	defer srv.Close()

	svc := NewService(http.NewClient(5*time.Second, ""), srv.URL, Options{})
	ctx := context.Background()

	if _, err := svc.Counts(ctx, []string{"item1", "item2"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Counts(ctx, []string{"item1", "item2"}); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&requests); got != 1 {
		t.Errorf("request count = %d after cached repeat, want 1", got)
	}

	svc.Invalidate("item1")
	if _, err := svc.Counts(ctx, []string{"item1", "item2"}); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&requests); got != 2 {
		t.Errorf("request count = %d after invalidation, want 2", got)
	}
}

func TestCounts_DuplicateAndEmptyIDs(t *testing.T) {
	var requests int32
	srv := countsServer(t, &requests)
	defer srv.Close()

	svc := NewService(http.NewClient(5*time.Second, ""), srv.URL, Options{})
	counts, err := svc.Counts(context.Background(), []string{"item1", "item1", "", "item1"})
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if len(counts) != 1 || counts["item1"] != 1 {
		t.Errorf("counts = %v, want exactly {item1: 1}", counts)
	}
}

func TestCounts_ServerError(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "boom", nethttp.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(http.NewClient(5*time.Second, ""), srv.URL, Options{})
	if _, err := svc.Counts(context.Background(), []string{"item1"}); err == nil {
		t.Error("expected error but got none")
	}
}
