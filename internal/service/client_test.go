package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"nathanbeddoewebdev/swatch/internal/color"
	"nathanbeddoewebdev/swatch/internal/domain"
	"nathanbeddoewebdev/swatch/internal/palette"
	"nathanbeddoewebdev/swatch/internal/retry"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

const paletteJSON = `{
	"original": [10, 20, 30],
	"complementary": [30, 20, 10],
	"analogous": [[1, 2, 3], [4, 5, 6]],
	"triadic": [[7, 8, 9], [10, 11, 12]],
	"tetradic": [[13, 14, 15], [16, 17, 18], [19, 20, 21]],
	"monochromatic": [[8, 16, 24], [9, 18, 27], [10, 20, 30], [10, 20, 30], [10, 20, 30]]
}`

type recordedRequest struct {
	Path        string
	ContentType string
	Body        map[string]string
}

// newRecordingServer returns a server answering every request with status
// and body, recording what it received.
func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var decoded map[string]string
		_ = json.NewDecoder(r.Body).Decode(&decoded)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        decoded,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func newTestClient(srv *httptest.Server) *Client {
	return New(srv.URL, WithRetry(retry.Config{MaxAttempts: 1}))
}

// --- Request shape ---

func TestByName_PostsPredict(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, paletteJSON)

	resp, err := newTestClient(srv).ByName(context.Background(), "  ocean ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []recordedRequest{{
		Path:        "/predict",
		ContentType: "application/json",
		Body:        map[string]string{"name": "ocean"},
	}}
	if diff := cmp.Diff(want, *reqs); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
	if got := resp.Len(); got != 15 {
		t.Errorf("expected 15 colors, got %d", got)
	}
}

func TestByRGB_PostsColorPalette(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, paletteJSON)

	_, err := newTestClient(srv).ByRGB(context.Background(), color.RGB{R: 10, G: 20, B: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []recordedRequest{{
		Path:        "/color_palette",
		ContentType: "application/json",
		Body:        map[string]string{"color_value": "10,20,30"},
	}}
	if diff := cmp.Diff(want, *reqs); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestByHex_ConvertsBeforeSending(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, paletteJSON)

	_, err := newTestClient(srv).ByHex(context.Background(), "#FF0080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(*reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*reqs))
	}
	if got := (*reqs)[0].Body["color_value"]; got != "255,0,128" {
		t.Errorf("color_value = %q, want %q", got, "255,0,128")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, paletteJSON)

	c := New(srv.URL+"/", WithRetry(retry.Config{MaxAttempts: 1}))
	if _, err := c.ByName(context.Background(), "red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := (*reqs)[0].Path; got != "/predict" {
		t.Errorf("path = %q", got)
	}
}

// --- Validation (no request sent) ---

func TestValidation_NoRequest(t *testing.T) {
	srv, reqs := newRecordingServer(t, http.StatusOK, paletteJSON)
	c := newTestClient(srv)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"empty name", func() error { _, err := c.ByName(ctx, "   "); return err }, domain.ErrInvalidName},
		{"long name", func() error { _, err := c.ByName(ctx, strings.Repeat("a", 26)); return err }, domain.ErrInvalidName},
		{"bad hex", func() error { _, err := c.ByHex(ctx, "#12345"); return err }, domain.ErrInvalidHexFormat},
		{"bad channel", func() error { _, err := c.ByRGB(ctx, color.RGB{R: 256}); return err }, domain.ErrInvalidChannelValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if len(*reqs) != 0 {
		t.Errorf("expected no requests, got %d", len(*reqs))
	}
}

func TestValidateName_MultibyteLimit(t *testing.T) {
	name := strings.Repeat("é", MaxNameLength)
	got, err := ValidateName(name)
	if err != nil {
		t.Fatalf("25 runes should be accepted: %v", err)
	}
	if got != name {
		t.Errorf("ValidateName changed the name: %q", got)
	}
}

// --- Error mapping ---

func TestServiceError_UsesErrorField(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusInternalServerError, `{"error": "'name'"}`)

	_, err := newTestClient(srv).ByName(context.Background(), "red")

	if !errors.Is(err, domain.ErrService) {
		t.Fatalf("expected ErrService, got %v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.Code != http.StatusInternalServerError || se.Message != "'name'" {
		t.Errorf("unexpected status error: %+v", se)
	}
}

func TestServiceError_NonJSONBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusBadRequest, "<html>bad request</html>")

	_, err := newTestClient(srv).ByName(context.Background(), "red")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Message != "<html>bad request</html>" {
		t.Errorf("Message = %q", se.Message)
	}
}

func TestMalformedBody(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `{"original": [1, 2]}`)

	_, err := newTestClient(srv).ByName(context.Background(), "red")
	if !errors.Is(err, domain.ErrMalformedPalette) {
		t.Fatalf("expected ErrMalformedPalette, got %v", err)
	}
}

func TestEmptyPalette(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `{}`)

	_, err := newTestClient(srv).ByName(context.Background(), "red")
	if !errors.Is(err, domain.ErrMalformedPalette) {
		t.Fatalf("expected ErrMalformedPalette, got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithRetry(retry.Config{MaxAttempts: 1}))
	_, err := c.ByName(context.Background(), "red")

	if !errors.Is(err, domain.ErrNetwork) || !IsNetworkError(err) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

// --- Retry and cancellation ---

func TestRetry_TransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(paletteJSON))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithRetry(retry.Config{MaxAttempts: 3}))
	if _, err := c.ByName(context.Background(), "red"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("expected 2 calls, got %d", got)
	}
}

func TestRetry_NotOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, WithRetry(retry.Config{MaxAttempts: 3}))
	_, _ = c.ByName(context.Background(), "red")
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestContextCancel_StopsWaiting(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(paletteJSON))
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv).ByName(ctx, "red")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestContextCancel_AbortsRoundTrip(t *testing.T) {
	started := make(chan struct{})
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
			close(aborted)
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := newTestClient(srv).ByName(ctx, "red")
		errc <- err
	}()

	<-started
	cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Fatal("server request was not aborted after the caller cancelled")
	}
}

func TestSingleflight_OneCallerLeavingKeepsRoundTrip(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
			_, _ = w.Write([]byte(paletteJSON))
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv)

	stayErr := make(chan error, 1)
	go func() {
		_, err := c.ByName(context.Background(), "red")
		stayErr <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	leaveErr := make(chan error, 1)
	go func() {
		_, err := c.ByName(ctx, "red")
		leaveErr <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-leaveErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("leaving caller: expected context canceled, got %v", err)
	}

	close(release)
	if err := <-stayErr; err != nil {
		t.Fatalf("remaining caller: unexpected error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestSingleflight_CoalescesIdenticalRequests(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(paletteJSON))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(srv)

	var wg sync.WaitGroup
	results := make([]palette.Response, 2)
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.ByName(context.Background(), "red")
		}()
	}

	// Let both callers reach the shared call before answering.
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
	if diff := cmp.Diff(palette.Render(results[0]), palette.Render(results[1])); diff != "" {
		t.Errorf("callers got different palettes (-0 +1):\n%s", diff)
	}
}
