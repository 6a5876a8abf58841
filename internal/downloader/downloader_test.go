package downloader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/famomatic/bilidown/internal/types"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type progressRecorder struct {
	calls int
	last  int64
	total int64
}

func (p *progressRecorder) OnProgress(written, total int64) {
	p.calls++
	p.last = written
	p.total = total
}

func TestWriteRemoteToFile_ChunksAndHeaders(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 1500) // 24000 bytes, three chunks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://www.bilibili.com" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	headers := http.Header{}
	headers.Set("Referer", "https://www.bilibili.com")
	progress := &progressRecorder{}
	w := New(srv.Client(), headers, WithProgress(progress))

	out := filepath.Join(t.TempDir(), "out.m4s")
	n, err := w.WriteRemoteToFile(context.Background(), srv.URL, out)
	if err != nil {
		t.Fatalf("WriteRemoteToFile() error = %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("written=%d want=%d", n, len(payload))
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("file content mismatch")
	}
	if progress.calls < 3 || progress.last != int64(len(payload)) {
		t.Fatalf("progress calls=%d last=%d", progress.calls, progress.last)
	}
}

func TestWriteRemoteToFile_OverwritesExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("new"))
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "out.flv")
	if err := os.WriteFile(out, []byte("old content that is longer"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := New(srv.Client(), nil).WriteRemoteToFile(context.Background(), srv.URL, out); err != nil {
		t.Fatalf("WriteRemoteToFile() error = %v", err)
	}
	got, _ := os.ReadFile(out)
	if string(got) != "new" {
		t.Fatalf("content=%q want %q", got, "new")
	}
}

func TestWriteRemoteToFile_StatusErrorCreatesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "missing.m4s")
	_, err := New(srv.Client(), nil).WriteRemoteToFile(context.Background(), srv.URL, out)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("file should not exist, stat err=%v", statErr)
	}
}

func TestWriteRemoteToFile_CreateFailureIsIOError(t *testing.T) {
	var closed atomic.Bool
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       &trackingBody{Reader: strings.NewReader("x"), closed: &closed},
			Header:     make(http.Header),
		}, nil
	})}

	out := filepath.Join(t.TempDir(), "no-such-dir", "out.m4s")
	_, err := New(client, nil).WriteRemoteToFile(context.Background(), "https://upos.example/v.m4s", out)
	if !errors.Is(err, types.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !closed.Load() {
		t.Fatalf("response body must be closed on create failure")
	}
}

func TestWriteRemoteToFile_MidStreamFailureClosesBody(t *testing.T) {
	var closed atomic.Bool
	boom := errors.New("connection reset")
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       &trackingBody{Reader: io.MultiReader(strings.NewReader("partial"), errReader{boom}), closed: &closed},
			Header:     make(http.Header),
		}, nil
	})}

	out := filepath.Join(t.TempDir(), "out.m4s")
	n, err := New(client, nil).WriteRemoteToFile(context.Background(), "https://upos.example/v.m4s", out)
	if !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
	if n != int64(len("partial")) {
		t.Fatalf("written=%d", n)
	}
	if !closed.Load() {
		t.Fatalf("response body must be closed after mid-stream failure")
	}
	got, _ := os.ReadFile(out)
	if string(got) != "partial" {
		t.Fatalf("partial file content=%q", got)
	}
}

func TestWriteRemoteToFile_RetriesBeforeFirstByte(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	w := New(srv.Client(), nil, WithTransport(TransportConfig{MaxRetries: 2, InitialBackoff: time.Millisecond}))
	if _, err := w.WriteRemoteToFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "o")); err != nil {
		t.Fatalf("WriteRemoteToFile() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls=%d want=2", got)
	}
}

func TestWriteRemoteToFile_NoRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.Client(), nil).WriteRemoteToFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "o"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls=%d want=1", got)
	}
}

func TestTransportDelay(t *testing.T) {
	cfg := TransportConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond}.withDefaults()
	tests := []struct {
		attempt int
		hint    time.Duration
		want    time.Duration
	}{
		{attempt: 0, want: 100 * time.Millisecond},
		{attempt: 1, want: 200 * time.Millisecond},
		{attempt: 2, want: 300 * time.Millisecond},
		{attempt: 5, want: 300 * time.Millisecond},
		{attempt: 0, hint: time.Second, want: time.Second},
	}
	for _, tt := range tests {
		if got := cfg.delay(tt.attempt, tt.hint); got != tt.want {
			t.Fatalf("delay(%d, %v)=%v want=%v", tt.attempt, tt.hint, got, tt.want)
		}
	}
}

func TestTransportRetries(t *testing.T) {
	cfg := TransportConfig{}.withDefaults()
	if !cfg.retries(&StatusError{StatusCode: http.StatusServiceUnavailable}) {
		t.Fatalf("503 should be retried")
	}
	if cfg.retries(&StatusError{StatusCode: http.StatusForbidden}) {
		t.Fatalf("403 should not be retried")
	}
	if cfg.retries(context.Canceled) {
		t.Fatalf("cancellation should not be retried")
	}
	if !cfg.retries(errors.New("connection reset")) {
		t.Fatalf("network errors should be retried")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{raw: "3", want: 3 * time.Second},
		{raw: "-1", want: 0},
		{raw: "soon", want: 0},
		{raw: "", want: 0},
		{raw: "Mon, 01 Jan 2024 00:00:05 GMT", want: 5 * time.Second},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.raw, now); got != tt.want {
			t.Fatalf("retryAfter(%q)=%v want=%v", tt.raw, got, tt.want)
		}
	}
}

type trackingBody struct {
	io.Reader
	closed *atomic.Bool
}

func (b *trackingBody) Close() error {
	b.closed.Store(true)
	return nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
