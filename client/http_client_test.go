package client

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/famomatic/bilidown/internal/api"
)

func baseTransport(t *testing.T, c *http.Client) *http.Transport {
	t.Helper()
	pt, ok := c.Transport.(*platformTransport)
	if !ok {
		t.Fatalf("transport type = %T, want *platformTransport", c.Transport)
	}
	transport, ok := pt.base.(*http.Transport)
	if !ok {
		t.Fatalf("base transport type = %T, want *http.Transport", pt.base)
	}
	return transport
}

func TestDefaultHTTPClient_WithProxyURL(t *testing.T) {
	transport := baseTransport(t, defaultHTTPClient(" socks5://127.0.0.1:1080 ", nil))
	req, err := http.NewRequest(http.MethodGet, "https://api.bilibili.com/x/web-interface/nav", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	proxyURL, err := transport.Proxy(req)
	if err != nil {
		t.Fatalf("proxy function error: %v", err)
	}
	if proxyURL == nil || proxyURL.String() != "socks5://127.0.0.1:1080" {
		t.Fatalf("proxyURL = %v, want socks5://127.0.0.1:1080", proxyURL)
	}
}

func TestDefaultHTTPClient_IgnoresMalformedProxy(t *testing.T) {
	for _, raw := range []string{"", "   ", "://bad-url", "127.0.0.1:3128"} {
		c := defaultHTTPClient(raw, nil)
		if c == http.DefaultClient {
			t.Fatalf("defaultHTTPClient(%q) returned the shared default client", raw)
		}
		if transport := baseTransport(t, c); transport.Proxy != nil {
			req, _ := http.NewRequest(http.MethodGet, "https://api.bilibili.com", nil)
			if u, _ := transport.Proxy(req); u != nil && u.Host == "127.0.0.1:3128" {
				t.Fatalf("defaultHTTPClient(%q) proxied via %v", raw, u)
			}
		}
	}
}

func TestDefaultHTTPClient_FillsPlatformHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	c := defaultHTTPClient("", http.Header{"X-Extra": {"1"}})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("User-Agent", "custom")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	resp.Body.Close()

	if got.Get("Referer") != api.Referer {
		t.Fatalf("Referer = %q, want %q", got.Get("Referer"), api.Referer)
	}
	if got.Get("Origin") != api.Origin {
		t.Fatalf("Origin = %q, want %q", got.Get("Origin"), api.Origin)
	}
	if got.Get("X-Extra") != "1" {
		t.Fatalf("X-Extra = %q, want 1", got.Get("X-Extra"))
	}
	if got.Get("User-Agent") != "custom" {
		t.Fatalf("User-Agent = %q, caller value must win", got.Get("User-Agent"))
	}
	if req.Header.Get("Referer") != "" {
		t.Fatal("caller request must not be mutated")
	}
}
