package client

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/famomatic/bilidown/internal/api"
)

// platformTransport fills in the headers the API and media CDN expect
// on any request that does not set them itself.
type platformTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *platformTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	missing := false
	for k := range t.headers {
		if req.Header.Get(k) == "" {
			missing = true
			break
		}
	}
	if !missing {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	for k, vals := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header[k] = append([]string(nil), vals...)
		}
	}
	return t.base.RoundTrip(r)
}

// defaultHTTPClient builds the client shared by API calls and media
// downloads. A malformed proxyURL is ignored.
func defaultHTTPClient(proxyURL string, extra http.Header) *http.Client {
	var base http.RoundTripper = http.DefaultTransport
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		clone := t.Clone()
		if proxy, ok := parseProxy(proxyURL); ok {
			clone.Proxy = http.ProxyURL(proxy)
		}
		base = clone
	}
	return &http.Client{Transport: &platformTransport{base: base, headers: api.BuildHeaders(extra)}}
}

func parseProxy(raw string) (*url.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, false
	}
	return parsed, true
}
