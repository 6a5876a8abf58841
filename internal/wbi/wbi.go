// Package wbi signs query parameters for endpoints that require a w_rid.
package wbi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/CuteReimu/bilibili/v2"
)

// DefaultTTL is how long a key pair is trusted before it is refreshed.
const DefaultTTL = 12 * time.Hour

const storeKey = "bilidown:wbi:keys"

// ErrKeyNotFound is returned by a KeyStore when nothing is cached.
var ErrKeyNotFound = errors.New("wbi: key not found")

// KeySource fetches the image and sub URLs the mixin key is derived from.
type KeySource interface {
	WBIKeys(ctx context.Context) (imgURL string, subURL string, err error)
}

// KeyStore caches the image/sub key pair.
type KeyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Keys is the image and sub key pair published by the nav endpoint.
type Keys struct {
	Img string
	Sub string
}

// KeysFromURLs extracts the key pair from the nav image URLs.
func KeysFromURLs(imgURL, subURL string) Keys {
	return Keys{Img: keyFromURL(imgURL), Sub: keyFromURL(subURL)}
}

func (k Keys) encode() string { return k.Img + ":" + k.Sub }

func decodeKeys(raw string) (Keys, bool) {
	img, sub, ok := strings.Cut(raw, ":")
	if !ok || img == "" || sub == "" {
		return Keys{}, false
	}
	return Keys{Img: img, Sub: sub}, true
}

// wbi returns a library signer preloaded with k so it never refreshes on its own.
func (k Keys) wbi() *bilibili.WBI {
	w := bilibili.NewDefaultWbi()
	w.SetKeys(k.Img, k.Sub)
	return w
}

// MixinKey derives the 32-character mixin key from k.
func (k Keys) MixinKey() (string, error) {
	return k.wbi().GetMixinKey()
}

// SignWithKeys returns a copy of params with wts and w_rid computed at now.
func SignWithKeys(params url.Values, k Keys, now time.Time) (url.Values, error) {
	query := make(url.Values, len(params)+2)
	for name, vals := range params {
		if len(vals) == 0 {
			continue
		}
		query.Set(name, vals[0])
	}
	signed, err := k.wbi().SignQuery(query, now)
	if err != nil {
		return nil, fmt.Errorf("wbi: sign: %w", err)
	}
	return signed, nil
}

// Signer implements request signing with a cached key pair.
type Signer struct {
	source KeySource
	store  KeyStore
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner returns a Signer. A nil store keeps keys in memory.
func NewSigner(source KeySource, store KeyStore, ttl time.Duration) *Signer {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{source: source, store: store, ttl: ttl, now: time.Now}
}

// Sign returns a copy of params with wts and w_rid added.
func (s *Signer) Sign(ctx context.Context, params url.Values) (url.Values, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}
	return SignWithKeys(params, keys, s.now())
}

func (s *Signer) keys(ctx context.Context) (Keys, error) {
	raw, err := s.store.Get(ctx, storeKey)
	switch {
	case err == nil:
		if keys, ok := decodeKeys(raw); ok {
			return keys, nil
		}
	case !errors.Is(err, ErrKeyNotFound):
		return Keys{}, fmt.Errorf("wbi: read key store: %w", err)
	}
	imgURL, subURL, err := s.source.WBIKeys(ctx)
	if err != nil {
		return Keys{}, err
	}
	keys := KeysFromURLs(imgURL, subURL)
	if keys.Img == "" || keys.Sub == "" {
		return Keys{}, fmt.Errorf("wbi: malformed key urls %q %q", imgURL, subURL)
	}
	if err := s.store.Set(ctx, storeKey, keys.encode(), s.ttl); err != nil {
		return Keys{}, fmt.Errorf("wbi: write key store: %w", err)
	}
	return keys, nil
}

func keyFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	base := path.Base(raw)
	return strings.TrimSuffix(base, path.Ext(base))
}
