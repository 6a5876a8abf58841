package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/internal/downloader"
	"github.com/famomatic/bilidown/internal/muxer"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/storage"
	"github.com/famomatic/bilidown/internal/wbi"
)

// Config holds configuration for the Bilibili client.
type Config struct {
	// HTTPClient is the client used for metadata and media requests.
	// If nil, a client honoring ProxyURL is built.
	HTTPClient *http.Client

	// ProxyURL is the optional proxy URL to use for requests.
	// If HTTPClient is provided, this field is ignored.
	ProxyURL string

	// Timeout bounds each metadata call. Zero means 5s.
	Timeout time.Duration

	// Headers are merged over the fixed browser headers.
	Headers http.Header

	// Logger receives dispatch and warning logs. If nil, nothing is logged.
	Logger *zap.Logger

	// DisableWBI sends stream requests unsigned.
	DisableWBI bool

	// WBIStore caches the signing key pair. If nil, keys are kept in memory.
	WBIStore wbi.KeyStore

	// WBITTL is how long a signing key is reused.
	WBITTL time.Duration

	// SampleQuality is the tier requested when sampling formats for metadata.
	SampleQuality quality.Number

	// Transport controls retries when opening media URLs.
	Transport downloader.TransportConfig

	// Progress receives per-chunk download progress.
	Progress downloader.ProgressReporter

	// Muxer, when set and available, merges split video and audio tracks.
	Muxer muxer.Muxer

	// Publisher, when set, uploads every finished file.
	Publisher storage.Publisher

	// PublishPrefix is prepended to uploaded object keys.
	PublishPrefix string
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
