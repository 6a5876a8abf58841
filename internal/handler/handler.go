// Package handler holds the per-category pipelines and the registry that dispatches to them.
package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/downloader"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

// Handler is the capability set every category provides.
type Handler interface {
	Category() types.Category
	GetVideoMeta(ctx context.Context, url, session string) (*types.VideoMeta, error)
	Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error)
}

// Upstream is the subset of the api facade the handlers call.
type Upstream interface {
	VideoDetail(ctx context.Context, bvid string, aid int64, session string) (*api.VideoDetail, error)
	VideoStream(ctx context.Context, p api.StreamParams, session string) (*api.StreamMeta, error)
	BangumiDetail(ctx context.Context, ssid, epid int64, session string) (*api.BangumiDetail, error)
	BangumiStream(ctx context.Context, p api.StreamParams, session string) (*api.StreamMeta, error)
	CheeseDetail(ctx context.Context, ssid, epid int64, session string) (*api.CheeseDetail, error)
	CheeseStream(ctx context.Context, p api.StreamParams, session string) (*api.StreamMeta, error)
}

// DownloadRequest addresses one page and the desired stream.
type DownloadRequest struct {
	Dir          string
	Title        string
	ID           types.Identifier
	Quality      quality.Number
	Audio        quality.AudioPreference
	SessionToken string
}

// DownloadResult lists the files written, video first.
type DownloadResult struct {
	Files []string
	Bytes int64
}

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Upstream Upstream
	Writer   downloader.RemoteWriter
	Logger   *zap.Logger
	// SampleQuality is the tier requested when sampling stream meta. Zero means P1080.
	SampleQuality quality.Number
}

// MediaHeaders are sent with every media request; the CDN rejects requests without a referer.
func MediaHeaders() http.Header {
	return api.BuildHeaders(nil)
}

// NewVideo returns the handler for ordinary videos.
func NewVideo(d Deps) Handler {
	return newPipeline[*api.VideoDetail](videoStrategy{up: d.Upstream}, d)
}

// NewBangumi returns the handler for PGC episodes.
func NewBangumi(d Deps) Handler {
	return newPipeline[*api.BangumiDetail](bangumiStrategy{up: d.Upstream}, d)
}

// NewCheese returns the handler for PUGV course episodes.
func NewCheese(d Deps) Handler {
	return newPipeline[*api.CheeseDetail](cheeseStrategy{up: d.Upstream}, d)
}

// NewDefaultRegistry registers the three built-in handlers.
func NewDefaultRegistry(d Deps) (*Registry, error) {
	return NewRegistry(NewVideo(d), NewBangumi(d), NewCheese(d))
}
