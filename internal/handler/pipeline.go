package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/downloader"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

// strategy is the schema-specific part of one category.
type strategy[D any] interface {
	category() types.Category
	resolveDetail(ctx context.Context, url, session string) (D, error)
	pages(detail D) []types.Page
	sample(detail D) (types.Identifier, error)
	describe(detail D) types.VideoMeta
	resolveStreamMeta(ctx context.Context, id types.Identifier, qn quality.Number, fnval quality.Flag, session string) (*api.StreamMeta, error)
}

// pipeline sequences detail, stream meta, normalization and download.
type pipeline[D any] struct {
	strategy      strategy[D]
	writer        downloader.RemoteWriter
	logger        *zap.Logger
	sampleQuality quality.Number
}

func newPipeline[D any](s strategy[D], d Deps) *pipeline[D] {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sample := d.SampleQuality
	if sample == 0 {
		sample = quality.P1080
	}
	return &pipeline[D]{
		strategy:      s,
		writer:        d.Writer,
		logger:        logger.With(zap.String("category", s.category().String())),
		sampleQuality: sample,
	}
}

func (p *pipeline[D]) Category() types.Category { return p.strategy.category() }

func (p *pipeline[D]) GetVideoMeta(ctx context.Context, url, session string) (*types.VideoMeta, error) {
	log := p.log(ctx)

	detail, err := p.strategy.resolveDetail(ctx, url, session)
	if err != nil {
		log.Debug("detail fetch failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	sample, err := p.strategy.sample(detail)
	if err != nil {
		log.Debug("no sample page", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	pages := p.strategy.pages(detail)

	stream, err := p.strategy.resolveStreamMeta(ctx, sample, p.sampleQuality, quality.Format(p.sampleQuality, false), session)
	if err != nil {
		log.Debug("stream meta fetch failed", zap.Int64("cid", sample.CID), zap.Error(err))
		return nil, err
	}

	meta := p.strategy.describe(detail)
	meta.SourceURL = url
	meta.Pages = pages
	meta.Formats = quality.DescribeFormats(offered(stream))
	meta.HasHiResAudio = stream.HiResAudio() != nil
	log.Debug("video meta resolved", zap.String("title", meta.Title), zap.Int("pages", len(pages)), zap.Int("formats", len(meta.Formats)))
	return &meta, nil
}

func (p *pipeline[D]) Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error) {
	if p.writer == nil {
		return nil, errors.New("handler: no writer configured")
	}
	log := p.log(ctx)

	fnval := quality.Format(req.Quality, req.Audio.Dolby)
	stream, err := p.strategy.resolveStreamMeta(ctx, req.ID, req.Quality, fnval, req.SessionToken)
	if err != nil {
		return nil, err
	}
	targets, err := Targets(stream, req.Quality, req.Audio)
	if err != nil {
		return nil, err
	}

	stem := fileStem(req.Title, req.ID)
	result := &DownloadResult{}
	for _, t := range targets {
		out := filepath.Join(req.Dir, t.fileName(stem))
		log.Info("downloading", zap.String("kind", string(t.Kind)), zap.Int("track", t.TrackID), zap.String("path", out))
		n, err := p.writer.WriteRemoteToFile(ctx, t.URL, out)
		result.Bytes += n
		if err != nil {
			return result, mediaError(err)
		}
		result.Files = append(result.Files, out)
	}
	return result, nil
}

func (p *pipeline[D]) log(ctx context.Context) *zap.Logger {
	if id, ok := types.RequestIDFromContext(ctx); ok {
		return p.logger.With(zap.String("request_id", id))
	}
	return p.logger
}

func offered(stream *api.StreamMeta) []quality.Offered {
	out := make([]quality.Offered, 0, len(stream.SupportFormats))
	for _, f := range stream.SupportFormats {
		out = append(out, quality.Offered{Quality: f.Quality, Description: f.NewDescription})
	}
	return out
}

// TargetKind says what a downloaded file contains.
type TargetKind string

const (
	TargetCombined TargetKind = "combined"
	TargetVideo    TargetKind = "video"
	TargetAudio    TargetKind = "audio"
)

// Target is one remote resource selected for download.
type Target struct {
	Kind    TargetKind
	URL     string
	TrackID int
}

func (t Target) fileName(stem string) string {
	ext := ".m4s"
	if t.Kind == TargetCombined {
		ext = ".flv"
	}
	if u, err := url.Parse(t.URL); err == nil {
		if e := path.Ext(u.Path); e != "" {
			ext = e
		}
	}
	switch t.Kind {
	case TargetVideo:
		return stem + "_video" + ext
	case TargetAudio:
		return stem + "_audio" + ext
	default:
		return stem + ext
	}
}

// Targets selects what to fetch from a stream-meta response. A combined
// stream yields its first segment; a DASH stream yields a video track and,
// when offered, an audio track.
func Targets(stream *api.StreamMeta, qn quality.Number, audio quality.AudioPreference) ([]Target, error) {
	if stream == nil {
		return nil, &api.UpstreamError{Message: "no stream meta", Kind: api.KindNotFound}
	}
	if len(stream.Durl) > 0 {
		return []Target{{Kind: TargetCombined, URL: stream.Durl[0].URL}}, nil
	}
	if stream.Dash == nil || len(stream.Dash.Video) == 0 {
		return nil, &api.UpstreamError{Message: "no playable stream", Kind: api.KindNotFound}
	}
	video, _ := quality.SelectVideo(stream.Dash.Video, qn)
	targets := []Target{{Kind: TargetVideo, URL: video.BaseURL(), TrackID: video.ID}}
	if a, ok := quality.SelectAudio(stream.Dash.Audio, stream.DolbyAudio(), stream.HiResAudio(), audio.HiRes); ok {
		targets = append(targets, Target{Kind: TargetAudio, URL: a.BaseURL(), TrackID: a.ID})
	}
	return targets, nil
}

var unsafeFileChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\n", " ", "\r", " ",
)

func fileStem(title string, id types.Identifier) string {
	stem := strings.TrimSpace(unsafeFileChars.Replace(title))
	if stem != "" {
		return stem
	}
	switch {
	case id.BVID != "":
		stem = id.BVID
	case id.EPID != 0:
		stem = "ep" + strconv.FormatInt(id.EPID, 10)
	case id.AID != 0:
		stem = "av" + strconv.FormatInt(id.AID, 10)
	default:
		stem = "cid" + strconv.FormatInt(id.CID, 10)
	}
	if id.CID != 0 && id.BVID != "" {
		stem += "_" + strconv.FormatInt(id.CID, 10)
	}
	return stem
}

// mediaError keeps local write failures as they are and reports everything
// else as an upstream failure.
func mediaError(err error) error {
	if errors.Is(err, types.ErrIO) || errors.Is(err, context.Canceled) {
		return err
	}
	var upstream *api.UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	out := &api.UpstreamError{Endpoint: "media", Kind: api.KindOther, Err: err}
	var status *downloader.StatusError
	if errors.As(err, &status) {
		out.StatusCode = status.StatusCode
		switch status.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			out.Kind = api.KindNotFound
		case http.StatusForbidden:
			out.Kind = api.KindAuthRequired
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		out.Kind = api.KindTimeout
	}
	return fmt.Errorf("download: %w", out)
}
