package client

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/famomatic/bilidown/internal/handler"
	"github.com/famomatic/bilidown/internal/types"
)

// MergedExt is the container used when split tracks are merged.
const MergedExt = ".mp4"

// Download fetches one page. The handler is chosen by req.Category. When
// both tracks of a split stream were written and a Muxer is configured,
// they are merged; when a Publisher is configured the results are uploaded.
// Merge and publish failures are returned after the download result.
func (c *Client) Download(ctx context.Context, req DownloadRequest) (*DownloadResult, error) {
	h, err := c.registry.Resolve(req.Category)
	if err != nil {
		return nil, err
	}
	ctx, log := c.dispatch(ctx, "download", req.Category)

	res, err := h.Download(ctx, handler.DownloadRequest{
		Dir:          req.Dir,
		Title:        req.Title,
		ID:           req.Identifier,
		Quality:      req.Quality,
		Audio:        req.Audio,
		SessionToken: req.SessionToken,
	})
	out := &DownloadResult{}
	if res != nil {
		out.Files = res.Files
		out.Bytes = res.Bytes
	}
	if err != nil {
		log.Info("download failed", zap.Int64("bytes", out.Bytes), zap.Error(err))
		return out, err
	}
	log.Info("download ok", zap.Strings("files", out.Files), zap.Int64("bytes", out.Bytes))

	if err := c.merge(ctx, log, req, out); err != nil {
		return out, err
	}
	if err := c.publish(ctx, log, out); err != nil {
		return out, err
	}
	return out, nil
}

func (c *Client) merge(ctx context.Context, log *zap.Logger, req DownloadRequest, out *DownloadResult) error {
	m := c.config.Muxer
	if m == nil || len(out.Files) != 2 {
		return nil
	}
	if !m.Available() {
		log.Warn("muxer unavailable, keeping split tracks")
		return nil
	}
	target := mergedPath(out.Files[0])
	if err := m.Merge(ctx, out.Files[0], out.Files[1], target, types.Metadata{Title: req.Title, Artist: req.Artist}); err != nil {
		log.Warn("merge failed", zap.String("path", target), zap.Error(err))
		return err
	}
	out.MergedPath = target
	log.Info("merged", zap.String("path", target))
	return nil
}

func (c *Client) publish(ctx context.Context, log *zap.Logger, out *DownloadResult) error {
	p := c.config.Publisher
	if p == nil {
		return nil
	}
	files := out.Files
	if out.MergedPath != "" {
		files = []string{out.MergedPath}
	}
	for _, f := range files {
		key, err := p.Publish(ctx, f, c.config.PublishPrefix)
		if err != nil {
			log.Warn("publish failed", zap.String("path", f), zap.Error(err))
			return err
		}
		out.ObjectKeys = append(out.ObjectKeys, key)
	}
	log.Info("published", zap.Strings("keys", out.ObjectKeys))
	return nil
}

// mergedPath turns "<stem>_video.m4s" into "<stem>.mp4".
func mergedPath(videoPath string) string {
	dir, name := filepath.Split(videoPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimSuffix(stem, "_video")
	return filepath.Join(dir, stem+MergedExt)
}
