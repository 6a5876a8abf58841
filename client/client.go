// Package client is the public entry point: it classifies URLs, fetches
// normalized video metadata and downloads pages for every category.
package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/classifier"
	"github.com/famomatic/bilidown/internal/downloader"
	"github.com/famomatic/bilidown/internal/handler"
	"github.com/famomatic/bilidown/internal/types"
	"github.com/famomatic/bilidown/internal/wbi"
)

// Client is the main entry point.
type Client struct {
	config   Config
	api      *api.Client
	registry *handler.Registry
	logger   *zap.Logger
}

// New creates a new Client with the given configuration.
func New(config Config) (*Client, error) {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = defaultHTTPClient(config.ProxyURL, config.Headers)
	}
	upstream := api.NewClient(api.Config{
		HTTPClient: httpClient,
		Timeout:    config.Timeout,
		Headers:    config.Headers,
	})
	if !config.DisableWBI {
		upstream.UseSigner(wbi.NewSigner(upstream, config.WBIStore, config.WBITTL))
	}

	opts := []downloader.Option{downloader.WithTransport(config.Transport)}
	if config.Progress != nil {
		opts = append(opts, downloader.WithProgress(config.Progress))
	}
	writer := downloader.New(httpClient, handler.MediaHeaders(), opts...)

	logger := config.logger()
	registry, err := handler.NewDefaultRegistry(handler.Deps{
		Upstream:      upstream,
		Writer:        writer,
		Logger:        logger,
		SampleQuality: config.SampleQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("client: build registry: %w", err)
	}
	return &Client{
		config:   config,
		api:      upstream,
		registry: registry,
		logger:   logger,
	}, nil
}

// Classify reports which category a URL belongs to.
func (c *Client) Classify(url string) (Category, error) {
	return classifier.Classify(url)
}

// Categories lists the categories this client can handle.
func (c *Client) Categories() []Category {
	return c.registry.Categories()
}

// GetVideoMeta fetches the normalized metadata for url. Errors from the
// handler are returned as they are.
func (c *Client) GetVideoMeta(ctx context.Context, url, sessionToken string) (*VideoMeta, error) {
	category, err := classifier.Classify(url)
	if err != nil {
		return nil, err
	}
	h, err := c.registry.Resolve(category)
	if err != nil {
		return nil, err
	}
	ctx, log := c.dispatch(ctx, "meta", category)
	meta, err := h.GetVideoMeta(ctx, url, sessionToken)
	if err != nil {
		log.Debug("meta failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	log.Debug("meta ok", zap.String("title", meta.Title), zap.Int("pages", len(meta.Pages)))
	return meta, nil
}

// UserInfo reports the account behind sessionToken. An anonymous or expired
// token yields LoggedIn false and no error.
func (c *Client) UserInfo(ctx context.Context, sessionToken string) (*UserInfo, error) {
	nav, err := c.api.Nav(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	info := &UserInfo{LoggedIn: nav.IsLogin}
	if !nav.IsLogin {
		return info, nil
	}
	info.MID = nav.MID
	info.Name = nav.Uname
	info.AvatarURL = nav.Face
	info.VIP = nav.VIPStatus == 1
	info.VIPType = nav.VIPType
	return info, nil
}

// HTTPClient returns the client used for all requests.
func (c *Client) HTTPClient() *http.Client {
	return c.api.HTTPClient()
}

func (c *Client) dispatch(ctx context.Context, op string, category types.Category) (context.Context, *zap.Logger) {
	id, ok := types.RequestIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
		ctx = types.WithRequestID(ctx, id)
	}
	return ctx, c.logger.With(
		zap.String("request_id", id),
		zap.String("op", op),
		zap.String("category", category.String()),
	)
}
