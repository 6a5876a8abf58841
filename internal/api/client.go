// Package api is the thin request facade over the platform's web endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultTimeout bounds every metadata call.
const DefaultTimeout = 5 * time.Second

// Signer adds request signatures to query parameters.
type Signer interface {
	Sign(ctx context.Context, params url.Values) (url.Values, error)
}

// Config controls the request facade.
type Config struct {
	// HTTPClient is used for every call. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// Headers are merged over the fixed browser headers.
	Headers http.Header
}

// Client sends typed requests and decodes the response envelope.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    http.Header
	signer     Signer
}

// NewClient returns a Client. A nil HTTPClient uses http.DefaultClient and a
// zero Timeout uses DefaultTimeout.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: httpClient,
		timeout:    timeout,
		headers:    BuildHeaders(cfg.Headers),
	}
}

// UseSigner enables signing for endpoints that accept it.
func (c *Client) UseSigner(s Signer) {
	c.signer = s
}

// HTTPClient returns the underlying client for media transfers.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// BuildHeaders returns the fixed browser headers with extra merged on top.
func BuildHeaders(extra http.Header) http.Header {
	h := make(http.Header)
	h.Set("Origin", Origin)
	h.Set("Referer", Referer)
	h.Set("User-Agent", UserAgent)
	h.Set("Accept", Accept)
	for k, vals := range extra {
		h.Del(k)
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	return h
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Result  json.RawMessage `json:"result"`
}

func (e *envelope) payload() json.RawMessage {
	if isPresent(e.Data) {
		return e.Data
	}
	if isPresent(e.Result) {
		return e.Result
	}
	return nil
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, session string, sign bool, out any) error {
	env, err := c.do(ctx, endpoint, params, session, sign)
	if err != nil {
		return err
	}
	if env.Code != CodeOK {
		return codeError(endpoint, env.Code, env.Message)
	}
	raw := env.payload()
	if len(raw) == 0 {
		return emptyPayloadError(endpoint, "empty payload")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &UpstreamError{Endpoint: endpoint, Message: "decode payload", Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values, session string, sign bool) (*envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if sign && c.signer != nil {
		signed, err := c.signer.Sign(ctx, params)
		if err != nil {
			return nil, transportError(endpoint, err)
		}
		params = signed
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	for k, vals := range c.headers {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Kind: kindForStatus(resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(endpoint, err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Message: "decode envelope", Err: err}
	}
	return &env, nil
}

func transportError(endpoint string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := KindOther
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream
	}
	return &UpstreamError{Endpoint: endpoint, Kind: kind, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthRequired
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindOther
	}
}

// VideoDetail fetches an ordinary video by BV id, or by AV id when bvid is empty.
func (c *Client) VideoDetail(ctx context.Context, bvid string, aid int64, session string) (*VideoDetail, error) {
	params := url.Values{}
	switch {
	case bvid != "":
		params.Set("bvid", bvid)
	case aid != 0:
		params.Set("aid", strconv.FormatInt(aid, 10))
	default:
		return nil, errMissingID(VideoDetailURL)
	}
	var out VideoDetail
	if err := c.get(ctx, VideoDetailURL, params, session, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamParams addresses one page's playback address.
type StreamParams struct {
	BVID    string
	AID     int64
	EPID    int64
	CID     int64
	Quality int
	Fnval   int
}

func (p StreamParams) base() url.Values {
	params := url.Values{}
	if p.CID != 0 {
		params.Set("cid", strconv.FormatInt(p.CID, 10))
	}
	params.Set("qn", strconv.Itoa(p.Quality))
	params.Set("fnval", strconv.Itoa(p.Fnval))
	params.Set("fnver", "0")
	params.Set("fourk", "1")
	return params
}

// VideoStream fetches the playback address of an ordinary video page.
func (c *Client) VideoStream(ctx context.Context, p StreamParams, session string) (*StreamMeta, error) {
	params := p.base()
	switch {
	case p.BVID != "":
		params.Set("bvid", p.BVID)
	case p.AID != 0:
		params.Set("avid", strconv.FormatInt(p.AID, 10))
	default:
		return nil, errMissingID(VideoStreamURL)
	}
	var out StreamMeta
	if err := c.get(ctx, VideoStreamURL, params, session, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BangumiDetail fetches a PGC season by season id, or by episode id when ssid is zero.
func (c *Client) BangumiDetail(ctx context.Context, ssid, epid int64, session string) (*BangumiDetail, error) {
	params, err := seasonParams(BangumiDetailURL, ssid, epid)
	if err != nil {
		return nil, err
	}
	var out BangumiDetail
	if err := c.get(ctx, BangumiDetailURL, params, session, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BangumiStream fetches the playback address of a PGC episode.
func (c *Client) BangumiStream(ctx context.Context, p StreamParams, session string) (*StreamMeta, error) {
	params := p.base()
	if p.EPID != 0 {
		params.Set("ep_id", strconv.FormatInt(p.EPID, 10))
	}
	if p.AID != 0 {
		params.Set("avid", strconv.FormatInt(p.AID, 10))
	}
	if p.EPID == 0 && p.CID == 0 {
		return nil, errMissingID(BangumiStreamURL)
	}
	var out StreamMeta
	if err := c.get(ctx, BangumiStreamURL, params, session, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheeseDetail fetches a PUGV season by season id, or by episode id when ssid is zero.
func (c *Client) CheeseDetail(ctx context.Context, ssid, epid int64, session string) (*CheeseDetail, error) {
	params, err := seasonParams(CheeseDetailURL, ssid, epid)
	if err != nil {
		return nil, err
	}
	var out CheeseDetail
	if err := c.get(ctx, CheeseDetailURL, params, session, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheeseStream fetches the playback address of a PUGV episode. AID and EPID are required.
func (c *Client) CheeseStream(ctx context.Context, p StreamParams, session string) (*StreamMeta, error) {
	if p.AID == 0 || p.EPID == 0 {
		return nil, errMissingID(CheeseStreamURL)
	}
	params := p.base()
	params.Set("avid", strconv.FormatInt(p.AID, 10))
	params.Set("ep_id", strconv.FormatInt(p.EPID, 10))
	var out StreamMeta
	if err := c.get(ctx, CheeseStreamURL, params, session, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func seasonParams(endpoint string, ssid, epid int64) (url.Values, error) {
	params := url.Values{}
	switch {
	case ssid != 0:
		params.Set("season_id", strconv.FormatInt(ssid, 10))
	case epid != 0:
		params.Set("ep_id", strconv.FormatInt(epid, 10))
	default:
		return nil, errMissingID(endpoint)
	}
	return params, nil
}

// ErrMissingID is returned when a call is made without any addressing id.
var ErrMissingID = errors.New("api: missing id")

func errMissingID(endpoint string) error {
	return &UpstreamError{Endpoint: endpoint, Kind: KindOther, Message: "missing id", Err: ErrMissingID}
}
