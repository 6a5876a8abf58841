package api

import (
	"context"
	"encoding/json"
	"net/url"
)

// NavInfo is the payload of the nav endpoint. It is returned for anonymous
// sessions too, with IsLogin false.
type NavInfo struct {
	IsLogin   bool    `json:"isLogin"`
	Face      string  `json:"face,omitempty"`
	MID       int64   `json:"mid,omitempty"`
	Uname     string  `json:"uname,omitempty"`
	VIPStatus int     `json:"vipStatus,omitempty"`
	VIPType   int     `json:"vipType,omitempty"`
	WBIImg    *WBIImg `json:"wbi_img,omitempty"`
}

// WBIImg carries the two URLs the signing keys are derived from.
type WBIImg struct {
	ImgURL string `json:"img_url"`
	SubURL string `json:"sub_url"`
}

// Nav fetches the current session's user info. A not-logged-in code is not an error.
func (c *Client) Nav(ctx context.Context, session string) (*NavInfo, error) {
	env, err := c.do(ctx, NavURL, url.Values{}, session, false)
	if err != nil {
		return nil, err
	}
	if env.Code != CodeOK && env.Code != CodeNotLoggedIn {
		return nil, codeError(NavURL, env.Code, env.Message)
	}
	raw := env.payload()
	if len(raw) == 0 {
		return nil, emptyPayloadError(NavURL, "empty nav payload")
	}
	var out NavInfo
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &UpstreamError{Endpoint: NavURL, Message: "decode payload", Err: err}
	}
	if env.Code == CodeNotLoggedIn {
		out.IsLogin = false
	}
	return &out, nil
}

// WBIKeys returns the image and sub URLs that seed request signing.
func (c *Client) WBIKeys(ctx context.Context) (string, string, error) {
	nav, err := c.Nav(ctx, "")
	if err != nil {
		return "", "", err
	}
	if nav.WBIImg == nil || nav.WBIImg.ImgURL == "" || nav.WBIImg.SubURL == "" {
		return "", "", emptyPayloadError(NavURL, "missing wbi_img")
	}
	return nav.WBIImg.ImgURL, nav.WBIImg.SubURL, nil
}
