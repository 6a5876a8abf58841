package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/classifier"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

// bangumiEpisodeAvailable is the episode status upstream uses for playable PGC episodes.
const bangumiEpisodeAvailable = 2

type bangumiStrategy struct {
	up Upstream
}

func (bangumiStrategy) category() types.Category { return types.CategoryBangumi }

func (s bangumiStrategy) resolveDetail(ctx context.Context, url, session string) (*api.BangumiDetail, error) {
	if ssid, ok := classifier.ExtractSSID(url); ok {
		return s.up.BangumiDetail(ctx, ssid, 0, session)
	}
	if epid, ok := classifier.ExtractEPID(url); ok {
		return s.up.BangumiDetail(ctx, 0, epid, session)
	}
	return nil, fmt.Errorf("%w: no season or episode id in %q", types.ErrIdentifierMissing, url)
}

// pages lists the main episodes followed by every section's episodes in source order.
func (bangumiStrategy) pages(d *api.BangumiDetail) []types.Page {
	n := len(d.Episodes)
	for _, sec := range d.Section {
		n += len(sec.Episodes)
	}
	out := make([]types.Page, 0, n)
	for _, ep := range d.Episodes {
		out = append(out, bangumiPage(ep))
	}
	for _, sec := range d.Section {
		for _, ep := range sec.Episodes {
			out = append(out, bangumiPage(ep))
		}
	}
	return out
}

func bangumiPage(ep api.BangumiEpisode) types.Page {
	badge := ep.Badge
	if ep.BadgeInfo != nil && ep.BadgeInfo.Text != "" {
		badge = ep.BadgeInfo.Text
	}
	var duration *int64
	if ep.Duration != nil {
		seconds := *ep.Duration / 1000
		duration = &seconds
	}
	return types.Page{
		AID:       optionalInt(ep.AID),
		BVID:      ep.BVID,
		EPID:      optionalInt(ep.EpisodeID()),
		CID:       ep.CID,
		Title:     joinNonEmpty(ep.Title, ep.LongTitle),
		Badge:     badge,
		Available: ep.Status == bangumiEpisodeAvailable,
		Duration:  duration,
		Category:  types.CategoryBangumi,
	}
}

// sample draws from the main episode list only; section extras never stand in for it.
func (bangumiStrategy) sample(d *api.BangumiDetail) (types.Identifier, error) {
	if len(d.Episodes) == 0 {
		return types.Identifier{}, &api.UpstreamError{Endpoint: api.BangumiDetailURL, Message: "empty episode list", Kind: api.KindNotFound}
	}
	return bangumiPage(d.Episodes[0]).Identifier(), nil
}

func (bangumiStrategy) describe(d *api.BangumiDetail) types.VideoMeta {
	return types.VideoMeta{
		CoverURL:    d.Cover,
		Description: d.Evaluate,
		Title:       d.Title,
		Staff:       ownerFromUpInfo(d.UpInfo),
	}
}

func (s bangumiStrategy) resolveStreamMeta(ctx context.Context, id types.Identifier, qn quality.Number, fnval quality.Flag, session string) (*api.StreamMeta, error) {
	if id.EPID == 0 && id.CID == 0 {
		return nil, fmt.Errorf("%w: bangumi stream needs ep_id or cid", types.ErrMissingRequiredParameter)
	}
	return s.up.BangumiStream(ctx, api.StreamParams{
		AID:     id.AID,
		EPID:    id.EPID,
		CID:     id.CID,
		Quality: int(qn),
		Fnval:   int(fnval),
	}, session)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func ownerFromUpInfo(up *api.UpInfo) []types.Staff {
	if up == nil {
		return nil
	}
	return []types.Staff{types.NewOwner(up.Avatar, up.MID, up.Uname)}
}
