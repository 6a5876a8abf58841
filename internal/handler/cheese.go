package handler

import (
	"context"
	"fmt"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/classifier"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

// cheeseEpisodeAvailable is the episode status upstream uses for playable PUGV episodes.
const cheeseEpisodeAvailable = 1

type cheeseStrategy struct {
	up Upstream
}

func (cheeseStrategy) category() types.Category { return types.CategoryCheese }

func (s cheeseStrategy) resolveDetail(ctx context.Context, url, session string) (*api.CheeseDetail, error) {
	if ssid, ok := classifier.ExtractSSID(url); ok {
		return s.up.CheeseDetail(ctx, ssid, 0, session)
	}
	if epid, ok := classifier.ExtractEPID(url); ok {
		return s.up.CheeseDetail(ctx, 0, epid, session)
	}
	return nil, fmt.Errorf("%w: no season or episode id in %q", types.ErrIdentifierMissing, url)
}

func (cheeseStrategy) pages(d *api.CheeseDetail) []types.Page {
	out := make([]types.Page, 0, len(d.Episodes))
	for _, ep := range d.Episodes {
		duration := ep.Duration
		out = append(out, types.Page{
			AID:       optionalInt(ep.AID),
			EPID:      optionalInt(ep.ID),
			CID:       ep.CID,
			Title:     ep.Title,
			Available: ep.Status == cheeseEpisodeAvailable,
			Duration:  &duration,
			Category:  types.CategoryCheese,
		})
	}
	return out
}

func (cheeseStrategy) sample(d *api.CheeseDetail) (types.Identifier, error) {
	if len(d.Episodes) == 0 {
		return types.Identifier{}, &api.UpstreamError{Endpoint: api.CheeseDetailURL, Message: "empty episode list", Kind: api.KindNotFound}
	}
	ep := d.Episodes[0]
	return types.Identifier{AID: ep.AID, EPID: ep.ID, CID: ep.CID}, nil
}

func (cheeseStrategy) describe(d *api.CheeseDetail) types.VideoMeta {
	return types.VideoMeta{
		CoverURL:    d.Cover,
		Description: d.Subtitle,
		Title:       d.Title,
		Staff:       ownerFromUpInfo(d.UpInfo),
	}
}

func (s cheeseStrategy) resolveStreamMeta(ctx context.Context, id types.Identifier, qn quality.Number, fnval quality.Flag, session string) (*api.StreamMeta, error) {
	if id.AID == 0 || id.EPID == 0 {
		return nil, fmt.Errorf("%w: cheese stream needs aid and ep_id", types.ErrMissingRequiredParameter)
	}
	return s.up.CheeseStream(ctx, api.StreamParams{
		AID:     id.AID,
		EPID:    id.EPID,
		CID:     id.CID,
		Quality: int(qn),
		Fnval:   int(fnval),
	}, session)
}
