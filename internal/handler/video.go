package handler

import (
	"context"
	"fmt"

	"github.com/famomatic/bilidown/internal/api"
	"github.com/famomatic/bilidown/internal/classifier"
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

type videoStrategy struct {
	up Upstream
}

func (videoStrategy) category() types.Category { return types.CategoryVideo }

// resolveDetail tries the BV id first and falls back to the AV id.
func (s videoStrategy) resolveDetail(ctx context.Context, url, session string) (*api.VideoDetail, error) {
	if bvid, ok := classifier.ExtractBVID(url); ok {
		return s.up.VideoDetail(ctx, bvid, 0, session)
	}
	if aid, ok := classifier.ExtractAID(url); ok {
		return s.up.VideoDetail(ctx, "", aid, session)
	}
	return nil, fmt.Errorf("%w: no BV or AV id in %q", types.ErrIdentifierMissing, url)
}

func (videoStrategy) pages(d *api.VideoDetail) []types.Page {
	out := make([]types.Page, 0, len(d.Pages))
	for _, p := range d.Pages {
		duration := p.Duration
		out = append(out, types.Page{
			AID:       optionalInt(d.AID),
			BVID:      d.BVID,
			CID:       p.CID,
			Title:     p.Part,
			Available: true,
			Duration:  &duration,
			Category:  types.CategoryVideo,
		})
	}
	return out
}

func (videoStrategy) sample(d *api.VideoDetail) (types.Identifier, error) {
	if len(d.Pages) == 0 {
		return types.Identifier{}, &api.UpstreamError{Endpoint: api.VideoDetailURL, Message: "empty page list", Kind: api.KindNotFound}
	}
	return types.Identifier{AID: d.AID, BVID: d.BVID, CID: d.Pages[0].CID}, nil
}

func (videoStrategy) describe(d *api.VideoDetail) types.VideoMeta {
	var staff []types.Staff
	if len(d.Staff) > 0 {
		staff = make([]types.Staff, 0, len(d.Staff))
		for _, m := range d.Staff {
			staff = append(staff, types.NewCreditedStaff(m.Face, m.MID, m.Name, m.Title))
		}
	} else {
		staff = []types.Staff{types.NewOwner(d.Owner.Face, d.Owner.MID, d.Owner.Name)}
	}
	return types.VideoMeta{
		CoverURL:    d.Pic,
		Description: d.Desc,
		Title:       d.Title,
		Staff:       staff,
	}
}

func (s videoStrategy) resolveStreamMeta(ctx context.Context, id types.Identifier, qn quality.Number, fnval quality.Flag, session string) (*api.StreamMeta, error) {
	if id.BVID == "" && id.AID == 0 {
		return nil, fmt.Errorf("%w: video stream needs bvid or aid", types.ErrIdentifierMissing)
	}
	if id.CID == 0 {
		return nil, fmt.Errorf("%w: video stream needs cid", types.ErrMissingRequiredParameter)
	}
	return s.up.VideoStream(ctx, api.StreamParams{
		BVID:    id.BVID,
		AID:     id.AID,
		CID:     id.CID,
		Quality: int(qn),
		Fnval:   int(fnval),
	}, session)
}

func optionalInt(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
