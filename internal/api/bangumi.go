package api

// BangumiDetail is the payload (under "result") of the PGC season endpoint.
type BangumiDetail struct {
	SeasonID int64            `json:"season_id"`
	Title    string           `json:"title"`
	Cover    string           `json:"cover"`
	Evaluate string           `json:"evaluate"`
	UpInfo   *UpInfo          `json:"up_info,omitempty"`
	Episodes []BangumiEpisode `json:"episodes"`
	Section  []BangumiSection `json:"section,omitempty"`
}

// BangumiSection groups extras such as trailers and specials.
type BangumiSection struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Episodes []BangumiEpisode `json:"episodes"`
}

// BangumiEpisode is one PGC episode, main or section extra.
type BangumiEpisode struct {
	ID        int64      `json:"id"`
	EPID      int64      `json:"ep_id,omitempty"`
	AID       int64      `json:"aid"`
	BVID      string     `json:"bvid"`
	CID       int64      `json:"cid"`
	Title     string     `json:"title"`
	LongTitle string     `json:"long_title"`
	Badge     string     `json:"badge,omitempty"`
	BadgeInfo *BadgeInfo `json:"badge_info,omitempty"`
	Status    int        `json:"status"`
	// Duration is in milliseconds.
	Duration *int64 `json:"duration,omitempty"`
}

// EpisodeID returns the episode id whichever key upstream used.
func (e BangumiEpisode) EpisodeID() int64 {
	if e.ID != 0 {
		return e.ID
	}
	return e.EPID
}

// BadgeInfo is the episode badge shown on the player, such as a membership tag.
type BadgeInfo struct {
	Text    string `json:"text"`
	BgColor string `json:"bg_color,omitempty"`
}

// UpInfo is the uploader block shared by PGC and PUGV seasons.
type UpInfo struct {
	MID    int64  `json:"mid"`
	Uname  string `json:"uname"`
	Avatar string `json:"avatar"`
}
