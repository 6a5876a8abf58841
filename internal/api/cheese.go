package api

// CheeseDetail is the payload of the PUGV season endpoint.
type CheeseDetail struct {
	SeasonID int64           `json:"season_id"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Cover    string          `json:"cover"`
	UpInfo   *UpInfo         `json:"up_info,omitempty"`
	Episodes []CheeseEpisode `json:"episodes"`
}

// CheeseEpisode is one course episode. Duration is in seconds.
type CheeseEpisode struct {
	ID       int64  `json:"id"`
	AID      int64  `json:"aid"`
	CID      int64  `json:"cid"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Duration int64  `json:"duration"`
}
