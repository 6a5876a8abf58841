package api

// VideoDetail is the payload of the ordinary video detail endpoint.
type VideoDetail struct {
	BVID     string       `json:"bvid"`
	AID      int64        `json:"aid"`
	Pic      string       `json:"pic"`
	Title    string       `json:"title"`
	Desc     string       `json:"desc"`
	Duration int64        `json:"duration,omitempty"`
	Owner    VideoOwner   `json:"owner"`
	Staff    []VideoStaff `json:"staff,omitempty"`
	Pages    []VideoPage  `json:"pages"`
}

// VideoOwner is the uploader of a video.
type VideoOwner struct {
	MID  int64  `json:"mid"`
	Name string `json:"name"`
	Face string `json:"face"`
}

// VideoStaff is one member of a collaborative upload.
type VideoStaff struct {
	MID   int64  `json:"mid"`
	Title string `json:"title"`
	Name  string `json:"name"`
	Face  string `json:"face"`
}

// VideoPage is one part of a multi-part upload. Duration is in seconds.
type VideoPage struct {
	CID      int64  `json:"cid"`
	Page     int    `json:"page"`
	Part     string `json:"part"`
	Duration int64  `json:"duration"`
}
