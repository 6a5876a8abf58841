package types

// DefaultStaffTitle is the role title carried by an Owner record.
const DefaultStaffTitle = "UP主"

// StaffKind discriminates the Staff variant.
type StaffKind int

const (
	// StaffOwner is the single uploader of a work.
	StaffOwner StaffKind = iota
	// StaffCredited is a member of a credited staff list with its own role title.
	StaffCredited
)

// Staff is one person credited on a work.
type Staff struct {
	Kind      StaffKind `json:"kind"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	MID       int64     `json:"mid"`
	Name      string    `json:"name"`
	Title     string    `json:"title"`
}

// NewOwner returns an Owner record carrying DefaultStaffTitle.
func NewOwner(avatarURL string, mid int64, name string) Staff {
	return Staff{Kind: StaffOwner, AvatarURL: avatarURL, MID: mid, Name: name, Title: DefaultStaffTitle}
}

// NewCreditedStaff returns a credited record with its own role title.
func NewCreditedStaff(avatarURL string, mid int64, name, title string) Staff {
	return Staff{Kind: StaffCredited, AvatarURL: avatarURL, MID: mid, Name: name, Title: title}
}

// Page is one playable sub-unit of a work.
type Page struct {
	AID       *int64 `json:"aid,omitempty"`
	BVID      string `json:"bvid,omitempty"`
	EPID      *int64 `json:"epid,omitempty"`
	CID       int64  `json:"cid"`
	Title     string `json:"title"`
	Badge     string `json:"badge_text"`
	Available bool   `json:"is_available"`
	// Duration is in seconds; nil when upstream does not report it.
	Duration *int64   `json:"duration,omitempty"`
	Category Category `json:"category"`
}

// Identifier returns the ids needed to request this page's stream.
func (p Page) Identifier() Identifier {
	id := Identifier{BVID: p.BVID, CID: p.CID}
	if p.AID != nil {
		id.AID = *p.AID
	}
	if p.EPID != nil {
		id.EPID = *p.EPID
	}
	return id
}

// Format is one offered quality tier with derived gating.
type Format struct {
	Quality       int    `json:"quality"`
	Description   string `json:"new_description"`
	LoginRequired bool   `json:"is_login_needed"`
	VIPRequired   bool   `json:"is_vip_needed"`
}

// VideoMeta is the normalized description of one work.
type VideoMeta struct {
	CoverURL      string   `json:"cover_url"`
	Description   string   `json:"description"`
	SourceURL     string   `json:"source_url"`
	Title         string   `json:"title"`
	Staff         []Staff  `json:"staff"`
	Pages         []Page   `json:"pages"`
	Formats       []Format `json:"formats"`
	HasHiResAudio bool     `json:"has_high_resolution_audio"`
}
