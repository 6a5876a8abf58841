package api

// StreamMeta is the playback-address payload shared by all three categories.
type StreamMeta struct {
	Quality        int             `json:"quality"`
	Format         string          `json:"format,omitempty"`
	AcceptQuality  []int           `json:"accept_quality,omitempty"`
	SupportFormats []SupportFormat `json:"support_formats,omitempty"`
	Durl           []Durl          `json:"durl,omitempty"`
	Dash           *Dash           `json:"dash,omitempty"`
}

// SupportFormat is one advertised quality tier.
type SupportFormat struct {
	Quality        int    `json:"quality"`
	Format         string `json:"format,omitempty"`
	NewDescription string `json:"new_description,omitempty"`
	DisplayDesc    string `json:"display_desc,omitempty"`
}

// Durl is one segment of a combined (audio+video) stream.
type Durl struct {
	Order     int      `json:"order"`
	Length    int64    `json:"length,omitempty"`
	Size      int64    `json:"size,omitempty"`
	URL       string   `json:"url"`
	BackupURL []string `json:"backup_url,omitempty"`
}

// Dash holds split video and audio tracks.
type Dash struct {
	Duration int64        `json:"duration,omitempty"`
	Video    []DashStream `json:"video"`
	Audio    []DashStream `json:"audio,omitempty"`
	Dolby    *DashDolby   `json:"dolby,omitempty"`
	Flac     *DashFlac    `json:"flac,omitempty"`
}

// DashDolby is the optional Dolby audio group.
type DashDolby struct {
	Type  int          `json:"type"`
	Audio []DashStream `json:"audio,omitempty"`
}

// DashFlac is the optional lossless audio group.
type DashFlac struct {
	Display bool        `json:"display"`
	Audio   *DashStream `json:"audio,omitempty"`
}

// DashStream is one DASH track. Upstream emits both snake and camel case keys.
type DashStream struct {
	ID             int      `json:"id"`
	BaseURLSnake   string   `json:"base_url,omitempty"`
	BaseURLCamel   string   `json:"baseUrl,omitempty"`
	BackupURLSnake []string `json:"backup_url,omitempty"`
	BackupURLCamel []string `json:"backupUrl,omitempty"`
	Bandwidth      int64    `json:"bandwidth,omitempty"`
	MimeType       string   `json:"mime_type,omitempty"`
	Codecs         string   `json:"codecs,omitempty"`
	Width          int      `json:"width,omitempty"`
	Height         int      `json:"height,omitempty"`
	FrameRate      string   `json:"frame_rate,omitempty"`
}

func (s DashStream) TrackID() int { return s.ID }

// BaseURL returns the primary URL whichever key upstream used.
func (s DashStream) BaseURL() string {
	if s.BaseURLSnake != "" {
		return s.BaseURLSnake
	}
	return s.BaseURLCamel
}

// BackupURLs returns the mirror URLs whichever key upstream used.
func (s DashStream) BackupURLs() []string {
	if len(s.BackupURLSnake) > 0 {
		return s.BackupURLSnake
	}
	return s.BackupURLCamel
}

// HiResAudio returns the lossless track if upstream offered one.
func (m *StreamMeta) HiResAudio() *DashStream {
	if m == nil || m.Dash == nil || m.Dash.Flac == nil {
		return nil
	}
	return m.Dash.Flac.Audio
}

// DolbyAudio returns the Dolby tracks, possibly empty.
func (m *StreamMeta) DolbyAudio() []DashStream {
	if m == nil || m.Dash == nil || m.Dash.Dolby == nil {
		return nil
	}
	return m.Dash.Dolby.Audio
}
