package client

import (
	"github.com/famomatic/bilidown/internal/quality"
	"github.com/famomatic/bilidown/internal/types"
)

type (
	Category   = types.Category
	Identifier = types.Identifier
	VideoMeta  = types.VideoMeta
	Page       = types.Page
	Staff      = types.Staff
	Format     = types.Format

	// AudioPreference chooses between hi-res, Dolby and standard audio.
	AudioPreference = quality.AudioPreference
)

const (
	CategoryVideo   = types.CategoryVideo
	CategoryBangumi = types.CategoryBangumi
	CategoryCheese  = types.CategoryCheese
)

// DownloadRequest addresses one page of a previously fetched VideoMeta.
type DownloadRequest struct {
	// Dir is the output directory. It must exist.
	Dir string
	// Category selects the handler. It is not re-derived from any URL.
	Category Category
	// Identifier carries the page ids, usually Page.Identifier().
	Identifier Identifier
	// Title names the output files. Empty falls back to the page id.
	Title string
	// Artist is written as a tag when tracks are merged.
	Artist string
	// Quality is the requested tier; the best offered tier at or below it is fetched.
	Quality quality.Number
	Audio   AudioPreference
	// SessionToken is the SESSDATA cookie value, if any.
	SessionToken string
}

// DownloadResult lists what was written.
type DownloadResult struct {
	// Files are the downloaded files, video before audio.
	Files []string
	Bytes int64
	// MergedPath is set when split tracks were merged into one file.
	MergedPath string
	// ObjectKeys are the uploaded object keys, in Files order (or the merged file).
	ObjectKeys []string
}

// UserInfo describes the account behind a session token.
type UserInfo struct {
	LoggedIn  bool
	MID       int64
	Name      string
	AvatarURL string
	VIP       bool
	VIPType   int
}
