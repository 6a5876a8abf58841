package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoMetaJSONFieldNames(t *testing.T) {
	aid := int64(7)
	duration := int64(600)
	meta := VideoMeta{
		Title:         "t",
		Staff:         []Staff{NewOwner("https://face", 1, "up")},
		Pages:         []Page{{AID: &aid, BVID: "BV1xx000000x", CID: 111, Title: "P1", Badge: "会员", Available: true, Duration: &duration, Category: CategoryVideo}},
		Formats:       []Format{{Quality: 32, Description: "480P"}},
		HasHiResAudio: true,
	}
	raw, err := json.Marshal(meta)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, true, got["has_high_resolution_audio"])

	page := got["pages"].([]any)[0].(map[string]any)
	assert.Equal(t, true, page["is_available"])
	assert.Equal(t, "会员", page["badge_text"])
	assert.Equal(t, float64(600), page["duration"])

	format := got["formats"].([]any)[0].(map[string]any)
	assert.Equal(t, "480P", format["new_description"])
	assert.Equal(t, false, format["is_login_needed"])
	assert.Equal(t, false, format["is_vip_needed"])

	staff := got["staff"].([]any)[0].(map[string]any)
	assert.Equal(t, DefaultStaffTitle, staff["title"])
	assert.Equal(t, "https://face", staff["avatar_url"])
}
