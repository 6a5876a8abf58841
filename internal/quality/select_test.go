package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type track struct {
	id  int
	url string
}

func (t track) TrackID() int { return t.id }

func tracks(ids ...int) []track {
	out := make([]track, 0, len(ids))
	for _, id := range ids {
		out = append(out, track{id: id})
	}
	return out
}

func TestSelectVideo(t *testing.T) {
	got, ok := SelectVideo(tracks(120, 80, 64, 32), Number(74))
	require.True(t, ok)
	assert.Equal(t, 64, got.id)

	got, ok = SelectVideo(tracks(120, 80, 64, 32), P240)
	require.True(t, ok)
	assert.Equal(t, 120, got.id)

	got, ok = SelectVideo(tracks(32, 64, 80), P1080)
	require.True(t, ok)
	assert.Equal(t, 80, got.id)

	_, ok = SelectVideo([]track(nil), P1080)
	assert.False(t, ok)
}

func TestSelectVideoKeepsFirstCodecOnTie(t *testing.T) {
	offered := []track{{id: 80, url: "avc"}, {id: 80, url: "hevc"}, {id: 64, url: "avc64"}}
	got, ok := SelectVideo(offered, P1080)
	require.True(t, ok)
	assert.Equal(t, "avc", got.url)
}

func TestSelectAudio(t *testing.T) {
	standard := tracks(30280, 30216)
	dolby := tracks(30250)
	hires := track{id: 30251}

	got, ok := SelectAudio(standard, dolby, &hires, true)
	require.True(t, ok)
	assert.Equal(t, 30251, got.id)

	got, ok = SelectAudio(standard, dolby, &hires, false)
	require.True(t, ok)
	assert.Equal(t, 30250, got.id)

	got, ok = SelectAudio(standard, nil, nil, true)
	require.True(t, ok)
	assert.Equal(t, 30280, got.id)

	_, ok = SelectAudio[track](nil, nil, nil, true)
	assert.False(t, ok)
}
