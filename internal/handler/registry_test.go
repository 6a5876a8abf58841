package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famomatic/bilidown/internal/types"
)

type fakeHandler struct {
	category types.Category
}

func (f fakeHandler) Category() types.Category { return f.category }

func (fakeHandler) GetVideoMeta(context.Context, string, string) (*types.VideoMeta, error) {
	return &types.VideoMeta{}, nil
}

func (fakeHandler) Download(context.Context, DownloadRequest) (*DownloadResult, error) {
	return &DownloadResult{}, nil
}

func TestNewRegistry_ResolvesRegistered(t *testing.T) {
	video := fakeHandler{category: types.CategoryVideo}
	cheese := fakeHandler{category: types.CategoryCheese}
	r, err := NewRegistry(video, cheese)
	require.NoError(t, err)

	got, err := r.Resolve(types.CategoryCheese)
	require.NoError(t, err)
	assert.Equal(t, cheese, got)
	assert.Equal(t, []types.Category{types.CategoryCheese, types.CategoryVideo}, r.Categories())

	_, err = r.Resolve(types.CategoryBangumi)
	assert.ErrorIs(t, err, types.ErrUnknownCategory)
}

func TestNewRegistry_DuplicateFails(t *testing.T) {
	_, err := NewRegistry(fakeHandler{category: types.CategoryVideo}, fakeHandler{category: types.CategoryVideo})
	assert.ErrorIs(t, err, types.ErrDuplicateRegistration)
}

func TestRegister_InvalidCategory(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)
	assert.ErrorIs(t, r.Register(fakeHandler{category: "live"}), types.ErrUnknownCategory)
	assert.ErrorIs(t, r.Register(nil), types.ErrUnknownCategory)
}

func TestNewDefaultRegistry(t *testing.T) {
	r, err := NewDefaultRegistry(Deps{})
	require.NoError(t, err)
	assert.Equal(t, []types.Category{types.CategoryBangumi, types.CategoryCheese, types.CategoryVideo}, r.Categories())
	for _, c := range types.Categories() {
		h, err := r.Resolve(c)
		require.NoError(t, err)
		assert.Equal(t, c, h.Category())
	}
}
