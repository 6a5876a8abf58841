package wbi

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	imgURL = "https://i0.hdslb.com/bfs/wbi/7cd084941338484aae1ad9425b84077c.png"
	subURL = "https://i0.hdslb.com/bfs/wbi/4932caff0ff746eab6f01bf08b70ac45.png"
)

type sourceMock struct {
	mock.Mock
}

func (m *sourceMock) WBIKeys(ctx context.Context) (string, string, error) {
	args := m.Called(ctx)
	return args.String(0), args.String(1), args.Error(2)
}

var vectorKeys = Keys{Img: "7cd084941338484aae1ad9425b84077c", Sub: "4932caff0ff746eab6f01bf08b70ac45"}

func TestKeysFromURLs(t *testing.T) {
	assert.Equal(t, vectorKeys, KeysFromURLs(imgURL, subURL))
}

func TestKeys_MixinKey(t *testing.T) {
	got, err := vectorKeys.MixinKey()
	require.NoError(t, err)
	assert.Equal(t, "ea1db124af3c7062474693fa704f4ff8", got)
}

func TestSignWithKeys_KnownVector(t *testing.T) {
	params := url.Values{}
	params.Set("foo", "114")
	params.Set("bar", "514")
	params.Set("zab", "1919810")

	got, err := SignWithKeys(params, vectorKeys, time.Unix(1702204169, 0))
	require.NoError(t, err)
	assert.Equal(t, "1702204169", got.Get("wts"))
	assert.Equal(t, "8f6f2b5b3d485fe1886cec6a0be8c5d4", got.Get("w_rid"))
	assert.Empty(t, params.Get("w_rid"), "input must not be mutated")
}

func TestSigner_CachesKey(t *testing.T) {
	src := &sourceMock{}
	src.On("WBIKeys", mock.Anything).Return(imgURL, subURL, nil).Once()

	s := NewSigner(src, nil, time.Hour)
	s.now = func() time.Time { return time.Unix(1702204169, 0) }

	params := url.Values{"foo": {"114"}, "bar": {"514"}, "zab": {"1919810"}}
	for i := 0; i < 3; i++ {
		got, err := s.Sign(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, "8f6f2b5b3d485fe1886cec6a0be8c5d4", got.Get("w_rid"))
	}
	src.AssertExpectations(t)
}

func TestSigner_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("nav down")
	src := &sourceMock{}
	src.On("WBIKeys", mock.Anything).Return("", "", boom)

	_, err := NewSigner(src, nil, 0).Sign(context.Background(), url.Values{})
	assert.ErrorIs(t, err, boom)
}

func TestSigner_UsesStoredKeys(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), storeKey, vectorKeys.encode(), time.Hour))
	src := &sourceMock{}

	s := NewSigner(src, store, time.Hour)
	s.now = func() time.Time { return time.Unix(1702204169, 0) }
	got, err := s.Sign(context.Background(), url.Values{"foo": {"114"}, "bar": {"514"}, "zab": {"1919810"}})
	require.NoError(t, err)
	assert.Equal(t, "8f6f2b5b3d485fe1886cec6a0be8c5d4", got.Get("w_rid"))
	src.AssertNotCalled(t, "WBIKeys", mock.Anything)
}

func TestSigner_MalformedKeyURLs(t *testing.T) {
	src := &sourceMock{}
	src.On("WBIKeys", mock.Anything).Return("", subURL, nil)

	_, err := NewSigner(src, nil, 0).Sign(context.Background(), url.Values{})
	assert.ErrorContains(t, err, "malformed key urls")
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Unix(100, 0)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(context.Background(), "k", "v", time.Minute))
	v, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	store := NewRedisStoreFromClient(client)
	defer store.Close()

	_, err := store.Get(context.Background(), storeKey)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrKeyNotFound))
}
