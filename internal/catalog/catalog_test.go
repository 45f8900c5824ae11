package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boostbot/internal/agency"
)

type stubFetcher struct {
	services []agency.RemoteService
	err      error
}

func (s *stubFetcher) Services(ctx context.Context) ([]agency.RemoteService, error) {
	return s.services, s.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		category string
		ok       bool
	}{
		{"Instagram Followers [Real]", "Instagram", "Followers", true},
		{"Instagram Post Likes", "Instagram", "Likes", true},
		{"Instagram Story Views", "Instagram", "Views", true},
		{"YouTube Subscribers HQ", "YouTube", "Subscribers", true},
		{"YouTube Shorts Views", "YouTube", "Shorts Likes/Views", true},
		{"YouTube Watch Time 1000 Hours", "YouTube", "Watch Time", true},
		{"Telegram Channel Members", "Telegram", "Members", true},
		{"Telegram Post Reactions", "Telegram", "Reactions", true},
		{"TikTok Video Shares", "TikTok", "Engagement", true},
		{"Twitter Tweet Likes", "Twitter", "Likes", true},
		{"Facebook Page Followers", "Facebook", "Followers", true},
		{"Spotify Plays", "", "", false},
		{"Instagram Auto Mix", "Instagram", "Uncategorized", true},
	}
	for _, tt := range tests {
		platform, category, ok := Classify(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.platform, platform, tt.name)
		assert.Equal(t, tt.category, category, tt.name)
	}
}

func TestLoadBuildsTree(t *testing.T) {
	f := &stubFetcher{services: []agency.RemoteService{
		{ID: 1, Name: "Instagram Followers", Rate: 85, Min: 100, Max: 10000},
		{ID: 2, Name: "Instagram Likes Cheap", Rate: 20, Min: 50, Max: 50000},
		{ID: 3, Name: "Instagram Likes Premium", Rate: 10, Min: 50, Max: 50000},
		{ID: 4, Name: "Spotify Plays", Rate: 5, Min: 100, Max: 1000},
	}}
	c := New(f, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 3, c.Count())
	assert.Equal(t, []string{"Instagram"}, c.Platforms())
	assert.Equal(t, []string{"Followers", "Likes"}, c.Categories("Instagram"))

	likes := c.Services("Instagram", "Likes")
	require.Len(t, likes, 2)
	// cheapest first
	assert.Equal(t, int64(3), likes[0].ID)
	assert.Equal(t, int64(2), likes[1].ID)
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	f := &stubFetcher{services: []agency.RemoteService{
		{ID: 1, Name: "Instagram Followers", Rate: 85, Min: 100, Max: 10000},
	}}
	c := New(f, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	f.err = errors.New("agency down")
	require.Error(t, c.Load(context.Background()))

	// old snapshot still serves
	assert.Equal(t, 1, c.Count())
	svc, err := c.Find(1)
	require.NoError(t, err)
	assert.Equal(t, "Instagram", svc.Platform)
}

func TestLoadReplacesWholesale(t *testing.T) {
	f := &stubFetcher{services: []agency.RemoteService{
		{ID: 1, Name: "Instagram Followers", Rate: 85},
	}}
	c := New(f, zap.NewNop())
	require.NoError(t, c.Load(context.Background()))

	f.services = []agency.RemoteService{
		{ID: 2, Name: "YouTube Subscribers", Rate: 300},
	}
	require.NoError(t, c.Load(context.Background()))

	_, err := c.Find(1)
	assert.ErrorIs(t, err, ErrServiceNotFound)
	svc, err := c.Find(2)
	require.NoError(t, err)
	assert.Equal(t, "YouTube", svc.Platform)
	assert.Equal(t, []string{"YouTube"}, c.Platforms())
}

func TestFindNotFound(t *testing.T) {
	c := New(&stubFetcher{}, zap.NewNop())
	_, err := c.Find(999)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
