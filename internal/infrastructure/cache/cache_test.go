package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, "k", "v", time.Minute))

	val, found, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)

	_, found, err = ms.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, "k", "v", -time.Second))

	_, found, err := ms.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKey_DerivedFromContent(t *testing.T) {
	a := Key("transcript one")
	b := Key("transcript two")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("transcript one"))
	assert.Contains(t, a, "analysis:")
}

func TestAnalysisCache_RoundTrip(t *testing.T) {
	c := NewAnalysisCache(NewMemoryStore(), time.Minute, nil)
	ctx := context.Background()

	result := &entities.AnalysisResult{
		Summary:  "s",
		Topics:   []string{"a"},
		Keywords: []string{"b"},
	}
	c.Put(ctx, "the transcript", result)

	got, hit := c.Get(ctx, "the transcript")
	require.True(t, hit)
	assert.Equal(t, result, got)

	_, hit = c.Get(ctx, "another transcript")
	assert.False(t, hit)
}

func TestAnalysisCache_UndecodableEntryIsAMiss(t *testing.T) {
	ms := NewMemoryStore()
	c := NewAnalysisCache(ms, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, Key("t"), "{broken", time.Minute))

	_, hit := c.Get(ctx, "t")
	assert.False(t, hit)
}
