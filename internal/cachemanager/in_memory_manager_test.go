package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type docKey string

func TestInMemoryManager_SetAndGet(t *testing.T) {
	ctx := context.Background()
	mgr := NewInMemoryManager[docKey, []string]("documents", DefaultExpiration, DefaultCleanupInterval)

	mgr.Set(ctx, "parser|file:application.yml", []string{"doc-1", "doc-2"}, NoExpiration)

	got, ok := mgr.Get(ctx, "parser|file:application.yml")
	require.True(t, ok)
	require.Equal(t, []string{"doc-1", "doc-2"}, got)
}

func TestInMemoryManager_MissReturnsZero(t *testing.T) {
	ctx := context.Background()
	mgr := NewInMemoryManager[docKey, int]("documents", DefaultExpiration, DefaultCleanupInterval)

	got, ok := mgr.Get(ctx, "absent")
	require.False(t, ok)
	require.Zero(t, got)
}

func TestInMemoryManager_Delete(t *testing.T) {
	ctx := context.Background()
	mgr := NewInMemoryManager[docKey, string]("documents", DefaultExpiration, DefaultCleanupInterval)

	mgr.Set(ctx, "a", "1", NoExpiration)
	mgr.Set(ctx, "b", "2", NoExpiration)
	require.NoError(t, mgr.Delete(ctx, "a"))

	_, ok := mgr.Get(ctx, "a")
	require.False(t, ok)
	_, ok = mgr.Get(ctx, "b")
	require.True(t, ok)
}

func TestInMemoryManager_Flush(t *testing.T) {
	ctx := context.Background()
	mgr := NewInMemoryManager[docKey, string]("documents", DefaultExpiration, DefaultCleanupInterval)

	mgr.Set(ctx, "a", "1", NoExpiration)
	require.NoError(t, mgr.Flush(ctx))

	_, ok := mgr.Get(ctx, "a")
	require.False(t, ok)
}

func TestInMemoryManager_TTLExpires(t *testing.T) {
	ctx := context.Background()
	mgr := NewInMemoryManager[docKey, string]("documents", DefaultExpiration, DefaultCleanupInterval)

	mgr.Set(ctx, "short", "v", 10*time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := mgr.Get(ctx, "short")
		return !ok
	}, time.Second, 20*time.Millisecond)
}
