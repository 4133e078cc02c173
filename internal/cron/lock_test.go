package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	data map[string]string
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestRedisLockIsExclusive(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{data: map[string]string{}}
	first, err := NewRedisLock(store, "potionshop:lock:cron", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "potionshop:lock:cron", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, first.Owner())

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, second.Release(ctx))
	require.Contains(t, store.data, "potionshop:lock:cron", "non-holder must not release")

	require.NoError(t, first.Release(ctx))
	require.Empty(t, store.data)
	require.Empty(t, first.Owner())
}

func TestRedisLockLeavesTakenOverKey(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{data: map[string]string{}}
	lock, err := NewRedisLock(store, "k", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	store.data["k"] = "other-replica"

	require.NoError(t, lock.Release(ctx))
	require.Equal(t, "other-replica", store.data["k"])
}

func TestNewRedisLockValidates(t *testing.T) {
	_, err := NewRedisLock(nil, "k", 0)
	require.Error(t, err)
	_, err = NewRedisLock(&memoryStore{}, "", 0)
	require.Error(t, err)
	lock, err := NewRedisLock(&memoryStore{}, "k", 0)
	require.NoError(t, err)
	require.Equal(t, defaultLockTTL, lock.ttl)
}
