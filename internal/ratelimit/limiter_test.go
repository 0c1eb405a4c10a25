package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter wires a limiter and memory store to a controllable clock.
func newTestLimiter(t *testing.T) (*Limiter, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewMemoryStore()
	store.now = clock
	l := New(store, nil)
	l.now = clock
	return l, &now
}

func TestCheck_CountsDownThenDenies(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for want := MaxRequests - 1; want >= 0; want-- {
		res := l.Check(ctx, "203.0.113.7")
		require.True(t, res.Allowed)
		assert.Equal(t, want, res.Remaining)
	}

	res := l.Check(ctx, "203.0.113.7")
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	// Denied checks do not increment; the bucket stays exactly full.
	res = l.Check(ctx, "203.0.113.7")
	assert.False(t, res.Allowed)
}

func TestCheck_WindowExpiryResets(t *testing.T) {
	l, now := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < MaxRequests+1; i++ {
		l.Check(ctx, "203.0.113.7")
	}
	require.False(t, l.Check(ctx, "203.0.113.7").Allowed)

	*now = now.Add(Window + time.Second)

	res := l.Check(ctx, "203.0.113.7")
	assert.True(t, res.Allowed)
	assert.Equal(t, MaxRequests-1, res.Remaining)
}

func TestCheck_IPsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 0; i < MaxRequests; i++ {
		require.True(t, l.Check(ctx, "203.0.113.7").Allowed)
	}
	require.False(t, l.Check(ctx, "203.0.113.7").Allowed)

	res := l.Check(ctx, "198.51.100.9")
	assert.True(t, res.Allowed)
	assert.Equal(t, MaxRequests-1, res.Remaining)
}

func TestCheck_NilStoreDisablesLimiting(t *testing.T) {
	l := New(nil, nil)

	for i := 0; i < MaxRequests*3; i++ {
		res := l.Check(context.Background(), "203.0.113.7")
		require.True(t, res.Allowed)
		assert.Equal(t, MaxRequests, res.Remaining)
	}
}

type failingStore struct {
	getErr error
	putErr error
}

func (s *failingStore) Get(context.Context, string) (*Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return nil, nil
}

func (s *failingStore) Put(context.Context, string, Record, time.Duration) error {
	return s.putErr
}

func TestCheck_StoreErrorsFailOpen(t *testing.T) {
	tests := []struct {
		name  string
		store Store
	}{
		{"read failure", &failingStore{getErr: errors.New("connection refused")}},
		{"write failure", &failingStore{putErr: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.store, nil)
			res := l.Check(context.Background(), "203.0.113.7")
			assert.True(t, res.Allowed)
			assert.Equal(t, MaxRequests, res.Remaining)
		})
	}
}

func TestCheck_ResetAtIsPreservedAcrossIncrements(t *testing.T) {
	l, now := newTestLimiter(t)
	ctx := context.Background()

	first := l.Check(ctx, "203.0.113.7")
	require.True(t, first.Allowed)

	store := l.store.(*MemoryStore)
	rec, err := store.Get(ctx, "rate_limit:203.0.113.7")
	require.NoError(t, err)
	wantReset := rec.ResetAt

	*now = now.Add(10 * time.Minute)
	l.Check(ctx, "203.0.113.7")

	rec, err = store.Get(ctx, "rate_limit:203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count)
	assert.Equal(t, wantReset, rec.ResetAt, "increments must not slide the window")
}

func TestMemoryStore_EntriesExpire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Put(context.Background(), "k", Record{Count: 3, ResetAt: 1}, time.Minute))

	rec, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.NotNil(t, rec)

	now = now.Add(2 * time.Minute)
	rec, err = store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
