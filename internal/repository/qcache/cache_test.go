package qcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/truestate/salesdex/internal/db"
	"github.com/truestate/salesdex/internal/domain/query/result"
	"github.com/truestate/salesdex/internal/domain/sale"
)

type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func TestCache_RoundTrip(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	page := result.Page{
		Items:      []sale.Sale{{CustomerID: "c1"}},
		Total:      1,
		Page:       1,
		PageSize:   10,
		TotalPages: 1,
	}
	c.Set(ctx, "fp|s=", page)

	got, ok := c.Get(ctx, "fp|s=")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Total != 1 || len(got.Items) != 1 || got.Items[0].CustomerID != "c1" {
		t.Errorf("round trip: got %+v", got)
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	c := New(newFakeStore(), time.Minute, nil, zap.NewNop())

	if _, ok := c.Get(context.Background(), "never-set"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_BackendFailureIsMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection reset")
	c := New(store, time.Minute, nil, zap.NewNop())

	if _, ok := c.Get(context.Background(), "any"); ok {
		t.Error("backend failure must read as a miss")
	}
}

func TestCache_SetFailureIsSilent(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("connection reset")
	c := New(store, time.Minute, nil, zap.NewNop())

	// Must not panic or propagate.
	c.Set(context.Background(), "any", result.Page{})
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "key", result.Page{Total: 1})
	for k := range store.data {
		store.data[k] = []byte("{not json")
	}

	if _, ok := c.Get(ctx, "key"); ok {
		t.Error("corrupt entry must read as a miss")
	}
}

func TestCache_KeysAreHashedAndPrefixed(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute, nil, zap.NewNop())

	longKey := strings.Repeat("regions=north,south,east,west|", 100)
	c.Set(context.Background(), longKey, result.Page{})

	for k := range store.data {
		if !strings.HasPrefix(k, cacheKeyPrefix) {
			t.Errorf("stored key missing prefix: %q", k)
		}
		if len(k) > len(cacheKeyPrefix)+64 {
			t.Errorf("stored key not hashed to a bounded length: %d chars", len(k))
		}
	}
}
