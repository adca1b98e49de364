package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
)

// fakeRedis implements the Get/Set subset of redis.UniversalClient used by
// RedisStore. Any other call panics through the nil embedded client.
type fakeRedis struct {
	redis.UniversalClient

	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	default:
		f.values[key] = fmt.Sprint(v)
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func newTestRedisStore(t *testing.T, client *fakeRedis, prefix string, ttl time.Duration) *RedisStore {
	t.Helper()
	store, err := NewRedisStore(client, prefix, ttl)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	store.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store := newTestRedisStore(t, client, "", 2*time.Hour)

	if err := store.Save(context.Background(), "session-1", sampleTranscript()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	key := "conv:session-1:agent:transcript"
	if _, ok := client.values[key]; !ok {
		t.Fatalf("stored keys = %v, want %s", client.values, key)
	}
	if client.ttls[key] != 2*time.Hour {
		t.Fatalf("ttl = %v, want 2h", client.ttls[key])
	}

	got, err := store.Load(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := sampleTranscript()
	if len(got) != len(want) {
		t.Fatalf("Load() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Load()[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestRedisStoreCustomPrefixAndNoTTL(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store := newTestRedisStore(t, client, " promo: ", 0)

	if err := store.Save(context.Background(), "s", sampleTranscript()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	ttl, ok := client.ttls["promo:s:agent:transcript"]
	if !ok {
		t.Fatalf("stored keys = %v, want promo:s:agent:transcript", client.values)
	}
	if ttl != 0 {
		t.Fatalf("ttl = %v, want 0", ttl)
	}
}

func TestRedisStoreLoadMissingSession(t *testing.T) {
	t.Parallel()

	store := newTestRedisStore(t, newFakeRedis(), "", time.Hour)
	_, err := store.Load(context.Background(), "nobody")
	if !errors.Is(err, contractx.ErrTranscriptNotFound) {
		t.Fatalf("Load() error = %v, want ErrTranscriptNotFound", err)
	}
}

func TestRedisStoreErrors(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	store := newTestRedisStore(t, client, "", time.Hour)

	if _, err := store.Load(context.Background(), " "); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load(blank) error = %v, want ErrInvalidSession", err)
	}
	if err := store.Save(context.Background(), "", sampleTranscript()); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(blank) error = %v, want ErrInvalidSession", err)
	}

	bad := contractx.Transcript{{Role: "narrator", Content: "x"}}
	if err := store.Save(context.Background(), "s", bad); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("Save(bad role) error = %v, want ErrValidation", err)
	}
	if len(client.values) != 0 {
		t.Fatalf("invalid transcript was written: %v", client.values)
	}

	client.values["conv:broken:agent:transcript"] = "{not json"
	if _, err := store.Load(context.Background(), "broken"); err == nil {
		t.Fatal("Load(corrupt) error = nil, want error")
	}

	down := errors.New("connection refused")
	client.getErr = down
	client.setErr = down
	if _, err := store.Load(context.Background(), "s"); !errors.Is(err, down) {
		t.Fatalf("Load() error = %v, want wrapped %v", err, down)
	}
	if err := store.Save(context.Background(), "s", sampleTranscript()); !errors.Is(err, down) {
		t.Fatalf("Save() error = %v, want wrapped %v", err, down)
	}
}

func TestNewRedisStoreValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStore(nil, "", time.Hour); err == nil {
		t.Fatal("NewRedisStore(nil) error = nil, want error")
	}
	if _, err := NewRedisStore(newFakeRedis(), "", -time.Second); err == nil {
		t.Fatal("NewRedisStore(negative ttl) error = nil, want error")
	}
}
