package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memCmdable is an in-process stand-in for the go-redis command surface.
type memCmdable struct {
	data        map[string]string
	counters    map[string]int64
	expireCalls []expireCall
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMemCmdable() *memCmdable {
	return &memCmdable{
		data:     make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (m *memCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memCmdable) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *memCmdable) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memCmdable) SetNX(_ context.Context, key string, value any, _ time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *memCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	m.counters[key]++
	return redis.NewIntResult(m.counters[key], nil)
}

func (m *memCmdable) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: ttl})
	return redis.NewBoolResult(true, nil)
}

func (m *memCmdable) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newMemClient() (*Client, *memCmdable) {
	mem := newMemCmdable()
	return &Client{store: mem}, mem
}

func TestFixedWindowAllow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, mem := newMemClient()

	// First two requests fit within the limit; only the first arms the TTL.
	for want := int64(1); want <= 2; want++ {
		allowed, count, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !allowed || count != want {
			t.Fatalf("request %d: allowed=%v count=%d", want, allowed, count)
		}
	}
	if len(mem.expireCalls) != 1 {
		t.Fatalf("expected exactly one expire, got %d", len(mem.expireCalls))
	}

	allowed, _, err := client.FixedWindowAllow(ctx, "test-scope", 2, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Fatal("expected limit reached on third request")
	}
}

func TestSetGetDel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newMemClient()

	if err := client.Set(ctx, "key-a", "value-a", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, "key-a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != "value-a" {
		t.Fatalf("expected stored value, got %q", value)
	}

	if err := client.Del(ctx, "key-a"); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, "key-a"); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil after delete, got %v", err)
	}
}

func TestSetNXFirstWriterWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newMemClient()

	ok, err := client.SetNX(ctx, "once", "first", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if !ok {
		t.Fatal("expected first SetNX to win")
	}

	ok, err = client.SetNX(ctx, "once", "second", time.Minute)
	if err != nil {
		t.Fatalf("setnx failed: %v", err)
	}
	if ok {
		t.Fatal("expected second SetNX to lose")
	}

	if value, _ := client.Get(ctx, "once"); value != "first" {
		t.Fatalf("expected original value, got %q", value)
	}
}

func TestKeyBuilders(t *testing.T) {
	t.Parallel()

	client := &Client{}
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"idempotency", client.IdempotencyKey("scope", "id"), "ce:idempotency:scope:id"},
		{"rate limit", client.RateLimitKey("scope"), "ce:rate_limit:scope"},
		{"counter", client.CounterKey("hits"), "ce:counter:hits"},
		{"access session", client.AccessSessionKey("jti-1"), "ce:session:access:jti-1"},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s key: expected %q got %q", tc.name, tc.want, tc.got)
		}
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := &Client{}

	if err := client.Set(ctx, "k", "v", 0); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not-initialized error, got %v", err)
	}
	if _, err := client.Get(ctx, "k"); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not-initialized error, got %v", err)
	}
	if err := client.Ping(ctx); !errors.Is(err, errNotInitialized) {
		t.Fatalf("expected not-initialized error, got %v", err)
	}
}
