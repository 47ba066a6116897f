package cache

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lrydzkowski/LexicaNext-sub002/internal/model"
)

func TestSetKey(t *testing.T) {
	t.Parallel()

	id := model.NewID()
	key := setKey(id)
	if !strings.HasPrefix(key, "set:") || !strings.HasSuffix(key, id.String()) {
		t.Errorf("unexpected key %q", key)
	}
}

func TestDecodeSet(t *testing.T) {
	t.Parallel()

	set := &model.Set{ID: model.NewID(), UserID: "u1", Name: "Animals", CreatedAt: time.Now().UTC()}
	data, _ := json.Marshal(set)

	got, err := decodeSet(data)
	if err != nil {
		t.Fatalf("decodeSet failed: %v", err)
	}
	if got.ID != set.ID || got.Name != "Animals" {
		t.Errorf("unexpected decoded set: %+v", got)
	}
	if got.Words == nil {
		t.Error("decoded words should be non-nil")
	}
}

func TestDecodeSet_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "garbage"},
		{"empty object", "{}"},
		{"nil id", `{"id":"00000000-0000-0000-0000-000000000000"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := decodeSet([]byte(tt.data)); err == nil {
				t.Errorf("decodeSet(%q) expected error", tt.data)
			}
		})
	}
}

func TestNewWithClient_DefaultTTLs(t *testing.T) {
	t.Parallel()

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	c := NewWithClient(client, Options{})
	if c.setTTL != DefaultSetTTL || c.authTTL != DefaultAuthTTL {
		t.Errorf("unexpected TTLs: %v %v", c.setTTL, c.authTTL)
	}

	c = NewWithClient(client, Options{SetTTL: time.Minute, AuthTTL: time.Second})
	if c.setTTL != time.Minute || c.authTTL != time.Second {
		t.Errorf("unexpected TTLs: %v %v", c.setTTL, c.authTTL)
	}
}

func TestBucketTTL(t *testing.T) {
	t.Parallel()

	perMilli := 600.0 / 60000.0 // 600 per minute
	if got := bucketTTL(perMilli, 60); got != minBucketTTL {
		t.Errorf("bucketTTL(600/min, 60) = %v, want %v", got, minBucketTTL)
	}

	perMilli = 1.0 / 60000.0 // 1 per minute
	if got := bucketTTL(perMilli, 5); got != 5*time.Minute {
		t.Errorf("bucketTTL(1/min, 5) = %v, want 5m", got)
	}
}

func TestRoundUpToSecond(t *testing.T) {
	t.Parallel()

	tests := map[time.Duration]time.Duration{
		0:                       0,
		-time.Second:            0,
		time.Millisecond:        time.Second,
		time.Second:             time.Second,
		1500 * time.Millisecond: 2 * time.Second,
	}
	for in, want := range tests {
		if got := roundUpToSecond(in); got != want {
			t.Errorf("roundUpToSecond(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckAPIRateLimit_ZeroRateSkipsRedis(t *testing.T) {
	t.Parallel()

	// Nothing listens here; a zero rate must not dial.
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), Options{})
	defer c.Close()

	res, err := c.CheckAPIRateLimit(context.Background(), "kid", 0, 10)
	if err != nil {
		t.Fatalf("CheckAPIRateLimit() error = %v", err)
	}
	if !res.Allowed || res.Remaining != 10 {
		t.Errorf("unexpected result %+v", res)
	}
}
