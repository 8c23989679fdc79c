package bloom

import (
	"context"
	"testing"
	"time"

	"budgetsim/pkg/cache"
	"budgetsim/pkg/cache/memory"
)

func newTestLayer(t *testing.T) *Layer {
	t.Helper()
	l := New(memory.New(memory.DefaultConfig()), 1000, 0.01)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLayer_RejectsUnseenKeys(t *testing.T) {
	l := newTestLayer(t)

	if _, err := l.Get(context.Background(), "never-written"); !cache.IsNotFound(err) {
		t.Fatalf("Expected ErrKeyNotFound, got %v", err)
	}

	queries, rejected := l.Stats()
	if queries != 1 || rejected != 1 {
		t.Errorf("Expected 1 query and 1 rejection, got %d/%d", queries, rejected)
	}
}

func TestLayer_SetThenGet(t *testing.T) {
	l := newTestLayer(t)
	ctx := context.Background()

	if err := l.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := l.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "value1" {
		t.Errorf("Expected value1, got %s", value)
	}

	_, rejected := l.Stats()
	if rejected != 0 {
		t.Errorf("Expected no rejections for a seen key, got %d", rejected)
	}
}

func TestLayer_DeletedKeyStillPassesFilter(t *testing.T) {
	l := newTestLayer(t)
	ctx := context.Background()

	l.Set(ctx, "key1", []byte("value1"), time.Minute)
	if err := l.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// The filter never forgets; the wrapped layer reports the miss.
	if _, err := l.Get(ctx, "key1"); !cache.IsNotFound(err) {
		t.Fatalf("Expected ErrKeyNotFound from the wrapped layer, got %v", err)
	}
	_, rejected := l.Stats()
	if rejected != 0 {
		t.Errorf("Expected the filter to pass the deleted key, got %d rejections", rejected)
	}
}

func TestLayer_Reset(t *testing.T) {
	l := newTestLayer(t)
	ctx := context.Background()

	l.Set(ctx, "key1", []byte("value1"), time.Minute)
	l.Reset()

	if _, err := l.Get(ctx, "key1"); !cache.IsNotFound(err) {
		t.Fatalf("Expected rejection after reset, got %v", err)
	}
	queries, rejected := l.Stats()
	if queries != 1 || rejected != 1 {
		t.Errorf("Expected counters restarted at 1/1, got %d/%d", queries, rejected)
	}
}

func TestLayer_Name(t *testing.T) {
	l := newTestLayer(t)

	if l.Name() != "bloom(memory)" {
		t.Errorf("Expected bloom(memory), got %q", l.Name())
	}
}
