package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()
	m := NewMemory(time.Minute)
	ctx := context.Background()

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
	m.Set(ctx, "k", []byte("v"))
	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v; want v, true", got, ok)
	}
}

func TestMemory_Expiry(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"))
	now = now.Add(2 * time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
	if m.Len() != 0 {
		t.Errorf("expected expired entry removed, len = %d", m.Len())
	}
}

func TestMemory_SweepOnWrites(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i := range 50 {
		m.Set(ctx, fmt.Sprintf("old-%d", i), []byte("x"))
	}
	now = now.Add(time.Hour)
	for i := range 50 {
		m.Set(ctx, fmt.Sprintf("new-%d", i), []byte("y"))
	}
	if m.Len() != 50 {
		t.Errorf("expected sweep to leave 50 live entries, got %d", m.Len())
	}
}

func TestLookupSave(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory(time.Minute)

	type item struct{ Title string }
	Save(ctx, m, "items", []item{{Title: "Dune"}})

	var got []item
	if !Lookup(ctx, m, "items", &got) {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Title != "Dune" {
		t.Errorf("unexpected value: %+v", got)
	}

	m.Set(ctx, "broken", []byte("{"))
	if Lookup(ctx, m, "broken", &got) {
		t.Error("expected undecodable entry to miss")
	}
}

func TestNilStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	Save(ctx, nil, "k", "v")
	var out string
	if Lookup(ctx, nil, "k", &out) {
		t.Error("nil store should always miss")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	if s := New(0, "", "", nil); s != nil {
		t.Errorf("ttl 0 should disable caching, got %T", s)
	}
	if _, ok := New(time.Minute, "", "", nil).(*Memory); !ok {
		t.Error("expected memory store without redis address")
	}
	r, ok := New(time.Minute, "localhost:6379", "", nil).(*Redis)
	if !ok {
		t.Fatal("expected redis store with address")
	}
	_ = r.Close()
}
