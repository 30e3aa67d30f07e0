package visitors

import (
	"context"
	"testing"
)

func TestCounterIncrementsOncePerSession(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	session := NewMemoryStore()
	c := NewCounter(durable, session)

	got, err := c.Init(ctx)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got != 1 {
		t.Fatalf("first Init = %d, want 1", got)
	}

	// Same session: reloads do not grow the count.
	for i := 0; i < 5; i++ {
		got, err = c.Init(ctx)
		if err != nil {
			t.Fatalf("Init: %v", err)
		}
		if got != 1 {
			t.Fatalf("reload Init = %d, want 1", got)
		}
	}

	// New session against the same durable store counts again.
	c2 := NewCounter(durable, NewMemoryStore())
	got, err = c2.Init(ctx)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got != 2 {
		t.Fatalf("new-session Init = %d, want 2", got)
	}
}

func TestCounterRecoversFromCorruptValue(t *testing.T) {
	ctx := context.Background()
	durable := NewMemoryStore()
	durable.Set(ctx, countKey, "not-a-number")

	c := NewCounter(durable, NewMemoryStore())
	got, err := c.Init(ctx)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got != 1 {
		t.Fatalf("Init = %d, want restart at 1", got)
	}
}

func TestCounterCountDoesNotMarkSession(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(NewMemoryStore(), NewMemoryStore())

	if n, err := c.Count(ctx); err != nil || n != 0 {
		t.Fatalf("Count = %d, %v; want 0, nil", n, err)
	}
	if n, err := c.Init(ctx); err != nil || n != 1 {
		t.Fatalf("Init = %d, %v; want 1, nil", n, err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := s.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("Get deleted = %v, want ErrNotFound", err)
	}
	// Deleting again stays a no-op.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
}
