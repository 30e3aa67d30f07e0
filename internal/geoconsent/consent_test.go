package geoconsent

import (
	"context"
	"testing"

	"dh2ocol/internal/visitors"
)

func newResolver() (*Resolver, *visitors.MemoryStore, *visitors.MemoryStore) {
	durable := visitors.NewMemoryStore()
	session := visitors.NewMemoryStore()
	return NewResolver(durable, session), durable, session
}

func TestBootstrapDefaultsToPrompt(t *testing.T) {
	r, _, _ := newResolver()
	got, err := r.Bootstrap(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != ActionPrompt {
		t.Errorf("Bootstrap = %q, want %q", got, ActionPrompt)
	}
}

func TestDenySuppressesForever(t *testing.T) {
	ctx := context.Background()
	r, durable, _ := newResolver()

	locate, err := r.Apply(ctx, ChoiceDeny)
	if err != nil {
		t.Fatal(err)
	}
	if locate {
		t.Error("deny must not locate")
	}

	if got, _ := r.Bootstrap(ctx); got != ActionNone {
		t.Errorf("Bootstrap after deny = %q, want %q", got, ActionNone)
	}

	// A fresh session over the same durable scope stays denied.
	r2 := NewResolver(durable, visitors.NewMemoryStore())
	if got, _ := r2.Bootstrap(ctx); got != ActionNone {
		t.Errorf("Bootstrap new session = %q, want %q", got, ActionNone)
	}
}

func TestAllowPersistentSurvivesSessions(t *testing.T) {
	ctx := context.Background()
	r, durable, _ := newResolver()

	locate, err := r.Apply(ctx, ChoiceAllowPersistent)
	if err != nil || !locate {
		t.Fatalf("Apply = %v, %v; want true, nil", locate, err)
	}

	r2 := NewResolver(durable, visitors.NewMemoryStore())
	if got, _ := r2.Bootstrap(ctx); got != ActionLocate {
		t.Errorf("Bootstrap = %q, want %q", got, ActionLocate)
	}
}

func TestAllowSessionDiesWithSession(t *testing.T) {
	ctx := context.Background()
	r, durable, _ := newResolver()

	if _, err := r.Apply(ctx, ChoiceAllowSession); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Bootstrap(ctx); got != ActionLocate {
		t.Errorf("same session Bootstrap = %q, want %q", got, ActionLocate)
	}

	r2 := NewResolver(durable, visitors.NewMemoryStore())
	if got, _ := r2.Bootstrap(ctx); got != ActionPrompt {
		t.Errorf("new session Bootstrap = %q, want %q", got, ActionPrompt)
	}
}

func TestAllowOnceIsNotStored(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newResolver()

	locate, err := r.Apply(ctx, ChoiceAllowOnce)
	if err != nil || !locate {
		t.Fatalf("Apply = %v, %v; want true, nil", locate, err)
	}
	if got, _ := r.Bootstrap(ctx); got != ActionPrompt {
		t.Errorf("Bootstrap after allow_once = %q, want %q", got, ActionPrompt)
	}
}

func TestCountryCache(t *testing.T) {
	ctx := context.Background()
	r, _, _ := newResolver()

	if got, err := r.CachedCountry(ctx); err != nil || got != "" {
		t.Fatalf("cold cache = %q, %v", got, err)
	}
	if err := r.SetCountry(ctx, "Colombia"); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.CachedCountry(ctx); got != "Colombia" {
		t.Errorf("CachedCountry = %q, want Colombia", got)
	}
}

func TestParseChoice(t *testing.T) {
	for _, v := range []string{"allow_persistent", "allow_session", "allow_once", "deny"} {
		if _, err := ParseChoice(v); err != nil {
			t.Errorf("ParseChoice(%q): %v", v, err)
		}
	}
	if _, err := ParseChoice("maybe"); err == nil {
		t.Error("ParseChoice(maybe) should fail")
	}
}
