package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "absent"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	payload := []byte{0x89, 'P', 'N', 'G', 0, 1, 2, 3}
	if err := c.Set(ctx, "k", payload, 0); err != nil {
		t.Fatal(err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: %v", got)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("entry survived delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting absent key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Error("expired entry still readable")
	}

	// overwriting with no TTL must drop the old expiry
	if err := c.Set(ctx, "k", []byte("a"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("b"), 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	got, ok, _ := c.Get(ctx, "k")
	if !ok || string(got) != "b" {
		t.Errorf("overwritten entry: ok=%v data=%q", ok, got)
	}
}

func TestNullCacheAlwaysMisses(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("null cache: ok=%v err=%v", ok, err)
	}
}

func TestArtifactKeyDiscriminates(t *testing.T) {
	k := NewDefaultKeyer()
	base := k.ArtifactKey("hash-a", 2)
	if k.ArtifactKey("hash-a", 2) != base {
		t.Error("same inputs should produce the same key")
	}
	if k.ArtifactKey("hash-b", 2) == base {
		t.Error("state hash ignored")
	}
	if k.ArtifactKey("hash-a", 1) == base {
		t.Error("pixel ratio ignored")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "session:1:")
	key := scoped.ArtifactKey("h", 2)
	want := "session:1:" + inner.ArtifactKey("h", 2)
	if key != want {
		t.Errorf("scoped key = %q, want %q", key, want)
	}
}

func TestStateHash(t *testing.T) {
	a := banner.DefaultState()
	b := banner.DefaultState()
	if StateHash(a) != StateHash(b) {
		t.Error("identical states should hash equal")
	}
	b.Title = "changed"
	if StateHash(a) == StateHash(b) {
		t.Error("title change should alter the hash")
	}
}
