package ratelimit

import (
	"testing"
	"time"
)

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("client", 3, 0) {
			t.Fatalf("request %d should pass within capacity", i)
		}
	}
	if l.Allow("client", 3, 0) {
		t.Fatal("capacity exhausted, request should be rejected")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first request for a should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("a's consumption must not affect b")
	}
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	l := New()
	l.Allow("stale", 1, 0)
	l.m["stale"].last = time.Now().Add(-time.Hour)
	l.Prune(30 * time.Minute)
	if _, ok := l.m["stale"]; ok {
		t.Fatal("idle bucket should have been pruned")
	}
}
