package cache

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 1*time.Second)
	val, ok := c.Get("key1")
	if !ok || val != "value1" {
		t.Fatalf("expected value1, got %v, exists=%v", val, ok)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New()
	if _, ok := c.Get("absent"); ok {
		t.Fatalf("expected missing key to return false")
	}
}

func TestExpiration(t *testing.T) {
	c := New()
	c.Set("key1", "value1", 100*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	_, ok := c.Get("key1")
	if ok {
		t.Fatalf("expected expired key to return false")
	}
}

func TestSetOverwrites(t *testing.T) {
	c := New()
	c.Set("key1", "old", 1*time.Second)
	c.Set("key1", "new", 1*time.Second)
	val, ok := c.Get("key1")
	if !ok || val != "new" {
		t.Fatalf("expected new, got %v", val)
	}
}
