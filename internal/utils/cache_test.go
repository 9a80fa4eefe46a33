package utils

import (
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	c := GetCache()
	c.Set("t:key", "value", time.Minute)
	if got := c.Get("t:key"); got != "value" {
		t.Errorf("Expected cached value, got %v", got)
	}
	c.Delete("t:key")
	if got := c.Get("t:key"); got != nil {
		t.Errorf("Expected nil after delete, got %v", got)
	}
}

func TestCacheExpiry(t *testing.T) {
	c := GetCache()
	c.Set("t:expiring", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if got := c.Get("t:expiring"); got != nil {
		t.Errorf("Expected expired entry to be gone, got %v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	if got := GetCache().Get("t:never-set"); got != nil {
		t.Errorf("Expected nil for a miss, got %v", got)
	}
}
