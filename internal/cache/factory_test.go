package cache

import (
	"context"
	"testing"
	"time"
)

func TestFactory_New_Memory(t *testing.T) {
	c, err := New("memory", ProviderConfig{Size: 100, TTL: time.Hour})
	if err != nil {
		t.Fatalf("New memory: %v", err)
	}
	defer c.Close()

	c.Set(context.Background(), "k", []byte("v"))
	if val, ok := c.Get(context.Background(), "k"); !ok || string(val) != "v" {
		t.Fatal("Memory cache should work after creation via factory")
	}
}

func TestFactory_New_UnknownProvider(t *testing.T) {
	if _, err := New("nonexistent", ProviderConfig{}); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestFactory_RegisteredProviders(t *testing.T) {
	names := RegisteredProviders()
	want := map[string]bool{"memory": false, "redis": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %q provider to be registered, got %v", name, names)
		}
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Providers not sorted: %v", names)
			break
		}
	}
}

func TestFactory_Register_Duplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic when registering memory twice")
		}
	}()
	Register("memory", newMemoryCache)
}

func TestFactory_Register_Nil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Expected panic for nil provider")
		}
	}()
	Register("nil-provider", nil)
}

func TestFactory_New_Redis_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProviderConfig
	}{
		{"unreachable address", ProviderConfig{Size: 10, TTL: time.Hour, RedisAddress: "127.0.0.1:1"}},
		{"zero size", ProviderConfig{Size: 0, TTL: time.Hour, RedisAddress: "127.0.0.1:1"}},
		{"zero ttl", ProviderConfig{Size: 10, RedisAddress: "127.0.0.1:1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("redis", tt.cfg); err == nil {
				t.Fatal("Expected error")
			}
		})
	}
}
