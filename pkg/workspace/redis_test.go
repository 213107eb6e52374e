package workspace

import (
	"context"
	"os"
	"slices"
	"testing"
)

// redisStore connects to the Redis named by MVNKIT_TEST_REDIS or skips.
func redisStore(t *testing.T, namespace string) *RedisStore {
	t.Helper()
	addr := os.Getenv("MVNKIT_TEST_REDIS")
	if addr == "" {
		t.Skip("MVNKIT_TEST_REDIS not set")
	}
	s, err := DialRedis(context.Background(), RedisConfig{Addr: addr, Namespace: namespace})
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	idx := New(redisStore(t, ""))

	_ = idx.RegisterKey(ctx, "test:dummy:pom:1-SNAPSHOT", "/1/pom.xml")
	_ = idx.RegisterKey(ctx, "test:dummy:pom:2-SNAPSHOT", "/2/pom.xml")

	path, ok, err := idx.FindExact(ctx, mustArtifact(t, "test:dummy:pom:1-SNAPSHOT"))
	if err != nil || !ok || path != "/1/pom.xml" {
		t.Errorf("FindExact() = %q, %v, %v", path, ok, err)
	}
	if _, ok, err := idx.FindExact(ctx, mustArtifact(t, "unavailable:test:pom:1")); ok || err != nil {
		t.Errorf("FindExact(missing) = %v, %v", ok, err)
	}

	versions, _ := idx.FindVersions(ctx, mustArtifact(t, "test:dummy:pom:0"))
	slices.Sort(versions)
	if !slices.Equal(versions, []string{"1-SNAPSHOT", "2-SNAPSHOT"}) {
		t.Errorf("FindVersions() = %v", versions)
	}
}

func TestRedisStoreSharedNamespace(t *testing.T) {
	ctx := context.Background()
	a := redisStore(t, "shared-test")
	b := redisStore(t, "shared-test")

	_ = a.Put(ctx, "g:a:jar:1", "/a.jar")
	if path, ok, _ := b.Get(ctx, "g:a:jar:1"); !ok || path != "/a.jar" {
		t.Errorf("store b should see store a's entry, got %q, %v", path, ok)
	}
}

func TestNewRedisStoreRandomNamespace(t *testing.T) {
	a := NewRedisStore(nil, "")
	b := NewRedisStore(nil, "")
	if a.Namespace() == "" || a.Namespace() == b.Namespace() {
		t.Errorf("namespaces should be random and distinct: %q, %q", a.Namespace(), b.Namespace())
	}
}
