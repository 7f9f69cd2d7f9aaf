package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"fieldnote/api/internal/store"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	redisStore, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return redisStore, s
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	redisStore, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer redisStore.Close()

	if err := redisStore.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestSaveAndLookupRefreshSession(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	ctx := context.Background()
	user := store.User{ID: "usr_123", Email: "ada@acme.io", FullName: "Ada Lovelace"}
	expiresAt := time.Now().Add(24 * time.Hour)

	if err := redisStore.SaveRefreshSession(ctx, "test-token-hash", user, expiresAt); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}

	got, err := redisStore.LookupRefreshSession(ctx, "test-token-hash")
	if err != nil {
		t.Fatalf("LookupRefreshSession failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user ID %s, got %s", user.ID, got.ID)
	}
	if got.Email != user.Email || got.FullName != user.FullName {
		t.Errorf("expected user details round-tripped, got %+v", got)
	}
}

func TestLookupExpiredSession(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	ctx := context.Background()
	user := store.User{ID: "usr_456"}
	if err := redisStore.SaveRefreshSession(ctx, "expired-token", user, time.Now().Add(time.Millisecond)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}

	s.FastForward(2 * time.Millisecond)

	if _, err := redisStore.LookupRefreshSession(ctx, "expired-token"); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestLookupNonExistentSession(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	if _, err := redisStore.LookupRefreshSession(context.Background(), "non-existent-token"); err == nil {
		t.Error("expected error for non-existent token, got nil")
	}
}

func TestRevokeRefreshSession(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	ctx := context.Background()
	user := store.User{ID: "usr_789"}
	if err := redisStore.SaveRefreshSession(ctx, "token-to-revoke", user, time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("SaveRefreshSession failed: %v", err)
	}
	if _, err := redisStore.LookupRefreshSession(ctx, "token-to-revoke"); err != nil {
		t.Fatalf("Lookup before revoke failed: %v", err)
	}

	if err := redisStore.RevokeRefreshSession(ctx, "token-to-revoke"); err != nil {
		t.Fatalf("RevokeRefreshSession failed: %v", err)
	}
	if _, err := redisStore.LookupRefreshSession(ctx, "token-to-revoke"); err == nil {
		t.Error("expected error for revoked token, got nil")
	}
}

func TestRevokeNonExistentSession(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	if err := redisStore.RevokeRefreshSession(context.Background(), "non-existent-token"); err != nil {
		t.Errorf("RevokeRefreshSession for non-existent token failed: %v", err)
	}
}

func TestSessionIsolation(t *testing.T) {
	redisStore, s := setupTestRedis(t)
	defer redisStore.Close()
	defer s.Close()

	ctx := context.Background()
	expiresAt := time.Now().Add(24 * time.Hour)

	if err := redisStore.SaveRefreshSession(ctx, "token-1", store.User{ID: "usr_1"}, expiresAt); err != nil {
		t.Fatalf("SaveRefreshSession 1 failed: %v", err)
	}
	if err := redisStore.SaveRefreshSession(ctx, "token-2", store.User{ID: "usr_2"}, expiresAt); err != nil {
		t.Fatalf("SaveRefreshSession 2 failed: %v", err)
	}

	if err := redisStore.RevokeRefreshSession(ctx, "token-1"); err != nil {
		t.Fatalf("Revoke token-1 failed: %v", err)
	}

	if _, err := redisStore.LookupRefreshSession(ctx, "token-1"); err == nil {
		t.Error("expected error for revoked token-1, got nil")
	}
	user2, err := redisStore.LookupRefreshSession(ctx, "token-2")
	if err != nil {
		t.Fatalf("Lookup token-2 after revoke failed: %v", err)
	}
	if user2.ID != "usr_2" {
		t.Errorf("expected usr_2 after revoke, got %s", user2.ID)
	}
}

func TestDBStoreRoundTrip(t *testing.T) {
	memStore := store.NewMemoryStore()
	dbStore := NewDBStore(memStore)
	ctx := context.Background()

	user := store.User{ID: "usr_1", Email: "ada@acme.io", FullName: "Ada"}
	if err := memStore.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := dbStore.SaveRefreshSession(ctx, "hash-1", user, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := dbStore.LookupRefreshSession(ctx, "hash-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != "usr_1" {
		t.Fatalf("expected usr_1, got %s", got.ID)
	}

	if err := dbStore.RevokeRefreshSession(ctx, "hash-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := dbStore.LookupRefreshSession(ctx, "hash-1"); err == nil {
		t.Fatal("expected error after revoke")
	}
}
