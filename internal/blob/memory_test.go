package blob

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStorePutAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "usr_1/recap.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}

	data, contentType, ok := s.Get("usr_1/recap.txt")
	if !ok {
		t.Fatal("expected object to exist")
	}
	if string(data) != "hello" {
		t.Fatalf("expected hello, got %q", data)
	}
	if contentType != "text/plain" {
		t.Fatalf("expected text/plain, got %q", contentType)
	}
}

func TestMemoryStoreSignedURLCarriesTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "usr_1/recap.txt", []byte("hello"), "text/plain"); err != nil {
		t.Fatalf("put: %v", err)
	}

	url, err := s.SignedURL(ctx, "usr_1/recap.txt", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if url != "memory://usr_1/recap.txt?expires=3600" {
		t.Fatalf("unexpected signed url: %q", url)
	}
}

func TestMemoryStoreSignedURLMissingObject(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.SignedURL(context.Background(), "missing", time.Hour); err == nil {
		t.Fatal("expected error for missing object")
	}
}
