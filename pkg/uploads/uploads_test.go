package uploads

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absolutepools/aquatrack-backend/pkg/config"
)

func TestLocalStoreSavesWithUUIDName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	url, err := store.Save(context.Background(), "before.JPG", strings.NewReader("photo-bytes"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("expected served url, got %q", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("expected lowercased extension, got %q", url)
	}

	saved := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "photo-bytes" {
		t.Fatalf("unexpected file contents %q", data)
	}
}

func TestLocalStoreDropsUnknownExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	url, err := store.Save(context.Background(), "evil.exe", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if strings.Contains(url, ".") {
		t.Fatalf("unknown extension should be stripped, got %q", url)
	}
}

func TestRemoteStoreRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"file_url":"https://files.example.com/a.jpg"}`))
	}))
	defer srv.Close()

	store := NewRemoteStore(config.UploadsConfig{Endpoint: srv.URL, MaxAttempts: 3})
	url, err := store.Save(context.Background(), "a.jpg", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save failed after retries: %v", err)
	}
	if url != "https://files.example.com/a.jpg" {
		t.Fatalf("unexpected url %q", url)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRemoteStoreDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnsupportedMediaType)
	}))
	defer srv.Close()

	store := NewRemoteStore(config.UploadsConfig{Endpoint: srv.URL, MaxAttempts: 3})
	if _, err := store.Save(context.Background(), "a.jpg", strings.NewReader("x")); err == nil {
		t.Fatal("expected rejection error")
	}
	if calls != 1 {
		t.Fatalf("4xx should not be retried, got %d attempts", calls)
	}
}

func TestRemoteStoreFallsBackToLocalOnExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	dir := t.TempDir()
	store, err := New(config.UploadsConfig{Endpoint: srv.URL, LocalDir: dir, MaxAttempts: 2})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	url, err := store.Save(context.Background(), "after.png", strings.NewReader("photo-bytes"))
	if err != nil {
		t.Fatalf("expected local fallback, got error: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("expected locally served url, got %q", url)
	}

	saved := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("read fallback file: %v", err)
	}
	if string(data) != "photo-bytes" {
		t.Fatalf("unexpected fallback contents %q", data)
	}
}

func TestNewPrefersRemoteWhenEndpointSet(t *testing.T) {
	store, err := New(config.UploadsConfig{Endpoint: "https://files.internal/upload", LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, ok := store.(*RemoteStore); !ok {
		t.Fatalf("expected remote store, got %T", store)
	}

	store, err = New(config.UploadsConfig{LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("expected local store, got %T", store)
	}
}
