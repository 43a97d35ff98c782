package auth

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	t.Run("load before save returns nil", func(t *testing.T) {
		token, err := store.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != nil {
			t.Errorf("expected nil token, got %+v", token)
		}
	})

	t.Run("save and load round trip", func(t *testing.T) {
		saved := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Hour).Round(time.Second),
		}
		if err := store.Save(saved); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
			t.Errorf("unexpected loaded token: %+v", loaded)
		}
	})

	t.Run("save nil token", func(t *testing.T) {
		if err := store.Save(nil); err == nil {
			t.Error("expected error for nil token")
		}
	})

	t.Run("delete removes token", func(t *testing.T) {
		if err := store.Delete(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		token, err := store.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != nil {
			t.Error("expected token to be deleted")
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := store.Delete(); err != nil {
			t.Errorf("expected no error deleting missing token, got %v", err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if token, err := store.Load(); err != nil || token != nil {
		t.Errorf("expected empty store, got %+v, %v", token, err)
	}

	saved := &oauth2.Token{AccessToken: "access"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, _ := store.Load()
	if loaded == nil || loaded.AccessToken != "access" {
		t.Errorf("unexpected loaded token: %+v", loaded)
	}

	if err := store.Delete(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token, _ := store.Load(); token != nil {
		t.Error("expected token to be deleted")
	}
}
