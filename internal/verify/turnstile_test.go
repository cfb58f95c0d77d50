package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerifyPassesTokenAndIP(t *testing.T) {
	var received siteverifyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	client := NewClient("secret-key")
	client.endpoint = server.URL

	ok, err := client.Verify(context.Background(), "token-123", "203.0.113.7")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected verification to pass")
	}

	if received.Secret != "secret-key" || received.Response != "token-123" || received.RemoteIP != "203.0.113.7" {
		t.Fatalf("unexpected siteverify request: %+v", received)
	}
}

func TestVerifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"success": false})
	}))
	defer server.Close()

	client := NewClient("secret-key")
	client.endpoint = server.URL

	ok, err := client.Verify(context.Background(), "bad-token", "203.0.113.7")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected verification to fail")
	}
}

func TestVerifyOracleUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient("secret-key")
	client.endpoint = server.URL

	if _, err := client.Verify(context.Background(), "token", "203.0.113.7"); err == nil {
		t.Fatalf("expected transport error")
	}
}
