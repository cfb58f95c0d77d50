package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendComposesEmail(t *testing.T) {
	var received sendRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mailer := NewMailer("re_key", "dev@example.com")
	mailer.endpoint = server.URL

	err := mailer.Send(context.Background(), "abc123", "Feature Request", "Add dark mode", "please & thanks")
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if authHeader != "Bearer re_key" {
		t.Fatalf("unexpected auth header: %q", authHeader)
	}
	if received.Subject != "[Feature Request] Add dark mode" {
		t.Fatalf("unexpected subject: %q", received.Subject)
	}
	if received.To[0] != "dev@example.com" {
		t.Fatalf("unexpected recipient: %v", received.To)
	}
	if !strings.Contains(received.HTML, "please &amp; thanks") {
		t.Fatalf("expected body to be html-escaped, got %q", received.HTML)
	}
	if !strings.Contains(received.HTML, "/admin/reports/abc123/download") {
		t.Fatalf("expected download hint in body")
	}
}

func TestSendTruncatesLongBody(t *testing.T) {
	var received sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
	}))
	defer server.Close()

	mailer := NewMailer("re_key", "dev@example.com")
	mailer.endpoint = server.URL

	long := strings.Repeat("x", 2000)
	if err := mailer.Send(context.Background(), "id1", "Bug Report", "t", long); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if !strings.Contains(received.HTML, strings.Repeat("x", 800)+"...") {
		t.Fatalf("expected body truncated to 800 chars with ellipsis")
	}
	if strings.Contains(received.HTML, strings.Repeat("x", 801)) {
		t.Fatalf("body was not truncated")
	}
}

func TestSendDisabledWithoutConfig(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	mailer := NewMailer("", "")
	mailer.endpoint = server.URL

	if err := mailer.Send(context.Background(), "id1", "Bug Report", "t", "b"); err != nil {
		t.Fatalf("disabled mailer must not error, got %v", err)
	}
	if called {
		t.Fatalf("disabled mailer must not call the API")
	}
	if mailer.Enabled() {
		t.Fatalf("expected mailer to report disabled")
	}
}

func TestSendSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	mailer := NewMailer("re_key", "dev@example.com")
	mailer.endpoint = server.URL

	if err := mailer.Send(context.Background(), "id1", "Bug Report", "t", "b"); err == nil {
		t.Fatalf("expected error on 4xx response")
	}
}
