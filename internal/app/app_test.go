package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestApp_ValidateAndExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("hello from the app facade"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BlockPrivateAddrs = false // httptest listens on loopback
	a := New(cfg)
	defer a.Close()

	vr := a.Validate("example.com")
	if !vr.Valid || vr.NormalizedURL != "https://example.com" {
		t.Fatalf("unexpected validation result: %+v", vr)
	}

	vr = a.Validate("http://10.0.0.1")
	if vr.Valid || !strings.Contains(vr.ErrorMessage, "private") {
		t.Fatalf("expected private IP rejection, got %+v", vr)
	}

	res := a.ExtractText(context.Background(), srv.URL, 0, "")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.ErrorMessage)
	}
	if res.TextContent != "hello from the app facade" {
		t.Fatalf("unexpected text %q", res.TextContent)
	}
}

func TestApp_CloseIdempotent(t *testing.T) {
	a := New(DefaultConfig())
	a.Close()
	a.Close()
}
