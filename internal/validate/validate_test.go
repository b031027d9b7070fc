package validate

import (
	"net/netip"
	"strings"
	"testing"
)

func TestURL_NormalizationAddsHTTPS(t *testing.T) {
	res := URL("example.com")
	if !res.Valid {
		t.Fatalf("expected valid, got error %q", res.ErrorMessage)
	}
	if res.NormalizedURL != "https://example.com" {
		t.Fatalf("expected https://example.com, got %q", res.NormalizedURL)
	}
}

func TestURL_KeepsExplicitScheme(t *testing.T) {
	for _, raw := range []string{"http://example.com", "https://example.com"} {
		res := URL(raw)
		if !res.Valid {
			t.Fatalf("%s: expected valid, got %q", raw, res.ErrorMessage)
		}
		if res.NormalizedURL != raw {
			t.Fatalf("%s: expected unchanged, got %q", raw, res.NormalizedURL)
		}
	}
}

func TestURL_Empty(t *testing.T) {
	res := URL("")
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if res.ErrorMessage != "URL cannot be empty" {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}
}

func TestURL_InvalidFormat(t *testing.T) {
	for _, raw := range []string{"invalid-url", "not a url", "http://", "://example.com"} {
		res := URL(raw)
		if res.Valid {
			t.Fatalf("%q: expected invalid", raw)
		}
		if res.ErrorMessage == "" {
			t.Fatalf("%q: expected an error message", raw)
		}
	}
}

func TestURL_BlockedSchemes(t *testing.T) {
	res := URL("file:///etc/passwd")
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if res.ErrorMessage != "Blocked scheme: file" {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}

	// javascript: has no "://" so normalization prepends https:// and the
	// bogus port then fails the parse.
	res = URL("javascript:alert(1)")
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if !strings.Contains(res.ErrorMessage, "scheme") && !strings.Contains(res.ErrorMessage, "format") {
		t.Fatalf("expected scheme or format rejection, got %q", res.ErrorMessage)
	}
}

func TestURL_UnsupportedScheme(t *testing.T) {
	res := URL("gopher://example.com")
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if res.ErrorMessage != "Unsupported scheme: gopher. Only HTTP and HTTPS are allowed." {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}
}

func TestURL_BlockedHosts(t *testing.T) {
	for _, raw := range []string{"http://localhost", "http://localhost:8080", "http://printer.local"} {
		res := URL(raw)
		if res.Valid {
			t.Fatalf("%q: expected invalid", raw)
		}
		if !strings.Contains(res.ErrorMessage, "is not allowed") {
			t.Fatalf("%q: unexpected message %q", raw, res.ErrorMessage)
		}
	}
}

func TestURL_PrivateIPRanges(t *testing.T) {
	private := []string{
		"http://10.0.0.1",
		"http://192.168.1.1",
		"http://172.16.0.1",
		"http://169.254.1.1",
		"http://127.0.0.1",
		"http://0.0.0.0",
		"http://[::1]",
		"http://100.64.0.1",
		"http://240.0.0.1",
	}
	for _, raw := range private {
		res := URL(raw)
		if res.Valid {
			t.Fatalf("%q: expected invalid", raw)
		}
		if res.ErrorMessage != "Access to private or reserved IP ranges is not allowed" {
			t.Fatalf("%q: unexpected message %q", raw, res.ErrorMessage)
		}
	}
}

func TestURL_PublicIPAllowed(t *testing.T) {
	res := URL("http://93.184.216.34")
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.ErrorMessage)
	}
}

func TestURL_TooLong(t *testing.T) {
	raw := "https://example.com/" + strings.Repeat("a", 2048)
	res := URL(raw)
	if res.Valid {
		t.Fatalf("expected invalid")
	}
	if !strings.Contains(res.ErrorMessage, "too long") {
		t.Fatalf("unexpected message: %q", res.ErrorMessage)
	}
}

func TestURL_DomainsNotResolved(t *testing.T) {
	// A hostname that would resolve privately (or not at all) still
	// validates; resolution policy belongs to the fetch transport.
	res := URL("http://intranet.example.com")
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.ErrorMessage)
	}
}

func TestBlockedIP(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "192.168.0.9", "172.31.255.1",
		"169.254.10.10", "224.0.0.1", "0.0.0.0", "::1", "fe80::1", "fc00::1", "198.18.0.1"}
	for _, s := range blocked {
		if !BlockedIP(netip.MustParseAddr(s)) {
			t.Fatalf("%s: expected blocked", s)
		}
	}
	allowed := []string{"93.184.216.34", "8.8.8.8", "2606:2800:220:1:248:1893:25c8:1946"}
	for _, s := range allowed {
		if BlockedIP(netip.MustParseAddr(s)) {
			t.Fatalf("%s: expected allowed", s)
		}
	}
}
