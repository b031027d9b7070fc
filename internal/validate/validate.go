package validate

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// Result reports whether a raw URL is safe to fetch. When Valid is true,
// NormalizedURL carries the URL to use; otherwise ErrorMessage explains
// the rejection.
type Result struct {
	Valid         bool
	ErrorMessage  string
	NormalizedURL string
}

// maxURLLength bounds the normalized URL, matching common proxy limits.
const maxURLLength = 2048

// Schemes rejected outright because they reach local resources or execute
// code, as opposed to merely being unsupported transports.
var blockedSchemes = map[string]bool{
	"file":       true,
	"ftp":        true,
	"sftp":       true,
	"data":       true,
	"javascript": true,
}

// Hostnames never fetched regardless of resolution.
var blockedHosts = map[string]bool{
	"localhost": true,
	"local":     true,
}

// URL validates and normalizes a raw URL string. It is pure: no DNS lookup
// or other I/O happens here. Hostnames that are not IP literals are accepted
// without resolution; the fetch transport re-checks resolved addresses at
// dial time.
func URL(raw string) Result {
	if raw == "" {
		return invalid("URL cannot be empty")
	}

	normalized := Normalize(raw)

	u, err := url.Parse(normalized)
	if err != nil {
		return invalid("Invalid URL format")
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		if blockedSchemes[scheme] {
			return invalid(fmt.Sprintf("Blocked scheme: %s", scheme))
		}
		return invalid(fmt.Sprintf("Unsupported scheme: %s. Only HTTP and HTTPS are allowed.", scheme))
	}

	hostname := strings.ToLower(u.Hostname())
	if !plausibleHost(hostname) {
		return invalid("Invalid URL format")
	}
	if blockedHosts[hostname] || strings.HasSuffix(hostname, ".local") {
		return invalid(fmt.Sprintf("Access to %s is not allowed", hostname))
	}
	if ip, err := netip.ParseAddr(hostname); err == nil && BlockedIP(ip) {
		return invalid("Access to private or reserved IP ranges is not allowed")
	}

	if len(normalized) > maxURLLength {
		return invalid("URL is too long (max 2048 characters)")
	}

	return Result{Valid: true, NormalizedURL: normalized}
}

// Normalize trims whitespace and prepends https:// when no scheme separator
// is present. Strings that carry some other "://" separator pass through so
// the scheme check reports them precisely.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		return "https://" + raw
	}
	return raw
}

// plausibleHost rejects authorities that cannot name a public site: empty
// hosts and bare labels without a dot. IP literals and the blocked literals
// pass through so the host checks can report them specifically.
func plausibleHost(hostname string) bool {
	if hostname == "" {
		return false
	}
	if strings.Contains(hostname, ".") {
		return true
	}
	if _, err := netip.ParseAddr(hostname); err == nil {
		return true
	}
	return blockedHosts[hostname]
}

// Address ranges blocked beyond what the netip predicates cover: shared
// address space, test nets, benchmarking, class E, and v6 documentation.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"),
}

// BlockedIP reports whether an address falls in a loopback, private,
// link-local, multicast, reserved, or unspecified range. It is shared with
// the fetch transport, which applies the same policy to dialed addresses.
func BlockedIP(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func invalid(msg string) Result {
	return Result{Valid: false, ErrorMessage: msg}
}
