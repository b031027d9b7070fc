// Package fetch implements the rate-limited, size-bounded fetch-and-extract
// pipeline. Every failure path is converted into a Result; nothing escapes
// as a panic.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/urlsearch/internal/extract"
	"github.com/hyperifyio/urlsearch/internal/ratelimit"
	"github.com/hyperifyio/urlsearch/internal/validate"
)

// Result is the outcome of one extraction attempt. Success implies
// TextContent is non-empty and StatusCode is in [200,399]; failure implies
// ErrorMessage is set.
type Result struct {
	Success      bool
	TextContent  string
	Title        string
	ContentType  string
	StatusCode   int
	ErrorMessage string
	URL          string
}

// Client fetches pages and extracts their readable text. The underlying
// http.Client is created lazily on first use and shared across requests;
// Close releases it.
type Client struct {
	UserAgent             string
	DefaultTimeout        int // seconds
	MaxTimeout            int // seconds, ceiling for caller-supplied timeouts
	MaxContentLength      int64
	SupportedContentTypes []string
	MinTextLength         int

	// BlockPrivateAddrs re-checks every dialed address against the
	// validator's private/reserved classifier, closing the gap between
	// validation time and connect time (DNS rebinding).
	BlockPrivateAddrs bool

	// Limiter gates every extraction attempt before any network I/O.
	Limiter *ratelimit.Limiter

	mu         sync.Mutex
	httpClient *http.Client
}

const readChunkSize = 32 * 1024

var errBodyTooLarge = errors.New("body exceeds configured maximum")

// Extract fetches pageURL and returns its readable text. The URL is
// expected to have passed validation already; nothing from the network is
// trusted. timeoutSeconds of zero means the configured default; values
// above MaxTimeout are clamped.
func (c *Client) Extract(ctx context.Context, pageURL string, timeoutSeconds int, userAgent string) (res Result) {
	res = Result{URL: pageURL}
	timeout := c.clampTimeout(timeoutSeconds)

	// Denied attempts make no network call and record nothing.
	if c.Limiter != nil && !c.Limiter.Allow() {
		res.ErrorMessage = "Rate limit exceeded. Please try again later."
		return res
	}

	// Backstop: anything unanticipated becomes a failure Result.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("url", pageURL).Interface("panic", r).Msg("unexpected error during extraction")
			res = Result{URL: pageURL, ErrorMessage: fmt.Sprintf("Unexpected error: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		res.ErrorMessage = fmt.Sprintf("Network error: %v", err)
		return res
	}
	c.setHeaders(req, userAgent)

	resp, err := c.client().Do(req)
	if err != nil {
		res.ErrorMessage = c.transportError(err, timeout)
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	if msg, bad := classifyStatus(resp.StatusCode); bad {
		res.ErrorMessage = msg
		return res
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	res.ContentType = contentType
	if !c.supportedContentType(contentType) {
		res.ErrorMessage = fmt.Sprintf("Unsupported content type: %s", contentType)
		return res
	}

	// A declared length over the cap fails before any body read; an
	// undeclared or lying length is caught by the capped streaming read.
	if resp.ContentLength > c.maxContentLength() {
		res.ErrorMessage = c.tooLargeMessage()
		return res
	}

	body, err := c.readCapped(resp.Body)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			res.ErrorMessage = c.tooLargeMessage()
		} else {
			res.ErrorMessage = c.transportError(err, timeout)
		}
		return res
	}

	content, err := decode(body, contentType)
	if err != nil {
		res.ErrorMessage = fmt.Sprintf("Failed to decode content: %v", err)
		return res
	}

	doc := extract.FromContent(content, contentType, pageURL, c.MinTextLength)
	if doc.Text == "" {
		res.ErrorMessage = "No readable text content found"
		return res
	}

	res.Success = true
	res.TextContent = doc.Text
	res.Title = doc.Title
	return res
}

// Close releases the pooled connections. It is idempotent and safe to call
// before any request was made.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		return
	}
	if t, ok := c.httpClient.Transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	c.httpClient = nil
}

func (c *Client) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Transport: c.newTransport()}
	}
	return c.httpClient
}

func (c *Client) newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	if c.BlockPrivateAddrs {
		dialer.ControlContext = guardPrivateAddr
	}
	return &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        10,
		MaxConnsPerHost:     5,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

// guardPrivateAddr rejects connections whose resolved address is private or
// reserved. Validation cannot see post-DNS addresses, so the policy is
// applied again here at dial time.
func guardPrivateAddr(_ context.Context, _, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if validate.BlockedIP(ip) {
		return fmt.Errorf("destination %s is in a private or reserved range", host)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, userAgent string) {
	if userAgent == "" {
		userAgent = c.UserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("DNT", "1")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	// Accept-Encoding is left to the transport: it requests gzip and
	// decodes transparently, so the body cap applies to decoded bytes.
}

func (c *Client) clampTimeout(seconds int) int {
	max := c.MaxTimeout
	if max <= 0 {
		max = 60
	}
	if seconds <= 0 {
		seconds = c.DefaultTimeout
	}
	if seconds < 1 {
		seconds = 1
	}
	if seconds > max {
		seconds = max
	}
	return seconds
}

func (c *Client) supportedContentType(contentType string) bool {
	for _, supported := range c.SupportedContentTypes {
		if strings.Contains(contentType, supported) {
			return true
		}
	}
	return false
}

func (c *Client) maxContentLength() int64 {
	if c.MaxContentLength > 0 {
		return c.MaxContentLength
	}
	return 10 * 1024 * 1024
}

func (c *Client) tooLargeMessage() string {
	return fmt.Sprintf("Content too large (>%dMB)", c.maxContentLength()/(1024*1024))
}

// readCapped streams the body in chunks and aborts as soon as the
// accumulated size would exceed the cap, so a response with a small or
// absent content-length header cannot exhaust memory. At most the capped
// number of bytes is ever buffered.
func (c *Client) readCapped(r io.Reader) ([]byte, error) {
	max := c.maxContentLength()
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			if int64(buf.Len())+int64(n) > max {
				return nil, errBodyTooLarge
			}
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func classifyStatus(code int) (string, bool) {
	switch {
	case code == http.StatusNotFound:
		return "Page not found (404)", true
	case code == http.StatusForbidden:
		return "Access forbidden (403)", true
	case code == http.StatusTooManyRequests:
		return "Too many requests (429). Please try again later.", true
	case code >= 400:
		return fmt.Sprintf("HTTP error %d", code), true
	}
	return "", false
}

// decode converts the body to a string using the declared or detected
// character encoding. Unknown encodings fall back to lossy UTF-8 rather
// than failing the request.
func decode(body []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return strings.ToValidUTF8(string(body), "�"), nil
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// transportError maps transport failures onto the user-facing taxonomy:
// timeouts, connection-level failures, then generic network errors.
func (c *Client) transportError(err error, timeoutSeconds int) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Request timed out after %d seconds", timeoutSeconds)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("Request timed out after %d seconds", timeoutSeconds)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Sprintf("Connection error: %v", err)
	}
	return fmt.Sprintf("Network error: %v", err)
}
