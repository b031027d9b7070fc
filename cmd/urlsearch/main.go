package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/urlsearch/internal/app"
	"github.com/hyperifyio/urlsearch/internal/fetch"
)

const (
	serverName    = "url-search-server"
	serverVersion = "1.0.0"
)

func main() {
	// Logging setup. Everything goes to stderr: stdout carries the MCP
	// stdio transport and must stay clean.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	_ = godotenv.Load()

	var (
		configPath string
		userAgent  string
		timeout    int
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&userAgent, "ua", "", "Override User-Agent for outbound requests")
	flag.IntVar(&timeout, "timeout", 0, "Request timeout in seconds for the test command (0 = default)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.DefaultConfig()
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("load config file")
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if verbose {
		cfg.Verbose = true
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	a := app.New(cfg)
	defer a.Close()

	switch cmd := flag.Arg(0); cmd {
	case "", "serve":
		if err := serve(context.Background(), a); err != nil {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	case "test":
		target := flag.Arg(1)
		if target == "" {
			log.Fatal().Msg("usage: urlsearch test <url>")
		}
		runTest(context.Background(), a, target, timeout)
	default:
		log.Fatal().Str("command", cmd).Msg("unknown command (expected serve or test)")
	}
}

// searchURLArgs is the tool input schema, generated from the struct tags.
type searchURLArgs struct {
	URL     string `json:"url" jsonschema:"The URL to fetch content from. Must be a valid HTTP/HTTPS URL."`
	Timeout int    `json:"timeout,omitempty" jsonschema:"Optional timeout in seconds (default: 10, maximum: 60)."`
}

// serve runs the MCP server over stdio until the client disconnects.
func serve(ctx context.Context, a *app.App) error {
	log.Info().
		Int("rateLimitRequests", a.Config().RateLimitRequests).
		Dur("rateLimitWindow", a.Config().RateLimitWindow).
		Msg("starting URL search server on stdio")

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name: "search_url",
		Description: "Fetch and return plain-text content from a web page URL. " +
			"Handles various content types and provides comprehensive error handling.",
	}, searchURLHandler(a))

	return server.Run(ctx, &mcp.StdioTransport{})
}

// searchURLHandler validates then extracts, converting every failure into
// tool result text rather than a protocol error.
func searchURLHandler(a *app.App) func(context.Context, *mcp.CallToolRequest, searchURLArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args searchURLArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.URL) == "" {
			return textResult("Error: URL parameter is required"), nil, nil
		}

		vr := a.Validate(args.URL)
		if !vr.Valid {
			return textResult(fmt.Sprintf("Error: Invalid URL - %s", vr.ErrorMessage)), nil, nil
		}

		res := a.ExtractText(ctx, vr.NormalizedURL, args.Timeout, "")
		if !res.Success {
			log.Debug().Str("url", res.URL).Str("error", res.ErrorMessage).Msg("extraction failed")
			return textResult(fmt.Sprintf("Error fetching content from %s: %s", res.URL, res.ErrorMessage)), nil, nil
		}

		return textResult(renderSuccess(res)), nil, nil
	}
}

// renderSuccess formats a successful extraction as tool result text: a small
// header block, then the content after a separator. The Title line is
// omitted when no title was recovered.
func renderSuccess(res fetch.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Content from: %s\n", res.URL)
	fmt.Fprintf(&b, "Content-Type: %s\n", res.ContentType)
	fmt.Fprintf(&b, "Status Code: %d\n", res.StatusCode)
	if res.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", res.Title)
	}
	b.WriteString("\n--- Content ---\n")
	b.WriteString(res.TextContent)
	return b.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// testReport is the JSON summary printed by the test command.
type testReport struct {
	Success     bool   `json:"success"`
	Stage       string `json:"stage,omitempty"`
	Error       string `json:"error,omitempty"`
	URL         string `json:"url"`
	Title       string `json:"title,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	StatusCode  int    `json:"status_code,omitempty"`
	TextLength  int    `json:"text_length,omitempty"`
	TextPreview string `json:"text_preview,omitempty"`
}

// runTest exercises the same core the MCP tool uses against a single URL
// and prints a JSON summary.
func runTest(ctx context.Context, a *app.App, rawURL string, timeout int) {
	report := testReport{URL: rawURL}

	vr := a.Validate(rawURL)
	if !vr.Valid {
		report.Stage = "validation"
		report.Error = vr.ErrorMessage
	} else {
		res := a.ExtractText(ctx, vr.NormalizedURL, timeout, "")
		report.URL = res.URL
		report.StatusCode = res.StatusCode
		report.ContentType = res.ContentType
		if res.Success {
			report.Success = true
			report.Title = res.Title
			report.TextLength = len(res.TextContent)
			report.TextPreview = preview(res.TextContent, 200)
		} else {
			report.Stage = "extraction"
			report.Error = res.ErrorMessage
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal report")
	}
	fmt.Println(string(out))

	if !report.Success {
		log.Error().Str("stage", report.Stage).Str("error", report.Error).Msg("test failed")
		os.Exit(1)
	}
	log.Info().Int("textLength", report.TextLength).Msg("test succeeded")
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
