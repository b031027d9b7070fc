package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig overrides cfg fields from environment variables when the
// corresponding variables are set. Env wins over defaults and file config;
// flags parsed afterwards remain highest precedence.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setInt := func(dst *int, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				*dst = n
			}
		}
	}
	setInt(&cfg.DefaultTimeout, "MCP_DEFAULT_TIMEOUT")
	setInt(&cfg.MaxTimeout, "MCP_MAX_TIMEOUT")
	setInt(&cfg.RateLimitRequests, "MCP_RATE_LIMIT_REQUESTS")
	setInt(&cfg.MinTextLength, "MCP_MIN_TEXT_LENGTH")

	if v := os.Getenv("MCP_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}

	if s := strings.TrimSpace(os.Getenv("MCP_MAX_CONTENT_LENGTH")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			cfg.MaxContentLength = n
		}
	}

	// Window accepts plain seconds ("60") or a Go duration ("90s").
	if s := strings.TrimSpace(os.Getenv("MCP_RATE_LIMIT_WINDOW")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.RateLimitWindow = time.Duration(n) * time.Second
		} else if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.RateLimitWindow = d
		}
	}

	if s := strings.TrimSpace(os.Getenv("MCP_SUPPORTED_CONTENT_TYPES")); s != "" {
		parts := strings.Split(s, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := strings.ToLower(strings.TrimSpace(p)); v != "" {
				list = append(list, v)
			}
		}
		if len(list) > 0 {
			cfg.SupportedContentTypes = list
		}
	}

	setBool := func(dst *bool, envKey string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.BlockPrivateAddrs, "MCP_BLOCK_PRIVATE_ADDRS")
	setBool(&cfg.Verbose, "MCP_VERBOSE")
}
