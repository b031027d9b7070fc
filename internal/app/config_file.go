package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration schema. Zero fields
// leave the corresponding Config value untouched.
type FileConfig struct {
	DefaultTimeout   int    `yaml:"defaultTimeout" json:"defaultTimeout"`
	MaxTimeout       int    `yaml:"maxTimeout" json:"maxTimeout"`
	UserAgent        string `yaml:"userAgent" json:"userAgent"`
	MaxContentLength int64  `yaml:"maxContentLength" json:"maxContentLength"`

	SupportedContentTypes []string `yaml:"supportedContentTypes" json:"supportedContentTypes"`

	RateLimit struct {
		Requests      int `yaml:"requests" json:"requests"`
		WindowSeconds int `yaml:"windowSeconds" json:"windowSeconds"`
	} `yaml:"rateLimit" json:"rateLimit"`

	MinTextLength int `yaml:"minTextLength" json:"minTextLength"`

	// Pointer so an explicit false can be told apart from unset.
	BlockPrivateAddrs *bool `yaml:"blockPrivateAddrs" json:"blockPrivateAddrs"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig, picking the format by
// extension and trying both when the extension is unknown.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays set values from fc into cfg. Defaults remain for
// anything the file leaves out; env and flags are applied afterwards.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if fc.DefaultTimeout > 0 {
		cfg.DefaultTimeout = fc.DefaultTimeout
	}
	if fc.MaxTimeout > 0 {
		cfg.MaxTimeout = fc.MaxTimeout
	}
	if fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if fc.MaxContentLength > 0 {
		cfg.MaxContentLength = fc.MaxContentLength
	}
	if len(fc.SupportedContentTypes) > 0 {
		cfg.SupportedContentTypes = append([]string{}, fc.SupportedContentTypes...)
	}
	if fc.RateLimit.Requests > 0 {
		cfg.RateLimitRequests = fc.RateLimit.Requests
	}
	if fc.RateLimit.WindowSeconds > 0 {
		cfg.RateLimitWindow = time.Duration(fc.RateLimit.WindowSeconds) * time.Second
	}
	if fc.MinTextLength > 0 {
		cfg.MinTextLength = fc.MinTextLength
	}
	if fc.BlockPrivateAddrs != nil {
		cfg.BlockPrivateAddrs = *fc.BlockPrivateAddrs
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
