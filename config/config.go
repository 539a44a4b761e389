package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/atvfleet/maintsched/core/metrics"
	"github.com/atvfleet/maintsched/core/optimizer"
	"github.com/atvfleet/maintsched/infra/mqtt"
)

// Config aggregates every section of the service configuration. The MQTT
// publisher is considered enabled when a broker address is set.
type Config struct {
	API       APIConfig        `json:"api"`
	Optimizer optimizer.Config `json:"optimizer"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Metrics   metrics.Config   `json:"metrics"`
	History   HistoryConfig    `json:"history"`
	Sentry    SentryConfig     `json:"sentry"`
}

// APIConfig defines the HTTP listener. Token, when set, protects the
// history endpoint with a bearer token.
type APIConfig struct {
	Addr  string `json:"addr"`
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, K_MQTT__TOPIC -> mqtt.topic
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Optimizer.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.History.SetDefaults()
	if err := cfg.Optimizer.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
