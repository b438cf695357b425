// Package config loads the service configuration from file, environment
// and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the discovery service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Elastic ElasticConfig `mapstructure:"elastic"`
	Images  ImagesConfig  `mapstructure:"images"`
	Search  SearchConfig  `mapstructure:"search"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port           string `mapstructure:"port"`
	MaxRequestSize int64  `mapstructure:"max_request_size"`
}

// ElasticConfig configures the index-engine client.
type ElasticConfig struct {
	URL   string `mapstructure:"url"`
	Index string `mapstructure:"index"`
	Sniff bool   `mapstructure:"sniff"`
}

// ImagesConfig configures the secondary image provider.
type ImagesConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// SearchConfig fixes the public base paths echoed in navigation links.
type SearchConfig struct {
	BasePath      string `mapstructure:"base_path"`
	RecommendPath string `mapstructure:"recommend_path"`
}

// Load reads discovery.yaml from the given directory (when present),
// overlays DISCOVERY_* environment variables and fills in defaults. A
// missing config file is not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("discovery")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("DISCOVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_request_size", 10<<20)
	v.SetDefault("elastic.url", "http://127.0.0.1:9200")
	v.SetDefault("elastic.index", "oer_materials")
	v.SetDefault("elastic.sniff", false)
	v.SetDefault("images.base_url", "https://api.openverse.org/v1")
	v.SetDefault("images.token", "")
	v.SetDefault("search.base_path", "/api/v1/oer_materials/search")
	v.SetDefault("search.recommend_path", "/api/v1/recommend/oer_materials")
}
