// Package config holds the resource and rendering settings for a run.
package config

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// DefaultPath is the configuration file picked up from the working directory.
const DefaultPath = "chatstats.toml"

// Config is the full application configuration.
type Config struct {
	Env        string           `toml:"env"`
	Resources  ResourcesConfig  `toml:"resources"`
	Cloud      CloudConfig      `toml:"cloud"`
	Stats      StatsConfig      `toml:"stats"`
	Normalizer NormalizerConfig `toml:"normalizer"`
}

// ResourcesConfig points at the files loaded once at construction.
type ResourcesConfig struct {
	StopWords string `toml:"stop_words"`
	Font      string `toml:"font"`
}

// CloudConfig controls word cloud rendering.
type CloudConfig struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Background  string  `toml:"background"`
	MaxFontSize float64 `toml:"max_font_size"`
	MinFontSize float64 `toml:"min_font_size"`
	MaxWords    int     `toml:"max_words"`
	FileName    string  `toml:"file_name"`
}

// StatsConfig holds the responder ranking settings.
type StatsConfig struct {
	TopN int `toml:"top_n"`
}

// NormalizerConfig sizes the normalization cache.
type NormalizerConfig struct {
	CacheSize int `toml:"cache_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Env: "development",
		Resources: ResourcesConfig{
			StopWords: "data/stopwords.txt",
			Font:      "data/font.ttf",
		},
		Cloud: CloudConfig{
			Width:       1920,
			Height:      1080,
			Background:  "#ffffff",
			MaxFontSize: 250,
			MinFontSize: 10,
			MaxWords:    200,
			FileName:    "wordcloud.png",
		},
		Stats: StatsConfig{
			TopN: 1,
		},
		Normalizer: NormalizerConfig{
			CacheSize: 4096,
		},
	}
}

// Load overlays the TOML file at path on top of Default.
// A missing file at DefaultPath is not an error; any other missing path is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.Newf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks the values a run cannot work without.
func (c Config) Validate() error {
	switch {
	case c.Resources.StopWords == "":
		return errors.New("config: resources.stop_words is required")
	case c.Resources.Font == "":
		return errors.New("config: resources.font is required")
	case c.Cloud.Width <= 0 || c.Cloud.Height <= 0:
		return errors.Newf("config: invalid cloud size %dx%d", c.Cloud.Width, c.Cloud.Height)
	case c.Cloud.MinFontSize <= 0 || c.Cloud.MaxFontSize < c.Cloud.MinFontSize:
		return errors.Newf("config: invalid font size range %.1f-%.1f", c.Cloud.MinFontSize, c.Cloud.MaxFontSize)
	case c.Cloud.FileName == "":
		return errors.New("config: cloud.file_name is required")
	}
	return nil
}

// IsDevelopment reports whether Env is "development".
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction reports whether Env is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
