package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Input      Input               `yaml:"input"`
	Output     Output              `yaml:"output"`
	Analysis   Analysis            `yaml:"analysis"`
	Categories map[string][]string `yaml:"categories"`
	Interests  map[string][]string `yaml:"interests"`
	Logging    Logging             `yaml:"logging"`
}

type Input struct {
	Dir string `yaml:"dir"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Analysis struct {
	SessionGapHours         int `yaml:"session_gap_hours"`
	BingeMinVideos          int `yaml:"binge_min_videos"`
	BingeMinDurationMinutes int `yaml:"binge_min_duration_minutes"`
	TopChannels             int `yaml:"top_channels"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for watchlens.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "watchlens")
}

// DataDir returns the XDG data directory for watchlens.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "watchlens")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/watchlens/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'watchlens init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Analysis: Analysis{
			SessionGapHours: 2,
			TopChannels:     15,
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Analysis.SessionGapHours <= 0 {
		cfg.Analysis.SessionGapHours = 2
	}
	if cfg.Analysis.TopChannels <= 0 {
		cfg.Analysis.TopChannels = 15
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}

	return cfg, nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// SessionGap returns the session gap threshold as a duration.
func (c *Config) SessionGap() time.Duration {
	return time.Duration(c.Analysis.SessionGapHours) * time.Hour
}

// BingeMinDuration returns the minimum binge duration as a duration.
func (c *Config) BingeMinDuration() time.Duration {
	return time.Duration(c.Analysis.BingeMinDurationMinutes) * time.Minute
}

// DefaultCategories returns the built-in category keyword table, used when
// the config file defines none.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"Drag/LGBTQ+":          {"drag", "rupaul", "queen", "lgbt", "gay", "pride", "queer"},
		"Music":                {"music", "song", "album", "artist", "concert", "live", "performance"},
		"Podcast":              {"podcast", "interview", "talk", "discussion", "episode"},
		"Comedy":               {"comedy", "funny", "humor", "laugh", "joke", "comedian"},
		"Tutorial/Educational": {"how to", "tutorial", "learn", "guide", "tips", "education"},
		"News/Politics":        {"news", "politics", "election", "government", "policy"},
		"Gaming":               {"game", "gaming", "play", "gameplay", "streamer"},
		"Travel":               {"travel", "trip", "vacation", "destination", "tourism"},
		"Food":                 {"recipe", "cooking", "food", "chef", "kitchen", "meal"},
		"Technology":           {"tech", "technology", "gadget", "app", "software", "review"},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
