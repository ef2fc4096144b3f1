// Package config loads the bandmap configuration from a YAML file and applies
// defaults matching a typical Winter Field Day setup.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"rbnmap/spot"
)

// Config represents the complete bandmap configuration.
type Config struct {
	Operator OperatorConfig `yaml:"operator"`
	RBN      RBNConfig      `yaml:"rbn"`
	Roster   RosterConfig   `yaml:"roster"`
	Spots    SpotsConfig    `yaml:"spots"`
	Rig      RigConfig      `yaml:"rig"`
	Logbook  LogbookConfig  `yaml:"logbook"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Dedup    DedupConfig    `yaml:"dedup"`
	UI       UIConfig       `yaml:"ui"`
}

// OperatorConfig identifies the operator and bounds the trusted skimmer circle.
type OperatorConfig struct {
	Callsign        string  `yaml:"callsign"`
	Grid            string  `yaml:"grid"`
	MaxSpotterMiles float64 `yaml:"max_spotter_miles"`
	GeneralOnly     bool    `yaml:"general_only"`
}

// RBNConfig contains Reverse Beacon Network telnet feed settings.
type RBNConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RosterConfig locates the skimmer status page scraped at startup.
type RosterConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SpotsConfig controls the spot store and its admission filters.
type SpotsConfig struct {
	DBPath     string   `yaml:"db_path"`
	TTLSeconds int      `yaml:"ttl_seconds"`
	Bands      []string `yaml:"bands"`
}

// RigConfig contains flrig connection settings for the VFO poller.
type RigConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	PollMS int    `yaml:"poll_ms"`
}

// LogbookConfig locates the contact logger's database.
type LogbookConfig struct {
	DBPath string `yaml:"db_path"`
}

// ArchiveConfig controls the optional JSONL recorder of accepted spots.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	QueueSize int    `yaml:"queue_size"`
}

// DedupConfig controls pre-store suppression of identical spot events.
type DedupConfig struct {
	WindowSeconds int `yaml:"window_seconds"`
}

// UIConfig selects the renderer and its refresh cadence.
type UIConfig struct {
	Mode      string `yaml:"mode"` // "tview" or "plain"
	RefreshMS int    `yaml:"refresh_ms"`
}

// Default returns the configuration used when no file or flag overrides it.
func Default() *Config {
	return &Config{
		Operator: OperatorConfig{
			Callsign:        "W1AW",
			Grid:            "DM13AT",
			MaxSpotterMiles: 500,
		},
		RBN: RBNConfig{
			Host: "telnet.reversebeacon.net",
			Port: 7000,
		},
		Roster: RosterConfig{
			URL:            "http://reversebeacon.net/cont_includes/status.php?t=skt",
			TimeoutSeconds: 10,
		},
		Spots: SpotsConfig{
			DBPath:     "spots.db",
			TTLSeconds: 600,
			Bands:      []string{"80", "40", "20", "15", "10", "6"},
		},
		Rig: RigConfig{
			Host:   "localhost",
			Port:   12345,
			PollMS: 250,
		},
		Logbook: LogbookConfig{
			DBPath: "WFD.db",
		},
		Archive: ArchiveConfig{
			QueueSize: 1000,
		},
		Dedup: DedupConfig{
			WindowSeconds: 10,
		},
		UI: UIConfig{
			Mode:      "tview",
			RefreshMS: 1000,
		},
	}
}

// Load reads the YAML file at filename over the defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the pipeline cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Operator.Callsign) == "" {
		return fmt.Errorf("operator callsign is required")
	}
	grid := strings.TrimSpace(c.Operator.Grid)
	if n := len(grid); n < 2 || n > 8 || n%2 != 0 {
		return fmt.Errorf("operator grid %q must be 2, 4, 6 or 8 characters", grid)
	}
	if c.Operator.MaxSpotterMiles <= 0 {
		return fmt.Errorf("max spotter distance must be positive")
	}
	if c.RBN.Host == "" || c.RBN.Port <= 0 {
		return fmt.Errorf("rbn host and port are required")
	}
	if c.Roster.URL == "" {
		return fmt.Errorf("roster url is required")
	}
	if c.Spots.TTLSeconds <= 0 {
		return fmt.Errorf("spot ttl must be positive")
	}
	if len(c.Spots.Bands) == 0 {
		return fmt.Errorf("at least one band is required")
	}
	for _, b := range c.Spots.Bands {
		if !spot.IsValidBand(b) {
			return fmt.Errorf("unknown band %q", b)
		}
	}
	if c.Rig.Host == "" || c.Rig.Port <= 0 {
		return fmt.Errorf("rig host and port are required")
	}
	if c.Rig.PollMS <= 0 {
		return fmt.Errorf("rig poll interval must be positive")
	}
	if c.UI.RefreshMS <= 0 {
		return fmt.Errorf("ui refresh interval must be positive")
	}
	switch c.UI.Mode {
	case "tview", "plain":
	default:
		return fmt.Errorf("ui mode must be tview or plain, got %q", c.UI.Mode)
	}
	return nil
}

// Print displays the effective configuration at startup.
func (c *Config) Print() {
	fmt.Printf("Operator: %s (%s), spotters within %.0f mi\n",
		c.Operator.Callsign, c.Operator.Grid, c.Operator.MaxSpotterMiles)
	fmt.Printf("RBN: %s:%d\n", c.RBN.Host, c.RBN.Port)
	fmt.Printf("Spots: %s (TTL %ds), bands %s\n",
		c.Spots.DBPath, c.Spots.TTLSeconds, strings.Join(c.Spots.Bands, " "))
	fmt.Printf("Rig: %s:%d (poll %dms)\n", c.Rig.Host, c.Rig.Port, c.Rig.PollMS)
	fmt.Printf("Logbook: %s\n", c.Logbook.DBPath)
	if c.Operator.GeneralOnly {
		fmt.Println("Showing General sub-band spots only")
	}
	if c.Archive.Enabled {
		fmt.Printf("Archive: %s\n", c.Archive.Path)
	}
}
