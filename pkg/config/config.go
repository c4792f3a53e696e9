package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/dougsko/tm710/pkg/tables"
)

// Config represents the tm710 configuration
type Config struct {
	Radio struct {
		// Serial link
		Device    string `yaml:"device"`
		BaudRate  int    `yaml:"baud_rate"`
		TimeoutMS int    `yaml:"timeout_ms"`

		// Codec behaviour
		ModulationOrder    string `yaml:"modulation_order"`
		AutoRepeaterOffset *bool  `yaml:"auto_repeater_offset"`
		MemoryEdit         string `yaml:"memory_edit"`
		AllowMemoryWrites  bool   `yaml:"allow_memory_writes"` // older spelling of memory_edit: write
	} `yaml:"radio"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    *bool  `yaml:"console"`
		Structured bool   `yaml:"structured"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Storage struct {
		JournalEnabled bool   `yaml:"journal_enabled"`
		DatabasePath   string `yaml:"database_path"`
		MaxEntries     int    `yaml:"max_entries"`
	} `yaml:"storage"`
}

// Supported serial speeds of the TM-D710G/TM-V71A
var BaudRates = []int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600}

// DefaultPath returns the per-user configuration file location
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tm710", "config.yaml")
	}
	return "tm710.yaml"
}

// DefaultConfig returns a configuration with every default applied
func DefaultConfig() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// LoadOrDefault loads path if it exists and falls back to the defaults
// otherwise. Any other read or parse error is returned.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func (c *Config) applyDefaults() {
	if c.Radio.Device == "" {
		c.Radio.Device = "/dev/ttyUSB0"
	}
	if c.Radio.BaudRate == 0 {
		c.Radio.BaudRate = 57600
	}
	if c.Radio.TimeoutMS == 0 {
		c.Radio.TimeoutMS = 500
	}
	if c.Radio.ModulationOrder == "" {
		c.Radio.ModulationOrder = string(tables.ModulationFMNFMAM)
	}
	if c.Radio.MemoryEdit == "" {
		c.Radio.MemoryEdit = string(tables.MemoryEditRefuse)
		if c.Radio.AllowMemoryWrites {
			c.Radio.MemoryEdit = string(tables.MemoryEditWrite)
		}
	}
	if c.Radio.AutoRepeaterOffset == nil {
		on := true
		c.Radio.AutoRepeaterOffset = &on
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Console == nil {
		on := true
		c.Logging.Console = &on
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 28
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8710
	}
	if c.Web.BindAddress == "" {
		c.Web.BindAddress = "127.0.0.1"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = defaultJournalPath()
	}
	if c.Storage.MaxEntries == 0 {
		c.Storage.MaxEntries = 10000
	}
}

func defaultJournalPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "tm710", "journal.db")
	}
	return "tm710-journal.db"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Radio.Device == "" {
		return fmt.Errorf("radio device is required")
	}
	if !validBaud(c.Radio.BaudRate) {
		return fmt.Errorf("unsupported baud rate %d (valid: %v)", c.Radio.BaudRate, BaudRates)
	}
	if c.Radio.TimeoutMS < 0 {
		return fmt.Errorf("radio timeout must not be negative")
	}
	if _, err := tables.ModulationTable(tables.ModulationOrder(c.Radio.ModulationOrder)); err != nil {
		return err
	}
	if _, err := tables.ParseMemoryEditPolicy(c.Radio.MemoryEdit); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port %d out of range", c.Web.Port)
	}
	if c.Storage.JournalEnabled && c.Storage.DatabasePath == "" {
		return fmt.Errorf("database path is required when the journal is enabled")
	}
	return nil
}

// RepeaterOffsetEnabled reports whether frequency writes apply the band
// plan shift and offset
func (c *Config) RepeaterOffsetEnabled() bool {
	return c.Radio.AutoRepeaterOffset == nil || *c.Radio.AutoRepeaterOffset
}

// MemoryEditPolicy returns what channel edits do in memory mode. An
// invalid setting, which Validate reports, falls back to refuse.
func (c *Config) MemoryEditPolicy() tables.MemoryEditPolicy {
	policy, err := tables.ParseMemoryEditPolicy(c.Radio.MemoryEdit)
	if err != nil {
		return tables.MemoryEditRefuse
	}
	return policy
}

// ConsoleEnabled reports whether log output goes to the console
func (c *Config) ConsoleEnabled() bool {
	return c.Logging.Console == nil || *c.Logging.Console
}

func validBaud(baud int) bool {
	for _, b := range BaudRates {
		if b == baud {
			return true
		}
	}
	return false
}
