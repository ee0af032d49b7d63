package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the manager configuration
type Config struct {
	// InitConf is applied at startup and replayed after hibernation
	InitConf        string            `yaml:"init_conf"`
	DryRun          bool              `yaml:"dry_run"`
	ReplayOnSuspend bool              `yaml:"replay_on_suspend"`
	DebugAddr       string            `yaml:"debug_addr"` // pprof and log viewer, disabled when empty
	Device          DeviceConfig      `yaml:"device"`
	Journal         JournalConfig     `yaml:"journal"`
	Log             LogConfig         `yaml:"log"`
	Power           PowerConfig       `yaml:"power"`
	UpdateCheck     UpdateCheckConfig `yaml:"update_check"`
}

// DeviceConfig contains the user space device node settings
type DeviceConfig struct {
	Path     string   `yaml:"path"`
	Mode     FileMode `yaml:"mode"`
	MaxWrite int      `yaml:"max_write"`
}

// JournalConfig enables recording every firmware call to a rotated file
type JournalConfig struct {
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"max_size"` // megabytes
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Colors bool   `yaml:"colors"`
	File   string `yaml:"file"` // rotated with lumberjack when set
}

// PowerConfig contains resume detection settings
type PowerConfig struct {
	PollInterval  Duration `yaml:"poll_interval"` // 0 disables clock jump detection
	JumpThreshold Duration `yaml:"jump_threshold"`
	Debounce      Duration `yaml:"debounce"`
}

// UpdateCheckConfig contains the release check settings
type UpdateCheckConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Repo     string   `yaml:"repo"`
	Interval Duration `yaml:"interval"`
}

// GetLevel returns log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the time.Duration value
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// FileMode is an os.FileMode written as an octal string ("0666") in YAML
type FileMode os.FileMode

// UnmarshalYAML implements yaml.Unmarshaler for FileMode
func (m *FileMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	mode, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
	if err != nil || mode > 0777 {
		return errors.Errorf("invalid file mode %q", s)
	}
	*m = FileMode(mode)
	return nil
}

// FileMode returns the os.FileMode value
func (m FileMode) FileMode() os.FileMode {
	return os.FileMode(m)
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		DryRun: true,
		Device: DeviceConfig{
			Path:     "/run/acer-kb-rgb.sock",
			Mode:     FileMode(0666),
			MaxWrite: 4096,
		},
		Journal: JournalConfig{
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     7,
		},
		Log: LogConfig{
			Level:  "info",
			Colors: true,
		},
		Power: PowerConfig{
			PollInterval:  Duration(5 * time.Second),
			JumpThreshold: Duration(30 * time.Second),
			Debounce:      Duration(time.Second),
		},
		UpdateCheck: UpdateCheckConfig{
			Repo:     "starvoid/AcerRGB",
			Interval: Duration(6 * time.Hour),
		},
	}
}

// Load reads configuration from a YAML file on top of Default. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "config: cannot read file")
		}

		// Expand environment variables
		expanded := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, errors.Wrap(err, "config: cannot parse file")
		}
	}

	if os.Getenv("DRY_RUN") != "" {
		cfg.DryRun = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.UpdateCheck.Enabled && c.UpdateCheck.Repo == "" {
		return errors.New("config: update_check.repo is required when update_check is enabled")
	}
	if c.Power.PollInterval.Duration() > 0 && c.Power.JumpThreshold.Duration() <= c.Power.PollInterval.Duration() {
		return errors.New("config: power.jump_threshold must be longer than power.poll_interval")
	}
	return nil
}

// expandEnvVars replaces ${VAR} or ${VAR:-default} with environment variable values
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		varName := parts[1]
		defaultVal := ""
		if len(parts) > 2 {
			defaultVal = parts[2]
		}
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
