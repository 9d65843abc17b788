package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/lightdash/internal/gateway"
	"github.com/dokzlo13/lightdash/internal/light"
)

// Config represents the application configuration
type Config struct {
	Gateway         GatewayConfig     `yaml:"gateway"`
	Refresh         RefreshConfig     `yaml:"refresh"`
	Log             LogConfig         `yaml:"log"`
	Dashboard       DashboardConfig   `yaml:"dashboard"`
	Lights          []LightConfig     `yaml:"lights"`
	Script          string            `yaml:"script"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// GatewayConfig contains Home Assistant connection and command dispatch settings
type GatewayConfig struct {
	URL          string   `yaml:"url"`
	Token        string   `yaml:"token"`
	Timeout      Duration `yaml:"timeout"`        // Bound on every single gateway call
	Workers      int      `yaml:"workers"`        // Dispatcher goroutines (default: 2)
	QueueSize    int      `yaml:"queue_size"`     // Pending command capacity (default: 64)
	RateLimitRPS float64  `yaml:"rate_limit_rps"` // Outbound commands per second (default: 10)
}

// Connection returns the gateway connection settings.
func (c *GatewayConfig) Connection() gateway.Config {
	return gateway.Config{BaseURL: c.URL, Token: c.Token}.Normalized()
}

// Dispatcher returns the dispatcher settings.
func (c *GatewayConfig) Dispatcher() gateway.DispatcherConfig {
	return gateway.DispatcherConfig{
		Workers:      c.Workers,
		QueueSize:    c.QueueSize,
		CallTimeout:  c.Timeout.Duration(),
		RateLimitRPS: c.RateLimitRPS,
	}
}

// RefreshConfig contains periodic state pull settings
type RefreshConfig struct {
	Interval Duration `yaml:"interval"` // 0 disables periodic refresh
	Timeout  Duration `yaml:"timeout"`  // Bound on one whole refresh pass
}

// Enabled reports whether periodic refresh is on.
func (c *RefreshConfig) Enabled() bool {
	return c.Interval > 0
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// DashboardConfig contains dashboard presentation settings
type DashboardConfig struct {
	Title string `yaml:"title"`
}

// LightConfig describes one light shown on the dashboard
type LightConfig struct {
	Name       string `yaml:"name"`
	EntityID   string `yaml:"entity_id"`
	Kind       string `yaml:"kind"`
	On         bool   `yaml:"on"`
	Brightness int    `yaml:"brightness"`
	Color      []int  `yaml:"color"`
	ColorTemp  int    `yaml:"color_temp"`
}

// Entity converts the configured light into an entity.
func (c *LightConfig) Entity() (light.Entity, error) {
	kind, err := light.ParseKind(c.Kind)
	if err != nil {
		return light.Entity{}, fmt.Errorf("light %q: %w", c.EntityID, err)
	}
	if c.Brightness < 0 || c.Brightness > light.MaxBrightness {
		return light.Entity{}, fmt.Errorf("light %q: brightness %d out of range 0-%d", c.EntityID, c.Brightness, light.MaxBrightness)
	}

	var rgb light.RGB
	switch len(c.Color) {
	case 0:
	case 3:
		for i, v := range c.Color {
			if v < 0 || v > 255 {
				return light.Entity{}, fmt.Errorf("light %q: colour component %d out of range 0-255", c.EntityID, v)
			}
			switch i {
			case 0:
				rgb.R = uint8(v)
			case 1:
				rgb.G = uint8(v)
			case 2:
				rgb.B = uint8(v)
			}
		}
	default:
		return light.Entity{}, fmt.Errorf("light %q: colour needs 3 components, got %d", c.EntityID, len(c.Color))
	}

	return light.Entity{
		Name:       c.Name,
		EntityID:   c.EntityID,
		Kind:       kind,
		IsOn:       c.On,
		Brightness: uint8(c.Brightness),
		Color:      rgb,
		ColorTemp:  c.ColorTemp,
	}, nil
}

// Entities converts every configured light. Lights that fail to convert are
// returned as nil so the dashboard can report them; errs holds one error per nil.
// With no lights configured the sample set is used.
func (c *Config) Entities() (entities []*light.Entity, errs []error) {
	if len(c.Lights) == 0 {
		samples := light.Samples()
		for i := range samples {
			entities = append(entities, &samples[i])
		}
		return entities, nil
	}

	for i := range c.Lights {
		e, err := c.Lights[i].Entity()
		if err != nil {
			entities = append(entities, nil)
			errs = append(errs, err)
			continue
		}
		entities = append(entities, &e)
	}
	return entities, errs
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Addr returns the listen address.
func (c *HealthcheckConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
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

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes and applies defaults
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (cfg *Config) setDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Gateway defaults
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = Duration(5 * time.Second)
	}
	if cfg.Gateway.Workers <= 0 {
		cfg.Gateway.Workers = 2
	}
	if cfg.Gateway.QueueSize <= 0 {
		cfg.Gateway.QueueSize = 64
	}
	if cfg.Gateway.RateLimitRPS == 0 {
		cfg.Gateway.RateLimitRPS = 10.0 // 10 requests per second
	}

	// Refresh is OFF by default; the timeout applies once it is turned on
	if cfg.Refresh.Timeout == 0 {
		cfg.Refresh.Timeout = Duration(10 * time.Second)
	}

	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = "Home Assistant Light Dashboard"
	}

	// Healthcheck defaults
	if cfg.Healthcheck.Port == 0 {
		cfg.Healthcheck.Port = 9090
	}
	if cfg.Healthcheck.Host == "" {
		cfg.Healthcheck.Host = "0.0.0.0"
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

