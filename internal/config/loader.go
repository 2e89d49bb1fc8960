package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads the configuration and validates it.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read builds the configuration from defaults, the YAML file at configPath
// (skipped when empty) and the environment, in that order. The result is not
// validated.
func Read(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	normalize(cfg)
	return cfg, nil
}

// Discover finds a config file by checking standard locations.
// Priority order: $HOOKBOT_CONFIG, ~/.config/hookbot/config.yaml,
// /etc/hookbot/config.yaml, ./config.yaml. An empty result means none exists
// and the configuration comes from the environment alone.
func Discover() string {
	candidates := []string{os.Getenv("HOOKBOT_CONFIG")}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".config", "hookbot", "config.yaml"))
	}
	candidates = append(candidates, "/etc/hookbot/config.yaml", "./config.yaml")

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// loadConfigFile reads path, interpolates ${VAR} references and decodes it
// over cfg. Keys missing from the file keep their current values.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	// Apply environment variable interpolation
	interpolated := interpolateEnv(string(data))

	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}
	return nil
}

// interpolateEnv replaces ${VAR} with its value. Unset variables are left in
// place so Validate can name them.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

func normalize(cfg *Config) {
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	cfg.Telegram.Updates = strings.ToLower(strings.TrimSpace(cfg.Telegram.Updates))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Server.PublicURL = strings.TrimRight(cfg.Server.PublicURL, "/")
}

// ParseSize parses size strings like "1MB", "512KB" or "2048576" to bytes.
// An empty string is 0, meaning "use the default".
func ParseSize(size string) (int64, error) {
	size = strings.TrimSpace(size)
	if size == "" {
		return 0, nil
	}

	// Handle unit suffixes (KB, MB, GB)
	upper := strings.ToUpper(size)
	multiplier := int64(1)
	for _, unit := range []struct {
		suffix string
		factor int64
	}{
		{"KB", 1024},
		{"MB", 1024 * 1024},
		{"GB", 1024 * 1024 * 1024},
	} {
		if strings.HasSuffix(upper, unit.suffix) {
			multiplier = unit.factor
			upper = strings.TrimSuffix(upper, unit.suffix)
			break
		}
	}

	value, err := strconv.ParseInt(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result/multiplier != value {
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}
