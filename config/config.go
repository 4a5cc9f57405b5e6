package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/steam-shortcut-sync/errors"
	"github.com/grovetools/steam-shortcut-sync/pkg/paths"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order inside the config directory.
var configNames = []string{"config.yml", "config.yaml", "config.toml"}

// Load reads and parses the configuration file at path, then merges any
// override file next to it.
func Load(path string) (*Config, error) {
	raw, err := readRaw(path)
	if err != nil {
		return nil, err
	}

	raw, err = mergeOverrides(path, raw)
	if err != nil {
		return nil, err
	}

	return fromMap(raw)
}

// EnvConfigPath names an explicit config file, bypassing the search.
const EnvConfigPath = "SHORTCUT_SYNC_CONFIG"

// LoadDefault loads the file named by SHORTCUT_SYNC_CONFIG, or else the config
// file from the XDG config directory. A missing XDG file is not an error:
// defaults are returned.
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}
	path, err := FindConfigFile()
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) {
			return Default(), nil
		}
		return nil, err
	}
	return Load(path)
}

// LoadFromBytes parses configuration from a byte array. format is the file
// extension: ".toml" selects TOML, anything else YAML.
func LoadFromBytes(data []byte, format string) (*Config, error) {
	raw, err := parse(data, format)
	if err != nil {
		return nil, err
	}
	return fromMap(raw)
}

// FindConfigFile returns the first config file present in the config directory.
func FindConfigFile() (string, error) {
	dir, err := paths.ConfigDir()
	if err != nil {
		return "", err
	}

	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound(dir).WithDetail("searchPath", dir)
}

func readRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	raw, err := parse(data, filepath.Ext(path))
	if err != nil {
		if se, ok := err.(*errors.SyncError); ok {
			return nil, se.WithDetail("path", path)
		}
		return nil, err
	}
	return raw, nil
}

// parse expands ${VAR} references and decodes data into a generic map.
func parse(data []byte, format string) (map[string]interface{}, error) {
	expanded := []byte(expandEnvVars(string(data)))
	raw := make(map[string]interface{})

	if strings.EqualFold(format, ".toml") || strings.EqualFold(format, "toml") {
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
		return raw, nil
	}

	if err := yaml.Unmarshal(expanded, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}
	return raw, nil
}

// fromMap decodes a generic map into a Config, applies defaults and validates.
func fromMap(raw map[string]interface{}) (*Config, error) {
	if err := validateRaw(raw); err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := newDecoder(&cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	cfg.Extensions = make(map[string]interface{})
	for key, value := range raw {
		if _, known := knownKeys[key]; !known {
			cfg.Extensions[key] = value
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
