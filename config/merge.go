package config

import (
	"os"
	"path/filepath"
	"strings"
)

// overrideNames returns the override files considered for a base config path,
// e.g. config.override.yml next to config.yml.
func overrideNames(basePath string) []string {
	dir := filepath.Dir(basePath)
	stem := strings.TrimSuffix(filepath.Base(basePath), filepath.Ext(basePath))
	return []string{
		filepath.Join(dir, stem+".override.yml"),
		filepath.Join(dir, stem+".override.yaml"),
		filepath.Join(dir, stem+".override.toml"),
	}
}

// mergeOverrides layers every existing override file over base.
func mergeOverrides(basePath string, base map[string]interface{}) (map[string]interface{}, error) {
	result := base
	for _, path := range overrideNames(basePath) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		override, err := readRaw(path)
		if err != nil {
			return nil, err
		}
		result = mergeMaps(result, override)
	}
	return result, nil
}

// mergeMaps returns base with override applied. Nested maps are merged key by
// key; any other override value replaces the base value.
func mergeMaps(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		if baseMap, ok := result[k].(map[string]interface{}); ok {
			if overrideMap, ok := v.(map[string]interface{}); ok {
				result[k] = mergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}
