package config

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnvVar names a YAML file whose keys supply defaults for any
// setting not present in the environment, e.g.
//
//	api_base_url: https://reservas.example.com/api/v1
//	storage_secret: change-me
const ConfigFileEnvVar = "CONFIG_FILE"

var (
	overlayOnce sync.Once
	overlayMu   sync.RWMutex
	overlay     map[string]string
)

// LoadFile reads a YAML overlay from path, replacing any loaded earlier.
// CONFIG_FILE is no longer consulted once LoadFile has been called.
func LoadFile(path string) error {
	overlayOnce.Do(func() {})
	return loadFile(path)
}

func loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		values[strings.ToUpper(k)] = stringify(v)
	}

	overlayMu.Lock()
	overlay = values
	overlayMu.Unlock()
	return nil
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, _ := yaml.Marshal(v)
	return strings.TrimSpace(string(out))
}

func fileValue(envVar string) (string, bool) {
	overlayOnce.Do(func() {
		path := os.Getenv(ConfigFileEnvVar)
		if path == "" {
			return
		}
		if err := loadFile(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("ignoring config file")
		}
	})

	overlayMu.RLock()
	defer overlayMu.RUnlock()
	v, ok := overlay[strings.ToUpper(envVar)]
	return v, ok
}
