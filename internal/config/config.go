package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const appDir = "gh-actions-panel"

// Config is the persisted state: the OAuth token and the last selected
// repository (owner/name). Both fields are optional.
type Config struct {
	Token        string `json:"token,omitempty"`
	SelectedRepo string `json:"selectedRepo,omitempty"`
}

// Path returns the config file location under the user config dir.
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir, "config.json"), nil
}

// Load reads the config file. A missing or unparsable file yields an
// empty config, never an error.
func Load() Config {
	var cfg Config
	path, err := Path()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// Save rewrites the whole config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func SetToken(token string) error {
	cfg := Load()
	cfg.Token = token
	return Save(cfg)
}

func ClearToken() error {
	cfg := Load()
	cfg.Token = ""
	return Save(cfg)
}

func SetSelectedRepo(nwo string) error {
	cfg := Load()
	cfg.SelectedRepo = nwo
	return Save(cfg)
}
