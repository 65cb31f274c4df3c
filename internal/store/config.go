package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// GlobalConfig is the durable client state under ~/.retrievex/config.json.
// SessionToken is the single persisted credential: absence means
// unauthenticated on startup. Only the session store writes it.
type GlobalConfig struct {
	// SessionToken is the opaque session credential attached to protected calls.
	SessionToken string `json:"sessionToken,omitempty"`

	// ServerURL overrides the default backend address.
	ServerURL string `json:"serverUrl,omitempty"`

	// LoginRedirectOnStartup selects the startup policy for a "/login"
	// address: redirect home (the hosted variant) or leave it alone.
	// A pointer so "unset" can fall back to the default (redirect).
	LoginRedirectOnStartup *bool `json:"loginRedirectOnStartup,omitempty"`
}

// RedirectLoginOnStart resolves the startup policy, defaulting to redirect.
func (c *GlobalConfig) RedirectLoginOnStart() bool {
	if c == nil || c.LoginRedirectOnStartup == nil {
		return true
	}
	return *c.LoginRedirectOnStartup
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.retrievex).
	if v := strings.TrimSpace(os.Getenv("RETRIEVEX_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".retrievex"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	// Unique temp name + atomic rename: the CLI and TUI may write concurrently.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
