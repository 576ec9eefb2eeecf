package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	configDir = filepath.Join(os.Getenv("HOME"), ".tclctl")
	storePath = filepath.Join(configDir, "config.yaml")
)

// Profile is a stored account/device pair. Passwords and credentials are
// never written to disk.
type Profile struct {
	Name     string `yaml:"-"`
	Username string `yaml:"username"`
	Region   string `yaml:"region"`
	DeviceID string `yaml:"device_id,omitempty"`
}

// Config is the on-disk profile store.
type Config struct {
	DefaultProfile string              `yaml:"default_profile,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles"`
}

// LoadConfig reads the profile store. A missing file yields an empty config.
func LoadConfig() (*Config, error) {
	cfg := &Config{Profiles: map[string]*Profile{}}

	b, err := os.ReadFile(storePath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", storePath, err)
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]*Profile{}
	}
	for name, p := range cfg.Profiles {
		p.Name = name
	}
	return cfg, nil
}

func (c *Config) save() error {
	if err := os.MkdirAll(filepath.Dir(storePath), 0700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(storePath, b, 0600)
}

// Profile returns the named profile, or the default one when name is empty.
func (c *Config) Profile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return nil, fmt.Errorf("no profile selected and no default profile set")
	}
	p, ok := c.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile '%s' not found", name)
	}
	return p, nil
}

// SaveProfile stores p, making it the default when none is set yet.
func SaveProfile(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.Profiles[p.Name] = p
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = p.Name
	}
	return cfg.save()
}

// SetDefaultProfile marks an existing profile as the default.
func SetDefaultProfile(name string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}
	cfg.DefaultProfile = name
	return cfg.save()
}

// RemoveProfile deletes a stored profile.
func RemoveProfile(name string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Profiles[name]; !ok {
		return fmt.Errorf("profile '%s' not found", name)
	}

	delete(cfg.Profiles, name)
	if cfg.DefaultProfile == name {
		cfg.DefaultProfile = ""
	}

	if len(cfg.Profiles) == 0 {
		return os.Remove(storePath)
	}
	return cfg.save()
}

// ListProfiles returns the stored profiles sorted by name.
func ListProfiles() ([]*Profile, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	profiles := make([]*Profile, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles, nil
}

// LoadDotEnv loads ~/.tclctl/.env and ./.env. Missing files are ignored and
// variables already set in the environment win.
func LoadDotEnv() error {
	for _, path := range []string{filepath.Join(configDir, ".env"), ".env"} {
		err := godotenv.Load(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}
