package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads and validates the companion configuration file. Unlike the
// rest of the run this never panics: a missing or broken file is an error the
// dispatcher reports before starting an installer that needs it.
func LoadConfig(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", abs, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", abs, err)
	}
	cfg.Path = abs

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", abs, err)
	}
	return &cfg, nil
}

// Validate checks the fields the installer scripts rely on and returns every
// problem found joined into one error.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.BaseDir) == "" {
		errs = append(errs, errors.New("base_dir is required"))
	}
	if len(c.Versions) == 0 {
		errs = append(errs, errors.New("at least one entry under versions is required"))
	}
	for _, name := range sortedKeys(c.Versions) {
		v := c.Versions[name]
		if v.CMakeDir == "" {
			errs = append(errs, fmt.Errorf("versions.%s.cmake_dir is required", name))
		}
		if v.IncludeDir == "" {
			errs = append(errs, fmt.Errorf("versions.%s.include_dir is required", name))
		}
	}
	for _, name := range sortedKeys(c.RemoteHosts) {
		if err := validateAddress(c.RemoteHosts[name]); err != nil {
			errs = append(errs, fmt.Errorf("remote_hosts.%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// validateAddress accepts "host" or "host:port".
func validateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return errors.New("address is empty")
	}
	if !strings.Contains(addr, ":") {
		return nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("address %q: %w", addr, err)
	}
	if host == "" {
		return fmt.Errorf("address %q has no host", addr)
	}
	if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("address %q has invalid port", addr)
	}
	return nil
}

// Resolve returns p joined to BaseDir unless it is already absolute.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// VersionNames lists the configured major versions in sorted order.
func (c *Config) VersionNames() []string {
	return sortedKeys(c.Versions)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
