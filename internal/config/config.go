package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Profiles       []Profile    `json:"profiles"`        // Launch profiles
	DefaultProfile string       `json:"default_profile"` // Profile used when 'dj run' gets no name
	SearchPaths    []string     `json:"search_paths"`    // Extra directories to scan for JDK installations
	UpdateConfig   UpdateConfig `json:"update_config"`   // Auto-update configuration
	configPath     string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`      // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`   // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`   // Last time update check was performed
	SkipVersion string    `json:"skip_version"` // Version user chose to skip
}

// Profile describes everything needed to launch one management command:
// which JDK to expose, which virtual environment to activate, where the
// Django project lives and what to invoke there.
type Profile struct {
	Name        string            `json:"name"`
	ProjectDir  string            `json:"project_dir"`            // Directory containing manage.py
	Venv        string            `json:"venv,omitempty"`         // Virtual environment root
	JavaHome    string            `json:"java_home,omitempty"`    // Explicit JDK home
	JavaVersion string            `json:"java_version,omitempty"` // Or a version to resolve via the detector
	Python      string            `json:"python,omitempty"`       // Interpreter override
	Manage      string            `json:"manage,omitempty"`       // Management script, default manage.py
	Command     string            `json:"command"`                // Management command name
	Args        []string          `json:"args,omitempty"`         // Fixed arguments for the command
	Env         map[string]string `json:"env,omitempty"`          // Extra environment for the child
}

// ManageScript returns the management script name, defaulting to manage.py
func (p *Profile) ManageScript() string {
	if strings.TrimSpace(p.Manage) == "" {
		return "manage.py"
	}
	return p.Manage
}

// Load loads the configuration from the user's home directory
func Load() (*Config, error) {
	configPath := getConfigPath()

	cfg := &Config{
		Profiles:    make([]Profile, 0),
		SearchPaths: make([]string, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: configPath,
	}

	// If config file doesn't exist, return empty config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Remove BOM if present (UTF-8 BOM is EF BB BF)
	// This handles files created by PowerShell with Set-Content -Encoding UTF8
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	// Parse JSON
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Sanitize: drop unnamed profiles and duplicates, normalize paths
	cleaned := make([]Profile, 0, len(cfg.Profiles))
	seen := make(map[string]bool)
	for _, p := range cfg.Profiles {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		p.ProjectDir = cleanPath(p.ProjectDir)
		p.Venv = cleanPath(p.Venv)
		p.JavaHome = cleanPath(p.JavaHome)
		cleaned = append(cleaned, p)
	}
	cfg.Profiles = cleaned

	cfg.configPath = configPath
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	// Ensure config directory exists
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// Marshal to JSON
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(c.configPath, data, 0644)
}

// AddProfile adds or replaces a launch profile (matched by name)
func (c *Config) AddProfile(p Profile) {
	p.Name = strings.TrimSpace(p.Name)
	p.ProjectDir = cleanPath(p.ProjectDir)
	p.Venv = cleanPath(p.Venv)
	p.JavaHome = cleanPath(p.JavaHome)

	for i, existing := range c.Profiles {
		if strings.EqualFold(existing.Name, p.Name) {
			c.Profiles[i] = p
			return
		}
	}

	c.Profiles = append(c.Profiles, p)
}

// RemoveProfile removes a launch profile by name
func (c *Config) RemoveProfile(name string) {
	for i, p := range c.Profiles {
		if strings.EqualFold(p.Name, name) {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			if strings.EqualFold(c.DefaultProfile, name) {
				c.DefaultProfile = ""
			}
			return
		}
	}
}

// HasProfile checks if a profile with the given name exists
func (c *Config) HasProfile(name string) bool {
	return c.GetProfile(name) != nil
}

// GetProfile returns the profile with the given name, or nil
func (c *Config) GetProfile(name string) *Profile {
	for i, p := range c.Profiles {
		if strings.EqualFold(p.Name, name) {
			return &c.Profiles[i]
		}
	}
	return nil
}

// Default returns the profile 'dj run' should use when no name is given:
// the configured default, or the sole profile when only one exists.
func (c *Config) Default() *Profile {
	if c.DefaultProfile != "" {
		if p := c.GetProfile(c.DefaultProfile); p != nil {
			return p
		}
	}
	if len(c.Profiles) == 1 {
		return &c.Profiles[0]
	}
	return nil
}

// SetDefault marks a profile as the default
func (c *Config) SetDefault(name string) error {
	p := c.GetProfile(name)
	if p == nil {
		return fmt.Errorf("profile '%s' not found", name)
	}
	c.DefaultProfile = p.Name
	return nil
}

// AddSearchPath adds a search path for JDK auto-detection
func (c *Config) AddSearchPath(path string) {
	// Normalize path
	path = filepath.Clean(path)

	// Check if already exists
	for _, p := range c.SearchPaths {
		if strings.EqualFold(p, path) {
			return
		}
	}

	c.SearchPaths = append(c.SearchPaths, path)
}

// RemoveSearchPath removes a search path
func (c *Config) RemoveSearchPath(path string) {
	path = filepath.Clean(path)

	for i, p := range c.SearchPaths {
		if strings.EqualFold(p, path) {
			c.SearchPaths = append(c.SearchPaths[:i], c.SearchPaths[i+1:]...)
			return
		}
	}
}

// HasSearchPath checks if a path exists in search paths
func (c *Config) HasSearchPath(path string) bool {
	path = filepath.Clean(path)

	for _, p := range c.SearchPaths {
		if strings.EqualFold(p, path) {
			return true
		}
	}
	return false
}

// Path returns the location of the config file
func (c *Config) Path() string {
	return c.configPath
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}

// getConfigPath returns the path to the configuration file
// Following XDG Base Directory specification
func getConfigPath() string {
	// Try XDG_CONFIG_HOME first (standard on Unix systems)
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		return filepath.Join(configHome, "dj", "dj.json")
	}

	// Fallback to $HOME/.config/dj/dj.json (XDG default)
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "dj", "dj.json")
}
