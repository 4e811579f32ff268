package python

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"dj/internal/env"
)

// Venv represents a Python virtual environment on disk
type Venv struct {
	Root    string // Virtual environment root directory
	Home    string // 'home' key from pyvenv.cfg: the base interpreter's bin dir
	Version string // 'version' key from pyvenv.cfg
	Prompt  string // 'prompt' key from pyvenv.cfg, if set
}

// Open reads the virtual environment at root. A directory without a
// pyvenv.cfg is rejected - that file is what makes a venv a venv.
func Open(root string) (*Venv, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("virtual environment not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("virtual environment path is not a directory: %s", root)
	}

	cfgPath := filepath.Join(root, "pyvenv.cfg")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("not a virtual environment (missing pyvenv.cfg): %s", root)
	}

	keys := parseConfig(string(data))

	return &Venv{
		Root:    root,
		Home:    keys["home"],
		Version: firstNonEmpty(keys["version"], keys["version_info"]),
		Prompt:  strings.Trim(keys["prompt"], "'\""),
	}, nil
}

// parseConfig parses pyvenv.cfg's "key = value" lines
func parseConfig(data string) map[string]string {
	keys := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:i]))
		keys[key] = strings.TrimSpace(line[i+1:])
	}
	return keys
}

// BinDir returns the directory holding the venv's executables
func (v *Venv) BinDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(v.Root, "Scripts")
	}
	return filepath.Join(v.Root, "bin")
}

// Interpreter returns the venv's python executable
func (v *Venv) Interpreter() string {
	bin := v.BinDir()
	if runtime.GOOS == "windows" {
		return filepath.Join(bin, "python.exe")
	}

	python := filepath.Join(bin, "python")
	if _, err := os.Stat(python); err == nil {
		return python
	}
	// Some venvs only link python3
	return filepath.Join(bin, "python3")
}

// IsValid reports whether the venv's interpreter actually exists
func (v *Venv) IsValid() bool {
	info, err := os.Stat(v.Interpreter())
	return err == nil && !info.IsDir()
}

// ActivateScript returns the POSIX activation script path, or "" when absent
func (v *Venv) ActivateScript() string {
	script := filepath.Join(v.BinDir(), "activate")
	if _, err := os.Stat(script); err != nil {
		return ""
	}
	return script
}

// Environ synthesizes the activation script's effect on base: set
// VIRTUAL_ENV, put the venv's bin dir first on PATH, drop PYTHONHOME.
func (v *Venv) Environ(base []string) []string {
	out := env.Set(base, "VIRTUAL_ENV", v.Root)
	out = env.PrependPath(out, v.BinDir())
	out = env.Unset(out, "PYTHONHOME")

	prompt := v.Prompt
	if prompt == "" {
		prompt = filepath.Base(v.Root)
	}
	out = env.Set(out, "VIRTUAL_ENV_PROMPT", prompt)

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
