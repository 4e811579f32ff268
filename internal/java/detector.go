package java

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"dj/internal/config"
)

// Detector finds JDK installations on the system
type Detector struct {
	standardPaths []string
}

// NewDetector creates a new JDK detector
func NewDetector() *Detector {
	return &Detector{
		standardPaths: standardSearchPaths(),
	}
}

// standardSearchPaths returns the well-known JDK install roots per OS
func standardSearchPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"C:\\Program Files\\Java",
			"C:\\Program Files (x86)\\Java",
			"C:\\Program Files\\Eclipse Adoptium",
			"C:\\Program Files\\Eclipse Foundation",
			"C:\\Program Files\\Zulu",
			"C:\\Program Files\\Amazon Corretto",
			"C:\\Program Files\\Microsoft",
		}
	case "darwin":
		return []string{
			"/Library/Java/JavaVirtualMachines",
			"/opt/homebrew/opt",
		}
	default:
		home, _ := os.UserHomeDir()
		paths := []string{
			"/usr/lib/jvm",
			"/usr/java",
			"/opt/java",
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, ".sdkman", "candidates", "java"))
		}
		return paths
	}
}

// FindAll finds all JDK installations under the standard and configured search paths
func (d *Detector) FindAll() ([]Version, error) {
	versions := make([]Version, 0)

	// Load config first to get additional search paths
	cfg, err := config.Load()
	searchPaths := d.standardPaths

	customRoots := make(map[string]bool)
	if err == nil && len(cfg.SearchPaths) > 0 {
		searchPaths = append(searchPaths, cfg.SearchPaths...)
		for _, p := range cfg.SearchPaths {
			customRoots[strings.ToLower(filepath.Clean(p))] = true
		}
	}

	// Use a map to deduplicate by path (case-insensitive)
	seen := make(map[string]Version)

	for _, basePath := range searchPaths {
		if _, err := os.Stat(basePath); os.IsNotExist(err) {
			continue
		}

		entries, err := os.ReadDir(basePath)
		if err != nil {
			continue
		}

		isCustom := customRoots[strings.ToLower(filepath.Clean(basePath))]

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}

			javaPath := filepath.Join(basePath, entry.Name())
			// macOS bundles keep the home one level down
			if runtime.GOOS == "darwin" {
				if bundled := filepath.Join(javaPath, "Contents", "Home"); d.IsValidJavaPath(bundled) {
					javaPath = bundled
				}
			}
			if !d.IsValidJavaPath(javaPath) {
				continue
			}

			version := d.GetVersion(javaPath)
			key := strings.ToLower(filepath.Clean(javaPath))
			seen[key] = Version{Version: version, Path: filepath.Clean(javaPath), IsCustom: isCustom}
		}
	}

	// Materialize map to slice in a stable order
	for _, v := range seen {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		if versions[i].Version != versions[j].Version {
			return versions[i].Version < versions[j].Version
		}
		return versions[i].Path < versions[j].Path
	})

	return versions, nil
}

// Resolve maps a profile's JDK spec - an explicit home directory or a
// version substring like "17" - to a concrete JDK home.
func (d *Detector) Resolve(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", fmt.Errorf("empty JDK spec")
	}

	// Explicit path wins
	if d.IsValidJavaPath(spec) {
		return filepath.Clean(spec), nil
	}

	versions, err := d.FindAll()
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if strings.Contains(v.Version, spec) {
			return v.Path, nil
		}
	}

	return "", fmt.Errorf("no JDK matching '%s' found", spec)
}

// IsValidJavaPath checks if a path is a valid JDK home
func (d *Detector) IsValidJavaPath(path string) bool {
	if path == "" {
		return false
	}
	javaExe := filepath.Join(path, "bin", executableName())
	info, err := os.Stat(javaExe)
	return err == nil && !info.IsDir()
}

// IsValidSearchPath checks if a path is a valid directory to search for JDK installations
func (d *Detector) IsValidSearchPath(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// StandardPaths returns the built-in search roots
func (d *Detector) StandardPaths() []string {
	return d.standardPaths
}

// GetVersion extracts the version from a JDK home path
func (d *Detector) GetVersion(javaPath string) string {
	// First, try to get version by running java -version
	javaExe := filepath.Join(javaPath, "bin", executableName())
	cmd := exec.Command(javaExe, "-version")
	output, err := cmd.CombinedOutput()
	if err == nil {
		version := d.parseVersionOutput(string(output))
		if version != "" {
			return version
		}
	}

	// Fallback: extract from directory name
	dirName := filepath.Base(javaPath)
	return d.parseVersionFromDirName(dirName)
}

// parseVersionOutput parses the output of 'java -version'
func (d *Detector) parseVersionOutput(output string) string {
	// Look for version patterns like: version "17.0.1"
	re := regexp.MustCompile(`version\s+"([^"]+)"`)
	matches := re.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}

	// Alternative pattern: openjdk version "11.0.12"
	re = regexp.MustCompile(`(?:openjdk|java)\s+version\s+"([^"]+)"`)
	matches = re.FindStringSubmatch(output)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// parseVersionFromDirName extracts version from directory names like "jdk-17" or "jdk1.8.0_322"
func (d *Detector) parseVersionFromDirName(dirName string) string {
	dirName = strings.ToLower(dirName)

	// Pattern: jdk-17, jdk-17.0.1, etc.
	re := regexp.MustCompile(`jdk-?(\d+(?:\.\d+)*(?:_\d+)?)`)
	matches := re.FindStringSubmatch(dirName)
	if len(matches) > 1 {
		return matches[1]
	}

	// Pattern: jdk1.8.0_322
	re = regexp.MustCompile(`jdk(1\.\d+\.\d+_\d+)`)
	matches = re.FindStringSubmatch(dirName)
	if len(matches) > 1 {
		return matches[1]
	}

	// Pattern: java-17, java-11, etc.
	re = regexp.MustCompile(`java-?(\d+(?:\.\d+)*)`)
	matches = re.FindStringSubmatch(dirName)
	if len(matches) > 1 {
		return matches[1]
	}

	// Return dir name as-is if no pattern matches
	return dirName
}

func executableName() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}
