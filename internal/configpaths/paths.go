// Package configpaths locates the bridge's optional config file across the
// working directory, the user config home, and /etc, trimmed from the
// teacher's multi-app version to this bridge's single config name.
package configpaths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const baseName = "ds3bridge"

// DefaultConfigDir returns the platform-specific configuration directory.
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("AppData"); appdata != "" {
			return filepath.Join(appdata, "ds3bridge"), nil
		}
		return "", errors.New("AppData not set")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ds3bridge"), nil
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", "ds3bridge"), nil
		}
		return "", errors.New("HOME not set")
	}
}

// EnsureDir ensures the directory for a given file path exists.
func EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), 0o755)
}

// CandidatePaths builds candidate config paths in priority order, split by
// loader format: an explicit userPath first (routed by its extension), then
// the working directory, then the config home, then /etc on unix.
func CandidatePaths(userPath string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(slice *[]string, p string) { *slice = append(*slice, p) }

	if userPath != "" {
		switch filepath.Ext(userPath) {
		case ".json":
			add(&jsonPaths, userPath)
		case ".yaml", ".yml":
			add(&yamlPaths, userPath)
		case ".toml":
			add(&tomlPaths, userPath)
		default:
			add(&jsonPaths, userPath)
		}
	}

	wd, _ := os.Getwd()
	add(&jsonPaths, filepath.Join(wd, baseName+".json"))
	add(&yamlPaths, filepath.Join(wd, baseName+".yaml"))
	add(&yamlPaths, filepath.Join(wd, baseName+".yml"))
	add(&tomlPaths, filepath.Join(wd, baseName+".toml"))

	if dir, err := DefaultConfigDir(); err == nil {
		add(&jsonPaths, filepath.Join(dir, baseName+".json"))
		add(&yamlPaths, filepath.Join(dir, baseName+".yaml"))
		add(&yamlPaths, filepath.Join(dir, baseName+".yml"))
		add(&tomlPaths, filepath.Join(dir, baseName+".toml"))
	}

	if runtime.GOOS != "windows" {
		etc := filepath.Join("/etc", baseName)
		add(&jsonPaths, etc+".json")
		add(&yamlPaths, etc+".yaml")
		add(&yamlPaths, etc+".yml")
		add(&tomlPaths, etc+".toml")
	}

	return
}
