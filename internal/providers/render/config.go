package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/AgentOS/preview/internal/shared/paths"
)

// File names looked up beside documents and at the project root
const (
	ConfigFileName       = ".previewconfig"
	SettingsYAMLFileName = ".preview.yaml"
	SettingsTOMLFileName = ".preview.toml"
)

// Settings are per-project render settings
type Settings struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
}

// LoadConfig concatenates every config file between projectBase and docDir,
// outermost first so inner directories override outer ones. Directories
// outside projectBase are never read; with no project only docDir is consulted.
func LoadConfig(docDir, projectBase string) (string, error) {
	if docDir == "" {
		return "", nil
	}

	var b strings.Builder
	for _, dir := range configDirs(docDir, projectBase) {
		data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s in %s: %w", ConfigFileName, dir, err)
		}
		b.WriteString(DecodeText(data))
		if !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

// configDirs lists docDir and its ancestors up to projectBase, outermost first
func configDirs(docDir, projectBase string) []string {
	docDir = filepath.Clean(docDir)
	if projectBase == "" || !paths.Within(projectBase, docDir) {
		return []string{docDir}
	}
	root := filepath.Clean(projectBase)

	var dirs []string
	for dir := docDir; ; dir = filepath.Dir(dir) {
		dirs = append(dirs, dir)
		if dir == root || dir == filepath.Dir(dir) {
			break
		}
	}

	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

// LoadSettings reads project settings from projectBase. YAML takes
// precedence over TOML; a project without either gets zero Settings.
func LoadSettings(projectBase string) (Settings, error) {
	var s Settings
	if projectBase == "" {
		return s, nil
	}

	yamlPath := filepath.Join(projectBase, SettingsYAMLFileName)
	if data, err := os.ReadFile(yamlPath); err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", yamlPath, err)
		}
		return s, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to read %s: %w", yamlPath, err)
	}

	tomlPath := filepath.Join(projectBase, SettingsTOMLFileName)
	if data, err := os.ReadFile(tomlPath); err == nil {
		if err := toml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", tomlPath, err)
		}
		return s, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to read %s: %w", tomlPath, err)
	}

	return s, nil
}
