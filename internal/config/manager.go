package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	syncerrors "github.com/penwyp/syncpush/internal/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format represents the settings file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// SettingsVersion is written into new settings files.
const SettingsVersion = "1"

const yamlHeader = `# syncpush settings
# Flags and SYNCPUSH_* environment variables override the values below.

`

// fileManager reads and writes the settings file in JSON, YAML or TOML
type fileManager struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewManager creates a settings manager. The format follows the file
// extension; unknown extensions are treated as YAML.
func NewManager(path string) (Manager, error) {
	if path == "" {
		return nil, syncerrors.ErrEmptyValue.WithCause(fmt.Errorf("settings path"))
	}
	return &fileManager{path: path, format: FormatFromPath(path)}, nil
}

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatYAML
	}
}

// DefaultPath returns $SYNCPUSH_CONFIG, or config.yaml under the user config
// directory.
func DefaultPath(getenv func(string) string) (string, error) {
	if getenv != nil {
		if p := getenv(EnvConfig); p != "" {
			return p, nil
		}
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", syncerrors.Wrap(syncerrors.ErrTypeConfig, "cannot determine user config directory", err).
			WithSuggestion("pass --config <path> or set " + EnvConfig)
	}
	return filepath.Join(dir, "syncpush", "config.yaml"), nil
}

// DefaultSettings returns the settings written by CreateDefault.
func DefaultSettings() *Settings {
	return &Settings{
		Version:   SettingsVersion,
		Remote:    "origin",
		Branch:    "main",
		OnFailure: "continue",
	}
}

func (m *fileManager) Path() string {
	return m.path
}

// Load loads the settings file
func (m *fileManager) Load() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, syncerrors.Wrap(syncerrors.ErrTypeConfig, "failed to read settings file", err)
	}

	var settings Settings
	if err := unmarshal(m.format, data, &settings); err != nil {
		return nil, syncerrors.ErrConfigParse.WithCause(fmt.Errorf("%s: %w", m.path, err))
	}
	return &settings, nil
}

func unmarshal(format Format, data []byte, s *Settings) error {
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, s); err != nil {
			// JSON 失败时尝试 YAML
			*s = Settings{}
			if yamlErr := yaml.Unmarshal(data, s); yamlErr == nil {
				return nil
			}
			return err
		}
	case FormatTOML:
		return toml.Unmarshal(data, s)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			*s = Settings{}
			if jsonErr := json.Unmarshal(data, s); jsonErr == nil {
				return nil
			}
			return err
		}
	}
	return nil
}

func marshal(format Format, s *Settings) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return toml.Marshal(s)
	default:
		return yaml.Marshal(s)
	}
}

// Save saves the settings file in the manager's format
func (m *fileManager) Save(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(settings, "")
}

// CreateDefault writes DefaultSettings, with a comment header for YAML.
func (m *fileManager) CreateDefault(overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !overwrite {
		if _, err := os.Stat(m.path); err == nil {
			return syncerrors.ErrConfigExists.WithCause(fmt.Errorf("%s", m.path)).
				WithSuggestion("use --force to overwrite it")
		}
	}

	header := ""
	if m.format == FormatYAML {
		header = yamlHeader
	}
	return m.write(DefaultSettings(), header)
}

// write 原子写入：先写临时文件再重命名
func (m *fileManager) write(settings *Settings, header string) error {
	data, err := marshal(m.format, settings)
	if err != nil {
		return syncerrors.ErrConfigWrite.WithCause(err)
	}
	data = append([]byte(header), data...)

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return syncerrors.ErrConfigWrite.WithCause(err)
	}

	tmpFile := m.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return syncerrors.ErrConfigWrite.WithCause(err)
	}
	if err := os.Rename(tmpFile, m.path); err != nil {
		_ = os.Remove(tmpFile)
		return syncerrors.ErrConfigWrite.WithCause(err)
	}
	return nil
}

// LoadOrEmpty loads the settings file and treats a missing file as empty
// settings.
func LoadOrEmpty(m Manager) (*Settings, error) {
	s, err := m.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return &Settings{}, nil
	}
	return s, err
}
