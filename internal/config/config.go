package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/protocols"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultPath     = "handlectl.toml"
	DefaultLogPath  = "HandleDump.log"
	DefaultDumpPath = "handles.toml"
)

// Config is the resolved tool configuration.
type Config struct {
	DumpPath         string
	LogPath          string
	Color            bool
	ClearScreen      bool
	BellOnIncomplete bool
	MetricsTextfile  string
	Protocols        []protocols.Entry
}

type fileConfig struct {
	DumpPath    string         `toml:"dump_path"`
	LogPath     string         `toml:"log_path"`
	Color       bool           `toml:"color"`
	ClearScreen bool           `toml:"clear_screen"`
	Template    fileTemplate   `toml:"template"`
	Metrics     fileMetrics    `toml:"metrics"`
	Protocols   []fileProtocol `toml:"protocols"`
}

type fileTemplate struct {
	BellOnIncomplete bool `toml:"bell_on_incomplete"`
}

type fileMetrics struct {
	Textfile string `toml:"textfile"`
}

type fileProtocol struct {
	Name string `toml:"name"`
	GUID string `toml:"guid"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DumpPath:    DefaultDumpPath,
		LogPath:     DefaultLogPath,
		Color:       true,
		ClearScreen: true,
	}
}

// Load decodes path on top of Default. Keys absent from the file keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}

	if meta.IsDefined("dump_path") {
		cfg.DumpPath = strings.TrimSpace(raw.DumpPath)
	}
	if meta.IsDefined("log_path") {
		cfg.LogPath = strings.TrimSpace(raw.LogPath)
	}
	if meta.IsDefined("color") {
		cfg.Color = raw.Color
	}
	if meta.IsDefined("clear_screen") {
		cfg.ClearScreen = raw.ClearScreen
	}
	if meta.IsDefined("template", "bell_on_incomplete") {
		cfg.BellOnIncomplete = raw.Template.BellOnIncomplete
	}
	if meta.IsDefined("metrics", "textfile") {
		cfg.MetricsTextfile = strings.TrimSpace(raw.Metrics.Textfile)
	}
	if meta.IsDefined("protocols") {
		entries, err := parseProtocols(raw.Protocols)
		if err != nil {
			return Config{}, err
		}
		cfg.Protocols = entries
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks fields that Load cannot default.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.DumpPath) == "" {
		return fmt.Errorf("%w: dump_path is required", ErrInvalidConfig)
	}
	for i, p := range cfg.Protocols {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: protocols[%d] missing name", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Registry returns the built-in protocol table extended with configured entries.
func (c Config) Registry() *protocols.Index {
	return protocols.Default().WithExtra(c.Protocols)
}

func parseProtocols(in []fileProtocol) ([]protocols.Entry, error) {
	out := make([]protocols.Entry, 0, len(in))
	for i, p := range in {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: protocols[%d] missing name", ErrInvalidConfig, i)
		}
		id, err := guid.Parse(strings.TrimSpace(p.GUID))
		if err != nil {
			return nil, fmt.Errorf("%w: protocols[%d] %s: %w", ErrInvalidConfig, i, name, err)
		}
		out = append(out, protocols.Entry{Name: name, ID: id})
	}
	return out, nil
}
