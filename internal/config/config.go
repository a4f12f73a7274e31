package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"richdoc/internal/editor"
	"richdoc/internal/storage"
	"richdoc/pkg/richdoc"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	HistoryLimit int      `yaml:"history_limit"`
	Storage      Storage  `yaml:"storage"`
	Defaults     Defaults `yaml:"defaults"`
	Render       Render   `yaml:"render"`
	Log          Log      `yaml:"log"`
}

type Storage struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	Compression bool   `yaml:"compression"`
	Encryption  bool   `yaml:"encryption"`
}

type Defaults struct {
	FontFamily string `yaml:"font_family"`
	FontSizePt int    `yaml:"font_size_pt"`
}

type Render struct {
	Width int `yaml:"width"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		HistoryLimit: editor.DefaultHistoryLimit,
		Storage: Storage{
			Driver: storage.DriverFile,
			Path:   filepath.Join(dataDir(), "documents"),
		},
		Defaults: Defaults{
			FontFamily: richdoc.DefaultFontFamily,
			FontSizePt: richdoc.DefaultFontSizePt,
		},
		Render: Render{Width: 80},
		Log:    Log{Level: "warn"},
	}
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "richdoc")
	}
	return ".richdoc"
}

func DefaultPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: history_limit must be positive, got %d", ErrInvalidConfig, c.HistoryLimit)
	}
	switch strings.ToLower(c.Storage.Driver) {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Driver != storage.DriverMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("%w: storage.path is required for driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if err := richdoc.ValidateStyle(c.DefaultStyle()); err != nil {
		return fmt.Errorf("%w: defaults: %v", ErrInvalidConfig, err)
	}
	if c.Render.Width < 20 {
		return fmt.Errorf("%w: render.width must be at least 20, got %d", ErrInvalidConfig, c.Render.Width)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) DefaultStyle() richdoc.StyleSet {
	return richdoc.StyleSet{FontFamily: c.Defaults.FontFamily, FontSizePt: c.Defaults.FontSizePt}
}

func (c Config) LogLevel() (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return lvl, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

func (c Config) SaveOptions(password string) richdoc.SaveOptions {
	return richdoc.SaveOptions{
		Compression: c.Storage.Compression,
		Encryption:  richdoc.EncryptionOptions{Enabled: c.Storage.Encryption, Password: password},
	}
}

// Save writes c to path, creating its directory.
func Save(path string, c Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
