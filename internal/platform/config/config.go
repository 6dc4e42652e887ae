package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	apperrors "dictation/internal/platform/errors"
)

const (
	FileName  = "config.yaml"
	EnvPrefix = "DICTATION_"
)

type Config struct {
	Home     string        `yaml:"-"`
	LogLevel string        `yaml:"log_level" env:"LOG_LEVEL"`
	LogPath  string        `yaml:"log_path" env:"LOG_PATH"`
	Locale   string        `yaml:"locale" env:"LOCALE"`
	Lessons  LessonConfig  `yaml:"lessons" envPrefix:"LESSONS_"`
	Storage  StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Speech   SpeechConfig  `yaml:"speech" envPrefix:"SPEECH_"`
	Study    StudyConfig   `yaml:"study" envPrefix:"STUDY_"`
}

// LessonConfig points at the unit index. An empty Source selects the embedded sample units.
type LessonConfig struct {
	Source      string        `yaml:"source" env:"SOURCE"`
	IndexFile   string        `yaml:"index_file" env:"INDEX_FILE"`
	DefaultUnit string        `yaml:"default_unit" env:"DEFAULT_UNIT"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	UploadDir   string        `yaml:"upload_dir" env:"UPLOAD_DIR"`
}

type StorageConfig struct {
	Backend string `yaml:"backend" env:"BACKEND"`
	DBPath  string `yaml:"db_path" env:"DB_PATH"`
	Dir     string `yaml:"dir" env:"DIR"`
}

type SpeechConfig struct {
	Engine     string        `yaml:"engine" env:"ENGINE"`
	Command    string        `yaml:"command" env:"COMMAND"`
	Plugin     string        `yaml:"plugin" env:"PLUGIN"`
	Lang       string        `yaml:"lang" env:"LANG"`
	Rate       float64       `yaml:"rate" env:"RATE"`
	Volume     float64       `yaml:"volume" env:"VOLUME"`
	Pitch      float64       `yaml:"pitch" env:"PITCH"`
	Grace      time.Duration `yaml:"grace" env:"GRACE"`
	SpeakDelay time.Duration `yaml:"speak_delay" env:"SPEAK_DELAY"`
	WarmUp     bool          `yaml:"warm_up" env:"WARM_UP"`
}

type StudyConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" env:"TICK_INTERVAL"`
	TickMinutes  float64       `yaml:"tick_minutes" env:"TICK_MINUTES"`
}

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"

	EngineAuto   = "auto"
	EngineExec   = "exec"
	EnginePlugin = "plugin"
	EngineNone   = "none"
)

// DefaultHome returns $HOME/.dictation, or a relative .dictation when no home directory is known.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".dictation"
	}
	return filepath.Join(home, ".dictation")
}

func Default(home string) Config {
	return Config{
		Home:     home,
		LogLevel: "info",
		LogPath:  filepath.Join(home, "dictation.log"),
		Locale:   "zh-HK",
		Lessons: LessonConfig{
			IndexFile:   "units-index.json",
			DefaultUnit: "unit5",
			Timeout:     10 * time.Second,
			UploadDir:   filepath.Join(home, "uploads"),
		},
		Storage: StorageConfig{
			Backend: StorageSQLite,
			DBPath:  filepath.Join(home, "dictation.db"),
			Dir:     filepath.Join(home, "storage"),
		},
		Speech: SpeechConfig{
			Engine:     EngineAuto,
			Lang:       "en-GB",
			Rate:       0.85,
			Volume:     1.0,
			Pitch:      1.0,
			Grace:      100 * time.Millisecond,
			SpeakDelay: 50 * time.Millisecond,
			WarmUp:     true,
		},
		Study: StudyConfig{
			TickInterval: 30 * time.Second,
			TickMinutes:  0.5,
		},
	}
}

// New loads <home>/config.yaml when present and applies DICTATION_* environment overrides.
func New(home string) (Config, error) {
	if strings.TrimSpace(home) == "" {
		return Config{}, fmt.Errorf("%w: home directory is required", apperrors.ErrInvalidInput)
	}
	cfg := Default(home)
	if err := loadFile(filepath.Join(home, FileName), &cfg); err != nil {
		return Config{}, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overlays DICTATION_* environment variables onto target.
func ParseEnv(target *Config) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(payload))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decode %s: %v", apperrors.ErrInvalidInput, path, err)
	}
	return nil
}

func (c *Config) resolvePaths() {
	c.LogPath = c.underHome(c.LogPath)
	c.Lessons.UploadDir = c.underHome(c.Lessons.UploadDir)
	c.Storage.DBPath = c.underHome(c.Storage.DBPath)
	c.Storage.Dir = c.underHome(c.Storage.Dir)
	if c.Speech.Plugin != "" {
		c.Speech.Plugin = c.underHome(c.Speech.Plugin)
	}
	source := c.Lessons.Source
	if source != "" && !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		c.Lessons.Source = c.underHome(source)
	}
}

func (c Config) underHome(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Home, path)
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("%w: storage backend %q (want sqlite|file)", apperrors.ErrInvalidInput, c.Storage.Backend)
	}
	switch c.Speech.Engine {
	case EngineAuto, EngineExec, EnginePlugin, EngineNone:
	default:
		return fmt.Errorf("%w: speech engine %q (want auto|exec|plugin|none)", apperrors.ErrInvalidInput, c.Speech.Engine)
	}
	if c.Speech.Engine == EnginePlugin && c.Speech.Plugin == "" {
		return fmt.Errorf("%w: speech.plugin is required for the plugin engine", apperrors.ErrInvalidInput)
	}
	if c.Speech.Rate <= 0 {
		return fmt.Errorf("%w: speech rate must be positive", apperrors.ErrInvalidInput)
	}
	if c.Speech.Volume < 0 || c.Speech.Volume > 1 {
		return fmt.Errorf("%w: speech volume must be within 0..1", apperrors.ErrInvalidInput)
	}
	if c.Study.TickInterval <= 0 {
		return fmt.Errorf("%w: study tick interval must be positive", apperrors.ErrInvalidInput)
	}
	if c.Study.TickMinutes < 0 {
		return fmt.Errorf("%w: study tick minutes must not be negative", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Lessons.IndexFile) == "" {
		return fmt.Errorf("%w: lessons.index_file is required", apperrors.ErrInvalidInput)
	}
	return nil
}
