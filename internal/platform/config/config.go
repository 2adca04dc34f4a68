package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "inkstone/internal/platform/errors"
)

const FileName = "inkstone.yaml"

const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// LogAuto picks console logs on a terminal and JSON otherwise.
const LogAuto = "auto"

type Config struct {
	DataDir     string
	DBPath      string
	VaultPath   string
	PromptsFile string
	Store       StoreConfig
	Log         LogConfig
	Coach       CoachConfig
}

type StoreConfig struct {
	Driver      string `yaml:"driver"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

type CoachConfig struct {
	DailyStoneGoal   int           `yaml:"daily_stone_goal"`
	MinPromptDisplay time.Duration `yaml:"min_prompt_display"`
	PhaseCheckEvery  time.Duration `yaml:"phase_check_every"`
	PromptCheckEvery time.Duration `yaml:"prompt_check_every"`
}

// fileConfig mirrors inkstone.yaml. Paths are relative to the data dir.
type fileConfig struct {
	Vault   string      `yaml:"vault"`
	DB      string      `yaml:"db"`
	Prompts string      `yaml:"prompts"`
	Store   StoreConfig `yaml:"store"`
	Log     LogConfig   `yaml:"log"`
	Coach   CoachConfig `yaml:"coach"`
}

func Default(dataDir string) Config {
	return Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "inkstone.db"),
		VaultPath:   filepath.Join(dataDir, "journal"),
		PromptsFile: filepath.Join(dataDir, "prompts.yaml"),
		Store:       StoreConfig{Driver: StoreSQLite, RedisAddr: "localhost:6379", RedisPrefix: "inkstone:"},
		Log:         LogConfig{Mode: LogAuto, Level: "warn"},
		Coach: CoachConfig{
			DailyStoneGoal:   2,
			MinPromptDisplay: 2 * time.Second,
			PhaseCheckEvery:  time.Minute,
			PromptCheckEvery: 30 * time.Second,
		},
	}
}

// New returns the defaults for dataDir overlaid with dataDir/inkstone.yaml
// when that file exists.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("%w: data dir is required", apperrors.ErrInvalidInput)
	}
	cfg := Default(dataDir)
	raw, err := os.ReadFile(filepath.Join(dataDir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	file := fileConfig{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.overlay(file)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlay(file fileConfig) {
	if file.Vault != "" {
		c.VaultPath = c.resolve(file.Vault)
	}
	if file.DB != "" {
		c.DBPath = c.resolve(file.DB)
	}
	if file.Prompts != "" {
		c.PromptsFile = c.resolve(file.Prompts)
	}
	if file.Store.Driver != "" {
		c.Store.Driver = strings.ToLower(file.Store.Driver)
	}
	if file.Store.RedisAddr != "" {
		c.Store.RedisAddr = file.Store.RedisAddr
	}
	if file.Store.RedisPrefix != "" {
		c.Store.RedisPrefix = file.Store.RedisPrefix
	}
	if file.Log.Mode != "" {
		c.Log.Mode = file.Log.Mode
	}
	if file.Log.Level != "" {
		c.Log.Level = file.Log.Level
	}
	if file.Coach.DailyStoneGoal != 0 {
		c.Coach.DailyStoneGoal = file.Coach.DailyStoneGoal
	}
	if file.Coach.MinPromptDisplay != 0 {
		c.Coach.MinPromptDisplay = file.Coach.MinPromptDisplay
	}
	if file.Coach.PhaseCheckEvery != 0 {
		c.Coach.PhaseCheckEvery = file.Coach.PhaseCheckEvery
	}
	if file.Coach.PromptCheckEvery != 0 {
		c.Coach.PromptCheckEvery = file.Coach.PromptCheckEvery
	}
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("%w: unsupported store driver %q", apperrors.ErrInvalidInput, c.Store.Driver)
	}
	if c.Coach.DailyStoneGoal < 1 {
		return fmt.Errorf("%w: daily stone goal must be positive", apperrors.ErrInvalidInput)
	}
	if c.Coach.MinPromptDisplay < 0 {
		return fmt.Errorf("%w: min prompt display must not be negative", apperrors.ErrInvalidInput)
	}
	if c.Coach.PhaseCheckEvery <= 0 || c.Coach.PromptCheckEvery <= 0 {
		return fmt.Errorf("%w: check intervals must be positive", apperrors.ErrInvalidInput)
	}
	return nil
}
