package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Assets   AssetsConfig   `yaml:"assets"`
	Storage  StorageConfig  `yaml:"storage"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Logging  LoggingConfig  `yaml:"logging"`
	Autosave AutosaveConfig `yaml:"autosave"`
}

type WorldConfig struct {
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	TileSize int      `yaml:"tile_size"`
	Tiers    []string `yaml:"tiers"`
	Seed     int64    `yaml:"seed"`
}

type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	ColorKey string `yaml:"color_key"` // "#rrggbb", пустая строка: без прозрачного цвета
	Fallback bool   `yaml:"fallback"`  // генерировать атлас, если файла нет
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	Slot    string `yaml:"slot"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // если пусто, метрики не публикуются
}

type TracingConfig struct {
	Endpoint string `yaml:"endpoint"` // OTLP HTTP host:port; если пусто, спаны не экспортируются
	Service  string `yaml:"service"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

type AutosaveConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	RegrowSeconds   int `yaml:"regrow_seconds"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Width:    40,
			Height:   30,
			TileSize: 32,
			Tiers:    []string{"ground"},
			Seed:     1,
		},
		Assets: AssetsConfig{
			Dir:      "assets",
			ColorKey: "#ff00ff",
			Fallback: true,
		},
		Storage: StorageConfig{
			DataDir: "data",
			Slot:    "default",
		},
		Tracing: TracingConfig{
			Service: "wanderer",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Autosave: AutosaveConfig{
			IntervalSeconds: 60,
			RegrowSeconds:   20,
		},
	}
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", путь берётся из WANDERER_CONFIG; если не задан и он,
// возвращаются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WANDERER_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if seed := os.Getenv("WANDERER_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.World.Seed = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("config: invalid world size %dx%d", c.World.Width, c.World.Height)
	}
	if c.World.TileSize < 2 {
		return fmt.Errorf("config: invalid tile size %d", c.World.TileSize)
	}
	if len(c.World.Tiers) == 0 {
		return fmt.Errorf("config: at least one tier required")
	}
	if _, err := c.Assets.Key(); err != nil {
		return err
	}
	return nil
}

// Key разбирает прозрачный цвет ассетов. nil означает отсутствие ключа.
func (a AssetsConfig) Key() (*color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(a.ColorKey), "#")
	if s == "" {
		return nil, nil
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("config: invalid color key %q", a.ColorKey)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("config: invalid color key %q: %w", a.ColorKey, err)
	}
	return &color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Interval возвращает период автосохранения; 0 отключает его
func (a AutosaveConfig) Interval() time.Duration {
	if a.IntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(a.IntervalSeconds) * time.Second
}

// Regrow возвращает задержку отрастания выкопанной травы
func (a AutosaveConfig) Regrow() time.Duration {
	if a.RegrowSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RegrowSeconds) * time.Second
}
