package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g.
// DOOMCORE_DISPLAY_SCALE or DOOMCORE_DEBUG_ADDR.
const EnvPrefix = "DOOMCORE"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all engine configuration values
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Camera    CameraConfig    `yaml:"camera"`
	Player    PlayerConfig    `yaml:"player"`
	Doors     DoorConfig      `yaml:"doors"`
	Rendering RenderingConfig `yaml:"rendering"`
	Assets    AssetsConfig    `yaml:"assets"`
	Level     LevelConfig     `yaml:"level"`
	Debug     DebugConfig     `yaml:"debug"`
}

type DisplayConfig struct {
	RenderWidth  int     `yaml:"render_width" split_words:"true"`
	RenderHeight int     `yaml:"render_height" split_words:"true"`
	Scale        float64 `yaml:"scale" split_words:"true"`
	WindowTitle  string  `yaml:"window_title" split_words:"true"`
	Resizable    bool    `yaml:"resizable" split_words:"true"`
	TPS          int     `yaml:"tps" split_words:"true"`
}

type CameraConfig struct {
	FieldOfView float64 `yaml:"field_of_view" split_words:"true"`
}

type PlayerConfig struct {
	Height             float64 `yaml:"height" split_words:"true"`
	Radius             float64 `yaml:"radius" split_words:"true"`
	MoveSpeed          float64 `yaml:"move_speed" split_words:"true"`
	RotationSpeed      float64 `yaml:"rotation_speed" split_words:"true"`
	MaxStepHeight      float64 `yaml:"max_step_height" split_words:"true"`
	MinRoomHeight      float64 `yaml:"min_room_height" split_words:"true"`
	ActivationDistance float64 `yaml:"activation_distance" split_words:"true"`
}

type DoorConfig struct {
	Speed float64 `yaml:"speed" split_words:"true"` // ceiling units per tick
}

type RenderingConfig struct {
	Workers    int  `yaml:"workers" split_words:"true"` // 0 uses every CPU
	ShadeCache bool `yaml:"shade_cache" split_words:"true"`
	Parallel   bool `yaml:"parallel" split_words:"true"`
}

type AssetsConfig struct {
	Dir          string `yaml:"dir" split_words:"true"`
	SkyTexture   string `yaml:"sky_texture" split_words:"true"`
	SkyFlat      string `yaml:"sky_flat" split_words:"true"`
	Placeholders bool   `yaml:"placeholders" split_words:"true"`
}

// LevelConfig selects the map. An empty File loads the built-in demo level.
type LevelConfig struct {
	File string `yaml:"file" split_words:"true"`
}

type DebugConfig struct {
	Enabled bool   `yaml:"enabled" split_words:"true"`
	Addr    string `yaml:"addr" split_words:"true"`
	ShowHUD bool   `yaml:"show_hud" split_words:"true"`
	Verbose bool   `yaml:"verbose" split_words:"true"`
}

// Default returns the built-in settings. Values missing from a config file
// keep these.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			RenderWidth:  320,
			RenderHeight: 200,
			Scale:        4,
			WindowTitle:  "doomcore",
			Resizable:    true,
			TPS:          60,
		},
		Camera: CameraConfig{FieldOfView: 90},
		Player: PlayerConfig{
			Height:             41,
			Radius:             16,
			MoveSpeed:          0.3,
			RotationSpeed:      0.12,
			MaxStepHeight:      24,
			MinRoomHeight:      46,
			ActivationDistance: 200,
		},
		Doors: DoorConfig{Speed: 1},
		Rendering: RenderingConfig{
			ShadeCache: true,
			Parallel:   true,
		},
		Assets: AssetsConfig{
			Dir:          "assets",
			SkyTexture:   "SKY1",
			SkyFlat:      "F_SKY1",
			Placeholders: true,
		},
		Debug: DebugConfig{
			Addr:    "127.0.0.1:6060",
			ShowHUD: true,
		},
	}
}

// LoadConfig loads the configuration from a YAML file, then applies
// DOOMCORE_* environment overrides. A missing file is not an error: the
// defaults and the environment are used instead.
func LoadConfig(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate rejects settings the renderer and collision code cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Display.RenderWidth <= 0 || c.Display.RenderHeight <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalidConfig, c.Display.RenderWidth, c.Display.RenderHeight)
	case c.Display.Scale <= 0:
		return fmt.Errorf("%w: scale %v", ErrInvalidConfig, c.Display.Scale)
	case c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180:
		return fmt.Errorf("%w: field of view %v outside (0, 180)", ErrInvalidConfig, c.Camera.FieldOfView)
	case c.Player.Radius <= 0:
		return fmt.Errorf("%w: player radius %v", ErrInvalidConfig, c.Player.Radius)
	case c.Player.MinRoomHeight < c.Player.Height:
		return fmt.Errorf("%w: min room height %v below player height %v", ErrInvalidConfig, c.Player.MinRoomHeight, c.Player.Height)
	case c.Doors.Speed <= 0:
		return fmt.Errorf("%w: door speed %v", ErrInvalidConfig, c.Doors.Speed)
	case c.Rendering.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Rendering.Workers)
	}
	return nil
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return int(float64(c.Display.RenderWidth) * c.Display.Scale)
}

func (c *Config) GetScreenHeight() int {
	return int(float64(c.Display.RenderHeight) * c.Display.Scale)
}

func (c *Config) GetRenderWidth() int {
	return c.Display.RenderWidth
}

func (c *Config) GetRenderHeight() int {
	return c.Display.RenderHeight
}

func (c *Config) GetMoveSpeed() float64 {
	return c.Player.MoveSpeed
}

func (c *Config) GetRotSpeed() float64 {
	return c.Player.RotationSpeed
}

func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView
}

// GetWorkers resolves the worker count, 0 meaning one per CPU.
func (c *Config) GetWorkers() int {
	if c.Rendering.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Rendering.Workers
}
