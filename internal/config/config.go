package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName names the per-user configuration directory.
	AppName = "fist-teleport"

	// BridgeDirName is the directory under the system temp dir shared with the mod script.
	BridgeDirName = "Forged-In-Shadow-Torch-Save-Point-Teleport-Mod"

	settingsFile = "settings.yaml"
)

// Config holds all application configuration
type Config struct {
	Bridge  BridgeConfig  `yaml:"bridge"`
	Coords  CoordsConfig  `yaml:"coords"`
	Gamepad GamepadConfig `yaml:"gamepad"`
	Window  WindowConfig  `yaml:"window"`
	Log     LogConfig     `yaml:"log"`

	// PointsFile overrides the location of in_game_points.json
	PointsFile string `yaml:"points_file"`
}

// BridgeConfig holds the file channel settings
type BridgeConfig struct {
	Dir          string        `yaml:"dir"`
	Timeout      time.Duration `yaml:"timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// CoordsConfig holds the coordinate listener settings
type CoordsConfig struct {
	Address      string        `yaml:"address"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// GamepadConfig holds controller polling settings
type GamepadConfig struct {
	Enabled       bool           `yaml:"enabled"`
	Backend       string         `yaml:"backend"` // "auto", "xinput", "joystick"
	PollInterval  time.Duration  `yaml:"poll_interval"`
	AxisThreshold float64        `yaml:"axis_threshold"`
	StickAxis     int            `yaml:"stick_axis"`
	DPadAxis      int            `yaml:"dpad_axis"` // -1 disables the hat mapping
	Buttons       map[string]int `yaml:"buttons"`   // button name -> joystick button bit
}

// WindowConfig holds overlay window settings
type WindowConfig struct {
	OpacityPercent int `yaml:"opacity_percent"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Service manages configuration persistence
type Service struct {
	mu       sync.RWMutex
	config   *Config
	dir      string
	filePath string
}

// DefaultDir returns the per-user configuration directory
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// New creates a new config service rooted at dir. An empty dir selects DefaultDir.
func New(dir string) (*Service, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(dir, settingsFile)

	service := &Service{
		dir:      dir,
		filePath: configPath,
		config:   getDefaultConfig(),
	}

	// Load existing config if it exists, otherwise create a default config file
	if _, err := os.Stat(configPath); err == nil {
		if err := service.Load(); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		if err := service.Save(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	return service, nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Dir:          filepath.Join(os.TempDir(), BridgeDirName),
			Timeout:      5 * time.Second,
			PollInterval: 100 * time.Millisecond,
		},
		Coords: CoordsConfig{
			Address:      "127.0.0.1:61234",
			DialTimeout:  100 * time.Millisecond,
			WriteTimeout: 100 * time.Millisecond,
		},
		Gamepad: GamepadConfig{
			Enabled:       true,
			Backend:       "auto",
			PollInterval:  16 * time.Millisecond,
			AxisThreshold: 0.5,
			StickAxis:     0,
			DPadAxis:      6,
			Buttons: map[string]int{
				"A": 0,
				"B": 1,
			},
		},
		Window: WindowConfig{
			OpacityPercent: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills zero values left by a partial settings file
func applyDefaults(cfg *Config) {
	def := getDefaultConfig()

	if cfg.Bridge.Dir == "" {
		cfg.Bridge.Dir = def.Bridge.Dir
	}
	if cfg.Bridge.Timeout <= 0 {
		cfg.Bridge.Timeout = def.Bridge.Timeout
	}
	if cfg.Bridge.PollInterval <= 0 {
		cfg.Bridge.PollInterval = def.Bridge.PollInterval
	}
	if cfg.Coords.Address == "" {
		cfg.Coords.Address = def.Coords.Address
	}
	if cfg.Coords.DialTimeout <= 0 {
		cfg.Coords.DialTimeout = def.Coords.DialTimeout
	}
	if cfg.Coords.WriteTimeout <= 0 {
		cfg.Coords.WriteTimeout = def.Coords.WriteTimeout
	}
	if cfg.Gamepad.Backend == "" {
		cfg.Gamepad.Backend = def.Gamepad.Backend
	}
	if cfg.Gamepad.PollInterval <= 0 {
		cfg.Gamepad.PollInterval = def.Gamepad.PollInterval
	}
	if cfg.Gamepad.AxisThreshold <= 0 || cfg.Gamepad.AxisThreshold >= 1 {
		cfg.Gamepad.AxisThreshold = def.Gamepad.AxisThreshold
	}
	if len(cfg.Gamepad.Buttons) == 0 {
		cfg.Gamepad.Buttons = def.Gamepad.Buttons
	}
	if cfg.Window.OpacityPercent == 0 {
		cfg.Window.OpacityPercent = def.Window.OpacityPercent
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

// Get returns a copy of the current configuration
func (s *Service) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := *s.config
	cfg.Gamepad.Buttons = maps.Clone(s.config.Gamepad.Buttons)
	return cfg
}

// Set updates the configuration
func (s *Service) Set(config *Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
}

// Load loads configuration from file
func (s *Service) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	cfg := getDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.filePath, err)
	}
	applyDefaults(cfg)

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}

// Save saves configuration to file
func (s *Service) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.config)
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// Path returns the full path to the configuration file
func (s *Service) Path() string {
	return s.filePath
}

// Dir returns the configuration directory
func (s *Service) Dir() string {
	return s.dir
}

// PointsPath returns the location of in_game_points.json
func (s *Service) PointsPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config.PointsFile != "" {
		return s.config.PointsFile
	}
	return filepath.Join(s.dir, "in_game_points.json")
}

// GeometryPath returns the location of window_geometry.json
func (s *Service) GeometryPath() string {
	return filepath.Join(s.dir, "window_geometry.json")
}

// UpdateWindow updates window configuration
func (s *Service) UpdateWindow(window WindowConfig) error {
	s.mu.Lock()
	s.config.Window = window
	s.mu.Unlock()
	return s.Save()
}
