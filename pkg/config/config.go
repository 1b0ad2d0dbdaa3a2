// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for scene files that are neither JSON nor YAML
var ErrUnsupportedFormat = errors.New("unsupported config format")

// SceneConfig describes a world and the bodies it starts with
type SceneConfig struct {
	World      WorldConfig      `json:"world" yaml:"world"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Bodies     []BodyConfig     `json:"bodies" yaml:"bodies"`
}

// WorldConfig contains the boundary and gravity scale of the world
type WorldConfig struct {
	Width      float32 `json:"width" yaml:"width"`
	Height     float32 `json:"height" yaml:"height"`
	PxToMeters int     `json:"pxToMeters" yaml:"px_to_meters"`
}

// SimulationConfig controls how the simulation is driven
type SimulationConfig struct {
	TickRate       int     `json:"tickRate" yaml:"tick_rate"`
	MaxDelta       float32 `json:"maxDelta" yaml:"max_delta"`
	FixedDelta     float32 `json:"fixedDelta" yaml:"fixed_delta"`
	MaxFrames      int     `json:"maxFrames" yaml:"max_frames"`
	Renderer       string  `json:"renderer" yaml:"renderer"`
	TerminalWidth  int     `json:"terminalWidth" yaml:"terminal_width"`
	TerminalHeight int     `json:"terminalHeight" yaml:"terminal_height"`
}

// BodyConfig describes one body. Nil material fields keep the world defaults.
type BodyConfig struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	X           float32     `json:"x" yaml:"x"`
	Y           float32     `json:"y" yaml:"y"`
	VX          float32     `json:"vx,omitempty" yaml:"vx,omitempty"`
	VY          float32     `json:"vy,omitempty" yaml:"vy,omitempty"`
	Static      bool        `json:"static,omitempty" yaml:"static,omitempty"`
	Shape       ShapeConfig `json:"shape" yaml:"shape"`
	Mass        *float32    `json:"mass,omitempty" yaml:"mass,omitempty"`
	Friction    *float32    `json:"friction,omitempty" yaml:"friction,omitempty"`
	Restitution *float32    `json:"restitution,omitempty" yaml:"restitution,omitempty"`
}

// ShapeConfig describes a body's shape relative to the body position.
// Type is one of "circle", "rectangle" or "none".
type ShapeConfig struct {
	Type    string  `json:"type" yaml:"type"`
	Radius  float32 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width   float32 `json:"width,omitempty" yaml:"width,omitempty"`
	Height  float32 `json:"height,omitempty" yaml:"height,omitempty"`
	OffsetX float32 `json:"offsetX,omitempty" yaml:"offset_x,omitempty"`
	OffsetY float32 `json:"offsetY,omitempty" yaml:"offset_y,omitempty"`
}

// Shape type names
const (
	ShapeTypeCircle    = "circle"
	ShapeTypeRectangle = "rectangle"
	ShapeTypeNone      = "none"
)

// Renderer names
const (
	RendererNull     = "null"
	RendererTerminal = "terminal"
)

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsSceneFile reports whether path has a scene file extension
func IsSceneFile(path string) bool {
	_, err := formatFor(path)
	return err == nil
}

// LoadConfig loads a scene from a JSON or YAML file. Sections missing from
// the file keep their default values.
func LoadConfig(path string) (*SceneConfig, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data, f == formatYAML)
}

// Parse decodes scene data over the defaults
func Parse(data []byte, isYAML bool) (*SceneConfig, error) {
	config := DefaultConfig()
	config.Bodies = nil

	var err error
	if isYAML {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a scene to a JSON or YAML file, picked by extension
func SaveConfig(config *SceneConfig, path string) error {
	if config == nil {
		return errors.New("failed to marshal config: nil config")
	}
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	if f == formatYAML {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default scene: a few falling circles over a
// static floor.
func DefaultConfig() *SceneConfig {
	return &SceneConfig{
		World:      defaultWorld(),
		Simulation: defaultSimulation(),
		Bodies:     GetSceneTemplate("falling").Bodies,
	}
}

func defaultWorld() WorldConfig {
	return WorldConfig{
		Width:      800,
		Height:     600,
		PxToMeters: 50,
	}
}

func defaultSimulation() SimulationConfig {
	return SimulationConfig{
		TickRate:       60,
		MaxDelta:       0.1,
		Renderer:       RendererNull,
		TerminalWidth:  80,
		TerminalHeight: 24,
	}
}
