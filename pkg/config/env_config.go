// pkg/config/env_config.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variables that override scene settings
const (
	EnvWorldWidth  = "RIGID2D_WORLD_WIDTH"
	EnvWorldHeight = "RIGID2D_WORLD_HEIGHT"
	EnvPxToMeters  = "RIGID2D_PX_TO_METERS"
	EnvTickRate    = "RIGID2D_TICK_RATE"
	EnvMaxDelta    = "RIGID2D_MAX_DELTA"
	EnvRenderer    = "RIGID2D_RENDERER"
)

// ApplyEnvironmentOverrides replaces scene settings with any values set in
// the environment. A variable that is set but cannot be parsed is an error.
func ApplyEnvironmentOverrides(config *SceneConfig) error {
	var err error

	if config.World.Width, err = envFloat32(EnvWorldWidth, config.World.Width); err != nil {
		return err
	}
	if config.World.Height, err = envFloat32(EnvWorldHeight, config.World.Height); err != nil {
		return err
	}
	if config.World.PxToMeters, err = envInt(EnvPxToMeters, config.World.PxToMeters); err != nil {
		return err
	}
	if config.Simulation.TickRate, err = envInt(EnvTickRate, config.Simulation.TickRate); err != nil {
		return err
	}
	if config.Simulation.MaxDelta, err = envFloat32(EnvMaxDelta, config.Simulation.MaxDelta); err != nil {
		return err
	}
	config.Simulation.Renderer = getEnvOrDefault(EnvRenderer, config.Simulation.Renderer)

	return nil
}

func envInt(key string, current int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return current, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return current, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func envFloat32(key string, current float32) (float32, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return current, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return current, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return float32(f), nil
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

