// Package constants defines shared constants and configuration values
// used throughout the wayfinder navigation engine.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variable names read by the wayfinder façade.
const (
	LogLevelEnvVar   = "WAYFINDER_LOG_LEVEL" // debug, info, warn, error
	LogPathEnvVar    = "WAYFINDER_LOG_PATH"  // full log file path
	ConfigPathEnvVar = "WAYFINDER_CONFIG"    // navigation config file (toml or yaml)
	BackDeviceEnvVar = "WAYFINDER_BACK_DEVICE"

	WindowWidthEnvVar    = "WINDOW_WIDTH"  // dev mode window size
	WindowHeightEnvVar   = "WINDOW_HEIGHT" // dev mode window size
	BackgroundPathEnvVar = "BACKGROUND_PATH"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv("ENVIRONMENT") == Development
}

// DefaultExecutor is the executor name used by destinations that do not name one.
const DefaultExecutor = "default"

// NoAnimation is the descriptor name of the built-in no-op animation.
const NoAnimation = "none"

// Default timing constants.
const (
	DefaultFrameInterval = 16 * time.Millisecond // ~60fps frame pacing when VSync is unavailable
	DefaultAnimationTime = 250 * time.Millisecond
	DefaultTemplateCache = 5 // textures kept by the SDL template loader
)
