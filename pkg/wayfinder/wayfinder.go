// Package wayfinder sets up logging and builds a Router from a navigation
// config file.
//
// Most applications only need New:
//
//	r, err := wayfinder.New(wayfinder.Options{
//	    ConfigPath: "nav.toml",
//	    LogPath:    "/var/log/library/nav.log",
//	    Settings:   router.Settings{Container: host, Engine: host.Engine()},
//	})
//
// Screen factories and executors are registered on the returned router before
// Begin is called.
package wayfinder

import (
	"log/slog"
	"os"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/config"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/constants"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
)

// Options configures New. Empty fields fall back to the WAYFINDER_*
// environment variables.
type Options struct {
	ConfigPath string          // navigation config file (toml or yaml)
	Charset    string          // charset of the config file, utf-8 if empty
	LogPath    string          // full path for log file including filename
	LogLevel   string          // application log level (debug, info, warn, error)
	Settings   router.Settings // container, engine, logger and backdrop
}

// New configures logging and returns a router loaded from the config file,
// if one is set. The router has not begun yet.
func New(options Options) (*router.Router, error) {
	if path := firstNonEmpty(options.LogPath, os.Getenv(constants.LogPathEnvVar)); path != "" {
		internal.SetLogPath(path)
	}
	if level := firstNonEmpty(options.LogLevel, os.Getenv(constants.LogLevelEnvVar)); level != "" {
		internal.SetRawLogLevel(level)
	}

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}

	r := router.New(options.Settings)

	path := firstNonEmpty(options.ConfigPath, os.Getenv(constants.ConfigPathEnvVar))
	if path == "" {
		return r, nil
	}
	cfg, err := config.LoadFile(path, options.Charset)
	if err != nil {
		return nil, err
	}
	if err := r.Load(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// Close flushes and closes the log file.
func Close() {
	internal.CloseLogger()
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
