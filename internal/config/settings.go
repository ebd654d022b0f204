package config

import (
	"os"
	"strings"

	"mfek/internal/logging"
	"mfek/internal/version"
)

const (
	EnvLogLevel       = "MFEK_LOG"
	EnvSuppressHeader = "MFEK_SUPPRESS_HEADER"
	EnvCodename       = "MFEK_REL_CODENAME"
)

// Settings are the process-wide switches read from the environment.
type Settings struct {
	LogLevel logging.Level
	// SuppressHeader is set by the mere presence of MFEK_SUPPRESS_HEADER,
	// whatever its value.
	SuppressHeader bool
	Codename       string
}

func FromEnv() Settings {
	settings := Settings{
		LogLevel: logging.LevelInfo,
		Codename: strings.TrimSpace(version.Codename),
	}
	if level, ok := logging.ParseLevel(os.Getenv(EnvLogLevel)); ok {
		settings.LogLevel = level
	}
	_, settings.SuppressHeader = os.LookupEnv(EnvSuppressHeader)
	if codename := strings.TrimSpace(os.Getenv(EnvCodename)); codename != "" {
		settings.Codename = codename
	}
	return settings
}
