package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds every runtime setting. Values come from the environment,
// optionally seeded from a .env file by the caller.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Log     LogConfig
	Archive ArchiveConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr                string
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
}

// AIConfig holds the hosted model settings. APIKey is the single required
// credential; everything else has a working default.
type AIConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level    string
	Encoding string
}

// ArchiveConfig holds the saved-stories database settings.
type ArchiveConfig struct {
	Path string
}

// ErrMissingAPIKey blocks startup: without the credential the application
// cannot function at all.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Addr:                getEnvStr("SERVER_ADDR", "0.0.0.0:9779"),
			ReadTimeoutSeconds:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeoutSeconds: getEnvInt("SERVER_WRITE_TIMEOUT", 120),
		},
		AI: AIConfig{
			APIKey:     getEnvStr("GEMINI_API_KEY", ""),
			TextModel:  getEnvStr("TEXT_MODEL", "gemini-2.5-flash"),
			ImageModel: getEnvStr("IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation"),
		},
		Log: LogConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			Encoding: getEnvStr("LOG_ENCODING", "console"),
		},
		Archive: ArchiveConfig{
			Path: getEnvStr("ARCHIVE_PATH", "dreamstream.db"),
		},
	}

	if cfg.AI.APIKey == "" {
		return Config{}, ErrMissingAPIKey
	}
	return cfg, nil
}

func getEnvStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
