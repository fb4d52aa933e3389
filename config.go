package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultSchema = "attendance_summary"
	defaultPort   = "3000"
)

type Config struct {
	DBURL       string
	DBSchema    string
	WeightsPath string
	Port        string
	LogLevel    slog.Level
}

// loadConfig reads an optional .env file and then the process environment.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	cfg := Config{
		DBURL:       dbURLFromEnv(),
		DBSchema:    getEnv("ATTENDANCE_SUMMARY_DB_SCHEMA", defaultSchema),
		WeightsPath: getEnv("ATTENDANCE_SUMMARY_WEIGHTS", ""),
		Port:        getEnv("PORT", defaultPort),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
	return cfg, nil
}

func getEnv(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func dbURLFromEnv() string {
	if value := strings.TrimSpace(os.Getenv("ATTENDANCE_SUMMARY_DB_URL")); value != "" {
		return value
	}
	return strings.TrimSpace(os.Getenv("DATABASE_URL"))
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// weightTable returns the configured table, or the default one when no path
// is set. flagPath wins over the environment.
func (c Config) weightTable(flagPath string) (WeightTable, error) {
	path := strings.TrimSpace(flagPath)
	if path == "" {
		path = c.WeightsPath
	}
	if path == "" {
		return defaultWeightTable(), nil
	}
	return loadWeightTable(path)
}
