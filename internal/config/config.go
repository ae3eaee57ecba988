package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	BaseURL string

	// Chat polling and navbar badge refresh periods.
	ChatPollInterval  time.Duration
	BadgePollInterval time.Duration

	// DashboardRefreshInterval re-fetches the landing page while visible.
	DashboardRefreshInterval time.Duration

	// SearchDebounce delays list reloads while the user is still typing.
	SearchDebounce time.Duration

	PerPage int

	// TokenFile holds the persisted bearer token; PrefsFile the local
	// YAML preferences; DownloadDir receives exported CSV reports.
	TokenFile   string
	PrefsFile   string
	DownloadDir string

	LogFile string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() *Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	appDir := filepath.Join(configDir, "crm-console")

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	return &Config{
		BaseURL: getEnv("CRM_BASE_URL", "http://localhost:8080/api"),

		ChatPollInterval:  getDurationEnv("CRM_CHAT_POLL_INTERVAL", 5*time.Second),
		BadgePollInterval: getDurationEnv("CRM_BADGE_POLL_INTERVAL", 30*time.Second),

		DashboardRefreshInterval: getDurationEnv("CRM_DASHBOARD_REFRESH_INTERVAL", 30*time.Second),
		SearchDebounce:           getDurationEnv("CRM_SEARCH_DEBOUNCE", 300*time.Millisecond),

		PerPage: getIntEnv("CRM_PER_PAGE", 10),

		TokenFile:   getEnv("CRM_TOKEN_FILE", filepath.Join(appDir, "token")),
		PrefsFile:   getEnv("CRM_PREFS_FILE", filepath.Join(appDir, "prefs.yaml")),
		DownloadDir: getEnv("CRM_DOWNLOAD_DIR", filepath.Join(home, "Downloads")),

		LogFile: getEnv("CRM_LOG_FILE", filepath.Join(appDir, "crm-console.log")),
	}
}
