package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StartURL    string
	ChromeBin   string
	Headless    bool
	UserDataDir string

	ListingPattern string
	BadgeID        string
	DockTargets    []string

	NavInterval    time.Duration
	ScrapeInterval time.Duration
	ScrapeAttempts int
	DockInterval   time.Duration
	DockAttempts   int
	ActionTimeout  time.Duration

	Debug bool
}

// DefaultDockTargets are the sidebar containers the badge moves into once rendered.
var DefaultDockTargets = []string{
	`[data-testid="home-details-summary-container"]`,
	`[data-testid="sidebar-container"]`,
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StartURL:    getEnv("START_URL", "https://www.zillow.com/"),
		ChromeBin:   getEnv("CHROME_BIN", ""),
		Headless:    getEnvBool("HEADLESS", false),
		UserDataDir: getEnv("USER_DATA_DIR", ""),

		ListingPattern: getEnv("LISTING_PATTERN", `\d+_zpid`),
		BadgeID:        getEnv("BADGE_ID", "zsr-widget"),
		DockTargets:    getEnvList("DOCK_TARGETS", DefaultDockTargets),

		NavInterval:    getEnvMillis("NAV_INTERVAL_MS", 400),
		ScrapeInterval: getEnvMillis("SCRAPE_INTERVAL_MS", 300),
		ScrapeAttempts: getEnvInt("SCRAPE_ATTEMPTS", 10),
		DockInterval:   getEnvMillis("DOCK_INTERVAL_MS", 250),
		DockAttempts:   getEnvInt("DOCK_ATTEMPTS", 3),
		ActionTimeout:  getEnvMillis("ACTION_TIMEOUT_MS", 5000),

		Debug: getEnvBool("DEBUG", true),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvMillis(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Millisecond
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma separated value. Selectors containing commas
// are not supported here; use one selector per entry.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}

	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
