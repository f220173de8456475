package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	ListenAddr string

	NotionAPIKey         string
	NotionBaseURL        string
	NotionTimeout        time.Duration
	UsersDatabaseID      string
	EventsDatabaseID     string
	LocationsDatabaseID  string
	AttendanceDatabaseID string
	NewsDatabaseID       string

	SharedPassword string

	LogLevel       string
	LogFormat      string
	LogFile        string
	MetricsEnabled bool
}

// Load reads configuration from the environment. Every missing required
// variable is reported in one error so a broken deployment surfaces the full
// list at once rather than one variable per restart.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		NotionBaseURL:  getEnv("NOTION_BASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		LogFile:        getEnv("LOG_FILE", ""),
		MetricsEnabled: os.Getenv("METRICS_ENABLED") == "1",
	}

	var missing []string
	required := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	cfg.NotionAPIKey = required("NOTION_API_KEY")
	cfg.UsersDatabaseID = required("NOTION_USERS_DATABASE_ID")
	cfg.EventsDatabaseID = required("NOTION_EVENTS_DATABASE_ID")
	cfg.LocationsDatabaseID = required("NOTION_LOCATIONS_DATABASE_ID")
	cfg.AttendanceDatabaseID = required("NOTION_ATTENDANCE_DATABASE_ID")
	cfg.NewsDatabaseID = required("NOTION_NEWS_DATABASE_ID")
	cfg.SharedPassword = required("CLUB_SHARED_PASSWORD")

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if raw := os.Getenv("NOTION_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTION_TIMEOUT %q: %w", raw, err)
		}
		cfg.NotionTimeout = d
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
