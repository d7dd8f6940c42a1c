package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Storage
		Commands
		Geolocation
		Settings
		Audit
		Global
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Storage struct {
		ConfigFile   string // Persisted configuration document
		DatabasePath string
		ExportDir    string // Empty means the settings store decides (~/Downloads)
	}
	Commands struct {
		RedshiftBinary string
		NotifyBinary   string
		Timeout        time.Duration
	}
	Geolocation struct {
		URL     string
		Timeout time.Duration
	}
	Settings struct {
		PollInterval time.Duration // How often the settings backend is checked for outside edits
	}
	Audit struct {
		Dir             string
		RetentionDays   int    // Days to keep audit events (default: 30)
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// homePath joins rel onto the user's home directory, or the working
// directory when the home directory is unknown.
func homePath(rel string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", filepath.Base(rel))
	}
	return filepath.Join(home, rel)
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("config_file", homePath(DefaultConfigFile))
	v.SetDefault("database_path", homePath(DefaultDatabasePath))
	v.SetDefault("export_dir", "")

	v.SetDefault("redshift_binary", "redshift")
	v.SetDefault("notify_binary", "notify-send")
	v.SetDefault("command_timeout", "10s")

	v.SetDefault("geoip_url", "https://geoip.fedoraproject.org/city")
	v.SetDefault("geoip_timeout", "10s")

	v.SetDefault("settings_poll_interval", "2s")

	v.SetDefault("audit_dir", homePath(DefaultAuditDir))
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("audit_cleanup_schedule", "0 3 * * *") // Daily at 03:00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Storage: Storage{
			ConfigFile:   v.GetString("CONFIG_FILE"),
			DatabasePath: v.GetString("DATABASE_PATH"),
			ExportDir:    v.GetString("EXPORT_DIR"),
		},
		Commands: Commands{
			RedshiftBinary: v.GetString("REDSHIFT_BINARY"),
			NotifyBinary:   v.GetString("NOTIFY_BINARY"),
			Timeout:        v.GetDuration("COMMAND_TIMEOUT"),
		},
		Geolocation: Geolocation{
			URL:     v.GetString("GEOIP_URL"),
			Timeout: v.GetDuration("GEOIP_TIMEOUT"),
		},
		Settings: Settings{
			PollInterval: v.GetDuration("SETTINGS_POLL_INTERVAL"),
		},
		Audit: Audit{
			Dir:             v.GetString("AUDIT_DIR"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
