package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Elder
		Alerts
		Audit
		MissedDoses
		Inactivity
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
		// DestructiveFallback drops and recreates the data tables when the
		// stored schema identity does not match.
		DestructiveFallback bool
		LogSQL              bool
	}
	// Elder seeds the profile settings on first start.
	Elder struct {
		Name string
		Age  int
	}
	Alerts struct {
		DedupWindow   time.Duration
		RetentionDays int // Days to keep resolved alerts (default: 90)
	}
	Audit struct {
		RetentionDays int // Days to keep audit events (default: 30)
	}
	MissedDoses struct {
		Enabled  bool
		Schedule string // Cron format: "*/5 * * * *" = every five minutes
		Grace    time.Duration
	}
	Inactivity struct {
		Enabled   bool
		Schedule  string
		Threshold time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_destructive_fallback", true)
	v.SetDefault("database_log_sql", false)

	v.SetDefault("elder_name", "")
	v.SetDefault("elder_age", 0)

	v.SetDefault("alert_dedup_window", "60m")
	v.SetDefault("alert_retention_days", 90)
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("missed_dose_check_enabled", true)
	v.SetDefault("missed_dose_schedule", "*/5 * * * *")
	v.SetDefault("missed_dose_grace", "30m")

	v.SetDefault("inactivity_check_enabled", true)
	v.SetDefault("inactivity_schedule", "0 * * * *")
	v.SetDefault("inactivity_threshold", "12h")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:                v.GetString("DATABASE_PATH"),
			DestructiveFallback: v.GetBool("DATABASE_DESTRUCTIVE_FALLBACK"),
			LogSQL:              v.GetBool("DATABASE_LOG_SQL"),
		},
		Elder: Elder{
			Name: v.GetString("ELDER_NAME"),
			Age:  v.GetInt("ELDER_AGE"),
		},
		Alerts: Alerts{
			DedupWindow:   v.GetDuration("ALERT_DEDUP_WINDOW"),
			RetentionDays: v.GetInt("ALERT_RETENTION_DAYS"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		MissedDoses: MissedDoses{
			Enabled:  v.GetBool("MISSED_DOSE_CHECK_ENABLED"),
			Schedule: v.GetString("MISSED_DOSE_SCHEDULE"),
			Grace:    v.GetDuration("MISSED_DOSE_GRACE"),
		},
		Inactivity: Inactivity{
			Enabled:   v.GetBool("INACTIVITY_CHECK_ENABLED"),
			Schedule:  v.GetString("INACTIVITY_SCHEDULE"),
			Threshold: v.GetDuration("INACTIVITY_THRESHOLD"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
