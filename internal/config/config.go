package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Dataset
		Auth
		Tasks
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Dataset struct {
		Path string // Path to the static projects JSON file
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Auth struct {
		SessionDurationDays int
		PasswordMinLength   int
		SecureCookies       bool // Set to false for local dev without HTTPS

		// Expired-session sweeper
		SweepEnabled  bool
		SweepSchedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8480)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("dataset_path", DefaultDatasetPath)

	// Auth defaults
	v.SetDefault("auth_session_duration_days", 7)
	v.SetDefault("password_min_length", 8)
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_sweep_enabled", true)
	v.SetDefault("auth_sweep_schedule", "0 * * * *") // Hourly at :00

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Dataset: Dataset{
			Path: v.GetString("DATASET_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Auth: Auth{
			SessionDurationDays: v.GetInt("AUTH_SESSION_DURATION_DAYS"),
			PasswordMinLength:   v.GetInt("PASSWORD_MIN_LENGTH"),
			SecureCookies:       v.GetBool("AUTH_SECURE_COOKIES"),
			SweepEnabled:        v.GetBool("AUTH_SWEEP_ENABLED"),
			SweepSchedule:       v.GetString("AUTH_SWEEP_SCHEDULE"),
		},
	}
}

// SessionDuration returns the configured session lifetime as a duration.
func (a Auth) SessionDuration() time.Duration {
	return time.Duration(a.SessionDurationDays) * 24 * time.Hour
}
