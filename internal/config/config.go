// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	DBPath          string
	DefaultCode     string
	AlarmWebhookURL string
	EventRetention  time.Duration
	LeftOpenAfter   time.Duration

	// Policy toggles for the transition-table cases the original user
	// stories left open.
	KeyCancelsSetting        bool
	LockAbortsEntry          bool
	PinChangeRestartsSetting bool
}

// HasAlarmWebhook returns true when an alarm webhook URL is configured. Used
// by the composition root to decide whether to create a webhook notifier.
func (c *Config) HasAlarmWebhook() bool {
	return c.AlarmWebhookURL != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. All variables are optional with defaults: SAFEHUB_LISTEN_ADDR
// (127.0.0.1:8080), SAFEHUB_DB_PATH (safehub.db), SAFEHUB_DEFAULT_CODE
// (123456, must be six decimal digits), SAFEHUB_ALARM_WEBHOOK_URL (empty
// disables alarms), SAFEHUB_EVENT_RETENTION (720h), SAFEHUB_LEFT_OPEN_AFTER
// (1h), and the boolean policy toggles SAFEHUB_KEY_CANCELS_SETTING,
// SAFEHUB_LOCK_ABORTS_ENTRY, SAFEHUB_PIN_CHANGE_RESTARTS_SETTING (all false).
//
// The default code is the factory combination every safe starts with after a
// restart; SafeHub deliberately never persists changed combinations.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SAFEHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "safehub.db"
	if v, ok := os.LookupEnv("SAFEHUB_DB_PATH"); ok {
		dbPath = v
	}

	defaultCode := "123456"
	if v, ok := os.LookupEnv("SAFEHUB_DEFAULT_CODE"); ok {
		defaultCode = v
	}
	if err := validateCode(defaultCode); err != nil {
		return nil, fmt.Errorf("SAFEHUB_DEFAULT_CODE: %w", err)
	}

	alarmURL := os.Getenv("SAFEHUB_ALARM_WEBHOOK_URL")

	eventRetention := 720 * time.Hour
	if v, ok := os.LookupEnv("SAFEHUB_EVENT_RETENTION"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SAFEHUB_EVENT_RETENTION has invalid duration %q: %w", v, err)
		}
		eventRetention = parsed
	}

	leftOpenAfter := time.Hour
	if v, ok := os.LookupEnv("SAFEHUB_LEFT_OPEN_AFTER"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SAFEHUB_LEFT_OPEN_AFTER has invalid duration %q: %w", v, err)
		}
		leftOpenAfter = parsed
	}

	keyCancelsSetting, err := boolEnv("SAFEHUB_KEY_CANCELS_SETTING")
	if err != nil {
		return nil, err
	}
	lockAbortsEntry, err := boolEnv("SAFEHUB_LOCK_ABORTS_ENTRY")
	if err != nil {
		return nil, err
	}
	pinChangeRestarts, err := boolEnv("SAFEHUB_PIN_CHANGE_RESTARTS_SETTING")
	if err != nil {
		return nil, err
	}

	return &Config{
		ListenAddr:               listenAddr,
		DBPath:                   dbPath,
		DefaultCode:              defaultCode,
		AlarmWebhookURL:          alarmURL,
		EventRetention:           eventRetention,
		LeftOpenAfter:            leftOpenAfter,
		KeyCancelsSetting:        keyCancelsSetting,
		LockAbortsEntry:          lockAbortsEntry,
		PinChangeRestartsSetting: pinChangeRestarts,
	}, nil
}

// validateCode checks that code is exactly six decimal digits.
func validateCode(code string) error {
	if len(code) != 6 {
		return fmt.Errorf("must be 6 digits, got %d characters", len(code))
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return fmt.Errorf("must contain only decimal digits")
		}
	}
	return nil
}

// boolEnv parses an optional boolean environment variable; unset means false.
func boolEnv(key string) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return parsed, nil
}
