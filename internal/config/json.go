package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/opencrafts-io/keepup/internal/flagx"
	"github.com/opencrafts-io/keepup/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "5m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN        string         `json:"database_dsn"`
	VerisafeBaseURL    string         `json:"verisafe_base_url"`
	VerisafeAPISecret  string         `json:"verisafe_api_secret"`
	GoogleClientID     string         `json:"google_client_id"`
	GoogleClientSecret string         `json:"google_client_secret"`
	TaskListID         string         `json:"task_list_id"`
	CalendarID         string         `json:"calendar_id"`
	SyncInterval       timex.Duration `json:"sync_interval"`
	CalendarWindow     timex.Duration `json:"calendar_window"`
	PageSize           int64          `json:"page_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics: a config file that was asked for but cannot be used
// is a startup error.
//
// Only fields present in the file override the current values.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.VerisafeBaseURL != "" {
		config.VerisafeBaseURL = c.VerisafeBaseURL
	}
	if c.VerisafeAPISecret != "" {
		config.VerisafeAPISecret = c.VerisafeAPISecret
	}
	if c.GoogleClientID != "" {
		config.GoogleClientID = c.GoogleClientID
	}
	if c.GoogleClientSecret != "" {
		config.GoogleClientSecret = c.GoogleClientSecret
	}
	if c.TaskListID != "" {
		config.TaskListID = c.TaskListID
	}
	if c.CalendarID != "" {
		config.CalendarID = c.CalendarID
	}
	if c.SyncInterval.Duration != 0 {
		config.SyncInterval = time.Duration(c.SyncInterval.Duration)
	}
	if c.CalendarWindow.Duration != 0 {
		config.CalendarWindow = time.Duration(c.CalendarWindow.Duration)
	}
	if c.PageSize != 0 {
		config.PageSize = c.PageSize
	}
}
