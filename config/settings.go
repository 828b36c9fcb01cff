package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Settings struct {
	APIBaseURL string

	SupabaseURL   string
	SupabaseKey   string
	StorageBucket string

	StateFile              string
	HistoryLimit           int
	ChatResetOnNewDocument bool
	LogLevel               string
}

func Load() Settings {
	bucket := os.Getenv("SUPABASE_STORAGE_BUCKET")
	if bucket == "" {
		bucket = "documents"
	}

	stateFile := os.Getenv("STATE_FILE")
	if stateFile == "" {
		stateFile = defaultStateFile()
	}

	historyLimit := DefaultHistoryLimit
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			historyLimit = n
		} else {
			Logger.Warn("Ignoring invalid HISTORY_LIMIT:", v)
		}
	}

	resetOnNew := false
	if v := os.Getenv("CHAT_RESET_ON_NEW_DOCUMENT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			resetOnNew = b
		}
	}

	return Settings{
		APIBaseURL: strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),

		SupabaseURL:   os.Getenv("SUPABASE_URL"),
		SupabaseKey:   os.Getenv("SUPABASE_KEY"),
		StorageBucket: bucket,

		StateFile:              stateFile,
		HistoryLimit:           historyLimit,
		ChatResetOnNewDocument: resetOnNew,
		LogLevel:               os.Getenv("LOG_LEVEL"),
	}
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".study-assistant.yaml"
	}
	return filepath.Join(home, ".study-assistant", "state.yaml")
}
