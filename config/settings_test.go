package config

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000/")
	t.Setenv("SUPABASE_STORAGE_BUCKET", "")
	t.Setenv("STATE_FILE", "/tmp/state.yaml")
	t.Setenv("HISTORY_LIMIT", "")
	t.Setenv("CHAT_RESET_ON_NEW_DOCUMENT", "")

	s := Load()
	assert.Equal(t, "http://localhost:8000", s.APIBaseURL)
	assert.Equal(t, "documents", s.StorageBucket)
	assert.Equal(t, "/tmp/state.yaml", s.StateFile)
	assert.Equal(t, DefaultHistoryLimit, s.HistoryLimit)
	assert.False(t, s.ChatResetOnNewDocument)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SUPABASE_STORAGE_BUCKET", "uploads")
	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("CHAT_RESET_ON_NEW_DOCUMENT", "true")

	s := Load()
	assert.Equal(t, "uploads", s.StorageBucket)
	assert.Equal(t, 5, s.HistoryLimit)
	assert.True(t, s.ChatResetOnNewDocument)
}

func TestLoadInvalidHistoryLimit(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "lots")
	assert.Equal(t, DefaultHistoryLimit, Load().HistoryLimit)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("info"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(""))
}
