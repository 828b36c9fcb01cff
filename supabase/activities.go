package supabase

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/types"

	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

// TrackUserActivity inserts one row into user_activities.
func TrackUserActivity(client *supabase.Client, userID, activityType, content string, metadata map[string]interface{}) error {
	metadataJSON, _ := json.Marshal(metadata)

	activity := types.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		Content:      content,
		Metadata:     string(metadataJSON),
		CreatedAt:    time.Now(),
	}

	_, _, err := client.From("user_activities").Insert(activity, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to track user activity: %w", err)
	}

	return nil
}

// GetUserActivities returns the user's most recent activities, newest first.
func GetUserActivities(client *supabase.Client, userID string, limit int) ([]types.UserActivity, error) {
	resp, _, err := client.From("user_activities").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to fetch user activities: %w", err)
	}

	var activities []types.UserActivity
	if err := json.Unmarshal(resp, &activities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}

	return activities, nil
}

// ActivityType maps a history title to the activity_type column.
func ActivityType(title string) string {
	switch {
	case strings.HasPrefix(title, "Doc Q&A:"):
		return config.ActivityTypeDocumentChat
	case strings.HasPrefix(title, "Code analysis"):
		return config.ActivityTypeCodeAnalysis
	case strings.HasPrefix(title, "YouTube:"):
		return config.ActivityTypeVideo
	case strings.HasPrefix(title, "Quiz:"):
		return config.ActivityTypeQuiz
	}
	return config.ActivityTypeOther
}

// ActivityTracker mirrors history entries into user_activities for the
// signed-in user. Inserts run in the background and failures are only logged.
type ActivityTracker struct {
	client *supabase.Client
	userID func() string
	log    logrus.FieldLogger

	wg sync.WaitGroup
}

func NewActivityTracker(client *supabase.Client, userID func() string) *ActivityTracker {
	return &ActivityTracker{client: client, userID: userID, log: config.Logger}
}

// Track is a history.Log listener.
func (t *ActivityTracker) Track(entry types.HistoryEntry) {
	userID := t.userID()
	if userID == "" {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		metadata := map[string]interface{}{
			"history_id": entry.ID,
			"timestamp":  entry.Timestamp,
		}
		if err := TrackUserActivity(t.client, userID, ActivityType(entry.Title), entry.Title, metadata); err != nil {
			t.log.WithFields(logrus.Fields{
				"user_id":  userID,
				"activity": entry.Title,
			}).WithError(err).Warn("Failed to mirror activity")
		}
	}()
}

// Wait blocks until pending inserts have finished.
func (t *ActivityTracker) Wait() {
	t.wg.Wait()
}
