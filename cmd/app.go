package cmd

import (
	"context"
	"fmt"

	"clementus360/study-assistant/apiclient"
	"clementus360/study-assistant/config"
	"clementus360/study-assistant/dashboard"
	"clementus360/study-assistant/prefs"
	"clementus360/study-assistant/session"
	"clementus360/study-assistant/supabase"
	"clementus360/study-assistant/types"
	"clementus360/study-assistant/upload"
)

// app holds the collaborators a command needs.
type app struct {
	kv      prefs.KV
	auth    session.AuthProvider
	api     dashboard.API
	storage upload.Storage

	// track mirrors history entries remotely; nil disables mirroring
	track func(types.HistoryEntry)
	flush func()

	// recent lists the signed-in user's mirrored activity
	recent func(userID string, limit int) ([]types.UserActivity, error)

	store *session.Store
}

var openState = func(s config.Settings) prefs.KV {
	return prefs.NewFileStore(s.StateFile)
}

var buildApp = func(ctx context.Context, s config.Settings) (*app, error) {
	kv := openState(s)

	client, err := supabase.NewClient(s)
	if err != nil {
		return nil, err
	}

	auth := supabase.NewAuth(client, kv)
	a := &app{
		kv:      kv,
		auth:    auth,
		storage: supabase.NewStorage(client, s.StorageBucket),
	}
	a.api = apiclient.New(s.APIBaseURL, apiclient.WithAccessToken(a.accessToken))

	tracker := supabase.NewActivityTracker(client, a.currentUserID)
	a.track = tracker.Track
	a.flush = tracker.Wait
	a.recent = func(userID string, limit int) ([]types.UserActivity, error) {
		return supabase.GetUserActivities(client, userID, limit)
	}
	return a, nil
}

func (a *app) sessionStore(ctx context.Context) (*session.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := session.NewStore(ctx, a.auth)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) accessToken() string {
	if a.store == nil {
		return ""
	}
	if current := a.store.Current(); current != nil {
		return current.AccessToken
	}
	return ""
}

func (a *app) currentUserID() string {
	if a.store == nil {
		return ""
	}
	if current := a.store.Current(); current != nil {
		return current.UserID
	}
	return ""
}

func (a *app) close() {
	if a.flush != nil {
		a.flush()
	}
	if a.store != nil {
		a.store.Close()
	}
}
