package supabase

import (
	"fmt"

	"clementus360/study-assistant/config"

	"github.com/supabase-community/supabase-go"
)

// NewClient builds the Supabase client for auth, storage and the users and
// user_activities tables.
func NewClient(settings config.Settings) (*supabase.Client, error) {
	if settings.SupabaseURL == "" || settings.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}

	client, err := supabase.NewClient(settings.SupabaseURL, settings.SupabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}
