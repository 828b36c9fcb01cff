package cmd

import (
	"fmt"

	"clementus360/study-assistant/history"
	"clementus360/study-assistant/types"

	"github.com/spf13/cobra"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show your recent activity across devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), settings)
		if err != nil {
			return err
		}
		defer a.close()

		store, err := a.sessionStore(cmd.Context())
		if err != nil {
			return err
		}
		current := store.Current()
		if current == nil {
			return types.NewValidationError("Not signed in. Run: study-assistant login --email <email>")
		}
		if a.recent == nil {
			return fmt.Errorf("activity history is not available")
		}

		activities, err := a.recent(current.UserID, activityLimit)
		if err != nil {
			return err
		}

		entries := make([]types.HistoryEntry, 0, len(activities))
		for _, act := range activities {
			entries = append(entries, types.HistoryEntry{
				ID:        act.ID,
				Title:     act.Content,
				Timestamp: act.CreatedAt.Local().Format(history.TimestampLayout),
				CreatedAt: act.CreatedAt,
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), palette(a.kv).History(entries))
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(activityCmd)
}
