package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/selection"
	"github.com/rcliao/thisismy/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show briefing and database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	dbStats, err := s.store.Stats(cmd.Context(), cfg.DB.Path)
	if err != nil {
		exitErr("stats", err)
	}

	printJSON(cmd, struct {
		Briefing selection.Stats `json:"briefing"`
		Database *store.Stats    `json:"database"`
	}{s.selection.Stats(), dbStats})
}
