package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <key>...",
		Short: "Remove items from the briefing",
		Long:  "Remove items by key, as shown by list. Unknown keys are ignored.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	var removed []string
	for _, key := range args {
		if s.selection.Remove(key) {
			removed = append(removed, key)
		}
	}
	if len(removed) > 0 {
		s.save(cmd)
		logger.Info().Strs("keys", removed).Msg("items removed")
	}

	printJSON(cmd, map[string]any{"ok": true, "removed": len(removed), "items": s.selection.Len()})
}
