package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the briefing",
		Run:   runClear,
	}

	RootCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	n := s.selection.Len()
	s.selection.RemoveAll()
	s.save(cmd)
	logger.Info().Int("removed", n).Msg("briefing cleared")

	printJSON(cmd, map[string]any{"ok": true, "removed": n})
}
