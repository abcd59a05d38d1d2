package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Add files or directories",
		Long: "Add files and directories to the briefing. Directories are walked recursively; " +
			"dot entries are skipped, .thisismyignore replaces the inherited ignore rules and " +
			".gitignore extends them. Adding a path again refreshes its content in place.",
		Args: cobra.MinimumNArgs(1),
		Run:  runAdd,
	}

	cmd.Flags().Int("at", -1, "Insert new files at this position (default: append)")

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	at, _ := cmd.Flags().GetInt("at")

	s := openSession(cmd)
	defer s.close()

	res, err := s.svc.AddPaths(cmd.Context(), absPaths(args), at)
	if res.Added+res.Refreshed > 0 {
		s.save(cmd)
	}
	if err != nil && res.Added+res.Refreshed == 0 {
		exitErr("add", err)
	}

	printJSON(cmd, map[string]any{"ok": err == nil, "result": res, "items": s.selection.Len()})
}
