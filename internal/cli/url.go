package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "url <url>...",
		Short: "Fetch and add web pages",
		Long:  "Fetch each URL and add its text. A URL that fails to fetch is reported and not added.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runURL,
	}

	RootCmd.AddCommand(cmd)
}

func runURL(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	added, failed := 0, 0
	for _, u := range args {
		if _, err := s.svc.AddURL(cmd.Context(), u); err != nil {
			failed++
			continue
		}
		added++
	}
	if added > 0 {
		s.save(cmd)
	}

	printJSON(cmd, map[string]any{"ok": failed == 0, "added": added, "failed": failed})
	if added == 0 {
		exitErr("url", errNothingAdded)
	}
}
