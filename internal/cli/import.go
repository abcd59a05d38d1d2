package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a briefing from JSON",
		Long: "Import a briefing exported by export (file or stdin). The import replaces the " +
			"current briefing unless --merge is given. Malformed entries are skipped and counted.",
		Args: cobra.MaximumNArgs(1),
		Run:  runImport,
	}

	cmd.Flags().Bool("merge", false, "Merge into the current briefing instead of replacing it")

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	merge, _ := cmd.Flags().GetBool("merge")

	var r io.Reader = cmd.InOrStdin()
	origin := "stdin"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitErr("open", err)
		}
		defer f.Close()
		r, origin = f, args[0]
	}

	snap, err := model.DecodeSnapshot(r)
	if err != nil {
		exitErr("parse briefing", err)
	}

	s := openSession(cmd)
	defer s.close()

	res := s.svc.Load(snap, !merge, origin)
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "result": res, "items": s.selection.Len()})
}
