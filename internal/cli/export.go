package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the briefing as JSON",
		Long:  "Export the current briefing in the briefing JSON format, to stdout or a file.",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("output")

	s := openSession(cmd)
	defer s.close()
	snap := s.selection.Serialize()

	if out == "" {
		if err := model.EncodeSnapshot(cmd.OutOrStdout(), snap); err != nil {
			exitErr("export", err)
		}
		return
	}

	f, err := os.Create(out)
	if err != nil {
		exitErr("export", err)
	}
	if err := model.EncodeSnapshot(f, snap); err != nil {
		f.Close()
		exitErr("export", err)
	}
	if err := f.Close(); err != nil {
		exitErr("export", err)
	}
	logger.Info().Str("file", out).Int("items", len(snap.SelectionOrder)).Msg("briefing exported")
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"file":%q,"items":%d}`+"\n", out, len(snap.SelectionOrder))
}
