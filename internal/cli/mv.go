package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "mv <key> <target-key>",
		Short: "Move an item to the position of another",
		Long: "Move an item to the position currently held by the target item. " +
			"Moving onto the next item swaps the two; moving it back restores the order.",
		Args: cobra.ExactArgs(2),
		Run:  runMv,
	}

	RootCmd.AddCommand(cmd)
}

func runMv(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	if !s.selection.Reorder(args[0], args[1]) {
		exitErr("mv", fmt.Errorf("cannot move %q to %q: both keys must exist and differ", args[0], args[1]))
	}
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "order": s.selection.Keys()})
}
