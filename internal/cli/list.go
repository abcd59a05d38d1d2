package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List briefing items in order",
		Run:   runList,
	}

	cmd.Flags().Bool("keys-only", false, "Only output keys")

	RootCmd.AddCommand(cmd)
}

type listedItem struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

func runList(cmd *cobra.Command, args []string) {
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s := openSession(cmd)
	defer s.close()

	items := s.selection.Items()
	if keysOnly {
		for _, it := range items {
			fmt.Fprintln(cmd.OutOrStdout(), it.Key)
		}
		return
	}

	listed := make([]listedItem, 0, len(items))
	for i, it := range items {
		listed = append(listed, listedItem{
			Index: i,
			Key:   it.Key,
			Kind:  string(it.Kind),
			Icon:  it.Icon(),
			Label: it.Label(),
		})
	}

	if formatFlag == "text" {
		for _, it := range listed {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s %s  (%s)\n", it.Index, it.Icon, it.Label, it.Key)
		}
		return
	}
	printJSON(cmd, listed)
}
