package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/store"
)

func init() {
	briefingCmd := &cobra.Command{
		Use:   "briefing",
		Short: "Manage stored briefings",
	}

	saveCmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Store the current briefing under a name",
		Long:  "Store the current briefing under a name. Saving under an existing name overwrites it.",
		Args:  cobra.ExactArgs(1),
		Run:   runBriefingSave,
	}

	loadCmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Load a stored briefing into the current one",
		Long: "Merge a stored briefing into the current one. Items with the same key are " +
			"overwritten; new items are appended. A user briefing shadows a prepared one of the same name.",
		Args: cobra.ExactArgs(1),
		Run:  runBriefingLoad,
	}
	loadCmd.Flags().String("source", "", "Briefing source: user or prepared (default: user, then prepared)")
	loadCmd.Flags().Bool("replace", false, "Replace the current briefing instead of merging")

	rmCmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored briefing",
		Args:  cobra.ExactArgs(1),
		Run:   runBriefingRm,
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List stored briefings",
		Run:   runBriefingLs,
	}
	lsCmd.Flags().String("source", "", "Only list this source: user or prepared")

	briefingCmd.AddCommand(saveCmd, loadCmd, rmCmd, lsCmd)
	RootCmd.AddCommand(briefingCmd)
}

func runBriefingSave(cmd *cobra.Command, args []string) {
	s := openSession(cmd)
	defer s.close()

	b, err := s.store.PutBriefing(cmd.Context(), store.PutParams{
		Name:     args[0],
		Source:   store.SourceUser,
		Snapshot: s.selection.Serialize(),
	})
	if err != nil {
		exitErr("save briefing", err)
	}
	logger.Info().Str("name", b.Name).Int("items", b.Items).Msg("briefing stored")

	b.Snapshot = nil
	printJSON(cmd, b)
}

func runBriefingLoad(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")
	replace, _ := cmd.Flags().GetBool("replace")
	loadBriefing(cmd, args[0], source, replace)
}

func loadBriefing(cmd *cobra.Command, name, source string, replace bool) {
	s := openSession(cmd)
	defer s.close()

	b, err := s.store.GetBriefing(cmd.Context(), store.GetParams{Name: name, Source: source})
	if err != nil {
		exitErr("load briefing", err)
	}
	res := s.svc.Load(b.Snapshot, replace, b.Source+":"+b.Name)
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "name": b.Name, "source": b.Source, "result": res, "items": s.selection.Len()})
}

func runBriefingRm(cmd *cobra.Command, args []string) {
	st, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	if err := st.DeleteBriefing(cmd.Context(), store.RmParams{Name: args[0], Source: store.SourceUser}); err != nil {
		exitErr("rm briefing", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"name":%q}`+"\n", args[0])
}

func runBriefingLs(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")

	st, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	briefings, err := st.ListBriefings(cmd.Context(), store.ListParams{Source: source})
	if err != nil {
		exitErr("list briefings", err)
	}

	if formatFlag == "text" {
		for _, b := range briefings {
			fmt.Fprintf(cmd.OutOrStdout(), "%-9s %-30s %3d items  %s\n", b.Source, b.Name, b.Items, b.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return
	}
	printJSON(cmd, briefings)
}
