package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/prepared"
	"github.com/rcliao/thisismy/internal/store"
)

func init() {
	preparedCmd := &cobra.Command{
		Use:   "prepared",
		Short: "Shared prepared briefings",
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch the prepared briefings",
		Long: "Fetch the manifest at prepared.base_url and every briefing it names. The stored " +
			"prepared set is replaced; briefings no longer listed are removed. A briefing that " +
			"fails to fetch is reported and left out.",
		Run: runPreparedSync,
	}

	loadCmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Merge a prepared briefing into the current one",
		Args:  cobra.ExactArgs(1),
		Run:   runPreparedLoad,
	}

	preparedCmd.AddCommand(syncCmd, loadCmd)
	RootCmd.AddCommand(preparedCmd)
}

func runPreparedSync(cmd *cobra.Command, args []string) {
	client := prepared.NewClient(cfg.Prepared.BaseURL, cfg.Fetch.Timeout)
	snaps, errs, err := client.Fetch(cmd.Context())
	if err != nil {
		exitErr("fetch prepared briefings", err)
	}
	for _, e := range errs {
		logger.Warn().Err(e).Msg("prepared briefing not fetched")
	}

	st, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer st.Close()

	res, err := st.SyncPrepared(cmd.Context(), snaps)
	if err != nil {
		exitErr("store prepared briefings", err)
	}
	for _, name := range res.Removed {
		logger.Info().Str("name", name).Msg("outdated prepared briefing removed")
	}

	printJSON(cmd, map[string]any{"ok": len(errs) == 0, "stored": res.Stored, "removed": res.Removed, "failed": len(errs)})
}

func runPreparedLoad(cmd *cobra.Command, args []string) {
	loadBriefing(cmd, args[0], store.SourcePrepared, false)
}
