package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/chunker"
	"github.com/rcliao/thisismy/internal/content"
	"github.com/rcliao/thisismy/internal/selection"
)

func init() {
	cmd := &cobra.Command{
		Use:   "output",
		Short: "Print the rendered briefing",
		Long: "Print the briefing: every item's content in order. --collapse folds whitespace runs " +
			"into single spaces; --split cuts the text into parts for chat inputs with a length limit.",
		Run: runOutput,
	}

	cmd.Flags().Bool("collapse", false, "Collapse whitespace (default: output.collapse_whitespace)")
	cmd.Flags().Int("split", 0, "Split into parts of at most N characters (default: output.split_chars)")
	cmd.Flags().Int("part", 0, "With --split, print or copy only this part (1-based)")
	cmd.Flags().Bool("copy", false, "Copy to the clipboard instead of printing")

	RootCmd.AddCommand(cmd)
}

func runOutput(cmd *cobra.Command, args []string) {
	collapse := cfg.Output.CollapseWhitespace
	if cmd.Flags().Changed("collapse") {
		collapse, _ = cmd.Flags().GetBool("collapse")
	}
	split := cfg.Output.SplitChars
	if cmd.Flags().Changed("split") {
		split, _ = cmd.Flags().GetInt("split")
	}
	part, _ := cmd.Flags().GetInt("part")
	copyOut, _ := cmd.Flags().GetBool("copy")

	s := openSession(cmd)
	defer s.close()

	text := s.selection.Render(selection.RenderOptions{CollapseWhitespace: collapse})
	logger.Info().Int("items", s.selection.Len()).Int("chars", len(text)).
		Int("tokens", selection.EstimateTokens(text)).Msg("briefing rendered")

	if split > 0 {
		parts := chunker.Split(text, chunker.Options{MaxChars: split})
		if part > 0 {
			if part > len(parts) {
				exitErr("output", fmt.Errorf("part %d out of range, briefing has %d parts", part, len(parts)))
			}
			text = parts[part-1].Text
		} else if !copyOut {
			for _, p := range parts {
				fmt.Fprintf(cmd.OutOrStdout(), "--- part %d/%d (lines %d-%d) ---\n%s\n", p.Index, len(parts), p.StartLine, p.EndLine, p.Text)
			}
			return
		}
	}

	if copyOut {
		if err := content.WriteClipboard(text); err != nil {
			exitErr("copy", err)
		}
		printJSON(cmd, map[string]any{"ok": true, "chars": len(text), "tokens": selection.EstimateTokens(text)})
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
}
