package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/content"
)

func init() {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture page text or the current selection",
	}

	pageCmd := &cobra.Command{
		Use:   "page",
		Short: "Add page text piped on stdin",
		Long:  "Add the text of a page, read from stdin. Capturing the same --url again replaces the earlier capture.",
		Run:   runCapturePage,
	}
	pageCmd.Flags().String("url", "", "URL of the captured page (required)")
	pageCmd.MarkFlagRequired("url")

	selectionCmd := &cobra.Command{
		Use:   "selection",
		Short: "Add the clipboard contents",
		Long: "Add the current clipboard contents as a selection. With --source the capture " +
			"replaces an earlier one from the same source; without it every capture is kept.",
		Run: runCaptureSelection,
	}
	selectionCmd.Flags().String("source", "", "Where the selection came from, e.g. a page URL")

	captureCmd.AddCommand(pageCmd, selectionCmd)
	RootCmd.AddCommand(captureCmd)
}

func runCapturePage(cmd *cobra.Command, args []string) {
	url, _ := cmd.Flags().GetString("url")

	s := openSession(cmd)
	defer s.close()
	s.producers.Page = &content.PageCapturer{URL: url, Source: cmd.InOrStdin()}

	key, err := s.svc.CapturePage(cmd.Context(), url)
	if err != nil {
		exitErr("capture page", err)
	}
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "key": key})
}

func runCaptureSelection(cmd *cobra.Command, args []string) {
	source, _ := cmd.Flags().GetString("source")

	s := openSession(cmd)
	defer s.close()
	label := source
	if label == "" {
		label = "clipboard"
	}
	s.producers.Selection = content.NewClipboardCapturer(label)

	key, err := s.svc.CaptureSelection(cmd.Context(), source)
	if err != nil {
		exitErr("capture selection", err)
	}
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "key": key})
}
