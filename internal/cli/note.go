package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var errNothingAdded = errors.New("nothing was added")

func init() {
	cmd := &cobra.Command{
		Use:   "note [text]",
		Short: "Add a note",
		Long:  "Add a free-text note. Text can be a positional arg or piped via stdin.",
		Run:   runNote,
	}

	RootCmd.AddCommand(cmd)
}

func runNote(cmd *cobra.Command, args []string) {
	// Get text: positional arg first, then check stdin
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}

	s := openSession(cmd)
	defer s.close()

	key, err := s.svc.AddNote(text)
	if err != nil {
		exitErr("note", err)
	}
	s.save(cmd)

	printJSON(cmd, map[string]any{"ok": true, "key": key})
}
