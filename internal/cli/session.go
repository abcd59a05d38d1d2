package cli

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rcliao/thisismy/internal/briefing"
	"github.com/rcliao/thisismy/internal/content"
	"github.com/rcliao/thisismy/internal/selection"
	"github.com/rcliao/thisismy/internal/store"
	"github.com/rcliao/thisismy/internal/walker"
)

// session is the briefing being edited, loaded from and saved back to the
// database around one command.
type session struct {
	store     *store.SQLiteStore
	selection *selection.Store
	producers *content.Producers
	svc       *briefing.Service
}

func openSession(cmd *cobra.Command) *session {
	st, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	snap, err := st.LoadSession(cmd.Context())
	if err != nil {
		st.Close()
		exitErr("load session", err)
	}

	fs := afero.NewOsFs()
	files := content.NewFileReader(fs)
	files.MaxSize = int64(cfg.Walk.MaxFileSizeKB) << 10
	producers := &content.Producers{
		Files: files,
		URLs:  content.NewURLFetcher(cfg.Fetch.Timeout),
	}

	sel := selection.New()
	w := walker.New(fs, sel, logger)
	w.Files = files
	w.MaxWorkers = cfg.Walk.MaxWorkers

	s := &session{
		store:     st,
		selection: sel,
		producers: producers,
		svc:       briefing.New(sel, producers, w, logger),
	}
	if !snap.Empty() {
		s.svc.Load(snap, true, "session")
	}
	return s
}

func (s *session) save(cmd *cobra.Command) {
	if err := s.store.SaveSession(cmd.Context(), s.selection.Serialize()); err != nil {
		exitErr("save session", err)
	}
}

func (s *session) close() {
	s.store.Close()
}

func absPaths(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		p, err := filepath.Abs(a)
		if err != nil {
			p = a
		}
		out = append(out, p)
	}
	return out
}
