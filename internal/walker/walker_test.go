package walker

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/thisismy/internal/content"
	"github.com/rcliao/thisismy/internal/model"
	"github.com/rcliao/thisismy/internal/selection"
)

func writeTree(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for p, body := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(body), 0o644))
	}
}

func newTestWalker(fs afero.Fs, store *selection.Store) *Walker {
	w := New(fs, store, zerolog.Nop())
	w.MaxWorkers = 4
	return w
}

func TestWalkHonoursIgnoreRules(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{
		"/proj/.gitignore":                "*.log\n/build\n",
		"/proj/main.go":                   "package main",
		"/proj/app.log":                   "noise",
		"/proj/build/out.js":              "built",
		"/proj/src/build/keep.js":         "nested build is not anchored",
		"/proj/src/util.go":               "package src",
		"/proj/.env":                      "SECRET=1",
		"/proj/.hidden/file.txt":          "hidden",
		"/proj/vendor/.gitignore":         "*.md\n",
		"/proj/vendor/lib.go":             "package lib",
		"/proj/vendor/README.md":          "docs",
		"/proj/vendor/debug.log":          "still ignored by parent rules",
		"/proj/tools/.thisismyignore":     "*.go\n",
		"/proj/tools/.gitignore":          "*.txt\n",
		"/proj/tools/gen.go":              "package tools",
		"/proj/tools/notes.txt":           "gitignore here is shadowed",
		"/proj/tools/trace.log":           "parent rules replaced",
		"/proj/tools/deep/inner.go":       "package deep",
		"/proj/tools/deep/inner_test.txt": "kept",
	})

	store := selection.New()
	res, err := newTestWalker(fs, store).Walk(context.Background(), "/proj", Options{InsertAt: -1})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/proj/main.go",
		"/proj/src/build/keep.js",
		"/proj/src/util.go",
		"/proj/tools/deep/inner_test.txt",
		"/proj/tools/notes.txt",
		"/proj/tools/trace.log",
		"/proj/vendor/lib.go",
	}, store.Keys())
	assert.Equal(t, int64(7), res.Added)
	assert.Zero(t, res.Failed)
	// .env, .gitignore and .hidden at the root plus three nested ignore files.
	assert.Equal(t, int64(6), res.Hidden)
	// app.log, build, vendor/README.md, vendor/debug.log, tools/gen.go, tools/deep/inner.go
	assert.Equal(t, int64(6), res.Ignored)

	it, text, ok := store.Get("/proj/main.go")
	require.True(t, ok)
	assert.Equal(t, model.KindFile, it.Kind)
	assert.Equal(t, "main.go", it.File.Name)
	assert.Equal(t, content.FileBlock("/proj/main.go", "package main"), text)
}

// Patterns from a nested ignore file are matched against the path relative
// to the walk root, so an anchored pattern in src/.gitignore names a
// top-level entry, not one beside the file.
func TestWalkNestedAnchoredPatternResolvesFromWalkRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{
		"/proj/src/.gitignore":  "/gen\n/src/tmp\n",
		"/proj/src/gen/x.go":    "package gen",
		"/proj/src/tmp/scratch": "scratch",
		"/proj/src/main.go":     "package src",
	})

	store := selection.New()
	res, err := newTestWalker(fs, store).Walk(context.Background(), "/proj", Options{InsertAt: -1})
	require.NoError(t, err)

	assert.Equal(t, []string{"/proj/src/gen/x.go", "/proj/src/main.go"}, store.Keys())
	assert.Equal(t, int64(1), res.Ignored)
	assert.Equal(t, int64(1), res.Hidden)
}

func TestWalkSingleFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{"/tmp/a.txt": "hello"})

	store := selection.New()
	res, err := newTestWalker(fs, store).Walk(context.Background(), "/tmp/a.txt", Options{InsertAt: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Added)
	assert.Equal(t, []string{"/a.txt"}, store.Keys())
}

func TestWalkRefreshAndInsertAt(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{"/d/a.txt": "a", "/d/b.txt": "b"})

	store := selection.New()
	store.AddNote("note:1", "first", "first")
	store.AddNote("note:2", "second", "second")

	w := newTestWalker(fs, store)
	res, err := w.Walk(context.Background(), "/d", Options{InsertAt: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Added)
	assert.Equal(t, []string{"note:1", "/d/a.txt", "/d/b.txt", "note:2"}, store.Keys())

	writeTree(t, fs, map[string]string{"/d/a.txt": "a2"})
	res, err = w.Walk(context.Background(), "/d", Options{InsertAt: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Refreshed)
	assert.Equal(t, []string{"note:1", "/d/a.txt", "/d/b.txt", "note:2"}, store.Keys())
	_, text, _ := store.Get("/d/a.txt")
	assert.Contains(t, text, "a2")
}

type failingSource struct{ fail string }

func (f failingSource) ReadFileAs(ctx context.Context, p, label string) (string, error) {
	if p == f.fail {
		return "", errors.New("read error")
	}
	return content.FileBlock(label, "ok"), nil
}

func TestWalkSkipsUnreadableFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{"/d/a.txt": "a", "/d/b.txt": "b"})

	store := selection.New()
	w := newTestWalker(fs, store)
	w.Files = failingSource{fail: "/d/a.txt"}
	res, err := w.Walk(context.Background(), "/d", Options{InsertAt: -1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Failed)
	assert.Equal(t, []string{"/d/b.txt"}, store.Keys())
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := newTestWalker(afero.NewMemMapFs(), selection.New()).Walk(context.Background(), "/nope", Options{InsertAt: -1})
	assert.Error(t, err)
}

func TestWalkCancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTree(t, fs, map[string]string{"/d/a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := selection.New()
	_, err := newTestWalker(fs, store).Walk(ctx, "/d", Options{InsertAt: -1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.Len())
}
