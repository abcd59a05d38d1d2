// Package walker traverses dropped files and directories, resolving ignore
// rules per directory and registering every admitted file with a
// selection sink.
package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/rcliao/thisismy/internal/content"
	"github.com/rcliao/thisismy/internal/ignore"
	"github.com/rcliao/thisismy/internal/model"
)

// FileSource produces the rendered content of one file. label is the path
// the file carries inside the briefing.
type FileSource interface {
	ReadFileAs(ctx context.Context, fsPath, label string) (string, error)
}

// Sink receives admitted files.
type Sink interface {
	AddFile(key string, meta model.FileMeta, content string) bool
	AddFileAt(index int, key string, meta model.FileMeta, content string) bool
}

// Walker walks file system trees. Siblings within one directory are read
// concurrently; a subdirectory is entered only after its own ignore file
// has been resolved.
type Walker struct {
	Fs         afero.Fs
	Files      FileSource
	Sink       Sink
	Logger     zerolog.Logger
	MaxWorkers int
}

// New returns a walker reading from fs.
func New(fs afero.Fs, sink Sink, logger zerolog.Logger) *Walker {
	return &Walker{
		Fs:         fs,
		Files:      content.NewFileReader(fs),
		Sink:       sink,
		Logger:     logger,
		MaxWorkers: runtime.NumCPU(),
	}
}

// Options controls one walk.
type Options struct {
	// InsertAt places newly admitted files starting at this index of the
	// selection order. Negative appends.
	InsertAt int
}

// Result counts what a walk did.
type Result struct {
	Added     int64 `json:"added"`
	Refreshed int64 `json:"refreshed"`
	Ignored   int64 `json:"ignored"`
	Hidden    int64 `json:"hidden"`
	Failed    int64 `json:"failed"`
}

type admitted struct {
	key     string
	meta    model.FileMeta
	content string
}

// Walk admits root, a file or a directory. Keys have the form
// "/<root name>/<relative path>"; ignore patterns are matched against the
// path relative to root. Files are registered with the sink once the whole
// tree has been read, in lexical order, so a walk never leaves a partially
// read item behind.
func (w *Walker) Walk(ctx context.Context, root string, opts Options) (Result, error) {
	var res Result
	info, err := w.Fs.Stat(root)
	if err != nil {
		return res, fmt.Errorf("stat %s: %w", root, err)
	}

	base := filepath.Base(filepath.Clean(root))
	var files []admitted
	if info.IsDir() {
		files, err = w.walkDir(ctx, &res, root, "", "/"+base, nil)
		if err != nil {
			return res, err
		}
	} else {
		if f, ok := w.readFile(ctx, &res, root, "/"+base); ok {
			files = append(files, f)
		}
	}

	index := opts.InsertAt
	for _, f := range files {
		var created bool
		if index >= 0 {
			created = w.Sink.AddFileAt(index, f.key, f.meta, f.content)
			if created {
				index++
			}
		} else {
			created = w.Sink.AddFile(f.key, f.meta, f.content)
		}
		if created {
			res.Added++
		} else {
			res.Refreshed++
		}
		w.Logger.Debug().Str("key", f.key).Bool("new", created).Msg("file admitted")
	}
	return res, nil
}

// walkDir reads dir, whose path relative to the walk root is rel and whose
// briefing key prefix is keyPrefix.
func (w *Walker) walkDir(ctx context.Context, res *Result, dir, rel, keyPrefix string, inherited ignore.IgnoreSet) ([]admitted, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(w.Fs, dir)
	if err != nil {
		atomic.AddInt64(&res.Failed, 1)
		w.Logger.Warn().Err(err).Str("dir", dir).Msg("read directory failed")
		return nil, nil
	}

	src := newDirSource(w.Fs, dir, entries)
	set, origin := ignore.Resolve(ctx, inherited, src)
	w.logOrigin(keyPrefix, origin, set)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	results := make([][]admitted, len(entries))

	workers := w.MaxWorkers
	if workers < 1 {
		workers = 1
	}
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, e := range entries {
		i := i // per-iteration copy (go < 1.22 loop semantics)
		name := e.Name()
		if ignore.IsHidden(name) {
			atomic.AddInt64(&res.Hidden, 1)
			continue
		}
		childRel := path.Join(rel, name)
		childKey := keyPrefix + "/" + name
		if ignore.Matches(childRel, set) {
			atomic.AddInt64(&res.Ignored, 1)
			w.Logger.Debug().Str("path", childKey).Bool("dir", e.IsDir()).Msg("ignored")
			continue
		}
		childPath := filepath.Join(dir, name)
		if e.IsDir() {
			p.Go(func(ctx context.Context) error {
				files, err := w.walkDir(ctx, res, childPath, childRel, childKey, set)
				results[i] = files
				return err
			})
			continue
		}
		p.Go(func(ctx context.Context) error {
			if f, ok := w.readFile(ctx, res, childPath, childKey); ok {
				results[i] = []admitted{f}
			}
			return ctx.Err()
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	var out []admitted
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (w *Walker) readFile(ctx context.Context, res *Result, fsPath, key string) (admitted, bool) {
	text, err := w.Files.ReadFileAs(ctx, fsPath, key)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			atomic.AddInt64(&res.Failed, 1)
			w.Logger.Warn().Err(err).Str("path", key).Msg("file not added")
		}
		return admitted{}, false
	}
	name := path.Base(key)
	return admitted{
		key:     key,
		meta:    model.FileMeta{Name: name, FilePath: key, Type: content.MimeType(name)},
		content: text,
	}, true
}

func (w *Walker) logOrigin(dir string, origin ignore.Origin, set ignore.IgnoreSet) {
	if origin.Err != nil {
		w.Logger.Warn().Err(origin.Err).Str("dir", dir).Str("file", origin.File).
			Msg("ignore file unreadable, keeping inherited rules")
		return
	}
	if origin.Action == ignore.Inherited {
		return
	}
	ev := w.Logger.Debug().Str("dir", dir).Str("file", origin.File).
		Str("action", string(origin.Action)).Int("patterns", len(set))
	if origin.Stats.Negations > 0 {
		ev = ev.Int("negations_dropped", origin.Stats.Negations)
	}
	ev.Msg("ignore rules resolved")
}

type dirSource struct {
	fs    afero.Fs
	dir   string
	names map[string]bool
}

func newDirSource(fs afero.Fs, dir string, entries []os.FileInfo) *dirSource {
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names[e.Name()] = true
		}
	}
	return &dirSource{fs: fs, dir: dir, names: names}
}

func (d *dirSource) HasChild(name string) bool {
	return d.names[name]
}

func (d *dirSource) ReadChild(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := afero.ReadFile(d.fs, filepath.Join(d.dir, name))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
