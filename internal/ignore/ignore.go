package ignore

import (
	"context"
	"strings"
)

const (
	// ThisIsMyIgnoreFile replaces the inherited rules for its subtree.
	ThisIsMyIgnoreFile = ".thisismyignore"
	// GitIgnoreFile extends the inherited rules for its subtree.
	GitIgnoreFile = ".gitignore"
)

// IgnoreSet is the ordered list of patterns effective for one directory
// subtree. The zero value ignores nothing.
type IgnoreSet []*Pattern

// CompileStats describes what Compile discarded.
type CompileStats struct {
	Comments  int
	Negations int
}

// Compile parses ignore file text into an IgnoreSet.
func Compile(content string) IgnoreSet {
	set, _ := CompileWithStats(content)
	return set
}

// CompileWithStats is Compile that also reports discarded lines.
// Negation lines ("!pattern") are recognised but not supported and are
// dropped.
func CompileWithStats(content string) (IgnoreSet, CompileStats) {
	var (
		set   IgnoreSet
		stats CompileStats
	)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "#"):
			stats.Comments++
			continue
		case strings.HasPrefix(line, "!"):
			stats.Negations++
			continue
		}
		p := newPattern(line)
		if p.Body == "" {
			continue
		}
		set = append(set, p)
	}
	return set, stats
}

// Extend returns a new set holding s followed by more. The receiver's
// backing array is never shared with the result.
func (s IgnoreSet) Extend(more IgnoreSet) IgnoreSet {
	out := make(IgnoreSet, 0, len(s)+len(more))
	out = append(out, s...)
	return append(out, more...)
}

// Patterns returns the raw text of each pattern, in order.
func (s IgnoreSet) Patterns() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Raw
	}
	return out
}

// Matches reports whether path is ignored by any pattern in set.
func Matches(path string, set IgnoreSet) bool {
	if len(set) == 0 {
		return false
	}
	path = NormalizePath(path)
	if path == "" {
		return false
	}
	for _, p := range set {
		if p.Match(path) {
			return true
		}
	}
	return false
}

// NormalizePath converts path to forward slashes without a leading
// separator or "./" prefix.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	for {
		switch {
		case strings.HasPrefix(path, "/"):
			path = path[1:]
		case strings.HasPrefix(path, "./"):
			path = path[2:]
		default:
			return path
		}
	}
}

// IsHidden reports whether a directory entry is a dotfile. Hidden entries
// are never traversed or admitted, whatever the ignore rules say.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// DirSource gives Resolve access to the immediate children of one
// directory.
type DirSource interface {
	HasChild(name string) bool
	ReadChild(ctx context.Context, name string) (string, error)
}

// Action says how a directory's ignore file changed the inherited set.
type Action string

const (
	Inherited Action = "inherited"
	Replaced  Action = "replaced"
	Extended  Action = "extended"
)

// Origin reports how Resolve arrived at a set.
type Origin struct {
	Action Action
	File   string // ignore file consulted, empty when none
	Stats  CompileStats
	Err    error // read failure; the inherited set was kept
}

// Resolve applies the directory-level policy: a .thisismyignore replaces
// the inherited set, otherwise a .gitignore extends it, otherwise the
// inherited set passes through. A read failure counts as "no rules here".
func Resolve(ctx context.Context, inherited IgnoreSet, dir DirSource) (IgnoreSet, Origin) {
	name := ""
	switch {
	case dir.HasChild(ThisIsMyIgnoreFile):
		name = ThisIsMyIgnoreFile
	case dir.HasChild(GitIgnoreFile):
		name = GitIgnoreFile
	default:
		return inherited, Origin{Action: Inherited}
	}

	text, err := dir.ReadChild(ctx, name)
	if err != nil {
		return inherited, Origin{Action: Inherited, File: name, Err: err}
	}
	set, stats := CompileWithStats(text)
	if name == ThisIsMyIgnoreFile {
		return set, Origin{Action: Replaced, File: name, Stats: stats}
	}
	return inherited.Extend(set), Origin{Action: Extended, File: name, Stats: stats}
}
