// Package ignore compiles gitignore-style pattern files and matches paths
// against them during directory traversal.
package ignore

import (
	"regexp"
	"strings"
	"sync"
)

// Pattern is one compiled ignore rule. A Pattern is immutable; its regular
// expression is built on first use and cached.
type Pattern struct {
	Raw      string // pattern text as written, after trimming
	Body     string // normalised text the matcher is built from
	Anchored bool   // leading "/": matches from the root only
	DirOnly  bool   // trailing "/" was present

	once sync.Once
	re   *regexp.Regexp
}

func newPattern(raw string) *Pattern {
	body := strings.ReplaceAll(raw, `\`, "/")
	p := &Pattern{Raw: raw}
	if strings.HasSuffix(body, "/") {
		p.DirOnly = true
		body = strings.TrimRight(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		p.Anchored = true
		body = strings.TrimLeft(body, "/")
	}
	p.Body = body
	return p
}

// Match reports whether the normalised path is covered by the pattern:
// either the pattern matches the path itself or one of its ancestor
// directories.
func (p *Pattern) Match(path string) bool {
	return p.regexp().MatchString(path)
}

func (p *Pattern) regexp() *regexp.Regexp {
	p.once.Do(func() {
		p.re = regexp.MustCompile(buildExpr(p.Body, p.Anchored))
	})
	return p.re
}

// buildExpr translates a pattern body into a regular expression.
// "**" crosses separators, "*" and "?" stay within one segment, and every
// other character is literal. The result matches the pattern as whole
// segments plus anything nested beneath it.
func buildExpr(body string, anchored bool) string {
	var b strings.Builder
	if anchored {
		b.WriteString("^")
	} else {
		b.WriteString("(?:^|/)")
	}
	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case '*':
			if i+1 < len(rs) && rs[i+1] == '*' {
				for i+1 < len(rs) && rs[i+1] == '*' {
					i++
				}
				// "**/" may also match zero directories.
				if i+1 < len(rs) && rs[i+1] == '/' {
					i++
					b.WriteString("(?:.*/)?")
					continue
				}
				b.WriteString(".*")
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(rs[i])))
		}
	}
	b.WriteString("(?:/.*)?$")
	return b.String()
}
