// Package chunker splits a rendered briefing into parts small enough to
// paste into a chat input with a length limit.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const DefaultMaxChars = 12000

// Options configures splitting.
type Options struct {
	MaxChars int
}

// DefaultOptions returns default splitting options.
func DefaultOptions() Options {
	return Options{MaxChars: DefaultMaxChars}
}

// Part is one piece of the output with its position in the original text.
type Part struct {
	Index     int    `json:"index"`
	Text      string `json:"text"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Split cuts text into parts of at most opts.MaxChars bytes. It cuts on
// blank lines where it can, on line ends otherwise, and inside a line only
// when the line alone is too long. Text that fits returns a single part.
func Split(text string, opts Options) []Part {
	if opts.MaxChars <= 0 {
		opts = DefaultOptions()
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if len(text) <= opts.MaxChars {
		return []Part{{Index: 1, Text: text, StartLine: 1, EndLine: strings.Count(text, "\n") + 1}}
	}

	var parts []Part
	for _, b := range mergeBlocks(splitBlocks(text), opts) {
		b.Index = len(parts) + 1
		parts = append(parts, b)
	}
	return parts
}

// block is a paragraph of the input.
type block struct {
	text      string
	startLine int
	endLine   int
}

// splitBlocks splits text after each blank line. Blank lines stay with the
// paragraph they follow so that joining the blocks restores the text.
func splitBlocks(text string) []block {
	lines := strings.SplitAfter(text, "\n")
	var blocks []block
	var current strings.Builder
	startLine := 1

	for i, line := range lines {
		current.WriteString(line)
		if strings.TrimSpace(line) == "" && current.Len() > len(line) {
			blocks = append(blocks, block{text: current.String(), startLine: startLine, endLine: i + 1})
			current.Reset()
			startLine = i + 2
		}
	}
	if current.Len() > 0 {
		blocks = append(blocks, block{text: current.String(), startLine: startLine, endLine: len(lines)})
	}
	return blocks
}

// mergeBlocks packs consecutive blocks up to the limit and splits oversized
// ones.
func mergeBlocks(blocks []block, opts Options) []Part {
	var results []Part
	var accum block

	flush := func() {
		if accum.text == "" {
			return
		}
		results = append(results, Part{Text: accum.text, StartLine: accum.startLine, EndLine: accum.endLine})
		accum = block{}
	}

	for _, b := range blocks {
		if len(b.text) > opts.MaxChars {
			flush()
			results = append(results, hardSplit(b, opts)...)
			continue
		}
		if accum.text == "" {
			accum = b
			continue
		}
		if len(accum.text)+len(b.text) <= opts.MaxChars {
			accum.text += b.text
			accum.endLine = b.endLine
			continue
		}
		flush()
		accum = b
	}
	flush()

	return results
}

// hardSplit breaks an oversized block on line boundaries, and lines longer
// than the limit on rune boundaries.
func hardSplit(b block, opts Options) []Part {
	var results []Part
	var current strings.Builder
	curStart := b.startLine

	emit := func(endLine int) {
		if current.Len() == 0 {
			return
		}
		results = append(results, Part{Text: current.String(), StartLine: curStart, EndLine: endLine})
		current.Reset()
	}

	for i, line := range strings.SplitAfter(b.text, "\n") {
		lineNum := b.startLine + i
		if line == "" {
			continue
		}
		if current.Len()+len(line) > opts.MaxChars {
			emit(lineNum - 1)
			curStart = lineNum
		}
		for len(line) > opts.MaxChars {
			cut := runeBoundary(line, opts.MaxChars)
			results = append(results, Part{Text: line[:cut], StartLine: lineNum, EndLine: lineNum})
			line = line[cut:]
		}
		current.WriteString(line)
	}
	emit(b.endLine)

	return results
}

// runeBoundary returns the largest index <= n that does not split a UTF-8
// sequence.
func runeBoundary(s string, n int) int {
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	if n == 0 {
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	return n
}
