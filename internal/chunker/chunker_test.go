package chunker

import (
	"strings"
	"testing"
)

func joined(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func TestSplit_EmptyInput(t *testing.T) {
	if result := Split("", DefaultOptions()); result != nil {
		t.Errorf("expected nil, got %v", result)
	}
	if result := Split(" \n\n ", DefaultOptions()); result != nil {
		t.Errorf("expected nil for whitespace, got %v", result)
	}
}

func TestSplit_ShortContent(t *testing.T) {
	text := "This is my current /a.txt\n\nhello\n"
	result := Split(text, DefaultOptions())
	if len(result) != 1 {
		t.Fatalf("expected 1 part, got %d", len(result))
	}
	if result[0].Text != text {
		t.Errorf("expected %q, got %q", text, result[0].Text)
	}
	if result[0].Index != 1 || result[0].StartLine != 1 || result[0].EndLine != 4 {
		t.Errorf("unexpected position %+v", result[0])
	}
}

func TestSplit_PrefersBlankLines(t *testing.T) {
	para := strings.Repeat("word ", 10) + "\n" // 51 chars
	text := para + "\n" + para + "\n" + para
	result := Split(text, Options{MaxChars: 110})

	if len(result) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(result))
	}
	if result[0].Text != para+"\n"+para+"\n" {
		t.Errorf("first part should hold two paragraphs, got %q", result[0].Text)
	}
	if result[1].StartLine != 5 {
		t.Errorf("expected second part to start at line 5, got %d", result[1].StartLine)
	}
	if joined(result) != text {
		t.Error("parts do not reassemble the input")
	}
}

func TestSplit_HardSplitsLongParagraph(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "line of text that is moderately long")
	}
	text := strings.Join(lines, "\n")
	result := Split(text, Options{MaxChars: 200})

	if len(result) < 2 {
		t.Fatalf("expected several parts, got %d", len(result))
	}
	for i, p := range result {
		if len(p.Text) > 200 {
			t.Errorf("part %d has %d chars, exceeds limit", i, len(p.Text))
		}
		if p.Index != i+1 {
			t.Errorf("part %d has index %d", i, p.Index)
		}
	}
	if joined(result) != text {
		t.Error("parts do not reassemble the input")
	}
}

func TestSplit_LongLineOnRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 100) // 200 bytes, one line
	result := Split(text, Options{MaxChars: 15})

	for i, p := range result {
		if len(p.Text) > 15 {
			t.Errorf("part %d too long: %d", i, len(p.Text))
		}
		if !strings.HasPrefix(p.Text, "é") {
			t.Errorf("part %d starts inside a rune: %q", i, p.Text)
		}
	}
	if joined(result) != text {
		t.Error("parts do not reassemble the input")
	}
}
