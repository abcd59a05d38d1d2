// Package content produces the rendered text of selection items: files,
// fetched URLs, captured pages and selections, and notes.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoContent means a producer ran but had nothing to contribute.
	ErrNoContent = errors.New("no content")
	// ErrUnsupported means the file cannot be read as text.
	ErrUnsupported = errors.New("unsupported file type")
)

// Producer yields item content. A failed call must not lead to an item
// being added; callers log the error and move on.
type Producer interface {
	ReadFileContent(ctx context.Context, path string) (string, error)
	FetchURLContent(ctx context.Context, url string) (string, error)
	CapturePageText(ctx context.Context) (string, error)
	CaptureSelectionText(ctx context.Context) (string, error)
}

// FileBlock wraps file text in the briefing's file header and footer.
func FileBlock(path, text string) string {
	return fmt.Sprintf("This is my current %s\n\n%s\n\nThis is the end of %s\n\n", path, text, path)
}

// URLBlock wraps fetched page text, stamped with the fetch time.
func URLBlock(url, text string, at time.Time) string {
	return fmt.Sprintf("Fetched content from %s on %s\n\n%s\n\nEnd of content from %s",
		url, at.Format("2006-01-02 15:04:05"), text, url)
}

// PageBlock wraps the text of a captured page.
func PageBlock(url, text string) string {
	return fmt.Sprintf("Content from %s\n\n%s\n\nEnd of content from %s", url, text, url)
}

// SelectionBlock wraps a captured selection.
func SelectionBlock(source, text string) string {
	return fmt.Sprintf("Selected content from %s\n\n%s\n\nEnd of selected content from %s", source, text, source)
}

// NoteContent renders a free-text note.
func NoteContent(note string) string {
	return fmt.Sprintf("This is a Note:\n\n%s\n\nEnd of Note.\n\n", note)
}

func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}
	return text, nil
}
