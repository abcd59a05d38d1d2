package content

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
)

// PageCapturer captures page text handed over on a reader, typically
// stdin piped from a browser or a text dump tool.
type PageCapturer struct {
	URL    string
	Source io.Reader
}

// CapturePageText reads the page text and wraps it in a page block.
func (c *PageCapturer) CapturePageText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Source == nil {
		return "", ErrNoContent
	}
	data, err := io.ReadAll(c.Source)
	if err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	text, err := nonEmpty(string(data))
	if err != nil {
		return "", err
	}
	return PageBlock(c.URL, text), nil
}

// SelectionCapturer captures the current selection. By default it reads
// the system clipboard.
type SelectionCapturer struct {
	Source string
	Read   func() (string, error)
}

// NewClipboardCapturer returns a capturer reading the system clipboard.
func NewClipboardCapturer(source string) *SelectionCapturer {
	return &SelectionCapturer{Source: source, Read: clipboard.ReadAll}
}

// CaptureSelectionText reads the selection and wraps it in a selection
// block. Surrounding whitespace is trimmed; an empty selection is
// ErrNoContent.
func (c *SelectionCapturer) CaptureSelectionText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	read := c.Read
	if read == nil {
		read = clipboard.ReadAll
	}
	text, err := read()
	if err != nil {
		return "", fmt.Errorf("read selection: %w", err)
	}
	text, err = nonEmpty(strings.TrimSpace(text))
	if err != nil {
		return "", err
	}
	return SelectionBlock(c.Source, text), nil
}

// WriteClipboard places text on the system clipboard.
func WriteClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// Producers bundles the concrete producers behind the Producer interface.
// A nil member yields ErrNoContent.
type Producers struct {
	Files     *FileReader
	URLs      *URLFetcher
	Page      *PageCapturer
	Selection *SelectionCapturer
}

var _ Producer = (*Producers)(nil)

func (p *Producers) ReadFileContent(ctx context.Context, path string) (string, error) {
	if p.Files == nil {
		return "", ErrNoContent
	}
	return p.Files.ReadFileContent(ctx, path)
}

func (p *Producers) FetchURLContent(ctx context.Context, url string) (string, error) {
	if p.URLs == nil {
		return "", ErrNoContent
	}
	return p.URLs.FetchURLContent(ctx, url)
}

func (p *Producers) CapturePageText(ctx context.Context) (string, error) {
	if p.Page == nil {
		return "", ErrNoContent
	}
	return p.Page.CapturePageText(ctx)
}

func (p *Producers) CaptureSelectionText(ctx context.Context) (string, error) {
	if p.Selection == nil {
		return "", ErrNoContent
	}
	return p.Selection.CaptureSelectionText(ctx)
}
