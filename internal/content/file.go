package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// DefaultMaxFileSize bounds how much of one file is read.
const DefaultMaxFileSize = 4 << 20

// FileReader reads text files from an afero file system.
type FileReader struct {
	Fs      afero.Fs
	MaxSize int64
}

// NewFileReader returns a reader over fs.
func NewFileReader(fs afero.Fs) *FileReader {
	return &FileReader{Fs: fs, MaxSize: DefaultMaxFileSize}
}

// ReadFileContent reads the file at p and labels it with p.
func (r *FileReader) ReadFileContent(ctx context.Context, p string) (string, error) {
	return r.ReadFileAs(ctx, p, p)
}

// ReadFileAs reads the file at p and labels the block with label, the
// path the file has inside the briefing.
func (r *FileReader) ReadFileAs(ctx context.Context, p, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := r.Fs.Open(p)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	limit := r.MaxSize
	if limit <= 0 {
		limit = DefaultMaxFileSize
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%s: larger than %d bytes: %w", p, limit, ErrUnsupported)
	}
	if !IsText(data) {
		return "", fmt.Errorf("%s (%s): %w", p, http.DetectContentType(data), ErrUnsupported)
	}
	return FileBlock(label, string(data)), nil
}

// IsText reports whether data looks like text: valid UTF-8 with no NUL
// bytes.
func IsText(data []byte) bool {
	return utf8.Valid(data) && bytes.IndexByte(data, 0) < 0
}

// MimeType guesses a file's media type from its name, falling back to
// text/plain.
func MimeType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "text/plain"
}
