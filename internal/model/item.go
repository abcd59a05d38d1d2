// Package model defines the selection item and briefing snapshot types.
package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind classifies a selection item.
type Kind string

const (
	KindFile    Kind = "file"
	KindURL     Kind = "url"
	KindNote    Kind = "note"
	KindSpecial Kind = "special"
)

// FileMeta is the metadata kept for a selected file.
type FileMeta struct {
	Name     string `json:"name"`
	FilePath string `json:"filePath"`
	Type     string `json:"type"`
}

// Special describes an item that is not backed by a file or URL,
// e.g. a page capture or a clipboard selection.
type Special struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// Item is one entry of a briefing. Exactly one of the variant fields is
// set, according to Kind.
type Item struct {
	Key     string    `json:"key"`
	Kind    Kind      `json:"kind"`
	File    *FileMeta `json:"file,omitempty"`
	URL     string    `json:"url,omitempty"`
	Note    string    `json:"note,omitempty"`
	Special *Special  `json:"special,omitempty"`
}

const notePreviewLen = 30

// Label returns the text shown for the item in a selection list.
func (it Item) Label() string {
	switch it.Kind {
	case KindFile:
		if it.File != nil && it.File.Name != "" {
			return it.File.Name
		}
		return it.Key
	case KindURL:
		return it.URL
	case KindNote:
		if utf8.RuneCountInString(it.Note) > notePreviewLen {
			return string([]rune(it.Note)[:notePreviewLen]) + "..."
		}
		return it.Note
	case KindSpecial:
		if it.Special != nil {
			return it.Special.Name
		}
	}
	return it.Key
}

// Icon returns a one-glyph marker for the item kind.
func (it Item) Icon() string {
	switch it.Kind {
	case KindFile:
		return fileIcon(it.File)
	case KindURL:
		return "🔗"
	case KindNote:
		return "📝"
	case KindSpecial:
		if it.Special != nil && it.Special.Icon != "" {
			return it.Special.Icon
		}
	}
	return "❓"
}

func fileIcon(f *FileMeta) string {
	if f == nil {
		return "❓"
	}
	name := strings.ToLower(f.Name)
	typ := f.Type
	switch {
	case strings.Contains(typ, "pdf"):
		return "📄"
	case strings.Contains(typ, "wordprocessingml"), strings.HasSuffix(name, ".doc"), strings.HasSuffix(name, ".docx"):
		return "📄"
	case strings.Contains(typ, "json"), strings.HasSuffix(name, ".json"):
		return "🔧"
	case strings.Contains(typ, "xml"), strings.HasSuffix(name, ".xml"):
		return "🔖"
	case strings.Contains(typ, "csv"), strings.HasSuffix(name, ".csv"):
		return "📊"
	case strings.Contains(typ, "text"), strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".md"), strings.HasSuffix(name, ".log"):
		return "📄"
	}
	return "❓"
}

// NoteKey returns the key for a note created at t.
func NoteKey(t time.Time) string {
	return SpecialKey("note", t)
}

// SpecialKey returns a "<kind>:<unix millis>" key.
func SpecialKey(kind string, t time.Time) string {
	return fmt.Sprintf("%s:%d", kind, t.UnixMilli())
}

// PageKey is the refresh key for a captured page: capturing the same page
// again replaces the earlier capture in place.
func PageKey(url string) string {
	return "page:" + url
}

// SelectionKey is the refresh key for a selection captured from source.
func SelectionKey(source string) string {
	return "selection:" + source
}
