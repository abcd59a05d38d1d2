// Package selection holds the ordered set of items making up a briefing
// together with the rendered text of each item.
package selection

import (
	"strings"
	"sync"
	"unicode"

	"github.com/rcliao/thisismy/internal/model"
)

type entry struct {
	item    model.Item
	content string
}

// Store is an ordered, key-deduplicated collection of selection items.
// order is the single source of truth for display and output order; every
// key in order has exactly one entry and vice versa. All methods are safe
// for concurrent use and each mutation is applied under one lock, so
// readers never observe a key in order without its entry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// AddFile inserts or refreshes a file item. It reports whether the key was
// new; a refreshed key keeps its position.
func (s *Store) AddFile(key string, meta model.FileMeta, content string) bool {
	return s.put(model.Item{Key: key, Kind: model.KindFile, File: &meta}, content, -1)
}

// AddFileAt is AddFile that places a new key at index instead of the end.
// index is clamped to the current bounds.
func (s *Store) AddFileAt(index int, key string, meta model.FileMeta, content string) bool {
	if index < 0 {
		index = 0
	}
	return s.put(model.Item{Key: key, Kind: model.KindFile, File: &meta}, content, index)
}

// AddURL inserts or refreshes a URL item.
func (s *Store) AddURL(key, url, content string) bool {
	return s.put(model.Item{Key: key, Kind: model.KindURL, URL: url}, content, -1)
}

// AddNote inserts or refreshes a note item.
func (s *Store) AddNote(key, text, content string) bool {
	return s.put(model.Item{Key: key, Kind: model.KindNote, Note: text}, content, -1)
}

// AddSpecial inserts or refreshes a special item such as a page capture.
func (s *Store) AddSpecial(key string, special model.Special, content string) bool {
	return s.put(model.Item{Key: key, Kind: model.KindSpecial, Special: &special}, content, -1)
}

// put stores it under its key. A negative index appends new keys.
func (s *Store) put(it model.Item, content string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(it, content, index)
}

func (s *Store) putLocked(it model.Item, content string, index int) bool {
	_, exists := s.entries[it.Key]
	s.entries[it.Key] = entry{item: it, content: content}
	if exists {
		return false
	}
	if index < 0 || index >= len(s.order) {
		s.order = append(s.order, it.Key)
		return true
	}
	s.order = append(s.order, "")
	copy(s.order[index+1:], s.order[index:])
	s.order[index] = it.Key
	return true
}

// Remove deletes key from the store. Removing an absent key is a no-op.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	if i := s.indexLocked(key); i >= 0 {
		s.order = append(s.order[:i], s.order[i+1:]...)
	}
	return true
}

// RemoveAll empties the store.
func (s *Store) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	s.entries = make(map[string]entry)
	s.order = nil
}

// Reorder moves sourceKey to the position targetKey occupies before the
// move. It is a no-op when either key is absent or both are the same.
func (s *Store) Reorder(sourceKey, targetKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sourceKey == targetKey {
		return false
	}
	src := s.indexLocked(sourceKey)
	dst := s.indexLocked(targetKey)
	if src < 0 || dst < 0 {
		return false
	}
	s.order = append(s.order[:src], s.order[src+1:]...)
	s.order = append(s.order, "")
	copy(s.order[dst+1:], s.order[dst:])
	s.order[dst] = sourceKey
	return true
}

func (s *Store) indexLocked(key string) int {
	for i, k := range s.order {
		if k == key {
			return i
		}
	}
	return -1
}

// Get returns the item and content stored under key.
func (s *Store) Get(key string) (model.Item, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e.item, e.content, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Keys returns the keys in selection order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Items returns the items in selection order.
func (s *Store) Items() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.Item, 0, len(s.order))
	for _, k := range s.order {
		items = append(items, s.entries[k].item)
	}
	return items
}

// isSpace also counts the byte order mark, which shows up inside fetched
// pages.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// RenderOptions controls Render.
type RenderOptions struct {
	CollapseWhitespace bool
}

// Render concatenates item contents in selection order, each followed by a
// newline. With CollapseWhitespace every run of Unicode whitespace becomes
// a single space and the result is trimmed.
func (s *Store) Render(opts RenderOptions) string {
	s.mu.RLock()
	var b strings.Builder
	for _, k := range s.order {
		b.WriteString(s.entries[k].content)
		b.WriteByte('\n')
	}
	s.mu.RUnlock()

	out := b.String()
	if opts.CollapseWhitespace {
		out = strings.Join(strings.FieldsFunc(out, isSpace), " ")
	}
	return out
}

// EstimateTokens approximates the token count of text at four characters
// per token.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Stats summarises the store.
type Stats struct {
	Items    int `json:"items"`
	Files    int `json:"files"`
	URLs     int `json:"urls"`
	Notes    int `json:"notes"`
	Specials int `json:"specials"`
	Chars    int `json:"chars"`
	Tokens   int `json:"tokens"`
}

// Stats counts items per kind and sizes the rendered output.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	st := Stats{Items: len(s.order)}
	for _, k := range s.order {
		switch s.entries[k].item.Kind {
		case model.KindFile:
			st.Files++
		case model.KindURL:
			st.URLs++
		case model.KindNote:
			st.Notes++
		case model.KindSpecial:
			st.Specials++
		}
	}
	s.mu.RUnlock()

	out := s.Render(RenderOptions{})
	st.Chars = len(out)
	st.Tokens = EstimateTokens(out)
	return st
}
