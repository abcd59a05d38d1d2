package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
)

// ErrMalformedSnapshot is returned when a document is not a briefing at all.
var ErrMalformedSnapshot = errors.New("malformed briefing snapshot")

// Pair is one [key, value] entry of a serialized map.
type Pair struct {
	Key   string
	Value json.RawMessage
}

// NewPair builds a pair, encoding v as the value.
func NewPair(key string, v any) Pair {
	b, err := json.Marshal(v)
	if err != nil {
		b = []byte("null")
	}
	return Pair{Key: key, Value: b}
}

func (p Pair) MarshalJSON() ([]byte, error) {
	key, err := json.Marshal(p.Key)
	if err != nil {
		return nil, err
	}
	val := p.Value
	if len(val) == 0 {
		val = []byte("null")
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(key)
	buf.WriteByte(',')
	buf.Write(val)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("pair is not an array: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("pair has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Key); err != nil {
		return fmt.Errorf("pair key is not a string: %w", err)
	}
	if p.Key == "" {
		return errors.New("pair key is empty")
	}
	p.Value = raw[1]
	return nil
}

// String decodes the pair value as a string.
func (p Pair) String() (string, error) {
	var s string
	if err := json.Unmarshal(p.Value, &s); err != nil {
		return "", fmt.Errorf("%s: value is not a string", p.Key)
	}
	return s, nil
}

// FileMeta decodes the pair value as file metadata. Older exports wrote
// file values as {}; a missing FilePath falls back to the key and a
// missing Name to the key's last element.
func (p Pair) FileMeta() (*FileMeta, error) {
	var m FileMeta
	if err := json.Unmarshal(p.Value, &m); err != nil {
		return nil, fmt.Errorf("%s: value is not file metadata", p.Key)
	}
	if m.FilePath == "" {
		m.FilePath = p.Key
	}
	if m.Name == "" {
		m.Name = path.Base(m.FilePath)
	}
	return &m, nil
}

// Special decodes the pair value as a special item descriptor.
func (p Pair) Special() (*Special, error) {
	var s Special
	if err := json.Unmarshal(p.Value, &s); err != nil {
		return nil, fmt.Errorf("%s: value is not a special descriptor", p.Key)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("%s: special descriptor lacks name", p.Key)
	}
	return &s, nil
}

// Snapshot is the persisted form of a briefing. Its JSON encoding is the
// export format: every map is an array of [key, value] pairs and
// selectionOrder is an array of keys.
type Snapshot struct {
	SelectedFiles    []Pair   `json:"selectedFiles"`
	SelectedURLs     []Pair   `json:"selectedURLs"`
	SelectedNotes    []Pair   `json:"selectedNotes"`
	SelectedSpecials []Pair   `json:"selectedSpecials"`
	OutputContents   []Pair   `json:"outputContents"`
	SelectionOrder   []string `json:"selectionOrder"`

	// malformed collects entries dropped while decoding.
	malformed []string
}

// Malformed returns a description of each entry dropped while decoding.
func (s *Snapshot) Malformed() []string {
	return s.malformed
}

// Empty reports whether the snapshot holds no entries.
func (s *Snapshot) Empty() bool {
	return len(s.SelectedFiles) == 0 && len(s.SelectedURLs) == 0 &&
		len(s.SelectedNotes) == 0 && len(s.SelectedSpecials) == 0 &&
		len(s.OutputContents) == 0 && len(s.SelectionOrder) == 0
}

type rawSnapshot struct {
	SelectedFiles    []json.RawMessage `json:"selectedFiles"`
	SelectedURLs     []json.RawMessage `json:"selectedURLs"`
	SelectedNotes    []json.RawMessage `json:"selectedNotes"`
	SelectedSpecials []json.RawMessage `json:"selectedSpecials"`
	OutputContents   []json.RawMessage `json:"outputContents"`
	SelectionOrder   []json.RawMessage `json:"selectionOrder"`
}

// UnmarshalJSON decodes a snapshot entry by entry so that one bad entry
// does not discard the rest of the document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	known := 0
	for _, k := range []string{"selectedFiles", "selectedURLs", "selectedNotes", "selectedSpecials", "outputContents", "selectionOrder"} {
		if _, ok := fields[k]; ok {
			known++
		}
	}
	if known == 0 {
		return fmt.Errorf("%w: no briefing fields", ErrMalformedSnapshot)
	}

	var raw rawSnapshot
	for name, dst := range map[string]*[]json.RawMessage{
		"selectedFiles":    &raw.SelectedFiles,
		"selectedURLs":     &raw.SelectedURLs,
		"selectedNotes":    &raw.SelectedNotes,
		"selectedSpecials": &raw.SelectedSpecials,
		"outputContents":   &raw.OutputContents,
		"selectionOrder":   &raw.SelectionOrder,
	} {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			s.malformed = append(s.malformed, fmt.Sprintf("%s: not an array", name))
		}
	}

	s.SelectedFiles = s.decodePairs("selectedFiles", raw.SelectedFiles)
	s.SelectedURLs = s.decodePairs("selectedURLs", raw.SelectedURLs)
	s.SelectedNotes = s.decodePairs("selectedNotes", raw.SelectedNotes)
	s.SelectedSpecials = s.decodePairs("selectedSpecials", raw.SelectedSpecials)
	s.OutputContents = s.decodePairs("outputContents", raw.OutputContents)

	s.SelectionOrder = nil
	for i, r := range raw.SelectionOrder {
		var key string
		if err := json.Unmarshal(r, &key); err != nil || key == "" {
			s.malformed = append(s.malformed, fmt.Sprintf("selectionOrder[%d]: not a key", i))
			continue
		}
		s.SelectionOrder = append(s.SelectionOrder, key)
	}
	return nil
}

func (s *Snapshot) decodePairs(field string, raws []json.RawMessage) []Pair {
	var pairs []Pair
	for i, r := range raws {
		var p Pair
		if err := json.Unmarshal(r, &p); err != nil {
			s.malformed = append(s.malformed, fmt.Sprintf("%s[%d]: %v", field, i, err))
			continue
		}
		pairs = append(pairs, p)
	}
	return pairs
}

// DecodeSnapshot reads one snapshot document from r.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodeSnapshot writes s as indented JSON.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
