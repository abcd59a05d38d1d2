package selection

import (
	"fmt"

	"github.com/rcliao/thisismy/internal/model"
)

// Serialize captures the store as a snapshot. Pairs are emitted in
// selection order so the snapshot reads the way the briefing does.
func (s *Store) Serialize() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &model.Snapshot{
		SelectedFiles:    []model.Pair{},
		SelectedURLs:     []model.Pair{},
		SelectedNotes:    []model.Pair{},
		SelectedSpecials: []model.Pair{},
		OutputContents:   make([]model.Pair, 0, len(s.order)),
		SelectionOrder:   append(make([]string, 0, len(s.order)), s.order...),
	}
	for _, k := range s.order {
		e := s.entries[k]
		switch e.item.Kind {
		case model.KindFile:
			snap.SelectedFiles = append(snap.SelectedFiles, model.NewPair(k, e.item.File))
		case model.KindURL:
			snap.SelectedURLs = append(snap.SelectedURLs, model.NewPair(k, e.item.URL))
		case model.KindNote:
			snap.SelectedNotes = append(snap.SelectedNotes, model.NewPair(k, e.item.Note))
		case model.KindSpecial:
			snap.SelectedSpecials = append(snap.SelectedSpecials, model.NewPair(k, e.item.Special))
		}
		snap.OutputContents = append(snap.OutputContents, model.NewPair(k, e.content))
	}
	return snap
}

// MergeResult reports what Merge or Replace did.
type MergeResult struct {
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Reasons []string `json:"reasons,omitempty"`
}

// Merge folds snap into the store. Entries overwrite live entries with the
// same key in place; keys new to the store are appended following the
// snapshot's order, then any complete entries the order omitted. Entries
// that are malformed, or lack either a classification or content, are
// skipped and counted; the rest of the snapshot still applies.
func (s *Store) Merge(snap *model.Snapshot) MergeResult {
	plan := planMerge(snap)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(plan)
}

// Replace empties the store and loads snap into it as one step.
func (s *Store) Replace(snap *model.Snapshot) MergeResult {
	plan := planMerge(snap)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return s.applyLocked(plan)
}

type mergePlan struct {
	entries map[string]entry
	order   []string
	result  MergeResult
}

func (p *mergePlan) skip(reason string) {
	p.result.Skipped++
	p.result.Reasons = append(p.result.Reasons, reason)
}

func planMerge(snap *model.Snapshot) *mergePlan {
	p := &mergePlan{entries: make(map[string]entry)}
	if snap == nil {
		return p
	}
	for _, reason := range snap.Malformed() {
		p.skip(reason)
	}

	items := make(map[string]model.Item)
	var seen []string
	classify := func(it model.Item) {
		if prev, ok := items[it.Key]; ok && prev.Kind != it.Kind {
			p.skip(fmt.Sprintf("%s: classified as both %s and %s, keeping %s", it.Key, prev.Kind, it.Kind, it.Kind))
		}
		if _, ok := items[it.Key]; !ok {
			seen = append(seen, it.Key)
		}
		items[it.Key] = it
	}

	for _, pair := range snap.SelectedFiles {
		meta, err := pair.FileMeta()
		if err != nil {
			p.skip(err.Error())
			continue
		}
		classify(model.Item{Key: pair.Key, Kind: model.KindFile, File: meta})
	}
	for _, pair := range snap.SelectedURLs {
		url, err := pair.String()
		if err != nil || url == "" {
			p.skip(fmt.Sprintf("%s: url value missing", pair.Key))
			continue
		}
		classify(model.Item{Key: pair.Key, Kind: model.KindURL, URL: url})
	}
	for _, pair := range snap.SelectedNotes {
		note, err := pair.String()
		if err != nil {
			p.skip(err.Error())
			continue
		}
		classify(model.Item{Key: pair.Key, Kind: model.KindNote, Note: note})
	}
	for _, pair := range snap.SelectedSpecials {
		sp, err := pair.Special()
		if err != nil {
			p.skip(err.Error())
			continue
		}
		classify(model.Item{Key: pair.Key, Kind: model.KindSpecial, Special: sp})
	}

	contents := make(map[string]string)
	for _, pair := range snap.OutputContents {
		text, err := pair.String()
		if err != nil {
			p.skip(err.Error())
			continue
		}
		contents[pair.Key] = text
		if _, ok := items[pair.Key]; !ok {
			p.skip(fmt.Sprintf("%s: content without a selection entry", pair.Key))
		}
	}

	for _, k := range seen {
		text, ok := contents[k]
		if !ok {
			p.skip(fmt.Sprintf("%s: selection entry without content", k))
			continue
		}
		p.entries[k] = entry{item: items[k], content: text}
	}

	queued := make(map[string]bool)
	for _, k := range snap.SelectionOrder {
		if queued[k] {
			continue
		}
		if _, ok := p.entries[k]; !ok {
			if _, classified := items[k]; !classified {
				if _, hasContent := contents[k]; !hasContent {
					p.skip(fmt.Sprintf("%s: ordered key without entry", k))
				}
			}
			continue
		}
		queued[k] = true
		p.order = append(p.order, k)
	}
	for _, k := range seen {
		if _, ok := p.entries[k]; ok && !queued[k] {
			queued[k] = true
			p.order = append(p.order, k)
		}
	}
	return p
}

func (s *Store) applyLocked(p *mergePlan) MergeResult {
	res := p.result
	for _, k := range p.order {
		e := p.entries[k]
		if s.putLocked(e.item, e.content, -1) {
			res.Added++
		} else {
			res.Updated++
		}
	}
	return res
}
