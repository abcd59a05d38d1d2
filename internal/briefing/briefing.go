// Package briefing coordinates one editing session: it turns user actions
// into content producer calls and applies the results to the selection
// store. A producer failure never adds an item.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/thisismy/internal/content"
	"github.com/rcliao/thisismy/internal/model"
	"github.com/rcliao/thisismy/internal/selection"
	"github.com/rcliao/thisismy/internal/walker"
)

var (
	ErrInvalidURL = errors.New("invalid URL")
	ErrEmptyNote  = errors.New("note is empty")
)

const (
	pageIcon      = "📰"
	selectionIcon = "✂️"
)

// Service applies user actions to a selection store.
type Service struct {
	Selection *selection.Store
	Producer  content.Producer
	Walker    *walker.Walker
	Logger    zerolog.Logger
	Now       func() time.Time
}

// New returns a service over sel. w may be nil when paths are never added.
func New(sel *selection.Store, producer content.Producer, w *walker.Walker, logger zerolog.Logger) *Service {
	return &Service{
		Selection: sel,
		Producer:  producer,
		Walker:    w,
		Logger:    logger,
		Now:       time.Now,
	}
}

// AddPaths walks each path in turn. With insertAt >= 0 the new files are
// placed from that index on, in argument order. A path that cannot be
// walked is logged and reported; the remaining paths are still added.
func (s *Service) AddPaths(ctx context.Context, paths []string, insertAt int) (walker.Result, error) {
	var total walker.Result
	if s.Walker == nil {
		return total, errors.New("no walker configured")
	}
	var errs []error
	for _, p := range paths {
		res, err := s.Walker.Walk(ctx, p, walker.Options{InsertAt: insertAt})
		total.Added += res.Added
		total.Refreshed += res.Refreshed
		total.Ignored += res.Ignored
		total.Hidden += res.Hidden
		total.Failed += res.Failed
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			s.Logger.Warn().Err(err).Str("path", p).Msg("path not added")
			errs = append(errs, err)
			continue
		}
		if insertAt >= 0 {
			insertAt += int(res.Added)
		}
		s.Logger.Info().Str("path", p).Int64("added", res.Added).Int64("refreshed", res.Refreshed).
			Int64("ignored", res.Ignored).Msg("path added")
	}
	return total, errors.Join(errs...)
}

// AddURL fetches rawURL and adds it keyed by the URL itself. Adding the
// same URL again refreshes its content in place.
func (s *Service) AddURL(ctx context.Context, rawURL string) (bool, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !content.ValidURL(rawURL) {
		return false, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	text, err := s.Producer.FetchURLContent(ctx, rawURL)
	if err != nil {
		s.Logger.Warn().Err(err).Str("url", rawURL).Msg("url not added")
		return false, err
	}
	created := s.Selection.AddURL(rawURL, rawURL, text)
	s.Logger.Info().Str("url", rawURL).Bool("new", created).Msg("url added")
	return created, nil
}

// AddNote adds a note under a fresh timestamp key and returns the key.
func (s *Service) AddNote(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyNote
	}
	key := s.freshKey("note")
	s.Selection.AddNote(key, text, content.NoteContent(text))
	s.Logger.Info().Str("key", key).Msg("note added")
	return key, nil
}

// CapturePage adds the captured text of the page at url. Capturing the
// same page again replaces the earlier capture in place.
func (s *Service) CapturePage(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: page URL is required", ErrInvalidURL)
	}
	text, err := s.Producer.CapturePageText(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Str("url", url).Msg("page not captured")
		return "", err
	}
	key := model.PageKey(url)
	s.Selection.AddSpecial(key, model.Special{Name: "Current Page Content from " + url, Icon: pageIcon}, text)
	s.Logger.Info().Str("key", key).Msg("page captured")
	return key, nil
}

// CaptureSelection adds the current selection. With a source the capture
// is keyed by it and refreshes in place; without one every capture is a
// new item.
func (s *Service) CaptureSelection(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	text, err := s.Producer.CaptureSelectionText(ctx)
	if err != nil {
		s.Logger.Warn().Err(err).Str("source", source).Msg("selection not captured")
		return "", err
	}
	var key, name string
	if source != "" {
		key = model.SelectionKey(source)
		name = "Selected Content from " + source
	} else {
		key = s.freshKey("selection")
		name = "Selected content"
	}
	s.Selection.AddSpecial(key, model.Special{Name: name, Icon: selectionIcon}, text)
	s.Logger.Info().Str("key", key).Msg("selection captured")
	return key, nil
}

// Load folds snap into the session. replace discards the current items
// first; otherwise live items with the same key are overwritten and new
// keys are appended. Skipped entries are logged.
func (s *Service) Load(snap *model.Snapshot, replace bool, origin string) selection.MergeResult {
	var res selection.MergeResult
	if replace {
		res = s.Selection.Replace(snap)
	} else {
		res = s.Selection.Merge(snap)
	}
	if res.Skipped > 0 {
		s.Logger.Warn().Str("from", origin).Int("skipped", res.Skipped).Strs("reasons", res.Reasons).
			Msg("briefing entries skipped")
	}
	s.Logger.Info().Str("from", origin).Bool("replace", replace).Int("added", res.Added).
		Int("updated", res.Updated).Msg("briefing loaded")
	return res
}

// freshKey returns a "<kind>:<millis>" key not yet in the store. Keys made
// within the same millisecond are moved forward.
func (s *Service) freshKey(kind string) string {
	t := s.Now()
	for {
		key := model.SpecialKey(kind, t)
		if !s.Selection.Has(key) {
			return key
		}
		t = t.Add(time.Millisecond)
	}
}
