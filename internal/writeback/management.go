package writeback

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/agentic-research/microcopy/api"
	"github.com/agentic-research/microcopy/internal/contentful"
)

// Target record fields.
const (
	FieldVersion = "version"
	FieldData    = "data"
)

// EntryStore reads, updates and publishes backend entries.
type EntryStore interface {
	GetEntry(ctx context.Context, id string) (*contentful.Entry, error)
	UpdateEntry(ctx context.Context, entry *contentful.Entry) (*contentful.Entry, error)
	PublishEntry(ctx context.Context, entry *contentful.Entry) (*contentful.Entry, error)
}

// ManagementSink stores the feed of one locale in the version and data
// fields of a fixed backend entry and publishes it.
type ManagementSink struct {
	store   EntryStore
	entryID string
	locale  string
	logger  *zap.Logger
}

// NewManagementSink returns a sink writing feeds of locale into entryID.
// The fields are written under the same locale.
func NewManagementSink(store EntryStore, entryID, locale string, logger *zap.Logger) *ManagementSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManagementSink{store: store, entryID: entryID, locale: locale, logger: logger}
}

func (s *ManagementSink) Name() string { return "management" }

// Wants reports whether locale is the locale this sink publishes.
func (s *ManagementSink) Wants(locale string) bool { return locale == s.locale }

func (s *ManagementSink) Write(ctx context.Context, feed api.Feed) error {
	// The record stores the version as a number; without a numeric prefix
	// the field is cleared and the content is still published.
	var version any
	if v, ok := leadingFloat(feed.Version); ok {
		version = v
	} else {
		s.logger.Warn("version has no numeric value, clearing record version",
			zap.String("version", feed.Version),
			zap.String("entry", s.entryID),
		)
	}

	entry, err := s.store.GetEntry(ctx, s.entryID)
	if err != nil {
		return err
	}
	entry.SetField(FieldVersion, s.locale, version)
	entry.SetField(FieldData, s.locale, feed.Content)

	updated, err := s.store.UpdateEntry(ctx, entry)
	if err != nil {
		if contentful.IsAPIError(err, contentful.ErrIDVersionMismatch) {
			return fmt.Errorf("entry %s changed during write-back: %w", s.entryID, err)
		}
		return err
	}
	if _, err := s.store.PublishEntry(ctx, updated); err != nil {
		return err
	}
	return nil
}

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// leadingFloat parses the longest decimal prefix of s after leading
// whitespace, so "1.2.3" yields 1.2 and "42px" yields 42. It reports false
// when s has no such prefix or the value is not finite.
func leadingFloat(s string) (float64, bool) {
	m := numericPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
