package theme

import (
	"context"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// EventBrandingUpdated is the event name pushed to live clients.
const EventBrandingUpdated = "branding_updated"

// Broadcaster fans an event out to connected clients.
type Broadcaster interface {
	Broadcast(event string, payload interface{}) error
}

// BroadcastSink forwards palettes to live clients as branding_updated events.
type BroadcastSink struct {
	b Broadcaster
}

func NewBroadcastSink(b Broadcaster) *BroadcastSink {
	return &BroadcastSink{b: b}
}

func (s *BroadcastSink) ApplyTheme(_ context.Context, p Palette) error {
	return s.b.Broadcast(EventBrandingUpdated, p)
}

// StylesheetSink keeps the rendered CSS for the current palette.
type StylesheetSink struct {
	mu   sync.RWMutex
	css  []byte
	etag string
}

// NewStylesheetSink starts out serving initial.
func NewStylesheetSink(initial Palette) *StylesheetSink {
	s := &StylesheetSink{}
	s.set(initial)
	return s
}

func (s *StylesheetSink) ApplyTheme(_ context.Context, p Palette) error {
	s.set(p)
	return nil
}

func (s *StylesheetSink) set(p Palette) {
	css := []byte(p.CSS())
	etag := `"` + strconv.FormatUint(xxhash.Sum64(css), 16) + `"`

	s.mu.Lock()
	s.css = css
	s.etag = etag
	s.mu.Unlock()
}

// Stylesheet returns the CSS body and its strong ETag.
func (s *StylesheetSink) Stylesheet() ([]byte, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css, s.etag
}
