package theme

import (
	"context"
	"errors"
	"sync"

	"github.com/donde/storefront-backend/pkg/logger"
)

// Sink receives palettes to apply, e.g. a stylesheet or connected clients.
type Sink interface {
	ApplyTheme(ctx context.Context, p Palette) error
}

type sinkState struct {
	sink    Sink
	applied bool
	last    Palette
}

// Applier resolves palettes and forwards them to its sinks. A sink is only
// called again once the palette differs from the last one it accepted.
type Applier struct {
	mu       sync.Mutex
	resolver Resolver
	sinks    []*sinkState
	current  Palette
}

func NewApplier(resolver Resolver, sinks ...Sink) *Applier {
	a := &Applier{resolver: resolver, current: resolver.Defaults}
	for _, s := range sinks {
		a.sinks = append(a.sinks, &sinkState{sink: s})
	}
	return a
}

// AddSink registers s; it receives the current palette on the next Apply.
func (a *Applier) AddSink(s Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sinks = append(a.sinks, &sinkState{sink: s})
}

// Current returns the palette most recently applied.
func (a *Applier) Current() Palette {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Resolver exposes the precedence rules used by Apply.
func (a *Applier) Resolver() Resolver {
	return a.resolver
}

// Apply resolves src and applies the result.
func (a *Applier) Apply(ctx context.Context, src Sources) (Palette, error) {
	p := a.resolver.Resolve(src)
	return p, a.ApplyPalette(ctx, p)
}

// ApplyPalette pushes p to every sink that has not already accepted it.
// Sink failures are joined; a failed sink is retried on the next call.
func (a *Applier) ApplyPalette(ctx context.Context, p Palette) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.current = p

	var errs []error
	for _, st := range a.sinks {
		if st.applied && st.last == p {
			continue
		}
		if err := st.sink.ApplyTheme(ctx, p); err != nil {
			logger.Warn("Theme sink failed", logger.Fields{
				"primary": p.Primary,
				"error":   err.Error(),
			})
			errs = append(errs, err)
			continue
		}
		st.applied = true
		st.last = p
	}

	return errors.Join(errs...)
}
