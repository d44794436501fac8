package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPurger struct {
	calls   int
	deleted int64
	err     error
}

func (p *stubPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls++
	return p.deleted, p.err
}

func TestAnalyticsPurgeScheduler_RunOnce(t *testing.T) {
	p := &stubPurger{deleted: 12}
	s := NewAnalyticsPurgeScheduler(p, "")

	assert.Equal(t, int64(12), s.RunOnce(context.Background()))
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, DefaultPurgeSchedule, s.schedule)

	p.err = errors.New("db down")
	assert.Zero(t, s.RunOnce(context.Background()))
	assert.Equal(t, 2, p.calls)
}

func TestAnalyticsPurgeScheduler_Start(t *testing.T) {
	s := NewAnalyticsPurgeScheduler(&stubPurger{}, "@every 1h")
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()

	bad := NewAnalyticsPurgeScheduler(&stubPurger{}, "not a schedule")
	assert.Error(t, bad.Start())
}
