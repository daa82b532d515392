package performance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteOperationAggregates(t *testing.T) {
	tr := NewTracker(nil)

	m := tr.StartOperation(OpPreview, "p1")
	m.CacheHit = true
	tr.CompleteOperation(m)

	m = tr.StartOperation(OpPreview, "p1")
	m.SetError(errors.New("boom"))
	tr.CompleteOperation(m)
	tr.CompleteOperation(m)

	stats := tr.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, OpPreview, stats[0].Operation)
	assert.EqualValues(t, 2, stats[0].Count)
	assert.EqualValues(t, 1, stats[0].Failures)
	assert.InDelta(t, 0.5, stats[0].HitRatio(), 0.001)
	assert.Equal(t, 0, tr.GetOverallStats()["activeOperations"])
}

func TestSlowOperationRaisesAlert(t *testing.T) {
	cfg := DefaultTrackerConfig()
	cfg.Thresholds[OpIntents] = time.Millisecond
	cfg.CriticalFactor = 1000
	tr := NewTracker(cfg)

	m := tr.StartOperation(OpIntents, "p1")
	m.StartTime = m.StartTime.Add(-10 * time.Millisecond)
	tr.CompleteOperation(m)

	fast := tr.StartOperation(OpIntents, "p2")
	fast.StartTime = time.Now().Add(time.Hour)
	tr.CompleteOperation(fast)

	alerts := tr.GetAlerts("")
	require.Len(t, alerts, 1)
	assert.Equal(t, "p1", alerts[0].PageID)
	assert.Equal(t, AlertWarning, alerts[0].Severity)
	assert.Empty(t, tr.GetAlerts("p2"))
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	m := tr.StartOperation(OpRender, "p1")
	tr.CompleteOperation(m)
	assert.True(t, m.Completed)
	assert.Nil(t, tr.Stats())
}
