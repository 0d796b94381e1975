package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationJob(t *testing.T) {
	t.Parallel()

	job, err := NewGenerationJob(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 0, job.CurrentMonth)
	assert.NotNil(t, job.GeneratedEntries)
	assert.Empty(t, job.GeneratedEntries)

	_, err = NewGenerationJob(uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrEmptyJobBookID)
}

func TestLeaseHeldElsewhere(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	timeout := 5 * time.Minute

	fresh := now.Add(-time.Minute)
	stale := now.Add(-timeout - time.Second)

	tests := []struct {
		name     string
		lockedAt *time.Time
		lockedBy string
		worker   string
		want     bool
	}{
		{"no lease", nil, "", "worker-a", false},
		{"own fresh lease is re-entrant", &fresh, "worker-a", "worker-a", false},
		{"foreign fresh lease blocks", &fresh, "worker-b", "worker-a", true},
		{"foreign stale lease is reclaimable", &stale, "worker-b", "worker-a", false},
		{"lease exactly at timeout still blocks", ptrTime(now.Add(-timeout)), "worker-b", "worker-a", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			j := &GenerationJob{LockedAt: tc.lockedAt, LockedBy: tc.lockedBy}
			assert.Equal(t, tc.want, j.LeaseHeldElsewhere(tc.worker, now, timeout))
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestTerminallyFailed(t *testing.T) {
	t.Parallel()

	j := &GenerationJob{Status: JobStatusFailed, RetryCount: 3}
	assert.True(t, j.TerminallyFailed(3))

	// A failed status with budget left means "retrying", not terminal.
	j = &GenerationJob{Status: JobStatusFailed, RetryCount: 2}
	assert.False(t, j.TerminallyFailed(3))

	j = &GenerationJob{Status: JobStatusProcessing, RetryCount: 3}
	assert.False(t, j.TerminallyFailed(3))
}

func TestProgressForMonth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ProgressForMonth(0))
	assert.Equal(t, 8, ProgressForMonth(1))
	assert.Equal(t, 50, ProgressForMonth(6))
	assert.Equal(t, 92, ProgressForMonth(11))
	assert.Equal(t, 100, ProgressForMonth(12))

	// Monotonic over the full range.
	prev := -1
	for m := 0; m <= 12; m++ {
		p := ProgressForMonth(m)
		assert.Greater(t, p, prev)
		prev = p
	}
}

func TestAllMonthsDone(t *testing.T) {
	t.Parallel()

	assert.False(t, (&GenerationJob{CurrentMonth: 11}).AllMonthsDone())
	assert.True(t, (&GenerationJob{CurrentMonth: 12}).AllMonthsDone())
}
