package uptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_EmptyHistory(t *testing.T) {
	now := time.UnixMilli(1000)

	h := HostHistory{}.Apply(ProbeRecord{Timestamp: 1000, Up: true, LatencyMs: 120}, now, DefaultRetentionPolicy())

	require.Len(t, h.History, 1)
	assert.Equal(t, ProbeRecord{Timestamp: 1000, Up: true, LatencyMs: 120}, h.History[0])
	assert.Equal(t, Totals{Checks: 1, Up: 1, SumLatency: 120}, h.Totals)
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	now := time.Now()
	orig := HostHistory{
		History: []ProbeRecord{{Timestamp: now.UnixMilli() - 10, Up: true, LatencyMs: 5}},
		Totals:  Totals{Checks: 1, Up: 1, SumLatency: 5},
	}

	_ = orig.Apply(ProbeRecord{Timestamp: now.UnixMilli(), Up: false, LatencyMs: 7}, now, DefaultRetentionPolicy())

	assert.Len(t, orig.History, 1)
	assert.Equal(t, int64(1), orig.Totals.Checks)
}

func TestApply_DropsEntriesOutsideWindow(t *testing.T) {
	p := DefaultRetentionPolicy()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	h := HostHistory{
		History: []ProbeRecord{
			{Timestamp: now.Add(-31 * day).UnixMilli(), Up: true, LatencyMs: 1},
			{Timestamp: now.Add(-30 * day).UnixMilli(), Up: false, LatencyMs: 2},
			{Timestamp: now.Add(-29 * day).UnixMilli(), Up: true, LatencyMs: 3},
		},
		Totals: Totals{Checks: 3, Up: 2, SumLatency: 6},
	}

	got := h.Apply(ProbeRecord{Timestamp: now.UnixMilli(), Up: true, LatencyMs: 4}, now, p)

	require.Len(t, got.History, 3)
	cutoff := now.Add(-p.Window).UnixMilli()
	for _, r := range got.History {
		assert.GreaterOrEqual(t, r.Timestamp, cutoff)
	}
	assert.Equal(t, Totals{Checks: 4, Up: 3, SumLatency: 10}, got.Totals)
}

func TestApply_CapsToMostRecent(t *testing.T) {
	p := RetentionPolicy{Window: time.Hour, MaxEntries: 3}
	now := time.UnixMilli(1_000_000)

	var h HostHistory
	for i := int64(0); i < 10; i++ {
		h = h.Apply(ProbeRecord{Timestamp: 990_000 + i, Up: i%2 == 0, LatencyMs: i}, now, p)
	}

	require.Len(t, h.History, 3)
	assert.Equal(t, []int64{990_007, 990_008, 990_009},
		[]int64{h.History[0].Timestamp, h.History[1].Timestamp, h.History[2].Timestamp})
	assert.Equal(t, int64(10), h.Totals.Checks)
	assert.Equal(t, int64(5), h.Totals.Up)
	assert.Equal(t, int64(45), h.Totals.SumLatency)
}

func TestApply_DefaultCap(t *testing.T) {
	p := DefaultRetentionPolicy()
	now := time.Now()
	start := now.Add(-time.Hour).UnixMilli()

	records := make([]ProbeRecord, DefaultMaxEntries)
	for i := range records {
		records[i] = ProbeRecord{Timestamp: start + int64(i), Up: true}
	}
	h := HostHistory{History: records, Totals: Totals{Checks: DefaultMaxEntries, Up: DefaultMaxEntries}}

	got := h.Apply(ProbeRecord{Timestamp: now.UnixMilli(), Up: false, LatencyMs: 9}, now, p)

	require.Len(t, got.History, DefaultMaxEntries)
	assert.Equal(t, start+1, got.History[0].Timestamp)
	last, ok := got.Last()
	require.True(t, ok)
	assert.Equal(t, now.UnixMilli(), last.Timestamp)
}

func TestApply_TotalsInvariants(t *testing.T) {
	p := RetentionPolicy{Window: 10 * time.Millisecond, MaxEntries: 4}
	var h HostHistory

	for i := int64(0); i < 50; i++ {
		before := h.Totals
		now := time.UnixMilli(i * 5)
		h = h.Apply(ProbeRecord{Timestamp: i * 5, Up: i%3 != 0, LatencyMs: i}, now, p)

		assert.Equal(t, before.Checks+1, h.Totals.Checks)
		assert.GreaterOrEqual(t, h.Totals.Up, before.Up)
		assert.GreaterOrEqual(t, h.Totals.SumLatency, before.SumLatency)
		assert.LessOrEqual(t, h.Totals.Up, h.Totals.Checks)
		assert.GreaterOrEqual(t, h.Totals.Checks, int64(len(h.History)))
		assert.LessOrEqual(t, len(h.History), p.MaxEntries)
	}
}

func TestLast_Empty(t *testing.T) {
	_, ok := HostHistory{}.Last()
	assert.False(t, ok)
}
