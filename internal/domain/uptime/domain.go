package uptime

import "time"

const (
	DefaultRetentionWindow = 30 * 24 * time.Hour
	DefaultMaxEntries      = 43200
	DefaultExpiry          = 45 * 24 * time.Hour
)

type ProbeRecord struct {
	Timestamp int64 `json:"ts"` // unix ms, probe start
	Up        bool  `json:"up"`
	LatencyMs int64 `json:"ms"`
}

// Totals are lifetime counters; retention never touches them.
type Totals struct {
	Checks     int64 `json:"checks"`
	Up         int64 `json:"up"`
	SumLatency int64 `json:"sumLatency"`
}

// HostHistory is the persisted state of one host. The zero value is the
// state of a host that was never probed.
type HostHistory struct {
	History []ProbeRecord `json:"history"`
	Totals  Totals        `json:"totals"`
}

type RetentionPolicy struct {
	Window     time.Duration
	MaxEntries int
	Expiry     time.Duration
}

func DefaultRetentionPolicy() RetentionPolicy {
	return RetentionPolicy{
		Window:     DefaultRetentionWindow,
		MaxEntries: DefaultMaxEntries,
		Expiry:     DefaultExpiry,
	}
}

// Revision identifies the stored version of a HostHistory. Zero means the
// history was not found in the store.
type Revision int64

type Stats struct {
	Checks      int64    `json:"checks"`
	LifeUptime  *float64 `json:"lifeUptime"`
	AvgLatency  *float64 `json:"avgLatency"`
	MonthUptime *float64 `json:"monthUptime"`
	LastTs      *int64   `json:"lastTs"`
	LastMs      *int64   `json:"lastMs"`
	LastUp      *bool    `json:"lastUp"`
}
