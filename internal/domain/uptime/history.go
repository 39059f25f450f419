package uptime

import "time"

// Apply appends rec, drops entries older than now-p.Window, keeps at most
// p.MaxEntries of the most recent entries and bumps the lifetime totals.
// The receiver is not modified.
func (h HostHistory) Apply(rec ProbeRecord, now time.Time, p RetentionPolicy) HostHistory {
	cutoff := now.UnixMilli() - p.Window.Milliseconds()

	kept := make([]ProbeRecord, 0, len(h.History)+1)
	for _, r := range h.History {
		if r.Timestamp >= cutoff {
			kept = append(kept, r)
		}
	}
	if rec.Timestamp >= cutoff {
		kept = append(kept, rec)
	}

	if p.MaxEntries > 0 && len(kept) > p.MaxEntries {
		kept = append([]ProbeRecord(nil), kept[len(kept)-p.MaxEntries:]...)
	}

	totals := h.Totals
	totals.Checks++
	if rec.Up {
		totals.Up++
	}
	totals.SumLatency += rec.LatencyMs

	return HostHistory{History: kept, Totals: totals}
}

func (h HostHistory) Last() (ProbeRecord, bool) {
	if len(h.History) == 0 {
		return ProbeRecord{}, false
	}
	return h.History[len(h.History)-1], true
}
