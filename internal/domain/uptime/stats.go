package uptime

// ComputeStats derives the aggregate view of h. It has no side effects.
//
// MonthUptime is computed over the retained history only, so it describes
// the sampled part of the retention window rather than a calendar month.
func ComputeStats(h HostHistory) Stats {
	s := Stats{Checks: h.Totals.Checks}

	if h.Totals.Checks > 0 {
		checks := float64(h.Totals.Checks)
		life := float64(h.Totals.Up) / checks * 100
		avg := float64(h.Totals.SumLatency) / checks
		s.LifeUptime = &life
		s.AvgLatency = &avg
	}

	if n := len(h.History); n > 0 {
		up := 0
		for _, r := range h.History {
			if r.Up {
				up++
			}
		}
		month := float64(up) / float64(n) * 100
		s.MonthUptime = &month

		last := h.History[n-1]
		ts, ms, lastUp := last.Timestamp, last.LatencyMs, last.Up
		s.LastTs = &ts
		s.LastMs = &ms
		s.LastUp = &lastUp
	}

	return s
}
