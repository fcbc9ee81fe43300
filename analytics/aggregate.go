package analytics

import "sort"

const (
	// MaxDwell caps a single dwell sample in seconds so tab-left-open gaps
	// don't skew page averages.
	MaxDwell = 1800

	topListLimit       = 15
	perPageSeriesLimit = 6
	sourcesByPageLimit = 10
	sankeyEdgeLimit    = 50
	funnelHops         = 3
)

// transition is a directed edge between two consecutive pages in a session.
type transition struct {
	From string
	To   string
}

// sessionStats holds the per-page tallies produced by walking every
// reconstructed session in order.
type sessionStats struct {
	firstPage     map[string]int
	lastPage      map[string]int
	bounces       map[string]int
	dwellTotals   map[string]int64
	dwellSamples  map[string]int
	sessionVisits map[string]int
	transitions   map[transition]int
}

// summarizeSessions walks each session's events in order: first page gets a
// start vote, last page an end vote, a single-event session is a bounce for
// its page. Adjacent pairs accumulate clamped dwell time against the earlier
// page and count one transition. Distinct pages in a session bump
// sessionVisits exactly once each.
func summarizeSessions(sessions []*Session) *sessionStats {
	stats := &sessionStats{
		firstPage:     make(map[string]int),
		lastPage:      make(map[string]int),
		bounces:       make(map[string]int),
		dwellTotals:   make(map[string]int64),
		dwellSamples:  make(map[string]int),
		sessionVisits: make(map[string]int),
		transitions:   make(map[transition]int),
	}
	for _, sess := range sessions {
		total := len(sess.Events)
		if total == 0 {
			continue
		}
		stats.firstPage[sess.Events[0].Page]++
		stats.lastPage[sess.Events[total-1].Page]++
		if total == 1 {
			stats.bounces[sess.Events[0].Page]++
		}
		unique := make(map[string]struct{}, total)
		for i, hit := range sess.Events {
			unique[hit.Page] = struct{}{}
			if i == total-1 {
				continue
			}
			next := sess.Events[i+1]
			if diff := int64(next.Time.Sub(hit.Time).Seconds()); diff > 0 {
				if diff > MaxDwell {
					diff = MaxDwell
				}
				stats.dwellTotals[hit.Page] += diff
				stats.dwellSamples[hit.Page]++
			}
			stats.transitions[transition{From: hit.Page, To: next.Page}]++
		}
		for page := range unique {
			stats.sessionVisits[page]++
		}
	}
	return stats
}

type countEntry struct {
	Key   string
	Count int
}

// sortedCounts orders entries by count descending, key ascending. The
// explicit tie-break keeps list output deterministic.
func sortedCounts(m map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for key, count := range m {
		entries = append(entries, countEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

func topCounts(m map[string]int, limit int) []countEntry {
	entries := sortedCounts(m)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

type metricEntry struct {
	Key   string
	Value float64
}

func sortedMetrics(m map[string]float64, limit int) []metricEntry {
	entries := make([]metricEntry, 0, len(m))
	for key, value := range m {
		entries = append(entries, metricEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

type transitionEntry struct {
	transition
	Count int
}

func sortedTransitions(m map[transition]int) []transitionEntry {
	entries := make([]transitionEntry, 0, len(m))
	for tr, count := range m {
		entries = append(entries, transitionEntry{transition: tr, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		if entries[i].From != entries[j].From {
			return entries[i].From < entries[j].From
		}
		return entries[i].To < entries[j].To
	})
	return entries
}

// buildSankey turns the heaviest transitions into an index-linked node/edge
// set for the navigation diagram.
func buildSankey(transitions map[transition]int, limit int) Sankey {
	entries := sortedTransitions(transitions)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	nodes := []string{}
	links := []SankeyLink{}
	index := make(map[string]int)
	resolve := func(page string) int {
		if i, ok := index[page]; ok {
			return i
		}
		i := len(nodes)
		index[page] = i
		nodes = append(nodes, page)
		return i
	}
	for _, entry := range entries {
		links = append(links, SankeyLink{
			Source: resolve(entry.From),
			Target: resolve(entry.To),
			Value:  entry.Count,
		})
	}
	return Sankey{Nodes: nodes, Links: links}
}

// buildFunnel greedily walks from the most common session-start page along
// the highest-count outgoing transition to a page not yet in the funnel,
// for at most funnelHops extra steps.
func buildFunnel(firstPage map[string]int, transitions map[transition]int) Funnel {
	steps := []FunnelStep{}
	starts := sortedCounts(firstPage)
	if len(starts) == 0 {
		return Funnel{Steps: steps}
	}
	current := starts[0].Key
	steps = append(steps, FunnelStep{Label: current, Value: starts[0].Count})
	used := map[string]bool{current: true}
	for hop := 0; hop < funnelHops; hop++ {
		candidates := make(map[string]int)
		for tr, count := range transitions {
			if tr.From == current && !used[tr.To] {
				candidates[tr.To] += count
			}
		}
		if len(candidates) == 0 {
			break
		}
		best := sortedCounts(candidates)[0]
		steps = append(steps, FunnelStep{Label: best.Key, Value: best.Count})
		used[best.Key] = true
		current = best.Key
	}
	return Funnel{Steps: steps}
}
