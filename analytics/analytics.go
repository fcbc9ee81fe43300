// Package analytics turns raw page-access-log rows into the dashboard
// payload: reconstructed visitor sessions, page popularity and engagement,
// navigation flow, device/source/geo breakdowns and a metric correlation
// matrix. Pure in-memory computation; the caller supplies the rows.
package analytics

import (
	"sort"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

const dayFormat = "2006-01-02"

// Result is the assembled analytics payload. Every list field is a JSON
// array, never null, so an empty range still renders a complete dashboard.
type Result struct {
	RowsProcessed  int            `json:"rowsProcessed"`
	Popularity     Popularity     `json:"popularity"`
	Traffic        Traffic        `json:"traffic"`
	Engagement     Engagement     `json:"engagement"`
	Navigation     Navigation     `json:"navigation"`
	DevicesSources DevicesSources `json:"devicesSources"`
	Geography      Geography      `json:"geography"`
	Advanced       Advanced       `json:"advanced"`
}

type PageVisits struct {
	Page   string `json:"page"`
	Visits int    `json:"visits"`
}

type Popularity struct {
	Pages    []PageVisits `json:"pages"`
	Sessions []PageVisits `json:"sessions"`
}

type DailyPoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type SeriesPoint struct {
	Date   string `json:"date"`
	Visits int    `json:"visits"`
}

type PageSeries struct {
	Page   string        `json:"page"`
	Series []SeriesPoint `json:"series"`
}

type Traffic struct {
	DailyTotals []DailyPoint `json:"dailyTotals"`
	PerPage     []PageSeries `json:"perPage"`
}

type PageSeconds struct {
	Page    string  `json:"page"`
	Seconds float64 `json:"seconds"`
}

type PageRate struct {
	Page string  `json:"page"`
	Rate float64 `json:"rate"`
}

type PageCount struct {
	Page  string `json:"page"`
	Count int    `json:"count"`
}

type Engagement struct {
	AvgTime    []PageSeconds `json:"avgTime"`
	BounceRate []PageRate    `json:"bounceRate"`
	ExitPages  []PageCount   `json:"exitPages"`
}

type SankeyLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

type Sankey struct {
	Nodes []string     `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

type FunnelStep struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Funnel struct {
	Steps []FunnelStep `json:"steps"`
}

type Navigation struct {
	Sankey Sankey `json:"sankey"`
	Funnel Funnel `json:"funnel"`
}

type DeviceVisits struct {
	Device string `json:"device"`
	Visits int    `json:"visits"`
}

type SourceVisits struct {
	Source string `json:"source"`
	Visits int    `json:"visits"`
}

type PageSourceBreakdown struct {
	Page      string         `json:"page"`
	Breakdown map[string]int `json:"breakdown"`
}

type DevicesSources struct {
	Devices       []DeviceVisits        `json:"devices"`
	Sources       []SourceVisits        `json:"sources"`
	SourcesByPage []PageSourceBreakdown `json:"sourcesByPage"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

type Geography struct {
	Countries []CountryCount `json:"countries"`
	Regions   []RegionCount  `json:"regions"`
}

type CorrelationMatrix struct {
	Labels []string    `json:"labels"`
	Matrix [][]float64 `json:"matrix"`
}

type ScatterPoint struct {
	Page       string  `json:"page"`
	AvgTime    float64 `json:"avgTime"`
	BounceRate float64 `json:"bounceRate"`
	ExitRate   float64 `json:"exitRate"`
	Visits     int     `json:"visits"`
}

type Advanced struct {
	CorrelationMatrix CorrelationMatrix `json:"correlationMatrix"`
	Scatter           []ScatterPoint    `json:"scatter"`
}

// BuildPageAnalytics runs the whole pipeline over rows already ordered by
// timestamp ascending: per-row tallies and session reconstruction in one
// pass, then the per-session walk, derived metrics and payload assembly.
// It is a pure function of its input; degenerate data produces zeros and
// empty lists rather than errors.
func BuildPageAnalytics(rows []models.AccessEvent) Result {
	pageCounts := make(map[string]int)
	dailyTotals := make(map[string]int)
	dailyPages := make(map[string]map[string]int)
	deviceCounts := make(map[string]int)
	sourceCounts := make(map[string]int)
	sourceByPage := make(map[string]map[string]int)
	countryCounts := make(map[string]int)
	regionCounts := make(map[string]int)
	tracker := newSessionTracker()
	rowsProcessed := 0

	for _, row := range rows {
		if row.RequestURI == nil || row.AccessedAt.IsZero() {
			continue
		}
		page := NormalizePage(*row.RequestURI)
		rowsProcessed++

		pageCounts[page]++
		day := row.AccessedAt.Format(dayFormat)
		dailyTotals[day]++
		if dailyPages[day] == nil {
			dailyPages[day] = make(map[string]int)
		}
		dailyPages[day][page]++

		deviceCounts[DetectDevice(row)]++
		source := DetectSource(row.Referer, row.TrafficSource)
		sourceCounts[source]++
		if sourceByPage[page] == nil {
			sourceByPage[page] = make(map[string]int)
		}
		sourceByPage[page][source]++

		if row.Country != "" {
			countryCounts[row.Country]++
		}
		if row.Region != "" {
			regionCounts[row.Region]++
		}

		ip := row.IPAddress
		if ip == "" {
			ip = "unknown"
		}
		tracker.Observe(ip, row.SessionID, page, row.AccessedAt)
	}

	stats := summarizeSessions(tracker.Sessions())

	avgTime := make(map[string]float64)
	for page, total := range stats.dwellTotals {
		if samples := stats.dwellSamples[page]; samples > 0 {
			avgTime[page] = float64(total) / float64(samples)
		}
	}
	bounceRates := make(map[string]float64)
	for page, starts := range stats.firstPage {
		if starts > 0 {
			bounceRates[page] = float64(stats.bounces[page]) / float64(starts)
		}
	}
	exitCounts := make(map[string]int, len(stats.lastPage))
	exitRates := make(map[string]float64, len(stats.lastPage))
	for page, ends := range stats.lastPage {
		exitCounts[page] = ends
		if visits := stats.sessionVisits[page]; visits > 0 {
			exitRates[page] = float64(ends) / float64(visits)
		}
	}

	topPages := make([]string, 0, topListLimit)
	for _, entry := range topCounts(pageCounts, topListLimit) {
		topPages = append(topPages, entry.Key)
	}

	scatter := buildScatter(avgTime, bounceRates, exitRates, pageCounts)

	return Result{
		RowsProcessed: rowsProcessed,
		Popularity: Popularity{
			Pages:    toPageVisits(topCounts(pageCounts, topListLimit)),
			Sessions: toPageVisits(topCounts(stats.sessionVisits, topListLimit)),
		},
		Traffic: Traffic{
			DailyTotals: buildDailySeries(dailyTotals),
			PerPage:     buildPerPageSeries(dailyPages, topPages),
		},
		Engagement: Engagement{
			AvgTime:    toPageSeconds(sortedMetrics(avgTime, topListLimit)),
			BounceRate: toPageRates(sortedMetrics(bounceRates, topListLimit)),
			ExitPages:  toPageCounts(topCounts(exitCounts, topListLimit)),
		},
		Navigation: Navigation{
			Sankey: buildSankey(stats.transitions, sankeyEdgeLimit),
			Funnel: buildFunnel(stats.firstPage, stats.transitions),
		},
		DevicesSources: DevicesSources{
			Devices:       toDeviceVisits(sortedCounts(deviceCounts)),
			Sources:       toSourceVisits(sortedCounts(sourceCounts)),
			SourcesByPage: buildSourcesByPage(sourceByPage, topPages, sourcesByPageLimit),
		},
		Geography: Geography{
			Countries: toCountryCounts(sortedCounts(countryCounts)),
			Regions:   toRegionCounts(sortedCounts(regionCounts)),
		},
		Advanced: Advanced{
			CorrelationMatrix: buildCorrelationMatrix(scatter),
			Scatter:           scatter,
		},
	}
}

func buildDailySeries(dailyTotals map[string]int) []DailyPoint {
	days := sortedKeys(dailyTotals)
	series := make([]DailyPoint, 0, len(days))
	for _, day := range days {
		series = append(series, DailyPoint{Date: day, Total: dailyTotals[day]})
	}
	return series
}

// buildPerPageSeries emits one point per observed day for each of the top
// pages, zero-filled for days the page had no hits.
func buildPerPageSeries(dailyPages map[string]map[string]int, topPages []string) []PageSeries {
	if len(topPages) > perPageSeriesLimit {
		topPages = topPages[:perPageSeriesLimit]
	}
	days := sortedKeys(dailyPages)
	result := make([]PageSeries, 0, len(topPages))
	for _, page := range topPages {
		series := make([]SeriesPoint, 0, len(days))
		for _, day := range days {
			series = append(series, SeriesPoint{Date: day, Visits: dailyPages[day][page]})
		}
		result = append(result, PageSeries{Page: page, Series: series})
	}
	return result
}

// buildSourcesByPage keeps the dashboard's page ordering: pages ranked in the
// overall top list come first in that order, the rest follow by total hit
// count descending.
func buildSourcesByPage(sourceByPage map[string]map[string]int, topPages []string, limit int) []PageSourceBreakdown {
	rank := make(map[string]int, len(topPages))
	for i, page := range topPages {
		rank[page] = i
	}
	pages := make([]string, 0, len(sourceByPage))
	totals := make(map[string]int, len(sourceByPage))
	for page, breakdown := range sourceByPage {
		pages = append(pages, page)
		for _, count := range breakdown {
			totals[page] += count
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		ri, iRanked := rank[pages[i]]
		rj, jRanked := rank[pages[j]]
		if !iRanked {
			ri = int(^uint(0) >> 1)
		}
		if !jRanked {
			rj = int(^uint(0) >> 1)
		}
		if ri != rj {
			return ri < rj
		}
		if totals[pages[i]] != totals[pages[j]] {
			return totals[pages[i]] > totals[pages[j]]
		}
		return pages[i] < pages[j]
	})
	if len(pages) > limit {
		pages = pages[:limit]
	}
	list := make([]PageSourceBreakdown, 0, len(pages))
	for _, page := range pages {
		list = append(list, PageSourceBreakdown{Page: page, Breakdown: sourceByPage[page]})
	}
	return list
}

// buildScatter emits one point per page that has at least one dwell sample;
// bounce and exit rates default to 0 for pages never seen at a session
// boundary.
func buildScatter(avgTime, bounceRates, exitRates map[string]float64, pageCounts map[string]int) []ScatterPoint {
	pages := make([]string, 0, len(avgTime))
	for page := range avgTime {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	points := make([]ScatterPoint, 0, len(pages))
	for _, page := range pages {
		points = append(points, ScatterPoint{
			Page:       page,
			AvgTime:    avgTime[page],
			BounceRate: bounceRates[page],
			ExitRate:   exitRates[page],
			Visits:     pageCounts[page],
		})
	}
	return points
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func toPageVisits(entries []countEntry) []PageVisits {
	list := make([]PageVisits, 0, len(entries))
	for _, e := range entries {
		list = append(list, PageVisits{Page: e.Key, Visits: e.Count})
	}
	return list
}

func toPageCounts(entries []countEntry) []PageCount {
	list := make([]PageCount, 0, len(entries))
	for _, e := range entries {
		list = append(list, PageCount{Page: e.Key, Count: e.Count})
	}
	return list
}

func toPageSeconds(entries []metricEntry) []PageSeconds {
	list := make([]PageSeconds, 0, len(entries))
	for _, e := range entries {
		list = append(list, PageSeconds{Page: e.Key, Seconds: e.Value})
	}
	return list
}

func toPageRates(entries []metricEntry) []PageRate {
	list := make([]PageRate, 0, len(entries))
	for _, e := range entries {
		list = append(list, PageRate{Page: e.Key, Rate: e.Value})
	}
	return list
}

func toDeviceVisits(entries []countEntry) []DeviceVisits {
	list := make([]DeviceVisits, 0, len(entries))
	for _, e := range entries {
		list = append(list, DeviceVisits{Device: e.Key, Visits: e.Count})
	}
	return list
}

func toSourceVisits(entries []countEntry) []SourceVisits {
	list := make([]SourceVisits, 0, len(entries))
	for _, e := range entries {
		list = append(list, SourceVisits{Source: e.Key, Visits: e.Count})
	}
	return list
}

func toCountryCounts(entries []countEntry) []CountryCount {
	list := make([]CountryCount, 0, len(entries))
	for _, e := range entries {
		list = append(list, CountryCount{Country: e.Key, Count: e.Count})
	}
	return list
}

func toRegionCounts(entries []countEntry) []RegionCount {
	list := make([]RegionCount, 0, len(entries))
	for _, e := range entries {
		list = append(list, RegionCount{Region: e.Key, Count: e.Count})
	}
	return list
}
