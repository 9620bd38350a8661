package main

import (
	"sort"
)

// trendWindowSize is how many recent entries the chart and trend delta cover.
const trendWindowSize = 7

// weightInKG returns the entry's weight normalized to kilograms so mixed-unit
// histories chart and diff correctly.
func (w weightEntry) weightInKG() float64 {
	if w.Unit == "lbs" {
		return w.Weight / lbsPerKG
	}
	return w.Weight
}

// deriveWeightTrend turns a weight log history into the chart series, the
// short-term trend delta, the current weight, and a reverse-chronological
// list view.
//
// The input is copied before any ordering work — callers keep their slice
// untouched. Ordering is by log date ascending with ties kept in insertion
// order (stable sort on the already id-ordered copy). The window is the last
// min(7, n) entries; trend is window[last] − window[first] in kg, zero when
// the window has fewer than two entries; current is the last entry's weight
// or nil for an empty history.
func deriveWeightTrend(history []weightEntry) weightTrendView {
	asc := make([]weightEntry, len(history))
	copy(asc, history)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].LogDate.Time.Before(asc[j].LogDate.Time)
	})

	view := weightTrendView{
		Chart:       weightChart{Labels: []string{}, Values: []float64{}},
		HistoryDesc: reverseEntries(asc),
	}
	if len(asc) == 0 {
		return view
	}

	window := asc
	if len(window) > trendWindowSize {
		window = window[len(window)-trendWindowSize:]
	}

	for _, e := range window {
		view.Chart.Labels = append(view.Chart.Labels, e.LogDate.Time.Format("Jan 2"))
		view.Chart.Values = append(view.Chart.Values, e.weightInKG())
	}
	if len(window) >= 2 {
		view.TrendKG = window[len(window)-1].weightInKG() - window[0].weightInKG()
	}

	current := asc[len(asc)-1].weightInKG()
	view.CurrentKG = &current

	return view
}

// reverseEntries returns a reversed copy for list display. A pure reordering —
// the ascending slice passed in is left as-is.
func reverseEntries(asc []weightEntry) []weightEntry {
	desc := make([]weightEntry, len(asc))
	for i, e := range asc {
		desc[len(asc)-1-i] = e
	}
	return desc
}
