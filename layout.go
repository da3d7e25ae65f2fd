package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Row geometry in chart units. Each paper reserves RowUnits vertically.
const (
	RowUnits       = 3.0
	rowOffset      = 0.5
	bandBelow      = 0.5
	bandAbove      = 2.0
	arrowOffset    = 0.3
	badgeOffset    = 0.6
	tickOffset     = 0.35
	todayLabelGap  = 0.5
	maxLegendCols  = 7
	minorTickEvery = 14 * 24 * time.Hour
)

// Bar is one stage drawn as a horizontal bar.
type Bar struct {
	Type      StageType
	Category  Category
	Color     string
	Start     time.Time
	End       time.Time // Start plus the duration in whole days
	Y         float64   // Bottom edge
	Height    float64
	Days      int
	Label     string
	ShowLabel bool
	Ongoing   bool
}

// Center is the midpoint of the bar, where its label sits.
func (b Bar) Center() (time.Time, float64) {
	return b.Start.Add(b.End.Sub(b.Start) / 2), b.Y + b.Height/2
}

// Row holds everything drawn for one paper.
type Row struct {
	Index       int
	Y           float64 // Row anchor; the bar band starts here
	BandLow     float64
	BandHigh    float64
	BandColor   string
	Bars        []Bar
	HasArrow    bool
	ArrowStart  time.Time
	ArrowEnd    time.Time
	ArrowY      float64
	TotalDays   int
	BadgeCenter time.Time
	BadgeY      float64
	BadgeText   string
	TickY       float64
	TickLines   []string
}

// LegendEntry is one swatch of the legend.
type LegendEntry struct {
	Type  StageType
	Label string
	Color string
}

// Tick is a labeled x-axis position.
type Tick struct {
	At    time.Time
	Label string
}

// Layout is the fully positioned chart, independent of the drawing backend.
type Layout struct {
	Start         time.Time
	End           time.Time
	YMin          float64
	YMax          float64
	Rows          []Row
	Legend        []LegendEntry
	LegendColumns int
	MajorTicks    []Tick
	MinorTicks    []time.Time
	Now           time.Time
	ShowToday     bool
	TodayLabelY   float64
}

// rowAnchor returns the y anchor of the paper at idx out of n papers.
// Earlier papers sit higher on the chart.
func rowAnchor(idx, n int) float64 {
	return float64(n-idx)*RowUnits - rowOffset
}

// calculateLayout positions every element of the chart for one timeline.
func calculateLayout(tl *Timeline, config Config, log zerolog.Logger) Layout {
	start, end := tl.Range()
	n := len(tl.Papers)

	layout := Layout{
		Start:       start,
		End:         end,
		YMin:        0,
		YMax:        float64(n)*RowUnits + 1,
		Now:         tl.Now,
		ShowToday:   todayVisible(start, end, tl.Now),
		TodayLabelY: float64(n)*RowUnits + todayLabelGap,
		MajorTicks:  calculateMonthTicks(start, end, config.Labels.MonthFormat),
		MinorTicks:  calculateMinorTicks(start, end),
	}

	log.Debug().
		Time("start", start).
		Time("end", end).
		Int("papers", n).
		Bool("today", layout.ShowToday).
		Msg("chart range")

	for idx, p := range tl.Papers {
		row := calculateRow(idx, n, p, tl.Now, config)
		log.Debug().
			Int("row", idx).
			Float64("y", row.Y).
			Int("stages", len(row.Bars)).
			Int("total_days", row.TotalDays).
			Msg("row placed")
		layout.Rows = append(layout.Rows, row)
	}

	layout.Legend, layout.LegendColumns = calculateLegend(tl.Papers, config)
	return layout
}

func calculateRow(idx, n int, p Paper, now time.Time, config Config) Row {
	y := rowAnchor(idx, n)
	total := p.TotalPeriod()

	row := Row{
		Index:       idx,
		Y:           y,
		BandLow:     y - bandBelow,
		BandHigh:    y + bandAbove,
		BandColor:   config.bandColor(idx),
		ArrowY:      y - arrowOffset,
		TotalDays:   total,
		BadgeCenter: p.SubmitDate.Add(time.Duration(float64(total) * 12 * float64(time.Hour))),
		BadgeY:      y - badgeOffset,
		BadgeText:   fmt.Sprintf(config.Labels.TotalPeriod, total),
		TickY:       y + tickOffset,
		TickLines:   calculateTickLines(p, now, config),
	}

	for i, s := range p.Stages {
		days := s.DurationDays()
		cat := s.Type.Category()
		row.Bars = append(row.Bars, Bar{
			Type:      s.Type,
			Category:  cat,
			Color:     config.stageColor(cat),
			Start:     s.Start,
			End:       s.Start.AddDate(0, 0, days),
			Y:         y,
			Height:    config.Bars.Height,
			Days:      days,
			Label:     fmt.Sprintf(config.Labels.Duration, days),
			ShowLabel: s.ShowLabel,
			Ongoing:   p.IsOngoing(i),
		})
	}

	if len(p.Stages) > 0 {
		row.HasArrow = true
		row.ArrowStart = p.SubmitDate
		row.ArrowEnd = p.LastEnd()
	}
	return row
}

// calculateTickLines builds the three-line y-axis label: the name as
// entered, the date span and the status.
func calculateTickLines(p Paper, now time.Time, config Config) []string {
	span := fmt.Sprintf("%s - %s",
		p.SubmitDate.Format(config.Labels.TickDateFormat),
		p.DisplayEnd(now).Format(config.Labels.TickDateFormat))
	return []string{p.Name, span, fmt.Sprintf("(%s)", p.Status)}
}

// calculateLegend lists the canonical stage types present in the data, in
// canonical order.
func calculateLegend(papers []Paper, config Config) ([]LegendEntry, int) {
	used := make(map[StageType]bool)
	for _, p := range papers {
		for _, s := range p.Stages {
			used[s.Type] = true
		}
	}

	var entries []LegendEntry
	for _, t := range StageTypes {
		if !used[t] {
			continue
		}
		entries = append(entries, LegendEntry{
			Type:  t,
			Label: t.LegendLabel(),
			Color: config.stageColor(t.Category()),
		})
	}
	return entries, min(len(entries), maxLegendCols)
}

// calculateMonthTicks places a major tick on the first day of every month
// inside [start, end].
func calculateMonthTicks(start, end time.Time, format string) []Tick {
	var ticks []Tick
	y, m, _ := start.Date()
	t := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	if t.Before(start) {
		t = t.AddDate(0, 1, 0)
	}
	for !t.After(end) {
		ticks = append(ticks, Tick{At: t, Label: t.Format(format)})
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}

// calculateMinorTicks places a tick on every second Tuesday inside
// [start, end].
func calculateMinorTicks(start, end time.Time) []time.Time {
	t := dateOnly(start)
	if t.Before(start) {
		t = t.AddDate(0, 0, 1)
	}
	for t.Weekday() != time.Tuesday {
		t = t.AddDate(0, 0, 1)
	}
	var ticks []time.Time
	for !t.After(end) {
		ticks = append(ticks, t)
		t = t.Add(minorTickEvery)
	}
	return ticks
}

// todayVisible reports whether now falls inside the chart range, bounds
// included.
func todayVisible(start, end, now time.Time) bool {
	return !now.Before(start) && !now.After(end)
}
