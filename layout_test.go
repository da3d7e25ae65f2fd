package main

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateLayoutScenario(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	layout := calculateLayout(NewTimeline([]Paper{scenarioPaper()}, now), getDefaultConfig(), zerolog.Nop())

	if !layout.Start.Equal(mustDate("2025-05-23")) || !layout.End.Equal(mustDate("2025-10-30")) {
		t.Fatalf("range = %s..%s", layout.Start.Format(DateLayout), layout.End.Format(DateLayout))
	}
	if !approx(layout.YMax, 4) {
		t.Errorf("YMax = %v, want 4", layout.YMax)
	}
	if len(layout.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(layout.Rows))
	}

	row := layout.Rows[0]
	if !approx(row.Y, 2.5) || !approx(row.BandLow, 2.0) || !approx(row.BandHigh, 4.5) {
		t.Errorf("row geometry y=%v band=[%v, %v]", row.Y, row.BandLow, row.BandHigh)
	}
	if !approx(row.ArrowY, 2.2) || !approx(row.BadgeY, 1.9) || !approx(row.TickY, 2.85) {
		t.Errorf("annotation geometry arrow=%v badge=%v tick=%v", row.ArrowY, row.BadgeY, row.TickY)
	}

	var days []int
	for _, b := range row.Bars {
		days = append(days, b.Days)
	}
	if !reflect.DeepEqual(days, []int{28, 4, 68}) {
		t.Errorf("durations = %v, want [28 4 68]", days)
	}
	if row.Bars[2].Label != "68天" {
		t.Errorf("bar label = %q, want 68天", row.Bars[2].Label)
	}
	if !row.Bars[2].Ongoing || row.Bars[1].Ongoing {
		t.Error("only the final stage of a paper under review should be ongoing")
	}
	if !row.Bars[2].End.Equal(mustDate("2025-09-30")) {
		t.Errorf("bar end = %s", row.Bars[2].End.Format(DateLayout))
	}

	if row.TotalDays != 100 || row.BadgeText != "总周期: 100天" {
		t.Errorf("total = %d (%q), want 100", row.TotalDays, row.BadgeText)
	}
	if !row.BadgeCenter.Equal(mustDate("2025-08-11")) {
		t.Errorf("badge center = %s, want 2025-08-11", row.BadgeCenter)
	}
	if !row.HasArrow || !row.ArrowStart.Equal(mustDate("2025-06-22")) || !row.ArrowEnd.Equal(mustDate("2025-09-30")) {
		t.Errorf("arrow = %v %s..%s", row.HasArrow, row.ArrowStart, row.ArrowEnd)
	}

	wantLines := []string{"论文1", "2025.06.22 - 2026.10.19", "(审稿中)"}
	if !reflect.DeepEqual(row.TickLines, wantLines) {
		t.Errorf("tick lines = %q, want %q", row.TickLines, wantLines)
	}

	if layout.ShowToday {
		t.Error("today is outside the range and should not be shown")
	}
}

func TestBadgeCenterKeepsHalfDays(t *testing.T) {
	p := Paper{
		SubmitDate: mustDate("2025-01-01"),
		Status:     StatusAccepted,
		Stages:     []Stage{{Start: mustDate("2025-01-01"), End: mustDate("2025-01-06")}},
	}
	row := calculateRow(0, 1, p, time.Now(), getDefaultConfig())
	want := mustDate("2025-01-01").Add(60 * time.Hour)
	if !row.BadgeCenter.Equal(want) {
		t.Errorf("badge center = %s, want %s", row.BadgeCenter, want)
	}
}

func TestRowAnchorsStackTopDown(t *testing.T) {
	want := []float64{8.5, 5.5, 2.5}
	for idx, w := range want {
		if got := rowAnchor(idx, 3); !approx(got, w) {
			t.Errorf("rowAnchor(%d, 3) = %v, want %v", idx, got, w)
		}
	}
}

func TestRowBandColorsCycle(t *testing.T) {
	cfg := getDefaultConfig()
	papers := make([]Paper, 6)
	for i := range papers {
		papers[i] = scenarioPaper()
	}
	layout := calculateLayout(NewTimeline(papers, time.Now()), cfg, zerolog.Nop())
	if layout.Rows[0].BandColor != "#FADBD8" || layout.Rows[5].BandColor != "#FADBD8" {
		t.Errorf("band colors = %s, %s", layout.Rows[0].BandColor, layout.Rows[5].BandColor)
	}
	if layout.Rows[1].BandColor != "#D6EAF8" {
		t.Errorf("second band color = %s", layout.Rows[1].BandColor)
	}
}

func TestBarColorsComeFromCategory(t *testing.T) {
	p := scenarioPaper()
	p.Stages = append(p.Stages, Stage{Type: "Proofs", Start: mustDate("2025-09-30"), End: mustDate("2025-10-02")})
	row := calculateRow(0, 1, p, time.Now(), getDefaultConfig())

	want := []string{"#3498DB", "#E74C3C", "#2ECC71", "#95A5A6"}
	for i, b := range row.Bars {
		if b.Color != want[i] {
			t.Errorf("bar %d color = %s, want %s", i, b.Color, want[i])
		}
	}
}

func TestLegendOnlyListsUsedTypes(t *testing.T) {
	p := Paper{
		SubmitDate: mustDate("2025-01-01"),
		Stages: []Stage{
			{Type: StageReview1, Start: mustDate("2025-01-10"), End: mustDate("2025-02-01")},
			{Type: StageSubmitToEditor, Start: mustDate("2025-01-01"), End: mustDate("2025-01-10")},
			{Type: StageReview1, Start: mustDate("2025-02-01"), End: mustDate("2025-03-01")},
		},
	}
	entries, cols := calculateLegend([]Paper{p}, getDefaultConfig())

	if len(entries) != 2 || cols != 2 {
		t.Fatalf("legend has %d entries in %d columns, want 2 and 2", len(entries), cols)
	}
	if entries[0].Type != StageSubmitToEditor || entries[1].Type != StageReview1 {
		t.Errorf("legend order = %s, %s", entries[0].Type, entries[1].Type)
	}
	if entries[0].Label != "提交 → With Editor" {
		t.Errorf("legend label = %q", entries[0].Label)
	}
}

func TestLegendSkipsUnknownTypes(t *testing.T) {
	p := Paper{Stages: []Stage{{Type: "Proofs"}}}
	entries, cols := calculateLegend([]Paper{p}, getDefaultConfig())
	if len(entries) != 0 || cols != 0 {
		t.Errorf("legend = %v (%d columns), want empty", entries, cols)
	}
}

func TestLegendAllTypes(t *testing.T) {
	var stages []Stage
	for i := len(StageTypes) - 1; i >= 0; i-- {
		stages = append(stages, Stage{Type: StageTypes[i]})
	}
	entries, cols := calculateLegend([]Paper{{Stages: stages}}, getDefaultConfig())
	if cols != 7 || len(entries) != 7 {
		t.Fatalf("legend has %d entries in %d columns, want 7", len(entries), cols)
	}
	for i, e := range entries {
		if e.Type != StageTypes[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Type, StageTypes[i])
		}
	}
}

func TestTodayVisible(t *testing.T) {
	start, end := mustDate("2025-05-23"), mustDate("2025-10-30")
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"inside", mustDate("2025-08-01").Add(10 * time.Hour), true},
		{"at start", start, true},
		{"at end", end, true},
		{"before", start.Add(-time.Second), false},
		{"after", end.Add(time.Second), false},
	}
	for _, tt := range tests {
		if got := todayVisible(start, end, tt.now); got != tt.want {
			t.Errorf("%s: todayVisible = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCalculateLayoutShowsTodayInsideRange(t *testing.T) {
	now := mustDate("2025-08-01").Add(9 * time.Hour)
	layout := calculateLayout(NewTimeline([]Paper{scenarioPaper()}, now), getDefaultConfig(), zerolog.Nop())
	if !layout.ShowToday {
		t.Error("today inside the range should be shown")
	}
	if !approx(layout.TodayLabelY, 3.5) {
		t.Errorf("today label y = %v, want 3.5", layout.TodayLabelY)
	}
}

func TestCalculateMonthTicks(t *testing.T) {
	ticks := calculateMonthTicks(mustDate("2025-05-23"), mustDate("2025-10-30"), "2006年01月")
	if len(ticks) != 5 {
		t.Fatalf("expected 5 month ticks, got %d", len(ticks))
	}
	if ticks[0].Label != "2025年06月" || ticks[4].Label != "2025年10月" {
		t.Errorf("tick labels = %q .. %q", ticks[0].Label, ticks[4].Label)
	}

	ticks = calculateMonthTicks(mustDate("2025-06-01"), mustDate("2025-07-01"), "2006年01月")
	if len(ticks) != 2 {
		t.Errorf("month starts on both bounds should give 2 ticks, got %d", len(ticks))
	}
}

func TestCalculateMinorTicks(t *testing.T) {
	start, end := mustDate("2025-05-23"), mustDate("2025-10-30")
	ticks := calculateMinorTicks(start, end)
	if len(ticks) == 0 {
		t.Fatal("expected minor ticks")
	}
	if !ticks[0].Equal(mustDate("2025-05-27")) {
		t.Errorf("first minor tick = %s, want 2025-05-27", ticks[0].Format(DateLayout))
	}
	for i, tick := range ticks {
		if tick.Weekday() != time.Tuesday {
			t.Errorf("tick %s is a %s", tick.Format(DateLayout), tick.Weekday())
		}
		if tick.Before(start) || tick.After(end) {
			t.Errorf("tick %s outside range", tick.Format(DateLayout))
		}
		if i > 0 && tick.Sub(ticks[i-1]) != 14*24*time.Hour {
			t.Errorf("ticks %d and %d are not two weeks apart", i-1, i)
		}
	}
}

func TestCalculateLayoutDegenerateInput(t *testing.T) {
	papers := []Paper{
		{Name: "empty", SubmitDate: mustDate("2025-01-01"), Status: StatusSubmitted},
		{
			Name:       "backwards",
			SubmitDate: mustDate("2025-01-01"),
			Status:     StatusAccepted,
			Stages:     []Stage{{Type: StageReview1, Start: mustDate("2025-02-01"), End: mustDate("2025-01-20"), ShowLabel: true}},
		},
	}
	layout := calculateLayout(NewTimeline(papers, time.Now()), getDefaultConfig(), zerolog.Nop())

	if layout.Rows[0].HasArrow || len(layout.Rows[0].Bars) != 0 {
		t.Error("a paper without stages should have no bars or arrow")
	}
	bar := layout.Rows[1].Bars[0]
	if bar.Days != -12 || bar.Label != "-12天" {
		t.Errorf("negative bar = %d %q", bar.Days, bar.Label)
	}
	if layout.Rows[1].TotalDays != -12 {
		t.Errorf("total = %d, want -12", layout.Rows[1].TotalDays)
	}
}

func TestTickLinesKeepNameVerbatim(t *testing.T) {
	p := scenarioPaper()
	p.Name = "Deep  graph learning:   a very long survey of message passing networks"
	p.Status = StatusAccepted
	lines := calculateTickLines(p, time.Now(), getDefaultConfig())

	want := []string{p.Name, "2025.06.22 - 2025.09.30", "(已接收)"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("tick lines = %q, want %q", lines, want)
	}
}
