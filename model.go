package main

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the configuration document.
const DateLayout = "2006-01-02"

// RangePadding is added before the earliest and after the latest relevant date.
const RangePadding = 30 * 24 * time.Hour

// Status is the overall review state of a paper. Values are the display
// strings persisted in the configuration document.
type Status string

const (
	StatusSubmitted   Status = "已提交"
	StatusWithEditor  Status = "With Editor"
	StatusUnderReview Status = "审稿中"
	StatusRevising    Status = "返修中"
	StatusAccepted    Status = "已接收"
	StatusRejected    Status = "已拒稿"
)

// Statuses lists every status in form order.
var Statuses = []Status{
	StatusSubmitted,
	StatusWithEditor,
	StatusUnderReview,
	StatusRevising,
	StatusAccepted,
	StatusRejected,
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// StageType names a review stage. Values are the display strings persisted
// in the configuration document; strings outside the enumeration are kept
// verbatim.
type StageType string

const (
	StageSubmitToEditor StageType = "提交→With Editor"
	StageWithEditor     StageType = "With Editor"
	StageReview1        StageType = "第1轮审稿"
	StageRevise         StageType = "返修期"
	StageReview2        StageType = "第2轮审稿"
	StageReview3        StageType = "第3轮审稿"
	StageReview4        StageType = "第4轮审稿"
)

// StageTypes is the canonical stage ordering used by the form and the legend.
var StageTypes = []StageType{
	StageSubmitToEditor,
	StageWithEditor,
	StageReview1,
	StageRevise,
	StageReview2,
	StageReview3,
	StageReview4,
}

// IsValid reports whether t is one of the canonical stage types.
func (t StageType) IsValid() bool {
	_, ok := stageCategories[t]
	return ok
}

// LegendLabel is the text shown for t in the chart legend.
func (t StageType) LegendLabel() string {
	if t == StageSubmitToEditor {
		return "提交 → With Editor"
	}
	return string(t)
}

// Category is the color class a stage is drawn with.
type Category int

const (
	CategoryNeutral Category = iota
	CategorySubmit
	CategoryEditor
	CategoryReview1
	CategoryRevise
	CategoryReview2
	CategoryReview3
	CategoryReview4
)

var categoryNames = map[Category]string{
	CategoryNeutral: "neutral",
	CategorySubmit:  "submit",
	CategoryEditor:  "editor",
	CategoryReview1: "review1",
	CategoryRevise:  "revise",
	CategoryReview2: "review2",
	CategoryReview3: "review3",
	CategoryReview4: "review4",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "neutral"
}

var stageCategories = map[StageType]Category{
	StageSubmitToEditor: CategorySubmit,
	StageWithEditor:     CategoryEditor,
	StageReview1:        CategoryReview1,
	StageRevise:         CategoryRevise,
	StageReview2:        CategoryReview2,
	StageReview3:        CategoryReview3,
	StageReview4:        CategoryReview4,
}

// categoryRule matches free-form stage labels that are not part of the
// enumeration. Rules are checked in order and the first match wins.
type categoryRule struct {
	category Category
	keywords []string
}

var categoryRules = []categoryRule{
	{CategorySubmit, []string{"提交", "submit"}},
	{CategoryEditor, []string{"editor", "编辑"}},
	{CategoryReview1, []string{"第1轮", "一审"}},
	{CategoryRevise, []string{"返修"}},
	{CategoryReview2, []string{"第2轮", "二审"}},
	{CategoryReview3, []string{"第3轮", "三审"}},
	{CategoryReview4, []string{"第4轮", "四审"}},
}

// Category returns the color class for t. Canonical types map through a
// fixed table; other labels fall back to ordered keyword matching.
func (t StageType) Category() Category {
	if c, ok := stageCategories[t]; ok {
		return c
	}
	return classifyLabel(string(t))
}

func classifyLabel(label string) Category {
	lower := strings.ToLower(label)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryNeutral
}

// Stage is one dated sub-interval of a paper's review lifecycle.
type Stage struct {
	Type      StageType
	Start     time.Time
	End       time.Time
	ShowLabel bool
}

// DurationDays returns End - Start in whole days. Zero and negative values
// are returned as-is.
func (s Stage) DurationDays() int {
	return int(math.Round(s.End.Sub(s.Start).Hours() / 24))
}

// Paper is a submission and its ordered review stages.
type Paper struct {
	Name       string
	SubmitDate time.Time
	Status     Status
	Stages     []Stage
}

// TotalPeriod is the sum of all stage durations in days. Gaps and overlaps
// between stages are not accounted for.
func (p Paper) TotalPeriod() int {
	total := 0
	for _, s := range p.Stages {
		total += s.DurationDays()
	}
	return total
}

// IsOngoing reports whether stage i is the still-open final stage.
func (p Paper) IsOngoing(i int) bool {
	return i == len(p.Stages)-1 && p.Status != StatusAccepted
}

// EndOngoing sets the end of the open final stage to the calendar date of
// now. Accepted papers and papers without stages are left unchanged.
func (p *Paper) EndOngoing(now time.Time) {
	if last := len(p.Stages) - 1; last >= 0 && p.IsOngoing(last) {
		p.Stages[last].End = dateOnly(now)
	}
}

// LastEnd returns the end date of the final stage, or the submit date when
// the paper has no stages.
func (p Paper) LastEnd() time.Time {
	if len(p.Stages) == 0 {
		return p.SubmitDate
	}
	return p.Stages[len(p.Stages)-1].End
}

// DisplayEnd is the end boundary shown in the axis label. Papers that are
// not accepted are still in progress, so their boundary is now.
func (p Paper) DisplayEnd(now time.Time) time.Time {
	if p.Status == StatusAccepted {
		return p.LastEnd()
	}
	return now
}

// Timeline is the snapshot rendered in one pass.
type Timeline struct {
	Papers []Paper
	Now    time.Time
}

// NewTimeline copies papers so later edits by the caller do not leak into
// the render pass.
func NewTimeline(papers []Paper, now time.Time) *Timeline {
	cp := make([]Paper, len(papers))
	for i, p := range papers {
		cp[i] = p
		cp[i].Stages = append([]Stage(nil), p.Stages...)
	}
	return &Timeline{Papers: cp, Now: now}
}

// Range returns the padded chart x-range. Relevant dates are every submit
// date and every stage end date.
func (t *Timeline) Range() (time.Time, time.Time) {
	var lo, hi time.Time
	seen := false
	visit := func(d time.Time) {
		if !seen {
			lo, hi, seen = d, d, true
			return
		}
		if d.Before(lo) {
			lo = d
		}
		if d.After(hi) {
			hi = d
		}
	}
	for _, p := range t.Papers {
		visit(p.SubmitDate)
		for _, s := range p.Stages {
			visit(s.End)
		}
	}
	if !seen {
		today := dateOnly(t.Now)
		return today.Add(-RangePadding), today.Add(RangePadding)
	}
	return lo.Add(-RangePadding), hi.Add(RangePadding)
}

// dateOnly truncates t to its calendar date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustDate(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}
