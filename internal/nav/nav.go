// Package nav holds the pure navigation logic: view-mode transitions, the
// flattened job/step selection list, and run filtering. Keeping it free of
// rendering lets the keyboard semantics be tested directly.
package nav

import (
	"strconv"
	"strings"

	"github.com/kasli/gh-actions-panel/internal/model"
)

type ViewMode int

const (
	ViewList ViewMode = iota
	ViewRunDetail
	ViewJobLogs
)

// Event is a navigation action. View modes change only through Next at
// explicit action points, never as a side effect of data refresh.
type Event int

const (
	EventOpenRun Event = iota
	EventOpenLogs
	EventBack
	EventClearRun // selected run cleared; always forces the list view
)

func Next(mode ViewMode, ev Event) ViewMode {
	switch ev {
	case EventClearRun:
		return ViewList
	case EventOpenRun:
		if mode == ViewList {
			return ViewRunDetail
		}
	case EventOpenLogs:
		if mode == ViewRunDetail {
			return ViewJobLogs
		}
	case EventBack:
		switch mode {
		case ViewJobLogs:
			return ViewRunDetail
		case ViewRunDetail:
			return ViewList
		}
	}
	return mode
}

type ItemKind int

const (
	ItemJob ItemKind = iota
	ItemStep
)

// SelectionItem is one entry in the flattened job/step list: either a job
// or a step of a job, distinguished by Kind. StepIndex is meaningful only
// for ItemStep.
type SelectionItem struct {
	Kind      ItemKind
	JobIndex  int
	StepIndex int
}

// Flatten interleaves each job with its steps in step-number order,
// producing the linear sequence a single cursor moves over.
func Flatten(jobs []model.Job) []SelectionItem {
	var items []SelectionItem
	for ji, job := range jobs {
		items = append(items, SelectionItem{Kind: ItemJob, JobIndex: ji})
		for si := range job.Steps {
			items = append(items, SelectionItem{Kind: ItemStep, JobIndex: ji, StepIndex: si})
		}
	}
	return items
}

// FilterRuns returns the runs whose name, branch, or decimal run number
// contains the filter text, case-insensitively. An empty filter matches
// everything.
func FilterRuns(runs []model.Run, filter string) []model.Run {
	if filter == "" {
		return runs
	}
	needle := strings.ToLower(filter)
	var out []model.Run
	for _, r := range runs {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.HeadBranch), needle) ||
			strings.Contains(strconv.Itoa(r.RunNumber), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Clamp bounds a selection index to [0, length-1], or 0 for an empty
// sequence.
func Clamp(index, length int) int {
	if length <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

// CycleIndex moves an index by delta with wraparound over length entries.
func CycleIndex(index, delta, length int) int {
	if length <= 0 {
		return 0
	}
	next := (index + delta) % length
	if next < 0 {
		next += length
	}
	return next
}
