// Package logparse reconstructs step-bounded sections from the raw,
// timestamp-prefixed log text GitHub serves for a job. It never fails:
// malformed input degrades to fewer or coarser sections.
package logparse

import (
	"regexp"
	"strings"

	"github.com/kasli/gh-actions-panel/internal/model"
)

// Section is a named slice of cleaned log lines. Number is the 1-based
// order of appearance of the ##[group] marker; 0 is reserved for the
// synthetic "Setup" section holding lines outside any group.
type Section struct {
	Name   string
	Number int
	Lines  []string
}

const SetupSectionName = "Setup"

var (
	timestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T[\d:.]+Z\s*`)
	groupRE     = regexp.MustCompile(`##\[group\](.*)`)
	endGroupRE  = regexp.MustCompile(`##\[endgroup\]`)
)

// Parse splits raw log text into ordered sections. Lines matching
// ##[group]<name> open a named section, ##[endgroup] closes it, and
// anything outside groups accumulates into Setup sections with number 0.
// Timestamp prefixes are stripped; lines empty after stripping are dropped.
func Parse(text string) []Section {
	var sections []Section
	var current *Section
	groups := 0

	for _, line := range strings.Split(text, "\n") {
		if m := groupRE.FindStringSubmatch(line); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			groups++
			name := m[1]
			if name == "" {
				name = "Unknown Step"
			}
			current = &Section{Name: name, Number: groups}
			continue
		}
		if endGroupRE.MatchString(line) {
			if current != nil {
				sections = append(sections, *current)
				current = nil
			}
			continue
		}

		clean := StripTimestamp(line)
		if strings.TrimSpace(clean) == "" {
			continue
		}
		if current == nil {
			if strings.HasPrefix(line, "##[") {
				continue
			}
			current = &Section{Name: SetupSectionName, Number: 0}
		}
		current.Lines = append(current.Lines, clean)
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// LogsForStep returns the lines of the section matching the step, by
// bidirectional case-insensitive substring containment between section
// name and step name, first match winning. With no match it falls back to
// the whole cleaned log so the user still sees something.
func LogsForStep(text string, step model.Step) []string {
	stepName := strings.ToLower(step.Name)
	for _, s := range Parse(text) {
		sectionName := strings.ToLower(s.Name)
		if strings.Contains(sectionName, stepName) || strings.Contains(stepName, sectionName) {
			return s.Lines
		}
	}
	return CleanLines(text)
}

// CleanLines strips timestamps and drops empty lines and group markers,
// yielding the whole log as plain lines.
func CleanLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		clean := StripTimestamp(line)
		if strings.TrimSpace(clean) == "" || strings.HasPrefix(clean, "##[") {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// StripTimestamp removes the leading ISO-8601 timestamp GitHub prefixes
// to every log line, plus the whitespace after it.
func StripTimestamp(line string) string {
	return timestampRE.ReplaceAllString(line, "")
}
