// Package validate holds the key format checks, enum checks and tag
// normalization shared by the journal packages.
package validate

import (
	"regexp"
	"strings"
	"time"

	"journal/internal/model"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearRe  = regexp.MustCompile(`^\d{4}$`)
)

// IsValidDate reports whether s is a real calendar date written YYYY-MM-DD.
func IsValidDate(s string) bool {
	if !dateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsValidMonth reports whether s is YYYY-MM with a month from 01 to 12.
func IsValidMonth(s string) bool {
	if !monthRe.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01", s)
	return err == nil
}

// IsValidYear reports whether s is exactly four digits.
func IsValidYear(s string) bool {
	return yearRe.MatchString(s)
}

func IsValidPriority(p model.Priority) bool {
	switch p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return true
	}
	return false
}

func IsValidStatus(s model.Status) bool {
	switch s {
	case model.StatusTodo, model.StatusInProgress, model.StatusCompleted, model.StatusCancelled:
		return true
	}
	return false
}

func IsValidFrequency(f model.HabitFrequency) bool {
	switch f {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyMonthly:
		return true
	}
	return false
}

// NormalizeTag lowercases a tag. Tags are compared only in this form.
func NormalizeTag(tag string) string {
	return strings.ToLower(tag)
}

// NormalizeTags lowercases every tag and drops case-insensitive duplicates,
// keeping first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
