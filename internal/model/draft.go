package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSubTaskDraft parses "title" or "title:energy". A trailing ":N"
// is only treated as energy when N is an integer, so titles may contain
// colons.
func ParseSubTaskDraft(s string) (SubTaskDraft, error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return SubTaskDraft{Title: s}, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return SubTaskDraft{Title: s}, nil
	}
	if n <= 0 {
		return SubTaskDraft{}, fmt.Errorf("sub-task %q: %w", s, ErrInvalidEnergy)
	}
	return SubTaskDraft{Title: strings.TrimSpace(s[:i]), EnergyCost: n}, nil
}

// ParseSubTaskDrafts parses one draft per line, skipping blank lines.
func ParseSubTaskDrafts(text string) ([]SubTaskDraft, error) {
	var drafts []SubTaskDraft
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, err := ParseSubTaskDraft(line)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
