package memory

import "time"

// Entry is a single memory record. Entries are owned by exactly one Memory
// instance and never shared across agents.
type Entry struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Timestamp  time.Time      `json:"timestamp"`
	Importance int            `json:"importance"`
	Tags       []string       `json:"tags"`
	Metadata   map[string]any `json:"metadata"`
}

// hasAnyTag reports whether the entry carries at least one of the given tags.
func (e Entry) hasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range e.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// clampImportance bounds importance to the 1-5 scale.
func clampImportance(importance int) int {
	if importance < 1 {
		return 1
	}
	if importance > 5 {
		return 5
	}
	return importance
}
