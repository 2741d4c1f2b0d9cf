package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// document is the persisted memory shape. Timestamps serialize as ISO-8601
// via encoding/json's time.Time handling.
type document struct {
	AgentName     string         `json:"agent_name"`
	ShortTerm     []Entry        `json:"short_term"`
	LongTerm      []Entry        `json:"long_term"`
	WorkingMemory map[string]any `json:"working_memory"`
	SavedAt       time.Time      `json:"saved_at"`
}

// SaveToFile serializes both tiers plus working memory to path, creating
// parent directories as needed. Write failures propagate to the caller.
func (m *Memory) SaveToFile(path string) error {
	m.mu.Lock()
	doc := document{
		AgentName:     m.agentName,
		ShortTerm:     append([]Entry(nil), m.shortTerm...),
		LongTerm:      append([]Entry(nil), m.longTerm...),
		WorkingMemory: m.working,
		SavedAt:       time.Now(),
	}
	if doc.ShortTerm == nil {
		doc.ShortTerm = []Entry{}
	}
	if doc.LongTerm == nil {
		doc.LongTerm = []Entry{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create memory dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	m.opts.Logger.Debug("memory saved", "agent", m.agentName, "path", path)
	return nil
}

// LoadFromFile replaces in-memory state wholesale from the document at path.
// Returns false and leaves existing state untouched when the file is missing
// or does not parse.
func (m *Memory) LoadFromFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		m.opts.Logger.Warn("memory file unreadable", "agent", m.agentName, "path", path, "error", err)
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortTerm = doc.ShortTerm
	m.longTerm = doc.LongTerm
	if doc.WorkingMemory != nil {
		m.working = doc.WorkingMemory
	} else {
		m.working = make(map[string]any)
	}
	return true
}
