package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hiveq/agenthive/core"
	"github.com/hiveq/agenthive/logging"
)

const (
	// consolidateThreshold is the short-term size that triggers consolidation.
	consolidateThreshold = 50
	// shortTermKeep is the number of recent short-term entries retained
	// after consolidation.
	shortTermKeep = 20
	// promoteImportance is the minimum importance copied into long-term.
	promoteImportance = 3
)

// Options configures a Memory instance.
type Options struct {
	// MaxSize bounds the long-term tier; least important/oldest entries are
	// evicted first once exceeded.
	MaxSize int
	// Logger receives consolidation and persistence diagnostics.
	Logger logging.Logger
}

// Memory is the two-tier recall store for one agent.
type Memory struct {
	agentName string
	opts      Options

	mu        sync.Mutex
	shortTerm []Entry
	longTerm  []Entry
	working   map[string]any
}

// New creates an empty memory store for the named agent.
func New(agentName string, optFns ...func(o *Options)) *Memory {
	opts := Options{
		MaxSize: 1000,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Memory{
		agentName: agentName,
		opts:      opts,
		working:   make(map[string]any),
	}
}

// AgentName returns the owning agent's name.
func (m *Memory) AgentName() string { return m.agentName }

// AddOptions holds optional attributes for a new memory entry.
type AddOptions struct {
	Tags     []string
	Metadata map[string]any
}

// WithTags attaches categorization tags to the entry.
func WithTags(tags ...string) func(o *AddOptions) {
	return func(o *AddOptions) { o.Tags = tags }
}

// WithMetadata attaches arbitrary metadata to the entry.
func WithMetadata(md map[string]any) func(o *AddOptions) {
	return func(o *AddOptions) { o.Metadata = md }
}

// Add appends an entry to short-term memory and returns its id. Importance
// is clamped to 1-5. Exceeding the consolidation threshold promotes
// important entries to long-term and trims the short-term buffer.
func (m *Memory) Add(content string, importance int, optFns ...func(o *AddOptions)) string {
	opts := AddOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Tags == nil {
		opts.Tags = []string{}
	}
	if opts.Metadata == nil {
		opts.Metadata = map[string]any{}
	}

	entry := Entry{
		ID:         core.NewID(),
		Content:    content,
		Timestamp:  time.Now(),
		Importance: clampImportance(importance),
		Tags:       opts.Tags,
		Metadata:   opts.Metadata,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.shortTerm = append(m.shortTerm, entry)
	if len(m.shortTerm) > consolidateThreshold {
		m.consolidateLocked()
	}
	return entry.ID
}

// consolidateLocked copies important short-term entries into long-term, trims
// the short-term buffer and evicts long-term overflow. Callers must hold mu.
func (m *Memory) consolidateLocked() {
	promoted := 0
	for _, e := range m.shortTerm {
		if e.Importance >= promoteImportance {
			m.longTerm = append(m.longTerm, e)
			promoted++
		}
	}

	// Older low/medium-importance entries are dropped for good here.
	m.shortTerm = append([]Entry(nil), m.shortTerm[len(m.shortTerm)-shortTermKeep:]...)

	if len(m.longTerm) > m.opts.MaxSize {
		sortByRelevance(m.longTerm)
		m.longTerm = m.longTerm[:m.opts.MaxSize]
	}
	m.opts.Logger.Debug("memory consolidated", "agent", m.agentName, "promoted", promoted, "long_term", len(m.longTerm))
}

// sortByRelevance orders entries by importance (desc) then recency (desc).
func sortByRelevance(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Importance != entries[j].Importance {
			return entries[i].Importance > entries[j].Importance
		}
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}

// Query narrows a Search over both tiers.
type Query struct {
	// Text filters by case-insensitive substring match against content.
	Text string
	// Tags keeps entries carrying at least one of the given tags.
	Tags []string
	// MinImportance is the inclusive importance floor (default 1).
	MinImportance int
	// Limit truncates the result (default 10).
	Limit int
}

// Search filters the union of both tiers and returns matches ordered by
// importance (desc) then recency (desc).
func (m *Memory) Search(q Query) []Entry {
	if q.MinImportance < 1 {
		q.MinImportance = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var results []Entry
	for _, e := range append(append([]Entry(nil), m.shortTerm...), m.longTerm...) {
		if e.Importance < q.MinImportance {
			continue
		}
		if len(q.Tags) > 0 && !e.hasAnyTag(q.Tags) {
			continue
		}
		if q.Text != "" && !strings.Contains(strings.ToLower(e.Content), strings.ToLower(q.Text)) {
			continue
		}
		results = append(results, e)
	}
	sortByRelevance(results)
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results
}

// Recent returns up to limit entries from both tiers ordered by recency.
func (m *Memory) Recent(limit int) []Entry {
	if limit <= 0 {
		limit = 10
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := append(append([]Entry(nil), m.shortTerm...), m.longTerm...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// ContextSummary renders the most relevant entries as a bullet list for
// inclusion in a prompt.
func (m *Memory) ContextSummary(maxItems int) string {
	if maxItems <= 0 {
		maxItems = 5
	}
	m.mu.Lock()
	all := append(append([]Entry(nil), m.shortTerm...), m.longTerm...)
	m.mu.Unlock()

	sortByRelevance(all)
	if len(all) > maxItems {
		all = all[:maxItems]
	}
	if len(all) == 0 {
		return "No context available"
	}
	var sb strings.Builder
	for i, e := range all {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(e.Content)
	}
	return sb.String()
}

// SetWorking stores a value in the working-memory scratchpad.
func (m *Memory) SetWorking(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working[key] = value
}

// Working returns a scratchpad value and whether it exists.
func (m *Memory) Working(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.working[key]
	return v, ok
}

// ClearWorking removes all scratchpad values.
func (m *Memory) ClearWorking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = make(map[string]any)
}

// ShortTermLen returns the current short-term tier size.
func (m *Memory) ShortTermLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shortTerm)
}

// LongTermLen returns the current long-term tier size.
func (m *Memory) LongTermLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.longTerm)
}

// LongTerm returns a defensive copy of the long-term tier.
func (m *Memory) LongTerm() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.longTerm...)
}

// ShortTerm returns a defensive copy of the short-term tier.
func (m *Memory) ShortTerm() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.shortTerm...)
}
