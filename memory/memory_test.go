package memory

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AddClampsImportance(t *testing.T) {
	m := New("agent")
	m.Add("too low", -4)
	m.Add("too high", 99)

	entries := m.ShortTerm()
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Importance)
	assert.Equal(t, 5, entries[1].Importance)
}

func TestMemory_ConsolidationPromotesAndTrims(t *testing.T) {
	m := New("agent")

	// 51 entries trip the threshold exactly once. Every third is important
	// enough to be promoted.
	important := 0
	for i := 0; i < 51; i++ {
		imp := 1
		if i%3 == 0 {
			imp = 4
			important++
		}
		m.Add(fmt.Sprintf("entry %d", i), imp)
	}

	assert.Equal(t, 20, m.ShortTermLen(), "short-term trims to the most recent entries")
	assert.Equal(t, important, m.LongTermLen(), "all high-importance entries are promoted")

	for _, e := range m.LongTerm() {
		assert.GreaterOrEqual(t, e.Importance, 3)
	}

	// The most recent additions survive in short-term.
	st := m.ShortTerm()
	assert.Equal(t, "entry 50", st[len(st)-1].Content)
	assert.Equal(t, "entry 31", st[0].Content)
}

func TestMemory_LongTermEviction(t *testing.T) {
	m := New("agent", func(o *Options) { o.MaxSize = 10 })

	// Force repeated consolidations with all-important entries so long-term
	// overflows its cap.
	for i := 0; i < 153; i++ {
		m.Add(fmt.Sprintf("entry %d", i), 3+i%3)
	}

	assert.LessOrEqual(t, m.LongTermLen(), 10)
	// Eviction keeps the most important entries.
	for _, e := range m.LongTerm() {
		assert.Equal(t, 5, e.Importance)
	}
}

func TestMemory_SearchFiltersAndOrders(t *testing.T) {
	m := New("agent")
	m.Add("the api gateway timed out", 2, WithTags("incident"))
	m.Add("gateway config updated", 5, WithTags("change"))
	m.Add("unrelated note", 3)
	m.Add("GATEWAY capacity doubled", 4, WithTags("change", "capacity"))

	got := m.Search(Query{Text: "gateway"})
	require.Len(t, got, 3, "substring match is case-insensitive")
	assert.Equal(t, "gateway config updated", got[0].Content, "importance desc ordering")
	assert.Equal(t, "GATEWAY capacity doubled", got[1].Content)

	tagged := m.Search(Query{Tags: []string{"incident", "capacity"}})
	require.Len(t, tagged, 2, "any-tag match")

	floor := m.Search(Query{Text: "gateway", MinImportance: 4})
	require.Len(t, floor, 2)

	combined := m.Search(Query{Tags: []string{"change"}, MinImportance: 4})
	require.Len(t, combined, 2)
	assert.Equal(t, "gateway config updated", combined[0].Content)
	assert.Equal(t, "GATEWAY capacity doubled", combined[1].Content)

	limited := m.Search(Query{Text: "gateway", Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "gateway config updated", limited[0].Content)
}

func TestMemory_Recent(t *testing.T) {
	m := New("agent")
	for i := 0; i < 5; i++ {
		m.Add(fmt.Sprintf("entry %d", i), 1)
	}

	recent := m.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "entry 4", recent[0].Content, "newest first")
	assert.Equal(t, "entry 2", recent[2].Content)
}

func TestMemory_ContextSummary(t *testing.T) {
	m := New("agent")
	assert.Equal(t, "No context available", m.ContextSummary(5))

	m.Add("first fact", 2)
	m.Add("second fact", 3)
	summary := m.ContextSummary(5)
	assert.Contains(t, summary, "first fact")
	assert.Contains(t, summary, "second fact")
}

func TestMemory_WorkingMemory(t *testing.T) {
	m := New("agent")
	m.SetWorking("current_task", "t1")

	v, ok := m.Working("current_task")
	require.True(t, ok)
	assert.Equal(t, "t1", v)

	_, ok = m.Working("missing")
	assert.False(t, ok)

	m.ClearWorking()
	_, ok = m.Working("current_task")
	assert.False(t, ok)
}

func TestMemory_SaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "agent.json")

	m := New("agent")
	m.Add("short fact", 2, WithTags("a"))
	m.Add("important fact", 5, WithMetadata(map[string]any{"source": "test"}))
	m.SetWorking("key", "value")
	require.NoError(t, m.SaveToFile(path))

	loaded := New("agent")
	require.True(t, loaded.LoadFromFile(path))

	assert.Equal(t, 2, loaded.ShortTermLen())
	v, ok := loaded.Working("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	st := loaded.ShortTerm()
	assert.Equal(t, "short fact", st[0].Content)
	assert.Equal(t, []string{"a"}, st[0].Tags)
	assert.Equal(t, 5, st[1].Importance)
}

func TestMemory_LoadMissingFile(t *testing.T) {
	m := New("agent")
	m.Add("kept", 2)

	assert.False(t, m.LoadFromFile(filepath.Join(t.TempDir(), "absent.json")))
	assert.Equal(t, 1, m.ShortTermLen(), "failed load must leave state untouched")
}
