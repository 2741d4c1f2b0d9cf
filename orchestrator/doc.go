// Package orchestrator coordinates multiple agents to accomplish complex
// tasks.
//
// The orchestrator owns the task store exclusively: tasks move through
// pending -> assigned -> in_progress -> completed/failed, with delegated as
// an alternate branch when work is handed to another actor. A task whose
// dependencies are not all completed at execution time is reset to pending
// (assignment untouched) rather than failed; re-invocation is the caller's
// responsibility, there is no automatic re-queue timer.
//
// Agent selection is a scoring heuristic over capability tags and a small
// keyword-to-role affinity table; ties break by registration order. Workflows
// execute their tasks strictly in order or concurrently, with inter-task
// dependencies pre-declared when ordering matters in parallel mode.
package orchestrator
