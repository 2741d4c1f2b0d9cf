// Package core provides the foundational domain types used across AgentHive.
// It defines the core abstractions for:
//
//   - Messages (immutable typed envelopes exchanged between actors)
//   - Payloads (a closed tagged union, one concrete type per message type)
//   - Tasks (work-unit descriptors with a dependency-aware status machine)
//   - Workers (the injected execution contract turning a task description
//     into a result)
//
// The package intentionally keeps implementation concerns (message delivery,
// orchestration, memory, concrete workers) out of scope, exposing small
// interfaces so higher layers remain decoupled from each other.
package core
