// Package agent provides the profile-parametrized actor implementation for
// AgentHive.
//
// A single Agent type replaces a hierarchy of persona subclasses: personas
// are plain Profile values (name, role, description, model, system prompt,
// default capabilities) and persona-specific behavior is expressed as
// prompt-formatting helpers over the generic execution contract.
//
// Each agent owns a private mailbox on an explicitly injected broker and may
// run at most one autonomous message loop: an owned, cancellable goroutine
// that drains the mailbox, applies custom or default handling per message
// type, and replies with task responses or error reports. Stopping the loop
// joins the goroutine so no message is left half-processed.
package agent
