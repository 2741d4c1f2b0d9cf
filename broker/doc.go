// Package broker implements per-actor FIFO message delivery for AgentHive.
//
// Every registered actor owns a private mailbox. Senders never block: Send
// enqueues onto an unbounded queue, appends to a bounded shared history log
// and then notifies any subscribers registered for the recipient. Receivers
// block on Receive until a message arrives, a timeout elapses or their
// context is cancelled.
//
// Delivery guarantees are strictly per-recipient FIFO within a single
// process; there is no ordering relationship between different actors'
// mailboxes and no durability across restarts.
package broker
