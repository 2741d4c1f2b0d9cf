package broker

import "fmt"

var (
	// ErrNotRegistered is returned by Receive when the named actor has no
	// mailbox with the broker.
	ErrNotRegistered = fmt.Errorf("actor not registered")

	// ErrReceiveTimeout is returned by Receive when no message arrived
	// within the requested timeout.
	ErrReceiveTimeout = fmt.Errorf("receive timed out")
)
