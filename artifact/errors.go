package artifact

import "fmt"

var (
	// ErrNotFound is returned when an artifact for the given key does not
	// exist in the underlying store. This is a normal branch on the read
	// path (the sweeper may have raced a lingering reference) and callers
	// should map it to a "not found" response rather than a failure.
	ErrNotFound = fmt.Errorf("artifact not found")
)
