// Package metrics records drag activity.
package metrics

// Recorder receives drag lifecycle events.
type Recorder interface {
	DragStarted(tableID string)
	DragCommitted(tableID string)
	DragSkipped(reason string)
	DragCancelled()
}

// Nop discards every event.
type Nop struct{}

func (Nop) DragStarted(string)   {}
func (Nop) DragCommitted(string) {}
func (Nop) DragSkipped(string)   {}
func (Nop) DragCancelled()       {}
