package ui

import "github.com/bamsammich/synclink/internal/event"

// Event is re-exported so presenters read naturally.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanStarted  = event.ScanStarted
	ScanComplete = event.ScanComplete
	DirCreated   = event.DirCreated
	Linked       = event.Linked
	Relinked     = event.Relinked
	Unchanged    = event.Unchanged
	Replaced     = event.Replaced
	Skipped      = event.Skipped
	DeleteFile   = event.DeleteFile
	DeleteDir    = event.DeleteDir
)
