package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanStarted Type = iota + 1
	ScanComplete
	DirCreated
	Linked
	Relinked
	Unchanged
	Replaced
	Skipped
	DeleteFile
	DeleteDir
)

var typeNames = [...]string{
	ScanStarted:  "ScanStarted",
	ScanComplete: "ScanComplete",
	DirCreated:   "DirCreated",
	Linked:       "Linked",
	Relinked:     "Relinked",
	Unchanged:    "Unchanged",
	Replaced:     "Replaced",
	Skipped:      "Skipped",
	DeleteFile:   "DeleteFile",
	DeleteDir:    "DeleteDir",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && typeNames[t] != "" {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // relative to the tree root
	Root      string // which tree Path belongs to (ScanStarted, ScanComplete)
	Kind      string
	Total     int64 // records collected (ScanComplete)
	DryRun    bool
}
