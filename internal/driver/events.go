package driver

// EventState reports where a file is in its analysis.
type EventState uint8

const (
	// EventStart indicates that analysis of a file has begun.
	EventStart EventState = iota
	// EventDone indicates the file was analyzed from scratch.
	EventDone
	// EventCached indicates the results were served from a cache.
	EventCached
	// EventFailed indicates the file could not be loaded or analyzed.
	EventFailed
)

func (s EventState) String() string {
	switch s {
	case EventStart:
		return "start"
	case EventDone:
		return "done"
	case EventCached:
		return "cached"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event describes one file's progress through AnalyzeDir.
type Event struct {
	Path     string
	State    EventState
	Findings int // warnings and errors, filled on Done/Cached/Failed
}

// ProgressFunc receives progress events. AnalyzeDir invokes it from worker
// goroutines, so implementations must be safe for concurrent use.
type ProgressFunc func(Event)
