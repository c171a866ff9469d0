package entities

import "time"

// Entry is one parsed line of walk output. Index is empty for scalar grammars.
type Entry struct {
	Index    string `json:"index,omitempty"`
	SubIndex string `json:"sub_index,omitempty"`
	Value    string `json:"value"`
}

// WalkStatus is the outcome class of a single walk
type WalkStatus int

const (
	WalkOK WalkStatus = iota
	WalkSoftEmpty
	WalkFatal
)

func (s WalkStatus) String() string {
	switch s {
	case WalkOK:
		return "ok"
	case WalkSoftEmpty:
		return "soft_empty"
	case WalkFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// WalkRequest describes one subtree walk
type WalkRequest struct {
	OID          string
	Grammar      string
	Hex          bool
	CustomOption string
	Timeout      time.Duration
}

// WalkResult carries the outcome of a walk. Err is set for WalkSoftEmpty and WalkFatal.
type WalkResult struct {
	Status  WalkStatus
	Entries []Entry
	Skipped int
	Err     error
}
