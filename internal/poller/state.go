package poller

import (
	"fmt"
	"time"

	"github.com/rickgao/arbwatch/internal/model"
)

// Status is the refresh lifecycle phase.
type Status int

const (
	// StatusLoading: no attempt has completed yet.
	StatusLoading Status = iota
	// StatusReady: a snapshot is present and the latest attempt succeeded.
	StatusReady
	// StatusDegraded: a snapshot is present but the latest attempt failed.
	StatusDegraded
	// StatusFailed: no attempt has ever succeeded and the latest one failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status as its lowercase name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{StatusLoading, StatusReady, StatusDegraded, StatusFailed} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// State is a read-only view of the poller. Snapshot is shared, not
// copied; it is immutable.
type State struct {
	Status    Status
	Snapshot  *model.Snapshot // Last good snapshot, nil until one succeeds
	LastError error           // Set when the latest applied attempt failed

	Attempt     uint64    // Number of the attempt that produced this state
	CheckedAt   time.Time // When that attempt finished
	LastSuccess time.Time // When Snapshot was received
}

// HasSnapshot reports whether a snapshot can be displayed.
func (s State) HasSnapshot() bool {
	return s.Snapshot != nil
}

// next computes the state that follows prev once res is applied.
func next(prev State, res result) State {
	s := State{
		Snapshot:    prev.Snapshot,
		Attempt:     res.seq,
		CheckedAt:   res.finished,
		LastSuccess: prev.LastSuccess,
	}

	if res.err != nil {
		s.LastError = res.err
		if s.Snapshot != nil {
			s.Status = StatusDegraded
		} else {
			s.Status = StatusFailed
		}
		return s
	}

	s.Status = StatusReady
	s.Snapshot = res.snapshot
	s.LastSuccess = res.finished
	return s
}
