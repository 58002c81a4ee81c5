package attendance

import "time"

// Transition is a change applied to an outreach case by reconcile.
type Transition uint8

const (
	TransitionNone Transition = iota
	TransitionOpen
	TransitionCancel
	TransitionReopen
)

func (t Transition) String() string {
	switch t {
	case TransitionOpen:
		return "open"
	case TransitionCancel:
		return "cancel"
	case TransitionReopen:
		return "reopen"
	default:
		return "none"
	}
}

// nextTransition decides what happens to c (nil when the record has no case) given the record's new percentage.
//
//	case       below threshold   at or above threshold
//	absent     open (pending)    -
//	pending    -                 cancel
//	cancelled  reopen (pending)  -
//	done       -                 -
func nextTransition(c *Case, pct float64) Transition {
	below := BelowThreshold(pct)
	if c == nil {
		if below {
			return TransitionOpen
		}
		return TransitionNone
	}
	switch c.Status {
	case StatusPending:
		if !below {
			return TransitionCancel
		}
	case StatusCancelled:
		if below {
			return TransitionReopen
		}
	}
	return TransitionNone
}

// reconcile applies the transition for pct to c and returns the resulting case, nil if there is none.
// An opened case is returned unsaved (ID 0).
func reconcile(c *Case, recordID int, pct float64, now time.Time) (*Case, Transition) {
	t := nextTransition(c, pct)
	switch t {
	case TransitionOpen:
		c = &Case{RecordID: recordID, Status: StatusPending, CreatedAt: now}
	case TransitionCancel:
		c.Status = StatusCancelled
	case TransitionReopen:
		// CreatedAt is kept
		c.Status = StatusPending
		c.TeacherName = nil
		c.Success = nil
		c.Notes = nil
		c.CompletedAt = nil
	}
	return c, t
}

// complete marks a pending case as done. It is the only way into StatusDone.
func (c *Case) complete(teacherName string, success bool, notes *string, now time.Time) error {
	if c.Status != StatusPending {
		return ErrCaseNotPending
	}
	c.Status = StatusDone
	c.TeacherName = &teacherName
	c.Success = &success
	c.Notes = notes
	c.CompletedAt = &now
	return nil
}
