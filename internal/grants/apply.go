package grants

import (
	"context"
	"fmt"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/errors"
)

// Action is the kind of remote call an operation performs
type Action int

const (
	// ActionAssign adds a grant to the user
	ActionAssign Action = iota
	// ActionRevoke removes a grant from the user
	ActionRevoke
)

// String returns the string representation of the action
func (a Action) String() string {
	if a == ActionRevoke {
		return "revoke"
	}
	return "assign"
}

// OpStatus is the outcome of one assign/revoke call
type OpStatus int

const (
	// OpApplied means the call succeeded
	OpApplied OpStatus = iota
	// OpFailed means the call was made and the service rejected it
	OpFailed
	// OpSkipped means the call was never attempted because an earlier
	// one failed
	OpSkipped
)

// OpResult records the outcome of one operation
type OpResult struct {
	Grant  api.Grant
	Action Action
	Status OpStatus
	Err    error
}

// Outcome summarizes an apply run
type Outcome int

const (
	// OutcomeApplied means every operation succeeded
	OutcomeApplied Outcome = iota
	// OutcomePartial means some operations succeeded before one failed
	OutcomePartial
	// OutcomeNone means the first operation failed; nothing changed
	OutcomeNone
)

// ApplyResult enumerates per-operation outcomes so callers can tell
// "fully applied" from "partially applied" from "not applied".
type ApplyResult struct {
	Ops []OpResult
}

// Applied returns the number of successful operations
func (r *ApplyResult) Applied() int {
	n := 0
	for _, op := range r.Ops {
		if op.Status == OpApplied {
			n++
		}
	}
	return n
}

// Failed returns the failed operation, if any
func (r *ApplyResult) Failed() *OpResult {
	for i := range r.Ops {
		if r.Ops[i].Status == OpFailed {
			return &r.Ops[i]
		}
	}
	return nil
}

// Outcome classifies the apply run
func (r *ApplyResult) Outcome() Outcome {
	failed := r.Failed()
	if failed == nil {
		return OutcomeApplied
	}
	if r.Applied() == 0 {
		return OutcomeNone
	}
	return OutcomePartial
}

// Err surfaces the run's failure as a single error, or nil when every
// operation succeeded.
func (r *ApplyResult) Err() error {
	failed := r.Failed()
	if failed == nil {
		return nil
	}

	cause := fmt.Errorf("%s of grant %q: %w", failed.Action, failed.Grant.Name, failed.Err)
	if r.Outcome() == OutcomeNone {
		return errors.Wrap(errors.ErrCodeGrantApplyFailed, "grant sync not applied", cause)
	}
	return errors.NewPartialApplyError(r.Applied(), 1, cause)
}

// Apply executes the plan sequentially: every assign first, then every
// revoke, each call awaited before the next. The apply is not
// transactional; a mid-sequence failure leaves earlier calls in place,
// marks the remaining operations skipped, and stops.
//
// On full success the local assignment is recomputed from the desired
// selection without re-fetching from the service.
func (ws *WorkingSet) Apply(ctx context.Context) *ApplyResult {
	plan := ws.Plan()
	result := &ApplyResult{Ops: make([]OpResult, 0, plan.Size())}

	failed := false
	run := func(grant api.Grant, action Action, call func() error) {
		op := OpResult{Grant: grant, Action: action}
		if failed {
			op.Status = OpSkipped
		} else if err := call(); err != nil {
			op.Status = OpFailed
			op.Err = err
			failed = true
		}
		result.Ops = append(result.Ops, op)
	}

	userID := ws.user.ID
	for _, grant := range plan.ToAssign {
		grant := grant
		run(grant, ActionAssign, func() error {
			return ws.client.AssignGrant(ctx, userID, grant.ID)
		})
	}
	for _, grant := range plan.ToRevoke {
		grant := grant
		run(grant, ActionRevoke, func() error {
			return ws.client.RevokeGrant(ctx, userID, grant.ID)
		})
	}

	if !failed {
		// Optimistic: trust the desired selection rather than re-fetch.
		assigned := make(map[int64]bool, len(ws.desired))
		for id, want := range ws.desired {
			if want {
				assigned[id] = true
			}
		}
		ws.assigned = assigned
	}

	return result
}
