// Package grants reconciles a user's assigned grants against a desired
// selection using the fewest remote calls.
//
// The service only exposes single-grant assign and revoke endpoints, so
// the working set computes the minimal edit script between the current
// assignment and the operator's selection and applies it call by call.
package grants

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/errors"
)

// WorkingSet is the ephemeral state of one grant-editing session.
// It is owned by a single editing view and discarded on cancel; it is
// not safe for concurrent use.
type WorkingSet struct {
	client *api.Client
	user   *api.User

	// catalog preserves the service's grant ordering for display and
	// for the apply sequence.
	catalog []api.Grant

	// assigned holds the grant ids the user held at seed time, updated
	// optimistically after a fully successful apply.
	assigned map[int64]bool

	// desired holds exactly one entry per catalog grant.
	desired map[int64]bool
}

// NewWorkingSet fetches the target user, their assigned grants, and the
// full catalog concurrently, then seeds the desired selection from the
// current assignment.
func NewWorkingSet(ctx context.Context, client *api.Client, userID int64) (*WorkingSet, error) {
	ws := &WorkingSet{client: client}

	var assigned []api.Grant

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ws.catalog, err = client.Grants(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		assigned, err = client.UserGrants(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		ws.user, err = client.UserByID(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGrantFetchFailed,
			fmt.Sprintf("cannot load grants for user %d", userID), err)
	}

	ws.assigned = make(map[int64]bool, len(assigned))
	for _, grant := range assigned {
		ws.assigned[grant.ID] = true
	}

	ws.desired = make(map[int64]bool, len(ws.catalog))
	for _, grant := range ws.catalog {
		ws.desired[grant.ID] = ws.assigned[grant.ID]
	}

	return ws, nil
}

// User returns the user whose grants are being edited
func (ws *WorkingSet) User() *api.User {
	return ws.user
}

// Catalog returns all grants known to the service, in catalog order
func (ws *WorkingSet) Catalog() []api.Grant {
	return ws.catalog
}

// Desired reports whether a grant is currently selected
func (ws *WorkingSet) Desired(grantID int64) bool {
	return ws.desired[grantID]
}

// Assigned reports whether a grant was held at seed time (or after the
// last fully successful apply)
func (ws *WorkingSet) Assigned(grantID int64) bool {
	return ws.assigned[grantID]
}

// Toggle flips the desired flag for exactly one grant. Toggling twice
// restores the original selection.
func (ws *WorkingSet) Toggle(grantID int64) error {
	if _, ok := ws.desired[grantID]; !ok {
		return errors.New(errors.ErrCodeGrantUnknown,
			fmt.Sprintf("grant %d is not in the catalog", grantID))
	}
	ws.desired[grantID] = !ws.desired[grantID]
	return nil
}

// Set forces the desired flag for one grant
func (ws *WorkingSet) Set(grantID int64, want bool) error {
	if _, ok := ws.desired[grantID]; !ok {
		return errors.New(errors.ErrCodeGrantUnknown,
			fmt.Sprintf("grant %d is not in the catalog", grantID))
	}
	ws.desired[grantID] = want
	return nil
}

// Dirty reports whether the desired selection differs from the assignment
func (ws *WorkingSet) Dirty() bool {
	plan := ws.Plan()
	return !plan.Empty()
}

// Plan is the minimal edit script from the current assignment to the
// desired selection. ToAssign and ToRevoke are disjoint, so the total
// size equals the symmetric difference between the two sets.
type Plan struct {
	ToAssign []api.Grant
	ToRevoke []api.Grant
}

// Empty reports whether there is nothing to apply
func (p Plan) Empty() bool {
	return len(p.ToAssign) == 0 && len(p.ToRevoke) == 0
}

// Size returns the number of remote calls the plan requires
func (p Plan) Size() int {
	return len(p.ToAssign) + len(p.ToRevoke)
}

// Plan computes the minimal edit script, in catalog order within each phase
func (ws *WorkingSet) Plan() Plan {
	var plan Plan
	for _, grant := range ws.catalog {
		switch {
		case ws.desired[grant.ID] && !ws.assigned[grant.ID]:
			plan.ToAssign = append(plan.ToAssign, grant)
		case !ws.desired[grant.ID] && ws.assigned[grant.ID]:
			plan.ToRevoke = append(plan.ToRevoke, grant)
		}
	}
	return plan
}
