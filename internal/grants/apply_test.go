package grants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_AssignsBeforeRevokes(t *testing.T) {
	service := newGrantService(t, testCatalog, 1, 2)
	ws := newTestWorkingSet(t, service)

	// assigned = {1,2}; turn grant 3 on and grant 2 off
	require.NoError(t, ws.Toggle(3))
	require.NoError(t, ws.Toggle(2))

	result := ws.Apply(context.Background())

	require.NoError(t, result.Err())
	assert.Equal(t, OutcomeApplied, result.Outcome())
	assert.Equal(t, 2, result.Applied())

	// Exactly one assign then one revoke, never interleaved the other way.
	assert.Equal(t, []string{"assign 3", "revoke 2"}, service.calls)

	// Local assignment recomputed optimistically from the selection.
	assert.True(t, ws.Assigned(1))
	assert.False(t, ws.Assigned(2))
	assert.True(t, ws.Assigned(3))
	assert.False(t, ws.Dirty())
}

func TestApply_EmptyPlanMakesNoCalls(t *testing.T) {
	service := newGrantService(t, testCatalog, 1)
	ws := newTestWorkingSet(t, service)

	result := ws.Apply(context.Background())

	require.NoError(t, result.Err())
	assert.Empty(t, result.Ops)
	assert.Empty(t, service.calls)
}

func TestApply_PartialFailureLeavesAssignmentStale(t *testing.T) {
	service := newGrantService(t, testCatalog, 1, 2)
	service.failRevoke[2] = true
	ws := newTestWorkingSet(t, service)

	require.NoError(t, ws.Toggle(3)) // assign succeeds
	require.NoError(t, ws.Toggle(2)) // revoke fails

	result := ws.Apply(context.Background())

	assert.Equal(t, OutcomePartial, result.Outcome())
	assert.Equal(t, 1, result.Applied())

	failed := result.Failed()
	require.NotNil(t, failed)
	assert.Equal(t, ActionRevoke, failed.Action)
	assert.Equal(t, int64(2), failed.Grant.ID)

	err := result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grant sync incomplete")

	// Local assignment is NOT updated after a failure; the remote now
	// holds {1,2,3} while the working set still claims {1,2}.
	assert.True(t, ws.Assigned(1))
	assert.True(t, ws.Assigned(2))
	assert.False(t, ws.Assigned(3))

	assert.True(t, service.assigned[1])
	assert.True(t, service.assigned[2])
	assert.True(t, service.assigned[3])
}

func TestApply_FirstFailureStopsSequence(t *testing.T) {
	service := newGrantService(t, testCatalog)
	service.failAssign[3] = true
	ws := newTestWorkingSet(t, service)

	require.NoError(t, ws.Toggle(3))
	require.NoError(t, ws.Toggle(4))

	result := ws.Apply(context.Background())

	assert.Equal(t, OutcomeNone, result.Outcome())
	assert.Equal(t, 0, result.Applied())

	err := result.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grant sync not applied")

	// The second assign was never attempted.
	require.Len(t, result.Ops, 2)
	assert.Equal(t, OpFailed, result.Ops[0].Status)
	assert.Equal(t, OpSkipped, result.Ops[1].Status)
	assert.Empty(t, service.calls)
}

func TestApply_FailureThenRetrySucceeds(t *testing.T) {
	service := newGrantService(t, testCatalog, 2)
	service.failRevoke[2] = true
	ws := newTestWorkingSet(t, service)

	require.NoError(t, ws.Toggle(2))

	first := ws.Apply(context.Background())
	require.Error(t, first.Err())

	// The edit view stays open; once the service recovers, retrying the
	// same working set applies the remaining change.
	service.failRevoke[2] = false
	second := ws.Apply(context.Background())

	require.NoError(t, second.Err())
	assert.Equal(t, OutcomeApplied, second.Outcome())
	assert.False(t, ws.Assigned(2))
	assert.False(t, service.assigned[2])
}
