package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/rules"
)

// TestEvaluate_S1PathAAdvance walks spec.md scenario S1's full forward
// path, then checks the literal rejection message for a disallowed
// jump.
func TestEvaluate_S1PathAAdvance(t *testing.T) {
	steps := []struct {
		from, to domain.Status
	}{
		{domain.StatusConfirmed, domain.StatusBookingPending},
		{domain.StatusBookingPending, domain.StatusBookingConfirmed},
		{domain.StatusBookingConfirmed, domain.StatusDeparted},
		{domain.StatusDeparted, domain.StatusArrived},
		{domain.StatusArrived, domain.StatusCompleted},
	}
	for _, step := range steps {
		d := Evaluate(Request{Current: step.from, Target: step.to, Path: rules.PathA})
		assert.True(t, d.Accepted, "expected %d -> %d to be accepted", step.from, step.to)
	}

	d := Evaluate(Request{Current: domain.StatusConfirmed, Target: domain.StatusDeparted, Path: rules.PathA, AllowJump: false})
	require.False(t, d.Accepted)
	assert.Equal(t, "next step is Booking Pending (3001), not 4001", d.Reason)
}

func TestEvaluate_S2PathBBookingReject(t *testing.T) {
	d := Evaluate(Request{
		Current: domain.StatusConfirmed, Target: domain.StatusBookingPending, Path: rules.PathB,
		IncotermCode: "CNF", TransactionType: domain.TransactionImport,
	})
	require.False(t, d.Accepted)
	assert.Equal(t, "Booking statuses not applicable for CNF IMPORT (Path B)", d.Reason)
}

func TestEvaluate_S5TerminalProtection(t *testing.T) {
	d := Evaluate(Request{Current: domain.StatusCompleted, Target: domain.StatusArrived, Path: rules.PathA, Reverted: false})
	require.False(t, d.Accepted)
	assert.Equal(t, "Cannot change status of a completed or cancelled shipment", d.Reason)

	reverted := Evaluate(Request{Current: domain.StatusCompleted, Target: domain.StatusArrived, Path: rules.PathA, Reverted: true})
	require.True(t, reverted.Accepted)
	assert.Equal(t, KindRevert, reverted.Kind)
}

func TestEvaluate_CancellationAllowedFromAnyNonTerminal(t *testing.T) {
	for _, s := range []domain.Status{domain.StatusDraft, domain.StatusConfirmed, domain.StatusDeparted} {
		d := Evaluate(Request{Current: s, Target: domain.StatusCancelled, Path: rules.PathA})
		assert.True(t, d.Accepted, "cancellation from %d should be accepted", s)
		assert.Equal(t, KindCancellation, d.Kind)
	}
}

func TestEvaluate_CancellationRejectedFromTerminalWithoutRevert(t *testing.T) {
	d := Evaluate(Request{Current: domain.StatusCompleted, Target: domain.StatusCancelled, Path: rules.PathA})
	assert.False(t, d.Accepted)
}

func TestEvaluate_MigratedRecordOffPathAcceptsForwardProgress(t *testing.T) {
	// A migrated record sitting at 3002 on a Path-B shipment (Path B has
	// no 3001/3002) jumping straight to 4002 should be accepted because
	// 4002 is strictly later in the union order.
	d := Evaluate(Request{Current: domain.StatusBookingConfirmed, Target: domain.StatusArrived, Path: rules.PathB})
	assert.True(t, d.Accepted)
	assert.Equal(t, KindOutOfPath, d.Kind)
}

func TestEvaluate_NoIncotermContextFallsBackToUnionOrder(t *testing.T) {
	d := Evaluate(Request{Current: domain.StatusDraft, Target: domain.StatusConfirmed})
	assert.True(t, d.Accepted)

	backwards := Evaluate(Request{Current: domain.StatusConfirmed, Target: domain.StatusDraft})
	assert.False(t, backwards.Accepted)
}

func TestEvaluate_AllowJumpBypassesAdjacency(t *testing.T) {
	d := Evaluate(Request{Current: domain.StatusDraft, Target: domain.StatusCompleted, Path: rules.PathA, AllowJump: true})
	assert.True(t, d.Accepted)
	assert.Equal(t, KindForward, d.Kind)
}
