// Package statemachine implements the status state machine described
// in spec §4.2 (component C2): given a current status, a target
// status, and a path, it decides whether the transition is accepted
// and classifies it. Pure and I/O-free.
package statemachine

import (
	"fmt"

	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/rules"
)

// TransitionKind classifies an accepted transition for observability.
type TransitionKind string

const (
	KindForward      TransitionKind = "forward"
	KindTerminal     TransitionKind = "terminal"
	KindCancellation TransitionKind = "cancellation"
	KindRevert       TransitionKind = "revert"
	KindOutOfPath    TransitionKind = "out_of_path"
)

// Request bundles the inputs to a transition decision. IncotermCode and
// TransactionType are optional and used only to render the Path-B
// rejection message in the exact form of spec.md scenario S2.
type Request struct {
	Current         domain.Status
	Target          domain.Status
	Path            rules.PathTag // "" when no incoterm context is available
	AllowJump       bool
	Reverted        bool
	IncotermCode    string
	TransactionType domain.TransactionType
}

// Decision is the outcome of evaluating a Request.
type Decision struct {
	Accepted bool
	Kind     TransitionKind
	Path     rules.PathTag
	Reason   string // populated when Accepted is false
}

// unionOrder is the forward-progress order used when a shipment has no
// incoterm context, or when its current status sits off either linear
// path (a migrated record), per spec §4.2.
var unionOrder = []domain.Status{
	domain.StatusDraft, domain.StatusPendingReview, domain.StatusConfirmed,
	domain.StatusBookingPending, domain.StatusBookingConfirmed,
	domain.StatusDeparted, domain.StatusArrived, domain.StatusCompleted,
}

func unionIndex(s domain.Status) int {
	for i, v := range unionOrder {
		if v == s {
			return i
		}
	}
	return -1
}

// Evaluate decides whether req.Target is reachable from req.Current,
// implementing the decision table of spec §4.2.
func Evaluate(req Request) Decision {
	if !req.Reverted && (req.Current == domain.StatusCompleted || req.Current == domain.StatusCancelled) {
		return Decision{Accepted: false, Reason: "Cannot change status of a completed or cancelled shipment"}
	}

	if req.Path == rules.PathB && (req.Target == domain.StatusBookingPending || req.Target == domain.StatusBookingConfirmed) {
		context := "this shipment"
		if req.IncotermCode != "" && req.TransactionType != "" {
			context = fmt.Sprintf("%s %s", req.IncotermCode, req.TransactionType)
		}
		return Decision{Accepted: false, Reason: fmt.Sprintf("Booking statuses not applicable for %s (Path B)", context)}
	}

	if req.Target == domain.StatusCancelled {
		return Decision{Accepted: true, Kind: KindCancellation, Path: req.Path}
	}

	if req.AllowJump || req.Reverted {
		kind := KindForward
		if req.Reverted {
			kind = KindRevert
		}
		return Decision{Accepted: true, Kind: kind, Path: req.Path}
	}

	path := pathOrder(req.Path)
	if path != nil {
		if idx := statusIndex(path, req.Current); idx >= 0 {
			if idx+1 < len(path) && path[idx+1] == req.Target {
				kind := KindForward
				if idx+1 == len(path)-1 {
					kind = KindTerminal
				}
				return Decision{Accepted: true, Kind: kind, Path: req.Path}
			}
			nextLabel := "none"
			if idx+1 < len(path) {
				nextLabel = fmt.Sprintf("%s (%d)", domain.StatusLabels[path[idx+1]], path[idx+1])
			}
			return Decision{Accepted: false, Reason: fmt.Sprintf("next step is %s, not %d", nextLabel, req.Target)}
		}
		// current is off the configured path: a migrated record. Fall
		// through to union-order forward-progress semantics.
	}

	curIdx := unionIndex(req.Current)
	tgtIdx := unionIndex(req.Target)
	if curIdx < 0 || tgtIdx < 0 {
		return Decision{Accepted: false, Reason: "unrecognized status code"}
	}
	if tgtIdx > curIdx {
		return Decision{Accepted: true, Kind: KindOutOfPath, Path: req.Path}
	}
	return Decision{Accepted: false, Reason: "target status is not strictly forward of the current status"}
}

func pathOrder(p rules.PathTag) []domain.Status {
	switch p {
	case rules.PathA:
		return rules.PathAOrder
	case rules.PathB:
		return rules.PathBOrder
	default:
		return nil
	}
}

func statusIndex(path []domain.Status, s domain.Status) int {
	for i, v := range path {
		if v == s {
			return i
		}
	}
	return -1
}
