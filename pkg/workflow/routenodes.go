package workflow

import (
	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// NormalizeRouteNodes validates and re-sequences a route-node set per
// spec §3: exactly one ORIGIN and one DESTINATION, sequences
// contiguous 1..N after re-assignment in the given order.
func NormalizeRouteNodes(nodes []domain.RouteNode) ([]domain.RouteNode, error) {
	origins, destinations := 0, 0
	for _, n := range nodes {
		switch n.Role {
		case domain.RouteRoleOrigin:
			origins++
		case domain.RouteRoleDestination:
			destinations++
		}
	}
	if origins != 1 {
		return nil, apperrors.NewValidationError("route must have exactly one ORIGIN node")
	}
	if destinations != 1 {
		return nil, apperrors.NewValidationError("route must have exactly one DESTINATION node")
	}

	out := make([]domain.RouteNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		out[i].Sequence = i + 1
	}
	return out, nil
}

// MirrorRouteTimes extracts the flat etd/eta fields mirrored from the
// ORIGIN node's scheduled_etd and the DESTINATION node's scheduled_eta
// (spec §3 RouteNode invariants).
func MirrorRouteTimes(nodes []domain.RouteNode) (etd, eta *domain.RouteNode) {
	for i := range nodes {
		switch nodes[i].Role {
		case domain.RouteRoleOrigin:
			etd = &nodes[i]
		case domain.RouteRoleDestination:
			eta = &nodes[i]
		}
	}
	return etd, eta
}
