package httpapi

import "net/http"

// GetRouteNodes handles GET /shipments/{id}/route-nodes.
func (h *Handlers) GetRouteNodes(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")

	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}
	nodes, err := h.store.RouteNodes(r.Context(), id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, nodes)
}

// PutRouteNodes handles PUT /shipments/{id}/route-nodes: replaces the
// whole route-node set, normalized and validated by C3 (spec §3
// RouteNode invariants).
func (h *Handlers) PutRouteNodes(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	id := urlParam(r, "id")

	var req routeNodesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}

	nodes, err := h.store.PutRouteNodes(r.Context(), id, req.Nodes)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, nodes)
}
