package migrator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/affreight/shipengine/pkg/domain"
)

// JSONSource is a Source backed by a single JSON export file, the
// shape an operator produces by dumping the legacy store ahead of an
// offline run (the legacy store's own technology is unspecified by
// the system this was migrated from and is not part of this module's
// dependency surface — see DESIGN.md). The package's own tests use an
// in-memory fake Source, not JSONSource.
type JSONSource struct {
	Quotations     map[string]LegacyQuotation     `json:"quotations"`
	ShipmentOrders map[string]LegacyShipmentOrder `json:"shipment_orders"`
	Files          map[string][]LegacyFileRef      `json:"files"`

	path       string
	superseded map[string]bool
}

// LoadJSONSource reads and parses a JSON export file into a JSONSource.
func LoadJSONSource(path string) (*JSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy export %s: %w", path, err)
	}
	var s JSONSource
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse legacy export %s: %w", path, err)
	}
	s.path = path
	s.superseded = make(map[string]bool)
	return &s, nil
}

func (s *JSONSource) ListLegacyIDs() ([]string, error) {
	ids := make([]string, 0, len(s.Quotations))
	for id := range s.Quotations {
		if s.superseded[id] {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *JSONSource) GetQuotation(id string) (LegacyQuotation, bool, error) {
	q, ok := s.Quotations[id]
	return q, ok, nil
}

func (s *JSONSource) GetShipmentOrder(id string) (LegacyShipmentOrder, bool, error) {
	so, ok := s.ShipmentOrders[id]
	return so, ok, nil
}

// GetWorkflowTasks is intentionally unimplemented for the JSON source:
// a flat export is not expected to carry the full Task shape, so every
// migrated record gets a freshly materialized task list instead.
func (s *JSONSource) GetWorkflowTasks(string) ([]domain.Task, bool, error) {
	return nil, false, nil
}

func (s *JSONSource) ListFiles(id string) ([]LegacyFileRef, error) {
	return s.Files[id], nil
}

// MarkSuperseded only marks the record in memory; a real export-file
// run is expected to be followed by re-exporting from the legacy store
// once its own superseded flag has been set there directly. This
// in-memory bookkeeping exists so a single process can re-run
// ListLegacyIDs mid-job without reprocessing what it already wrote.
func (s *JSONSource) MarkSuperseded(id string) error {
	s.superseded[id] = true
	return nil
}

func (s *JSONSource) SetQuotationIssuedInvoice(id string, value bool) error {
	q := s.Quotations[id]
	q.IssuedInvoice = value
	s.Quotations[id] = q
	return nil
}

func (s *JSONSource) SetShipmentOrderIssuedInvoice(id string, value bool) error {
	so := s.ShipmentOrders[id]
	so.IssuedInvoice = value
	s.ShipmentOrders[id] = so
	return nil
}
