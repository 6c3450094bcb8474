// Package migrator is the offline legacy migrator (spec §4.5,
// component C7): a one-shot batch job that reads AFCQ- legacy
// quotation records, assembles them into canonical AF- shipments, and
// writes them alongside their re-keyed workflow, defaulting to a
// dry run that reports what it would do without writing anything.
package migrator

import (
	"time"

	"github.com/affreight/shipengine/pkg/domain"
)

// LegacyQuotation is the V1 "Quotation" record for one legacy
// shipment, with its companion "QuotationFreight" record's fields
// folded in (FreightType/ContainerLoad/Commodity/HSCode/CargoType) —
// the two were always fetched and used together, so one Source method
// returns both. Field names mirror the original system's Quotation
// Kind closely enough to keep the assembly logic below a direct port,
// not a reinterpretation.
type LegacyQuotation struct {
	ID               string
	CompanyID        string
	TransactionType  string
	IncotermCode     string
	FreightType      string // "AIR" or blank for ocean
	ContainerLoad    string // "FCL" | "LCL"
	Commodity        string
	HSCode           string
	CargoType        string // "DG" marks dangerous goods
	StatusHistory    []domain.StatusHistoryEntry
	CargoReadyDate   *time.Time
	ETD              *time.Time
	ETA              *time.Time
	BLDocument       *domain.BLDocument
	IssuedInvoice    bool
	Trash            bool
	Creator          domain.Creator
	CreatedAt        time.Time
	ShipperName      string
	ShipperAddress   string
	ConsigneeName    string
	ConsigneeAddress string
	// Parties is the modern Quotation.parties dict, when present; it
	// takes priority over every ShipmentOrder-derived guess below.
	Parties *domain.Parties
}

// LegacyShipmentOrder is the V1 "ShipmentOrder" record confirming a
// quotation. Its absence for a given quotation id means the quotation
// was never confirmed and the migrator skips it (spec §4.5: "records
// without a confirmed booking are not migrated").
type LegacyShipmentOrder struct {
	CompanyID        string
	IssuedInvoice    bool
	Status           domain.Status
	VesselName       string
	VoyageNumber     string
	BookingReference string
	CarrierName      string
	OriginPortUNCode string
	DestPortUNCode   string
	// Shipper/Consignee/NotifyParty are the structured V1 party
	// objects, when the order carries them (priority 2).
	Shipper     *domain.Party
	Consignee   *domain.Party
	NotifyParty *domain.Party
	// ShipperName/ConsigneeName are the older flat fields (priority 3).
	ShipperName      string
	ShipperAddress   string
	ConsigneeName    string
	ConsigneeAddress string
}

// FreightType and ContainerLoad classify the order for order-type
// derivation (spec §4.1's OrderType, re-derived here from the V1
// shape rather than trusted as already set).
const (
	FreightTypeAir = "AIR"
	LoadFCL        = "FCL"
	LoadLCL        = "LCL"
)

// LegacyFileRef is one file record tied to a legacy shipment, carried
// over as-is except for its shipment reference (spec §4.7: "re-keys
// auxiliary records... files-by-reference from legacy key to
// canonical key").
type LegacyFileRef struct {
	FileName       string
	FileLocation   string
	FileTags       []string
	FileSizeKB     int64
	Visibility     bool
	UploadedByUID  string
	UploadedByName string
}

// Source fetches and mutates legacy records by id; implementations
// talk to whatever V1 store the deployment still has reachable (the
// canonical one is a Datastore-backed HTTP facade, per the system
// this was migrated from, but nothing here assumes that).
type Source interface {
	// ListLegacyIDs returns every AFCQ- quotation id eligible for
	// migration (i.e. not already marked data_version=2 at the
	// source).
	ListLegacyIDs() ([]string, error)
	GetQuotation(id string) (LegacyQuotation, bool, error)
	GetShipmentOrder(id string) (LegacyShipmentOrder, bool, error)

	// GetWorkflowTasks returns the legacy shipment's existing task
	// list, when one was ever written; ok is false for a quotation
	// that never advanced far enough to get one, in which case the
	// migrator materializes a fresh task list instead of carrying
	// over nothing (spec §4.7 re-keying, §4.3 lazy materialization).
	GetWorkflowTasks(id string) (tasks []domain.Task, ok bool, err error)

	// ListFiles returns the legacy shipment's file records, re-keyed
	// to the new canonical shipment id by the migrator before writing.
	ListFiles(id string) ([]LegacyFileRef, error)

	// MarkSuperseded flags the legacy quotation so a second run treats
	// it as already handled even ahead of the canonical-id existence
	// check (spec §4.7: "marks legacy record superseded = true").
	MarkSuperseded(id string) error

	// SetQuotationIssuedInvoice and SetShipmentOrderIssuedInvoice
	// write back the OR-merged issued_invoice bool computed by
	// NormalizeIssuedInvoice (spec §4.7's "parallel step").
	SetQuotationIssuedInvoice(id string, value bool) error
	SetShipmentOrderIssuedInvoice(id string, value bool) error
}
