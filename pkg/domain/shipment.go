// Package domain holds the canonical record shapes for the shipment
// lifecycle engine: Shipment, its workflow, tasks, route nodes, and the
// nested semi-structured payloads persisted as JSON columns by the
// store. Types here carry no persistence or transport concerns.
package domain

import "time"

// OrderType classifies the mode of transport and cargo grouping.
type OrderType string

const (
	OrderTypeSeaFCL       OrderType = "SEA_FCL"
	OrderTypeSeaLCL       OrderType = "SEA_LCL"
	OrderTypeAir          OrderType = "AIR"
	OrderTypeCrossBorder  OrderType = "CROSS_BORDER"
	OrderTypeGround       OrderType = "GROUND"
)

// TransactionType classifies the commercial direction of the shipment.
type TransactionType string

const (
	TransactionImport   TransactionType = "IMPORT"
	TransactionExport   TransactionType = "EXPORT"
	TransactionDomestic TransactionType = "DOMESTIC"
)

// Status is the integer lifecycle status code defined in spec §4.2.
type Status int

const (
	StatusDraft            Status = 1001
	StatusPendingReview    Status = 1002
	StatusConfirmed        Status = 2001
	StatusBookingPending   Status = 3001
	StatusBookingConfirmed Status = 3002
	StatusDeparted         Status = 4001
	StatusArrived          Status = 4002
	StatusCompleted        Status = 5001
	StatusCancelled        Status = -1
)

// StatusLabels gives the human-facing label for each status code, used
// when appending status history entries.
var StatusLabels = map[Status]string{
	StatusDraft:            "Draft",
	StatusPendingReview:    "Pending Review",
	StatusConfirmed:        "Confirmed",
	StatusBookingPending:   "Booking Pending",
	StatusBookingConfirmed: "Booking Confirmed",
	StatusDeparted:         "Departed",
	StatusArrived:          "Arrived",
	StatusCompleted:        "Completed",
	StatusCancelled:        "Cancelled",
}

// StatusHistoryEntry is one append-only entry in a shipment's status
// history channel (spec §3 invariant 3, §4.4).
type StatusHistoryEntry struct {
	Status       Status    `json:"status"`
	Label        string    `json:"label"`
	Timestamp    time.Time `json:"timestamp"`
	ChangedBy    string    `json:"changed_by"`
	Note         string    `json:"note,omitempty"`
	Reverted     bool      `json:"reverted,omitempty"`
	RevertedFrom *Status   `json:"reverted_from,omitempty"`
}

// WorkflowHistoryEntry is the parallel channel written to
// shipment_workflows.status_history (spec §4.4).
type WorkflowHistoryEntry struct {
	Status       Status    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	Timestamp    time.Time `json:"timestamp"`
	ChangedBy    string    `json:"changed_by"`
	Reverted     bool      `json:"reverted,omitempty"`
	RevertedFrom *Status   `json:"reverted_from,omitempty"`
}

// Cargo is the nested cargo payload.
type Cargo struct {
	Description      string  `json:"description,omitempty"`
	WeightKG         float64 `json:"weight_kg,omitempty"`
	VolumeCBM        float64 `json:"volume_cbm,omitempty"`
	PackageCount     int     `json:"package_count,omitempty"`
	HSCode           string  `json:"hs_code,omitempty"`
	IsDangerousGoods bool    `json:"is_dangerous_goods,omitempty"`
}

// Booking is the nested booking payload.
type Booking struct {
	BookingReference string     `json:"booking_reference,omitempty"`
	CarrierName      string     `json:"carrier_name,omitempty"`
	VesselName       string     `json:"vessel_name,omitempty"`
	VoyageNumber     string     `json:"voyage_number,omitempty"`
	OnBoardDate      *time.Time `json:"on_board_date,omitempty"`
}

// Party is a shipper, consignee, or notify party.
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Parties groups the three nested party records.
type Parties struct {
	Shipper     Party `json:"shipper"`
	Consignee   Party `json:"consignee"`
	NotifyParty Party `json:"notify_party"`
}

// IsEmpty reports whether the party has no identifying data.
func (p Party) IsEmpty() bool {
	return p.Name == "" && p.Address == "" && p.Contact == "" && p.Email == "" && p.Phone == ""
}

// BLDocument is the raw/audit copy of the bill-of-lading payload,
// mirrored on every BL update regardless of merge outcome (spec §4.4).
type BLDocument struct {
	RawExtracted    map[string]any `json:"raw_extracted,omitempty"`
	PortOfLoading   string         `json:"port_of_loading,omitempty"`
	PortOfDischarge string         `json:"port_of_discharge,omitempty"`
	BLNumber        string         `json:"bl_number,omitempty"`
	ParsedAt        time.Time      `json:"parsed_at,omitempty"`
}

// Container is one line item of a SEA_FCL type_details payload.
type Container struct {
	ContainerNumber string  `json:"container_number,omitempty"`
	ContainerType   string  `json:"container_type,omitempty"`
	SealNumber      string  `json:"seal_number,omitempty"`
	WeightKG        float64 `json:"weight_kg,omitempty"`
}

// CargoItem is one line item of a non-FCL type_details payload.
type CargoItem struct {
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	WeightKG    float64 `json:"weight_kg,omitempty"`
}

// TypeDetails holds either containers (FCL) or cargo items (everything
// else); exactly one is populated for a given order type.
type TypeDetails struct {
	Containers []Container `json:"containers,omitempty"`
	CargoItems []CargoItem `json:"cargo_items,omitempty"`
}

// ExceptionData tracks the exception flag surfaced by the exception
// endpoint.
type ExceptionData struct {
	Flagged   bool      `json:"flagged"`
	Notes     string    `json:"notes,omitempty"`
	FlaggedBy string    `json:"flagged_by,omitempty"`
	FlaggedAt time.Time `json:"flagged_at,omitempty"`
}

// Creator captures who created the shipment and how.
type Creator struct {
	UID    string `json:"uid"`
	Email  string `json:"email"`
	Source string `json:"source"` // "manual" | "bl_ingestion" | "migration"
}

// RouteRole distinguishes the three positions a RouteNode may occupy.
type RouteRole string

const (
	RouteRoleOrigin      RouteRole = "ORIGIN"
	RouteRoleTranship    RouteRole = "TRANSHIP"
	RouteRoleDestination RouteRole = "DESTINATION"
)

// RouteNode is one stop in the shipment's route (spec §3).
type RouteNode struct {
	PortUNCode    string     `json:"port_un_code"`
	PortName      string     `json:"port_name"`
	Sequence      int        `json:"sequence"`
	Role          RouteRole  `json:"role"`
	ScheduledETA  *time.Time `json:"scheduled_eta,omitempty"`
	ActualETA     *time.Time `json:"actual_eta,omitempty"`
	ScheduledETD  *time.Time `json:"scheduled_etd,omitempty"`
	ActualETD     *time.Time `json:"actual_etd,omitempty"`
}

// Shipment is the primary entity of the lifecycle engine (spec §3).
type Shipment struct {
	ID             string    `json:"id" db:"id"`
	CountID        int64     `json:"countid" db:"countid"`
	CompanyID      string    `json:"company_id" db:"company_id"`
	OrderType      OrderType `json:"order_type" db:"order_type"`
	TransactionType TransactionType `json:"transaction_type" db:"transaction_type"`
	IncotermCode   string    `json:"incoterm_code" db:"incoterm_code"`

	Status          Status `json:"status" db:"status"`
	IssuedInvoice   bool   `json:"issued_invoice" db:"issued_invoice"`
	Trash           bool   `json:"trash" db:"trash"`
	MigratedFromV1  bool   `json:"migrated_from_v1" db:"migrated_from_v1"`

	OriginPort      string `json:"origin_port" db:"origin_port"`
	OriginTerminal  string `json:"origin_terminal" db:"origin_terminal"`
	DestPort        string `json:"dest_port" db:"dest_port"`
	DestTerminal    string `json:"dest_terminal" db:"dest_terminal"`

	CargoReadyDate *time.Time `json:"cargo_ready_date,omitempty" db:"cargo_ready_date"`
	ETD            *time.Time `json:"etd,omitempty" db:"etd"`
	ETA            *time.Time `json:"eta,omitempty" db:"eta"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`

	Cargo         Cargo                `json:"cargo"`
	Booking       Booking              `json:"booking"`
	Parties       Parties              `json:"parties"`
	BLDocument    BLDocument           `json:"bl_document"`
	TypeDetails   TypeDetails          `json:"type_details"`
	ExceptionData ExceptionData        `json:"exception_data"`
	RouteNodes    []RouteNode          `json:"route_nodes"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
	Creator       Creator              `json:"creator"`
}

// CanonicalPrefix and LegacyAliasPrefix are the two id key conventions
// described in spec §3.
const (
	CanonicalPrefix   = "AF-"
	LegacyAliasPrefix = "AFCQ-"
)
