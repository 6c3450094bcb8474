package httpapi

import (
	"time"

	"github.com/affreight/shipengine/pkg/domain"
)

// createShipmentRequest is the body of POST /shipments (manual
// create, spec §4.4).
type createShipmentRequest struct {
	CompanyID       string              `json:"company_id" validate:"required"`
	OrderType       domain.OrderType    `json:"order_type" validate:"required,oneof=SEA_FCL SEA_LCL AIR CROSS_BORDER GROUND"`
	TransactionType domain.TransactionType `json:"transaction_type" validate:"required,oneof=IMPORT EXPORT DOMESTIC"`
	IncotermCode    string              `json:"incoterm_code" validate:"required"`
	OriginPort      string              `json:"origin_port"`
	OriginTerminal  string              `json:"origin_terminal"`
	DestPort        string              `json:"dest_port"`
	DestTerminal    string              `json:"dest_terminal"`
	CargoReadyDate  *time.Time          `json:"cargo_ready_date"`
	ETD             *time.Time          `json:"etd"`
	ETA             *time.Time          `json:"eta"`
	Cargo           domain.Cargo        `json:"cargo"`
	Booking         domain.Booking      `json:"booking"`
	Parties         domain.Parties      `json:"parties"`
	TypeDetails     domain.TypeDetails  `json:"type_details"`
}

// createFromBLRequest is the body of POST /shipments/create-from-bl:
// the caller replays a prior parse-bl Result (possibly edited) back
// in, plus the company it should be filed under (spec §4.5).
type createFromBLRequest struct {
	CompanyID         string             `json:"company_id" validate:"required"`
	OrderType         domain.OrderType   `json:"order_type" validate:"required,oneof=SEA_FCL SEA_LCL AIR CROSS_BORDER GROUND"`
	InitialStatus     domain.Status      `json:"initial_status" validate:"required"`
	OriginUNCode      string             `json:"origin_un_code"`
	DestinationUNCode string             `json:"destination_un_code"`
	IncotermCode      string             `json:"incoterm_code"`
	TransactionType   domain.TransactionType `json:"transaction_type" validate:"required,oneof=IMPORT EXPORT DOMESTIC"`
	Booking           domain.Booking     `json:"booking"`
	Parties           domain.Parties     `json:"parties"`
	BLDocument        domain.BLDocument  `json:"bl_document"`
	TypeDetails       domain.TypeDetails `json:"type_details"`
}

// updateStatusRequest is the body of PATCH /shipments/{id}/status.
type updateStatusRequest struct {
	Status    domain.Status `json:"status" validate:"required"`
	AllowJump bool          `json:"allow_jump"`
	Reverted  bool          `json:"reverted"`
	Note      string        `json:"note"`
}

// invoicedRequest is the body of PATCH /shipments/{id}/invoiced.
type invoicedRequest struct {
	IssuedInvoice bool `json:"issued_invoice"`
}

// exceptionRequest is the body of PATCH /shipments/{id}/exception.
type exceptionRequest struct {
	Flagged bool   `json:"flagged"`
	Notes   string `json:"notes"`
}

// companyRequest is the body of PATCH /shipments/{id}/company.
type companyRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
}

// partiesRequest is the body of PATCH /shipments/{id}/parties.
type partiesRequest struct {
	Parties domain.Parties `json:"parties"`
	Force   bool           `json:"force"`
}

// blPatchRequest is the body of PATCH /shipments/{id}/bl: a manual
// correction to the booking/parties/type_details merged in by the
// original BL ingestion (spec §4.4 "update from BL").
type blPatchRequest struct {
	Booking     domain.Booking     `json:"booking"`
	Parties     domain.Parties     `json:"parties"`
	BLDocument  domain.BLDocument  `json:"bl_document"`
	TypeDetails domain.TypeDetails `json:"type_details"`
	Force       bool               `json:"force"`
}

// taskPatchRequest is the body of PATCH .../tasks/{task_id}; every
// field is optional and mirrors pkg/workflow.Patch.
type taskPatchRequest struct {
	Status          *domain.TaskStatus `json:"status"`
	Mode            *domain.TaskMode   `json:"mode"`
	AssignedTo      *domain.AssignedTo `json:"assigned_to"`
	ThirdPartyName  *string            `json:"third_party_name"`
	Visibility      *domain.Visibility `json:"visibility"`
	ScheduledStart  *time.Time         `json:"scheduled_start"`
	ScheduledEnd    *time.Time         `json:"scheduled_end"`
	ActualStart     *time.Time         `json:"actual_start"`
	ActualEnd       *time.Time         `json:"actual_end"`
	DueDate         *time.Time         `json:"due_date"`
	DueDateOverride *bool              `json:"due_date_override"`
	Notes           *string            `json:"notes"`
}

// routeNodesRequest is the body of PUT .../route-nodes.
type routeNodesRequest struct {
	Nodes []domain.RouteNode `json:"nodes" validate:"required,dive"`
}

// filePatchRequest is the body of PATCH .../files/{file_id}.
type filePatchRequest struct {
	Visibility *bool    `json:"visibility"`
	FileTags   []string `json:"file_tags"`
}
