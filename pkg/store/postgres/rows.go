package postgres

import (
	"encoding/json"
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// shipmentRow is the flat scan target for a `shipments` row: JSON
// columns land as raw bytes and are unmarshaled into the nested
// domain.Shipment payload fields by toDomain (spec §9: "parse-validate
// on read using a thin JSON-to-record adapter").
type shipmentRow struct {
	ID              string          `db:"id"`
	CountID         int64           `db:"countid"`
	CompanyID       string          `db:"company_id"`
	OrderType       string          `db:"order_type"`
	TransactionType string          `db:"transaction_type"`
	IncotermCode    string          `db:"incoterm_code"`
	Status          int             `db:"status"`
	IssuedInvoice   bool            `db:"issued_invoice"`
	Trash           bool            `db:"trash"`
	MigratedFromV1  bool            `db:"migrated_from_v1"`
	OriginPort      string          `db:"origin_port"`
	OriginTerminal  string          `db:"origin_terminal"`
	DestPort        string          `db:"dest_port"`
	DestTerminal    string          `db:"dest_terminal"`
	CargoReadyDate  *time.Time      `db:"cargo_ready_date"`
	ETD             *time.Time      `db:"etd"`
	ETA             *time.Time      `db:"eta"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	Cargo           json.RawMessage `db:"cargo"`
	Booking         json.RawMessage `db:"booking"`
	Parties         json.RawMessage `db:"parties"`
	BLDocument      json.RawMessage `db:"bl_document"`
	TypeDetails     json.RawMessage `db:"type_details"`
	ExceptionData   json.RawMessage `db:"exception_data"`
	RouteNodes      json.RawMessage `db:"route_nodes"`
	StatusHistory   json.RawMessage `db:"status_history"`
	Creator         json.RawMessage `db:"creator"`
}

const shipmentColumns = `id, countid, company_id, order_type, transaction_type, incoterm_code,
	status, issued_invoice, trash, migrated_from_v1,
	origin_port, origin_terminal, dest_port, dest_terminal,
	cargo_ready_date, etd, eta, created_at, updated_at,
	cargo, booking, parties, bl_document, type_details, exception_data,
	route_nodes, status_history, creator`

func (r shipmentRow) toDomain() (domain.Shipment, error) {
	s := domain.Shipment{
		ID:              r.ID,
		CountID:         r.CountID,
		CompanyID:       r.CompanyID,
		OrderType:       domain.OrderType(r.OrderType),
		TransactionType: domain.TransactionType(r.TransactionType),
		IncotermCode:    r.IncotermCode,
		Status:          domain.Status(r.Status),
		IssuedInvoice:   r.IssuedInvoice,
		Trash:           r.Trash,
		MigratedFromV1:  r.MigratedFromV1,
		OriginPort:      r.OriginPort,
		OriginTerminal:  r.OriginTerminal,
		DestPort:        r.DestPort,
		DestTerminal:    r.DestTerminal,
		CargoReadyDate:  r.CargoReadyDate,
		ETD:             r.ETD,
		ETA:             r.ETA,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	unmarshalJSON := []struct {
		raw  json.RawMessage
		dest any
	}{
		{r.Cargo, &s.Cargo},
		{r.Booking, &s.Booking},
		{r.Parties, &s.Parties},
		{r.BLDocument, &s.BLDocument},
		{r.TypeDetails, &s.TypeDetails},
		{r.ExceptionData, &s.ExceptionData},
		{r.RouteNodes, &s.RouteNodes},
		{r.StatusHistory, &s.StatusHistory},
		{r.Creator, &s.Creator},
	}
	for _, u := range unmarshalJSON {
		if len(u.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(u.raw, u.dest); err != nil {
			return domain.Shipment{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to decode shipment payload column")
		}
	}
	return s, nil
}

// shipmentArgs marshals the nested payload fields of s to JSON for
// parameter binding on insert/update.
func shipmentArgs(s domain.Shipment) (cargo, booking, parties, bl, typeDetails, exception, routeNodes, statusHistory, creator []byte, err error) {
	marshal := func(v any) []byte {
		if err != nil {
			return nil
		}
		var b []byte
		b, err = json.Marshal(v)
		return b
	}
	cargo = marshal(s.Cargo)
	booking = marshal(s.Booking)
	parties = marshal(s.Parties)
	bl = marshal(s.BLDocument)
	typeDetails = marshal(s.TypeDetails)
	exception = marshal(s.ExceptionData)
	routeNodes = marshal(s.RouteNodes)
	statusHistory = marshal(s.StatusHistory)
	creator = marshal(s.Creator)
	if err != nil {
		err = apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to encode shipment payload column")
	}
	return
}

// taskRow mirrors domain.Task for JSON storage inside
// shipment_workflows.workflow_tasks (a JSON array column, not its own
// table — tasks are always read/written as the whole list per shipment,
// matching how C3 operates on them in memory).
type taskRow = domain.Task

type workflowRow struct {
	ShipmentID    string          `db:"shipment_id"`
	WorkflowTasks json.RawMessage `db:"workflow_tasks"`
	StatusHistory json.RawMessage `db:"status_history"`
	Completed     bool            `db:"completed"`
	Trash         bool            `db:"trash"`
}

func (r workflowRow) tasks() ([]domain.Task, error) {
	if len(r.WorkflowTasks) == 0 {
		return nil, nil
	}
	var tasks []domain.Task
	if err := json.Unmarshal(r.WorkflowTasks, &tasks); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to decode workflow_tasks")
	}
	return tasks, nil
}

func (r workflowRow) history() ([]domain.WorkflowHistoryEntry, error) {
	if len(r.StatusHistory) == 0 {
		return nil, nil
	}
	var h []domain.WorkflowHistoryEntry
	if err := json.Unmarshal(r.StatusHistory, &h); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to decode workflow status_history")
	}
	return h, nil
}
