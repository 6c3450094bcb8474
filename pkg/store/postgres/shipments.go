package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

const insertShipmentSQL = `
	INSERT INTO shipments (` + shipmentColumns + `)
	VALUES (:id, :countid, :company_id, :order_type, :transaction_type, :incoterm_code,
		:status, :issued_invoice, :trash, :migrated_from_v1,
		:origin_port, :origin_terminal, :dest_port, :dest_terminal,
		:cargo_ready_date, :etd, :eta, :created_at, :updated_at,
		:cargo, :booking, :parties, :bl_document, :type_details, :exception_data,
		:route_nodes, :status_history, :creator)`

const updateShipmentSQL = `
	UPDATE shipments SET
		company_id = :company_id, order_type = :order_type, transaction_type = :transaction_type,
		incoterm_code = :incoterm_code, status = :status, issued_invoice = :issued_invoice,
		trash = :trash, migrated_from_v1 = :migrated_from_v1,
		origin_port = :origin_port, origin_terminal = :origin_terminal,
		dest_port = :dest_port, dest_terminal = :dest_terminal,
		cargo_ready_date = :cargo_ready_date, etd = :etd, eta = :eta, updated_at = :updated_at,
		cargo = :cargo, booking = :booking, parties = :parties, bl_document = :bl_document,
		type_details = :type_details, exception_data = :exception_data,
		route_nodes = :route_nodes, status_history = :status_history, creator = :creator
	WHERE id = :id`

// shipmentBindArgs is the named-parameter struct for insert/update: the
// flat fields bind directly and the nested payloads are pre-marshaled
// to JSON bytes so the driver writes them into jsonb columns.
type shipmentBindArgs struct {
	ID              string     `db:"id"`
	CountID         int64      `db:"countid"`
	CompanyID       string     `db:"company_id"`
	OrderType       string     `db:"order_type"`
	TransactionType string     `db:"transaction_type"`
	IncotermCode    string     `db:"incoterm_code"`
	Status          int        `db:"status"`
	IssuedInvoice   bool       `db:"issued_invoice"`
	Trash           bool       `db:"trash"`
	MigratedFromV1  bool       `db:"migrated_from_v1"`
	OriginPort      string     `db:"origin_port"`
	OriginTerminal  string     `db:"origin_terminal"`
	DestPort        string     `db:"dest_port"`
	DestTerminal    string     `db:"dest_terminal"`
	CargoReadyDate  *time.Time `db:"cargo_ready_date"`
	ETD             *time.Time `db:"etd"`
	ETA             *time.Time `db:"eta"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	Cargo           []byte     `db:"cargo"`
	Booking         []byte     `db:"booking"`
	Parties         []byte     `db:"parties"`
	BLDocument      []byte     `db:"bl_document"`
	TypeDetails     []byte     `db:"type_details"`
	ExceptionData   []byte     `db:"exception_data"`
	RouteNodes      []byte     `db:"route_nodes"`
	StatusHistory   []byte     `db:"status_history"`
	Creator         []byte     `db:"creator"`
}

func toBindArgs(sh domain.Shipment) (shipmentBindArgs, error) {
	cargo, booking, parties, bl, typeDetails, exception, routeNodes, statusHistory, creator, err := shipmentArgs(sh)
	if err != nil {
		return shipmentBindArgs{}, err
	}
	return shipmentBindArgs{
		ID: sh.ID, CountID: sh.CountID, CompanyID: sh.CompanyID,
		OrderType: string(sh.OrderType), TransactionType: string(sh.TransactionType),
		IncotermCode: sh.IncotermCode, Status: int(sh.Status),
		IssuedInvoice: sh.IssuedInvoice, Trash: sh.Trash, MigratedFromV1: sh.MigratedFromV1,
		OriginPort: sh.OriginPort, OriginTerminal: sh.OriginTerminal,
		DestPort: sh.DestPort, DestTerminal: sh.DestTerminal,
		CargoReadyDate: sh.CargoReadyDate, ETD: sh.ETD, ETA: sh.ETA,
		CreatedAt: sh.CreatedAt, UpdatedAt: sh.UpdatedAt,
		Cargo: cargo, Booking: booking, Parties: parties, BLDocument: bl,
		TypeDetails: typeDetails, ExceptionData: exception,
		RouteNodes: routeNodes, StatusHistory: statusHistory, Creator: creator,
	}, nil
}

// NextCountID allocates the next value of the process-wide monotonic
// sequence backing a shipment's countid (spec §3 invariant 1, §5
// "the only cross-shipment shared integer").
func (s *Store) NextCountID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.db.GetContext(ctx, &id, `SELECT nextval('shipment_countid_seq')`); err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to allocate countid")
	}
	return id, nil
}

// CreateShipment is the shared body of "create (manual)" and "create
// from BL" (spec §4.4): both allocate a countid, form the AF- id,
// write the shipments row with the caller-supplied initial status and
// one-entry history, write a matching shipment_workflows row with the
// generated task list, and emit an audit log entry — all in one unit
// of work. Callers set sh.Status and sh.StatusHistory before calling;
// only the initial-status derivation differs between the two flows.
func (s *Store) CreateShipment(ctx context.Context, sh domain.Shipment, tasks []domain.Task, auditAction, actorUID, actorEmail string) (domain.Shipment, error) {
	countID, err := s.NextCountID(ctx)
	if err != nil {
		return domain.Shipment{}, err
	}
	now := sh.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	sh.CountID = countID
	sh.ID = fmt.Sprintf("%s%06d", domain.CanonicalPrefix, countID)
	sh.CreatedAt = now
	sh.UpdatedAt = now

	history := make([]domain.WorkflowHistoryEntry, 0, len(sh.StatusHistory))
	for _, h := range sh.StatusHistory {
		history = append(history, domain.WorkflowHistoryEntry{
			Status: h.Status, StatusLabel: h.Label, Timestamp: h.Timestamp, ChangedBy: h.ChangedBy,
		})
	}

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		args, err := toBindArgs(sh)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertShipmentSQL, args); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to insert shipment")
		}
		if err := insertWorkflow(ctx, tx, sh.ID, tasks, history); err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, auditAction, sh.ID, actorUID, actorEmail, now)
	})
	if err != nil {
		return domain.Shipment{}, err
	}
	return sh, nil
}

// GetShipment loads one shipment by id. companyScope, when non-empty,
// restricts the read to that company (AFC scope, spec §4.6); a scope
// miss returns NOT_FOUND rather than FORBIDDEN so existence is never
// revealed (spec S6).
func (s *Store) GetShipment(ctx context.Context, id, companyScope string) (domain.Shipment, error) {
	id = resolveLegacyAlias(id)
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1 AND trash = false`
	args := []any{id}
	if companyScope != "" {
		query += ` AND company_id = $2`
		args = append(args, companyScope)
	}
	var row shipmentRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		return domain.Shipment{}, mapNoRows(err, "shipment")
	}
	return row.toDomain()
}

// resolveLegacyAlias maps an AFCQ- legacy id to its canonical AF- form
// on read (spec §3: "legacy alias that resolves to canonical on
// read"). The numeric suffix is shared between the two prefixes by
// migration design (see pkg/migrator), so a straight prefix swap is
// the whole adapter.
func resolveLegacyAlias(id string) string {
	if len(id) > len(domain.LegacyAliasPrefix) && id[:len(domain.LegacyAliasPrefix)] == domain.LegacyAliasPrefix {
		return domain.CanonicalPrefix + id[len(domain.LegacyAliasPrefix):]
	}
	return id
}

// ShipmentList is a page of shipments plus the total row count matched
// by the filter, for pagination metadata.
type ShipmentList struct {
	Shipments []domain.Shipment
	Total     int
}

// ListFilter selects the tab-scoped query shape for the paginated
// shipment list (spec §4.4 aggregation filters, reused for listing).
type ListFilter struct {
	Tab          string
	CompanyScope string
	Offset       int
	Limit        int
}

func tabCondition(tab string) string {
	switch tab {
	case "active":
		return `(status IN (3001,3002,4001,4002) OR (status = 2001 AND NOT migrated_from_v1))`
	case "completed":
		return `(status = 5001 OR (status = 2001 AND migrated_from_v1))`
	case "to_invoice":
		return `(status = 5001 AND issued_invoice = false)`
	case "draft":
		return `status IN (1001,1002)`
	case "cancelled":
		return `status = -1`
	default:
		return `true`
	}
}

// ListShipments returns a tab-filtered, paginated, scope-applied page
// of shipments ordered by updated_at descending (spec §6, §4.4).
func (s *Store) ListShipments(ctx context.Context, f ListFilter) (ShipmentList, error) {
	where := `trash = false AND ` + tabCondition(f.Tab)
	args := []any{}
	idx := 1
	if f.CompanyScope != "" {
		where += fmt.Sprintf(" AND company_id = $%d", idx)
		args = append(args, f.CompanyScope)
		idx++
	}

	var total int
	countQuery := `SELECT count(*) FROM shipments WHERE ` + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return ShipmentList{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to count shipments")
	}

	limit, offset := f.Limit, f.Offset
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM shipments WHERE %s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`,
		shipmentColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	var rows []shipmentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return ShipmentList{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list shipments")
	}
	out := make([]domain.Shipment, 0, len(rows))
	for _, r := range rows {
		sh, err := r.toDomain()
		if err != nil {
			return ShipmentList{}, err
		}
		out = append(out, sh)
	}
	return ShipmentList{Shipments: out, Total: total}, nil
}

// SearchShipments matches id, company name, or port by substring
// (spec §6), scoped to companyScope when set. Uses the trigram indexes
// named in spec §6 for the id and company-name columns.
func (s *Store) SearchShipments(ctx context.Context, term, companyScope string) ([]domain.Shipment, error) {
	where := `s.trash = false AND (s.id ILIKE $1 OR c.name ILIKE $1 OR s.origin_port ILIKE $1 OR s.dest_port ILIKE $1)`
	args := []any{"%" + term + "%"}
	if companyScope != "" {
		where += " AND s.company_id = $2"
		args = append(args, companyScope)
	}
	query := `SELECT ` + searchShipmentColumns + `
		FROM shipments s LEFT JOIN companies c ON c.id = s.company_id
		WHERE ` + where + ` ORDER BY s.updated_at DESC LIMIT 100`

	var rows []shipmentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to search shipments")
	}
	out := make([]domain.Shipment, 0, len(rows))
	for _, r := range rows {
		sh, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, nil
}

// Stats computes the five-way tab-count aggregation (spec §4.4) in a
// single query, scoped to companyScope when set.
type Stats struct {
	Active     int `db:"active" json:"active"`
	Completed  int `db:"completed" json:"completed"`
	ToInvoice  int `db:"to_invoice" json:"to_invoice"`
	Draft      int `db:"draft" json:"draft"`
	Cancelled  int `db:"cancelled" json:"cancelled"`
}

func (s *Store) Stats(ctx context.Context, companyScope string) (Stats, error) {
	where := "trash = false"
	args := []any{}
	if companyScope != "" {
		where += " AND company_id = $1"
		args = append(args, companyScope)
	}
	query := `SELECT
		count(*) FILTER (WHERE ` + tabCondition("active") + `) AS active,
		count(*) FILTER (WHERE ` + tabCondition("completed") + `) AS completed,
		count(*) FILTER (WHERE ` + tabCondition("to_invoice") + `) AS to_invoice,
		count(*) FILTER (WHERE ` + tabCondition("draft") + `) AS draft,
		count(*) FILTER (WHERE ` + tabCondition("cancelled") + `) AS cancelled
		FROM shipments WHERE ` + where

	var stats Stats
	if err := s.db.GetContext(ctx, &stats, query, args...); err != nil {
		return Stats{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to compute stats")
	}
	return stats, nil
}

// searchShipmentColumns is shipmentColumns qualified with the "s" alias
// used by SearchShipments' join against companies.
const searchShipmentColumns = `s.id, s.countid, s.company_id, s.order_type, s.transaction_type, s.incoterm_code,
	s.status, s.issued_invoice, s.trash, s.migrated_from_v1,
	s.origin_port, s.origin_terminal, s.dest_port, s.dest_terminal,
	s.cargo_ready_date, s.etd, s.eta, s.created_at, s.updated_at,
	s.cargo, s.booking, s.parties, s.bl_document, s.type_details, s.exception_data,
	s.route_nodes, s.status_history, s.creator`
