package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// SetInvoiced toggles issued_invoice; spec §3 invariant 5 and §8
// "boundary behaviors" require status = COMPLETED, enforced here so
// the check and the write are atomic.
func (s *Store) SetInvoiced(ctx context.Context, shipmentID, companyScope string, invoiced bool) (domain.Shipment, error) {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return domain.Shipment{}, err
	}
	if invoiced && sh.Status != domain.StatusCompleted {
		return domain.Shipment{}, apperrors.NewValidationError("issued_invoice may only be set when status is COMPLETED")
	}
	sh.IssuedInvoice = invoiced
	sh.UpdatedAt = time.Now().UTC()
	query := `UPDATE shipments SET issued_invoice = $1, updated_at = $2 WHERE id = $3`
	if invoiced {
		query += ` AND status = 5001`
	}
	res, err := s.db.ExecContext(ctx, query, invoiced, sh.UpdatedAt, sh.ID)
	if err != nil {
		return domain.Shipment{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update shipment")
	}
	if n, _ := res.RowsAffected(); invoiced && n == 0 {
		return domain.Shipment{}, apperrors.NewValidationError("issued_invoice may only be set when status is COMPLETED")
	}
	return sh, nil
}

// SetException applies the exception flag/notes patch (spec §6).
func (s *Store) SetException(ctx context.Context, shipmentID, companyScope string, flagged bool, notes, flaggedBy string) (domain.Shipment, error) {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return domain.Shipment{}, err
	}
	now := time.Now().UTC()
	sh.ExceptionData = domain.ExceptionData{Flagged: flagged, Notes: notes, FlaggedBy: flaggedBy, FlaggedAt: now}
	sh.UpdatedAt = now
	if err := s.updateFlatShipment(ctx, sh); err != nil {
		return domain.Shipment{}, err
	}
	return sh, nil
}

// ReassignCompany changes a shipment's owning company (AFU only, spec
// §4.6 permission matrix).
func (s *Store) ReassignCompany(ctx context.Context, shipmentID, newCompanyID string) (domain.Shipment, error) {
	sh, err := s.GetShipment(ctx, shipmentID, "")
	if err != nil {
		return domain.Shipment{}, err
	}
	sh.CompanyID = newCompanyID
	sh.UpdatedAt = time.Now().UTC()
	if err := s.updateFlatShipment(ctx, sh); err != nil {
		return domain.Shipment{}, err
	}
	return sh, nil
}

// MergeParties applies the merge-not-replace rule of spec §4.4: a
// currently-empty field is filled from patch; a currently non-empty
// field is overwritten only when force is true.
func (s *Store) MergeParties(ctx context.Context, shipmentID, companyScope string, patch domain.Parties, force bool) (domain.Shipment, error) {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return domain.Shipment{}, err
	}
	sh.Parties.Shipper = mergeParty(sh.Parties.Shipper, patch.Shipper, force)
	sh.Parties.Consignee = mergeParty(sh.Parties.Consignee, patch.Consignee, force)
	sh.Parties.NotifyParty = mergeParty(sh.Parties.NotifyParty, patch.NotifyParty, force)
	sh.UpdatedAt = time.Now().UTC()
	if err := s.updateFlatShipment(ctx, sh); err != nil {
		return domain.Shipment{}, err
	}
	return sh, nil
}

func mergeParty(current, patch domain.Party, force bool) domain.Party {
	return domain.Party{
		Name:    mergeField(current.Name, patch.Name, force),
		Address: mergeField(current.Address, patch.Address, force),
		Contact: mergeField(current.Contact, patch.Contact, force),
		Email:   mergeField(current.Email, patch.Email, force),
		Phone:   mergeField(current.Phone, patch.Phone, force),
	}
}

func mergeField(current, patch string, force bool) string {
	if patch == "" {
		return current
	}
	if current == "" || force {
		return patch
	}
	return current
}

// UpdateFromBL applies spec §4.4 "update from BL": merge booking,
// parties, bl_document, type_details; always mirror the raw parsed
// payload into bl_document as an audit copy; attach the uploaded BL
// PDF as a "bl"-tagged file in the same unit of work.
type UpdateFromBLInput struct {
	Booking       domain.Booking
	Parties       domain.Parties
	BLDocument    domain.BLDocument
	TypeDetails   domain.TypeDetails
	Force         bool
	FilePatch     *ShipmentFileUpload // nil when the caller did not attach a new file
	ChangedBy     string
	ChangedByUID  string
}

func (s *Store) UpdateFromBL(ctx context.Context, shipmentID, companyScope string, in UpdateFromBLInput) (domain.Shipment, error) {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return domain.Shipment{}, err
	}

	if in.Booking.BookingReference != "" {
		sh.Booking.BookingReference = mergeField(sh.Booking.BookingReference, in.Booking.BookingReference, in.Force)
	}
	sh.Booking.CarrierName = mergeField(sh.Booking.CarrierName, in.Booking.CarrierName, in.Force)
	sh.Booking.VesselName = mergeField(sh.Booking.VesselName, in.Booking.VesselName, in.Force)
	sh.Booking.VoyageNumber = mergeField(sh.Booking.VoyageNumber, in.Booking.VoyageNumber, in.Force)
	if in.Booking.OnBoardDate != nil && (sh.Booking.OnBoardDate == nil || in.Force) {
		sh.Booking.OnBoardDate = in.Booking.OnBoardDate
	}

	sh.Parties.Shipper = mergeParty(sh.Parties.Shipper, in.Parties.Shipper, in.Force)
	sh.Parties.Consignee = mergeParty(sh.Parties.Consignee, in.Parties.Consignee, in.Force)
	sh.Parties.NotifyParty = mergeParty(sh.Parties.NotifyParty, in.Parties.NotifyParty, in.Force)

	if len(in.TypeDetails.Containers) > 0 || in.Force {
		sh.TypeDetails.Containers = in.TypeDetails.Containers
	}
	if len(in.TypeDetails.CargoItems) > 0 || in.Force {
		sh.TypeDetails.CargoItems = in.TypeDetails.CargoItems
	}

	// The raw parsed payload is always mirrored in, regardless of merge
	// outcome above (spec §4.4: "Raw parsed values are always mirrored
	// into bl_document as an audit copy").
	sh.BLDocument = in.BLDocument
	sh.UpdatedAt = time.Now().UTC()

	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		args, bindErr := toBindArgs(sh)
		if bindErr != nil {
			return bindErr
		}
		if _, err := tx.NamedExecContext(ctx, `UPDATE shipments SET
			booking = :booking, parties = :parties, bl_document = :bl_document,
			type_details = :type_details, updated_at = :updated_at WHERE id = :id`, args); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update shipment from BL")
		}
		if in.FilePatch != nil {
			if _, err := insertFileTx(ctx, tx, *in.FilePatch); err != nil {
				return err
			}
		}
		return insertAuditLog(ctx, tx, domain.ActionShipmentBLUpdated, sh.ID, in.ChangedByUID, in.ChangedBy, sh.UpdatedAt)
	})
	if err != nil {
		return domain.Shipment{}, err
	}
	return sh, nil
}

// SoftDelete sets trash = true on both the shipment and its workflow
// (spec §4.4).
func (s *Store) SoftDelete(ctx context.Context, shipmentID, companyScope, actorUID, actorEmail string) error {
	sh, err := s.GetShipment(ctx, shipmentID, companyScope)
	if err != nil {
		return err
	}
	if sh.Trash {
		return apperrors.NewConflictError("shipment is already deleted")
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE shipments SET trash = true, updated_at = now() WHERE id = $1`, sh.ID); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to soft-delete shipment")
		}
		if _, err := tx.ExecContext(ctx, `UPDATE shipment_workflows SET trash = true WHERE shipment_id = $1`, sh.ID); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to soft-delete shipment workflow")
		}
		return insertAuditLog(ctx, tx, domain.ActionShipmentSoftDeleted, sh.ID, actorUID, actorEmail, time.Now().UTC())
	})
}

// HardDelete permanently removes a shipment and cascades to its files
// and workflow. The caller (handler layer) is responsible for the
// non-production environment gate (spec §4.4, §7 "hard delete in
// production is rejected").
func (s *Store) HardDelete(ctx context.Context, shipmentID, actorUID, actorEmail string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM shipments WHERE id = $1`, shipmentID)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to hard-delete shipment")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NewNotFoundError("shipment")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shipment_workflows WHERE shipment_id = $1`, shipmentID); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to cascade-delete workflow")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM shipment_files WHERE shipment_id = $1`, shipmentID); err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to cascade-delete files")
		}
		return insertAuditLog(ctx, tx, domain.ActionShipmentHardDeleted, shipmentID, actorUID, actorEmail, time.Now().UTC())
	})
}

// updateFlatShipment persists the flat + JSON columns of sh without
// touching workflow state, used by the smaller PATCH flows that do not
// need the full insert/update template duplicated inline.
func (s *Store) updateFlatShipment(ctx context.Context, sh domain.Shipment) error {
	args, err := toBindArgs(sh)
	if err != nil {
		return err
	}
	if _, err := s.db.NamedExecContext(ctx, updateShipmentSQL, args); err != nil {
		return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update shipment")
	}
	return nil
}
