package migrator

import (
	"strings"

	"github.com/affreight/shipengine/pkg/domain"
)

// deriveOrderType ports the original migration's freight_type /
// container_load classification, defaulting to SEA_LCL when neither
// signal is set (spec §4.5, matching the original's own fallback).
func deriveOrderType(q LegacyQuotation) domain.OrderType {
	switch {
	case strings.EqualFold(q.FreightType, FreightTypeAir):
		return domain.OrderTypeAir
	case strings.EqualFold(q.ContainerLoad, LoadFCL):
		return domain.OrderTypeSeaFCL
	case strings.EqualFold(q.ContainerLoad, LoadLCL):
		return domain.OrderTypeSeaLCL
	default:
		return domain.OrderTypeSeaLCL
	}
}

// deriveStatus ports the original's status resolution: the
// ShipmentOrder's status is the source of truth once a booking
// exists; an unconfirmed quotation is never migrated at all (the
// caller filters those out before this runs), so this only needs to
// handle the confirmed case.
func deriveStatus(so LegacyShipmentOrder) domain.Status {
	if so.Status != 0 {
		return so.Status
	}
	return domain.StatusConfirmed
}

func isDangerousGoods(q LegacyQuotation) bool {
	return strings.EqualFold(q.CargoType, "DG")
}

// buildParties ports the original's four-tier priority order: the
// modern Quotation.parties dict wins if present and non-empty, then
// ShipmentOrder's structured party objects, then its flat name/address
// fields, then the Quotation's own flat fields, then an empty triple.
func buildParties(q LegacyQuotation, so *LegacyShipmentOrder) domain.Parties {
	if q.Parties != nil {
		p := *q.Parties
		if !p.Shipper.IsEmpty() || !p.Consignee.IsEmpty() || !p.NotifyParty.IsEmpty() {
			return p
		}
	}

	if so != nil {
		if so.Shipper != nil || so.Consignee != nil {
			return domain.Parties{
				Shipper:     derefParty(so.Shipper),
				Consignee:   derefParty(so.Consignee),
				NotifyParty: derefParty(so.NotifyParty),
			}
		}
		if so.ShipperName != "" || so.ConsigneeName != "" {
			return domain.Parties{
				Shipper:   domain.Party{Name: so.ShipperName, Address: so.ShipperAddress},
				Consignee: domain.Party{Name: so.ConsigneeName, Address: so.ConsigneeAddress},
			}
		}
	}

	if q.ShipperName != "" || q.ConsigneeName != "" {
		return domain.Parties{
			Shipper:   domain.Party{Name: q.ShipperName, Address: q.ShipperAddress},
			Consignee: domain.Party{Name: q.ConsigneeName, Address: q.ConsigneeAddress},
		}
	}

	return domain.Parties{}
}

func derefParty(p *domain.Party) domain.Party {
	if p == nil {
		return domain.Party{}
	}
	return *p
}

// buildBooking ports the original's booking assembly: vessel, voyage,
// booking reference, and carrier come from the ShipmentOrder only.
// LegacyQuotation carries no booking fields, so no gap is filled from
// the Quotation.
func buildBooking(so *LegacyShipmentOrder) domain.Booking {
	if so == nil {
		return domain.Booking{}
	}
	return domain.Booking{
		VesselName:       so.VesselName,
		VoyageNumber:     so.VoyageNumber,
		BookingReference: so.BookingReference,
		CarrierName:      so.CarrierName,
	}
}

// buildRoute ports the original's origin/destination assembly: the
// port codes come from the ShipmentOrder only. There is no fallback
// to the Quotation, which carries no port codes.
func buildRoute(q LegacyQuotation, so *LegacyShipmentOrder) (origin, dest string) {
	origin, dest = "", ""
	if so != nil {
		origin, dest = so.OriginPortUNCode, so.DestPortUNCode
	}
	return origin, dest
}

// assembled is the intermediate result of assembling one legacy
// record, carrying just enough to let the runner build the canonical
// domain.Shipment and the original's structured migration report.
type assembled struct {
	orderType     domain.OrderType
	status        domain.Status
	transactionType domain.TransactionType
	parties       domain.Parties
	booking       domain.Booking
	originPort    string
	destPort      string
	cargo         domain.Cargo
	issuedInvoice bool
}

// assemble ports assemble_v2_record: builds every derived field of a
// canonical shipment from its legacy sources. so is required — the
// caller has already filtered out quotations without a confirmed
// ShipmentOrder (spec §4.5, "unconfirmed quotations are not
// migrated").
func assemble(q LegacyQuotation, so LegacyShipmentOrder, issuedInvoice bool) assembled {
	orderType := deriveOrderType(q)
	origin, dest := buildRoute(q, &so)
	return assembled{
		orderType:       orderType,
		status:          deriveStatus(so),
		transactionType: domain.TransactionType(strings.ToUpper(q.TransactionType)),
		parties:         buildParties(q, &so),
		booking:         buildBooking(&so),
		originPort:      origin,
		destPort:        dest,
		cargo: domain.Cargo{
			Description:      q.Commodity,
			HSCode:           q.HSCode,
			IsDangerousGoods: isDangerousGoods(q),
		},
		issuedInvoice: issuedInvoice,
	}
}
