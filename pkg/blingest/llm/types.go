// Package llm wraps the Anthropic SDK behind a fixed extraction prompt,
// a circuit breaker, and a bounded retry, and exposes the raw fields a
// Bill of Lading document yields (spec §4.5 steps 1-3).
package llm

// Container is one extracted container line item.
type Container struct {
	ContainerNumber string  `json:"container_number,omitempty"`
	ContainerType   string  `json:"container_type,omitempty"`
	SealNumber      string  `json:"seal_number,omitempty"`
	Packages        string  `json:"packages,omitempty"`
	WeightKG        float64 `json:"weight_kg,omitempty"`
}

// Extracted is the raw object the model is instructed to return — field
// names and shape mirror the fixed schema prompt verbatim so
// json.Unmarshal needs no translation layer.
type Extracted struct {
	WaybillNumber    string      `json:"waybill_number,omitempty"`
	BookingNumber    string      `json:"booking_number,omitempty"`
	Carrier          string      `json:"carrier,omitempty"`
	VesselName       string      `json:"vessel_name,omitempty"`
	VoyageNumber     string      `json:"voyage_number,omitempty"`
	PortOfLoading    string      `json:"port_of_loading,omitempty"`
	PortOfDischarge  string      `json:"port_of_discharge,omitempty"`
	OnBoardDate      string      `json:"on_board_date,omitempty"`
	FreightTerms     string      `json:"freight_terms,omitempty"`
	ShipperName      string      `json:"shipper_name,omitempty"`
	ShipperAddress   string      `json:"shipper_address,omitempty"`
	ConsigneeName    string      `json:"consignee_name,omitempty"`
	ConsigneeAddress string      `json:"consignee_address,omitempty"`
	NotifyPartyName  string      `json:"notify_party_name,omitempty"`
	CargoDescription string      `json:"cargo_description,omitempty"`
	TotalWeightKG    float64     `json:"total_weight_kg,omitempty"`
	TotalPackages    string      `json:"total_packages,omitempty"`
	DeliveryStatus   string      `json:"delivery_status,omitempty"`
	Containers       []Container `json:"containers,omitempty"`
}
