// Package blingest implements the Bill of Lading ingestion pipeline
// (component C5): opaque document -> LLM extraction -> field
// derivation -> port and company matching -> draft shipment payload
// (spec §4.5). Creation itself is a separate, explicit call that
// replays this pipeline's output into the store's create-from-BL flow;
// this package only parses and matches.
package blingest

import (
	"context"
	"strings"
	"time"

	"github.com/affreight/shipengine/pkg/blingest/companymatch"
	"github.com/affreight/shipengine/pkg/blingest/llm"
	"github.com/affreight/shipengine/pkg/blingest/portmatch"
	"github.com/affreight/shipengine/pkg/domain"
)

// PortLister and CompanyLister abstract the two catalogs this pipeline
// reads; backed by pkg/cache's PortsCache/CompanyNamesCache-adjacent
// loaders or pkg/store/postgres directly, kept narrow for testability
// the same way pkg/migrator's Source/Store interfaces are.
type PortLister interface {
	ListPorts(ctx context.Context) ([]domain.Port, error)
}

type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

// Extractor abstracts the LLM call itself, so Pipeline can be tested
// against a hand-written fake instead of a real Anthropic client — the
// same narrow-interface-over-an-external-dependency shape
// pkg/migrator's Source/Store use.
type Extractor interface {
	Extract(ctx context.Context, data []byte, media llm.MediaType) (llm.Extracted, error)
}

// Result is the pipeline's output: the raw extraction plus every
// derived field the parse-bl endpoint returns (spec §4.5, last
// paragraph).
type Result struct {
	Parsed llm.Extracted `json:"parsed"`

	OrderType domain.OrderType `json:"order_type"`

	OriginUNCode      string `json:"origin_un_code,omitempty"`
	OriginLabel       string `json:"origin_parsed_label,omitempty"`
	DestinationUNCode string `json:"destination_un_code,omitempty"`
	DestinationLabel  string `json:"destination_parsed_label,omitempty"`

	InitialStatus domain.Status `json:"initial_status"`

	CompanyMatches []companymatch.Match `json:"company_matches"`
}

// Pipeline wires an LLM client to the two reference catalogs needed for
// matching.
type Pipeline struct {
	extractor Extractor
	ports     PortLister
	companies CompanyLister
	now       func() time.Time
}

// New builds a Pipeline. now defaults to time.Now; tests inject a fixed
// clock to make the future/past on_board_date branch deterministic.
func New(extractor Extractor, ports PortLister, companies CompanyLister) *Pipeline {
	return &Pipeline{extractor: extractor, ports: ports, companies: companies, now: time.Now}
}

// WithClock overrides the pipeline's clock, for deterministic tests of
// the on_board_date-relative initial-status derivation.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Parse runs the full pipeline against data: media-type detection, LLM
// extraction, field derivation, and port/company matching (spec §4.5
// steps 1-5).
func (p *Pipeline) Parse(ctx context.Context, data []byte, mimeHint, filename string) (Result, error) {
	media := llm.DetectMediaType(mimeHint, filename)

	extracted, err := p.extractor.Extract(ctx, data, media)
	if err != nil {
		return Result{}, err
	}

	ports, err := p.ports.ListPorts(ctx)
	if err != nil {
		return Result{}, err
	}
	companies, err := p.companies.ListCompanies(ctx)
	if err != nil {
		return Result{}, err
	}

	originLabel := strings.TrimSpace(extracted.PortOfLoading)
	destLabel := strings.TrimSpace(extracted.PortOfDischarge)

	return Result{
		Parsed:            extracted,
		OrderType:         deriveOrderType(extracted),
		OriginUNCode:      portmatch.Match(originLabel, ports),
		OriginLabel:       originLabel,
		DestinationUNCode: portmatch.Match(destLabel, ports),
		DestinationLabel:  destLabel,
		InitialStatus:     p.deriveInitialStatus(extracted.OnBoardDate),
		CompanyMatches:    companymatch.FindMatches(extracted.ConsigneeName, companies),
	}, nil
}

// deriveOrderType classifies SEA_FCL vs SEA_LCL from the extraction
// (spec §4.5 step 3): non-empty containers means FCL; otherwise a
// delivery_status containing "LCL" means LCL; anything else defaults
// to FCL.
func deriveOrderType(e llm.Extracted) domain.OrderType {
	if len(e.Containers) > 0 {
		return domain.OrderTypeSeaFCL
	}
	if strings.Contains(strings.ToUpper(e.DeliveryStatus), "LCL") {
		return domain.OrderTypeSeaLCL
	}
	return domain.OrderTypeSeaFCL
}

// deriveInitialStatus maps on_board_date to an initial lifecycle status
// (spec §4.5 step 3): a future date means the vessel has not yet sailed
// (Booking Confirmed, 3002); a past or present date means it has
// (Departed, 4001); a missing or unparseable date also defaults to
// 3002, the same way parse failures did in the legacy extractor.
func (p *Pipeline) deriveInitialStatus(onBoardDate string) domain.Status {
	if onBoardDate == "" {
		return domain.StatusBookingConfirmed
	}

	trimmed := onBoardDate
	if len(trimmed) > 10 {
		trimmed = trimmed[:10]
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return domain.StatusBookingConfirmed
	}

	today := p.now().Truncate(24 * time.Hour)
	if parsed.After(today) {
		return domain.StatusBookingConfirmed
	}
	return domain.StatusDeparted
}
