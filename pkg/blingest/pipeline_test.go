package blingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affreight/shipengine/pkg/blingest/llm"
	"github.com/affreight/shipengine/pkg/domain"
)

type fakeExtractor struct {
	extracted llm.Extracted
	err       error
}

func (f fakeExtractor) Extract(ctx context.Context, data []byte, media llm.MediaType) (llm.Extracted, error) {
	return f.extracted, f.err
}

type fakePorts struct{ ports []domain.Port }

func (f fakePorts) ListPorts(ctx context.Context) ([]domain.Port, error) { return f.ports, nil }

type fakeCompanies struct{ companies []domain.Company }

func (f fakeCompanies) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return f.companies, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestPipeline_S4 reproduces scenario S4 from spec §8 end to end.
func TestPipeline_S4(t *testing.T) {
	extracted := llm.Extracted{
		PortOfLoading:   "PORT KELANG",
		PortOfDischarge: "SINGAPORE",
		OnBoardDate:     "2099-01-01",
		ConsigneeName:   "Acme Logistics Sdn Bhd",
		Containers:      []llm.Container{{ContainerNumber: "MSKU1234567"}},
	}
	ports := []domain.Port{
		{UNCode: "MYPKG", Name: "Port Kelang"},
		{UNCode: "SGSIN", Name: "Singapore"},
	}
	companies := []domain.Company{{ID: "c1", Name: "Acme Logistics Sdn Bhd"}}

	p := New(fakeExtractor{extracted: extracted}, fakePorts{ports: ports}, fakeCompanies{companies: companies})
	p = p.WithClock(fixedClock(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)))

	result, err := p.Parse(context.Background(), []byte("fake-pdf-bytes"), "application/pdf", "bl.pdf")
	require.NoError(t, err)

	assert.Equal(t, "MYPKG", result.OriginUNCode)
	assert.Equal(t, "SGSIN", result.DestinationUNCode)
	assert.Equal(t, domain.OrderTypeSeaFCL, result.OrderType)
	assert.Equal(t, domain.StatusBookingConfirmed, result.InitialStatus)
	require.NotEmpty(t, result.CompanyMatches)
	assert.GreaterOrEqual(t, result.CompanyMatches[0].Score, 0.5)
}

func TestDeriveOrderType(t *testing.T) {
	assert.Equal(t, domain.OrderTypeSeaFCL, deriveOrderType(llm.Extracted{Containers: []llm.Container{{}}}))
	assert.Equal(t, domain.OrderTypeSeaLCL, deriveOrderType(llm.Extracted{DeliveryStatus: "lcl consolidated"}))
	assert.Equal(t, domain.OrderTypeSeaFCL, deriveOrderType(llm.Extracted{}))
}

func TestDeriveInitialStatus(t *testing.T) {
	p := New(fakeExtractor{}, fakePorts{}, fakeCompanies{})
	p = p.WithClock(fixedClock(time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, domain.StatusBookingConfirmed, p.deriveInitialStatus(""))
	assert.Equal(t, domain.StatusBookingConfirmed, p.deriveInitialStatus("not-a-date"))
	assert.Equal(t, domain.StatusBookingConfirmed, p.deriveInitialStatus("2099-01-01"))
	assert.Equal(t, domain.StatusDeparted, p.deriveInitialStatus("2020-01-01"))
	assert.Equal(t, domain.StatusDeparted, p.deriveInitialStatus("2026-07-29"))
}
