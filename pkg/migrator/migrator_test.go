package migrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

type fakeSource struct {
	ids          []string
	quotations   map[string]LegacyQuotation
	orders       map[string]LegacyShipmentOrder
	tasks        map[string][]domain.Task
	files        map[string][]LegacyFileRef
	superseded   map[string]bool
	issuedQ      map[string]bool
	issuedSO     map[string]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		quotations: map[string]LegacyQuotation{},
		orders:     map[string]LegacyShipmentOrder{},
		tasks:      map[string][]domain.Task{},
		files:      map[string][]LegacyFileRef{},
		superseded: map[string]bool{},
		issuedQ:    map[string]bool{},
		issuedSO:   map[string]bool{},
	}
}

func (f *fakeSource) ListLegacyIDs() ([]string, error) { return f.ids, nil }

func (f *fakeSource) GetQuotation(id string) (LegacyQuotation, bool, error) {
	q, ok := f.quotations[id]
	return q, ok, nil
}

func (f *fakeSource) GetShipmentOrder(id string) (LegacyShipmentOrder, bool, error) {
	so, ok := f.orders[id]
	return so, ok, nil
}

func (f *fakeSource) GetWorkflowTasks(id string) ([]domain.Task, bool, error) {
	t, ok := f.tasks[id]
	return t, ok, nil
}

func (f *fakeSource) ListFiles(id string) ([]LegacyFileRef, error) {
	return f.files[id], nil
}

func (f *fakeSource) MarkSuperseded(id string) error {
	f.superseded[id] = true
	return nil
}

func (f *fakeSource) SetQuotationIssuedInvoice(id string, value bool) error {
	f.issuedQ[id] = value
	return nil
}

func (f *fakeSource) SetShipmentOrderIssuedInvoice(id string, value bool) error {
	f.issuedSO[id] = value
	return nil
}

type fakeStore struct {
	existing    map[string]bool
	countIDs    map[int64]bool
	inserted    []domain.Shipment
	insertError error
}

func newFakeStore() *fakeStore {
	return &fakeStore{existing: map[string]bool{}, countIDs: map[int64]bool{}}
}

func (s *fakeStore) ShipmentExists(_ context.Context, id string) (bool, error) {
	return s.existing[id], nil
}

func (s *fakeStore) ExistingCountIDs(_ context.Context) (map[int64]bool, error) {
	return s.countIDs, nil
}

func (s *fakeStore) InsertMigratedShipment(_ context.Context, sh domain.Shipment, _ []domain.Task) error {
	if s.insertError != nil {
		return s.insertError
	}
	s.inserted = append(s.inserted, sh)
	s.existing[sh.ID] = true
	return nil
}

func (s *fakeStore) UploadFile(_ context.Context, _ postgres.ShipmentFileUpload) (domain.ShipmentFile, error) {
	return domain.ShipmentFile{}, nil
}

func baseQuotation(id string) LegacyQuotation {
	return LegacyQuotation{ID: id, CompanyID: "company-1", TransactionType: "import", IncotermCode: "FOB"}
}

func baseOrder() LegacyShipmentOrder {
	return LegacyShipmentOrder{CompanyID: "company-1", Status: domain.StatusBookingConfirmed}
}

func TestRunWithOptions_DryRunDoesNotWrite(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000001"}
	src.quotations["AFCQ-000001"] = baseQuotation("AFCQ-000001")
	src.orders["AFCQ-000001"] = baseOrder()
	store := newFakeStore()
	m := New(src, store, nil, nil)

	report, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DRY RUN", report.Mode)
	assert.Equal(t, 1, report.Assembled)
	assert.Equal(t, 0, report.Written)
	assert.Empty(t, store.inserted)
}

func TestRunWithOptions_CommitWritesAndMarksSuperseded(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000002"}
	src.quotations["AFCQ-000002"] = baseQuotation("AFCQ-000002")
	src.orders["AFCQ-000002"] = baseOrder()
	store := newFakeStore()
	m := New(src, store, nil, nil)

	report, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "AF-000002", store.inserted[0].ID)
	assert.Equal(t, int64(2), store.inserted[0].CountID)
	assert.True(t, store.inserted[0].MigratedFromV1)
	assert.True(t, src.superseded["AFCQ-000002"])
}

func TestRunWithOptions_SkipsRecordWithoutShipmentOrder(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000003"}
	src.quotations["AFCQ-000003"] = baseQuotation("AFCQ-000003")
	store := newFakeStore()
	m := New(src, store, nil, nil)

	report, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedNoOrder)
	assert.Equal(t, 0, report.Assembled)
	assert.Empty(t, store.inserted)
}

func TestRunWithOptions_SkipsAlreadyMigrated(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000004"}
	src.quotations["AFCQ-000004"] = baseQuotation("AFCQ-000004")
	src.orders["AFCQ-000004"] = baseOrder()
	store := newFakeStore()
	store.existing["AF-000004"] = true
	m := New(src, store, nil, nil)

	report, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedAlready)
	assert.Empty(t, store.inserted)
}

func TestRunWithOptions_AbortsOnCountIDCollision(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000005"}
	src.quotations["AFCQ-000005"] = baseQuotation("AFCQ-000005")
	src.orders["AFCQ-000005"] = baseOrder()
	store := newFakeStore()
	store.countIDs[5] = true
	m := New(src, store, nil, nil)

	_, err := m.Run(context.Background())
	require.Error(t, err)
}

func TestRunWithOptions_SecondRunOverSameDatasetWritesNothingMore(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000009"}
	src.quotations["AFCQ-000009"] = baseQuotation("AFCQ-000009")
	src.orders["AFCQ-000009"] = baseOrder()
	store := newFakeStore()
	m := New(src, store, nil, nil)

	first, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Written)

	second, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err, "a rerun over the same dataset must not abort on its own previously-migrated countids")
	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 1, second.SkippedAlready)
	assert.Len(t, store.inserted, 1, "no additional canonical record should be written on the second run")
}

func TestRunWithOptions_CollectsAssemblyErrorsWithoutAborting(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-bad", "AFCQ-000006"}
	src.orders["AFCQ-bad"] = baseOrder() // quotation missing -> assembly error
	src.quotations["AFCQ-000006"] = baseQuotation("AFCQ-000006")
	src.orders["AFCQ-000006"] = baseOrder()
	store := newFakeStore()
	m := New(src, store, nil, nil)

	report, err := m.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "AFCQ-bad", report.Errors[0].LegacyID)
	assert.Equal(t, 1, report.Assembled)
}

func TestRunWithOptions_DerivesOrderTypeAndDangerousGoods(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000007"}
	q := baseQuotation("AFCQ-000007")
	q.FreightType = "AIR"
	q.CargoType = "dg"
	src.quotations["AFCQ-000007"] = q
	src.orders["AFCQ-000007"] = baseOrder()
	store := newFakeStore()
	m := New(src, store, nil, nil)

	report, err := m.RunWithOptions(context.Background(), Options{Commit: true})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, domain.OrderTypeAir, store.inserted[0].OrderType)
	assert.True(t, store.inserted[0].Cargo.IsDangerousGoods)
	assert.Equal(t, 1, report.TypeCounts[domain.OrderTypeAir])
}

func TestAfcqToAF(t *testing.T) {
	assert.Equal(t, "AF-003829", afcqToAF("AFCQ-003829"))
}

func TestNormalizeIssuedInvoice_ORMergesAcrossBothTables(t *testing.T) {
	src := newFakeSource()
	src.ids = []string{"AFCQ-000008"}
	q := baseQuotation("AFCQ-000008")
	q.IssuedInvoice = false
	src.quotations["AFCQ-000008"] = q
	so := baseOrder()
	so.IssuedInvoice = true
	src.orders["AFCQ-000008"] = so
	m := New(src, newFakeStore(), nil, nil)

	report, err := m.NormalizeIssuedInvoice(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.True(t, src.issuedQ["AFCQ-000008"])
	assert.True(t, src.issuedSO["AFCQ-000008"])
}
