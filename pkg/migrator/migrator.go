package migrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/internal/systemlog"
	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/store/postgres"
	"github.com/affreight/shipengine/pkg/workflow"
)

// WriteChunkSize governs the cadence of progress logging and the unit
// the caller can use to checkpoint a long run; unlike the Datastore
// original's put_multi batches, each shipment here is its own
// transaction (InsertMigratedShipment), so this does not change write
// atomicity — only how often progress is reported.
const WriteChunkSize = 500

// Store is the subset of pkg/store/postgres.Store the migrator needs,
// kept narrow so it can be faked in tests without a database.
type Store interface {
	ShipmentExists(ctx context.Context, id string) (bool, error)
	ExistingCountIDs(ctx context.Context) (map[int64]bool, error)
	InsertMigratedShipment(ctx context.Context, sh domain.Shipment, tasks []domain.Task) error
	UploadFile(ctx context.Context, in postgres.ShipmentFileUpload) (domain.ShipmentFile, error)
}

// Options controls one migration run (spec §4.5: "defaults to a dry
// run"; --commit is the only way to write).
type Options struct {
	Commit bool
	Only   string // migrate a single AFCQ- id, like the original's --only flag
}

// Report is the structured summary the original script prints at the
// end of a run; here it is returned so the cmd/migrate CLI can render
// or log it.
type Report struct {
	Mode             string
	Total            int
	SkippedAlready   int
	SkippedNoOrder   int
	Assembled        int
	Written          int
	Errors           []RecordError
	TypeCounts       map[domain.OrderType]int
	StatusCounts     map[domain.Status]int
	ActiveMigrated   []ActiveRecord
}

// RecordError pairs a legacy id with the reason it could not be
// assembled; assembly errors never abort the run (spec §4.5,
// "exceptions on individual records are collected, not fatal").
type RecordError struct {
	LegacyID string
	Reason   string
}

// ActiveRecord is one migrated shipment whose status is neither
// COMPLETED nor CANCELLED, called out in the report the way the
// original's "Active records migrated" section does.
type ActiveRecord struct {
	LegacyID   string
	CanonicalID string
	Status     domain.Status
}

// Migrator runs the legacy AFCQ- -> AF- migration.
type Migrator struct {
	source Source
	store  Store
	log    *systemlog.Writer
	logger *zap.Logger
}

func New(source Source, store Store, log *systemlog.Writer, logger *zap.Logger) *Migrator {
	return &Migrator{source: source, store: store, log: log, logger: logger}
}

// afcqToAF ports _afcq_to_af: strip the "AFCQ-" prefix and attach
// "AF-" to the same numeric suffix, so a legacy id and its canonical
// counterpart always share a countid.
func afcqToAF(afcqID string) string {
	numeric := strings.TrimPrefix(afcqID, domain.LegacyAliasPrefix)
	return domain.CanonicalPrefix + numeric
}

func numericSuffix(id, prefix string) (int64, bool) {
	numeric := strings.TrimPrefix(id, prefix)
	n, err := strconv.ParseInt(numeric, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Run executes one migration pass. dry run (Options.Commit == false)
// performs every step except the final write, so the report reflects
// exactly what a --commit run would do (spec §4.5).
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	return m.RunWithOptions(ctx, Options{})
}

func (m *Migrator) RunWithOptions(ctx context.Context, opts Options) (Report, error) {
	mode := "DRY RUN"
	if opts.Commit {
		mode = "LIVE"
	}
	report := Report{
		Mode:         mode,
		TypeCounts:   map[domain.OrderType]int{},
		StatusCounts: map[domain.Status]int{},
	}

	ids, err := m.source.ListLegacyIDs()
	if err != nil {
		return report, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list legacy ids")
	}
	if opts.Only != "" {
		filtered := ids[:0]
		for _, id := range ids {
			if id == opts.Only {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
		if len(ids) == 0 {
			return report, apperrors.Newf(apperrors.ErrorTypeValidation, "legacy id %s not found", opts.Only)
		}
	}
	report.Total = len(ids)

	// Pre-flight numeric collision check (spec §4.5, grounded on the
	// original's "COLLISION DETECTED" abort): a legacy numeric suffix
	// must never coincide with a countid already in canonical use by a
	// non-migrated shipment, since the migrator assigns that same
	// number to the new AF- row.
	existingCountIDs, err := m.store.ExistingCountIDs(ctx)
	if err != nil {
		return report, err
	}
	for _, id := range ids {
		n, ok := numericSuffix(id, domain.LegacyAliasPrefix)
		if !ok {
			continue
		}
		if existingCountIDs[n] {
			return report, apperrors.Newf(apperrors.ErrorTypeConflict,
				"countid %d collides between an existing shipment and legacy id %s; aborting migration", n, id)
		}
	}

	written := 0
	for _, legacyID := range ids {
		af, err := m.migrateOne(ctx, legacyID, &report)
		if err != nil {
			report.Errors = append(report.Errors, RecordError{LegacyID: legacyID, Reason: err.Error()})
			continue
		}
		if af == nil {
			continue // already migrated or no confirmed order; counted inside migrateOne
		}
		report.Assembled++
		report.TypeCounts[af.OrderType]++
		report.StatusCounts[af.Status]++
		if af.Status != domain.StatusCompleted && af.Status != domain.StatusCancelled {
			report.ActiveMigrated = append(report.ActiveMigrated, ActiveRecord{
				LegacyID: legacyID, CanonicalID: af.ID, Status: af.Status,
			})
		}

		if opts.Commit {
			tasks, ok, err := m.source.GetWorkflowTasks(legacyID)
			if err != nil {
				report.Errors = append(report.Errors, RecordError{LegacyID: legacyID, Reason: err.Error()})
				continue
			}
			if !ok {
				tasks = workflow.Materialize(*af, "migration")
			}
			if err := m.store.InsertMigratedShipment(ctx, *af, tasks); err != nil {
				report.Errors = append(report.Errors, RecordError{LegacyID: legacyID, Reason: err.Error()})
				continue
			}
			if err := m.rekeyFiles(ctx, legacyID, af.ID, af.CompanyID); err != nil {
				report.Errors = append(report.Errors, RecordError{LegacyID: legacyID, Reason: err.Error()})
			}
			if err := m.source.MarkSuperseded(legacyID); err != nil {
				report.Errors = append(report.Errors, RecordError{LegacyID: legacyID, Reason: err.Error()})
			}
			written++
			if written%WriteChunkSize == 0 {
				m.logProgress(ctx, written, len(ids))
			}
		}
	}
	report.Written = written

	if m.log != nil {
		m.log.Write(ctx, systemlog.LevelInfo, "legacy_migration_completed",
			fmt.Sprintf("%s migration: %d/%d migrated, %d errors", mode, report.Written, report.Total, len(report.Errors)),
			map[string]any{"mode": mode, "written": report.Written, "errors": len(report.Errors)})
	}
	return report, nil
}

func (m *Migrator) logProgress(ctx context.Context, written, total int) {
	if m.logger != nil {
		m.logger.Info("migration progress", zap.Int("written", written), zap.Int("total", total))
	}
}

// migrateOne assembles one legacy record into a canonical shipment.
// It returns (nil, nil) for the "already migrated" and "no confirmed
// order" skip cases, which the caller counts separately from errors.
func (m *Migrator) migrateOne(ctx context.Context, legacyID string, report *Report) (*domain.Shipment, error) {
	afID := afcqToAF(legacyID)

	exists, err := m.store.ShipmentExists(ctx, afID)
	if err != nil {
		return nil, err
	}
	if exists {
		report.SkippedAlready++
		return nil, nil
	}

	q, ok, err := m.source.GetQuotation(legacyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("quotation %s not found at source", legacyID)
	}

	so, ok, err := m.source.GetShipmentOrder(legacyID)
	if err != nil {
		return nil, err
	}
	if !ok {
		report.SkippedNoOrder++
		return nil, nil
	}

	issuedInvoice := so.IssuedInvoice || q.IssuedInvoice
	a := assemble(q, so, issuedInvoice)

	numeric, ok := numericSuffix(legacyID, domain.LegacyAliasPrefix)
	if !ok {
		return nil, fmt.Errorf("legacy id %s has a non-numeric suffix", legacyID)
	}

	now := time.Now().UTC()
	createdAt := q.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	label := domain.StatusLabels[a.status]
	history := []domain.StatusHistoryEntry{{
		Status: a.status, Label: label, Timestamp: now, ChangedBy: "migration",
		Note: fmt.Sprintf("migrated from %s", legacyID),
	}}
	if len(q.StatusHistory) > 0 {
		history = append(q.StatusHistory, history[0])
	}

	sh := &domain.Shipment{
		ID:              afID,
		CountID:         numeric,
		CompanyID:       firstNonEmpty(so.CompanyID, q.CompanyID),
		OrderType:       a.orderType,
		TransactionType: a.transactionType,
		IncotermCode:    q.IncotermCode,
		Status:          a.status,
		IssuedInvoice:   a.issuedInvoice,
		Trash:           q.Trash,
		MigratedFromV1:  true,
		OriginPort:      a.originPort,
		DestPort:        a.destPort,
		CargoReadyDate:  q.CargoReadyDate,
		ETD:             q.ETD,
		ETA:             q.ETA,
		CreatedAt:       createdAt,
		UpdatedAt:       now,
		Cargo:           a.cargo,
		Booking:         a.booking,
		Parties:         a.parties,
		StatusHistory:   history,
		Creator:         q.Creator,
	}
	if q.BLDocument != nil {
		sh.BLDocument = *q.BLDocument
	}
	return sh, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// rekeyFiles writes the legacy shipment's file records under the new
// canonical shipment id (spec §4.7 "re-keys... files-by-reference").
// Object-storage locations are untouched — only the shipment
// reference changes — since the bytes already live at FileLocation.
func (m *Migrator) rekeyFiles(ctx context.Context, legacyID, canonicalID, companyID string) error {
	refs, err := m.source.ListFiles(legacyID)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		_, err := m.store.UploadFile(ctx, postgres.ShipmentFileUpload{
			ShipmentID: canonicalID, CompanyID: companyID, FileName: ref.FileName,
			FileLocation: ref.FileLocation, FileTags: ref.FileTags, FileSizeKB: ref.FileSizeKB,
			Visibility: ref.Visibility, UploadedByUID: ref.UploadedByUID, UploadedByName: ref.UploadedByName,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// IssuedInvoiceNormalizeReport summarizes NormalizeIssuedInvoice.
type IssuedInvoiceNormalizeReport struct {
	Checked int
	Updated int
}

// NormalizeIssuedInvoice is the "parallel step" of spec §4.7: for
// every legacy id, OR-merge the quotation's and shipment order's
// issued_invoice bools and write the merged value back to both, so
// neither legacy table is left with a stale false once either one was
// ever set true. Runs independently of Run/RunWithOptions and honors
// the same dry-run default.
func (m *Migrator) NormalizeIssuedInvoice(ctx context.Context, commit bool) (IssuedInvoiceNormalizeReport, error) {
	var report IssuedInvoiceNormalizeReport
	ids, err := m.source.ListLegacyIDs()
	if err != nil {
		return report, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list legacy ids")
	}
	for _, id := range ids {
		report.Checked++
		q, ok, err := m.source.GetQuotation(id)
		if err != nil || !ok {
			continue
		}
		so, ok, err := m.source.GetShipmentOrder(id)
		if err != nil || !ok {
			continue
		}
		merged := q.IssuedInvoice || so.IssuedInvoice
		if merged == q.IssuedInvoice && merged == so.IssuedInvoice {
			continue
		}
		report.Updated++
		if !commit {
			continue
		}
		if err := m.source.SetQuotationIssuedInvoice(id, merged); err != nil {
			return report, err
		}
		if err := m.source.SetShipmentOrderIssuedInvoice(id, merged); err != nil {
			return report, err
		}
	}
	return report, nil
}
