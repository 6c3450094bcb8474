// Package rules is the incoterm rules engine (spec §4.1, component C1):
// an I/O-free library mapping (incoterm, transaction_type) to a task
// set, due-date formulas, and a status path. Nothing here touches a
// database or any other component. It is not fully deterministic:
// GenerateTasks and RecalculateDueDates stamp updated_at with the
// current wall-clock time, and every generated task gets a random
// UUID task_id.
package rules

import (
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// legLevels assigns the fixed display-order key to every task type,
// independent of which subset a given matrix cell includes.
var legLevels = map[domain.TaskType]int{
	domain.TaskOriginHaulage:      1,
	domain.TaskFreightBooking:     2,
	domain.TaskExportClearance:    3,
	domain.TaskPOL:                4,
	domain.TaskPOD:                5,
	domain.TaskImportClearance:    6,
	domain.TaskDestinationHaulage: 7,
}

var displayNames = map[domain.TaskType]string{
	domain.TaskOriginHaulage:      "Origin Haulage",
	domain.TaskFreightBooking:     "Freight Booking",
	domain.TaskExportClearance:   "Export Clearance",
	domain.TaskPOL:                "Port of Loading",
	domain.TaskPOD:                "Port of Discharge",
	domain.TaskImportClearance:    "Import Clearance",
	domain.TaskDestinationHaulage: "Destination Haulage",
}

// milestoneTasks default to TRACKED mode; every other task defaults to
// ASSIGNED (spec §4.1).
var milestoneTasks = map[domain.TaskType]bool{
	domain.TaskPOL: true,
	domain.TaskPOD: true,
}

// GenerateTasksInput bundles the dates generate_tasks needs to compute
// due dates; all are optional per spec §4.1's formulas.
type GenerateTasksInput struct {
	Incoterm       string
	TransactionType domain.TransactionType
	ETD            *time.Time
	ETA            *time.Time
	CargoReadyDate *time.Time
	UpdatedBy      string
}

// GenerateTasks resolves the canonical task-type sequence for the pair
// and builds the ordered task list with default mode, status, and due
// dates. Returns an empty slice (not an error) when the pair is
// unknown, per spec §4.1.
func GenerateTasks(in GenerateTasksInput) []domain.Task {
	normalized := NormalizeIncoterm(in.Incoterm)
	taskTypes, _, ok := TaskTypesFor(normalized, in.TransactionType)
	if !ok {
		return []domain.Task{}
	}

	hasFreightBooking := containsType(taskTypes, domain.TaskFreightBooking)
	hasExportClearance := containsType(taskTypes, domain.TaskExportClearance)

	now := timeNow()
	tasks := make([]domain.Task, 0, len(taskTypes))
	for _, tt := range taskTypes {
		status := domain.TaskStatusPending
		if tt == domain.TaskExportClearance && hasFreightBooking && hasExportClearance {
			status = domain.TaskStatusBlocked
		}

		mode := domain.ModeAssigned
		if milestoneTasks[tt] {
			mode = domain.ModeTracked
		}

		tasks = append(tasks, domain.Task{
			TaskID:      newTaskID(tt),
			TaskType:    tt,
			DisplayName: displayNames[tt],
			LegLevel:    legLevels[tt],
			Status:      status,
			Mode:        mode,
			AssignedTo:  domain.AssignedAF,
			Visibility:  domain.VisibilityVisible,
			DueDate:     dueDate(tt, in.ETD, in.ETA, in.CargoReadyDate),
			UpdatedBy:   in.UpdatedBy,
			UpdatedAt:   now,
		})
	}
	return tasks
}

func containsType(tasks []domain.TaskType, want domain.TaskType) bool {
	for _, t := range tasks {
		if t == want {
			return true
		}
	}
	return false
}

// dueDate implements the per-task-type due date formulas of spec §4.1.
func dueDate(tt domain.TaskType, etd, eta, cargoReady *time.Time) *time.Time {
	switch tt {
	case domain.TaskOriginHaulage:
		if cargoReady != nil {
			return cargoReady
		}
		return offset(etd, -3*24*time.Hour)
	case domain.TaskFreightBooking:
		return offset(etd, -7*24*time.Hour)
	case domain.TaskExportClearance:
		return offset(etd, -2*24*time.Hour)
	case domain.TaskPOL:
		return etd
	case domain.TaskPOD:
		return eta
	case domain.TaskImportClearance:
		return offset(eta, 1*24*time.Hour)
	case domain.TaskDestinationHaulage:
		return offset(eta, 3*24*time.Hour)
	}
	return nil
}

func offset(t *time.Time, d time.Duration) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Add(d)
	return &v
}

// RecalculateDueDates recomputes due_date (and mirrors it into
// scheduled_end) for every task whose due_date_override is false,
// leaving overridden tasks untouched (spec §4.1, §3 task invariants).
func RecalculateDueDates(tasks []domain.Task, etd, eta, cargoReady *time.Time, updatedBy string) []domain.Task {
	now := timeNow()
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	for i := range out {
		if out[i].DueDateOverride {
			continue
		}
		newDue := dueDate(out[i].TaskType, etd, eta, cargoReady)
		if equalTimePtr(newDue, out[i].DueDate) {
			continue
		}
		out[i].DueDate = newDue
		out[i].ScheduledEnd = newDue
		out[i].UpdatedBy = updatedBy
		out[i].UpdatedAt = now
	}
	return out
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

// legacyTaskTypeAliases normalizes task-type spellings found in
// records created before the current task-type vocabulary stabilized.
var legacyTaskTypeAliases = map[domain.TaskType]domain.TaskType{
	"HAULAGE_ORIGIN":    domain.TaskOriginHaulage,
	"BOOKING":           domain.TaskFreightBooking,
	"CUSTOMS_EXPORT":    domain.TaskExportClearance,
	"CUSTOMS_IMPORT":    domain.TaskImportClearance,
	"HAULAGE_DEST":      domain.TaskDestinationHaulage,
}

// MigrateTaskOnRead normalizes a legacy task record in place: it maps
// old task-type spellings forward and backfills display_name, mode,
// and leg_level when missing. It is idempotent, but a task with no
// task_id is given a fresh random one. It is covered by an
// example-based test (TestMigrateTaskOnRead_BackfillsAndIsIdempotent),
// not by property tests.
func MigrateTaskOnRead(t domain.Task) domain.Task {
	if canonical, ok := legacyTaskTypeAliases[t.TaskType]; ok {
		t.TaskType = canonical
	}
	if t.DisplayName == "" {
		t.DisplayName = displayNames[t.TaskType]
	}
	if t.LegLevel == 0 {
		t.LegLevel = legLevels[t.TaskType]
	}
	if t.Mode == "" {
		if milestoneTasks[t.TaskType] {
			t.Mode = domain.ModeTracked
		} else {
			t.Mode = domain.ModeAssigned
		}
	}
	if t.Status == "" {
		t.Status = domain.TaskStatusPending
	}
	if t.Visibility == "" {
		t.Visibility = domain.VisibilityVisible
	}
	if t.AssignedTo == "" {
		t.AssignedTo = domain.AssignedAF
	}
	if t.TaskID == "" {
		t.TaskID = newTaskID(t.TaskType)
	}
	return t
}

// StatusPath resolves path A/B for an (incoterm, transaction_type)
// pair. Per spec.md's resolution of the matrix-exhaustiveness open
// question, an incoterm outside the matrix is a configuration error,
// not a silent default.
func StatusPath(incoterm string, txType domain.TransactionType) (PathTag, error) {
	normalized := NormalizeIncoterm(incoterm)
	_, path, ok := TaskTypesFor(normalized, txType)
	if !ok {
		return "", apperrors.Newf(apperrors.ErrorTypeInternal,
			"configuration error: no task matrix entry for incoterm %q / transaction type %q", incoterm, txType).
			WithDetails("the task matrix must be exhaustive for every supported incoterm")
	}
	return path, nil
}

// PathAOrder and PathBOrder are the two linear reference progressions
// of spec §4.2.
var (
	PathAOrder = []domain.Status{
		domain.StatusDraft, domain.StatusPendingReview, domain.StatusConfirmed,
		domain.StatusBookingPending, domain.StatusBookingConfirmed,
		domain.StatusDeparted, domain.StatusArrived, domain.StatusCompleted,
	}
	PathBOrder = []domain.Status{
		domain.StatusDraft, domain.StatusPendingReview, domain.StatusConfirmed,
		domain.StatusDeparted, domain.StatusArrived, domain.StatusCompleted,
	}
)

// StatusPathList returns the ordered status codes for the given pair's
// path.
func StatusPathList(incoterm string, txType domain.TransactionType) ([]domain.Status, error) {
	path, err := StatusPath(incoterm, txType)
	if err != nil {
		return nil, err
	}
	if path == PathA {
		return PathAOrder, nil
	}
	return PathBOrder, nil
}
