package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affreight/shipengine/pkg/domain"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return tm
}

// TestGenerateTasks_S1PathA reproduces spec.md scenario S1 exactly.
func TestGenerateTasks_S1PathA(t *testing.T) {
	etd := mustParseDate(t, "2026-03-10")

	tasks := GenerateTasks(GenerateTasksInput{
		Incoterm:       "FOB",
		TransactionType: domain.TransactionExport,
		ETD:            &etd,
		UpdatedBy:      "system",
	})

	require.Len(t, tasks, 5)

	wantOrder := []domain.TaskType{
		domain.TaskOriginHaulage, domain.TaskFreightBooking, domain.TaskExportClearance,
		domain.TaskPOL, domain.TaskPOD,
	}
	for i, want := range wantOrder {
		assert.Equal(t, want, tasks[i].TaskType, "task %d type", i)
		assert.Equal(t, i+1, tasks[i].LegLevel, "task %d leg level", i)
	}

	exportClearance := tasks[2]
	assert.Equal(t, domain.TaskStatusBlocked, exportClearance.Status, "export clearance should start BLOCKED alongside freight booking")

	freightBooking := tasks[1]
	assert.Equal(t, etd.AddDate(0, 0, -7), *freightBooking.DueDate, "freight booking due date")

	pol := tasks[3]
	assert.Equal(t, domain.ModeTracked, pol.Mode, "POL defaults to TRACKED")
}

func TestGenerateTasks_S2PathB(t *testing.T) {
	path, err := StatusPath("CNF", domain.TransactionImport)
	require.NoError(t, err)
	assert.Equal(t, PathB, path)

	tasks := GenerateTasks(GenerateTasksInput{Incoterm: "CNF", TransactionType: domain.TransactionImport})
	for _, task := range tasks {
		assert.NotEqual(t, domain.TaskFreightBooking, task.TaskType, "CNF IMPORT must never generate a freight booking task")
	}
}

func TestGenerateTasks_UnknownPairReturnsEmpty(t *testing.T) {
	tasks := GenerateTasks(GenerateTasksInput{Incoterm: "ZZZ", TransactionType: domain.TransactionExport})
	assert.Empty(t, tasks)
}

func TestStatusPath_UnknownPairIsConfigurationError(t *testing.T) {
	_, err := StatusPath("ZZZ", domain.TransactionExport)
	require.Error(t, err)
}

func TestStatusPath_ExhaustiveOverSupportedIncoterms(t *testing.T) {
	incoterms := []string{"EXW", "FCA", "FAS", "FOB", "CFR", "CNF", "CIF", "CPT", "CIP", "DAP", "DPU", "DDP"}
	txTypes := []domain.TransactionType{domain.TransactionImport, domain.TransactionExport, domain.TransactionDomestic}
	for _, ic := range incoterms {
		for _, tx := range txTypes {
			_, err := StatusPath(ic, tx)
			assert.NoError(t, err, "matrix must be exhaustive for %s/%s", ic, tx)
		}
	}
}

func TestGenerateTasks_DomesticHasNoPortTasks(t *testing.T) {
	tasks := GenerateTasks(GenerateTasksInput{Incoterm: "FOB", TransactionType: domain.TransactionDomestic})
	for _, task := range tasks {
		assert.NotContains(t, []domain.TaskType{domain.TaskPOL, domain.TaskPOD, domain.TaskFreightBooking}, task.TaskType)
	}
}

func TestRecalculateDueDates_SkipsOverriddenTasks(t *testing.T) {
	originalDue := mustParseDate(t, "2026-01-01")
	tasks := []domain.Task{
		{TaskType: domain.TaskPOL, DueDate: &originalDue, DueDateOverride: true},
	}
	newETD := mustParseDate(t, "2026-02-01")

	result := RecalculateDueDates(tasks, &newETD, nil, nil, "user@example.com")
	assert.Equal(t, originalDue, *result[0].DueDate, "override tasks must not be recomputed")
}

func TestRecalculateDueDates_UpdatesNonOverriddenTasks(t *testing.T) {
	tasks := []domain.Task{
		{TaskType: domain.TaskPOL, DueDateOverride: false},
	}
	newETD := mustParseDate(t, "2026-02-01")

	result := RecalculateDueDates(tasks, &newETD, nil, nil, "user@example.com")
	require.NotNil(t, result[0].DueDate)
	assert.Equal(t, newETD, *result[0].DueDate)
	assert.Equal(t, newETD, *result[0].ScheduledEnd)
	assert.Equal(t, "user@example.com", result[0].UpdatedBy)
}

func TestMigrateTaskOnRead_BackfillsAndIsIdempotent(t *testing.T) {
	legacy := domain.Task{TaskType: "HAULAGE_ORIGIN"}

	once := MigrateTaskOnRead(legacy)
	assert.Equal(t, domain.TaskOriginHaulage, once.TaskType)
	assert.Equal(t, 1, once.LegLevel)
	assert.Equal(t, domain.ModeAssigned, once.Mode)
	assert.NotEmpty(t, once.DisplayName)

	twice := MigrateTaskOnRead(once)
	assert.Equal(t, once, twice, "migration must be idempotent")
}
