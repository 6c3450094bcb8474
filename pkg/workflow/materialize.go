package workflow

import (
	"time"

	"github.com/affreight/shipengine/pkg/domain"
	"github.com/affreight/shipengine/pkg/rules"
)

// NeedsMaterialization reports whether the shipment's first task read
// should trigger lazy generation: it has no tasks yet, but carries
// enough classifiers to generate some (spec §4.3).
func NeedsMaterialization(s domain.Shipment, existingTasks []domain.Task) bool {
	return len(existingTasks) == 0 && s.IncotermCode != "" && s.TransactionType != ""
}

// Materialize generates the task list for a shipment via the rules
// engine (C1), using the shipment's current dates. Returns nil when
// the shipment still lacks classifiers or the pair is unknown.
func Materialize(s domain.Shipment, updatedBy string) []domain.Task {
	if s.IncotermCode == "" || s.TransactionType == "" {
		return nil
	}
	return rules.GenerateTasks(rules.GenerateTasksInput{
		Incoterm:        s.IncotermCode,
		TransactionType: s.TransactionType,
		ETD:             s.ETD,
		ETA:             s.ETA,
		CargoReadyDate:  s.CargoReadyDate,
		UpdatedBy:       updatedBy,
	})
}

// MigrateTasksOnRead applies rules.MigrateTaskOnRead across a whole
// task list, for legacy records read back from storage.
func MigrateTasksOnRead(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = rules.MigrateTaskOnRead(t)
	}
	return out
}

// RecalculateDueDates re-derives due dates for a shipment's current
// tasks after its ETD/ETA/cargo_ready_date change, delegating to C1.
func RecalculateDueDates(tasks []domain.Task, s domain.Shipment, updatedBy string, _ time.Time) []domain.Task {
	return rules.RecalculateDueDates(tasks, s.ETD, s.ETA, s.CargoReadyDate, updatedBy)
}
