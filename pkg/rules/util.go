package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/affreight/shipengine/pkg/domain"
)

func timeNow() time.Time {
	return time.Now().UTC()
}

// newTaskID mints a unique task_id, unique within a shipment by
// construction since it is a UUID.
func newTaskID(_ domain.TaskType) string {
	return uuid.NewString()
}
