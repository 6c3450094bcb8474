package domain

import "time"

// TaskType is one of the seven canonical task types (spec §3, Glossary).
type TaskType string

const (
	TaskOriginHaulage      TaskType = "ORIGIN_HAULAGE"
	TaskFreightBooking     TaskType = "FREIGHT_BOOKING"
	TaskExportClearance    TaskType = "EXPORT_CLEARANCE"
	TaskPOL                TaskType = "POL"
	TaskPOD                TaskType = "POD"
	TaskImportClearance    TaskType = "IMPORT_CLEARANCE"
	TaskDestinationHaulage TaskType = "DESTINATION_HAULAGE"
)

// TaskStatus is the lifecycle status of a single workflow task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// TaskMode controls whether a task is a real assignment, a tracked
// milestone, or suppressed entirely.
type TaskMode string

const (
	ModeAssigned TaskMode = "ASSIGNED"
	ModeTracked  TaskMode = "TRACKED"
	ModeIgnored  TaskMode = "IGNORED"
)

// AssignedTo names the party responsible for executing a task.
type AssignedTo string

const (
	AssignedAF         AssignedTo = "AF"
	AssignedCustomer   AssignedTo = "CUSTOMER"
	AssignedThirdParty AssignedTo = "THIRD_PARTY"
)

// Visibility gates whether AFC users can see a task.
type Visibility string

const (
	VisibilityVisible Visibility = "VISIBLE"
	VisibilityHidden  Visibility = "HIDDEN"
)

// Task is one element of a shipment's workflow_tasks list (spec §3).
type Task struct {
	TaskID          string     `json:"task_id"`
	TaskType        TaskType   `json:"task_type"`
	DisplayName     string     `json:"display_name,omitempty"`
	LegLevel        int        `json:"leg_level"`
	Status          TaskStatus `json:"status"`
	Mode            TaskMode   `json:"mode"`
	AssignedTo      AssignedTo `json:"assigned_to"`
	ThirdPartyName  string     `json:"third_party_name,omitempty"`
	Visibility      Visibility `json:"visibility"`

	ScheduledStart  *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd    *time.Time `json:"scheduled_end,omitempty"`
	ActualStart     *time.Time `json:"actual_start,omitempty"`
	ActualEnd       *time.Time `json:"actual_end,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DueDateOverride bool       `json:"due_date_override"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalLegLevels is the finite set a task's leg_level must belong to
// (spec §8 property 2).
var CanonicalLegLevels = map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true}

// ShipmentWorkflow is the 1:1 workflow record co-owned with a Shipment
// (spec §3).
type ShipmentWorkflow struct {
	ShipmentID    string                 `json:"shipment_id" db:"shipment_id"`
	WorkflowTasks []Task                 `json:"workflow_tasks"`
	StatusHistory []WorkflowHistoryEntry `json:"status_history"`
	Completed     bool                   `json:"completed" db:"completed"`
	Trash         bool                   `json:"trash" db:"trash"`
}

// ShipmentFile is a file attached to a shipment (spec §3).
type ShipmentFile struct {
	FileID         int64     `json:"file_id" db:"file_id"`
	ShipmentID     string    `json:"shipment_id" db:"shipment_id"`
	CompanyID      string    `json:"company_id" db:"company_id"`
	FileName       string    `json:"file_name" db:"file_name"`
	FileLocation   string    `json:"file_location" db:"file_location"`
	FileTags       []string  `json:"file_tags"`
	FileSizeKB     int64     `json:"file_size_kb" db:"file_size_kb"`
	Visibility     bool      `json:"visibility" db:"visibility"`
	UploadedByUID  string    `json:"uploaded_by_uid" db:"uploaded_by_uid"`
	UploadedByName string    `json:"uploaded_by_name" db:"uploaded_by_name"`
	Trash          bool      `json:"trash" db:"trash"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Company is a reference entity the lifecycle engine treats as
// immutable except through its own CRUD surface.
type Company struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Trash     bool      `json:"trash" db:"trash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Port is a reference entity in the ports catalog.
type Port struct {
	UNCode  string `json:"un_code" db:"un_code"`
	Name    string `json:"name" db:"name"`
	Country string `json:"country" db:"country"`
}

// FileTag is a reference entity in the file tag catalog.
type FileTag struct {
	Tag string `json:"tag" db:"tag"`
}

// AuditLogEntry is an append-only audit record (spec §3).
type AuditLogEntry struct {
	Action    string    `json:"action" db:"action"`
	EntityID  string    `json:"entity_id" db:"entity_id"`
	ActorUID  string    `json:"actor_uid" db:"actor_uid"`
	ActorEmail string   `json:"actor_email" db:"actor_email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Audit action names used across the store (spec §4.4).
const (
	ActionShipmentCreatedManual = "SHIPMENT_CREATED_MANUAL"
	ActionShipmentCreatedFromBL = "SHIPMENT_CREATED_FROM_BL"
	ActionShipmentStatusUpdated = "SHIPMENT_STATUS_UPDATED"
	ActionShipmentBLUpdated     = "SHIPMENT_BL_UPDATED"
	ActionShipmentSoftDeleted   = "SHIPMENT_SOFT_DELETED"
	ActionShipmentHardDeleted   = "SHIPMENT_HARD_DELETED"
	ActionFileUploaded          = "SHIPMENT_FILE_UPLOADED"
	ActionFileDeleted           = "SHIPMENT_FILE_DELETED"
	ActionShipmentMigrated      = "SHIPMENT_MIGRATED_FROM_V1"
)
