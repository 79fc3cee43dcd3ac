package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldGoalID      = "goal_id"
	FieldGoalName    = "goal_name"
	FieldAmountCents = "amount_cents"
	FieldFrequency   = "frequency"
	FieldMilestone   = "milestone_index"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentGoals   = "goals"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackup  = "backup"
	ComponentCache   = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpStep     = "step"
	OpSelect   = "select"
	OpSnapshot = "snapshot"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
