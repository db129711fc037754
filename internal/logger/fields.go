package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRunID identifies one process run (e.g. a provisioning run)
	FieldRunID = "run_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldContainer is the remote container (bucket) name
	FieldContainer = "container"

	// FieldBlob is the blob name an operation targets
	FieldBlob = "blob"

	// FieldPrefix is the name prefix of a listing
	FieldPrefix = "prefix"

	// FieldOperation is the blob operation (upload, read, list, delete...)
	FieldOperation = "operation"

	// FieldBackend is the storage backend type
	FieldBackend = "backend"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
