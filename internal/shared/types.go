package shared

// =====================================================
// BACKGROUND TASK TYPES
// =====================================================

// Task type identifiers registered with the asynq worker
const (
	// TaskPaymentPollPending re-queries the gateway for payments stuck in pending
	TaskPaymentPollPending = "payment:poll_pending"

	// TaskOrderReconcileAlert flags an order whose redeemable commit failed
	// after the order transaction was already committed
	TaskOrderReconcileAlert = "order:reconcile_alert"
)

// Queue names by priority
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Context keys set by middleware
const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "userRole"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)
