package ports

import "time"

// Audit event kinds emitted by the moderation and transfer services.
const (
	EventAccountBanned       = "account.banned"
	EventAccountUnbanned     = "account.unbanned"
	EventCreditsTransferred  = "credits.transferred"
	EventCompensationFailure = "credits.compensation_failed"
)

// AuditEvent is one operational event fanned out to the audit pipeline.
// AccountID is the sharding key, so events for one account keep their order.
type AuditEvent struct {
	Kind       string    `json:"kind"`
	AccountID  int64     `json:"account_id"`
	ActorID    int64     `json:"actor_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	TransferID string    `json:"transfer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditSink accepts events for asynchronous delivery. Enqueue must not block
// the caller beyond the sink's buffer capacity.
type AuditSink interface {
	Enqueue(event AuditEvent)
}

// EventPublisher delivers audit events to the message broker.
type EventPublisher interface {
	Publish(topic string, event any) error
}
