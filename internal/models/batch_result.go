package models

// ItemStatus is the per-item outcome of a batch submission.
type ItemStatus string

const (
	// StatusAccepted means the event was persisted for the first time.
	StatusAccepted ItemStatus = "accepted"
	// StatusDuplicate means the event's (tenant, messageId) was already
	// ingested by a previous delivery. Duplicates are a success outcome.
	StatusDuplicate ItemStatus = "duplicate"
	// StatusRejected means the item failed validation and will never be
	// accepted as submitted; Reason names the cause.
	StatusRejected ItemStatus = "rejected"
	// StatusFailed means a transient infrastructure error stopped the
	// item; the client may retry it.
	StatusFailed ItemStatus = "failed"
)

// Per-item rejection reasons. These are stable strings clients can match on.
const (
	ReasonMissingEventName = "missing_event_name"
	ReasonEventNameTooLong = "event_name_too_long"
	ReasonStoreUnavailable = "store_unavailable"
	ReasonDeadlineExceeded = "deadline_exceeded"
)

// ItemOutcome reports what happened to one batch item, keyed by its
// position in the submitted batch so clients can selectively resubmit.
type ItemOutcome struct {
	Index     int        `json:"index"`
	MessageID string     `json:"message_id,omitempty"`
	Status    ItemStatus `json:"status"`
	Reason    string     `json:"reason,omitempty"`
}

// BatchResult is the full per-item outcome list for one submission. There is
// no all-or-nothing boolean: partial success is the normal shape.
type BatchResult struct {
	Outcomes []ItemOutcome `json:"results"`
}

// Counts returns how many items landed in each terminal status.
func (r *BatchResult) Counts() (accepted, duplicates, rejected, failed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusAccepted:
			accepted++
		case StatusDuplicate:
			duplicates++
		case StatusRejected:
			rejected++
		case StatusFailed:
			failed++
		}
	}
	return
}
