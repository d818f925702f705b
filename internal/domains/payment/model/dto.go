package model

// ReconciliationOutcome is what the webhook handler turns into a
// gateway acknowledgement.
type ReconciliationOutcome struct {
	// Accepted is true when the callback should be acknowledged
	// positively, including duplicate callbacks for already-paid
	// orders.
	Accepted bool

	// AlreadyPaid marks a duplicate callback; no side effects ran.
	AlreadyPaid bool

	// Code is set on rejection (PAY_xxx).
	Code string

	// Reason is a short human-readable note, logged and audited but
	// never exposed to the gateway.
	Reason string

	OrderRef string
	Ack      AckFormat
}

func accepted(orderRef string, ack AckFormat) *ReconciliationOutcome {
	return &ReconciliationOutcome{Accepted: true, OrderRef: orderRef, Ack: ack}
}

// AcceptedOutcome builds a positive outcome.
func AcceptedOutcome(orderRef string, ack AckFormat) *ReconciliationOutcome {
	return accepted(orderRef, ack)
}

// DuplicateOutcome builds a positive outcome for an already-paid order.
func DuplicateOutcome(orderRef string, ack AckFormat) *ReconciliationOutcome {
	out := accepted(orderRef, ack)
	out.AlreadyPaid = true
	out.Code = CodeAlreadyPaid
	return out
}

// RejectedOutcome builds a negative outcome with a reconciliation code.
func RejectedOutcome(orderRef, code, reason string, ack AckFormat) *ReconciliationOutcome {
	return &ReconciliationOutcome{
		Accepted: false,
		Code:     code,
		Reason:   reason,
		OrderRef: orderRef,
		Ack:      ack,
	}
}
