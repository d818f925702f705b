package model

// PaymentStatus is the lifecycle state of a payable order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusError     PaymentStatus = "error"
)

// Product lines. Each has its own pending-order table, post-payment
// effects and gateway acknowledgement format.
type Product string

const (
	ProductTickets   Product = "tickets"
	ProductShop      Product = "shop"
	ProductMealCards Product = "meal-cards"
	ProductGiftCards Product = "gift-cards"
	ProductTours     Product = "tours"
)

func (p Product) IsValid() bool {
	switch p {
	case ProductTickets, ProductShop, ProductMealCards, ProductGiftCards, ProductTours:
		return true
	}
	return false
}

func (p Product) String() string {
	return string(p)
}

// AckFormat is how the gateway expects the callback to be answered.
type AckFormat string

const (
	// AckJSON answers {"success": true|false}
	AckJSON AckFormat = "json"
	// AckXML answers <PaymentNotification>Accepted|Error</PaymentNotification>
	AckXML AckFormat = "xml"
	// AckRedirect answers with a 302 to the storefront result page
	AckRedirect AckFormat = "redirect"
)

// Reconciliation outcome codes.
const (
	CodePaymentNotSuccessful = "PAY_001" // gateway reported a non-OK status
	CodeInvalidSignature     = "PAY_002" // orderhash verification failed
	CodeOrderNotFound        = "PAY_003" // no pending order for the reference
	CodeAlreadyPaid          = "PAY_004" // duplicate callback, treated as success
	CodeMarkPaidFailed       = "PAY_005" // order vanished or raced between lookup and update
)
