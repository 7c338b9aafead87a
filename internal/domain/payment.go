package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable ledger record for event fees and other dues.
// When Related.RegistrationID is set, settling the payment flips that
// registration's payment status to paid as a best-effort follow-up.
type Payment struct {
	ID        string
	PayerName string
	Amount    decimal.Decimal
	Date      time.Time
	Method    PaymentMethod
	Audit     PaymentAudit
	Receipt   PaymentReceipt
	Related   PaymentRelated
	System    PaymentSystem
}

type PaymentMethod struct {
	Type         string
	AccountLast5 string
}

type PaymentAudit struct {
	IsConfirmed bool
	Auditor     string
}

type PaymentReceipt struct {
	IsRequired bool
	Title      string
	TaxID      string
}

type PaymentRelated struct {
	EventID        string
	RegistrationID string
	MemberID       string
}

type PaymentSystem struct {
	LineUID   string
	EventCode string
	EventName string
}
