package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusVerified AuditStatus = "verified"
)

// Donation is an immutable ledger record. The record, not the member-stat
// aggregate, is the source of truth for donation history.
type Donation struct {
	ID        string
	MemberID  string
	DonorName string
	Amount    decimal.Decimal
	Category  string
	Date      time.Time
	Payment   DonationPayment
	Audit     DonationAudit
	Receipt   DonationReceipt
}

type DonationPayment struct {
	Method       string
	AccountLast5 string
}

type DonationAudit struct {
	Status  AuditStatus
	Auditor string
}

type DonationReceipt struct {
	IsRequired     bool
	Status         string
	DeliveryMethod string
}
