// institution-portal/models/ledger.go
package models

import "gorm.io/gorm"

// Payment statuses derived from the record amounts, never set directly by a
// caller: Paid iff remaining_balance <= 0, Partial iff 0 < amount_paid <
// total_due, Unpaid otherwise.
const (
	StatusUnpaid  = "Unpaid"
	StatusPartial = "Partial"
	StatusPaid    = "Paid"
)

// LedgerFields is the shared shape of one billing-month entry. Arrears and
// TotalDue are computed once when the record is created and frozen;
// AmountPaid only ever increases and RemainingBalance is recomputed as
// total_due - amount_paid on every payment. IsArchived marks rows that have
// been included in an end-of-year export.
type LedgerFields struct {
	InstitutionID    uint    `json:"institutionId" gorm:"index;not null"`
	PersonID         uint    `json:"personId" gorm:"not null"`
	Month            string  `json:"month" gorm:"size:7;not null"`
	Arrears          float64 `json:"arrears" gorm:"type:numeric(12,2);not null;default:0"`
	TotalDue         float64 `json:"totalDue" gorm:"type:numeric(12,2);not null;default:0"`
	AmountPaid       float64 `json:"amountPaid" gorm:"type:numeric(12,2);not null;default:0"`
	RemainingBalance float64 `json:"remainingBalance" gorm:"type:numeric(12,2);not null;default:0"`
	Status           string  `json:"status" gorm:"size:10;not null;default:Unpaid"`
	IsArchived       bool    `json:"isArchived" gorm:"not null;default:false"`
}

// FeeRecord bills one student for one month.
type FeeRecord struct {
	gorm.Model
	LedgerFields `gorm:"embedded"`
}

func (FeeRecord) TableName() string { return "fee_records" }

// SalaryRecord owes one staff member for one month.
type SalaryRecord struct {
	gorm.Model
	LedgerFields `gorm:"embedded"`
}

func (SalaryRecord) TableName() string { return "salary_records" }
