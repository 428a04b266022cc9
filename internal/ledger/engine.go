// institution-portal/internal/ledger/engine.go
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"institution-portal/models"
)

// Category selects which side of the ledger an operation works on. The two
// sides are structurally identical; the category only resolves to a table
// and base-amount strategy, so every operation runs through one code path.
type Category string

const (
	CategoryStudent Category = "student"
	CategoryStaff   Category = "staff"
)

// categorySpec is the lookup strategy behind a Category: where the records
// live, where the persons live and which column carries the base recurring
// amount (fee for students, salary for staff).
type categorySpec struct {
	records    string
	persons    string
	baseColumn string
}

func (c Category) spec() (categorySpec, error) {
	switch c {
	case CategoryStudent:
		return categorySpec{records: "fee_records", persons: "students", baseColumn: "fee"}, nil
	case CategoryStaff:
		return categorySpec{records: "salary_records", persons: "staff", baseColumn: "salary"}, nil
	default:
		return categorySpec{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, string(c))
	}
}

// Record is the category-independent view of one billing-month entry.
type Record struct {
	ID               uint    `json:"id"`
	InstitutionID    uint    `json:"institutionId"`
	PersonID         uint    `json:"personId"`
	Month            string  `json:"month"`
	Arrears          float64 `json:"arrears"`
	TotalDue         float64 `json:"totalDue"`
	AmountPaid       float64 `json:"amountPaid"`
	RemainingBalance float64 `json:"remainingBalance"`
	Status           string  `json:"status"`
	IsArchived       bool    `json:"isArchived"`
}

// RowView is one line of a pay search result. Persons with no record for the
// queried month still appear, with a read-only preview of what the record
// would contain.
type RowView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	FatherName  string  `json:"father_name"`
	Contact     string  `json:"contact"`
	TotalAmount float64 `json:"total_amount"`
	Paid        float64 `json:"paid"`
	Remaining   float64 `json:"remaining"`
	Status      string  `json:"status"`
}

// ExportRow is one line of a year export: every ledger field plus the
// person's display data.
type ExportRow struct {
	RecordID         uint    `json:"recordId"`
	Month            string  `json:"month"`
	PersonID         uint    `json:"personId"`
	Name             string  `json:"name"`
	FatherName       string  `json:"fatherName"`
	BaseAmount       float64 `json:"baseAmount"`
	Arrears          float64 `json:"arrears"`
	TotalDue         float64 `json:"totalDue"`
	AmountPaid       float64 `json:"amountPaid"`
	RemainingBalance float64 `json:"remainingBalance"`
	Status           string  `json:"status"`
}

// Engine computes monthly dues with arrears carry-forward and accumulates
// partial payments. All operations are synchronous request/response and
// scoped by institution.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

type personRow struct {
	ID          uint
	Name        string
	FatherName  string
	Base        float64
	ExtraFields string
}

// findPerson resolves a person inside the caller's institution. A person that
// exists in another institution reports ErrNotFound, never a permission
// error, so existence does not leak across tenants.
func (e *Engine) findPerson(sp categorySpec, institutionID, personID uint) (personRow, error) {
	var p personRow
	err := e.db.Table(sp.persons).
		Select(fmt.Sprintf("id, name, father_name, %s AS base, extra_fields", sp.baseColumn)).
		Where("id = ? AND institution_id = ? AND is_active = ? AND deleted_at IS NULL", personID, institutionID, true).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, fmt.Errorf("%w: person %d", ErrNotFound, personID)
	}
	if err != nil {
		return p, err
	}
	return p, nil
}

// previousRemaining returns the remaining balance of the person's record in
// the month preceding the given one, or 0 when no such record exists.
func (e *Engine) previousRemaining(sp categorySpec, personID uint, month string) (float64, error) {
	prevMonth, err := PrevMonth(month)
	if err != nil {
		return 0, err
	}
	var prev Record
	err = e.db.Table(sp.records).
		Where("person_id = ? AND month = ? AND deleted_at IS NULL", personID, prevMonth).
		Take(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return prev.RemainingBalance, nil
}

// carriedArrears applies the carry-forward rule: the prior month's positive
// remaining balance, or 0 when there is none or it was already settled.
func carriedArrears(prevRemaining float64) float64 {
	if prevRemaining > 0 {
		return prevRemaining
	}
	return 0
}

// FindOrCreateRecord returns the billing record for (person, month), creating
// it lazily with arrears carried from the previous month. Creation races are
// serialized by the unique (person_id, month) index: the loser inserts
// nothing and reads back the winner's row, so at most one record per pair
// ever exists.
func (e *Engine) FindOrCreateRecord(institutionID uint, category Category, personID uint, month string) (Record, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return Record{}, err
	}
	sp, err := category.spec()
	if err != nil {
		return Record{}, err
	}

	person, err := e.findPerson(sp, institutionID, personID)
	if err != nil {
		return Record{}, err
	}

	if rec, err := e.getRecord(sp, institutionID, personID, month); err == nil {
		return rec, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, err
	}

	prevRemaining, err := e.previousRemaining(sp, personID, month)
	if err != nil {
		return Record{}, err
	}
	arrears := carriedArrears(prevRemaining)
	totalDue := person.Base + arrears

	now := time.Now()
	res := e.db.Table(sp.records).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{
			"created_at":        now,
			"updated_at":        now,
			"institution_id":    institutionID,
			"person_id":         personID,
			"month":             month,
			"arrears":           arrears,
			"total_due":         totalDue,
			"amount_paid":       0.0,
			"remaining_balance": totalDue,
			"status":            models.StatusUnpaid,
			"is_archived":       false,
		})
	if res.Error != nil {
		return Record{}, res.Error
	}

	rec, err := e.getRecord(sp, institutionID, personID, month)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// We neither inserted nor can read the concurrent winner's row
		// back; let the caller retry.
		return Record{}, fmt.Errorf("%w: record creation for person %d month %s", ErrConflict, personID, month)
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (e *Engine) getRecord(sp categorySpec, institutionID, personID uint, month string) (Record, error) {
	var rec Record
	err := e.db.Table(sp.records).
		Where("institution_id = ? AND person_id = ? AND month = ? AND deleted_at IS NULL", institutionID, personID, month).
		Take(&rec).Error
	return rec, err
}

// ApplyPayment adds a non-negative increment to a record's paid amount and
// rederives the remaining balance and status in a single relative UPDATE, so
// concurrent payments never lose each other. Overpayment is not clamped: a
// negative remaining balance is a recorded fact the caller sees.
func (e *Engine) ApplyPayment(category Category, recordID uint, increment float64) (Record, error) {
	if increment < 0 {
		return Record{}, fmt.Errorf("%w: negative payment amount %.2f", ErrInvalidInput, increment)
	}
	sp, err := category.spec()
	if err != nil {
		return Record{}, err
	}

	res := e.db.Table(sp.records).
		Where("id = ? AND deleted_at IS NULL", recordID).
		Updates(map[string]any{
			"amount_paid":       gorm.Expr("amount_paid + ?", increment),
			"remaining_balance": gorm.Expr("total_due - (amount_paid + ?)", increment),
			"status": gorm.Expr(
				"CASE WHEN total_due - (amount_paid + ?) <= 0 THEN ? WHEN amount_paid + ? > 0 THEN ? ELSE ? END",
				increment, models.StatusPaid, increment, models.StatusPartial, models.StatusUnpaid),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return Record{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Record{}, fmt.Errorf("%w: record %d", ErrNotFound, recordID)
	}

	var rec Record
	if err := e.db.Table(sp.records).Where("id = ?", recordID).Take(&rec).Error; err != nil {
		return Record{}, err
	}
	return rec, nil
}

type searchRow struct {
	PersonID         uint
	Name             string
	FatherName       string
	ExtraFields      string
	Base             float64
	RecordID         *uint
	TotalDue         float64
	AmountPaid       float64
	RemainingBalance float64
	Status           string
}

// Search joins persons matching the query substring with their ledger record
// for the month. Persons without a record appear with a preview computed the
// same way FindOrCreateRecord would, but nothing is persisted.
func (e *Engine) Search(institutionID uint, category Category, month, query string) ([]RowView, error) {
	if _, _, err := ParseMonth(month); err != nil {
		return nil, err
	}
	sp, err := category.spec()
	if err != nil {
		return nil, err
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var rows []searchRow
	err = e.db.Table(sp.persons+" AS p").
		Select(fmt.Sprintf(`p.id AS person_id, p.name, p.father_name, p.extra_fields, p.%s AS base,
			r.id AS record_id, r.total_due, r.amount_paid, r.remaining_balance, r.status`, sp.baseColumn)).
		Joins(fmt.Sprintf("LEFT JOIN %s r ON r.person_id = p.id AND r.month = ? AND r.deleted_at IS NULL", sp.records), month).
		Where("p.institution_id = ? AND p.is_active = ? AND p.deleted_at IS NULL", institutionID, true).
		Where("LOWER(p.name) LIKE ? OR LOWER(p.father_name) LIKE ?", pattern, pattern).
		Order("p.name, p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		view := RowView{
			ID:         row.PersonID,
			Name:       row.Name,
			FatherName: row.FatherName,
			Contact:    contactFromExtras(row.ExtraFields),
		}
		if row.RecordID != nil {
			view.TotalAmount = row.TotalDue
			view.Paid = row.AmountPaid
			view.Remaining = row.RemainingBalance
			view.Status = row.Status
		} else {
			prevRemaining, err := e.previousRemaining(sp, row.PersonID, month)
			if err != nil {
				return nil, err
			}
			arrears := carriedArrears(prevRemaining)
			view.TotalAmount = row.Base + arrears
			view.Paid = 0
			view.Remaining = row.Base + arrears
			view.Status = models.StatusUnpaid
		}
		views = append(views, view)
	}
	return views, nil
}

// ExportYear collects every record of the calendar year joined with person
// display data and marks the exported rows archived.
func (e *Engine) ExportYear(institutionID uint, category Category, year string) ([]ExportRow, error) {
	if len(year) != 4 {
		return nil, fmt.Errorf("%w: year %q is not in YYYY form", ErrInvalidInput, year)
	}
	for _, c := range year {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: year %q is not in YYYY form", ErrInvalidInput, year)
		}
	}
	sp, err := category.spec()
	if err != nil {
		return nil, err
	}

	var rows []ExportRow
	err = e.db.Table(sp.records+" AS r").
		Select(`r.id AS record_id, r.month, r.person_id, p.name, p.father_name,
			r.total_due - r.arrears AS base_amount, r.arrears, r.total_due,
			r.amount_paid, r.remaining_balance, r.status`).
		Joins(fmt.Sprintf("JOIN %s p ON p.id = r.person_id", sp.persons)).
		Where("r.institution_id = ? AND r.month LIKE ? AND r.deleted_at IS NULL", institutionID, year+"-%").
		Order("r.month, p.name, p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Archive exactly the rows we exported; re-running the year predicate
	// would also flag records created after the select above.
	if len(rows) > 0 {
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.RecordID)
		}
		err = e.db.Table(sp.records).
			Where("id IN ?", ids).
			Updates(map[string]any{"is_archived": true, "updated_at": time.Now()}).Error
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func contactFromExtras(raw string) string {
	if raw == "" {
		return "N/A"
	}
	var extras map[string]string
	if err := json.Unmarshal([]byte(raw), &extras); err != nil {
		return "N/A"
	}
	if phone, ok := extras["phone"]; ok && phone != "" {
		return phone
	}
	return "N/A"
}
