// institution-portal/internal/handlers/pay_handler.go
package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"institution-portal/internal/ledger"
)

// PayHandler is the HTTP boundary of the fee/payroll ledger. It translates
// transport inputs into engine calls and engine errors into status codes;
// all money logic lives in the engine.
type PayHandler struct {
	Ledger *ledger.Engine
}

func NewPayHandler(engine *ledger.Engine) *PayHandler {
	return &PayHandler{Ledger: engine}
}

// ledgerError maps engine sentinel errors onto transport status codes.
func ledgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	case errors.Is(err, ledger.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Concurrent update, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}

// SearchPayRecords returns the month's billing rows for persons matching the
// query. Persons not yet billed this month appear with a read-only preview.
func (h *PayHandler) SearchPayRecords(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	category := ledger.Category(c.Query("category"))
	month := c.Query("month")
	rows, err := h.Ledger.Search(instID, category, month, c.Query("query"))
	if err != nil {
		ledgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

type PaymentSubmitInput struct {
	PersonID   uint    `json:"person_id" binding:"required"`
	Category   string  `json:"category" binding:"required"`
	AmountPaid float64 `json:"amount_paid"`
	Month      string  `json:"month" binding:"required"`
}

// SubmitPayment records a payment against a (person, month), creating the
// billing record with carried arrears on first touch.
func (h *PayHandler) SubmitPayment(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input PaymentSubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.AmountPaid < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment amount cannot be negative"})
		return
	}

	rec, err := h.Ledger.FindOrCreateRecord(instID, ledger.Category(input.Category), input.PersonID, input.Month)
	if err != nil {
		ledgerError(c, err)
		return
	}
	rec, err = h.Ledger.ApplyPayment(ledger.Category(input.Category), rec.ID, input.AmountPaid)
	if err != nil {
		ledgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "remaining": rec.RemainingBalance})
}

var exportHeaders = []string{
	"Month", "Person ID", "Name", "Father Name", "Base Amount",
	"Arrears", "Total Due", "Paid", "Balance", "Status",
}

// ExportRecords streams one file row per ledger record of the year and marks
// the exported rows archived. format=xlsx switches from CSV to a workbook.
func (h *PayHandler) ExportRecords(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	category := ledger.Category(c.Query("category"))
	year := c.Query("year")
	rows, err := h.Ledger.ExportYear(instID, category, year)
	if err != nil {
		ledgerError(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		h.writeXLSX(c, string(category), year, rows)
		return
	}
	h.writeCSV(c, string(category), year, rows)
}

func (h *PayHandler) writeCSV(c *gin.Context, category, year string, rows []ledger.ExportRow) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_records_%s.csv", category, year))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	_ = w.Write(exportHeaders)
	for _, r := range rows {
		_ = w.Write([]string{
			r.Month,
			strconv.FormatUint(uint64(r.PersonID), 10),
			r.Name,
			r.FatherName,
			formatAmount(r.BaseAmount),
			formatAmount(r.Arrears),
			formatAmount(r.TotalDue),
			formatAmount(r.AmountPaid),
			formatAmount(r.RemainingBalance),
			r.Status,
		})
	}
}

func (h *PayHandler) writeXLSX(c *gin.Context, category, year string, rows []ledger.ExportRow) {
	f := excelize.NewFile()
	sheet := "Records " + year
	index, err := f.NewSheet(sheet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel file"})
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for i, r := range rows {
		values := []any{
			r.Month, r.PersonID, r.Name, r.FatherName, r.BaseAmount,
			r.Arrears, r.TotalDue, r.AmountPaid, r.RemainingBalance, r.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_records_%s.xlsx", category, year))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
