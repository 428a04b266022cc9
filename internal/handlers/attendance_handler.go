// institution-portal/internal/handlers/attendance_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"institution-portal/models"
)

// AttendanceHandler records daily student attendance. One row per student
// per day; re-marking a day overwrites the previous status.
type AttendanceHandler struct {
	DB *gorm.DB
}

func NewAttendanceHandler(db *gorm.DB) *AttendanceHandler {
	return &AttendanceHandler{DB: db}
}

type MarkAttendanceInput struct {
	StudentID uint   `json:"student_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Status    string `json:"status" binding:"required"`
}

// Mark upserts one student's status for one day.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	instID, ident, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input MarkAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	switch input.Status {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceLeave:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attendance status"})
		return
	}

	var student models.Student
	if err := h.DB.Where("id = ? AND institution_id = ? AND is_active = ?",
		input.StudentID, instID, true).First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found in your institution"})
		return
	}

	record := models.Attendance{
		InstitutionID: instID,
		StudentID:     input.StudentID,
		Date:          input.Date,
		Status:        input.Status,
		MarkedBy:      ident.Email,
	}
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListByDate returns the day's attendance for the whole institution.
func (h *AttendanceHandler) ListByDate(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	var records []models.Attendance
	if err := h.DB.Where("institution_id = ? AND date = ?", instID, date).
		Order("student_id").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "count": len(records), "records": records})
}

// StudentHistory returns one student's attendance rows, newest first.
func (h *AttendanceHandler) StudentHistory(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var records []models.Attendance
	if err := h.DB.Where("institution_id = ? AND student_id = ?", instID, c.Param("id")).
		Order("date DESC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch attendance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "records": records})
}
