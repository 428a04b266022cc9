// institution-portal/internal/handlers/staff_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/models"
)

// StaffHandler owns the staff and teacher registries of the caller's
// institution.
type StaffHandler struct {
	DB *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{DB: db}
}

type StaffInput struct {
	Name        string            `json:"name" binding:"required"`
	FatherName  string            `json:"father_name"`
	Designation string            `json:"designation"`
	Salary      float64           `json:"salary" binding:"required,gte=0"`
	ExtraFields map[string]string `json:"extra_fields"`
}

// HireStaff adds a non-teaching employee.
func (h *StaffHandler) HireStaff(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input StaffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staff := models.Staff{
		InstitutionID: instID,
		Name:          input.Name,
		FatherName:    input.FatherName,
		Designation:   input.Designation,
		Salary:        input.Salary,
		ExtraFields:   input.ExtraFields,
		IsActive:      true,
	}
	if err := h.DB.Create(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create staff record"})
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// ListStaff returns all staff members of the institution.
func (h *StaffHandler) ListStaff(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := h.DB.Where("institution_id = ? AND is_active = ?", instID, true).
		Order("name, id").Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"institution_id": instID,
		"total_staff":    len(staff),
		"rows":           staff,
	})
}

type StaffUpdateInput struct {
	Name        *string            `json:"name"`
	FatherName  *string            `json:"father_name"`
	Designation *string            `json:"designation"`
	Salary      *float64           `json:"salary"`
	ExtraFields *map[string]string `json:"extra_fields"`
}

// UpdateStaff patches the provided fields only.
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input StaffUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var staff models.Staff
	if err := h.DB.Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		First(&staff).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff record not found in institution"})
		return
	}

	if input.Name != nil {
		staff.Name = *input.Name
	}
	if input.FatherName != nil {
		staff.FatherName = *input.FatherName
	}
	if input.Designation != nil {
		staff.Designation = *input.Designation
	}
	if input.Salary != nil {
		staff.Salary = *input.Salary
	}
	if input.ExtraFields != nil {
		staff.ExtraFields = *input.ExtraFields
	}
	if err := h.DB.Save(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update staff record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Record updated"})
}

// DeleteStaff deactivates the record; payroll history stays queryable.
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Staff{}).
		Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not remove staff record"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff member not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Staff record deleted successfully"})
}

type TeacherInput struct {
	Name         string            `json:"name" binding:"required"`
	Phone        string            `json:"phone"`
	Salary       float64           `json:"salary" binding:"gte=0"`
	Designation  string            `json:"designation"`
	JoiningDate  string            `json:"joining_date"` // YYYY-MM-DD
	ExtraDetails map[string]string `json:"extra_details"`
}

// HireTeacher onboards a teacher; designation maps to subject expertise.
func (h *StaffHandler) HireTeacher(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	teacher := models.Teacher{
		InstitutionID:    instID,
		Name:             input.Name,
		Phone:            input.Phone,
		Salary:           input.Salary,
		SubjectExpertise: input.Designation,
		ExtraDetails:     input.ExtraDetails,
		IsActive:         true,
	}
	if input.JoiningDate != "" {
		d, err := time.Parse("2006-01-02", input.JoiningDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid joining_date, expected YYYY-MM-DD"})
			return
		}
		teacher.JoiningDate = &d
	}

	if err := h.DB.Create(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create teacher record"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Teacher " + input.Name + " onboarded successfully",
		"id":      teacher.ID,
	})
}

// ListTeachers returns the institution's teachers.
func (h *StaffHandler) ListTeachers(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var teachers []models.Teacher
	if err := h.DB.Where("institution_id = ? AND is_active = ?", instID, true).
		Order("name, id").Find(&teachers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch teachers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"institution_id": instID,
		"total_teachers": len(teachers),
		"rows":           teachers,
	})
}

// UpdateTeacher patches the provided fields only.
func (h *StaffHandler) UpdateTeacher(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input struct {
		Name         *string            `json:"name"`
		Phone        *string            `json:"phone"`
		Salary       *float64           `json:"salary"`
		Designation  *string            `json:"designation"`
		ExtraDetails *map[string]string `json:"extra_details"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var teacher models.Teacher
	if err := h.DB.Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		First(&teacher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher record not found"})
		return
	}

	if input.Name != nil {
		teacher.Name = *input.Name
	}
	if input.Phone != nil {
		teacher.Phone = *input.Phone
	}
	if input.Salary != nil {
		teacher.Salary = *input.Salary
	}
	if input.Designation != nil {
		teacher.SubjectExpertise = *input.Designation
	}
	if input.ExtraDetails != nil {
		teacher.ExtraDetails = *input.ExtraDetails
	}
	if err := h.DB.Save(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update teacher record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Record updated"})
}

// DeleteTeacher deactivates the record.
func (h *StaffHandler) DeleteTeacher(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Teacher{}).
		Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not remove teacher record"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Teacher removed"})
}
