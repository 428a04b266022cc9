// institution-portal/internal/handlers/dashboard_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/internal/middleware"
	"institution-portal/models"
)

// DashboardHandler owns the student registry of the caller's institution.
// Every query is filtered by institution id; a student outside it simply
// does not exist from the caller's point of view.
type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// requireInstitution resolves the caller's institution id or writes the 400
// response and reports false.
func requireInstitution(c *gin.Context) (uint, middleware.Identity, bool) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok || ident.InstitutionID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Institution not identified"})
		return 0, ident, false
	}
	return *ident.InstitutionID, ident, true
}

type AdmissionInput struct {
	Name        string            `json:"name" binding:"required"`
	FatherName  string            `json:"father_name"`
	Section     string            `json:"section" binding:"required"`
	Fee         float64           `json:"fee" binding:"required,gte=0"`
	ExtraFields map[string]string `json:"extra_fields"`
}

// AdmitStudent adds a pupil to the caller's institution.
func (h *DashboardHandler) AdmitStudent(c *gin.Context) {
	instID, ident, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input AdmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student := models.Student{
		InstitutionID: instID,
		Name:          input.Name,
		FatherName:    input.FatherName,
		Section:       input.Section,
		Fee:           input.Fee,
		ExtraFields:   input.ExtraFields,
		AdmittedBy:    ident.Email,
		IsActive:      true,
	}
	if err := h.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not admit student"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Student added to institution", "id": student.ID})
}

type StudentUpdateInput struct {
	Name        string            `json:"name" binding:"required"`
	FatherName  string            `json:"father_name"`
	Section     string            `json:"section" binding:"required"`
	Fee         float64           `json:"fee" binding:"gte=0"`
	ExtraFields map[string]string `json:"extra_fields"`
}

// EditStudent updates a student inside the caller's institution.
func (h *DashboardHandler) EditStudent(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var input StudentUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var student models.Student
	if err := h.DB.Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		First(&student).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found in your institution"})
		return
	}

	student.Name = input.Name
	student.FatherName = input.FatherName
	student.Section = input.Section
	student.Fee = input.Fee
	student.ExtraFields = input.ExtraFields
	if err := h.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Update successful"})
}

// DeleteStudent soft-deletes: the row is kept for ledger history, the pupil
// just stops appearing in lists and searches.
func (h *DashboardHandler) DeleteStudent(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Student{}).
		Where("id = ? AND institution_id = ?", c.Param("id"), instID).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate student"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deactivated"})
}

// ListStudents returns the active students of the institution, paginated,
// with an optional name/guardian/section substring filter.
func (h *DashboardHandler) ListStudents(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	query := h.DB.Model(&models.Student{}).
		Where("institution_id = ? AND is_active = ?", instID, true)
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(father_name) LIKE ? OR LOWER(section) LIKE ?",
			pattern, pattern, pattern)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count students"})
		return
	}

	var students []models.Student
	if err := query.Scopes(Paginate(c)).Order("name, id").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch students"})
		return
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

// Sections lists the distinct section names in use, for dropdowns.
func (h *DashboardHandler) Sections(c *gin.Context) {
	instID, _, ok := requireInstitution(c)
	if !ok {
		return
	}

	var sections []string
	if err := h.DB.Model(&models.Student{}).
		Where("institution_id = ? AND is_active = ?", instID, true).
		Distinct().Order("section").Pluck("section", &sections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch sections"})
		return
	}
	c.JSON(http.StatusOK, sections)
}
