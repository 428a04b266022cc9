// institution-portal/internal/handlers/vault_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/internal/middleware"
	"institution-portal/models"
)

// VaultHandler owns the institution's central document vault (syllabi, exam
// papers, scans) and dashboard notices. Vault rows are keyed by the public
// institution reference.
type VaultHandler struct {
	DB *gorm.DB
}

func NewVaultHandler(db *gorm.DB) *VaultHandler {
	return &VaultHandler{DB: db}
}

// institutionRef resolves the caller's public institution reference or
// writes the error response and reports false.
func (h *VaultHandler) institutionRef(c *gin.Context) (string, middleware.Identity, bool) {
	instID, ident, ok := requireInstitution(c)
	if !ok {
		return "", ident, false
	}
	var inst models.Institution
	if err := h.DB.Select("inst_ref").First(&inst, instID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Institution record not found"})
		return "", ident, false
	}
	return inst.Ref, ident, true
}

type VaultUploadInput struct {
	Name    string         `json:"name" binding:"required"`
	DocType string         `json:"doc_type"`
	Subject string         `json:"subject"`
	Content map[string]any `json:"content" binding:"required"`
}

// Upload stores a new vault document authored by the caller.
func (h *VaultHandler) Upload(c *gin.Context) {
	ref, ident, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var input VaultUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := models.Syllabus{
		InstitutionRef: ref,
		Name:           input.Name,
		DocType:        input.DocType,
		Content:        input.Content,
		AuthorName:     ident.Name,
	}
	if err := h.DB.Create(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store document"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "id": doc.ID})
}

// List returns the institution's vault documents, newest first.
func (h *VaultHandler) List(c *gin.Context) {
	ref, _, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var docs []models.Syllabus
	if err := h.DB.Where("institution_ref = ?", ref).
		Order("created_at DESC").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve vault records"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Update edits one document; cross-institution ids report 404, not 403, so
// document existence never leaks.
func (h *VaultHandler) Update(c *gin.Context) {
	ref, _, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var input VaultUploadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var doc models.Syllabus
	if err := h.DB.Where("id = ? AND institution_ref = ?", c.Param("id"), ref).
		First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found in your institution"})
		return
	}

	doc.Name = input.Name
	doc.DocType = input.DocType
	doc.Content = input.Content
	if err := h.DB.Save(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database sync failed during update"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Syllabus '" + input.Name + "' updated successfully"})
}

type BulkDeleteInput struct {
	IDs []uint `json:"ids"`
}

// BulkDelete removes a batch of documents, counting only rows that belong to
// the caller's institution.
func (h *VaultHandler) BulkDelete(c *gin.Context) {
	ref, _, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var input BulkDeleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.IDs) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_count": 0})
		return
	}

	res := h.DB.Where("id IN ? AND institution_ref = ?", input.IDs, ref).
		Delete(&models.Syllabus{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk delete operation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "deleted_count": res.RowsAffected})
}

type NoticeInput struct {
	Title    string `json:"title" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
}

// CreateNotice posts a dashboard announcement.
func (h *VaultHandler) CreateNotice(c *gin.Context) {
	ref, ident, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var input NoticeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Language == "" {
		input.Language = "en"
	}

	notice := models.Notice{
		InstitutionRef: ref,
		Title:          input.Title,
		Message:        input.Message,
		Language:       input.Language,
		IsActive:       true,
		CreatedBy:      ident.Email,
	}
	if err := h.DB.Create(&notice).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create notice"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "id": notice.ID})
}

// ListNotices returns active notices, newest first.
func (h *VaultHandler) ListNotices(c *gin.Context) {
	ref, _, ok := h.institutionRef(c)
	if !ok {
		return
	}

	var notices []models.Notice
	if err := h.DB.Where("institution_ref = ? AND is_active = ?", ref, true).
		Order("created_at DESC").Find(&notices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch notices"})
		return
	}
	c.JSON(http.StatusOK, notices)
}

// DeactivateNotice retires a notice without deleting it.
func (h *VaultHandler) DeactivateNotice(c *gin.Context) {
	ref, _, ok := h.institutionRef(c)
	if !ok {
		return
	}

	res := h.DB.Model(&models.Notice{}).
		Where("id = ? AND institution_ref = ?", c.Param("id"), ref).
		Update("is_active", false)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not deactivate notice"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
