// institution-portal/internal/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"institution-portal/internal/middleware"
	"institution-portal/models"
)

// ProfileHandler lets a user read and edit their own bio. The user id always
// comes from the authenticated identity, never from the request body.
type ProfileHandler struct {
	DB *gorm.DB
}

func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{DB: db}
}

// Get returns the caller's account plus bio, if one exists.
func (h *ProfileHandler) Get(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var bio models.UserBio
	err := h.DB.Where("user_id = ?", ident.UserID).First(&bio).Error
	resp := gin.H{
		"id":             ident.UserID,
		"name":           ident.Name,
		"email":          ident.Email,
		"role":           ident.Role,
		"institution_id": ident.InstitutionID,
	}
	if err == nil {
		resp["bio"] = bio
	}
	c.JSON(http.StatusOK, resp)
}

type BioUpdateInput struct {
	FullName      string            `json:"full_name" binding:"required,max=100"`
	ShortBio      string            `json:"short_bio"`
	CustomDetails map[string]string `json:"custom_details"`
}

// Update creates or replaces the caller's bio.
func (h *ProfileHandler) Update(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input BioUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var bio models.UserBio
	err := h.DB.Where("user_id = ?", ident.UserID).First(&bio).Error
	switch {
	case err == nil:
		bio.FullName = input.FullName
		bio.ShortBio = input.ShortBio
		bio.CustomDetails = input.CustomDetails
		err = h.DB.Save(&bio).Error
	case err == gorm.ErrRecordNotFound:
		bio = models.UserBio{
			UserID:        ident.UserID,
			FullName:      input.FullName,
			ShortBio:      input.ShortBio,
			CustomDetails: input.CustomDetails,
		}
		err = h.DB.Create(&bio).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Profile saved successfully"})
}
