// institution-portal/internal/handlers/institution_handler.go
package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"institution-portal/internal/middleware"
	"institution-portal/models"
)

// InstitutionHandler owns onboarding: role selection, workspace creation and
// joining an existing institution by reference + key.
type InstitutionHandler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewInstitutionHandler(db *gorm.DB, rdb *redis.Client) *InstitutionHandler {
	return &InstitutionHandler{DB: db, RDB: rdb}
}

type RoleUpdateInput struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole records the role a fresh account picked during onboarding.
func (h *InstitutionHandler) UpdateRole(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input RoleUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch input.Role {
	case models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role selection"})
		return
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", ident.UserID).
		Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update role"})
		return
	}
	middleware.InvalidateIdentity(c.Request.Context(), h.RDB, ident.Email)

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"role":           input.Role,
		"institution_id": ident.InstitutionID,
	})
}

type WorkspaceInput struct {
	Type    string `json:"type" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Email   string `json:"email"`

	PrincipalName string `json:"principal_name"`
	Campus        string `json:"campus"`
	Website       string `json:"website"`

	EduType    string `json:"edu_type"`
	CampusName string `json:"campus_name"`
	Contact    string `json:"contact"`

	DeanName   string `json:"dean_name"`
	Code       string `json:"code"`
	University string `json:"uni"`
}

// SetupWorkspace creates the caller's institution (school, academy or
// college), generating the public reference that joiners search by and the
// secret join key they must present. One institution per owner.
func (h *InstitutionHandler) SetupWorkspace(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)
	if ident.Role != models.RoleAdmin && ident.Role != models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can setup a workspace"})
		return
	}

	var input WorkspaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch input.Type {
	case models.KindSchool, models.KindAcademy, models.KindCollege:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid institution type"})
		return
	}

	var existing models.Institution
	if err := h.DB.Where("owner_id = ?", ident.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workspace already exists for this user"})
		return
	}

	inst := models.Institution{
		OwnerID:       ident.UserID,
		Ref:           generateInstRef(),
		JoinKey:       generateJoinKey(),
		Kind:          input.Type,
		Name:          input.Name,
		Address:       input.Address,
		Email:         input.Email,
		IsActive:      true,
		PrincipalName: input.PrincipalName,
		Campus:        input.Campus,
		Website:       input.Website,
		EduType:       input.EduType,
		CampusName:    input.CampusName,
		Contact:       input.Contact,
		DeanName:      input.DeanName,
		Code:          input.Code,
		University:    input.University,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inst).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", ident.UserID).
			Updates(map[string]any{"institution_id": inst.ID, "role": models.RoleOwner}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create institution"})
		return
	}
	middleware.InvalidateIdentity(c.Request.Context(), h.RDB, ident.Email)

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  strings.ToUpper(input.Type[:1]) + input.Type[1:] + " created!",
		"inst_ref": inst.Ref,
		"join_key": inst.JoinKey,
	})
}

type JoinInput struct {
	InstRef string `json:"inst_ref" binding:"required"`
	JoinKey string `json:"join_key" binding:"required"`
}

// Join links the caller to an institution by public reference and join key.
// A user can belong to at most one institution.
func (h *InstitutionHandler) Join(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var input JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ident.InstitutionID != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already linked to an institution"})
		return
	}

	var inst models.Institution
	if err := h.DB.Where("inst_ref = ? AND join_key = ? AND is_active = ?",
		input.InstRef, input.JoinKey, true).First(&inst).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid Reference or Join Key"})
		return
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", ident.UserID).
		Update("institution_id", inst.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link to institution"})
		return
	}
	middleware.InvalidateIdentity(c.Request.Context(), h.RDB, ident.Email)

	c.JSON(http.StatusOK, gin.H{
		"status":           "success",
		"message":          "Successfully joined " + inst.Name,
		"institution_name": inst.Name,
	})
}

// CheckOwnership is the onboarding probe the frontend uses to decide where to
// send a logged-in admin.
func (h *InstitutionHandler) CheckOwnership(c *gin.Context) {
	ident, _ := middleware.CurrentIdentity(c)

	var inst models.Institution
	if err := h.DB.Where("owner_id = ?", ident.UserID).First(&inst).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{
			"has_institution": false,
			"status":          "setup_required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_institution":  true,
		"institution_name": inst.Name,
		"institution_type": inst.Kind,
		"role":             "owner",
	})
}

// generateInstRef returns the 8-character public search id.
func generateInstRef() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:])[:8])
}

// generateJoinKey returns a shareable "XXX-XXX" secret.
func generateJoinKey() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, 7)
	for i := 0; i < 6; i++ {
		pos := i
		if i >= 3 {
			pos = i + 1
		}
		out[pos] = chars[int(buf[i])%len(chars)]
	}
	out[3] = '-'
	return string(out)
}
