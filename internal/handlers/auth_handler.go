// institution-portal/internal/handlers/auth_handler.go
package handlers

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"institution-portal/config"
	"institution-portal/models"
	"institution-portal/services/mailer"
)

// AuthHandler owns signup, email-OTP verification and the login/reset flows.
type AuthHandler struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Mailer mailer.Mailer
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, m mailer.Mailer) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Mailer: m}
}

type SignupInput struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyActionInput struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	Action      string `json:"action" binding:"required"` // signup | reset
	NewPassword string `json:"new_password"`
}

// Signup registers a new account (or refreshes an unverified one) and emails
// a 6-digit verification code. Re-signing up with a verified email is
// rejected.
func (h *AuthHandler) Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	otp := generateOTP()
	now := time.Now()

	var user models.User
	err = h.DB.Where("email = ?", input.Email).First(&user).Error
	switch {
	case err == nil:
		if user.IsVerified {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered."})
			return
		}
		user.Name = input.Name
		user.Password = string(hashed)
		user.OTPCode = otp
		user.OTPCreatedAt = &now
		if err := h.DB.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update account"})
			return
		}
	case err == gorm.ErrRecordNotFound:
		user = models.User{
			Name:         input.Name,
			Email:        input.Email,
			Password:     string(hashed),
			Role:         models.RoleUnassigned,
			OTPCode:      otp,
			OTPCreatedAt: &now,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create account"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.sendOTP(user.Email, user.Name, otp, "Your Verification Code")
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "OTP sent to your email."})
}

// VerifyAction consumes an OTP for either signup verification or a password
// reset. The code is single-use and expires after the configured window.
func (h *AuthHandler) VerifyAction(c *gin.Context) {
	var input VerifyActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.OTPCode == "" || user.OTPCode != input.OTP {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid verification code"})
		return
	}
	if user.OTPCreatedAt == nil || time.Since(*user.OTPCreatedAt) > h.Cfg.OTPTTL {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification code expired"})
		return
	}

	var msg string
	switch input.Action {
	case "signup":
		user.IsVerified = true
		user.OTPCode = ""
		msg = "Account verified successfully."
	case "reset":
		if input.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password required for reset"})
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user.Password = string(hashed)
		user.OTPCode = ""
		msg = "Password reset successfully."
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action type"})
		return
	}

	if err := h.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": msg})
}

// Login authenticates a verified user and issues an HS256 bearer token with
// the email as subject.
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "Please verify your email first."})
		return
	}

	claims := jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(h.Cfg.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.Cfg.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":   token,
		"token_type":     "bearer",
		"user":           user.Name,
		"role":           user.Role,
		"institution_id": user.InstitutionID,
	})
}

// ForgotPassword emails a reset code to a known account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	otp := generateOTP()
	now := time.Now()
	user.OTPCode = otp
	user.OTPCreatedAt = &now
	if err := h.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update account"})
		return
	}

	h.sendOTP(user.Email, user.Name, otp, "Password Reset Code")
	c.JSON(http.StatusOK, gin.H{"message": "Reset code sent"})
}

func (h *AuthHandler) sendOTP(email, name, code, subject string) {
	go func() {
		if err := h.Mailer.Send(email, name, subject, mailer.OTPBody(name, code, subject)); err != nil {
			slog.Error("Failed to send OTP email", "error", err, "email", email)
		}
	}()
}

// generateOTP returns a 6-digit numeric code from a CSPRNG.
func generateOTP() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; surface loudly.
		panic(err)
	}
	digits := make([]byte, 6)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits)
}
