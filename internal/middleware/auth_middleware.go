// institution-portal/internal/middleware/auth_middleware.go
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"institution-portal/models"
)

const identityCacheTTL = 10 * time.Minute

// Identity is the resolved caller: who they are, what they may do and which
// institution partitions their data. Every tenant-scoped handler reads the
// institution id from here and nowhere else.
type Identity struct {
	UserID        uint   `json:"user_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	InstitutionID *uint  `json:"institution_id"`
}

// Auth builds the authentication middleware: bearer token -> JWT claims ->
// identity, with a redis cache in front of the user lookup. A nil redis
// client simply disables caching.
func Auth(db *gorm.DB, rdb *redis.Client, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization token not provided")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "Invalid Authorization header format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		email, ok := claims["sub"].(string)
		if !ok || email == "" {
			abortUnauthorized(c, "Invalid subject in token")
			return
		}

		ctx := c.Request.Context()
		cacheKey := "identity:" + email

		if rdb != nil {
			if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
				var ident Identity
				if json.Unmarshal([]byte(cached), &ident) == nil {
					c.Set("identity", ident)
					c.Next()
					return
				}
				slog.Warn("Failed to unmarshal cached identity", "email", email)
			} else if err != redis.Nil {
				slog.Error("Redis GET failed", "error", err, "email", email)
			}
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			abortUnauthorized(c, "User from token not found")
			return
		}
		ident := Identity{
			UserID:        user.ID,
			Email:         user.Email,
			Name:          user.Name,
			Role:          user.Role,
			InstitutionID: user.InstitutionID,
		}

		if rdb != nil {
			if data, err := json.Marshal(ident); err == nil {
				if err := rdb.Set(ctx, cacheKey, data, identityCacheTTL).Err(); err != nil {
					slog.Error("Failed to cache identity", "error", err, "email", email)
				}
			}
		}

		c.Set("identity", ident)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Owners pass every
// check since they administer the whole workspace.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Identity not found in context"})
			c.Abort()
			return
		}
		if ident.Role == models.RoleOwner {
			c.Next()
			return
		}
		for _, role := range roles {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
		c.Abort()
	}
}

// CurrentIdentity extracts the authenticated caller set by Auth.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get("identity")
	if !exists {
		return Identity{}, false
	}
	ident, ok := val.(Identity)
	return ident, ok
}

// InvalidateIdentity drops a user's cached identity, used after role or
// institution changes so the next request sees fresh data.
func InvalidateIdentity(ctx context.Context, rdb *redis.Client, email string) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, "identity:"+email).Err(); err != nil {
		slog.Error("Failed to invalidate cached identity", "error", err, "email", email)
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}
