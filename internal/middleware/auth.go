package middleware

import (
	"net/http"
	"strings"

	"foodhouse/internal/apperr"
	"foodhouse/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every staff access token.
type JWTClaims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store_id"`
	jwt.RegisteredClaims
}

// MustUserID parses the user id claim; the zero UUID means a malformed token
// that somehow passed signature validation.
func (c *JWTClaims) MustUserID() uuid.UUID {
	id, _ := uuid.Parse(c.UserID)
	return id
}

// MustStoreID parses the store id claim.
func (c *JWTClaims) MustStoreID() uuid.UUID {
	id, _ := uuid.Parse(c.StoreID)
	return id
}

// StaffRole returns the typed role for authorization checks.
func (c *JWTClaims) StaffRole() model.Role {
	return model.Role(c.Role)
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.New("authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperr.New("invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is below the given minimum.
// Roles are ordered CASHIER < ADMIN < OWNER.
func RequireRole(min model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !claims.StaffRole().AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, apperr.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}
