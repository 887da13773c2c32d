package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// sessionClaims полезная нагрузка токена, выданного внешним сервисом сессий
type sessionClaims struct {
	Role          string `json:"role"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// Auth проверяет Bearer-токен сессии и кладёт Principal в контекст запроса.
// Сам движок личность не проверяет: токен уже выдан внешним сервисом,
// здесь только сверяется подпись и статус аккаунта.
func Auth(secret string, roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "you are not authorized",
			})
			return
		}

		claims := &sessionClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "you are not authorized",
			})
			return
		}

		if !claims.EmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "email verification required",
			})
			return
		}

		if model.UserStatus(claims.Status) != model.UserStatusActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "your account is not active",
			})
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "you are not authorized",
			})
			return
		}

		principal := model.Principal{
			ID:     userID,
			Role:   model.UserRole(claims.Role),
			Status: model.UserStatus(claims.Status),
		}

		if len(roles) > 0 && !roleAllowed(principal.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "you don't have permission to access this resource",
			})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func roleAllowed(role model.UserRole, allowed []model.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func principalFrom(c *gin.Context) model.Principal {
	return c.MustGet(principalKey).(model.Principal)
}
