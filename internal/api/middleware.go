package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
)

// Gin context keys set by AuthMiddleware.
const (
	ContextStaffIDKey   = "staffID"
	ContextStaffRoleKey = "staffRole"
)

// staffClaims is the payload of tokens issued to trainers and admins by the identity service.
type staffClaims struct {
	StaffID string      `json:"uid"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies an HS256 bearer token and stores the staff id and role on the context.
// Tokens without an expiry are rejected.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil }

	return func(c *gin.Context) {
		scheme, tokenString, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header must be Bearer {token}")
			return
		}

		claims := &staffClaims{}
		if _, err := parser.ParseWithClaims(tokenString, claims, keyFunc); err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
				return
			}
			abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			return
		}
		if claims.ExpiresAt == nil {
			abortWithError(c, http.StatusUnauthorized, "Token has no expiry")
			return
		}
		if claims.StaffID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Token is missing staff id or role")
			return
		}

		c.Set(ContextStaffIDKey, claims.StaffID)
		c.Set(ContextStaffRoleKey, claims.Role)
		c.Next()
	}
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware lets the request through only for the listed roles. It runs after AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := staffRole(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "Not authenticated")
			return
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Role %q may not perform this action", role))
	}
}

// RequestLogger logs one line per request through the application logger.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := staffID(c); ok {
			kv = append(kv, "staff_id", id)
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			log.Error("request", kv...)
		case status >= http.StatusBadRequest:
			log.Warn("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}

// CORS allows the configured browser origins.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func staffID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextStaffIDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

func staffRole(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Get(ContextStaffRoleKey)
	if !ok {
		return "", false
	}
	r, ok := role.(domain.Role)
	return r, ok
}
