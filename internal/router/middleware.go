package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/supplyhub/storefront-api/pkg/global"
)

// Context keys populated by AuthRequired.
const (
	ctxUserID    = "userId"
	ctxUserEmail = "userEmail"
	ctxUserRole  = "userRole"
)

// AuthRequired parses the bearer token and loads the caller's identity
// into the request context.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authentication required", nil))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid token signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid or expired token", nil))
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid token claims", nil))
			c.Abort()
			return
		}

		c.Set(ctxUserID, fmt.Sprint(claims["sub"]))
		c.Set(ctxUserEmail, fmt.Sprint(claims["email"]))
		c.Set(ctxUserRole, fmt.Sprint(claims["role"]))
		c.Next()
	}
}

// RequireRole is the single capability check applied to protected route
// groups. Must run after AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != role {
			c.JSON(http.StatusForbidden, global.ErrorResponse(
				fmt.Sprintf("Unauthorized - %s access required", role), nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(ctxUserRole) == "admin"
}
