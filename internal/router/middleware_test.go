package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "pat@example.com",
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func signHS256(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

// protectedEngine mounts a route behind AuthRequired that echoes the
// identity the middleware loaded into the context, and an admin-only
// route behind RequireRole.
func protectedEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": currentUserID(c),
			"email":  c.GetString(ctxUserEmail),
			"role":   c.GetString(ctxUserRole),
			"admin":  isAdmin(c),
		})
	})
	r.GET("/admin-only", AuthRequired(), RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	jwtSecret = []byte("test-secret")
	w := doRequest(protectedEngine(), "/me", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authentication required")
}

func TestAuthRequiredGarbageToken(t *testing.T) {
	jwtSecret = []byte("test-secret")
	w := doRequest(protectedEngine(), "/me", "Bearer not-a-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestAuthRequiredLoadsIdentityIntoContext(t *testing.T) {
	jwtSecret = []byte("test-secret")
	token := signHS256(t, jwtSecret, testClaims("user"))

	w := doRequest(protectedEngine(), "/me", "Bearer "+token)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "pat@example.com", body["email"])
	assert.Equal(t, "user", body["role"])
	assert.Equal(t, false, body["admin"])
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	jwtSecret = []byte("test-secret")
	claims := testClaims("user")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signHS256(t, jwtSecret, claims)

	w := doRequest(protectedEngine(), "/me", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredWrongSecret(t *testing.T) {
	jwtSecret = []byte("test-secret")
	token := signHS256(t, []byte("some-other-secret"), testClaims("user"))

	w := doRequest(protectedEngine(), "/me", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredRejectsUnsignedToken(t *testing.T) {
	jwtSecret = []byte("test-secret")
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, testClaims("admin")).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := doRequest(protectedEngine(), "/me", "Bearer "+token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsNonAdmin(t *testing.T) {
	jwtSecret = []byte("test-secret")
	token := signHS256(t, jwtSecret, testClaims("user"))

	w := doRequest(protectedEngine(), "/admin-only", "Bearer "+token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin access required")
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	jwtSecret = []byte("test-secret")
	token := signHS256(t, jwtSecret, testClaims("admin"))

	w := doRequest(protectedEngine(), "/admin-only", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
}
