package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbe-dev/urbe-backend/pkg/helpers"
)

func authTestRouter(jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString("userID")})
	})
	return r
}

func TestAuthMissingToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "No Token found! Access denied", body["msg"])
}

func TestAuthInvalidToken(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("x-auth-token", "not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid Token! you are not allowed to access this content", body["msg"])
}

func TestAuthValidTokenSetsUserID(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	r := authTestRouter(jwt)

	token, _, err := jwt.GenerateToken("user-42")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("x-auth-token", token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-42", body["uid"])
}

func TestAuthRejectsTokenSignedElsewhere(t *testing.T) {
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	other := helpers.NewJWTManager("another-secret", time.Hour)
	r := authTestRouter(jwt)

	token, _, err := other.GenerateToken("user-42")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("x-auth-token", token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
