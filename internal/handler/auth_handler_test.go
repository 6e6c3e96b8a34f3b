package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internalmiddleware "github.com/oarlock/boatplan-api/internal/middleware"
	"github.com/oarlock/boatplan-api/internal/models"
	"github.com/oarlock/boatplan-api/internal/service"
)

func testAuthHandlerService(t *testing.T) *service.AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("oars-up"), bcrypt.MinCost)
	require.NoError(t, err)
	return service.NewAuthService(nil, nil, service.AuthConfig{
		AdminUsername:     "coach",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		JWTExpiration:     time.Hour,
		Issuer:            "boatplan-test",
	})
}

func TestAuthLoginSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(testAuthHandlerService(t))

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{"username":"coach","password":"oars-up"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAuthHandler(testAuthHandlerService(t))

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{"username":"coach","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMeRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	authService := testAuthHandlerService(t)
	handler := NewAuthHandler(authService)
	router := gin.New()
	router.GET("/auth/me", internalmiddleware.JWT(authService), handler.Me)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	resp, err := authService.Login(models.LoginRequest{Username: "coach", Password: "oars-up"})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"username":"coach"`)
}
