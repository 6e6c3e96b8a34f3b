package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCohortListReturnsPresets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCohortHandler()
	router := gin.New()
	router.GET("/cohorts", handler.List)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cohorts", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"comp"`)
	require.Contains(t, w.Body.String(), `"rec_master"`)
}

func TestCohortGetUnknownName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCohortHandler()
	router := gin.New()
	router.GET("/cohorts/:name", handler.Get)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/cohorts/juniors", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
