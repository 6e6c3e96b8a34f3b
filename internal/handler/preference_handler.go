package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oarlock/boatplan-api/internal/dto"
	"github.com/oarlock/boatplan-api/internal/models"
	"github.com/oarlock/boatplan-api/internal/service"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
	"github.com/oarlock/boatplan-api/pkg/response"
)

type preferenceManager interface {
	List(ctx context.Context, query dto.PreferenceQuery) ([]models.Preference, *models.Pagination, error)
	Upsert(ctx context.Context, personID string, req dto.UpsertPreferencesRequest) ([]models.Preference, error)
}

// PreferenceHandler exposes wish list endpoints.
type PreferenceHandler struct {
	service preferenceManager
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// List godoc
// @Summary List stored preferences
// @Tags Preferences
// @Produce json
// @Param personId query string false "Person ID"
// @Param cohort query string false "Cohort name"
// @Param day query int false "Day of week (1=Monday)"
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) List(c *gin.Context) {
	query := dto.PreferenceQuery{
		PersonID: c.Query("personId"),
		Cohort:   c.Query("cohort"),
	}
	query.Page, _ = strconv.Atoi(c.Query("page"))
	query.PageSize, _ = strconv.Atoi(c.Query("pageSize"))
	if raw := c.Query("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "day must be an integer"))
			return
		}
		query.Day = &day
	}

	prefs, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, pagination)
}

// Upsert godoc
// @Summary Replace the wish list of one rower
// @Description Replaces all stored preferences for the person. Slots not listed become unavailable.
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.UpsertPreferencesRequest true "Wish list payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /people/{id}/preferences [put]
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	var req dto.UpsertPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	prefs, err := h.service.Upsert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prefs, nil)
}
