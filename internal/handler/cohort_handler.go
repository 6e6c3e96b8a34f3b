package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/oarlock/boatplan-api/internal/models"
	appErrors "github.com/oarlock/boatplan-api/pkg/errors"
	"github.com/oarlock/boatplan-api/pkg/response"
)

// CohortHandler exposes the built-in cohort presets.
type CohortHandler struct{}

// NewCohortHandler constructs a cohort handler.
func NewCohortHandler() *CohortHandler {
	return &CohortHandler{}
}

// List godoc
// @Summary List cohort presets
// @Description Cohort configurations with their periods, exclusions and utility values
// @Tags Cohorts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cohorts [get]
func (h *CohortHandler) List(c *gin.Context) {
	configs := models.CohortConfigs()
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]models.CohortConfig, 0, len(names))
	for _, name := range names {
		items = append(items, configs[name])
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a cohort preset
// @Description Single cohort configuration by name
// @Tags Cohorts
// @Produce json
// @Param name path string true "Cohort name"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /cohorts/{name} [get]
func (h *CohortHandler) Get(c *gin.Context) {
	cfg, ok := models.CohortConfigByName(c.Param("name"))
	if !ok {
		response.Error(c, appErrors.ErrUnknownCohort)
		return
	}

	response.JSON(c, http.StatusOK, cfg, nil)
}
