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

type allocationPlanner interface {
	Generate(ctx context.Context, req dto.GeneratePlanRequest, generatedBy string) (*dto.GeneratePlanResponse, error)
	Save(ctx context.Context, req dto.SavePlanRequest) (*models.AllocationPlan, error)
	Get(ctx context.Context, id string) (*models.AllocationPlan, error)
	List(ctx context.Context, query dto.PlanQuery) ([]dto.PlanSummary, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

type planExporter interface {
	CSV(ctx context.Context, planID string) (*service.ExportResult, error)
	PDF(ctx context.Context, planID string) (*service.ExportResult, error)
}

// AllocationHandler exposes plan generation, persistence, and export.
type AllocationHandler struct {
	service  allocationPlanner
	exporter planExporter
}

// NewAllocationHandler constructs the handler.
func NewAllocationHandler(svc *service.AllocationService, exporter *service.ExportService) *AllocationHandler {
	return &AllocationHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Solve the weekly allocation for a cohort
// @Description Runs the assignment solver and returns a preview. Optimal runs carry a previewId usable with /plans/save.
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Generate plan payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/generate [post]
func (h *AllocationHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}

	generatedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		generatedBy = claims.Username
	}

	result, err := h.service.Generate(c.Request.Context(), req, generatedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Persist a previewed plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.SavePlanRequest true "Save plan payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /plans/save [post]
func (h *AllocationHandler) Save(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	plan, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// List godoc
// @Summary List stored plans
// @Tags Plans
// @Produce json
// @Param cohort query string false "Cohort name"
// @Param status query string false "Plan status"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *AllocationHandler) List(c *gin.Context) {
	query := dto.PlanQuery{
		Cohort: c.Query("cohort"),
		Status: c.Query("status"),
	}
	query.Page, _ = strconv.Atoi(c.Query("page"))
	query.PageSize, _ = strconv.Atoi(c.Query("pageSize"))

	summaries, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, pagination)
}

// Get godoc
// @Summary Get a stored plan with slots and fairness rows
// @Tags Plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	plan, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Delete godoc
// @Summary Delete a stored plan
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 204
// @Security BearerAuth
// @Router /plans/{id} [delete]
func (h *AllocationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Download a plan as CSV
// @Tags Plans
// @Produce text/csv
// @Param id path string true "Plan ID"
// @Success 200 {file} file
// @Router /plans/{id}/export/csv [get]
func (h *AllocationHandler) ExportCSV(c *gin.Context) {
	h.export(c, h.exporter.CSV)
}

// ExportPDF godoc
// @Summary Download a plan as a weekly grid PDF
// @Tags Plans
// @Produce application/pdf
// @Param id path string true "Plan ID"
// @Success 200 {file} file
// @Router /plans/{id}/export/pdf [get]
func (h *AllocationHandler) ExportPDF(c *gin.Context) {
	h.export(c, h.exporter.PDF)
}

func (h *AllocationHandler) export(c *gin.Context, render func(context.Context, string) (*service.ExportResult, error)) {
	result, err := render(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
