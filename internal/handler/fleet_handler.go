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

type fleetManager interface {
	List(ctx context.Context, query dto.BoatQuery) ([]models.Boat, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Boat, error)
	Create(ctx context.Context, req dto.CreateBoatRequest) (*models.Boat, error)
	Update(ctx context.Context, id string, req dto.UpdateBoatRequest) (*models.Boat, error)
	Delete(ctx context.Context, id string) error
}

// FleetHandler exposes hull CRUD endpoints.
type FleetHandler struct {
	service fleetManager
}

// NewFleetHandler constructs the handler.
func NewFleetHandler(svc *service.FleetService) *FleetHandler {
	return &FleetHandler{service: svc}
}

// List godoc
// @Summary List boats
// @Tags Fleet
// @Produce json
// @Param class query string false "Boat class"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /boats [get]
func (h *FleetHandler) List(c *gin.Context) {
	query := dto.BoatQuery{
		Class:  c.Query("class"),
		Search: c.Query("search"),
	}
	query.Page, _ = strconv.Atoi(c.Query("page"))
	query.PageSize, _ = strconv.Atoi(c.Query("pageSize"))
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		query.Active = &active
	}

	boats, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boats, pagination)
}

// Get godoc
// @Summary Get one boat
// @Tags Fleet
// @Produce json
// @Param id path string true "Boat ID"
// @Success 200 {object} response.Envelope
// @Router /boats/{id} [get]
func (h *FleetHandler) Get(c *gin.Context) {
	boat, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boat, nil)
}

// Create godoc
// @Summary Register a boat
// @Tags Fleet
// @Accept json
// @Produce json
// @Param payload body dto.CreateBoatRequest true "Boat payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /boats [post]
func (h *FleetHandler) Create(c *gin.Context) {
	var req dto.CreateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid boat payload"))
		return
	}
	boat, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, boat)
}

// Update godoc
// @Summary Update a boat
// @Tags Fleet
// @Accept json
// @Produce json
// @Param id path string true "Boat ID"
// @Param payload body dto.UpdateBoatRequest true "Boat payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /boats/{id} [put]
func (h *FleetHandler) Update(c *gin.Context) {
	var req dto.UpdateBoatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid boat payload"))
		return
	}
	boat, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, boat, nil)
}

// Delete godoc
// @Summary Remove a boat
// @Tags Fleet
// @Param id path string true "Boat ID"
// @Success 204
// @Security BearerAuth
// @Router /boats/{id} [delete]
func (h *FleetHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
