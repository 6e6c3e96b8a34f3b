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

type rosterManager interface {
	List(ctx context.Context, query dto.PersonQuery) ([]models.Person, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Person, error)
	Create(ctx context.Context, req dto.CreatePersonRequest) (*models.Person, error)
	Update(ctx context.Context, id string, req dto.UpdatePersonRequest) (*models.Person, error)
	Delete(ctx context.Context, id string) error
}

// RosterHandler exposes rower CRUD endpoints.
type RosterHandler struct {
	service rosterManager
}

// NewRosterHandler constructs the handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// List godoc
// @Summary List rowers
// @Tags Roster
// @Produce json
// @Param cohort query string false "Cohort name"
// @Param skill query string false "Skill level"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /people [get]
func (h *RosterHandler) List(c *gin.Context) {
	query := dto.PersonQuery{
		Cohort: c.Query("cohort"),
		Skill:  c.Query("skill"),
		Search: c.Query("search"),
	}
	query.Page, _ = strconv.Atoi(c.Query("page"))
	query.PageSize, _ = strconv.Atoi(c.Query("pageSize"))
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		query.Active = &active
	}

	people, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, people, pagination)
}

// Get godoc
// @Summary Get one rower
// @Tags Roster
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /people/{id} [get]
func (h *RosterHandler) Get(c *gin.Context) {
	person, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Create godoc
// @Summary Register a rower
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.CreatePersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /people [post]
func (h *RosterHandler) Create(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person payload"))
		return
	}
	person, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Update godoc
// @Summary Update a rower
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path string true "Person ID"
// @Param payload body dto.UpdatePersonRequest true "Person payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /people/{id} [put]
func (h *RosterHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid person payload"))
		return
	}
	person, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Delete godoc
// @Summary Remove a rower and their preferences
// @Tags Roster
// @Param id path string true "Person ID"
// @Success 204
// @Security BearerAuth
// @Router /people/{id} [delete]
func (h *RosterHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
