package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opticampus/lab-scheduler/internal/dto"
	"github.com/opticampus/lab-scheduler/internal/service"
	appErrors "github.com/opticampus/lab-scheduler/pkg/errors"
	"github.com/opticampus/lab-scheduler/pkg/response"
)

// planningRunner is the subset of PlanningService the HTTP layer depends
// on, narrowed to an interface so handler tests can inject a mock.
type planningRunner interface {
	Generate(ctx context.Context, termID string) (*dto.GeneratePlanResponse, error)
	Create(ctx context.Context, termID string) (*dto.PlanningRunView, error)
	List(ctx context.Context, termID string) ([]dto.PlanningRunSummaryView, error)
	Get(ctx context.Context, id string) (*dto.PlanningRunView, error)
	Commit(ctx context.Context, id string) (*dto.PlanningRunView, error)
	Delete(ctx context.Context, id string) error
}

// PlanningHandler wires PlanningService to the planning-run HTTP routes.
type PlanningHandler struct {
	plans planningRunner
}

// NewPlanningHandler constructs a new PlanningHandler.
func NewPlanningHandler(plans *service.PlanningService) *PlanningHandler {
	return &PlanningHandler{plans: plans}
}

func requireTermID(c *gin.Context) (string, bool) {
	termID := strings.TrimSpace(c.Query("termId"))
	if termID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "termId query parameter is required"))
		return "", false
	}
	return termID, true
}

// Generate godoc
// @Summary Preview a planning run
// @Tags Planning
// @Produce json
// @Param payload body dto.GeneratePlanRequest true "Term to plan"
// @Success 200 {object} response.Envelope
// @Router /plans/generate [post]
func (h *PlanningHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan generation payload"))
		return
	}
	result, err := h.plans.Generate(c.Request.Context(), req.TermID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Create godoc
// @Summary Run the engine and persist a new draft planning run
// @Tags Planning
// @Accept json
// @Produce json
// @Param payload body dto.CreatePlanRequest true "Term to plan"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanningHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan creation payload"))
		return
	}
	run, err := h.plans.Create(c.Request.Context(), req.TermID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, run)
}

// List godoc
// @Summary List planning runs for a term
// @Tags Planning
// @Produce json
// @Param termId query string true "Term ID"
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanningHandler) List(c *gin.Context) {
	termID, ok := requireTermID(c)
	if !ok {
		return
	}
	runs, err := h.plans.List(c.Request.Context(), termID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, nil)
}

// Get godoc
// @Summary Fetch one stored planning run
// @Tags Planning
// @Produce json
// @Param id path string true "Planning run ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlanningHandler) Get(c *gin.Context) {
	run, err := h.plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Commit godoc
// @Summary Publish a draft planning run
// @Tags Planning
// @Produce json
// @Param id path string true "Planning run ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id}/commit [post]
func (h *PlanningHandler) Commit(c *gin.Context) {
	run, err := h.plans.Commit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Delete godoc
// @Summary Remove a draft planning run
// @Tags Planning
// @Param id path string true "Planning run ID"
// @Success 204
// @Router /plans/{id} [delete]
func (h *PlanningHandler) Delete(c *gin.Context) {
	if err := h.plans.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
